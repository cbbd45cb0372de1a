package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCandidate is one stock row considered when pricing a product.
type RateCandidate struct {
	Rate    decimal.Decimal
	AddedAt time.Time
}

// LatestRate picks the price of the most recently added candidate. Intake and
// settlement always price at the newest stock entry, never an average or an
// older row. ok is false when no candidate exists.
func LatestRate(candidates []RateCandidate) (rate decimal.Decimal, ok bool) {
	var newest time.Time
	for _, c := range candidates {
		if !ok || c.AddedAt.After(newest) {
			rate, newest, ok = c.Rate, c.AddedAt, true
		}
	}
	return rate, ok
}
