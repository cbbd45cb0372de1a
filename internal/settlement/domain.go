// Package settlement computes weekly supplier payouts from intake records and
// dispatches payroll notifications.
package settlement

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// Outcome classifies one supplier-product unit of work in a run.
type Outcome string

const (
	// OutcomeSent indicates the notification was accepted by the gateway.
	OutcomeSent Outcome = "SENT"
	// OutcomeSkippedNoRate indicates no stock row exists for the product.
	OutcomeSkippedNoRate Outcome = "SKIPPED_NO_RATE"
	// OutcomeSkippedBadPhone indicates the supplier contact failed validation.
	OutcomeSkippedBadPhone Outcome = "SKIPPED_BAD_PHONE"
	// OutcomeFailedTerminal indicates a permanent delivery failure (DND/blacklist).
	OutcomeFailedTerminal Outcome = "FAILED_TERMINAL"
	// OutcomeFailedTransient indicates a retriable transport failure.
	OutcomeFailedTransient Outcome = "FAILED_TRANSIENT"
)

// ErrAlreadySettled indicates the week has been processed for this company.
var ErrAlreadySettled = errors.New("settlement: week already settled")

// ErrNoRate indicates no stock row exists for a product.
var ErrNoRate = errors.New("settlement: no rate for product")

// IntakeRow is one (supplier, product, calendar day) aggregate from the
// purchases ledger.
type IntakeRow struct {
	SupplierID   int64
	SupplierName string
	Phone        string
	Product      string
	Day          time.Time
	Quantity     decimal.Decimal
}

// Statement is the computed weekly position for one supplier-product pair.
// Daily is indexed by one-based weekday (Sunday=1); only the first DaysElapsed
// entries are meaningful.
type Statement struct {
	SupplierID   int64
	SupplierName string
	Phone        string
	Product      string
	Daily        [shared.DaysPerWeek + 1]decimal.Decimal
	DaysElapsed  int
	Total        decimal.Decimal
	Rate         decimal.Decimal
	Gross        decimal.Decimal
	Deduction    decimal.Decimal
	Net          decimal.Decimal
}

// UnitResult is the structured outcome for one supplier-product group.
type UnitResult struct {
	SupplierID int64
	Product    string
	Outcome    Outcome
	Detail     string
}

// RunReport aggregates a whole settlement run for the scheduler.
type RunReport struct {
	RunID      uuid.UUID
	CompanyID  int64
	Week       shared.Week
	AsOf       time.Time
	Results    []UnitResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Count returns the number of units with the given outcome.
func (r *RunReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// ChannelSales is one customer channel's slice of today's sales.
type ChannelSales struct {
	Channel  string
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// DailySummary is the owner-facing operational snapshot for one day.
// Variance is sales quantity minus intake quantity; a quality-control signal,
// not a financial figure, and it may be negative.
type DailySummary struct {
	Day             time.Time
	IntakeLitres    decimal.Decimal
	SalesLitres     decimal.Decimal
	Channels        []ChannelSales
	CumulativeSales decimal.Decimal
	Variance        decimal.Decimal
}

// WeeklySummary is the owner-facing aggregate for a settlement week.
type WeeklySummary struct {
	Week          shared.Week
	AsOf          time.Time
	SupplierCount int
	TotalLitres   decimal.Decimal
	Gross         decimal.Decimal
	Deduction     decimal.Decimal
	NetPayable    decimal.Decimal
	DNDCount      int
}

// CompanyInfo is the business identity used in message headers and the owner
// notification destination.
type CompanyInfo struct {
	ID         int64
	Name       string
	OwnerPhone string
}
