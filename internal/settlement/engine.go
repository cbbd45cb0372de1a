package settlement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// deductionTier is one inclusive upper bound of the charge schedule.
type deductionTier struct {
	upTo decimal.Decimal
	fee  decimal.Decimal
}

// deductionSchedule is evaluated in ascending order; the first tier whose
// bound is not exceeded wins. Amounts above the highest finite bound pay the
// flat fallthrough fee. Fees are absolute KES amounts, never percentages.
var deductionSchedule = []deductionTier{
	{upTo: decimal.NewFromInt(100), fee: decimal.Zero},
	{upTo: decimal.NewFromInt(500), fee: decimal.NewFromInt(10)},
	{upTo: decimal.NewFromInt(1000), fee: decimal.NewFromInt(20)},
	{upTo: decimal.NewFromInt(2000), fee: decimal.NewFromInt(30)},
	{upTo: decimal.NewFromInt(4000), fee: decimal.NewFromInt(40)},
	{upTo: decimal.NewFromInt(5000), fee: decimal.NewFromInt(50)},
	{upTo: decimal.NewFromInt(9999), fee: decimal.NewFromInt(60)},
}

// fallthroughFee applies to gross amounts above the last finite tier.
var fallthroughFee = decimal.NewFromInt(100)

// DeductionFor returns the flat charge for a gross payout amount.
func DeductionFor(gross decimal.Decimal) decimal.Decimal {
	for _, tier := range deductionSchedule {
		if gross.Cmp(tier.upTo) <= 0 {
			return tier.fee
		}
	}
	return fallthroughFee
}

// groupKey identifies one supplier-product pair within a run.
type groupKey struct {
	supplierID int64
	product    string
}

// RateResolver returns the current unit rate for a product, or ErrNoRate.
type RateResolver func(product string) (decimal.Decimal, error)

// BuildStatements turns day-level intake rows into per-pair weekly statements.
//
// Buckets are zero-filled for every elapsed day of the window so a quiet
// Tuesday still shows up as "DAY 3: 0L". Rows dated after asOf are discarded:
// a mid-week run must never count future days, even if clock-skewed rows exist
// in the ledger. Pairs whose product has no resolvable rate are returned
// separately so the caller can record the skip without aborting the others.
func BuildStatements(week shared.Week, asOf time.Time, rows []IntakeRow, rate RateResolver) (statements []Statement, noRate []Statement) {
	asOfDay := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, week.Start().Location())
	daysElapsed := int(asOfDay.Sub(week.Start()).Hours()/24) + 1
	if daysElapsed > shared.DaysPerWeek {
		daysElapsed = shared.DaysPerWeek
	}
	if daysElapsed < 1 {
		return nil, nil
	}

	groups := make(map[groupKey]*Statement)
	for _, row := range rows {
		if !week.Contains(row.Day) || row.Day.After(asOfDay) {
			continue
		}
		key := groupKey{supplierID: row.SupplierID, product: row.Product}
		st, ok := groups[key]
		if !ok {
			st = &Statement{
				SupplierID:   row.SupplierID,
				SupplierName: row.SupplierName,
				Phone:        row.Phone,
				Product:      row.Product,
				DaysElapsed:  daysElapsed,
			}
			groups[key] = st
		}
		idx := week.DayIndex(row.Day)
		st.Daily[idx] = st.Daily[idx].Add(row.Quantity)
	}

	rates := make(map[string]decimal.Decimal)
	misses := make(map[string]bool)
	for key := range groups {
		if _, seen := rates[key.product]; seen || misses[key.product] {
			continue
		}
		r, err := rate(key.product)
		if err != nil {
			misses[key.product] = true
			continue
		}
		rates[key.product] = r
	}

	for key, st := range groups {
		for d := 1; d <= st.DaysElapsed; d++ {
			st.Total = st.Total.Add(st.Daily[d])
		}
		if misses[key.product] {
			noRate = append(noRate, *st)
			continue
		}
		st.Rate = rates[key.product]
		st.Gross = st.Total.Mul(st.Rate)
		st.Deduction = DeductionFor(st.Gross)
		st.Net = st.Gross.Sub(st.Deduction)
		statements = append(statements, *st)
	}

	// deterministic output for logging and tests; dispatch order is not
	// otherwise observable
	sortStatements(statements)
	sortStatements(noRate)
	return statements, noRate
}

func sortStatements(sts []Statement) {
	sort.Slice(sts, func(i, j int) bool {
		if sts[i].SupplierID != sts[j].SupplierID {
			return sts[i].SupplierID < sts[j].SupplierID
		}
		return sts[i].Product < sts[j].Product
	})
}
