package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func fixedRate(rate decimal.Decimal) RateResolver {
	return func(string) (decimal.Decimal, error) { return rate, nil }
}

func TestDeductionExactValues(t *testing.T) {
	cases := []struct {
		gross int64
		want  int64
	}{
		{0, 0},
		{100, 0},
		{101, 10},
		{500, 10},
		{501, 20},
		{1000, 20},
		{2000, 30},
		{4000, 40},
		{5000, 50},
		{9999, 60},
		{10000, 100},
	}
	for _, tc := range cases {
		got := DeductionFor(d(tc.gross))
		if !got.Equal(d(tc.want)) {
			t.Fatalf("DeductionFor(%d) = %s, want %d", tc.gross, got, tc.want)
		}
	}
}

func TestDeductionMonotonic(t *testing.T) {
	prev := decimal.Zero
	for gross := int64(0); gross <= 12000; gross += 50 {
		fee := DeductionFor(d(gross))
		if fee.Cmp(prev) < 0 {
			t.Fatalf("deduction decreased at gross=%d: %s < %s", gross, fee, prev)
		}
		prev = fee
	}
	// net stays non-negative through the highest finite tier
	for gross := int64(101); gross <= 9999; gross += 7 {
		net := d(gross).Sub(DeductionFor(d(gross)))
		if net.Sign() < 0 {
			t.Fatalf("net went negative at gross=%d", gross)
		}
	}
}

func TestBuildStatementsZeroFillsQuietDays(t *testing.T) {
	week := shared.WeekOf(day(2025, time.June, 1))
	asOf := day(2025, time.June, 7) // Saturday: full week elapsed
	rows := []IntakeRow{
		{SupplierID: 1, SupplierName: "Chebet", Phone: "+254712345678", Product: "Milk", Day: day(2025, time.June, 3), Quantity: d(40)}, // Tuesday
		{SupplierID: 1, SupplierName: "Chebet", Phone: "+254712345678", Product: "Milk", Day: day(2025, time.June, 6), Quantity: d(25)}, // Friday
	}
	statements, noRate := BuildStatements(week, asOf, rows, fixedRate(d(50)))
	if len(noRate) != 0 || len(statements) != 1 {
		t.Fatalf("expected exactly one priced statement, got %d/%d", len(statements), len(noRate))
	}
	st := statements[0]
	if st.DaysElapsed != 7 {
		t.Fatalf("expected 7 elapsed days, got %d", st.DaysElapsed)
	}
	wantDaily := []int64{0, 0, 0, 40, 0, 0, 25, 0}
	for idx := 1; idx <= 7; idx++ {
		if !st.Daily[idx].Equal(d(wantDaily[idx])) {
			t.Fatalf("day %d = %s, want %d", idx, st.Daily[idx], wantDaily[idx])
		}
	}
	if !st.Total.Equal(d(65)) {
		t.Fatalf("total = %s, want 65", st.Total)
	}
}

func TestBuildStatementsExcludesFutureDays(t *testing.T) {
	week := shared.WeekOf(day(2025, time.June, 4))
	asOf := day(2025, time.June, 4) // Wednesday
	rows := []IntakeRow{
		{SupplierID: 1, Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)}, // Monday
		{SupplierID: 1, Product: "Milk", Day: day(2025, time.June, 5), Quantity: d(99)}, // future Thursday, clock skew
		{SupplierID: 1, Product: "Milk", Day: day(2025, time.June, 7), Quantity: d(99)}, // future Saturday
	}
	statements, _ := BuildStatements(week, asOf, rows, fixedRate(d(10)))
	if len(statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(statements))
	}
	st := statements[0]
	if st.DaysElapsed != 4 {
		t.Fatalf("expected 4 elapsed days, got %d", st.DaysElapsed)
	}
	if !st.Total.Equal(d(10)) {
		t.Fatalf("future-dated rows leaked into total: %s", st.Total)
	}
}

func TestBuildStatementsRoundTripExample(t *testing.T) {
	// Mon=50L, Wed=30L at 45.00 KES/L, run on Thursday.
	week := shared.WeekOf(day(2025, time.June, 5))
	asOf := day(2025, time.June, 5)
	rows := []IntakeRow{
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(50)},
		{SupplierID: 1, SupplierName: "S1", Phone: "+254700000001", Product: "Milk", Day: day(2025, time.June, 4), Quantity: d(30)},
	}
	statements, _ := BuildStatements(week, asOf, rows, fixedRate(decimal.NewFromFloat(45.00)))
	if len(statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(statements))
	}
	st := statements[0]
	if !st.Total.Equal(d(80)) {
		t.Fatalf("total = %s, want 80", st.Total)
	}
	if !st.Gross.Equal(d(3600)) {
		t.Fatalf("gross = %s, want 3600", st.Gross)
	}
	if !st.Deduction.Equal(d(40)) {
		t.Fatalf("deduction = %s, want 40", st.Deduction)
	}
	if !st.Net.Equal(d(3560)) {
		t.Fatalf("net = %s, want 3560", st.Net)
	}
	if st.DaysElapsed != 5 {
		t.Fatalf("expected Sun..Thu (5 days), got %d", st.DaysElapsed)
	}
}

func TestBuildStatementsSeparatesUnpricedGroups(t *testing.T) {
	week := shared.WeekOf(day(2025, time.June, 1))
	asOf := day(2025, time.June, 7)
	rows := []IntakeRow{
		{SupplierID: 1, Product: "Milk", Day: day(2025, time.June, 2), Quantity: d(10)},
		{SupplierID: 2, Product: "Mursik", Day: day(2025, time.June, 2), Quantity: d(5)},
	}
	resolver := func(product string) (decimal.Decimal, error) {
		if product == "Milk" {
			return d(45), nil
		}
		return decimal.Zero, ErrNoRate
	}
	statements, noRate := BuildStatements(week, asOf, rows, resolver)
	if len(statements) != 1 || statements[0].Product != "Milk" {
		t.Fatalf("expected only the priced group, got %+v", statements)
	}
	if len(noRate) != 1 || noRate[0].Product != "Mursik" {
		t.Fatalf("expected the unpriced group reported separately, got %+v", noRate)
	}
	if !noRate[0].Total.Equal(d(5)) {
		t.Fatalf("unpriced group should still carry its litres, got %s", noRate[0].Total)
	}
}
