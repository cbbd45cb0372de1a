package settlement

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

func TestFormatSupplierMessage(t *testing.T) {
	week := shared.WeekOf(day(2025, time.June, 5))
	asOf := day(2025, time.June, 5)
	st := Statement{
		SupplierName: "Chebet",
		Product:      "Milk",
		DaysElapsed:  5,
		Total:        d(80),
		Rate:         decimal.NewFromFloat(45),
		Gross:        d(3600),
		Deduction:    d(40),
		Net:          d(3560),
	}
	st.Daily[2] = d(50)
	st.Daily[4] = d(30)

	got := FormatSupplierMessage("Kertai Choronok Milk Center", week, asOf, st)
	want := strings.Join([]string{
		"Kertai Choronok Milk Center",
		"Week: 01 Jun 2025 To 05 Jun 2025",
		"Product: Milk",
		"DAY 1: 0L",
		"DAY 2: 50L",
		"DAY 3: 0L",
		"DAY 4: 30L",
		"DAY 5: 0L",
		"Total: 80L",
		"Rate: 45.00 KES/L",
		"Total Amount: 3600.00 KES",
		"Charges: 40.00 KES",
		"Net Pay: 3560.00 KES",
		"Thank you Chebet!",
	}, "\n")
	if got != want {
		t.Fatalf("message mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if strings.Contains(got, "DAY 6") || strings.Contains(got, "DAY 7") {
		t.Fatal("future days must be omitted, not zero-filled")
	}
}

func TestFormatOwnerDaily(t *testing.T) {
	s := DailySummary{
		Day:          day(2025, time.June, 5),
		IntakeLitres: d(600),
		SalesLitres:  d(580),
		Channels: []ChannelSales{
			{Channel: "Brookside", Quantity: d(500), Value: d(22500)},
			{Channel: "Local", Quantity: d(80), Value: d(4800)},
		},
		CumulativeSales: d(27300),
		Variance:        d(-20),
	}
	got := FormatOwnerDaily("Kertai Choronok Milk Center", s)
	for _, want := range []string{
		"Daily Summary 05 Jun 2025",
		"Intake: 600L",
		"Sales: 580L",
		"Brookside: 500L / 22500.00 KES",
		"Local: 80L / 4800.00 KES",
		"Cumulative Sales: 27300.00 KES",
		"Variance (Sales - Intake): -20L",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("daily summary missing %q:\n%s", want, got)
		}
	}
}

func TestFormatOwnerWeekly(t *testing.T) {
	week := shared.WeekOf(day(2025, time.June, 7))
	s := WeeklySummary{
		Week:          week,
		AsOf:          day(2025, time.June, 7),
		SupplierCount: 12,
		TotalLitres:   d(4200),
		Gross:         d(189000),
		Deduction:     d(100),
		NetPayable:    d(188900),
		DNDCount:      2,
	}
	got := FormatOwnerWeekly("Kertai Choronok Milk Center", s)
	for _, want := range []string{
		"Suppliers: 12",
		"Total Intake: 4200L",
		"Net Payable: 188900.00 KES",
		"Undeliverable (DND): 2",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("weekly summary missing %q:\n%s", want, got)
		}
	}
}
