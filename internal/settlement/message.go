package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// FormatSupplierMessage renders the payroll SMS for one supplier-product
// statement. Day lines cover every elapsed day of the week starting at DAY 1
// (Sunday); future days are omitted entirely, not shown as zero.
func FormatSupplierMessage(business string, week shared.Week, asOf time.Time, st Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", business)
	fmt.Fprintf(&b, "Week: %s\n", week.Display(asOf))
	fmt.Fprintf(&b, "Product: %s\n", st.Product)
	for d := 1; d <= st.DaysElapsed; d++ {
		fmt.Fprintf(&b, "DAY %d: %sL\n", d, st.Daily[d].String())
	}
	fmt.Fprintf(&b, "Total: %sL\n", st.Total.String())
	fmt.Fprintf(&b, "Rate: %s KES/L\n", st.Rate.StringFixed(2))
	fmt.Fprintf(&b, "Total Amount: %s KES\n", st.Gross.StringFixed(2))
	fmt.Fprintf(&b, "Charges: %s KES\n", st.Deduction.StringFixed(2))
	fmt.Fprintf(&b, "Net Pay: %s KES\n", st.Net.StringFixed(2))
	fmt.Fprintf(&b, "Thank you %s!", st.SupplierName)
	return b.String()
}

// FormatOwnerDaily renders the daily operational snapshot for the business
// owner.
func FormatOwnerDaily(business string, s DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Daily Summary %s\n", business, s.Day.Format(shared.DisplayDate))
	fmt.Fprintf(&b, "Intake: %sL\n", s.IntakeLitres.String())
	fmt.Fprintf(&b, "Sales: %sL\n", s.SalesLitres.String())
	for _, ch := range s.Channels {
		fmt.Fprintf(&b, "%s: %sL / %s KES\n", ch.Channel, ch.Quantity.String(), ch.Value.StringFixed(2))
	}
	fmt.Fprintf(&b, "Cumulative Sales: %s KES\n", s.CumulativeSales.StringFixed(2))
	fmt.Fprintf(&b, "Variance (Sales - Intake): %sL", s.Variance.String())
	return b.String()
}

// FormatOwnerWeekly renders the week-to-date settlement aggregate for the
// business owner.
func FormatOwnerWeekly(business string, s WeeklySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Weekly Settlement %s\n", business, s.Week.Display(s.AsOf))
	fmt.Fprintf(&b, "Suppliers: %d\n", s.SupplierCount)
	fmt.Fprintf(&b, "Total Intake: %sL\n", s.TotalLitres.String())
	fmt.Fprintf(&b, "Gross: %s KES\n", s.Gross.StringFixed(2))
	fmt.Fprintf(&b, "Charges: %s KES\n", s.Deduction.StringFixed(2))
	fmt.Fprintf(&b, "Net Payable: %s KES\n", s.NetPayable.StringFixed(2))
	fmt.Fprintf(&b, "Undeliverable (DND): %d", s.DNDCount)
	return b.String()
}
