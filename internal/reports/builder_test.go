package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	calls     int
	stock     []StockRow
	sales     []SalesRow
	purchases []PurchaseRow
	suppliers []SupplierWeekRow
	expenses  []ExpenseRow
	daily     []DailyLine
}

func (f *fakeRepo) CompanyName(context.Context, int64) (string, error) {
	return "Kertai Choronok Milk Center", nil
}

func (f *fakeRepo) Stock(context.Context, int64) ([]StockRow, error) {
	f.calls++
	return f.stock, nil
}

func (f *fakeRepo) Sales(context.Context, int64, TimeFilter) ([]SalesRow, error) {
	f.calls++
	return f.sales, nil
}

func (f *fakeRepo) Purchases(context.Context, int64, TimeFilter) ([]PurchaseRow, error) {
	f.calls++
	return f.purchases, nil
}

func (f *fakeRepo) Suppliers(context.Context, int64, TimeFilter) ([]SupplierWeekRow, error) {
	f.calls++
	return f.suppliers, nil
}

func (f *fakeRepo) Products(context.Context, int64) ([]ProductRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRepo) Expenses(context.Context, int64, TimeFilter) ([]ExpenseRow, error) {
	f.calls++
	return f.expenses, nil
}

func (f *fakeRepo) Users(context.Context, int64) ([]UserRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRepo) Daily(context.Context, int64, time.Time) ([]DailyLine, error) {
	f.calls++
	return f.daily, nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func fixedNow() time.Time {
	return time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC)
}

func TestParseTypeRejectsUnknown(t *testing.T) {
	for _, valid := range []string{"sales", "Stock", " suppliers ", "daily-report"} {
		_, err := ParseType(valid)
		require.NoError(t, err, valid)
	}
	_, err := ParseType("payroll")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestParseTimeFilterAllowList(t *testing.T) {
	for _, valid := range []string{"", "day", "week", "month", "year"} {
		_, err := ParseTimeFilter(valid)
		require.NoError(t, err, valid)
	}
	// anything outside the closed set is rejected before touching SQL
	for _, invalid := range []string{"previous-week", "1;DROP TABLE sales", "quarter"} {
		_, err := ParseTimeFilter(invalid)
		require.ErrorIs(t, err, ErrUnknownFilter, invalid)
	}
}

func TestBuildStockValuation(t *testing.T) {
	repo := &fakeRepo{stock: []StockRow{
		{ID: 1, Product: "Milk", Quantity: dec(100), PurchasePrice: dec(45), SellingPrice: dec(55)},
		{ID: 2, Product: "Mursik", Quantity: dec(20), PurchasePrice: dec(80), SellingPrice: dec(120)},
	}}
	b := NewBuilder(repo, fixedNow)

	rep, err := b.Build(context.Background(), 1, TypeStock, FilterNone)
	require.NoError(t, err)
	require.Equal(t, "Stock & Prices Report", rep.Title)
	require.Len(t, rep.Rows, 2)
	// 100*55 + 20*120 = 7900
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Stock Value", Value: "KES 7900.00"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Products", Value: "2"})
}

func TestBuildPurchasesPaidUnpaidSplit(t *testing.T) {
	repo := &fakeRepo{purchases: []PurchaseRow{
		{ID: 1, Product: "Milk", Quantity: dec(50), PurchasePrice: dec(45), Total: dec(2250), Status: "Paid"},
		{ID: 2, Product: "Milk", Quantity: dec(30), PurchasePrice: dec(45), Total: dec(1350), Status: "Pending"},
		{ID: 3, Product: "Milk", Quantity: dec(10), PurchasePrice: dec(45), Total: dec(450), Status: "Paid", ReturnQuantity: dec(2)},
	}}
	b := NewBuilder(repo, fixedNow)

	rep, err := b.Build(context.Background(), 1, TypePurchases, FilterWeek)
	require.NoError(t, err)
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Paid Purchases", Value: "2"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Unpaid Purchases", Value: "1"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Purchases With Returns", Value: "1"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Purchase Value", Value: "KES 4050.00"})
}

func TestBuildSuppliersWeekdayMatrix(t *testing.T) {
	row := SupplierWeekRow{ID: 7, Name: "Chebet", Contact: "+254700000001", Category: "Mulot",
		Total: dec(80), Rate: dec(45), TotalAmount: dec(3600)}
	row.Daily[1] = dec(50) // Sunday
	row.Daily[5] = dec(30) // Thursday
	repo := &fakeRepo{suppliers: []SupplierWeekRow{row}}
	b := NewBuilder(repo, fixedNow)

	rep, err := b.Build(context.Background(), 1, TypeSuppliers, FilterWeek)
	require.NoError(t, err)
	require.Equal(t, []string{
		"ID", "Name", "Contact", "Category",
		"D1 (Sun)", "D2 (Mon)", "D3 (Tue)", "D4 (Wed)", "D5 (Thu)", "D6 (Fri)", "D7 (Sat)",
		"Totals", "Rate (KES/L)", "Total Amount (KES)",
	}, rep.Headers)
	require.Equal(t, []string{"7", "Chebet", "+254700000001", "Mulot",
		"50", "0", "0", "0", "30", "0", "0", "80", "45.00", "3600.00"}, rep.Rows[0])
}

func TestBuildDailyReportSummary(t *testing.T) {
	intake, sales := dec(100), dec(90)
	brQty, brVal := dec(60), dec(3300)
	loQty, loVal := dec(30), dec(1800)
	variance := sales.Sub(intake)
	total := brVal.Add(loVal)
	repo := &fakeRepo{daily: []DailyLine{
		{Kind: "Total Purchases (Intake)", Quantity: &intake},
		{Kind: "Total Sales (Liters)", Quantity: &sales},
		{Kind: "Sales to Brookside", Quantity: &brQty, Customer: "Brookside", Total: &brVal},
		{Kind: "Sales to Local Customers", Quantity: &loQty, Customer: "Local Sales", Total: &loVal},
		{Kind: "Variance (Sales - Intake)", Quantity: &variance},
		{Kind: "Cumulative Sales Total", Total: &total},
	}}
	b := NewBuilder(repo, fixedNow)

	rep, err := b.Build(context.Background(), 1, TypeDailyReport, FilterNone)
	require.NoError(t, err)
	require.Contains(t, rep.Summary, SummaryItem{Label: "Brookside Sales", Value: "KES 3300.00"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Cumulative Sales", Value: "KES 5100.00"})
	require.Contains(t, rep.Summary, SummaryItem{Label: "Variance (Sales - Intake)", Value: "-10 Liters"})
}

func TestBuildExpensesTotals(t *testing.T) {
	repo := &fakeRepo{expenses: []ExpenseRow{
		{ID: 1, Category: "Transport", Amount: dec(500), CreatedAt: fixedNow()},
		{ID: 2, Category: "Fuel", Amount: dec(1200), CreatedAt: fixedNow()},
	}}
	b := NewBuilder(repo, fixedNow)

	rep, err := b.Build(context.Background(), 1, TypeExpenses, FilterMonth)
	require.NoError(t, err)
	require.Contains(t, rep.Summary, SummaryItem{Label: "Total Expense Amount", Value: "KES 1700.00"})
}
