package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// Builder assembles the view model for one report type from repository rows.
type Builder struct {
	repo Repository
	now  func() time.Time
}

// NewBuilder constructs a builder. now is optional and exists for tests.
func NewBuilder(repo Repository, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{repo: repo, now: now}
}

// Build loads and formats one report. An unknown type is a programming error
// here; handlers validate with ParseType first. Empty row sets come back as an
// empty Rows slice; the caller decides whether that is a no-data condition.
func (b *Builder) Build(ctx context.Context, companyID int64, typ Type, filter TimeFilter) (*Report, error) {
	companyName, err := b.repo.CompanyName(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Type:        typ,
		CompanyName: companyName,
		Filter:      filter,
		GeneratedAt: b.now(),
	}

	switch typ {
	case TypeSales:
		err = b.buildSales(ctx, companyID, filter, rep)
	case TypeStock:
		err = b.buildStock(ctx, companyID, rep)
	case TypePurchases:
		err = b.buildPurchases(ctx, companyID, filter, rep)
	case TypeSuppliers:
		err = b.buildSuppliers(ctx, companyID, filter, rep)
	case TypeProducts:
		err = b.buildProducts(ctx, companyID, rep)
	case TypeExpenses:
		err = b.buildExpenses(ctx, companyID, filter, rep)
	case TypeUsers:
		err = b.buildUsers(ctx, companyID, rep)
	case TypeDailyReport:
		err = b.buildDaily(ctx, companyID, rep)
	default:
		err = ErrUnknownType
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func kes(v decimal.Decimal) string {
	return "KES " + v.StringFixed(2)
}

func (b *Builder) buildSales(ctx context.Context, companyID int64, filter TimeFilter, rep *Report) error {
	rows, err := b.repo.Sales(ctx, companyID, filter)
	if err != nil {
		return err
	}
	rep.Title = "Sales Report (By Customer)"
	rep.Headers = []string{"ID", "Customer Name", "Product Name", "Quantity", "Total Price", "Sale Date"}

	var total decimal.Decimal
	for _, r := range rows {
		total = total.Add(r.TotalPrice)
		rep.Rows = append(rep.Rows, []string{
			fmt.Sprint(r.ID), r.Customer, r.Product,
			r.Quantity.String(), r.TotalPrice.StringFixed(2),
			r.SaleDate.Format(shared.DisplayDate),
		})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Sales Records", Value: fmt.Sprint(len(rows))},
		{Label: "Total Sales Made", Value: kes(total)},
	}
	return nil
}

func (b *Builder) buildStock(ctx context.Context, companyID int64, rep *Report) error {
	rows, err := b.repo.Stock(ctx, companyID)
	if err != nil {
		return err
	}
	rep.Title = "Stock & Prices Report"
	rep.Headers = []string{"ID", "Product Name", "Quantity", "Purchase Price", "Selling Price"}

	// valuation uses the selling price, the worth of stock on hand if sold
	var value decimal.Decimal
	for _, r := range rows {
		value = value.Add(r.SellingPrice.Mul(r.Quantity))
		rep.Rows = append(rep.Rows, []string{
			fmt.Sprint(r.ID), r.Product, r.Quantity.String(),
			r.PurchasePrice.StringFixed(2), r.SellingPrice.StringFixed(2),
		})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Products", Value: fmt.Sprint(len(rows))},
		{Label: "Total Stock Value", Value: kes(value)},
	}
	return nil
}

func (b *Builder) buildPurchases(ctx context.Context, companyID int64, filter TimeFilter, rep *Report) error {
	rows, err := b.repo.Purchases(ctx, companyID, filter)
	if err != nil {
		return err
	}
	rep.Title = "Purchases Report"
	rep.Headers = []string{"ID", "Product Name", "Quantity", "Purchase Price", "Total", "Status", "Returned Quantity"}

	var value decimal.Decimal
	var paid, returned int
	for _, r := range rows {
		value = value.Add(r.PurchasePrice.Mul(r.Quantity))
		if r.Status == "Paid" {
			paid++
		}
		if r.ReturnQuantity.IsPositive() {
			returned++
		}
		rep.Rows = append(rep.Rows, []string{
			fmt.Sprint(r.ID), r.Product, r.Quantity.String(),
			r.PurchasePrice.StringFixed(2), r.Total.StringFixed(2),
			r.Status, r.ReturnQuantity.String(),
		})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Purchases", Value: fmt.Sprint(len(rows))},
		{Label: "Total Paid Purchases", Value: fmt.Sprint(paid)},
		{Label: "Total Unpaid Purchases", Value: fmt.Sprint(len(rows) - paid)},
		{Label: "Purchases With Returns", Value: fmt.Sprint(returned)},
		{Label: "Total Purchase Value", Value: kes(value)},
	}
	return nil
}

func (b *Builder) buildSuppliers(ctx context.Context, companyID int64, filter TimeFilter, rep *Report) error {
	rows, err := b.repo.Suppliers(ctx, companyID, filter)
	if err != nil {
		return err
	}
	rep.Title = "Suppliers/Farmers Report"
	rep.Headers = []string{
		"ID", "Name", "Contact", "Category",
		"D1 (Sun)", "D2 (Mon)", "D3 (Tue)", "D4 (Wed)", "D5 (Thu)", "D6 (Fri)", "D7 (Sat)",
		"Totals", "Rate (KES/L)", "Total Amount (KES)",
	}

	for _, r := range rows {
		cells := []string{fmt.Sprint(r.ID), r.Name, r.Contact, r.Category}
		for d := int(shared.Sunday); d <= int(shared.Saturday); d++ {
			cells = append(cells, r.Daily[d].String())
		}
		cells = append(cells, r.Total.String(), r.Rate.StringFixed(2), r.TotalAmount.StringFixed(2))
		rep.Rows = append(rep.Rows, cells)
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Suppliers", Value: fmt.Sprint(len(rows))},
	}
	return nil
}

func (b *Builder) buildProducts(ctx context.Context, companyID int64, rep *Report) error {
	rows, err := b.repo.Products(ctx, companyID)
	if err != nil {
		return err
	}
	rep.Title = "Products Report"
	rep.Headers = []string{"ID", "Name"}
	for _, r := range rows {
		rep.Rows = append(rep.Rows, []string{fmt.Sprint(r.ID), r.Name})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Products", Value: fmt.Sprint(len(rows))},
	}
	return nil
}

func (b *Builder) buildExpenses(ctx context.Context, companyID int64, filter TimeFilter, rep *Report) error {
	rows, err := b.repo.Expenses(ctx, companyID, filter)
	if err != nil {
		return err
	}
	rep.Title = "Expenses Report"
	rep.Headers = []string{"ID", "Category", "Amount", "Date"}

	var total decimal.Decimal
	for _, r := range rows {
		total = total.Add(r.Amount)
		rep.Rows = append(rep.Rows, []string{
			fmt.Sprint(r.ID), r.Category, r.Amount.StringFixed(2),
			r.CreatedAt.Format(shared.DisplayDate),
		})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Expenses", Value: fmt.Sprint(len(rows))},
		{Label: "Total Expense Amount", Value: kes(total)},
	}
	return nil
}

func (b *Builder) buildUsers(ctx context.Context, companyID int64, rep *Report) error {
	rows, err := b.repo.Users(ctx, companyID)
	if err != nil {
		return err
	}
	rep.Title = "Users Report"
	rep.Headers = []string{"ID", "Username", "Role"}
	for _, r := range rows {
		rep.Rows = append(rep.Rows, []string{fmt.Sprint(r.ID), r.Username, r.Role})
	}
	rep.Summary = []SummaryItem{
		{Label: "Total System Users", Value: fmt.Sprint(len(rows))},
	}
	return nil
}

func (b *Builder) buildDaily(ctx context.Context, companyID int64, rep *Report) error {
	lines, err := b.repo.Daily(ctx, companyID, b.now())
	if err != nil {
		return err
	}
	rep.Title = "Daily Milk Summary Report"
	rep.Headers = []string{"Type", "Quantity (Liters)", "Customer", "Total (KES)"}

	var intake, salesQty, brookside, local decimal.Decimal
	for _, l := range lines {
		qty, total := "", ""
		if l.Quantity != nil {
			qty = l.Quantity.String()
		}
		if l.Total != nil {
			total = l.Total.StringFixed(2)
		}
		rep.Rows = append(rep.Rows, []string{l.Kind, qty, l.Customer, total})

		switch l.Kind {
		case "Total Purchases (Intake)":
			intake = deref(l.Quantity)
		case "Total Sales (Liters)":
			salesQty = deref(l.Quantity)
		case "Sales to Brookside":
			brookside = deref(l.Total)
		case "Sales to Local Customers":
			local = deref(l.Total)
		}
	}
	rep.Summary = []SummaryItem{
		{Label: "Total Intake (Liters)", Value: intake.String()},
		{Label: "Total Sales (Liters)", Value: salesQty.String()},
		{Label: "Brookside Sales", Value: kes(brookside)},
		{Label: "Local Sales", Value: kes(local)},
		{Label: "Cumulative Sales", Value: kes(brookside.Add(local))},
		{Label: "Variance (Sales - Intake)", Value: salesQty.Sub(intake).String() + " Liters"},
	}
	return nil
}

func deref(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
