package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// Repository reads the report row sets. Every query takes the company id
// explicitly; there is no ambient tenant state.
type Repository interface {
	CompanyName(ctx context.Context, companyID int64) (string, error)
	Stock(ctx context.Context, companyID int64) ([]StockRow, error)
	Sales(ctx context.Context, companyID int64, filter TimeFilter) ([]SalesRow, error)
	Purchases(ctx context.Context, companyID int64, filter TimeFilter) ([]PurchaseRow, error)
	Suppliers(ctx context.Context, companyID int64, filter TimeFilter) ([]SupplierWeekRow, error)
	Products(ctx context.Context, companyID int64) ([]ProductRow, error)
	Expenses(ctx context.Context, companyID int64, filter TimeFilter) ([]ExpenseRow, error)
	Users(ctx context.Context, companyID int64) ([]UserRow, error)
	Daily(ctx context.Context, companyID int64, day time.Time) ([]DailyLine, error)
}

// ErrCompanyNotFound indicates an unknown tenant.
var ErrCompanyNotFound = errors.New("reports: company not found")

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// datePredicate returns the SQL fragment narrowing column to the filter's
// rolling window. column always comes from the fixed set below, never from
// request input; there is one fragment per (filter, column) pair and nothing
// else can reach a query. The week window starts on Sunday to match the
// settlement week.
func datePredicate(filter TimeFilter, column string) string {
	switch filter {
	case FilterDay:
		return fmt.Sprintf(" AND %s::date = CURRENT_DATE", column)
	case FilterWeek:
		return fmt.Sprintf(
			" AND %s::date >= CURRENT_DATE - EXTRACT(DOW FROM CURRENT_DATE)::int AND %s::date <= CURRENT_DATE",
			column, column)
	case FilterMonth:
		return fmt.Sprintf(" AND date_trunc('month', %s) = date_trunc('month', CURRENT_DATE)", column)
	case FilterYear:
		return fmt.Sprintf(" AND date_trunc('year', %s) = date_trunc('year', CURRENT_DATE)", column)
	default:
		return ""
	}
}

func (r *repository) CompanyName(ctx context.Context, companyID int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM companies WHERE id = $1`, companyID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrCompanyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reports: load company: %w", err)
	}
	return name, nil
}

func (r *repository) Stock(ctx context.Context, companyID int64) ([]StockRow, error) {
	const query = `
		SELECT id, product_name, quantity, purchase_price, selling_price
		FROM stock
		WHERE company_id = $1
		ORDER BY product_name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: stock: %w", err)
	}
	defer rows.Close()

	var out []StockRow
	for rows.Next() {
		var row StockRow
		if err := rows.Scan(&row.ID, &row.Product, &row.Quantity, &row.PurchasePrice, &row.SellingPrice); err != nil {
			return nil, fmt.Errorf("reports: scan stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) Sales(ctx context.Context, companyID int64, filter TimeFilter) ([]SalesRow, error) {
	query := `
		SELECT id, customer, product_name, quantity, total_price, sale_date
		FROM sales
		WHERE company_id = $1` + datePredicate(filter, "sale_date") + `
		ORDER BY sale_date DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: sales: %w", err)
	}
	defer rows.Close()

	var out []SalesRow
	for rows.Next() {
		var row SalesRow
		if err := rows.Scan(&row.ID, &row.Customer, &row.Product, &row.Quantity, &row.TotalPrice, &row.SaleDate); err != nil {
			return nil, fmt.Errorf("reports: scan sales row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) Purchases(ctx context.Context, companyID int64, filter TimeFilter) ([]PurchaseRow, error) {
	query := `
		SELECT id, product_name, quantity, purchase_price, total, status, COALESCE(return_quantity, 0)
		FROM purchases
		WHERE company_id = $1` + datePredicate(filter, "created_at") + `
		ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: purchases: %w", err)
	}
	defer rows.Close()

	var out []PurchaseRow
	for rows.Next() {
		var row PurchaseRow
		if err := rows.Scan(&row.ID, &row.Product, &row.Quantity, &row.PurchasePrice, &row.Total, &row.Status, &row.ReturnQuantity); err != nil {
			return nil, fmt.Errorf("reports: scan purchase row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Suppliers returns one row per supplier with intake split by weekday,
// Sunday=1 through Saturday=7. Suppliers without deliveries in the window
// still appear with zero columns.
func (r *repository) Suppliers(ctx context.Context, companyID int64, filter TimeFilter) ([]SupplierWeekRow, error) {
	query := `
		SELECT
			s.id, s.name, s.contact, COALESCE(s.address, ''),
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 0 THEN p.quantity ELSE 0 END), 0) AS d1,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 1 THEN p.quantity ELSE 0 END), 0) AS d2,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 2 THEN p.quantity ELSE 0 END), 0) AS d3,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 3 THEN p.quantity ELSE 0 END), 0) AS d4,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 4 THEN p.quantity ELSE 0 END), 0) AS d5,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 5 THEN p.quantity ELSE 0 END), 0) AS d6,
			COALESCE(SUM(CASE WHEN EXTRACT(DOW FROM p.created_at) = 6 THEN p.quantity ELSE 0 END), 0) AS d7,
			COALESCE(SUM(p.quantity), 0) AS total,
			COALESCE(MAX(p.purchase_price), 0) AS rate,
			COALESCE(SUM(p.total), 0) AS total_amount
		FROM suppliers s
		LEFT JOIN purchases p
			ON p.supplier_id = s.id
			AND p.company_id = $1` + datePredicate(filter, "p.created_at") + `
		WHERE s.company_id = $1
		GROUP BY s.id, s.name, s.contact, s.address
		ORDER BY s.name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: suppliers: %w", err)
	}
	defer rows.Close()

	var out []SupplierWeekRow
	for rows.Next() {
		var row SupplierWeekRow
		dests := []any{&row.ID, &row.Name, &row.Contact, &row.Category}
		for d := int(shared.Sunday); d <= int(shared.Saturday); d++ {
			dests = append(dests, &row.Daily[d])
		}
		dests = append(dests, &row.Total, &row.Rate, &row.TotalAmount)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("reports: scan supplier row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) Products(ctx context.Context, companyID int64) ([]ProductRow, error) {
	const query = `SELECT id, name FROM products WHERE company_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: products: %w", err)
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var row ProductRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("reports: scan product row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) Expenses(ctx context.Context, companyID int64, filter TimeFilter) ([]ExpenseRow, error) {
	query := `
		SELECT id, category, amount, created_at
		FROM expenses
		WHERE company_id = $1` + datePredicate(filter, "created_at") + `
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.ID, &row.Category, &row.Amount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("reports: scan expense row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) Users(ctx context.Context, companyID int64) ([]UserRow, error) {
	const query = `SELECT id, username, role FROM users WHERE company_id = $1 ORDER BY username`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("reports: users: %w", err)
	}
	defer rows.Close()

	var out []UserRow
	for rows.Next() {
		var row UserRow
		if err := rows.Scan(&row.ID, &row.Username, &row.Role); err != nil {
			return nil, fmt.Errorf("reports: scan user row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Daily builds the composite daily operations report: intake, sales litres,
// the per-channel sales split, the sales-minus-intake variance and the
// cumulative sales value, all for one calendar day.
func (r *repository) Daily(ctx context.Context, companyID int64, day time.Time) ([]DailyLine, error) {
	var intake decimal.Decimal
	const intakeQuery = `
		SELECT COALESCE(SUM(quantity), 0) FROM purchases
		WHERE company_id = $1 AND created_at::date = $2::date`
	if err := r.pool.QueryRow(ctx, intakeQuery, companyID, day).Scan(&intake); err != nil {
		return nil, fmt.Errorf("reports: daily intake: %w", err)
	}

	const salesQuery = `
		SELECT
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_price), 0),
			COALESCE(SUM(quantity) FILTER (WHERE customer = 'Brookside'), 0),
			COALESCE(SUM(total_price) FILTER (WHERE customer = 'Brookside'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE customer = 'Local'), 0),
			COALESCE(SUM(total_price) FILTER (WHERE customer = 'Local'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE customer NOT IN ('Brookside', 'Local')), 0),
			COALESCE(SUM(total_price) FILTER (WHERE customer NOT IN ('Brookside', 'Local')), 0)
		FROM sales
		WHERE company_id = $1 AND sale_date::date = $2::date`
	var salesQty, salesValue, brQty, brVal, loQty, loVal, otQty, otVal decimal.Decimal
	if err := r.pool.QueryRow(ctx, salesQuery, companyID, day).Scan(
		&salesQty, &salesValue, &brQty, &brVal, &loQty, &loVal, &otQty, &otVal,
	); err != nil {
		return nil, fmt.Errorf("reports: daily sales: %w", err)
	}

	variance := salesQty.Sub(intake)
	lines := []DailyLine{
		{Kind: "Total Purchases (Intake)", Quantity: &intake},
		{Kind: "Total Sales (Liters)", Quantity: &salesQty},
		{Kind: "Sales to Brookside", Quantity: &brQty, Customer: "Brookside", Total: &brVal},
		{Kind: "Sales to Local Customers", Quantity: &loQty, Customer: "Local Sales", Total: &loVal},
		{Kind: "Sales to Mulot/Other", Quantity: &otQty, Customer: "Mulot/Other", Total: &otVal},
		{Kind: "Variance (Sales - Intake)", Quantity: &variance},
		{Kind: "Cumulative Sales Total", Total: &salesValue},
	}
	return lines, nil
}
