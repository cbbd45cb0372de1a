package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Series maps a bucket index (weekday 1..7 or month 1..12) to a money value.
// Buckets without activity are simply absent; the service zero-fills.
type Series map[int]decimal.Decimal

// Repository reads the dashboard aggregates. Every query takes the company id
// explicitly.
type Repository interface {
	Totals(ctx context.Context, companyID int64, weekStart, weekEnd time.Time) (*Totals, error)
	DailySeries(ctx context.Context, companyID int64, weekStart, weekEnd time.Time) (sales, purchases, expenses Series, err error)
	MonthlySeries(ctx context.Context, companyID int64, year int) (sales, purchases, expenses Series, err error)
	RecentExpenses(ctx context.Context, companyID int64, limit int) ([]Expense, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Totals(ctx context.Context, companyID int64, weekStart, weekEnd time.Time) (*Totals, error) {
	const query = `
		SELECT
			(SELECT COALESCE(SUM(total_price), 0) FROM sales
			 WHERE company_id = $1 AND sale_date::date BETWEEN $2::date AND $3::date),
			(SELECT COALESCE(SUM(total), 0) FROM purchases
			 WHERE company_id = $1 AND created_at::date BETWEEN $2::date AND $3::date),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses
			 WHERE company_id = $1 AND created_at::date BETWEEN $2::date AND $3::date),
			(SELECT COUNT(*) FROM products WHERE company_id = $1),
			(SELECT COUNT(*) FROM suppliers WHERE company_id = $1),
			(SELECT COUNT(*) FROM users WHERE company_id = $1),
			(SELECT COALESCE(SUM(quantity), 0) FROM stock WHERE company_id = $1)`
	var t Totals
	if err := r.pool.QueryRow(ctx, query, companyID, weekStart, weekEnd).Scan(
		&t.Sales, &t.Purchases, &t.Expenses,
		&t.Products, &t.Suppliers, &t.Staff, &t.Stock,
	); err != nil {
		return nil, fmt.Errorf("dashboard: totals: %w", err)
	}
	return &t, nil
}

// scanSeries collects (bucket, value) rows into a Series.
func (r *repository) scanSeries(ctx context.Context, query string, args ...any) (Series, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make(Series)
	for rows.Next() {
		var bucket int
		var value decimal.Decimal
		if err := rows.Scan(&bucket, &value); err != nil {
			return nil, err
		}
		series[bucket] = value
	}
	return series, rows.Err()
}

// DailySeries buckets the week's money flows by weekday, Sunday=1.
func (r *repository) DailySeries(ctx context.Context, companyID int64, weekStart, weekEnd time.Time) (Series, Series, Series, error) {
	const salesQuery = `
		SELECT EXTRACT(DOW FROM sale_date)::int + 1, COALESCE(SUM(total_price), 0)
		FROM sales
		WHERE company_id = $1 AND sale_date::date BETWEEN $2::date AND $3::date
		GROUP BY 1`
	const purchasesQuery = `
		SELECT EXTRACT(DOW FROM created_at)::int + 1, COALESCE(SUM(total), 0)
		FROM purchases
		WHERE company_id = $1 AND created_at::date BETWEEN $2::date AND $3::date
		GROUP BY 1`
	const expensesQuery = `
		SELECT EXTRACT(DOW FROM created_at)::int + 1, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE company_id = $1 AND created_at::date BETWEEN $2::date AND $3::date
		GROUP BY 1`

	sales, err := r.scanSeries(ctx, salesQuery, companyID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: daily sales: %w", err)
	}
	purchases, err := r.scanSeries(ctx, purchasesQuery, companyID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: daily purchases: %w", err)
	}
	expenses, err := r.scanSeries(ctx, expensesQuery, companyID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: daily expenses: %w", err)
	}
	return sales, purchases, expenses, nil
}

// MonthlySeries buckets one calendar year's money flows by month, January=1.
func (r *repository) MonthlySeries(ctx context.Context, companyID int64, year int) (Series, Series, Series, error) {
	const salesQuery = `
		SELECT EXTRACT(MONTH FROM sale_date)::int, COALESCE(SUM(total_price), 0)
		FROM sales
		WHERE company_id = $1 AND EXTRACT(YEAR FROM sale_date) = $2
		GROUP BY 1`
	const purchasesQuery = `
		SELECT EXTRACT(MONTH FROM created_at)::int, COALESCE(SUM(total), 0)
		FROM purchases
		WHERE company_id = $1 AND EXTRACT(YEAR FROM created_at) = $2
		GROUP BY 1`
	const expensesQuery = `
		SELECT EXTRACT(MONTH FROM created_at)::int, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE company_id = $1 AND EXTRACT(YEAR FROM created_at) = $2
		GROUP BY 1`

	sales, err := r.scanSeries(ctx, salesQuery, companyID, year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: monthly sales: %w", err)
	}
	purchases, err := r.scanSeries(ctx, purchasesQuery, companyID, year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: monthly purchases: %w", err)
	}
	expenses, err := r.scanSeries(ctx, expensesQuery, companyID, year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dashboard: monthly expenses: %w", err)
	}
	return sales, purchases, expenses, nil
}

func (r *repository) RecentExpenses(ctx context.Context, companyID int64, limit int) ([]Expense, error) {
	const query = `
		SELECT id, category, amount, created_at
		FROM expenses
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: recent expenses: %w", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("dashboard: scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
