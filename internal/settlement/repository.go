package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/stock"
)

// Repository reads the ledger tables the engine aggregates over. Every query
// takes the company id explicitly; there is no ambient tenant state.
type Repository interface {
	Company(ctx context.Context, companyID int64) (*CompanyInfo, error)
	WeeklyIntake(ctx context.Context, companyID int64, from, to time.Time) ([]IntakeRow, error)
	LatestRate(ctx context.Context, companyID int64, product string) (decimal.Decimal, error)
	DailySummary(ctx context.Context, companyID int64, day time.Time) (*DailySummary, error)
	ActiveCompanyIDs(ctx context.Context) ([]int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ErrCompanyNotFound indicates an unknown tenant.
var ErrCompanyNotFound = errors.New("settlement: company not found")

func (r *repository) Company(ctx context.Context, companyID int64) (*CompanyInfo, error) {
	const query = `SELECT id, name, owner_phone FROM companies WHERE id = $1`
	var info CompanyInfo
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(&info.ID, &info.Name, &info.OwnerPhone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("settlement: load company: %w", err)
	}
	return &info, nil
}

func (r *repository) WeeklyIntake(ctx context.Context, companyID int64, from, to time.Time) ([]IntakeRow, error) {
	const query = `
		SELECT s.id, s.name, s.contact, p.product_name, p.created_at::date AS day, SUM(p.quantity)
		FROM purchases p
		JOIN suppliers s ON s.id = p.supplier_id AND s.company_id = p.company_id
		WHERE p.company_id = $1
		  AND p.created_at::date BETWEEN $2::date AND $3::date
		GROUP BY s.id, s.name, s.contact, p.product_name, p.created_at::date
		ORDER BY s.id, p.product_name, day`
	rows, err := r.pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("settlement: weekly intake: %w", err)
	}
	defer rows.Close()

	var out []IntakeRow
	for rows.Next() {
		var row IntakeRow
		if err := rows.Scan(&row.SupplierID, &row.SupplierName, &row.Phone, &row.Product, &row.Day, &row.Quantity); err != nil {
			return nil, fmt.Errorf("settlement: scan intake row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LatestRate returns the most recently added stock row's purchase price for a
// product. Most-recent-wins is the business's pricing policy, not an average.
func (r *repository) LatestRate(ctx context.Context, companyID int64, product string) (decimal.Decimal, error) {
	const query = `
		SELECT purchase_price, added_at FROM stock
		WHERE company_id = $1 AND product_name = $2`
	rows, err := r.pool.Query(ctx, query, companyID, product)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlement: latest rate: %w", err)
	}
	defer rows.Close()

	var candidates []stock.RateCandidate
	for rows.Next() {
		var c stock.RateCandidate
		if err := rows.Scan(&c.Rate, &c.AddedAt); err != nil {
			return decimal.Zero, fmt.Errorf("settlement: scan rate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("settlement: latest rate: %w", err)
	}
	rate, ok := stock.LatestRate(candidates)
	if !ok {
		return decimal.Zero, ErrNoRate
	}
	return rate, nil
}

func (r *repository) DailySummary(ctx context.Context, companyID int64, day time.Time) (*DailySummary, error) {
	summary := &DailySummary{Day: day}

	const intakeQuery = `
		SELECT COALESCE(SUM(quantity), 0) FROM purchases
		WHERE company_id = $1 AND created_at::date = $2::date`
	if err := r.pool.QueryRow(ctx, intakeQuery, companyID, day).Scan(&summary.IntakeLitres); err != nil {
		return nil, fmt.Errorf("settlement: daily intake: %w", err)
	}

	const salesQuery = `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(total_price), 0) FROM sales
		WHERE company_id = $1 AND sale_date::date = $2::date`
	var salesValue decimal.Decimal
	if err := r.pool.QueryRow(ctx, salesQuery, companyID, day).Scan(&summary.SalesLitres, &salesValue); err != nil {
		return nil, fmt.Errorf("settlement: daily sales: %w", err)
	}

	// Channel split: the named wholesale buyer, walk-in locals, everyone else.
	const channelQuery = `
		SELECT
			CASE
				WHEN customer = 'Brookside' THEN 'Brookside'
				WHEN customer = 'Local' THEN 'Local'
				ELSE 'Other'
			END AS channel,
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_price), 0)
		FROM sales
		WHERE company_id = $1 AND sale_date::date = $2::date
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.pool.Query(ctx, channelQuery, companyID, day)
	if err != nil {
		return nil, fmt.Errorf("settlement: channel split: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ch ChannelSales
		if err := rows.Scan(&ch.Channel, &ch.Quantity, &ch.Value); err != nil {
			return nil, fmt.Errorf("settlement: scan channel: %w", err)
		}
		summary.Channels = append(summary.Channels, ch)
		summary.CumulativeSales = summary.CumulativeSales.Add(ch.Value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.Variance = summary.SalesLitres.Sub(summary.IntakeLitres)
	return summary, nil
}

func (r *repository) ActiveCompanyIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM companies WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("settlement: active companies: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("settlement: scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
