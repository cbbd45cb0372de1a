package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/platform/db"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/stock"
)

// Repository persists purchases. Intake and returns adjust the stock level in
// the same transaction so litres never drift between the two tables.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]Purchase, error)
	Get(ctx context.Context, companyID, id int64) (Purchase, error)
	// LatestRate returns the newest stock purchase price for a product.
	LatestRate(ctx context.Context, companyID int64, product string) (decimal.Decimal, error)
	// CreateWithStock inserts the purchase and adds its quantity to stock.
	CreateWithStock(ctx context.Context, p Purchase) (Purchase, error)
	MarkPaid(ctx context.Context, companyID, id int64) error
	// Return takes back part of a delivery: the purchase shrinks, the refund
	// comes off its total and the stock level drops by the returned litres.
	Return(ctx context.Context, companyID, id int64, quantity decimal.Decimal) (Purchase, error)
	Delete(ctx context.Context, companyID, id int64) error
}

// ErrNoStockEntry means the product has no stock row to price the intake from.
var ErrNoStockEntry = errors.New("purchases: product not found in stock")

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `
	p.id, p.company_id, p.supplier_id, s.name, p.product_name,
	p.quantity, p.purchase_price, p.total, p.status, COALESCE(p.return_quantity, 0), p.created_at`

func scanPurchase(row pgx.Row) (Purchase, error) {
	var p Purchase
	err := row.Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.SupplierName, &p.ProductName,
		&p.Quantity, &p.PurchasePrice, &p.Total, &p.Status, &p.ReturnQuantity, &p.CreatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Purchase, error) {
	query := `
		SELECT ` + columns + `
		FROM purchases p
		JOIN suppliers s ON s.id = p.supplier_id AND s.company_id = p.company_id
		WHERE p.company_id = $1
		ORDER BY p.id DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("purchases: list: %w", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("purchases: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Purchase, error) {
	query := `
		SELECT ` + columns + `
		FROM purchases p
		JOIN suppliers s ON s.id = p.supplier_id AND s.company_id = p.company_id
		WHERE p.company_id = $1 AND p.id = $2`
	p, err := scanPurchase(r.pool.QueryRow(ctx, query, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Purchase{}, fmt.Errorf("purchases: get: %w", err)
	}
	return p, nil
}

func (r *repository) LatestRate(ctx context.Context, companyID int64, product string) (decimal.Decimal, error) {
	const query = `
		SELECT purchase_price, added_at FROM stock
		WHERE company_id = $1 AND product_name = $2`
	rows, err := r.pool.Query(ctx, query, companyID, product)
	if err != nil {
		return decimal.Zero, fmt.Errorf("purchases: latest rate: %w", err)
	}
	defer rows.Close()

	var candidates []stock.RateCandidate
	for rows.Next() {
		var c stock.RateCandidate
		if err := rows.Scan(&c.Rate, &c.AddedAt); err != nil {
			return decimal.Zero, fmt.Errorf("purchases: scan rate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("purchases: latest rate: %w", err)
	}
	rate, ok := stock.LatestRate(candidates)
	if !ok {
		return decimal.Zero, ErrNoStockEntry
	}
	return rate, nil
}

func (r *repository) CreateWithStock(ctx context.Context, p Purchase) (Purchase, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO purchases (company_id, supplier_id, product_name, quantity, purchase_price, total, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insert,
			p.CompanyID, p.SupplierID, p.ProductName, p.Quantity, p.PurchasePrice, p.Total, p.Status,
		).Scan(&p.ID, &p.CreatedAt); err != nil {
			return fmt.Errorf("purchases: insert: %w", err)
		}

		const bump = `
			UPDATE stock SET quantity = quantity + $1
			WHERE company_id = $2 AND product_name = $3`
		if _, err := tx.Exec(ctx, bump, p.Quantity, p.CompanyID, p.ProductName); err != nil {
			return fmt.Errorf("purchases: bump stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return p, nil
}

func (r *repository) MarkPaid(ctx context.Context, companyID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE purchases SET status = $1 WHERE company_id = $2 AND id = $3`,
		StatusPaid, companyID, id)
	if err != nil {
		return fmt.Errorf("purchases: mark paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Return(ctx context.Context, companyID, id int64, quantity decimal.Decimal) (Purchase, error) {
	var out Purchase
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const lock = `
			SELECT product_name, quantity, purchase_price, total, COALESCE(return_quantity, 0)
			FROM purchases
			WHERE company_id = $1 AND id = $2
			FOR UPDATE`
		var product string
		var current, price, total, returned decimal.Decimal
		err := tx.QueryRow(ctx, lock, companyID, id).Scan(&product, &current, &price, &total, &returned)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("purchases: lock for return: %w", err)
		}

		if quantity.GreaterThan(current) {
			return fmt.Errorf("%w: return quantity exceeds purchased amount", httpx.ErrValidation)
		}

		refund := quantity.Mul(price)
		const update = `
			UPDATE purchases
			SET quantity = quantity - $1, total = $2, return_quantity = $3, status = $4
			WHERE company_id = $5 AND id = $6`
		if _, err := tx.Exec(ctx, update,
			quantity, total.Sub(refund), returned.Add(quantity), StatusReturned, companyID, id,
		); err != nil {
			return fmt.Errorf("purchases: apply return: %w", err)
		}

		const drop = `
			UPDATE stock SET quantity = quantity - $1
			WHERE company_id = $2 AND product_name = $3`
		if _, err := tx.Exec(ctx, drop, quantity, companyID, product); err != nil {
			return fmt.Errorf("purchases: drop stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	out, err = r.Get(ctx, companyID, id)
	if err != nil {
		return Purchase{}, err
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("purchases: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase %d", httpx.ErrNotFound, id)
	}
	return nil
}
