package salesledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/platform/db"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Repository persists sales. Selling and voiding adjust the stock level in
// the same transaction.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]Sale, error)
	Get(ctx context.Context, companyID, id int64) (Sale, error)
	// CreateWithStock prices the sale from the newest stock row, checks there
	// are enough litres on hand, inserts the sale and decrements stock.
	CreateWithStock(ctx context.Context, companyID int64, in Input) (Sale, error)
	// DeleteWithStock voids a sale and puts its litres back in stock.
	DeleteWithStock(ctx context.Context, companyID, id int64) error
}

var (
	// ErrNoStockEntry means the product has no stock row to price from.
	ErrNoStockEntry = errors.New("salesledger: product not found in stock")
	// ErrInsufficientStock means the sale asks for more litres than on hand.
	ErrInsufficientStock = errors.New("salesledger: insufficient stock")
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Sale, error) {
	const query = `
		SELECT id, company_id, customer, product_name, quantity, total_price, sale_date
		FROM sales
		WHERE company_id = $1
		ORDER BY sale_date DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("salesledger: list: %w", err)
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Customer, &s.ProductName, &s.Quantity, &s.TotalPrice, &s.SaleDate); err != nil {
			return nil, fmt.Errorf("salesledger: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Sale, error) {
	const query = `
		SELECT id, company_id, customer, product_name, quantity, total_price, sale_date
		FROM sales
		WHERE company_id = $1 AND id = $2`
	var s Sale
	err := r.pool.QueryRow(ctx, query, companyID, id).
		Scan(&s.ID, &s.CompanyID, &s.Customer, &s.ProductName, &s.Quantity, &s.TotalPrice, &s.SaleDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, fmt.Errorf("%w: sale %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Sale{}, fmt.Errorf("salesledger: get: %w", err)
	}
	return s, nil
}

func (r *repository) CreateWithStock(ctx context.Context, companyID int64, in Input) (Sale, error) {
	var sale Sale
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const lock = `
			SELECT selling_price, quantity FROM stock
			WHERE company_id = $1 AND product_name = $2
			ORDER BY added_at DESC
			LIMIT 1
			FOR UPDATE`
		var price, onHand decimal.Decimal
		err := tx.QueryRow(ctx, lock, companyID, in.ProductName).Scan(&price, &onHand)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoStockEntry
		}
		if err != nil {
			return fmt.Errorf("salesledger: lock stock: %w", err)
		}
		if in.Quantity.GreaterThan(onHand) {
			return fmt.Errorf("%w: %s litres on hand", ErrInsufficientStock, onHand.String())
		}

		sale = Sale{
			CompanyID:   companyID,
			Customer:    in.Customer,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			TotalPrice:  price.Mul(in.Quantity),
		}
		const insert = `
			INSERT INTO sales (company_id, customer, product_name, quantity, total_price, sale_date)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id, sale_date`
		if err := tx.QueryRow(ctx, insert,
			sale.CompanyID, sale.Customer, sale.ProductName, sale.Quantity, sale.TotalPrice,
		).Scan(&sale.ID, &sale.SaleDate); err != nil {
			return fmt.Errorf("salesledger: insert: %w", err)
		}

		const drop = `
			UPDATE stock SET quantity = quantity - $1
			WHERE company_id = $2 AND product_name = $3`
		if _, err := tx.Exec(ctx, drop, in.Quantity, companyID, in.ProductName); err != nil {
			return fmt.Errorf("salesledger: drop stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (r *repository) DeleteWithStock(ctx context.Context, companyID, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const lock = `
			SELECT product_name, quantity FROM sales
			WHERE company_id = $1 AND id = $2
			FOR UPDATE`
		var product string
		var quantity decimal.Decimal
		err := tx.QueryRow(ctx, lock, companyID, id).Scan(&product, &quantity)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: sale %d", httpx.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("salesledger: lock sale: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE company_id = $1 AND id = $2`, companyID, id); err != nil {
			return fmt.Errorf("salesledger: delete: %w", err)
		}
		const restore = `
			UPDATE stock SET quantity = quantity + $1
			WHERE company_id = $2 AND product_name = $3`
		if _, err := tx.Exec(ctx, restore, quantity, companyID, product); err != nil {
			return fmt.Errorf("salesledger: restore stock: %w", err)
		}
		return nil
	})
}
