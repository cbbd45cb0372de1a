package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Repository persists stock rows, company-scoped.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]Row, error)
	Get(ctx context.Context, companyID, id int64) (Row, error)
	// Latest returns the newest row per product, the rate the settlement uses.
	Latest(ctx context.Context, companyID int64) ([]Row, error)
	Create(ctx context.Context, row Row) (Row, error)
	Update(ctx context.Context, companyID, id int64, in Input) error
	Delete(ctx context.Context, companyID, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, company_id, product_name, purchase_price, selling_price, quantity, added_at`

func scanRow(row pgx.Row) (Row, error) {
	var s Row
	err := row.Scan(&s.ID, &s.CompanyID, &s.ProductName, &s.PurchasePrice, &s.SellingPrice, &s.Quantity, &s.AddedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Row, error) {
	query := `SELECT ` + columns + ` FROM stock WHERE company_id = $1 ORDER BY product_name, added_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("stock: list: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("stock: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Row, error) {
	query := `SELECT ` + columns + ` FROM stock WHERE company_id = $1 AND id = $2`
	s, err := scanRow(r.db.QueryRow(ctx, query, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, fmt.Errorf("%w: stock row %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Row{}, fmt.Errorf("stock: get: %w", err)
	}
	return s, nil
}

func (r *repository) Latest(ctx context.Context, companyID int64) ([]Row, error) {
	query := `
		SELECT DISTINCT ON (product_name) ` + columns + `
		FROM stock
		WHERE company_id = $1
		ORDER BY product_name, added_at DESC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("stock: latest: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("stock: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, row Row) (Row, error) {
	const query = `
		INSERT INTO stock (company_id, product_name, purchase_price, selling_price, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, added_at`
	err := r.db.QueryRow(ctx, query,
		row.CompanyID, row.ProductName, row.PurchasePrice, row.SellingPrice, row.Quantity,
	).Scan(&row.ID, &row.AddedAt)
	if err != nil {
		return Row{}, fmt.Errorf("stock: create: %w", err)
	}
	return row, nil
}

func (r *repository) Update(ctx context.Context, companyID, id int64, in Input) error {
	const query = `
		UPDATE stock SET product_name = $1, purchase_price = $2, selling_price = $3, quantity = $4
		WHERE company_id = $5 AND id = $6`
	tag, err := r.db.Exec(ctx, query, in.ProductName, in.PurchasePrice, in.SellingPrice, in.Quantity, companyID, id)
	if err != nil {
		return fmt.Errorf("stock: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock row %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stock WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("stock: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock row %d", httpx.ErrNotFound, id)
	}
	return nil
}
