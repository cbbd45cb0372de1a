package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Repository persists suppliers. Every query takes the company id explicitly.
type Repository interface {
	List(ctx context.Context, companyID int64, search string) ([]Supplier, error)
	Get(ctx context.Context, companyID, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
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

func (r *repository) List(ctx context.Context, companyID int64, search string) ([]Supplier, error) {
	query := `
		SELECT id, company_id, name, contact, COALESCE(address, ''), created_at
		FROM suppliers
		WHERE company_id = $1`
	args := []any{companyID}
	if search != "" {
		query += ` AND (name ILIKE $2 OR contact ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Contact, &s.Address, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("suppliers: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Supplier, error) {
	const query = `
		SELECT id, company_id, name, contact, COALESCE(address, ''), created_at
		FROM suppliers
		WHERE company_id = $1 AND id = $2`
	var s Supplier
	err := r.db.QueryRow(ctx, query, companyID, id).Scan(&s.ID, &s.CompanyID, &s.Name, &s.Contact, &s.Address, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get: %w", err)
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	const query = `
		INSERT INTO suppliers (company_id, name, contact, address, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, s.CompanyID, s.Name, s.Contact, s.Address).Scan(&s.ID, &s.CreatedAt); err != nil {
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, companyID, id int64, in Input) error {
	const query = `
		UPDATE suppliers SET name = $1, contact = $2, address = $3
		WHERE company_id = $4 AND id = $5`
	tag, err := r.db.Exec(ctx, query, in.Name, in.Contact, in.Address, companyID, id)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, id)
	}
	return nil
}
