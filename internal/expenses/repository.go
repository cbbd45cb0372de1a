package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Repository persists expenses.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]Expense, error)
	Get(ctx context.Context, companyID, id int64) (Expense, error)
	Create(ctx context.Context, e Expense) (Expense, error)
	Update(ctx context.Context, e Expense) error
	Delete(ctx context.Context, companyID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Expense, error) {
	const query = `
		SELECT id, company_id, category, amount, created_at
		FROM expenses
		WHERE company_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("expenses: list: %w", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Category, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("expenses: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Expense, error) {
	const query = `
		SELECT id, company_id, category, amount, created_at
		FROM expenses
		WHERE company_id = $1 AND id = $2`
	var e Expense
	err := r.pool.QueryRow(ctx, query, companyID, id).
		Scan(&e.ID, &e.CompanyID, &e.Category, &e.Amount, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: get: %w", err)
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, e Expense) (Expense, error) {
	const query = `
		INSERT INTO expenses (company_id, category, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query, e.CompanyID, e.Category, e.Amount).
		Scan(&e.ID, &e.CreatedAt); err != nil {
		return Expense{}, fmt.Errorf("expenses: insert: %w", err)
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, e Expense) error {
	const query = `
		UPDATE expenses SET category = $1, amount = $2
		WHERE company_id = $3 AND id = $4`
	tag, err := r.pool.Exec(ctx, query, e.Category, e.Amount, e.CompanyID, e.ID)
	if err != nil {
		return fmt.Errorf("expenses: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %d", httpx.ErrNotFound, e.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("expenses: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
	}
	return nil
}
