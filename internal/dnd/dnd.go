// Package dnd keeps the append-only audit of notification attempts that
// failed permanently (recipient opted out or blacklisted). Entries are written
// by the settlement dispatch step and read back only for reconciliation.
package dnd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one permanent delivery failure.
type Entry struct {
	ID         int64     `json:"id"`
	SupplierID int64     `json:"supplier_id"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Error      string    `json:"error"`
	LoggedAt   time.Time `json:"logged_at"`
}

// Repository persists and counts DND entries.
type Repository interface {
	Record(ctx context.Context, entry Entry) error
	CountForCompanySince(ctx context.Context, companyID int64, since time.Time) (int, error)
	RecentForCompany(ctx context.Context, companyID int64, limit int) ([]Entry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Record(ctx context.Context, entry Entry) error {
	const query = `
		INSERT INTO dnd_logs (supplier_id, phone, message, error, logged_at)
		VALUES ($1, $2, $3, $4, NOW())`
	if _, err := r.pool.Exec(ctx, query, entry.SupplierID, entry.Phone, entry.Message, entry.Error); err != nil {
		return fmt.Errorf("dnd: record: %w", err)
	}
	return nil
}

// CountForCompanySince scopes the count through the supplier table, since the
// log rows themselves do not carry a tenant key.
func (r *repository) CountForCompanySince(ctx context.Context, companyID int64, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM dnd_logs d
		JOIN suppliers s ON s.id = d.supplier_id
		WHERE s.company_id = $1 AND d.logged_at >= $2`
	var n int
	if err := r.pool.QueryRow(ctx, query, companyID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("dnd: count: %w", err)
	}
	return n, nil
}

func (r *repository) RecentForCompany(ctx context.Context, companyID int64, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT d.id, d.supplier_id, d.phone, d.message, d.error, d.logged_at
		FROM dnd_logs d
		JOIN suppliers s ON s.id = d.supplier_id
		WHERE s.company_id = $1
		ORDER BY d.logged_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("dnd: recent: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SupplierID, &e.Phone, &e.Message, &e.Error, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("dnd: scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
