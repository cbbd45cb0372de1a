package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevtech-systems/maziwa/internal/auth"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Repository persists user accounts. It also backs the login endpoint via
// FindCredential.
type Repository interface {
	auth.CredentialStore
	List(ctx context.Context, companyID int64) ([]User, error)
	Get(ctx context.Context, companyID, id int64) (User, error)
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	Update(ctx context.Context, u User, passwordHash string) error
	Delete(ctx context.Context, companyID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// FindCredential looks a user up by username across all companies. Usernames
// are globally unique so the login form does not ask for a company.
func (r *repository) FindCredential(ctx context.Context, username string) (*auth.Credential, error) {
	const query = `
		SELECT id, role, company_id, password_hash
		FROM users
		WHERE username = $1`
	var cred auth.Credential
	err := r.pool.QueryRow(ctx, query, username).
		Scan(&cred.UserID, &cred.Role, &cred.CompanyID, &cred.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("users: find credential: %w", err)
	}
	return &cred, nil
}

func (r *repository) List(ctx context.Context, companyID int64) ([]User, error) {
	const query = `
		SELECT id, company_id, username, role, created_at
		FROM users
		WHERE company_id = $1
		ORDER BY username`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (User, error) {
	const query = `
		SELECT id, company_id, username, role, created_at
		FROM users
		WHERE company_id = $1 AND id = $2`
	var u User
	err := r.pool.QueryRow(ctx, query, companyID, id).
		Scan(&u.ID, &u.CompanyID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	const query = `
		INSERT INTO users (company_id, username, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, u.CompanyID, u.Username, u.Role, passwordHash).
		Scan(&u.ID, &u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, fmt.Errorf("%w: username %q", httpx.ErrDuplicate, u.Username)
	}
	if err != nil {
		return User{}, fmt.Errorf("users: insert: %w", err)
	}
	return u, nil
}

// Update changes username and role; the hash is replaced only when non-empty.
func (r *repository) Update(ctx context.Context, u User, passwordHash string) error {
	const query = `
		UPDATE users SET
			username = $1,
			role = $2,
			password_hash = COALESCE(NULLIF($3, ''), password_hash)
		WHERE company_id = $4 AND id = $5`
	tag, err := r.pool.Exec(ctx, query, u.Username, u.Role, passwordHash, u.CompanyID, u.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: username %q", httpx.ErrDuplicate, u.Username)
	}
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, u.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	return nil
}
