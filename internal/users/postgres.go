package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"identity-service/internal/db"
)

const pqUniqueViolation = "23505"

// PostgresRepository implements Repository over database/sql.
type PostgresRepository struct {
	db      *db.DB
	timeout time.Duration
}

// NewPostgresRepository wraps the database handle. Every statement
// runs under the given timeout so a stalled database fails the request
// instead of holding its connection open.
func NewPostgresRepository(db *db.DB, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, timeout: timeout}
}

func (r *PostgresRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

const selectUser = `
	SELECT id, google_id, email, password_hash, created_at, updated_at
	FROM users
`

func scanUser(row *sql.Row) (*User, error) {
	var (
		u  User
		id uuid.UUID
	)
	err := row.Scan(
		&id,
		&u.GoogleID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: scan: %w", err)
	}
	u.ID = id.String()
	return &u, nil
}

func (r *PostgresRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, selectUser+`WHERE google_id = $1`, googleID)
	return scanUser(row)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, selectUser+`WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Insert(ctx context.Context, u User) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (google_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, google_id, email, password_hash, created_at, updated_at
	`, u.GoogleID, u.Email, u.PasswordHash)

	inserted, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("users: insert: %w", err)
	}

	return inserted, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2)
	`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) AttachGoogleID(ctx context.Context, userID, googleID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET google_id = $1, updated_at = NOW()
		WHERE id = $2
	`, googleID, userID)
	if err != nil {
		return fmt.Errorf("users: attach google id: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: attach google id: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
