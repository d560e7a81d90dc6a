package db

import (
	"context"
	"database/sql"
)

const bootstrapMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    google_id text,
    email text NOT NULL,
    password_hash text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS users_google_id_unique
ON users (google_id)
WHERE google_id IS NOT NULL;
`

// RunBootstrapMigration creates the users table and the uniqueness
// indexes. The unique index on LOWER(email) is what turns the
// concurrent-signup race into a constraint violation instead of a
// duplicate record.
func RunBootstrapMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
