package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.PendingFineRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		PendingFineRepository: NewPendingFineRepository(db),
	}
}

const schema = `CREATE TABLE IF NOT EXISTS pending_fines (
	id              UUID PRIMARY KEY,
	lending_id      INTEGER NOT NULL,
	member_id       INTEGER NOT NULL,
	book_id         INTEGER,
	amount          NUMERIC(14, 2) NOT NULL,
	kind            VARCHAR(16) NOT NULL,
	description     TEXT NOT NULL,
	idempotency_key UUID NOT NULL UNIQUE,
	attempts        INTEGER NOT NULL DEFAULT 0,
	last_error      TEXT NOT NULL DEFAULT '',
	unconfirmed     BOOLEAN NOT NULL DEFAULT FALSE,
	status          VARCHAR(16) NOT NULL DEFAULT 'PENDING',
	created_on      TIMESTAMPTZ NOT NULL,
	updated_on      TIMESTAMPTZ NOT NULL
);
ALTER TABLE pending_fines ADD COLUMN IF NOT EXISTS unconfirmed BOOLEAN NOT NULL DEFAULT FALSE;
CREATE INDEX IF NOT EXISTS idx_pending_fines_status ON pending_fines (status, created_on);
CREATE INDEX IF NOT EXISTS idx_pending_fines_lending ON pending_fines (lending_id)`

// EnsureSchema creates the outbox table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("CREATE", "pending_fines")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("CREATE", 0, err)
	return err
}
