package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
)

type pendingFineRepository struct {
	db *sql.DB
}

func NewPendingFineRepository(db *sql.DB) repository.PendingFineRepository {
	return &pendingFineRepository{db: db}
}

func (r *pendingFineRepository) Create(ctx context.Context, pf *domain.PendingFine) error {
	logger.EnterMethod("pendingFineRepository.Create", "lendingID", pf.Draft.LendingID, "memberID", pf.Draft.MemberID)

	if pf.ID == "" {
		pf.ID = uuid.NewString()
	}
	if pf.IdempotencyKey == "" {
		pf.IdempotencyKey = uuid.NewString()
	}
	if pf.Status == "" {
		pf.Status = domain.PendingFineStatusPending
	}
	now := time.Now().UTC()
	pf.CreatedOn = now
	pf.UpdatedOn = now

	query := `INSERT INTO pending_fines (id, lending_id, member_id, book_id, amount, kind, description, idempotency_key, attempts, last_error, unconfirmed, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	logger.DatabaseCall("INSERT", "pending_fines", "id", pf.ID, "lendingID", pf.Draft.LendingID)

	_, err := r.db.ExecContext(ctx, query,
		pf.ID, pf.Draft.LendingID, pf.Draft.MemberID, pf.Draft.BookID, pf.Draft.Amount, pf.Draft.Kind,
		pf.Draft.Description, pf.IdempotencyKey, pf.Attempts, pf.LastError, pf.Unconfirmed, pf.Status, pf.CreatedOn, pf.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "id", pf.ID)

	if err != nil {
		logger.ExitMethodWithError("pendingFineRepository.Create", err, "lendingID", pf.Draft.LendingID)
		return fmt.Errorf("insert pending fine: %w", err)
	}
	logger.ExitMethod("pendingFineRepository.Create", "id", pf.ID)
	return nil
}

// ListPending returns unresolved entries, oldest first.
func (r *pendingFineRepository) ListPending(ctx context.Context, limit int32) ([]domain.PendingFine, error) {
	query := `SELECT id, lending_id, member_id, book_id, amount, kind, description, idempotency_key, attempts, last_error, unconfirmed, status, created_on, updated_on
	          FROM pending_fines WHERE status = $1 ORDER BY created_on ASC LIMIT $2`
	logger.DatabaseCall("SELECT", "pending_fines", "limit", limit)

	rows, err := r.db.QueryContext(ctx, query, domain.PendingFineStatusPending, limit)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingFine
	for rows.Next() {
		var pf domain.PendingFine
		if err := rows.Scan(&pf.ID, &pf.Draft.LendingID, &pf.Draft.MemberID, &pf.Draft.BookID, &pf.Draft.Amount,
			&pf.Draft.Kind, &pf.Draft.Description, &pf.IdempotencyKey, &pf.Attempts, &pf.LastError, &pf.Unconfirmed, &pf.Status,
			&pf.CreatedOn, &pf.UpdatedOn); err != nil {
			return nil, err
		}
		out = append(out, pf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(out)), nil)
	return out, nil
}

func (r *pendingFineRepository) MarkResolved(ctx context.Context, id string) error {
	query := `UPDATE pending_fines SET status = $1, last_error = '', updated_on = $2 WHERE id = $3`
	return r.exec(ctx, "MarkResolved", query, domain.PendingFineStatusResolved, time.Now().UTC(), id)
}

func (r *pendingFineRepository) RecordFailure(ctx context.Context, id string, lastError string) error {
	query := `UPDATE pending_fines SET attempts = attempts + 1, last_error = $1, updated_on = $2 WHERE id = $3`
	return r.exec(ctx, "RecordFailure", query, lastError, time.Now().UTC(), id)
}

func (r *pendingFineRepository) MarkFailed(ctx context.Context, id string, lastError string) error {
	query := `UPDATE pending_fines SET status = $1, attempts = attempts + 1, last_error = $2, updated_on = $3 WHERE id = $4`
	return r.exec(ctx, "MarkFailed", query, domain.PendingFineStatusFailed, lastError, time.Now().UTC(), id)
}

func (r *pendingFineRepository) Cancel(ctx context.Context, id string, reason string) error {
	query := `UPDATE pending_fines SET status = $1, last_error = $2, updated_on = $3 WHERE id = $4`
	return r.exec(ctx, "Cancel", query, domain.PendingFineStatusCancelled, reason, time.Now().UTC(), id)
}

// CancelUnconfirmed runs after a return is known to be applied: the entries an
// earlier ambiguous attempt left behind must not produce a second fine.
func (r *pendingFineRepository) CancelUnconfirmed(ctx context.Context, lendingID int32) (int64, error) {
	query := `UPDATE pending_fines SET status = $1, last_error = $2, updated_on = $3
	          WHERE lending_id = $4 AND unconfirmed AND status = $5`
	logger.DatabaseCall("UPDATE", "pending_fines", "op", "CancelUnconfirmed", "lendingID", lendingID)

	res, err := r.db.ExecContext(ctx, query, domain.PendingFineStatusCancelled, "superseded by a confirmed return",
		time.Now().UTC(), lendingID, domain.PendingFineStatusPending)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "op", "CancelUnconfirmed")
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "op", "CancelUnconfirmed")
	return n, err
}

func (r *pendingFineRepository) exec(ctx context.Context, op, query string, args ...any) error {
	logger.DatabaseCall("UPDATE", "pending_fines", "op", op)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "op", op)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "op", op)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pending fine %v: %w", args[len(args)-1], domain.ErrNotFound)
	}
	return nil
}
