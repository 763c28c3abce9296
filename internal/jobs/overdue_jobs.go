package jobs

import (
	"context"
	"fmt"

	"libratrack-admin-backend/internal/logger"
)

// SendOverdueDigest emails the librarians the list of lendings past due.
func (jr *JobRunner) SendOverdueDigest() {
	jr.runWithRecovery("SendOverdueDigest", func() {
		ctx, cancel := jr.jobContext()
		defer cancel()

		if err := jr.sendOverdueDigest(ctx); err != nil {
			logger.Error("Failed to send overdue digest", "error", err)
		}
	})
}

func (jr *JobRunner) sendOverdueDigest(ctx context.Context) error {
	to := jr.config.SendGrid.DigestTo
	if to == "" {
		logger.Warn("Overdue digest recipient not configured, skipping")
		return nil
	}

	auth, err := jr.serviceAuth()
	if err != nil {
		return fmt.Errorf("mint service token: %w", err)
	}

	now := jr.now()
	overdue, err := jr.services.Dashboard.ListOverdue(ctx, auth, now)
	if err != nil {
		return fmt.Errorf("list overdue lendings: %w", err)
	}
	if len(overdue) == 0 {
		logger.Info("No overdue lendings, digest not sent")
		return nil
	}

	if err := jr.services.Email.SendOverdueDigest(ctx, to, overdue, now); err != nil {
		return err
	}

	logger.Info("Overdue digest sent", "to", to, "count", len(overdue))
	return nil
}
