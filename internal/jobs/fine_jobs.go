package jobs

import (
	"context"
	"fmt"

	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/service"
)

// RetryPendingFines replays late fines that were queued after a return whose
// fine could not be written to the backend.
func (jr *JobRunner) RetryPendingFines() {
	jr.runWithRecovery("RetryPendingFines", func() {
		ctx, cancel := jr.jobContext()
		defer cancel()

		if err := jr.retryPendingFines(ctx); err != nil {
			logger.Error("Failed to retry pending fines", "error", err)
		}
	})
}

func (jr *JobRunner) retryPendingFines(ctx context.Context) error {
	auth, err := jr.serviceAuth()
	if err != nil {
		return fmt.Errorf("mint service token: %w", err)
	}

	report, err := jr.services.Fine.ReconcilePendingFines(ctx, auth, service.DefaultPendingLimit)
	if err != nil {
		return err
	}

	logger.Info("Pending fines reconciled",
		"checked", report.Checked,
		"resolved", report.Resolved,
		"failed", report.Failed,
		"abandoned", report.Abandoned,
		"cancelled", report.Cancelled)
	return nil
}
