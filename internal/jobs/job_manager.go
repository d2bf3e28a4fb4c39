package jobs

import (
	"fmt"
	"log/slog"

	"foodorder/internal/core/application/ordering"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reconcileJob *ReconcileJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(svc *ordering.Service, logger *slog.Logger) *JobManager {
	return &JobManager{
		reconcileJob: NewReconcileJob(svc, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reconcileJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconcile job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconcileJob.Stop()
}
