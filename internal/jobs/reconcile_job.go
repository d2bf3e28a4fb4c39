package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"foodorder/internal/core/application/ordering"
)

// ReconcileJob drives the ordering service's time-based transitions: every
// second it runs one reconcile pass, letting agents complete elapsed
// deliveries and picking up ready unassigned orders.
type ReconcileJob struct {
	svc    *ordering.Service
	cron   *cron.Cron
	logger *slog.Logger
}

// NewReconcileJob creates the job over the given ordering service.
func NewReconcileJob(svc *ordering.Service, logger *slog.Logger) *ReconcileJob {
	return &ReconcileJob{
		svc:    svc,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "reconcile_job"),
	}
}

// Start begins the reconcile job to run every second.
func (j *ReconcileJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		if _, err := j.svc.CheckUnassignedOrders(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Reconcile job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconcile job started (running every second)")
	return nil
}

// Stop stops the reconcile job.
func (j *ReconcileJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reconcile job stopped")
}
