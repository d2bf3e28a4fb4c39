// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// The only job, ReconcileJob, runs every second ("* * * * * *") and performs
// one reconcile pass on the ordering service: agents poll their completion
// deadlines and ready home-delivery orders still waiting in Placed status are
// offered to available agents.
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(orderingService, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// The reconcile pass is also triggered opportunistically by the HTTP adapter
// on every authenticated customer request; the scheduled job only guarantees
// progress while the system is idle.
package jobs
