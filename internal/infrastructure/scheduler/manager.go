// Package scheduler runs the billing platform's maintenance jobs on gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"krona/internal/shared/biztime"
	"krona/internal/shared/logger"
)

// BatchJob is one maintenance pass. Execute returns the number of rows it
// touched.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Manager owns the gocron scheduler and the job lease. Cron expressions are
// evaluated in the business timezone.
type Manager struct {
	scheduler gocron.Scheduler
	lock      *JobLock
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewManager(lock *JobLock, log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		lock:      lock,
		logger:    log,
	}, nil
}

// RegisterMaintenanceJobs wires the four recurring jobs:
//   - stale assignment cleanup every 30 minutes
//   - stale pending transaction expiry daily at 02:00
//   - expiring-soon notices daily at 09:00
//   - expired subscription transitions daily at 10:00
func (m *Manager) RegisterMaintenanceJobs(
	cleanupAssignmentsJob BatchJob,
	expireTransactionsJob BatchJob,
	notifyExpiringJob BatchJob,
	expireSubscriptionsJob BatchJob,
) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(func() {
			m.runLocked("assignment-cleanup", 5*time.Minute, cleanupAssignmentsJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "cleanup"),
		gocron.WithName("assignment-cleanup"),
	)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob("0 2 * * *", false),
		gocron.NewTask(func() {
			m.runLocked("transaction-expiry", 10*time.Minute, expireTransactionsJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("billing", "expire"),
		gocron.WithName("transaction-expiry"),
	)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob("0 9 * * *", false),
		gocron.NewTask(func() {
			m.runLocked("expiring-notice", 10*time.Minute, notifyExpiringJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "notify"),
		gocron.WithName("expiring-notice"),
	)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob("0 10 * * *", false),
		gocron.NewTask(func() {
			m.runLocked("subscription-expiry", 10*time.Minute, expireSubscriptionsJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "expire"),
		gocron.WithName("subscription-expiry"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered maintenance jobs",
		"assignment_cleanup", "30m",
		"transaction_expiry", "02:00",
		"expiring_notice", "09:00",
		"subscription_expiry", "10:00",
	)
	return nil
}

// runLocked executes one batch job under the distributed lease. Panics are
// recovered so a bad batch never takes the scheduler down.
func (m *Manager) runLocked(name string, timeout time.Duration, job BatchJob) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorw("maintenance job panicked", "job", name, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	release, ok := m.lock.Acquire(ctx, name)
	if !ok {
		m.logger.Debugw("maintenance job skipped, lease held elsewhere", "job", name)
		return
	}
	defer release()

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("maintenance job failed",
			"job", name, "error", err, "duration", time.Since(startTime))
		return
	}

	if count > 0 {
		m.logger.Infow("maintenance job completed",
			"job", name, "count", count, "duration", time.Since(startTime))
	} else {
		m.logger.Debugw("maintenance job completed, nothing to do",
			"job", name, "duration", time.Since(startTime))
	}
}

// Start starts the scheduler and all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

