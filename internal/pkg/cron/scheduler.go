package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/metrics"
	"github.com/teambition/rrule-go"
)

// JobFunc is a job body. now is the instant the run was triggered for.
type JobFunc func(ctx context.Context, now time.Time) error

// Job represents a scheduled job. Interval jobs repeat every Interval;
// daily jobs fire once a day at Hour:Minute business time.
type Job struct {
	Name     string
	Interval time.Duration
	Daily    bool
	Hour     int
	Minute   int
	Fn       JobFunc
}

// next returns the first trigger instant strictly after from.
func (j Job) next(from time.Time) time.Time {
	if !j.Daily {
		return from.Add(j.Interval)
	}
	local := from.In(cycle.Location)
	start := time.Date(local.Year(), local.Month(), local.Day()-1, j.Hour, j.Minute, 0, 0, cycle.Location)
	rule, err := rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY, Dtstart: start})
	if err != nil {
		slog.Error("Invalid daily recurrence", "name", j.Name, "error", err)
		return from.Add(24 * time.Hour)
	}
	return rule.After(from, false).In(cycle.Location)
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   []Job
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds an interval job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob adds a job that fires every day at hour:minute business time.
func (s *Scheduler) AddDailyJob(name string, hour, minute int, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:   name,
		Daily:  true,
		Hour:   hour,
		Minute: minute,
		Fn:     fn,
	})
	slog.Info("Cron job registered", "name", name, "at", time.Date(0, 1, 1, hour, minute, 0, 0, cycle.Location).Format("15:04"))
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	// Interval jobs run immediately on start
	if !job.Daily {
		s.executeJob(s.ctx, job, s.now())
	}

	for {
		wait := job.next(s.now()).Sub(s.now())
		timer := time.NewTimer(max(wait, 0))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.executeJob(s.ctx, job, s.now())
		}
	}
}

// executeJob executes a job and logs results. It never panics the caller.
func (s *Scheduler) executeJob(ctx context.Context, job Job, now time.Time) (err error) {
	start := time.Now()
	slog.Info("Cron job starting", "name", job.Name)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cron job panicked", "name", job.Name, "panic", r)
			err = errPanicked
		}
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		metrics.CronRuns.WithLabelValues(job.Name, outcome).Inc()
		metrics.CronDuration.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())
	}()

	if err = job.Fn(ctx, now); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return err
	}
	slog.Info("Cron job completed", "name", job.Name, "duration", time.Since(start))
	return nil
}

// RunOnce runs all jobs once in registration order for the given instant.
// A failing job does not stop the ones after it; the first error is returned.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	var first error
	for _, job := range s.Jobs() {
		if err := s.executeJob(ctx, job, now); err != nil && first == nil {
			first = err
		}
	}
	return first
}
