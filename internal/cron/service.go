package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/multierr"
)

const skipReasonLockHeld = "lock_held"

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	// Schedule is a standard cron expression or descriptor such as "@every 15m".
	Schedule   string
	Location   *time.Location
	RunOnStart bool
}

// Service runs every registered job once per scheduled cycle, guarded by a
// distributed lock so replicas do not double up.
type Service struct {
	logg       *logger.Logger
	registry   *Registry
	lock       Lock
	metrics    *metrics.CronJobMetrics
	schedule   robfig.Schedule
	location   *time.Location
	runOnStart bool
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	schedule, err := robfig.ParseStandard(params.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", params.Schedule, err)
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{}
	}
	location := params.Location
	if location == nil {
		location = time.UTC
	}
	return &Service{
		logg:       params.Logger,
		registry:   registry,
		lock:       params.Lock,
		metrics:    params.Metrics,
		schedule:   schedule,
		location:   location,
		runOnStart: params.RunOnStart,
	}, nil
}

// Run blocks until ctx is canceled, then waits for an in-flight cycle.
func (s *Service) Run(ctx context.Context) error {
	scheduler := robfig.New(
		robfig.WithLocation(s.location),
		robfig.WithChain(robfig.SkipIfStillRunning(robfig.DiscardLogger)),
	)
	scheduler.Schedule(s.schedule, robfig.FuncJob(func() { s.cycle(ctx) }))

	if s.runOnStart {
		s.cycle(ctx)
	}
	scheduler.Start()
	s.logg.Info(ctx, "cron.scheduler_started")

	<-ctx.Done()
	<-scheduler.Stop().Done()
	s.logg.Info(ctx, "cron.scheduler_stopped")
	return ctx.Err()
}

func (s *Service) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "cron.cycle_failed", err)
	}
}

// runCycle runs all jobs even when some fail and returns their combined error.
func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "cron.cycle_skipped")
		s.metrics.IncSkipped(skipReasonLockHeld)
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "cron.lock_release_failed", relErr)
		}
	}()

	var errs error
	for _, job := range s.registry.Jobs() {
		if err := s.runJob(ctx, job); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return errs
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "cron.job_failed", err)
		s.metrics.IncFailure(job.Name())
		return err
	}
	s.logg.Info(jobCtx, "cron.job_completed")
	s.metrics.IncSuccess(job.Name())
	return nil
}
