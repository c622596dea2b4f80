package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CourseCompleter flips scheduled course completions that are due
type CourseCompleter interface {
	CompleteDueCourses(ctx context.Context) (int, error)
}

// SchedulerConfig holds the cron specs of the background jobs
type SchedulerConfig struct {
	Location       *time.Location
	CompletionSpec string
	OutboxInterval time.Duration
	JobTimeout     time.Duration
}

// Scheduler runs the periodic jobs of the API process
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	cfg    SchedulerConfig
	logger zerolog.Logger
}

// cronLogger adapts zerolog to cron's logger interface
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// NewScheduler creates a Scheduler and registers the course completion and outbox jobs
func NewScheduler(cfg SchedulerConfig, completer CourseCompleter, worker *OutboxWorker, logger zerolog.Logger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	lgr := logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: lgr}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: lgr,
	}

	if completer != nil && cfg.CompletionSpec != "" {
		if _, err := s.cron.AddFunc(cfg.CompletionSpec, s.wrap("course-completion", func(ctx context.Context) error {
			_, err := completer.CompleteDueCourses(ctx)
			return err
		})); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid completion spec %q: %w", cfg.CompletionSpec, err)
		}
	}

	if worker != nil && cfg.OutboxInterval > 0 {
		spec := "@every " + cfg.OutboxInterval.String()
		if _, err := s.cron.AddFunc(spec, s.wrap("outbox-drain", func(ctx context.Context) error {
			_, err := worker.Drain(ctx)
			return err
		})); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid outbox interval %q: %w", spec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) wrap(name string, job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", name).Msg("Scheduled job failed")
			return
		}
		s.logger.Debug().Str("job", name).Dur("took", time.Since(started)).Msg("Scheduled job finished")
	}
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Str("timezone", s.cfg.Location.String()).Msg("Scheduler started")
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info().Msg("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("Scheduler stop timed out")
	}
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
