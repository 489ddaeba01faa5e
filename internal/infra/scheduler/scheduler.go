package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// EveryMinute is the cron spec for the daily guard poll.
const EveryMinute = "* * * * *"

// DailyRunner is evaluated once per tick. Implemented by app.VerseService.
type DailyRunner interface {
	ProcessDailyTick(ctx context.Context, now time.Time) error
}

type VerseScheduler struct {
	cronEngine  *cron.Cron
	runner      DailyRunner
	logger      *logrus.Entry
	spec        string
	tickTimeout time.Duration
	now         func() time.Time
}

// NewVerseScheduler polls runner on spec (normally EveryMinute) in loc.
// Each tick gets its own context bounded by tickTimeout.
func NewVerseScheduler(runner DailyRunner, loc *time.Location, spec string, tickTimeout time.Duration, logger *logrus.Entry) *VerseScheduler {
	return &VerseScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		runner:      runner,
		logger:      logger,
		spec:        spec,
		tickTimeout: tickTimeout,
		now:         time.Now,
	}
}

// Start registers the tick job and starts the cron engine.
func (s *VerseScheduler) Start() error {
	s.logger.Info("Starting verse scheduler...")

	if _, err := s.cronEngine.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("could not add daily verse cron job %q: %w", s.spec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.spec).Info("Verse scheduler started.")
	return nil
}

// tick runs one fault-isolated evaluation: errors are logged and a panic
// never escapes, so the next tick always runs.
func (s *VerseScheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Daily verse tick panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()

	now := s.now()
	s.logger.WithField("now", now.Format(time.RFC3339)).Debug("Daily verse tick")
	if err := s.runner.ProcessDailyTick(ctx, now); err != nil {
		s.logger.WithError(err).Warn("Daily verse tick failed; will re-evaluate on the next tick")
	}
}

func (s *VerseScheduler) Stop() {
	s.logger.Info("Stopping verse scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Verse scheduler gracefully stopped.")
}
