// internal/app/verse_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"votd_bot/internal/domain/chat"
	"votd_bot/internal/domain/trigger"
	"votd_bot/internal/domain/verse"

	"github.com/sirupsen/logrus"
)

// Trigger labels used for logging and metrics.
const (
	TriggerDaily    = "daily"
	TriggerOnDemand = "on_demand"
)

// Recorder receives delivery and guard outcomes. Implemented by the metrics package.
type Recorder interface {
	RecordDelivery(trigger, outcome string)
	RecordDecision(decision string)
	RecordDailySuccess()
}

type nopRecorder struct{}

func (nopRecorder) RecordDelivery(string, string) {}
func (nopRecorder) RecordDecision(string) {}
func (nopRecorder) RecordDailySuccess() {}

// VerseService fetches the verse of the day and delivers it to a chat sink.
type VerseService struct {
	source  verse.Source
	sink    chat.Sink
	guard   *trigger.Guard
	channel int64
	timeout time.Duration
	rec     Recorder
	logger  *logrus.Entry
}

// NewVerseService wires the collaborators. channelID is the destination of the
// daily post; fetchTimeout bounds each fetch. rec may be nil.
func NewVerseService(
	source verse.Source,
	sink chat.Sink,
	guard *trigger.Guard,
	channelID int64,
	fetchTimeout time.Duration,
	rec Recorder,
	logger *logrus.Entry,
) *VerseService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &VerseService{
		source:  source,
		sink:    sink,
		guard:   guard,
		channel: channelID,
		timeout: fetchTimeout,
		rec:     rec,
		logger:  logger,
	}
}

// Deliver fetches the current verse and sends it to destination.
func (s *VerseService) Deliver(ctx context.Context, destination int64) error {
	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	content, err := s.source.Fetch(fetchCtx)
	if err == nil {
		err = content.Validate()
	}
	if err != nil {
		var fe *verse.FetchError
		if !errors.As(err, &fe) {
			err = &verse.FetchError{Err: err}
		}
		return err
	}

	if err := s.sink.Send(ctx, destination, chat.NewVerseMessage(content)); err != nil {
		return fmt.Errorf("send verse to %d: %w", destination, err)
	}
	return nil
}

// ProcessDailyTick evaluates the daily guard at now and, when it fires,
// delivers to the configured channel. The day is marked only after a
// successful send, so a failed attempt is retried on the next tick within
// the target minute.
func (s *VerseService) ProcessDailyTick(ctx context.Context, now time.Time) error {
	decision := s.guard.Evaluate(now)
	s.rec.RecordDecision(decision.String())
	if decision != trigger.Fire {
		return nil
	}

	today := s.guard.Today(now)
	logCtx := s.logger.WithFields(logrus.Fields{
		"trigger":     TriggerDaily,
		"date":        today.String(),
		"destination": s.channel,
	})
	logCtx.Info("Daily trigger fired, delivering verse")

	if err := s.Deliver(ctx, s.channel); err != nil {
		s.rec.RecordDelivery(TriggerDaily, outcomeOf(err))
		logCtx.WithError(err).Error("Daily verse delivery failed")
		return err
	}

	s.guard.Mark(today)
	s.rec.RecordDelivery(TriggerDaily, OutcomeSent)
	s.rec.RecordDailySuccess()
	logCtx.Info("Daily verse sent")
	return nil
}

// HandleOnDemand serves a user command. It delivers to the invoking
// destination and never touches the daily marker. On failure it returns the
// generic notice to show the user alongside the error.
func (s *VerseService) HandleOnDemand(ctx context.Context, destination int64) (string, error) {
	logCtx := s.logger.WithFields(logrus.Fields{
		"trigger":     TriggerOnDemand,
		"destination": destination,
	})

	if err := s.Deliver(ctx, destination); err != nil {
		s.rec.RecordDelivery(TriggerOnDemand, outcomeOf(err))
		logCtx.WithError(err).Warn("On-demand verse delivery failed")
		return chat.FailureNotice, err
	}
	s.rec.RecordDelivery(TriggerOnDemand, OutcomeSent)
	logCtx.Info("On-demand verse sent")
	return "", nil
}

// NextDaily reports when the daily verse will next be attempted.
func (s *VerseService) NextDaily(now time.Time) time.Time {
	return s.guard.Next(now)
}
