package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/push"
)

// OutboxStore is the outbox persistence the worker drives
type OutboxStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*models.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkRetry(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id int64, attempts int, lastErr string) error
}

var _ OutboxStore = (*repositories.OutboxRepository)(nil)

// OutboxWorkerConfig tunes delivery and retries
type OutboxWorkerConfig struct {
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	Lease       time.Duration
}

// OutboxWorker delivers queued notifications through the push sender
type OutboxWorker struct {
	store  OutboxStore
	sender push.Sender
	cfg    OutboxWorkerConfig
	now    func() time.Time
	logger zerolog.Logger
}

// DrainResult counts what one drain did
type DrainResult struct {
	Claimed int
	Sent    int
	Retried int
	Failed  int
}

// NewOutboxWorker creates an OutboxWorker
func NewOutboxWorker(store OutboxStore, sender push.Sender, cfg OutboxWorkerConfig, logger zerolog.Logger) *OutboxWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 30 * time.Second
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 2 * time.Minute
	}
	return &OutboxWorker{
		store:  store,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With().Str("component", "outbox-worker").Logger(),
	}
}

// Backoff returns the delay before retry number attempts (1-based)
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 20 {
		attempts = 20
	}
	return base * time.Duration(1<<uint(attempts-1))
}

// Drain claims one batch of due messages and delivers it
func (w *OutboxWorker) Drain(ctx context.Context) (DrainResult, error) {
	var result DrainResult

	messages, err := w.store.ClaimDue(ctx, w.now(), w.cfg.BatchSize, w.cfg.Lease)
	if err != nil {
		return result, err
	}
	result.Claimed = len(messages)

	for _, msg := range messages {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		switch w.deliver(ctx, msg) {
		case models.OutboxSent:
			result.Sent++
		case models.OutboxFailed:
			result.Failed++
		default:
			result.Retried++
		}
	}

	if result.Claimed > 0 {
		w.logger.Info().
			Int("claimed", result.Claimed).
			Int("sent", result.Sent).
			Int("retried", result.Retried).
			Int("failed", result.Failed).
			Msg("Outbox drained")
	}
	return result, nil
}

func (w *OutboxWorker) deliver(ctx context.Context, msg *models.OutboxMessage) models.OutboxStatus {
	log := w.logger.With().Int64("messageID", msg.ID).Str("kind", string(msg.Kind)).Int64("courseID", msg.CourseID).Logger()

	// nobody to reach still counts as delivered
	if len(push.FilterValidTokens(msg.Tokens)) == 0 {
		w.markSent(ctx, log, msg)
		return models.OutboxSent
	}

	ok, err := w.sender.SendPushNotifications(ctx, msg.Tokens, msg.Title, msg.Body, msg.Data)
	if ok && err == nil {
		w.markSent(ctx, log, msg)
		return models.OutboxSent
	}

	reason := "provider rejected batch"
	if err != nil {
		reason = err.Error()
	}
	attempts := msg.Attempts + 1

	if attempts >= w.cfg.MaxAttempts {
		if markErr := w.store.MarkFailed(ctx, msg.ID, attempts, reason); markErr != nil {
			log.Error().Err(markErr).Msg("Failed to mark notification failed")
		}
		log.Error().Int("attempts", attempts).Str("lastError", reason).Msg("Notification delivery abandoned")
		return models.OutboxFailed
	}

	next := w.now().Add(Backoff(w.cfg.BaseBackoff, attempts))
	if markErr := w.store.MarkRetry(ctx, msg.ID, attempts, next, reason); markErr != nil {
		log.Error().Err(markErr).Msg("Failed to reschedule notification")
	}
	log.Warn().Int("attempts", attempts).Time("nextAttempt", next).Str("lastError", reason).Msg("Notification delivery failed, will retry")
	return models.OutboxPending
}

func (w *OutboxWorker) markSent(ctx context.Context, log zerolog.Logger, msg *models.OutboxMessage) {
	if err := w.store.MarkSent(ctx, msg.ID, w.now()); err != nil {
		// the lease expires and the message is sent again
		log.Error().Err(err).Msg("Failed to mark notification sent")
		return
	}
	log.Debug().Int("tokens", len(msg.Tokens)).Msg("Notification delivered")
}
