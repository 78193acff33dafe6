package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-hris-workflow/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var (
	retryBackoff    = time.Second
	maxRetryBackoff = 30 * time.Second
)

// ConsumeApprovalTransitions hands each transition event to notifier. A
// failed delivery is retried in place with backoff, and the message is
// committed only after delivery succeeds.
func ConsumeApprovalTransitions(
	ctx context.Context,
	reader MessageReader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_transition")
	log.Info("approval transition consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval transition consumer stopped")
				return
			}
			log.Error("fetch approval transition message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalTransitionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval transition event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if !deliver(ctx, notifier, event, log) {
			log.Info("approval transition consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval transition message failed", zap.Error(err))
			continue
		}

		log.Debug("approval transition delivered",
			zap.String("request_id", event.RequestID),
			zap.String("human_id", event.HumanID),
			zap.String("to_status", event.ToStatus),
		)
	}
}

// deliver retries until the notifier accepts the event. It returns false
// only when ctx is done first.
func deliver(ctx context.Context, notifier Notifier, event events.ApprovalTransitionEvent, log *zap.Logger) bool {
	backoff := retryBackoff
	for attempt := 1; ; attempt++ {
		err := notifier.NotifyTransition(ctx, event)
		if err == nil {
			return true
		}
		log.Error("notify approval transition failed",
			zap.String("request_id", event.RequestID),
			zap.String("human_id", event.HumanID),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		if backoff *= 2; backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}
}
