package consumer

import (
	"context"

	"go-hris-workflow/internal/events"

	"go.uber.org/zap"
)

// Notifier delivers a transition to the people who care about it.
type Notifier interface {
	NotifyTransition(ctx context.Context, event events.ApprovalTransitionEvent) error
}

// LogNotifier writes notifications to the log instead of a delivery channel.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notification.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.log")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) NotifyTransition(_ context.Context, event events.ApprovalTransitionEvent) error {
	n.logger.Info("approval notification",
		zap.String("request_id", event.RequestID),
		zap.String("human_id", event.HumanID),
		zap.String("company_id", event.CompanyID),
		zap.String("request_type", event.RequestType),
		zap.String("recipient_id", event.RequesterID),
		zap.String("from_status", event.FromStatus),
		zap.String("to_status", event.ToStatus),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}
