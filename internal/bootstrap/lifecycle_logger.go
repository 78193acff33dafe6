package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LifecycleEvent is a process level event such as startup or shutdown.
// Approval decisions go to the audit ledger, not here.
type LifecycleEvent struct {
	Action  string
	Message string
	Meta    map[string]any
}

type LifecycleLogger interface {
	Log(ctx context.Context, event LifecycleEvent)
}

type StdoutLifecycleLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewStdoutLifecycleLogger(logger ...*zap.Logger) *StdoutLifecycleLogger {
	l := zap.L().Named("lifecycle")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("lifecycle")
	}
	return &StdoutLifecycleLogger{logger: l, now: time.Now}
}

func (l *StdoutLifecycleLogger) Log(_ context.Context, event LifecycleEvent) {
	l.logger.Info("lifecycle event",
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.String("message", event.Message),
		zap.Any("meta", event.Meta),
	)
}
