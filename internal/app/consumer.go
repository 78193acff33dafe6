package app

import (
	"context"
	"errors"

	"go-hris-workflow/internal/bootstrap"
	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka/consumer"
	"go-hris-workflow/internal/shared/connection"

	"go.uber.org/zap"
)

const approvalNotifierGroup = "go-hris-approval-notifier"

// RunConsumer delivers approval transition notifications until a shutdown
// signal arrives.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	reader := connection.KafkaReader(cfg.KafkaBroker, events.ApprovalTransitionTopic, approvalNotifierGroup)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeApprovalTransitions(ctx, reader, consumer.NewLogNotifier(logger), logger)
	}()

	sig := bootstrap.WaitForSignal()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()
	<-done

	return nil
}
