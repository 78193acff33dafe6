package app

import (
	"context"
	"errors"
	"sync"

	"go-hris-workflow/internal/bootstrap"
	"go-hris-workflow/internal/config"
	"go-hris-workflow/internal/messaging/kafka/producer"
	"go-hris-workflow/internal/shared/connection"
	"go-hris-workflow/internal/workflow"

	"go.uber.org/zap"
)

// RunWorker relays the outbox to Kafka, escalates stale leave requests and
// retries released side effects until a shutdown signal arrives.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.ConnectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	// Retried effects write positions and employees, so the worker needs
	// redis to invalidate the api caches.
	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	m, err := buildModules(cfg, sqlDB, gormDB, redisClient, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		producer.ProcessOutboxEvents(ctx, m.outbox, kafkaWriter, logger, cfg.OutboxPollInterval)
	}()
	go func() {
		defer wg.Done()
		workflow.ProcessEscalations(ctx, m.workflow,
			cfg.Workflow.EscalationInterval,
			cfg.Workflow.LeaveEscalationAfter,
			logger,
		)
	}()
	go func() {
		defer wg.Done()
		workflow.ProcessPendingEffects(ctx, m.workflow,
			cfg.Workflow.EscalationInterval,
			cfg.Workflow.EffectsBatchSize,
			logger,
		)
	}()

	sig := bootstrap.WaitForSignal()
	logger.Info("worker shutting down", zap.String("signal", sig.String()))
	cancel()
	wg.Wait()

	return nil
}
