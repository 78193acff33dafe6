package workflow

import (
	"context"
	"errors"
	"time"

	"go-hris-workflow/internal/shared/apperror"

	"go.uber.org/zap"
)

const escalationBatchSize = 100

// EffectRunner is the part of Service the effects sweep drives.
type EffectRunner interface {
	RunPendingEffects(ctx context.Context, limit int) (int, error)
}

// Escalator is the part of Service the scheduler drives.
type Escalator interface {
	StaleLeaveRequests(ctx context.Context, before time.Time, limit int) ([]ApprovalRequest, error)
	Escalate(ctx context.Context, companyID, id string) (ApprovalResponse, error)
}

// ProcessEscalations escalates leave requests still waiting on the line
// manager after deadline, every interval, until ctx is done.
func ProcessEscalations(
	ctx context.Context,
	svc Escalator,
	interval time.Duration,
	deadline time.Duration,
	logger *zap.Logger,
) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if deadline <= 0 {
		deadline = 72 * time.Hour
	}

	log := logger.Named("workflow.escalation")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("escalation worker started",
		zap.Duration("interval", interval),
		zap.Duration("deadline", deadline),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("escalation worker stopped")
			return
		case <-ticker.C:
			if _, err := processEscalationsOnce(ctx, svc, time.Now().Add(-deadline), log); err != nil {
				log.Error("process escalations failed", zap.Error(err))
			}
		}
	}
}

// processEscalationsOnce returns how many requests were escalated. Losing a
// race to a human decision is expected and only logged.
func processEscalationsOnce(ctx context.Context, svc Escalator, before time.Time, logger *zap.Logger) (int, error) {
	stale, err := svc.StaleLeaveRequests(ctx, before, escalationBatchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	escalated := 0
	for _, req := range stale {
		_, err := svc.Escalate(ctx, req.CompanyID.String(), req.ID.String())
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && (appErr.Code == apperror.CodeConflict || appErr.Code == apperror.CodeInvalidState) {
				logger.Info("escalation skipped",
					zap.String("human_id", req.HumanID),
					zap.String("reason", appErr.Message),
				)
				continue
			}
			logger.Error("escalate request failed",
				zap.String("human_id", req.HumanID),
				zap.Error(err),
			)
			continue
		}
		escalated++
	}

	logger.Info("escalation pass finished",
		zap.Int("stale", len(stale)),
		zap.Int("escalated", escalated),
	)
	return escalated, nil
}

// ProcessPendingEffects retries released side effects every interval until
// ctx is done.
func ProcessPendingEffects(
	ctx context.Context,
	svc EffectRunner,
	interval time.Duration,
	batchSize int,
	logger *zap.Logger,
) {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	log := logger.Named("workflow.effects")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("effects worker started", zap.Int("batch_size", batchSize))

	for {
		select {
		case <-ctx.Done():
			log.Info("effects worker stopped")
			return
		case <-ticker.C:
			done, err := svc.RunPendingEffects(ctx, batchSize)
			if err != nil {
				log.Error("run pending effects failed", zap.Error(err))
				continue
			}
			if done > 0 {
				log.Info("pending effects applied", zap.Int("count", done))
			}
		}
	}
}
