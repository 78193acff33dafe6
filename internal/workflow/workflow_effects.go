package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/position"
	"go-hris-workflow/internal/shared/contextutil"
)

// Effect is work owed to another module once a request reaches a given
// status. It runs after the transition commits under a lease, so it can run
// more than once and must be idempotent.
type Effect func(ctx context.Context, req ApprovalRequest) error

// TxEffect runs inside the transition transaction and commits or rolls back
// with it.
type TxEffect func(ctx context.Context, tx *sql.Tx, req ApprovalRequest) error

type ProfileUpdater interface {
	ApplyProfileChange(ctx context.Context, companyID, id string, changes map[string]string) error
}

type SupervisorSyncer interface {
	ResyncSupervisors(ctx context.Context, companyID, positionID string) (int64, error)
}

type PositionReparenter interface {
	Reparent(ctx context.Context, companyID, id string, reportsToPositionID *string) (position.PositionResponse, error)
}

type effectKey struct {
	rt     RequestType
	status Status
}

type Effects struct {
	registry map[effectKey]Effect
	inTx     map[effectKey]TxEffect
}

func NewEffects() *Effects {
	return &Effects{
		registry: map[effectKey]Effect{},
		inTx:     map[effectKey]TxEffect{},
	}
}

func (e *Effects) Register(rt RequestType, status Status, fn Effect) {
	e.registry[effectKey{rt: rt, status: status}] = fn
}

func (e *Effects) Lookup(rt RequestType, status Status) (Effect, bool) {
	if e == nil {
		return nil, false
	}
	fn, ok := e.registry[effectKey{rt: rt, status: status}]
	return fn, ok
}

func (e *Effects) RegisterInTx(rt RequestType, status Status, fn TxEffect) {
	e.inTx[effectKey{rt: rt, status: status}] = fn
}

func (e *Effects) LookupInTx(rt RequestType, status Status) (TxEffect, bool) {
	if e == nil {
		return nil, false
	}
	fn, ok := e.inTx[effectKey{rt: rt, status: status}]
	return fn, ok
}

// DefaultEffects wires the approved-change write paths. A nil dependency
// leaves its effect unregistered.
func DefaultEffects(
	profiles ProfileUpdater,
	positions PositionReparenter,
	supervisors SupervisorSyncer,
	outbox kafka.OutboxRepository,
) *Effects {
	e := NewEffects()
	if profiles != nil {
		e.Register(TypeProfileChange, StatusApproved, applyProfileChange(profiles))
	}
	if positions != nil && supervisors != nil {
		e.Register(TypeOrgStructureChange, StatusApproved, applyOrgStructureChange(positions, supervisors))
	}
	if outbox != nil {
		e.RegisterInTx(TypePayrollRefund, StatusPaid, creditRefund(outbox))
	}
	return e
}

func applyProfileChange(profiles ProfileUpdater) Effect {
	return func(ctx context.Context, req ApprovalRequest) error {
		var p ProfileChangePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", req.HumanID, err)
		}
		return profiles.ApplyProfileChange(ctx, req.CompanyID.String(), req.RequesterID.String(), p.Changes)
	}
}

// applyOrgStructureChange moves the position, then rederives the supervisor
// of everyone holding it. Holders of positions below keep theirs, since
// supervisors are a single hop.
func applyOrgStructureChange(positions PositionReparenter, supervisors SupervisorSyncer) Effect {
	return func(ctx context.Context, req ApprovalRequest) error {
		var p OrgStructureChangePayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", req.HumanID, err)
		}
		companyID := req.CompanyID.String()
		if _, err := positions.Reparent(ctx, companyID, p.PositionID, p.NewReportsToPositionID); err != nil {
			return err
		}
		_, err := supervisors.ResyncSupervisors(ctx, companyID, p.PositionID)
		return err
	}
}

// creditRefund queues the credit in the outbox alongside the PAID
// transition.
func creditRefund(outbox kafka.OutboxRepository) TxEffect {
	return func(ctx context.Context, tx *sql.Tx, req ApprovalRequest) error {
		var p RefundPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", req.HumanID, err)
		}

		evt := events.RefundCreditedEvent{
			EventType:  events.PayrollRefundCreditedEvent,
			RequestID:  req.ID.String(),
			HumanID:    req.HumanID,
			CompanyID:  req.CompanyID.String(),
			EmployeeID: req.RequesterID.String(),
			Amount:     p.Amount,
			Currency:   p.Currency,
		}
		if req.PaidInPayrollRunID != nil {
			evt.PayrollRunID = *req.PaidInPayrollRunID
		}
		if req.FinanceStaffID != nil {
			evt.FinanceStaffID = req.FinanceStaffID.String()
		}
		if req.PaidAt != nil {
			evt.OccurredAt = *req.PaidAt
		}

		ob, err := kafka.NewOutboxEvent(
			contextutil.GetRequestID(ctx),
			aggregateApprovalRequest,
			req.ID.String(),
			events.PayrollRefundCreditedEvent,
			events.PayrollRefundTopic,
			evt,
		)
		if err != nil {
			return err
		}
		return outbox.WithTx(tx).Create(ctx, ob)
	}
}
