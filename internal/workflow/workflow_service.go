package workflow

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-hris-workflow/internal/audit"
	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/position"
	positionerrors "go-hris-workflow/internal/position/errors"
	"go-hris-workflow/internal/rbac"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/contextutil"
	"go-hris-workflow/internal/shared/counter"
	workflowerrors "go-hris-workflow/internal/workflow/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	aggregateApprovalRequest = "approval_request"

	// effectsLease is how long a claimed effect may run before another
	// worker can take it over.
	effectsLease = 5 * time.Minute
)

// RoleSource answers which roles an employee holds. rbac.Service satisfies it.
type RoleSource interface {
	RolesFor(companyID, employeeID string) ([]string, error)
}

// EmployeeDirectory places employees in the position graph.
// employee.Service satisfies it.
type EmployeeDirectory interface {
	PrimaryPosition(ctx context.Context, companyID, id string) (uuid.UUID, error)
}

//go:generate mockgen -source=workflow_service.go -destination=mock/workflow_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, requesterID string, req SubmitRequest) (ApprovalResponse, error)
	Get(ctx context.Context, companyID, actorID, id string) (ApprovalResponse, error)
	GetByHumanID(ctx context.Context, companyID, actorID, humanID string) (ApprovalResponse, error)
	List(ctx context.Context, companyID, actorID string, q ListQuery) ([]ApprovalResponse, int64, error)
	Decide(ctx context.Context, companyID, actorID, id string, req DecisionRequest) (ApprovalResponse, error)
	Escalate(ctx context.Context, companyID, id string) (ApprovalResponse, error)
	History(ctx context.Context, companyID, actorID, id string) ([]HistoryEntryResponse, error)
	StaleLeaveRequests(ctx context.Context, before time.Time, limit int) ([]ApprovalRequest, error)
	RunPendingEffects(ctx context.Context, limit int) (int, error)
}

// Deps groups what the service talks to. Outbox and Effects may be nil.
type Deps struct {
	DB        *sql.DB
	Repo      Repository
	Counter   counter.Repository
	Recorder  audit.Recorder
	Outbox    kafka.OutboxRepository
	Roles     RoleSource
	Employees EmployeeDirectory
	Resolver  position.Resolver
	Effects   *Effects
	Now       func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	recorder  audit.Recorder
	outbox    kafka.OutboxRepository
	roles     RoleSource
	employees EmployeeDirectory
	resolver  position.Resolver
	effects   *Effects
	machine   *Machine
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("workflow.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.service")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:        deps.DB,
		repo:      deps.Repo,
		counter:   deps.Counter,
		recorder:  deps.Recorder,
		outbox:    deps.Outbox,
		roles:     deps.Roles,
		employees: deps.Employees,
		resolver:  deps.Resolver,
		effects:   deps.Effects,
		machine:   NewMachine(),
		now:       now,
		logger:    l,
	}
}

func (s *service) Submit(
	ctx context.Context,
	companyID, requesterID string,
	req SubmitRequest,
) (ApprovalResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit approval requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("requester_id", requesterID),
		zap.String("type", string(req.Type)),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ApprovalResponse{}, apperror.InvalidField("company_id")
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return ApprovalResponse{}, apperror.InvalidField("requester_id")
	}

	tpl, err := TemplateFor(req.Type)
	if err != nil {
		return ApprovalResponse{}, err
	}
	if _, err := DecodePayload(req.Type, req.Payload); err != nil {
		s.logger.Warn("submit approval payload rejected",
			zap.String("request_id", rid),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	var payload bytes.Buffer
	if err := json.Compact(&payload, req.Payload); err != nil {
		return ApprovalResponse{}, workflowerrors.ErrInvalidPayload
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit approval begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ApprovalResponse{}, err
	}
	defer tx.Rollback()

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, companyID, counter.ApprovalRequestType(string(req.Type)))
	if err != nil {
		s.logger.Error("submit approval allocate human id failed", zap.String("request_id", rid), zap.Error(err))
		return ApprovalResponse{}, err
	}

	now := s.now().UTC()
	ar := &ApprovalRequest{
		ID:           uuid.New(),
		HumanID:      counter.FormatHumanID(tpl.Prefix, seq),
		CompanyID:    companyUUID,
		Type:         req.Type,
		RequesterID:  requesterUUID,
		Payload:      json.RawMessage(payload.Bytes()),
		Status:       tpl.Initial,
		ApprovalFlow: tpl.NewFlow(),
		SubmittedAt:  now,
		Version:      1,
	}

	if err := s.repo.WithTx(tx).Create(ctx, ar); err != nil {
		s.logger.Error("submit approval persist failed",
			zap.String("request_id", rid),
			zap.String("human_id", ar.HumanID),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	entry := audit.Entry{
		CompanyID:  companyUUID,
		RequestID:  ar.ID,
		HumanID:    ar.HumanID,
		Action:     audit.ActionSubmitted,
		ToStatus:   string(ar.Status),
		ActorID:    requesterID,
		ActorKind:  audit.ActorKindEmployee,
		OccurredAt: now,
	}
	if err := s.recorder.WithTx(tx).Record(ctx, entry); err != nil {
		return ApprovalResponse{}, err
	}

	if err := s.emit(ctx, tx, ar, events.ApprovalSubmittedEvent, "", requesterID, "", now); err != nil {
		s.logger.Error("submit approval outbox failed", zap.String("request_id", rid), zap.Error(err))
		return ApprovalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit approval commit failed", zap.String("request_id", rid), zap.Error(err))
		return ApprovalResponse{}, err
	}

	s.logger.Info("submit approval success",
		zap.String("request_id", rid),
		zap.String("approval_id", ar.ID.String()),
		zap.String("human_id", ar.HumanID),
	)

	actor := Principal{EmployeeID: requesterID}
	return s.toResponse(ctx, tpl, ar, &actor), nil
}

func (s *service) Get(ctx context.Context, companyID, actorID, id string) (ApprovalResponse, error) {
	s.logger.Debug("get approval requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("approval_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ApprovalResponse{}, workflowerrors.ErrInvalidRequestID
	}
	req, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ApprovalResponse{}, err
	}
	return s.visible(ctx, companyID, actorID, req)
}

func (s *service) GetByHumanID(ctx context.Context, companyID, actorID, humanID string) (ApprovalResponse, error) {
	s.logger.Debug("get approval by human id requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("human_id", humanID),
	)

	req, err := s.repo.FindByHumanID(ctx, companyID, strings.ToUpper(strings.TrimSpace(humanID)))
	if err != nil {
		return ApprovalResponse{}, err
	}
	return s.visible(ctx, companyID, actorID, req)
}

// visible applies the read rule: requesters see their own requests and
// reviewers of the request's type see every request of that type.
func (s *service) visible(ctx context.Context, companyID, actorID string, req *ApprovalRequest) (ApprovalResponse, error) {
	tpl, err := TemplateFor(req.Type)
	if err != nil {
		return ApprovalResponse{}, err
	}
	actor, err := s.principal(ctx, companyID, actorID)
	if err != nil {
		return ApprovalResponse{}, err
	}
	if actorID != req.RequesterID.String() && !rbac.Authorize(actor.Roles, tpl.ReviewerRoles()) {
		return ApprovalResponse{}, workflowerrors.ErrForbidden
	}
	return s.toResponse(ctx, tpl, req, &actor), nil
}

func (s *service) List(ctx context.Context, companyID, actorID string, q ListQuery) ([]ApprovalResponse, int64, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("list approvals requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("type", string(q.Type)),
		zap.String("status", string(q.Status)),
	)

	filter := ListFilter{
		CompanyID: companyID,
		Type:      q.Type,
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
	}

	actor, err := s.principal(ctx, companyID, actorID)
	if err != nil {
		return nil, 0, err
	}

	reviewer := false
	if q.Type != "" {
		tpl, err := TemplateFor(q.Type)
		if err != nil {
			return nil, 0, err
		}
		reviewer = rbac.Authorize(actor.Roles, tpl.ReviewerRoles())
	}
	if q.Mine || !reviewer {
		filter.RequesterID = actorID
	}

	reqs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list approvals failed", zap.String("request_id", rid), zap.Error(err))
		return nil, 0, err
	}

	out := make([]ApprovalResponse, 0, len(reqs))
	for i := range reqs {
		tpl, err := TemplateFor(reqs[i].Type)
		if err != nil {
			continue
		}
		out = append(out, s.toResponse(ctx, tpl, &reqs[i], &actor))
	}
	return out, total, nil
}

func (s *service) Decide(
	ctx context.Context,
	companyID, actorID, id string,
	req DecisionRequest,
) (ApprovalResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide approval requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("approval_id", id),
		zap.String("actor_id", actorID),
		zap.String("action", string(req.Action)),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ApprovalResponse{}, workflowerrors.ErrInvalidRequestID
	}

	actor, err := s.principal(ctx, companyID, actorID)
	if err != nil {
		return ApprovalResponse{}, err
	}

	ar, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ApprovalResponse{}, err
	}
	tpl, err := TemplateFor(ar.Type)
	if err != nil {
		return ApprovalResponse{}, err
	}

	cmd := Command{
		Action:         req.Action,
		Comment:        req.Comment,
		PayrollRunID:   req.PayrollRunID,
		FinanceStaffID: req.FinanceStaffID,
	}
	if t, ok := tpl.Find(ar.Status, req.Action); ok {
		if t.SupervisorBound {
			cmd.RequesterSupervisorPositionID, err = s.requesterSupervisor(ctx, ar)
			if err != nil {
				return ApprovalResponse{}, err
			}
		}
		if ar.Type == TypeOrgStructureChange && t.To == StatusApproved {
			if err := s.checkReparent(ctx, ar); err != nil {
				s.logger.Warn("decide approval reparent rejected",
					zap.String("request_id", rid),
					zap.String("human_id", ar.HumanID),
					zap.Error(err),
				)
				return ApprovalResponse{}, err
			}
		}
	}

	if err := s.transition(ctx, tpl, ar, cmd, actor); err != nil {
		return ApprovalResponse{}, err
	}
	return s.toResponse(ctx, tpl, ar, &actor), nil
}

// Escalate applies the scheduler's escalation to one request.
func (s *service) Escalate(ctx context.Context, companyID, id string) (ApprovalResponse, error) {
	s.logger.Debug("escalate approval requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("approval_id", id),
	)

	ar, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ApprovalResponse{}, err
	}
	tpl, err := TemplateFor(ar.Type)
	if err != nil {
		return ApprovalResponse{}, err
	}

	if err := s.transition(ctx, tpl, ar, Command{Action: ActionEscalate}, SystemPrincipal); err != nil {
		return ApprovalResponse{}, err
	}
	return s.toResponse(ctx, tpl, ar, nil), nil
}

func (s *service) StaleLeaveRequests(ctx context.Context, before time.Time, limit int) ([]ApprovalRequest, error) {
	return s.repo.ListStale(ctx, TypeLeave, StatusLeavePending, before, limit)
}

func (s *service) History(ctx context.Context, companyID, actorID, id string) ([]HistoryEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("approval history requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("approval_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return nil, workflowerrors.ErrInvalidRequestID
	}
	ar, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visible(ctx, companyID, actorID, ar); err != nil {
		return nil, err
	}

	entries, err := s.recorder.History(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		entries = audit.FromRequest(snapshot(ar))
	}

	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			Action:     e.Action,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			ActorID:    e.ActorID,
			ActorKind:  e.ActorKind,
			Comment:    e.Comment,
			OccurredAt: e.OccurredAt,
		})
	}
	return out, nil
}

// RunPendingEffects retries effects whose earlier run failed or whose lease
// went stale. It reports how many effects completed.
func (s *service) RunPendingEffects(ctx context.Context, limit int) (int, error) {
	reqs, err := s.repo.ListPendingEffects(ctx, s.now().UTC().Add(-effectsLease), limit)
	if err != nil {
		s.logger.Error("list pending effects failed", zap.Error(err))
		return 0, err
	}

	done := 0
	for i := range reqs {
		if s.runEffects(ctx, reqs[i]) {
			done++
		}
	}
	return done, nil
}

// transition runs the machine and persists the result. The status/version
// compare-and-set, the audit entry and the notification commit together;
// leased side effects run only after the commit.
func (s *service) transition(ctx context.Context, tpl Template, ar *ApprovalRequest, cmd Command, actor Principal) error {
	rid := contextutil.GetRequestID(ctx)
	expectedStatus, expectedVersion := ar.Status, ar.Version

	change, err := s.machine.Apply(tpl, ar, cmd, actor, s.now())
	if err != nil {
		s.logger.Warn("approval transition rejected",
			zap.String("request_id", rid),
			zap.String("human_id", ar.HumanID),
			zap.String("status", string(ar.Status)),
			zap.String("action", string(cmd.Action)),
			zap.String("actor_id", actor.EmployeeID),
			zap.Error(err),
		)
		return err
	}
	_, ar.EffectsPending = s.effects.Lookup(ar.Type, change.To)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approval transition begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).ConditionalUpdate(ctx, ar, expectedStatus, expectedVersion); err != nil {
		if errors.Is(err, workflowerrors.ErrConcurrentUpdate) {
			s.logger.Info("approval transition lost race",
				zap.String("request_id", rid),
				zap.String("human_id", ar.HumanID),
				zap.Int("expected_version", expectedVersion),
			)
		} else {
			s.logger.Error("approval transition persist failed", zap.String("request_id", rid), zap.Error(err))
		}
		return err
	}

	entry := audit.Entry{
		CompanyID:  ar.CompanyID,
		RequestID:  ar.ID,
		HumanID:    ar.HumanID,
		Action:     auditAction(change.Action),
		FromStatus: string(change.From),
		ToStatus:   string(change.To),
		ActorID:    actor.EmployeeID,
		ActorKind:  actor.ActorKind(),
		Comment:    change.Comment,
		OccurredAt: change.At,
	}
	if err := s.recorder.WithTx(tx).Record(ctx, entry); err != nil {
		return err
	}

	if err := s.emit(ctx, tx, ar, events.ApprovalTransitionedEvent, change.From, actor.EmployeeID, change.Comment, change.At); err != nil {
		s.logger.Error("approval transition outbox failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if effect, ok := s.effects.LookupInTx(ar.Type, change.To); ok {
		if err := effect(ctx, tx, *ar); err != nil {
			s.logger.Error("approval transition effect failed",
				zap.String("request_id", rid),
				zap.String("human_id", ar.HumanID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approval transition commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.logger.Info("approval transition success",
		zap.String("request_id", rid),
		zap.String("human_id", ar.HumanID),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.String("actor_id", actor.EmployeeID),
		zap.Bool("terminal", change.Terminal),
	)

	if ar.EffectsPending {
		s.runEffects(ctx, *ar)
	}
	return nil
}

// runEffects leases and runs the effect owed by ar. A failed effect gives
// the lease back so the worker sweep retries it. An effect rejected as a
// client error will fail the same way every time, so it is recorded and
// dropped instead.
func (s *service) runEffects(ctx context.Context, ar ApprovalRequest) bool {
	effect, ok := s.effects.Lookup(ar.Type, ar.Status)
	if !ok {
		return false
	}

	id := ar.ID.String()
	now := s.now().UTC()
	claimed, err := s.repo.ClaimEffects(ctx, id, now, now.Add(-effectsLease))
	if err != nil {
		s.logger.Error("claim effects failed", zap.String("approval_id", id), zap.Error(err))
		return false
	}
	if !claimed {
		return false
	}

	if err := effect(ctx, ar); err != nil {
		if isClientError(err) {
			s.abandonEffects(ctx, ar, err)
			return false
		}
		s.logger.Error("approval effect failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("human_id", ar.HumanID),
			zap.String("status", string(ar.Status)),
			zap.Error(err),
		)
		if err := s.repo.ReleaseEffects(ctx, id); err != nil {
			s.logger.Error("release effects failed", zap.String("approval_id", id), zap.Error(err))
		}
		return false
	}

	if err := s.repo.CompleteEffects(ctx, id); err != nil {
		s.logger.Error("complete effects failed", zap.String("approval_id", id), zap.Error(err))
		return false
	}

	s.logger.Info("approval effect success",
		zap.String("human_id", ar.HumanID),
		zap.String("status", string(ar.Status)),
	)
	return true
}

func (s *service) abandonEffects(ctx context.Context, ar ApprovalRequest, cause error) {
	id := ar.ID.String()
	s.logger.Error("approval effect rejected",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("human_id", ar.HumanID),
		zap.String("status", string(ar.Status)),
		zap.Error(cause),
	)

	entry := audit.Entry{
		CompanyID:  ar.CompanyID,
		RequestID:  ar.ID,
		HumanID:    ar.HumanID,
		Action:     audit.ActionEffectFailed,
		FromStatus: string(ar.Status),
		ToStatus:   string(ar.Status),
		ActorID:    SystemPrincipal.EmployeeID,
		ActorKind:  audit.ActorKindSystem,
		Comment:    cause.Error(),
		OccurredAt: s.now().UTC(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		// the sweep retries once the ledger is back
		if err := s.repo.ReleaseEffects(ctx, id); err != nil {
			s.logger.Error("release effects failed", zap.String("approval_id", id), zap.Error(err))
		}
		return
	}
	if err := s.repo.CompleteEffects(ctx, id); err != nil {
		s.logger.Error("complete effects failed", zap.String("approval_id", id), zap.Error(err))
	}
}

func (s *service) emit(
	ctx context.Context,
	tx *sql.Tx,
	ar *ApprovalRequest,
	eventType string,
	from Status,
	actorID, comment string,
	at time.Time,
) error {
	if s.outbox == nil {
		return nil
	}

	evt := events.ApprovalTransitionEvent{
		EventType:   eventType,
		RequestID:   ar.ID.String(),
		HumanID:     ar.HumanID,
		CompanyID:   ar.CompanyID.String(),
		RequestType: string(ar.Type),
		RequesterID: ar.RequesterID.String(),
		FromStatus:  string(from),
		ToStatus:    string(ar.Status),
		ActorID:     actorID,
		Comment:     comment,
		OccurredAt:  at,
	}
	ob, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregateApprovalRequest,
		ar.ID.String(),
		eventType,
		events.ApprovalTransitionTopic,
		evt,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, ob)
}

// principal loads roles and primary position. Actors without an employee
// row (or with a malformed id) get no position rather than an error.
func (s *service) principal(ctx context.Context, companyID, actorID string) (Principal, error) {
	p := Principal{EmployeeID: actorID}

	roles, err := s.roles.RolesFor(companyID, actorID)
	if err != nil {
		s.logger.Error("resolve actor roles failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return Principal{}, err
	}
	p.Roles = roles

	positionID, err := s.employees.PrimaryPosition(ctx, companyID, actorID)
	switch {
	case err == nil:
		if positionID != uuid.Nil {
			p.PositionID = &positionID
		}
	case isClientError(err):
	default:
		return Principal{}, err
	}
	return p, nil
}

// requesterSupervisor derives the requester's supervisor position from the
// live reporting graph, one hop up from their primary position.
func (s *service) requesterSupervisor(ctx context.Context, ar *ApprovalRequest) (*uuid.UUID, error) {
	companyID := ar.CompanyID.String()
	positionID, err := s.employees.PrimaryPosition(ctx, companyID, ar.RequesterID.String())
	if err != nil {
		if isClientError(err) {
			return nil, nil
		}
		return nil, err
	}

	supervisor, err := s.resolver.ResolveSupervisorPosition(ctx, companyID, positionID.String())
	if err != nil {
		if isClientError(err) {
			return nil, nil
		}
		return nil, err
	}
	return supervisor, nil
}

// checkReparent rejects an org change that would put the position under
// itself, before the request can be approved.
func (s *service) checkReparent(ctx context.Context, ar *ApprovalRequest) error {
	var p OrgStructureChangePayload
	if err := json.Unmarshal(ar.Payload, &p); err != nil {
		return workflowerrors.ErrInvalidPayload
	}
	if p.NewReportsToPositionID == nil {
		return nil
	}
	if *p.NewReportsToPositionID == p.PositionID {
		return positionerrors.ErrReportingCycle
	}

	chain, err := s.resolver.ReportingChain(ctx, ar.CompanyID.String(), *p.NewReportsToPositionID)
	if errors.Is(err, positionerrors.ErrPositionNotFound) {
		return positionerrors.ErrReportsToNotFound
	}
	if err != nil {
		return err
	}
	for _, id := range chain {
		if id.String() == p.PositionID {
			return positionerrors.ErrReportingCycle
		}
	}
	return nil
}

func (s *service) toResponse(ctx context.Context, tpl Template, ar *ApprovalRequest, actor *Principal) ApprovalResponse {
	resp := ApprovalResponse{
		ID:           ar.ID.String(),
		HumanID:      ar.HumanID,
		CompanyID:    ar.CompanyID.String(),
		Type:         ar.Type,
		RequesterID:  ar.RequesterID.String(),
		Payload:      ar.Payload,
		Status:       ar.Status,
		Terminal:     tpl.IsTerminal(ar.Status),
		ApprovalFlow: make([]FlowStepResponse, 0, len(ar.ApprovalFlow)),
		SubmittedAt:  ar.SubmittedAt,
		ProcessedAt:  ar.ProcessedAt,
		PaidAt:       ar.PaidAt,
		Version:      ar.Version,
	}
	resp.AvailableActions = []Action{}
	if step := ar.currentStep(); step != nil && !resp.Terminal {
		resp.CurrentStep = step.Key
	}
	for _, step := range ar.ApprovalFlow {
		resp.ApprovalFlow = append(resp.ApprovalFlow, FlowStepResponse{
			Key:         step.Key,
			Roles:       step.Roles,
			Status:      step.Status,
			DecidedBy:   step.DecidedBy,
			DecidedAt:   step.DecidedAt,
			Comment:     step.Comment,
			EscalatedAt: step.EscalatedAt,
		})
	}
	if ar.ResolutionComment != nil {
		resp.ResolutionComment = *ar.ResolutionComment
	}
	if ar.FinanceStaffID != nil {
		resp.FinanceStaffID = ar.FinanceStaffID.String()
	}
	if ar.PaidInPayrollRunID != nil {
		resp.PaidInPayrollRunID = *ar.PaidInPayrollRunID
	}

	if actor != nil && !resp.Terminal {
		var supervisor *uuid.UUID
		if needsSupervisor(tpl, ar.Status) && actor.PositionID != nil {
			// a lookup failure only hides supervisor-bound actions
			supervisor, _ = s.requesterSupervisor(ctx, ar)
		}
		if actions := s.machine.AvailableActions(tpl, ar, *actor, supervisor); actions != nil {
			resp.AvailableActions = actions
		}
	}
	return resp
}

func needsSupervisor(tpl Template, status Status) bool {
	for _, t := range tpl.Transitions {
		if t.SupervisorBound && t.appliesTo(status) {
			return true
		}
	}
	return false
}

func snapshot(ar *ApprovalRequest) audit.Snapshot {
	snap := audit.Snapshot{
		RequestID:   ar.ID,
		CompanyID:   ar.CompanyID,
		HumanID:     ar.HumanID,
		RequesterID: ar.RequesterID.String(),
		Status:      string(ar.Status),
		SubmittedAt: ar.SubmittedAt,
		ProcessedAt: ar.ProcessedAt,
	}
	if tpl, err := TemplateFor(ar.Type); err == nil {
		snap.InitialStatus = string(tpl.Initial)
	}
	if ar.ResolutionComment != nil {
		snap.ResolutionComment = *ar.ResolutionComment
	}
	for _, step := range ar.ApprovalFlow {
		if step.DecidedAt == nil {
			continue
		}
		snap.Decisions = append(snap.Decisions, audit.Decision{
			Step:      step.Key,
			Status:    string(step.Status),
			DecidedBy: step.DecidedBy,
			DecidedAt: *step.DecidedAt,
			Comment:   step.Comment,
		})
	}
	return snap
}

// approve -> APPROVE, delegation-review -> DELEGATION_REVIEW
func auditAction(a Action) string {
	return strings.ToUpper(strings.ReplaceAll(string(a), "-", "_"))
}

func isClientError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus >= http.StatusBadRequest && appErr.HTTPStatus < http.StatusInternalServerError
}
