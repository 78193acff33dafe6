package workflow

import (
	"strings"
	"time"

	"go-hris-workflow/internal/rbac"
	workflowerrors "go-hris-workflow/internal/workflow/errors"

	"github.com/google/uuid"
)

// Command is a requested transition plus the context the gate needs.
type Command struct {
	Action         Action
	Comment        string
	PayrollRunID   string
	FinanceStaffID string
	// RequesterSupervisorPositionID is the requester's derived supervisor,
	// consulted only by supervisor-bound transitions.
	RequesterSupervisorPositionID *uuid.UUID
}

// Change describes a successfully applied transition.
type Change struct {
	From     Status
	To       Status
	Action   Action
	Step     string
	Actor    Principal
	Comment  string
	Terminal bool
	Resolved bool
	At       time.Time
}

// Machine applies template transitions to requests. It holds no state; the
// type exists so the service can be given a different machine in tests.
type Machine struct{}

func NewMachine() *Machine {
	return &Machine{}
}

// Apply validates cmd against tpl and, on success, mutates req in place.
// On any error req is left untouched.
func (m *Machine) Apply(tpl Template, req *ApprovalRequest, cmd Command, actor Principal, now time.Time) (Change, error) {
	if tpl.IsTerminal(req.Status) {
		return Change{}, workflowerrors.ErrAlreadyResolved
	}

	t, ok := tpl.Find(req.Status, cmd.Action)
	if !ok {
		return Change{}, workflowerrors.ErrInvalidTransition
	}

	if err := authorize(t, req, cmd, actor); err != nil {
		return Change{}, err
	}

	if t.ReasonRequired && strings.TrimSpace(cmd.Comment) == "" {
		return Change{}, workflowerrors.ErrReasonRequired
	}
	if t.PayoutRequired && strings.TrimSpace(cmd.PayrollRunID) == "" {
		return Change{}, workflowerrors.ErrPayrollRunRequired
	}

	next := req.clone()
	now = now.UTC()

	if idx := tpl.stepIndex(t.Step); idx >= 0 && idx < len(next.ApprovalFlow) {
		for i := 0; i < idx; i++ {
			if next.ApprovalFlow[i].Status == StepPending {
				next.ApprovalFlow[i].Status = StepSkipped
			}
		}
		step := &next.ApprovalFlow[idx]
		at := now
		if t.Decision != "" {
			step.Status = t.Decision
			step.DecidedBy = actor.EmployeeID
			step.DecidedAt = &at
			step.Comment = cmd.Comment
		} else if t.Action == ActionEscalate {
			step.EscalatedAt = &at
		}
	}

	terminal := tpl.IsTerminal(t.To)
	if terminal {
		for i := range next.ApprovalFlow {
			if next.ApprovalFlow[i].Status == StepPending {
				next.ApprovalFlow[i].Status = StepSkipped
			}
		}
	}

	resolved := terminal || t.Resolves
	if resolved {
		if next.ProcessedAt == nil {
			at := now
			next.ProcessedAt = &at
		}
		if comment := strings.TrimSpace(cmd.Comment); comment != "" {
			next.ResolutionComment = &comment
		}
	}

	if t.PayoutRequired {
		staff := actor.EmployeeID
		if cmd.FinanceStaffID != "" {
			staff = cmd.FinanceStaffID
		}
		staffID, err := uuid.Parse(staff)
		if err != nil {
			return Change{}, workflowerrors.ErrInvalidFinanceStaff
		}
		run := strings.TrimSpace(cmd.PayrollRunID)
		at := now
		next.FinanceStaffID = &staffID
		next.PaidInPayrollRunID = &run
		next.PaidAt = &at
	}

	from := next.Status
	next.Status = t.To
	next.Version++
	*req = *next

	return Change{
		From:     from,
		To:       t.To,
		Action:   t.Action,
		Step:     t.Step,
		Actor:    actor,
		Comment:  cmd.Comment,
		Terminal: terminal,
		Resolved: resolved,
		At:       now,
	}, nil
}

// AvailableActions lists the actions actor could take on req right now.
func (m *Machine) AvailableActions(tpl Template, req *ApprovalRequest, actor Principal, supervisor *uuid.UUID) []Action {
	if tpl.IsTerminal(req.Status) {
		return nil
	}
	var actions []Action
	for _, t := range tpl.Transitions {
		if !t.appliesTo(req.Status) {
			continue
		}
		if authorize(t, req, Command{Action: t.Action, RequesterSupervisorPositionID: supervisor}, actor) == nil {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

func authorize(t Transition, req *ApprovalRequest, cmd Command, actor Principal) error {
	if t.SystemOnly {
		if !actor.System {
			return workflowerrors.ErrForbidden
		}
		return nil
	}
	if actor.System {
		return workflowerrors.ErrForbidden
	}

	if t.OwnerOnly {
		if actor.EmployeeID != req.RequesterID.String() {
			return workflowerrors.ErrForbidden
		}
		return nil
	}

	if !rbac.Authorize(actor.Roles, t.Roles) {
		return workflowerrors.ErrForbidden
	}

	if t.SupervisorBound {
		supervisor := cmd.RequesterSupervisorPositionID
		if actor.PositionID == nil || supervisor == nil || *actor.PositionID != *supervisor {
			return workflowerrors.ErrForbidden
		}
	}
	return nil
}
