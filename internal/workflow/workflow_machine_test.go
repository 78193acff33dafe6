package workflow_test

import (
	"encoding/json"
	"testing"
	"time"

	"go-hris-workflow/internal/workflow"
	workflowerrors "go-hris-workflow/internal/workflow/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submittedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newRequest(t *testing.T, rt workflow.RequestType, requester uuid.UUID) *workflow.ApprovalRequest {
	t.Helper()
	tpl, err := workflow.TemplateFor(rt)
	require.NoError(t, err)
	return &workflow.ApprovalRequest{
		ID:           uuid.New(),
		HumanID:      tpl.Prefix + "-0001",
		CompanyID:    uuid.New(),
		Type:         rt,
		RequesterID:  requester,
		Payload:      json.RawMessage(`{}`),
		Status:       tpl.Initial,
		ApprovalFlow: tpl.NewFlow(),
		SubmittedAt:  submittedAt,
		Version:      1,
	}
}

func employee(roles ...string) workflow.Principal {
	return workflow.Principal{EmployeeID: uuid.NewString(), Roles: roles}
}

func apply(t *testing.T, req *workflow.ApprovalRequest, cmd workflow.Command, actor workflow.Principal) (workflow.Change, error) {
	t.Helper()
	tpl, err := workflow.TemplateFor(req.Type)
	require.NoError(t, err)
	return workflow.NewMachine().Apply(tpl, req, cmd, actor, submittedAt.Add(time.Hour))
}

func TestTemplates_FlowLength(t *testing.T) {
	expected := map[workflow.RequestType]int{
		workflow.TypePayrollClaim:       1,
		workflow.TypePayrollDispute:     1,
		workflow.TypePayrollRefund:      2,
		workflow.TypeProfileChange:      1,
		workflow.TypeOrgStructureChange: 1,
		workflow.TypeLeave:              4,
	}
	assert.Len(t, workflow.RequestTypes(), len(expected))

	for rt, steps := range expected {
		tpl, err := workflow.TemplateFor(rt)
		require.NoError(t, err)
		flow := tpl.NewFlow()
		assert.Len(t, flow, steps, rt)
		for _, s := range flow {
			assert.Equal(t, workflow.StepPending, s.Status)
		}
	}

	_, err := workflow.TemplateFor("TIMESHEET")
	assert.ErrorIs(t, err, workflowerrors.ErrUnknownRequestType)
}

func TestMachine_ClaimApproval(t *testing.T) {
	t.Run("success - specialist approves with comment", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		specialist := employee(workflow.RolePayrollSpecialist)

		change, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove, Comment: "valid receipt"}, specialist)

		require.NoError(t, err)
		assert.Equal(t, workflow.StatusUnderReview, change.From)
		assert.Equal(t, workflow.StatusApproved, change.To)
		assert.True(t, change.Terminal)
		assert.Equal(t, workflow.StatusApproved, req.Status)
		require.NotNil(t, req.ResolutionComment)
		assert.Equal(t, "valid receipt", *req.ResolutionComment)
		require.NotNil(t, req.ProcessedAt)
		assert.False(t, req.ProcessedAt.Before(req.SubmittedAt))
		assert.Equal(t, 2, req.Version)
		assert.Equal(t, workflow.StepApproved, req.ApprovalFlow[0].Status)
		assert.Equal(t, specialist.EmployeeID, req.ApprovalFlow[0].DecidedBy)
	})

	t.Run("negative - resolved request rejects every later action", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		specialist := employee(workflow.RolePayrollSpecialist)
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, specialist)
		require.NoError(t, err)
		processedAt := *req.ProcessedAt

		for _, action := range []workflow.Action{workflow.ActionApprove, workflow.ActionReject} {
			_, err := apply(t, req, workflow.Command{Action: action}, specialist)
			assert.ErrorIs(t, err, workflowerrors.ErrAlreadyResolved)
		}
		assert.Equal(t, processedAt, *req.ProcessedAt)
		assert.Equal(t, 2, req.Version)
	})

	t.Run("negative - wrong role leaves the request unchanged", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		before := *req
		beforeFlow := append([]workflow.FlowStep(nil), req.ApprovalFlow...)

		_, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, employee(workflow.RoleHRAdmin))

		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)
		assert.Equal(t, before.Status, req.Status)
		assert.Equal(t, before.Version, req.Version)
		assert.Nil(t, req.ProcessedAt)
		assert.Equal(t, beforeFlow, req.ApprovalFlow)
	})

	t.Run("negative - unknown action", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionPay}, employee(workflow.RolePayrollSpecialist))
		assert.ErrorIs(t, err, workflowerrors.ErrInvalidTransition)
	})

	t.Run("negative - system principal cannot review", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, workflow.SystemPrincipal)
		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)
	})
}

func TestMachine_Leave(t *testing.T) {
	supervisorPos := uuid.New()
	manager := employee(workflow.RoleLineManager)
	manager.PositionID = &supervisorPos

	t.Run("success - escalation then manager approval", func(t *testing.T) {
		req := newRequest(t, workflow.TypeLeave, uuid.New())

		change, err := apply(t, req, workflow.Command{Action: workflow.ActionEscalate}, workflow.SystemPrincipal)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusAutoEscalated, change.To)
		assert.False(t, change.Terminal)
		assert.Nil(t, req.ProcessedAt)
		assert.NotNil(t, req.ApprovalFlow[0].EscalatedAt)
		assert.Equal(t, workflow.StepPending, req.ApprovalFlow[0].Status)

		_, err = apply(t, req, workflow.Command{Action: workflow.ActionApprove}, manager)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusManagerApproved, req.Status)
		assert.Equal(t, workflow.StepApproved, req.ApprovalFlow[0].Status)
	})

	t.Run("negative - only the scheduler escalates", func(t *testing.T) {
		req := newRequest(t, workflow.TypeLeave, uuid.New())
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionEscalate}, employee(workflow.RoleHRAdmin))
		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)
		assert.Equal(t, workflow.StatusLeavePending, req.Status)
	})

	t.Run("negative - line manager who is not the supervisor", func(t *testing.T) {
		req := newRequest(t, workflow.TypeLeave, uuid.New())
		other := uuid.New()
		cmd := workflow.Command{Action: workflow.ActionApprove, RequesterSupervisorPositionID: &other}

		_, err := apply(t, req, cmd, manager)
		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)
	})

	t.Run("negative - requester without a supervisor", func(t *testing.T) {
		req := newRequest(t, workflow.TypeLeave, uuid.New())
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, manager)
		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)
	})

	t.Run("success - manager rejection is reviewed and finalised by HR", func(t *testing.T) {
		req := newRequest(t, workflow.TypeLeave, uuid.New())
		cmd := workflow.Command{Action: workflow.ActionReject, RequesterSupervisorPositionID: &supervisorPos}

		_, err := apply(t, req, cmd, manager)
		assert.ErrorIs(t, err, workflowerrors.ErrReasonRequired)
		assert.Equal(t, workflow.StatusLeavePending, req.Status)

		cmd.Comment = "team is short staffed"
		_, err = apply(t, req, cmd, manager)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusManagerRejected, req.Status)
		assert.Nil(t, req.ProcessedAt)

		hr := employee(workflow.RoleHRAdmin)
		_, err = apply(t, req, workflow.Command{Action: workflow.ActionDelegationReview}, hr)
		require.NoError(t, err)

		change, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove, Comment: "covered by delegate"}, hr)
		require.NoError(t, err)
		assert.True(t, change.Terminal)
		assert.Equal(t, workflow.StatusApproved, req.Status)
		assert.Equal(t, []workflow.StepStatus{
			workflow.StepRejected,
			workflow.StepReviewed,
			workflow.StepSkipped,
			workflow.StepApproved,
		}, stepStatuses(req))
		assert.Equal(t, 4, req.Version)
	})

	t.Run("success - requester cancels", func(t *testing.T) {
		requester := uuid.New()
		req := newRequest(t, workflow.TypeLeave, requester)

		_, err := apply(t, req, workflow.Command{Action: workflow.ActionCancel}, employee(workflow.RoleHRAdmin))
		assert.ErrorIs(t, err, workflowerrors.ErrForbidden)

		owner := workflow.Principal{EmployeeID: requester.String()}
		change, err := apply(t, req, workflow.Command{Action: workflow.ActionCancel}, owner)
		require.NoError(t, err)
		assert.True(t, change.Terminal)
		assert.Equal(t, workflow.StatusCancelled, req.Status)
		assert.Equal(t, []workflow.StepStatus{
			workflow.StepSkipped, workflow.StepSkipped, workflow.StepSkipped, workflow.StepSkipped,
		}, stepStatuses(req))
	})
}

func TestMachine_OrgStructureRejectNeedsReason(t *testing.T) {
	req := newRequest(t, workflow.TypeOrgStructureChange, uuid.New())
	admin := employee(workflow.RoleSystemAdmin)

	_, err := apply(t, req, workflow.Command{Action: workflow.ActionReject}, admin)

	assert.ErrorIs(t, err, workflowerrors.ErrReasonRequired)
	assert.Equal(t, workflow.StatusSubmitted, req.Status)
	assert.Equal(t, 1, req.Version)
}

func TestMachine_RefundPayout(t *testing.T) {
	finance := employee(workflow.RoleFinanceStaff)

	t.Run("success - approve then pay", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollRefund, uuid.New())

		change, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, finance)
		require.NoError(t, err)
		assert.False(t, change.Terminal)
		assert.True(t, change.Resolved)
		require.NotNil(t, req.ProcessedAt)
		processedAt := *req.ProcessedAt

		_, err = apply(t, req, workflow.Command{Action: workflow.ActionPay}, finance)
		assert.ErrorIs(t, err, workflowerrors.ErrPayrollRunRequired)

		staff := uuid.New()
		cmd := workflow.Command{Action: workflow.ActionPay, PayrollRunID: "PR-2026-03", FinanceStaffID: staff.String()}
		change, err = apply(t, req, cmd, finance)
		require.NoError(t, err)
		assert.True(t, change.Terminal)
		assert.Equal(t, workflow.StatusPaid, req.Status)
		require.NotNil(t, req.FinanceStaffID)
		assert.Equal(t, staff, *req.FinanceStaffID)
		require.NotNil(t, req.PaidInPayrollRunID)
		assert.Equal(t, "PR-2026-03", *req.PaidInPayrollRunID)
		assert.NotNil(t, req.PaidAt)
		assert.Equal(t, processedAt, *req.ProcessedAt)

		_, err = apply(t, req, cmd, finance)
		assert.ErrorIs(t, err, workflowerrors.ErrAlreadyResolved)
	})

	t.Run("negative - malformed finance staff id", func(t *testing.T) {
		req := newRequest(t, workflow.TypePayrollRefund, uuid.New())
		_, err := apply(t, req, workflow.Command{Action: workflow.ActionApprove}, finance)
		require.NoError(t, err)

		_, err = apply(t, req, workflow.Command{Action: workflow.ActionPay, PayrollRunID: "PR-1", FinanceStaffID: "nope"}, finance)
		assert.ErrorIs(t, err, workflowerrors.ErrInvalidFinanceStaff)
		assert.Equal(t, workflow.StatusApproved, req.Status)
		assert.Nil(t, req.PaidAt)
	})
}

func TestMachine_AvailableActions(t *testing.T) {
	requester := uuid.New()
	req := newRequest(t, workflow.TypeProfileChange, requester)
	tpl, err := workflow.TemplateFor(workflow.TypeProfileChange)
	require.NoError(t, err)
	m := workflow.NewMachine()

	owner := workflow.Principal{EmployeeID: requester.String()}
	assert.Equal(t, []workflow.Action{workflow.ActionCancel}, m.AvailableActions(tpl, req, owner, nil))

	hr := employee(workflow.RoleHRManager)
	assert.Equal(t, []workflow.Action{workflow.ActionApprove, workflow.ActionReject}, m.AvailableActions(tpl, req, hr, nil))

	req.Status = workflow.StatusApproved
	assert.Empty(t, m.AvailableActions(tpl, req, hr, nil))
}

func stepStatuses(req *workflow.ApprovalRequest) []workflow.StepStatus {
	out := make([]workflow.StepStatus, len(req.ApprovalFlow))
	for i, s := range req.ApprovalFlow {
		out[i] = s.Status
	}
	return out
}
