package workflow

import (
	"sort"

	workflowerrors "go-hris-workflow/internal/workflow/errors"
)

// Step is one decision point of a flow and the roles that may decide it.
type Step struct {
	Key   string
	Roles []string
}

// Transition is one row of a template's table. Step names the flow step the
// transition decides (empty when no step is decided, e.g. cancel) and
// Decision is the status that step receives.
type Transition struct {
	From            []Status
	Action          Action
	To              Status
	Step            string
	Decision        StepStatus
	Roles           []string
	SystemOnly      bool
	OwnerOnly       bool
	SupervisorBound bool
	ReasonRequired  bool
	PayoutRequired  bool
	Resolves        bool
}

func (t Transition) appliesTo(s Status) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

// Template is the fixed flow of a request type.
type Template struct {
	Type        RequestType
	Prefix      string
	Initial     Status
	Steps       []Step
	Transitions []Transition
	Terminal    []Status
}

func (t Template) IsTerminal(s Status) bool {
	for _, term := range t.Terminal {
		if term == s {
			return true
		}
	}
	return false
}

// Find returns the transition for action from status s.
func (t Template) Find(s Status, action Action) (Transition, bool) {
	for _, tr := range t.Transitions {
		if tr.Action == action && tr.appliesTo(s) {
			return tr, true
		}
	}
	return Transition{}, false
}

// ReviewerRoles is every role that decides some step of the template.
func (t Template) ReviewerRoles() []string {
	seen := map[string]struct{}{}
	for _, s := range t.Steps {
		for _, r := range s.Roles {
			seen[r] = struct{}{}
		}
	}
	for _, tr := range t.Transitions {
		for _, r := range tr.Roles {
			seen[r] = struct{}{}
		}
	}
	roles := make([]string, 0, len(seen))
	for r := range seen {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// NewFlow builds the initial approval flow: one pending entry per step.
func (t Template) NewFlow() []FlowStep {
	flow := make([]FlowStep, len(t.Steps))
	for i, s := range t.Steps {
		flow[i] = FlowStep{
			Key:    s.Key,
			Roles:  append([]string(nil), s.Roles...),
			Status: StepPending,
		}
	}
	return flow
}

func (t Template) stepIndex(key string) int {
	for i, s := range t.Steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}

const (
	stepReview     = "UNDER_REVIEW"
	stepPending    = "PENDING"
	stepPayment    = "APPROVED"
	stepSubmitted  = "SUBMITTED"
	stepManager    = "manager"
	stepDelegation = "delegation"
	stepCompliance = "compliance"
	stepFinal      = "final"
)

func singleReviewTemplate(rt RequestType, prefix string, role string) Template {
	return Template{
		Type:    rt,
		Prefix:  prefix,
		Initial: StatusUnderReview,
		Steps:   []Step{{Key: stepReview, Roles: []string{role}}},
		Transitions: []Transition{
			{From: []Status{StatusUnderReview}, Action: ActionApprove, To: StatusApproved, Step: stepReview, Decision: StepApproved, Roles: []string{role}},
			{From: []Status{StatusUnderReview}, Action: ActionReject, To: StatusRejected, Step: stepReview, Decision: StepRejected, Roles: []string{role}},
		},
		Terminal: []Status{StatusApproved, StatusRejected},
	}
}

var refundTemplate = Template{
	Type:    TypePayrollRefund,
	Prefix:  "REFUND",
	Initial: StatusPending,
	Steps: []Step{
		{Key: stepPending, Roles: []string{RoleFinanceStaff}},
		{Key: stepPayment, Roles: []string{RoleFinanceStaff}},
	},
	Transitions: []Transition{
		{From: []Status{StatusPending}, Action: ActionApprove, To: StatusApproved, Step: stepPending, Decision: StepApproved, Roles: []string{RoleFinanceStaff}, Resolves: true},
		{From: []Status{StatusPending}, Action: ActionReject, To: StatusRejected, Step: stepPending, Decision: StepRejected, Roles: []string{RoleFinanceStaff}},
		{From: []Status{StatusApproved}, Action: ActionPay, To: StatusPaid, Step: stepPayment, Decision: StepPaid, Roles: []string{RoleFinanceStaff}, PayoutRequired: true},
	},
	Terminal: []Status{StatusRejected, StatusPaid},
}

var profileChangeTemplate = Template{
	Type:    TypeProfileChange,
	Prefix:  "PCR",
	Initial: StatusPending,
	Steps:   []Step{{Key: stepPending, Roles: []string{RoleHRAdmin, RoleHRManager}}},
	Transitions: []Transition{
		{From: []Status{StatusPending}, Action: ActionApprove, To: StatusApproved, Step: stepPending, Decision: StepApproved, Roles: []string{RoleHRAdmin, RoleHRManager}},
		{From: []Status{StatusPending}, Action: ActionReject, To: StatusRejected, Step: stepPending, Decision: StepRejected, Roles: []string{RoleHRAdmin, RoleHRManager}},
		{From: []Status{StatusPending}, Action: ActionCancel, To: StatusCancelled, OwnerOnly: true},
	},
	Terminal: []Status{StatusApproved, StatusRejected, StatusCancelled},
}

var orgStructureChangeTemplate = Template{
	Type:    TypeOrgStructureChange,
	Prefix:  "OSC",
	Initial: StatusSubmitted,
	Steps:   []Step{{Key: stepSubmitted, Roles: []string{RoleSystemAdmin}}},
	Transitions: []Transition{
		{From: []Status{StatusSubmitted}, Action: ActionApprove, To: StatusApproved, Step: stepSubmitted, Decision: StepApproved, Roles: []string{RoleSystemAdmin}},
		{From: []Status{StatusSubmitted}, Action: ActionReject, To: StatusRejected, Step: stepSubmitted, Decision: StepRejected, Roles: []string{RoleSystemAdmin}, ReasonRequired: true},
	},
	Terminal: []Status{StatusApproved, StatusRejected},
}

// leaveTemplate branches: manager-rejected is not terminal, HR admin has
// the final word after the optional delegation and compliance reviews.
var leaveTemplate = func() Template {
	managerDecided := []Status{StatusManagerApproved, StatusManagerRejected}
	reviewable := []Status{StatusManagerApproved, StatusManagerRejected, StatusDelegationReviewed}
	finalisable := []Status{StatusManagerApproved, StatusManagerRejected, StatusDelegationReviewed, StatusComplianceReviewed}
	escalatedRoles := []string{RoleLineManager, RoleHRManager}

	return Template{
		Type:    TypeLeave,
		Prefix:  "LEAVE",
		Initial: StatusLeavePending,
		Steps: []Step{
			{Key: stepManager, Roles: []string{RoleLineManager}},
			{Key: stepDelegation, Roles: []string{RoleHRAdmin}},
			{Key: stepCompliance, Roles: []string{RoleComplianceOfficer}},
			{Key: stepFinal, Roles: []string{RoleHRAdmin}},
		},
		Transitions: []Transition{
			{From: []Status{StatusLeavePending}, Action: ActionEscalate, To: StatusAutoEscalated, Step: stepManager, SystemOnly: true},
			{From: []Status{StatusLeavePending}, Action: ActionApprove, To: StatusManagerApproved, Step: stepManager, Decision: StepApproved, Roles: []string{RoleLineManager}, SupervisorBound: true},
			{From: []Status{StatusLeavePending}, Action: ActionReject, To: StatusManagerRejected, Step: stepManager, Decision: StepRejected, Roles: []string{RoleLineManager}, SupervisorBound: true, ReasonRequired: true},
			{From: []Status{StatusAutoEscalated}, Action: ActionApprove, To: StatusManagerApproved, Step: stepManager, Decision: StepApproved, Roles: escalatedRoles},
			{From: []Status{StatusAutoEscalated}, Action: ActionReject, To: StatusManagerRejected, Step: stepManager, Decision: StepRejected, Roles: escalatedRoles},
			{From: []Status{StatusLeavePending, StatusAutoEscalated}, Action: ActionCancel, To: StatusCancelled, OwnerOnly: true},
			{From: managerDecided, Action: ActionDelegationReview, To: StatusDelegationReviewed, Step: stepDelegation, Decision: StepReviewed, Roles: []string{RoleHRAdmin}},
			{From: reviewable, Action: ActionComplianceReview, To: StatusComplianceReviewed, Step: stepCompliance, Decision: StepReviewed, Roles: []string{RoleComplianceOfficer}},
			{From: finalisable, Action: ActionApprove, To: StatusApproved, Step: stepFinal, Decision: StepApproved, Roles: []string{RoleHRAdmin}},
			{From: finalisable, Action: ActionReject, To: StatusRejected, Step: stepFinal, Decision: StepRejected, Roles: []string{RoleHRAdmin}, ReasonRequired: true},
		},
		Terminal: []Status{StatusApproved, StatusRejected, StatusCancelled},
	}
}()

var templates = map[RequestType]Template{
	TypePayrollClaim:       singleReviewTemplate(TypePayrollClaim, "CLAIM", RolePayrollSpecialist),
	TypePayrollDispute:     singleReviewTemplate(TypePayrollDispute, "DISPUTE", RolePayrollSpecialist),
	TypePayrollRefund:      refundTemplate,
	TypeProfileChange:      profileChangeTemplate,
	TypeOrgStructureChange: orgStructureChangeTemplate,
	TypeLeave:              leaveTemplate,
}

func TemplateFor(rt RequestType) (Template, error) {
	tpl, ok := templates[rt]
	if !ok {
		return Template{}, workflowerrors.ErrUnknownRequestType
	}
	return tpl, nil
}

// RequestTypes lists the supported types in a stable order.
func RequestTypes() []RequestType {
	types := make([]RequestType, 0, len(templates))
	for rt := range templates {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
