package workflow

import "github.com/google/uuid"

type RequestType string

const (
	TypePayrollClaim       RequestType = "PAYROLL_CLAIM"
	TypePayrollDispute     RequestType = "PAYROLL_DISPUTE"
	TypePayrollRefund      RequestType = "PAYROLL_REFUND"
	TypeProfileChange      RequestType = "PROFILE_CHANGE"
	TypeOrgStructureChange RequestType = "ORG_STRUCTURE_CHANGE"
	TypeLeave              RequestType = "LEAVE"
)

// Status is a stage name or a terminal value. Leave stages are lower-case
// to match the leave module's historical values.
type Status string

const (
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusPending     Status = "PENDING"
	StatusSubmitted   Status = "SUBMITTED"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusPaid        Status = "PAID"
	StatusCancelled   Status = "CANCELLED"

	StatusLeavePending       Status = "pending"
	StatusAutoEscalated      Status = "auto-escalated"
	StatusManagerApproved    Status = "manager-approved"
	StatusManagerRejected    Status = "manager-rejected"
	StatusDelegationReviewed Status = "delegation-reviewed"
	StatusComplianceReviewed Status = "compliance-reviewed"
)

type Action string

const (
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionPay              Action = "pay"
	ActionCancel           Action = "cancel"
	ActionEscalate         Action = "escalate"
	ActionDelegationReview Action = "delegation-review"
	ActionComplianceReview Action = "compliance-review"
)

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepReviewed StepStatus = "reviewed"
	StepPaid     StepStatus = "paid"
	StepSkipped  StepStatus = "skipped"
)

const (
	RoleHRAdmin           = "HR_ADMIN"
	RoleHRManager         = "HR_MANAGER"
	RolePayrollSpecialist = "PAYROLL_SPECIALIST"
	RoleFinanceStaff      = "FINANCE_STAFF"
	RoleSystemAdmin       = "SYSTEM_ADMIN"
	RoleLineManager       = "LINE_MANAGER"
	RoleComplianceOfficer = "COMPLIANCE_OFFICER"
)

const systemActorID = "system"

// Principal is whoever acts on a request: an employee with roles and a
// position, or the scheduler.
type Principal struct {
	EmployeeID string
	Roles      []string
	PositionID *uuid.UUID
	System     bool
}

// SystemPrincipal is the scheduler identity. It holds no roles and passes
// only system transitions.
var SystemPrincipal = Principal{EmployeeID: systemActorID, System: true}

func (p Principal) ActorKind() string {
	if p.System {
		return "system"
	}
	return "employee"
}
