package workflow

import (
	"encoding/json"
	"time"
)

type SubmitRequest struct {
	Type    RequestType     `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}

type DecisionRequest struct {
	Action         Action `json:"action" binding:"required"`
	Comment        string `json:"comment"`
	PayrollRunID   string `json:"payroll_run_id"`
	FinanceStaffID string `json:"finance_staff_id" binding:"omitempty,uuid"`
}

type ListQuery struct {
	Type   RequestType `form:"type"`
	Status Status      `form:"status"`
	Mine   bool        `form:"mine"`
	Page   int         `form:"page"`
	Limit  int         `form:"page_size"`
}

type FlowStepResponse struct {
	Key         string     `json:"key"`
	Roles       []string   `json:"roles"`
	Status      StepStatus `json:"status"`
	DecidedBy   string     `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	EscalatedAt *time.Time `json:"escalated_at,omitempty"`
}

type ApprovalResponse struct {
	ID                 string             `json:"id"`
	HumanID            string             `json:"human_id"`
	CompanyID          string             `json:"company_id"`
	Type               RequestType        `json:"type"`
	RequesterID        string             `json:"requester_id"`
	Payload            json.RawMessage    `json:"payload"`
	Status             Status             `json:"status"`
	Terminal           bool               `json:"terminal"`
	CurrentStep        string             `json:"current_step,omitempty"`
	ApprovalFlow       []FlowStepResponse `json:"approval_flow"`
	SubmittedAt        time.Time          `json:"submitted_at"`
	ProcessedAt        *time.Time         `json:"processed_at,omitempty"`
	PaidAt             *time.Time         `json:"paid_at,omitempty"`
	ResolutionComment  string             `json:"resolution_comment,omitempty"`
	FinanceStaffID     string             `json:"finance_staff_id,omitempty"`
	PaidInPayrollRunID string             `json:"paid_in_payroll_run_id,omitempty"`
	Version            int                `json:"version"`
	AvailableActions   []Action           `json:"available_actions"`
}

type HistoryEntryResponse struct {
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorKind  string    `json:"actor_kind"`
	Comment    string    `json:"comment,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
