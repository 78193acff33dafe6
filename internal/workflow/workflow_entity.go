package workflow

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FlowStep is the persisted state of one template step.
type FlowStep struct {
	Key         string     `json:"key"`
	Roles       []string   `json:"roles"`
	Status      StepStatus `json:"status"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	EscalatedAt *time.Time `json:"escalatedAt,omitempty"`
}

type ApprovalRequest struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HumanID            string          `gorm:"size:32;not null;uniqueIndex:uq_approval_request_human_id,priority:2"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_approval_request_human_id,priority:1"`
	Type               RequestType     `gorm:"column:request_type;size:32;not null"`
	RequesterID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Payload            json.RawMessage `gorm:"type:jsonb;serializer:json"`
	Status             Status          `gorm:"size:32;not null"`
	ApprovalFlow       []FlowStep      `gorm:"type:jsonb;serializer:json"`
	SubmittedAt        time.Time       `gorm:"not null"`
	ProcessedAt        *time.Time
	PaidAt             *time.Time
	ResolutionComment  *string
	FinanceStaffID     *uuid.UUID `gorm:"type:uuid"`
	PaidInPayrollRunID *string    `gorm:"size:64"`
	EffectsPending     bool       `gorm:"not null;default:false"`
	EffectsClaimedAt   *time.Time `gorm:"column:effects_claimed_at"`
	Version            int        `gorm:"not null;default:1"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

// clone copies the request deep enough that mutating the copy's flow or
// pointer fields never touches the original.
func (r *ApprovalRequest) clone() *ApprovalRequest {
	c := *r
	c.Payload = append(json.RawMessage(nil), r.Payload...)
	c.ApprovalFlow = make([]FlowStep, len(r.ApprovalFlow))
	for i, s := range r.ApprovalFlow {
		s.Roles = append([]string(nil), s.Roles...)
		s.DecidedAt = copyTime(s.DecidedAt)
		s.EscalatedAt = copyTime(s.EscalatedAt)
		c.ApprovalFlow[i] = s
	}
	c.ProcessedAt = copyTime(r.ProcessedAt)
	c.PaidAt = copyTime(r.PaidAt)
	if r.ResolutionComment != nil {
		v := *r.ResolutionComment
		c.ResolutionComment = &v
	}
	if r.FinanceStaffID != nil {
		v := *r.FinanceStaffID
		c.FinanceStaffID = &v
	}
	if r.PaidInPayrollRunID != nil {
		v := *r.PaidInPayrollRunID
		c.PaidInPayrollRunID = &v
	}
	return &c
}

// currentStep is the first step still pending, or nil.
func (r *ApprovalRequest) currentStep() *FlowStep {
	for i := range r.ApprovalFlow {
		if r.ApprovalFlow[i].Status == StepPending {
			return &r.ApprovalFlow[i]
		}
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
