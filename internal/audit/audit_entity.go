package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActorKindEmployee = "employee"
	ActorKindSystem   = "system"

	ActionSubmitted    = "SUBMITTED"
	ActionEffectFailed = "EFFECT_FAILED"
)

// Entry is one row of the append-only audit_entries ledger.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index"`
	HumanID    string    `gorm:"size:32;not null"`
	Action     string    `gorm:"size:64;not null"`
	FromStatus string    `gorm:"size:64"`
	ToStatus   string    `gorm:"size:64;not null"`
	ActorID    string    `gorm:"size:64;not null"`
	ActorKind  string    `gorm:"size:16;not null"`
	Comment    string
	OccurredAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "audit_entries"
}

// Decision is a decided flow step as stored on the request row.
type Decision struct {
	Step      string
	Status    string
	DecidedBy string
	DecidedAt time.Time
	Comment   string
}

// Snapshot is the subset of a request that carries audit-relevant fields.
type Snapshot struct {
	RequestID         uuid.UUID
	CompanyID         uuid.UUID
	HumanID           string
	RequesterID       string
	InitialStatus     string
	Status            string
	SubmittedAt       time.Time
	ProcessedAt       *time.Time
	ResolutionComment string
	Decisions         []Decision
}
