package events

import "time"

const (
	ApprovalTransitionTopic = "hr.approval.transition.v1"

	ApprovalSubmittedEvent    = "approval.submitted"
	ApprovalTransitionedEvent = "approval.transitioned"
)

// ApprovalTransitionEvent is emitted once per committed transition,
// submission included (FromStatus is empty then).
type ApprovalTransitionEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	HumanID     string    `json:"human_id"`
	CompanyID   string    `json:"company_id"`
	RequestType string    `json:"request_type"`
	RequesterID string    `json:"requester_id"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status"`
	ActorID     string    `json:"actor_id"`
	Comment     string    `json:"comment,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
