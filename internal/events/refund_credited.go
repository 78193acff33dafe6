package events

import "time"

const (
	PayrollRefundTopic         = "hr.payroll.refund.v1"
	PayrollRefundCreditedEvent = "payroll.refund.credited"
)

// RefundCreditedEvent asks payroll to credit a paid refund in the named run.
type RefundCreditedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	HumanID        string    `json:"human_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	PayrollRunID   string    `json:"payroll_run_id"`
	FinanceStaffID string    `json:"finance_staff_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
