package workflow

import (
	"bytes"
	"encoding/json"
	"time"

	"go-hris-workflow/internal/employee"
	"go-hris-workflow/internal/shared/apperror"
	workflowerrors "go-hris-workflow/internal/workflow/errors"
)

type ClaimPayload struct {
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	Category     string  `json:"category" validate:"required"`
	Description  string  `json:"description"`
	IncurredOn   string  `json:"incurred_on" validate:"omitempty,datetime=2006-01-02"`
	PayrollRunID string  `json:"payroll_run_id"`
}

type DisputePayload struct {
	PayrollRunID   string  `json:"payroll_run_id" validate:"required"`
	DisputedAmount float64 `json:"disputed_amount" validate:"gte=0"`
	Reason         string  `json:"reason" validate:"required"`
}

type RefundPayload struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Currency        string  `json:"currency" validate:"omitempty,len=3"`
	Reason          string  `json:"reason" validate:"required"`
	OriginalClaimID string  `json:"original_claim_id"`
}

type ProfileChangePayload struct {
	Changes map[string]string `json:"changes" validate:"required,min=1,dive,keys,oneof=full_name email phone primary_position_id,endkeys"`
	Reason  string            `json:"reason"`
}

type OrgStructureChangePayload struct {
	PositionID             string  `json:"position_id" validate:"required,uuid"`
	NewReportsToPositionID *string `json:"new_reports_to_position_id" validate:"omitempty,uuid"`
	Rationale              string  `json:"rationale" validate:"required"`
}

type LeavePayload struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=ANNUAL SICK UNPAID MATERNITY PATERNITY"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

// Days is the inclusive calendar length of the leave.
func (p LeavePayload) Days() int {
	start, err1 := time.Parse(time.DateOnly, p.StartDate)
	end, err2 := time.Parse(time.DateOnly, p.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func newPayload(rt RequestType) (any, error) {
	switch rt {
	case TypePayrollClaim:
		return &ClaimPayload{}, nil
	case TypePayrollDispute:
		return &DisputePayload{}, nil
	case TypePayrollRefund:
		return &RefundPayload{}, nil
	case TypeProfileChange:
		return &ProfileChangePayload{}, nil
	case TypeOrgStructureChange:
		return &OrgStructureChangePayload{}, nil
	case TypeLeave:
		return &LeavePayload{}, nil
	default:
		return nil, workflowerrors.ErrUnknownRequestType
	}
}

// DecodePayload parses and validates raw as the payload of rt. Unknown
// fields are rejected.
func DecodePayload(rt RequestType, raw json.RawMessage) (any, error) {
	target, err := newPayload(rt)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperror.RequiredField("payload")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, apperror.Wrap(err, workflowerrors.ErrInvalidPayload.Code,
			workflowerrors.ErrInvalidPayload.Message, workflowerrors.ErrInvalidPayload.HTTPStatus)
	}

	if err := apperror.Validator().Struct(target); err != nil {
		return nil, apperror.MapValidationError(err)
	}

	switch p := target.(type) {
	case *LeavePayload:
		if p.Days() == 0 {
			return nil, workflowerrors.ErrInvalidLeaveDates
		}
	case *ProfileChangePayload:
		if err := employee.ValidateProfileChanges(p.Changes); err != nil {
			return nil, err
		}
	}
	return target, nil
}
