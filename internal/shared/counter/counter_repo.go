package counter

import (
	"context"
	"database/sql"
	"fmt"

	"go-hris-workflow/internal/shared/dbtx"

	"gorm.io/gorm"
)

const (
	TypeEmployeeNumber = "employee_number"
	// approval human ids use "approval_request:<REQUEST_TYPE>"
	approvalRequestPrefix = "approval_request:"
)

func ApprovalRequestType(requestType string) string {
	return approvalRequestPrefix + requestType
}

// FormatHumanID renders CLAIM-0001 style identifiers. Values wider than
// four digits are kept intact.
func FormatHumanID(prefix string, value int64) string {
	return fmt.Sprintf("%s-%04d", prefix, value)
}

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue increments atomically per (company, type). Inside a
// transaction the row stays locked until commit, so a rolled back
// submission does not burn a number.
func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64

	err := dbtx.Session(ctx, r.db, r.tx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
