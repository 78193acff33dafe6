package audit

import (
	"context"
	"database/sql"

	"go-hris-workflow/internal/shared/dbtx"
	"go-hris-workflow/internal/tenant"

	"gorm.io/gorm"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, entry *Entry) error
	ListByRequest(ctx context.Context, companyID, requestID string) ([]Entry, error)
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

func (r *repository) Append(ctx context.Context, entry *Entry) error {
	return dbtx.Session(ctx, r.db, r.tx).Create(entry).Error
}

func (r *repository) ListByRequest(ctx context.Context, companyID, requestID string) ([]Entry, error) {
	var entries []Entry
	err := dbtx.Session(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Where("request_id = ?", requestID).
		Order("occurred_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
