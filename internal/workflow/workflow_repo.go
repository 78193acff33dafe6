package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hris-workflow/internal/shared/dbtx"
	"go-hris-workflow/internal/tenant"
	workflowerrors "go-hris-workflow/internal/workflow/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ListFilter narrows List. RequesterID empty means every requester.
type ListFilter struct {
	CompanyID   string
	RequesterID string
	Type        RequestType
	Status      Status
	Page        int
	Limit       int
}

//go:generate mockgen -source=workflow_repo.go -destination=mock/workflow_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *ApprovalRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*ApprovalRequest, error)
	FindByHumanID(ctx context.Context, companyID, humanID string) (*ApprovalRequest, error)
	List(ctx context.Context, filter ListFilter) ([]ApprovalRequest, int64, error)
	// ConditionalUpdate writes req only if the stored row still has
	// expectedStatus and expectedVersion.
	ConditionalUpdate(ctx context.Context, req *ApprovalRequest, expectedStatus Status, expectedVersion int) error
	ListStale(ctx context.Context, requestType RequestType, status Status, before time.Time, limit int) ([]ApprovalRequest, error)
	// ClaimEffects leases the pending effects of id to the caller. A lease
	// taken before staleBefore counts as abandoned and can be taken over.
	ClaimEffects(ctx context.Context, id string, now, staleBefore time.Time) (bool, error)
	// ReleaseEffects drops the lease and keeps the effects pending.
	ReleaseEffects(ctx context.Context, id string) error
	// CompleteEffects drops the lease and clears effects_pending.
	CompleteEffects(ctx context.Context, id string) error
	ListPendingEffects(ctx context.Context, staleBefore time.Time, limit int) ([]ApprovalRequest, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Session(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, req *ApprovalRequest) error {
	return mapRepositoryError(r.conn(ctx).Create(req).Error)
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*ApprovalRequest, error) {
	var req ApprovalRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &req, nil
}

func (r *repository) FindByHumanID(ctx context.Context, companyID, humanID string) (*ApprovalRequest, error) {
	var req ApprovalRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&req, "human_id = ?", humanID).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]ApprovalRequest, int64, error) {
	scoped := func() *gorm.DB {
		q := r.conn(ctx).Model(&ApprovalRequest{}).Scopes(tenant.Scope(filter.CompanyID))
		if filter.RequesterID != "" {
			q = q.Where("requester_id = ?", filter.RequesterID)
		}
		if filter.Type != "" {
			q = q.Where("request_type = ?", filter.Type)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var reqs []ApprovalRequest
	err := scoped().
		Order("submitted_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reqs).Error
	return reqs, total, err
}

func (r *repository) ConditionalUpdate(ctx context.Context, req *ApprovalRequest, expectedStatus Status, expectedVersion int) error {
	// map updates bypass the field serializer
	flow, err := json.Marshal(req.ApprovalFlow)
	if err != nil {
		return err
	}

	result := r.conn(ctx).
		Model(&ApprovalRequest{}).
		Where("id = ? AND company_id = ? AND status = ? AND version = ?",
			req.ID, req.CompanyID, expectedStatus, expectedVersion).
		Updates(map[string]any{
			"status":                 req.Status,
			"approval_flow":          string(flow),
			"processed_at":           req.ProcessedAt,
			"paid_at":                req.PaidAt,
			"resolution_comment":     req.ResolutionComment,
			"finance_staff_id":       req.FinanceStaffID,
			"paid_in_payroll_run_id": req.PaidInPayrollRunID,
			"effects_pending":        req.EffectsPending,
			"version":                req.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return workflowerrors.ErrConcurrentUpdate
	}
	return nil
}

func (r *repository) ListStale(ctx context.Context, requestType RequestType, status Status, before time.Time, limit int) ([]ApprovalRequest, error) {
	var reqs []ApprovalRequest
	err := r.conn(ctx).
		Where("request_type = ? AND status = ? AND submitted_at < ?", requestType, status, before).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) ClaimEffects(ctx context.Context, id string, now, staleBefore time.Time) (bool, error) {
	result := r.conn(ctx).
		Model(&ApprovalRequest{}).
		Where("id = ? AND effects_pending = ? AND (effects_claimed_at IS NULL OR effects_claimed_at < ?)", id, true, staleBefore).
		UpdateColumn("effects_claimed_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) ReleaseEffects(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&ApprovalRequest{}).
		Where("id = ?", id).
		UpdateColumn("effects_claimed_at", nil).Error
}

func (r *repository) CompleteEffects(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&ApprovalRequest{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"effects_pending":    false,
			"effects_claimed_at": nil,
		}).Error
}

// ListPendingEffects returns requests whose effects are unclaimed or whose
// lease went stale.
func (r *repository) ListPendingEffects(ctx context.Context, staleBefore time.Time, limit int) ([]ApprovalRequest, error) {
	var reqs []ApprovalRequest
	err := r.conn(ctx).
		Where("effects_pending = ? AND (effects_claimed_at IS NULL OR effects_claimed_at < ?)", true, staleBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflowerrors.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_approval_request_human_id" {
		return workflowerrors.ErrDuplicateHumanID
	}
	if strings.Contains(strings.ToLower(err.Error()), "uq_approval_request_human_id") {
		return workflowerrors.ErrDuplicateHumanID
	}
	return err
}
