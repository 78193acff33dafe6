package position

import (
	"context"
	"database/sql"

	"go-hris-workflow/internal/shared/dbtx"
	"go-hris-workflow/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, post *Position) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Position, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error)
	CountDirectReports(ctx context.Context, companyID string, id string) (int64, error)
	Update(ctx context.Context, post *Position) error
	Delete(ctx context.Context, companyID string, id string) error
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

func (r *repository) Create(ctx context.Context, post *Position) error {
	return r.conn(ctx).Omit("Department").Create(post).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Position, error) {
	var posts []Position
	err := r.conn(ctx).
		Preload("Department").
		Scopes(tenant.Scope(companyID)).
		Order("name").
		Find(&posts).Error
	return posts, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error) {
	var post Position
	err := r.conn(ctx).
		Preload("Department").
		Scopes(tenant.Scope(companyID)).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) CountDirectReports(ctx context.Context, companyID string, id string) (int64, error) {
	var total int64
	err := r.conn(ctx).
		Model(&Position{}).
		Scopes(tenant.Scope(companyID)).
		Where("reports_to_position_id = ?", id).
		Count(&total).Error
	return total, err
}

func (r *repository) Update(ctx context.Context, post *Position) error {
	// Department is preloaded for responses only.
	return r.conn(ctx).Omit("Department").Save(post).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Position{}, "id = ?", id).Error
}
