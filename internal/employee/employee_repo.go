package employee

import (
	"context"
	"database/sql"

	"go-hris-workflow/internal/shared/dbtx"
	"go-hris-workflow/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	GetDepartmentIDByPosition(ctx context.Context, companyID, positionID string) (string, error)
	Update(ctx context.Context, empl *Employee) error
	UpdateSupervisorByPosition(ctx context.Context, companyID, positionID string, supervisorPositionID *uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) GetDepartmentIDByPosition(ctx context.Context, companyID, positionID string) (string, error) {
	var departmentID string
	err := r.conn(ctx).
		Table("positions").
		Select("department_id").
		Where("id = ?", positionID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Scan(&departmentID).Error
	return departmentID, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

// UpdateSupervisorByPosition rewrites the cached supervisor of every holder
// of positionID.
func (r *repository) UpdateSupervisorByPosition(
	ctx context.Context,
	companyID, positionID string,
	supervisorPositionID *uuid.UUID,
) (int64, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("primary_position_id = ?", positionID).
		Update("supervisor_position_id", supervisorPositionID)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
