package rbac

import (
	"errors"
	"testing"

	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

// fakeRepo only knows company-1.
type fakeRepo struct {
	employeeRoles []EmployeeRoleRow
	rolePerms     []RolePermissionRow
	err           error
}

func (f *fakeRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	if companyID != "company-1" {
		return nil, f.err
	}
	return f.employeeRoles, f.err
}

func (f *fakeRepo) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	if companyID != "company-1" {
		return nil, f.err
	}
	return f.rolePerms, f.err
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	enforcer, err := infra.NewInMemoryEnforcer()
	assert.NoError(t, err)
	return NewService(repo, enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRepo{
		employeeRoles: []EmployeeRoleRow{{EmployeeID: "emp-1", RoleName: "HR_ADMIN"}},
		rolePerms:     []RolePermissionRow{{RoleName: "HR_ADMIN", Resource: "approval", Action: "decide"}},
	}
	service := newTestService(t, repo)

	t.Run("allowed", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-1", CompanyID: "company-1", Resource: "approval", Action: "decide",
		})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("denied - other action", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-1", CompanyID: "company-1", Resource: "position", Action: "delete",
		})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("denied - other company", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-1", CompanyID: "company-2", Resource: "approval", Action: "decide",
		})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRBACService_RolesFor(t *testing.T) {
	t.Run("returns sorted role names", func(t *testing.T) {
		repo := &fakeRepo{employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleName: "HR_MANAGER"},
			{EmployeeID: "emp-1", RoleName: "FINANCE_STAFF"},
			{EmployeeID: "emp-2", RoleName: "SYSTEM_ADMIN"},
		}}
		service := newTestService(t, repo)

		roles, err := service.RolesFor("company-1", "emp-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"FINANCE_STAFF", "HR_MANAGER"}, roles)
	})

	t.Run("no roles", func(t *testing.T) {
		service := newTestService(t, &fakeRepo{})

		roles, err := service.RolesFor("company-1", "emp-9")

		assert.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("negative - repo error", func(t *testing.T) {
		service := newTestService(t, &fakeRepo{err: errors.New("db down")})

		_, err := service.RolesFor("company-1", "emp-1")

		assert.Error(t, err)
	})
}
