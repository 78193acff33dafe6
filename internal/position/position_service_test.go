package position_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hris-workflow/internal/position"
	positionerrors "go-hris-workflow/internal/position/errors"
	positionMock "go-hris-workflow/internal/position/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   position.Service
	repo      *positionMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	rdb, redisMock := redismock.NewClientMock()
	repo := positionMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   position.NewService(db, repo, rdb),
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPositionService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success - with reports_to", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		parent := newPosition(companyID, nil)
		parentID := parent.ID.String()
		req := position.CreatePositionRequest{
			Name:                "Payroll Specialist",
			DepartmentID:        uuid.NewString(),
			ReportsToPositionID: &parentID,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), parentID).
			Return(parent, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *position.Position) error {
				assert.Equal(t, req.Name, p.Name)
				if assert.NotNil(t, p.ReportsToPositionID) {
					assert.Equal(t, parent.ID, *p.ReportsToPositionID)
				}
				return nil
			})
		deps.redismock.ExpectDel(position.GetPositionAllKey(companyID.String())).SetVal(1)

		resp, err := deps.service.Create(ctx, companyID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, parentID, resp.ReportsToPositionID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - unknown reports_to -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		missing := uuid.NewString()
		req := position.CreatePositionRequest{
			Name:                "Analyst",
			DepartmentID:        uuid.NewString(),
			ReportsToPositionID: &missing,
		}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), missing).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, companyID.String(), req)

		assert.True(t, errors.Is(err, positionerrors.ErrReportsToNotFound))
	})

	t.Run("negative - invalid department id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID.String(), position.CreatePositionRequest{
			Name:         "Analyst",
			DepartmentID: "dept",
		})

		assert.True(t, errors.Is(err, positionerrors.ErrInvalidDepartmentID))
	})
}

func TestPositionService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("negative - moving under own report is a cycle", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		head := newPosition(companyID, nil)
		report := newPosition(companyID, &head.ID)
		reportID := report.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		byID := map[string]*position.Position{head.ID.String(): head, reportID: report}
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, id string) (*position.Position, error) {
				return byID[id], nil
			}).
			AnyTimes()

		_, err := deps.service.Update(ctx, companyID.String(), head.ID.String(), position.UpdatePositionRequest{
			Name:                "Head",
			DepartmentID:        head.DepartmentID.String(),
			ReportsToPositionID: &reportID,
		})

		assert.True(t, errors.Is(err, positionerrors.ErrReportingCycle))
	})

	t.Run("negative - self parent", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		self := newPosition(companyID, nil)
		selfID := self.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), selfID).
			Return(self, nil).
			Times(2)

		_, err := deps.service.Update(ctx, companyID.String(), selfID, position.UpdatePositionRequest{
			Name:                "Self",
			DepartmentID:        self.DepartmentID.String(),
			ReportsToPositionID: &selfID,
		})

		assert.True(t, errors.Is(err, positionerrors.ErrReportingCycle))
	})
}

func TestPositionService_Reparent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success - detach to top level", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		head := newPosition(companyID, nil)
		report := newPosition(companyID, &head.ID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), report.ID.String()).
			Return(report, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *position.Position) error {
				assert.Nil(t, p.ReportsToPositionID)
				return nil
			})
		deps.redismock.ExpectDel(position.GetPositionAllKey(companyID.String())).SetVal(1)

		resp, err := deps.service.Reparent(ctx, companyID.String(), report.ID.String(), nil)

		assert.NoError(t, err)
		assert.Empty(t, resp.ReportsToPositionID)
	})
}

func TestPositionService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("negative - has direct reports", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.NewString()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountDirectReports(ctx, companyID.String(), id).Return(int64(2), nil)

		err := deps.service.Delete(ctx, companyID.String(), id)

		assert.True(t, errors.Is(err, positionerrors.ErrPositionHasReports))
	})
}

func TestPositionService_GetSupervisor(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("top level", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		top := newPosition(companyID, nil)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID.String(), top.ID.String()).Return(top, nil)

		resp, err := deps.service.GetSupervisor(ctx, companyID.String(), top.ID.String())

		assert.NoError(t, err)
		assert.True(t, resp.TopLevel)
		assert.Nil(t, resp.SupervisorPositionID)
	})
}
