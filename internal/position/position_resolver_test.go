package position_test

import (
	"context"
	"errors"
	"testing"

	"go-hris-workflow/internal/position"
	positionerrors "go-hris-workflow/internal/position/errors"
	positionMock "go-hris-workflow/internal/position/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func newPosition(companyID uuid.UUID, reportsTo *uuid.UUID) *position.Position {
	return &position.Position{
		ID:                  uuid.New(),
		Name:                "Staff",
		CompanyID:           companyID,
		DepartmentID:        uuid.New(),
		ReportsToPositionID: reportsTo,
	}
}

func TestResolver_ResolveSupervisorPosition(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("top level resolves to none", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)
		top := newPosition(companyID, nil)

		repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), top.ID.String()).
			Return(top, nil)

		got, err := position.NewResolver(repo).ResolveSupervisorPosition(ctx, companyID.String(), top.ID.String())

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("single hop returns direct parent only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)
		root := newPosition(companyID, nil)
		p2 := newPosition(companyID, &root.ID)
		p1 := newPosition(companyID, &p2.ID)

		// only the starting position may be read
		repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), p1.ID.String()).
			Return(p1, nil).
			Times(1)

		got, err := position.NewResolver(repo).ResolveSupervisorPosition(ctx, companyID.String(), p1.ID.String())

		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, p2.ID, *got)
		}
	})

	t.Run("negative - unknown position", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)
		id := uuid.NewString()

		repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), id).
			Return(nil, gorm.ErrRecordNotFound)

		got, err := position.NewResolver(repo).ResolveSupervisorPosition(ctx, companyID.String(), id)

		assert.Nil(t, got)
		assert.True(t, errors.Is(err, positionerrors.ErrPositionNotFound))
	})

	t.Run("negative - malformed id never hits the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)

		_, err := position.NewResolver(repo).ResolveSupervisorPosition(ctx, companyID.String(), "not-a-uuid")

		assert.True(t, errors.Is(err, positionerrors.ErrPositionNotFound))
	})
}

func TestResolver_ReportingChain(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("walks to root", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)
		root := newPosition(companyID, nil)
		mid := newPosition(companyID, &root.ID)
		leaf := newPosition(companyID, &mid.ID)

		byID := map[string]*position.Position{
			root.ID.String(): root, mid.ID.String(): mid, leaf.ID.String(): leaf,
		}
		repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, id string) (*position.Position, error) {
				return byID[id], nil
			}).
			AnyTimes()

		chain, err := position.NewResolver(repo).ReportingChain(ctx, companyID.String(), leaf.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mid.ID, root.ID}, chain)
	})

	t.Run("negative - cycle detected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := positionMock.NewMockRepository(ctrl)
		a := newPosition(companyID, nil)
		b := newPosition(companyID, &a.ID)
		a.ReportsToPositionID = &b.ID

		byID := map[string]*position.Position{a.ID.String(): a, b.ID.String(): b}
		repo.EXPECT().
			FindByIDAndCompany(ctx, companyID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, id string) (*position.Position, error) {
				return byID[id], nil
			}).
			AnyTimes()

		_, err := position.NewResolver(repo).ReportingChain(ctx, companyID.String(), a.ID.String())

		assert.True(t, errors.Is(err, positionerrors.ErrReportingCycle))
	})
}
