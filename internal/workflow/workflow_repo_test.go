package workflow_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-hris-workflow/internal/workflow"
	workflowerrors "go-hris-workflow/internal/workflow/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (workflow.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return workflow.NewRepository(gdb), mock
}

func TestRepository_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	update := `UPDATE "approval_requests" SET .+ WHERE .*status = \$\d+ AND version = \$\d+`

	t.Run("success - stored version matches", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())
		req.Status, req.Version = workflow.StatusApproved, 2

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ConditionalUpdate(ctx, req, workflow.StatusUnderReview, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative - row moved on", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		req := newRequest(t, workflow.TypePayrollClaim, uuid.New())

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ConditionalUpdate(ctx, req, workflow.StatusUnderReview, 1)

		assert.ErrorIs(t, err, workflowerrors.ErrConcurrentUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ClaimEffects(t *testing.T) {
	ctx := context.Background()
	claim := regexp.QuoteMeta(`UPDATE "approval_requests" SET "effects_claimed_at"=$1 WHERE id = $2 AND effects_pending = $3 AND (effects_claimed_at IS NULL OR effects_claimed_at < $4)`)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	staleBefore := now.Add(-5 * time.Minute)

	t.Run("success - first claimant wins", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		id := uuid.NewString()
		mock.ExpectExec(claim).WithArgs(now, id, true, staleBefore).WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.ClaimEffects(ctx, id, now, staleBefore)

		require.NoError(t, err)
		assert.True(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - lease still held", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		id := uuid.NewString()
		mock.ExpectExec(claim).WithArgs(now, id, true, staleBefore).WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.ClaimEffects(ctx, id, now, staleBefore)

		require.NoError(t, err)
		assert.False(t, claimed)
	})
}

func TestRepository_CompleteEffects(t *testing.T) {
	repo, mock := setupRepoTest(t)
	id := uuid.NewString()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "approval_requests" SET "effects_claimed_at"=$1,"effects_pending"=$2 WHERE id = $3`)).
		WithArgs(nil, false, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CompleteEffects(context.Background(), id)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReleaseEffects(t *testing.T) {
	repo, mock := setupRepoTest(t)
	id := uuid.NewString()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "approval_requests" SET "effects_claimed_at"=$1 WHERE id = $2`)).
		WithArgs(nil, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReleaseEffects(context.Background(), id)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPendingEffects(t *testing.T) {
	repo, mock := setupRepoTest(t)
	staleBefore := time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC)
	id := uuid.New()
	mock.ExpectQuery(`(?s)SELECT \* FROM "approval_requests" WHERE .*effects_pending = \$1 AND \(effects_claimed_at IS NULL OR effects_claimed_at < \$2\).*ORDER BY updated_at ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "effects_pending"}).AddRow(id.String(), true))

	reqs, err := repo.ListPendingEffects(context.Background(), staleBefore, 10)

	require.NoError(t, err)
	if assert.Len(t, reqs, 1) {
		assert.Equal(t, id, reqs[0].ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDAndCompany_NotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)
	mock.ExpectQuery(`SELECT \* FROM "approval_requests" WHERE .*company_id = \$\d`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDAndCompany(context.Background(), uuid.NewString(), uuid.NewString())

	assert.ErrorIs(t, err, workflowerrors.ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
