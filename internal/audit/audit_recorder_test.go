package audit_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-hris-workflow/internal/audit"
	auditerrors "go-hris-workflow/internal/audit/errors"
	"go-hris-workflow/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memoryRepo struct {
	entries []audit.Entry
	failing bool
	bound   bool
}

func (m *memoryRepo) WithTx(*sql.Tx) audit.Repository {
	m.bound = true
	return m
}

func (m *memoryRepo) Append(_ context.Context, e *audit.Entry) error {
	if m.failing {
		return errors.New("insert failed")
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryRepo) ListByRequest(_ context.Context, _, requestID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.entries {
		if e.RequestID.String() == requestID {
			out = append(out, e)
		}
	}
	return out, nil
}

func validEntry() audit.Entry {
	return audit.Entry{
		CompanyID:  uuid.New(),
		RequestID:  uuid.New(),
		HumanID:    "LEAVE-0001",
		Action:     "approve",
		FromStatus: "pending",
		ToStatus:   "manager-approved",
		ActorID:    uuid.NewString(),
		ActorKind:  audit.ActorKindEmployee,
		OccurredAt: time.Now(),
	}
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("success - assigns id and appends", func(t *testing.T) {
		repo := &memoryRepo{}
		rec := audit.NewRecorder(repo).WithTx(&sql.Tx{})

		err := rec.Record(ctx, validEntry())

		assert.NoError(t, err)
		assert.True(t, repo.bound)
		if assert.Len(t, repo.entries, 1) {
			assert.NotEqual(t, uuid.Nil, repo.entries[0].ID)
		}
	})

	t.Run("negative - incomplete entry", func(t *testing.T) {
		repo := &memoryRepo{}
		entry := validEntry()
		entry.ActorKind = "robot"

		err := audit.NewRecorder(repo).Record(ctx, entry)

		var appErr *apperror.AppError
		if assert.True(t, errors.As(err, &appErr)) {
			assert.Equal(t, auditerrors.ErrInvalidEntry.Code, appErr.Code)
		}
		assert.Contains(t, err.Error(), "actor_kind")
		assert.Empty(t, repo.entries)
	})

	t.Run("negative - append failure surfaces", func(t *testing.T) {
		err := audit.NewRecorder(&memoryRepo{failing: true}).Record(ctx, validEntry())

		assert.EqualError(t, err, "insert failed")
	})
}

func TestFromRequest(t *testing.T) {
	submitted := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	processed := submitted.Add(48 * time.Hour)
	manager := uuid.NewString()
	hr := uuid.NewString()

	entries := audit.FromRequest(audit.Snapshot{
		RequestID:     uuid.New(),
		CompanyID:     uuid.New(),
		HumanID:       "LEAVE-0007",
		RequesterID:   "emp-1",
		InitialStatus: "pending",
		Status:        "APPROVED",
		SubmittedAt:   submitted,
		ProcessedAt:   &processed,
		Decisions: []audit.Decision{
			{Step: "final", Status: "approved", DecidedBy: hr, DecidedAt: processed},
			{Step: "manager", Status: "approved", DecidedBy: manager, DecidedAt: submitted.Add(time.Hour)},
		},
		ResolutionComment: "enjoy",
	})

	require.Len(t, entries, 4)
	assert.Equal(t, audit.ActionSubmitted, entries[0].Action)
	assert.Equal(t, manager, entries[1].ActorID)
	assert.Equal(t, hr, entries[2].ActorID)
	assert.Equal(t, "APPROVED", entries[3].ToStatus)
	assert.Equal(t, "enjoy", entries[3].Comment)
}

func TestRepository_ListByRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	companyID := uuid.NewString()
	requestID := uuid.NewString()
	rows := sqlmock.NewRows([]string{"id", "company_id", "request_id", "human_id", "action", "to_status", "actor_id", "actor_kind", "occurred_at"}).
		AddRow(uuid.NewString(), companyID, requestID, "CLAIM-0001", "SUBMITTED", "UNDER_REVIEW", "emp-1", "employee", time.Now())

	// the tenant scope is applied at execution time, so condition order is not fixed
	mock.ExpectQuery(`SELECT \* FROM "audit_entries" WHERE .*company_id = \$\d.* ORDER BY occurred_at ASC, id ASC`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	entries, err := audit.NewRepository(gdb).ListByRequest(context.Background(), companyID, requestID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CLAIM-0001", entries[0].HumanID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
