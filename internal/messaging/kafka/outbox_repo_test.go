package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-hris-workflow/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	event, err := kafka.NewOutboxEvent("rid-1", "approval_request", "agg-1", "approval.submitted", "topic.v1",
		map[string]string{"human_id": "CLAIM-0001"})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.JSONEq(t, `{"human_id":"CLAIM-0001"}`, string(event.Payload))
	assert.NoError(t, kafka.ValidateOutboxEvent(event))
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - inside tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		event, _ := kafka.NewOutboxEvent("rid-1", "employee", "emp-1", "employee_created", "topic.v1", map[string]int{"n": 1})

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
			WithArgs(event.ID, "rid-1", "employee", "emp-1", "employee_created", "topic.v1", event.Payload, kafka.OutboxStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		repo := kafka.NewOutboxRepository(db)

		assert.NoError(t, repo.WithTx(tx).Create(ctx, event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative - invalid event is not written", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		err = kafka.NewOutboxRepository(db).Create(ctx, kafka.OutboxEvent{ID: "x", Topic: "t", Payload: []byte("{}"), Status: "bogus"})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("ob-1", "rid-1", "approval_request", "req-1", "approval.submitted", "topic.v1", []byte(`{}`), "pending", 0, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox_events")).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "rid-1", events[0].RequestID)
	assert.Equal(t, "req-1", events[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
