package producer

import (
	"context"
	"errors"
	"testing"

	"go-hris-workflow/internal/messaging/kafka"
	kafkaMock "go-hris-workflow/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failTopic string
	written   []kafkago.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == w.failTopic {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("success - sent and failed are marked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failTopic: "down.v1"}

		repo.EXPECT().ListPending(ctx, relayBatchSize).Return([]kafka.OutboxEvent{
			{ID: "ob-1", RequestID: "rid-1", AggregateID: "req-1", EventType: "approval.submitted", Topic: "up.v1", Payload: []byte(`{}`)},
			{ID: "ob-2", AggregateID: "req-2", EventType: "approval.transitioned", Topic: "down.v1", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkSent(ctx, "ob-1").Return(nil)
		repo.EXPECT().MarkFailed(ctx, "ob-2", "broker unavailable").Return(nil)

		sent, err := processPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		if assert.Len(t, writer.written, 1) {
			assert.Equal(t, []byte("req-1"), writer.written[0].Key)
			assert.Contains(t, writer.written[0].Headers, kafkago.Header{Key: "request_id", Value: []byte("rid-1")})
		}
	})

	t.Run("negative - list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, relayBatchSize).Return(nil, errors.New("db down"))

		_, err := processPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.Error(t, err)
	})
}
