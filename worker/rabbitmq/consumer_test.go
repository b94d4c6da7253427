package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"imageImporter/jobs"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestConsumer_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		handlerErr error
		wantCalled bool
		wantAck    int
		wantNack   int
	}{
		{
			name:       "processed",
			body:       `{"job_id":"j1","trace_id":"t1","folder_id":"f1"}`,
			wantCalled: true,
			wantAck:    1,
		},
		{
			name:     "malformed body",
			body:     `{not json`,
			wantNack: 1,
		},
		{
			name:       "handler error",
			body:       `{"job_id":"j1","folder_id":"f1"}`,
			handlerErr: errors.New("redis down"),
			wantCalled: true,
			wantNack:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Consumer{logger: zaptest.NewLogger(t)}
			ack := &fakeAcknowledger{}

			var got *jobs.Message
			handler := func(ctx context.Context, msg *jobs.Message) error {
				got = msg
				return tt.handlerErr
			}

			c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(tt.body)}, handler)

			assert.Equal(t, tt.wantCalled, got != nil)
			if tt.wantCalled {
				assert.Equal(t, "j1", got.JobID)
				assert.Equal(t, "f1", got.FolderID)
			}
			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, tt.wantNack, ack.nacked)
			assert.False(t, ack.requeue)
		})
	}
}
