package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"imageImporter/jobs"
)

func TestConsumerHandler_Handle(t *testing.T) {
	var got []*jobs.Message
	h := &consumerHandler{
		fn: func(ctx context.Context, msg *jobs.Message) error {
			got = append(got, msg)
			return nil
		},
		logger: zaptest.NewLogger(t),
	}

	h.handle(context.Background(), &sarama.ConsumerMessage{
		Value: []byte(`{"job_id":"j1","trace_id":"t1","folder_id":"f1"}`),
	})

	assert.Len(t, got, 1)
	assert.Equal(t, jobs.Message{JobID: "j1", TraceID: "t1", FolderID: "f1"}, *got[0])
}

func TestConsumerHandler_SkipsMalformed(t *testing.T) {
	called := false
	h := &consumerHandler{
		fn: func(ctx context.Context, msg *jobs.Message) error {
			called = true
			return nil
		},
		logger: zaptest.NewLogger(t),
	}

	h.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("garbage")})
	assert.False(t, called)
}

func TestConsumerHandler_HandlerErrorIsLogged(t *testing.T) {
	h := &consumerHandler{
		fn: func(ctx context.Context, msg *jobs.Message) error {
			return errors.New("job store unavailable")
		},
		logger: zaptest.NewLogger(t),
	}

	assert.NotPanics(t, func() {
		h.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"job_id":"j1"}`)})
	})
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumerHandler_RebalanceDoesNotCancelJob(t *testing.T) {
	processCtx, processCancel := context.WithCancel(context.Background())
	defer processCancel()
	sessionCtx, sessionCancel := context.WithCancel(context.Background())
	defer sessionCancel()

	var jobErr error
	h := &consumerHandler{
		ctx: processCtx,
		fn: func(ctx context.Context, msg *jobs.Message) error {
			sessionCancel()
			jobErr = ctx.Err()
			return nil
		},
		logger: zaptest.NewLogger(t),
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	msg := &sarama.ConsumerMessage{Value: []byte(`{"job_id":"j1","folder_id":"f1"}`)}
	claim.messages <- msg
	close(claim.messages)
	session := &fakeSession{ctx: sessionCtx}

	assert.NoError(t, h.ConsumeClaim(session, claim))
	assert.NoError(t, jobErr)
	assert.Equal(t, []*sarama.ConsumerMessage{msg}, session.marked)
}
