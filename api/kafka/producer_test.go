package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageImporter/jobs"
)

func TestProducer_Publish(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, config)

	want := jobs.Message{JobID: "job-1", TraceID: "trace-1", FolderID: "folder-1"}
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got jobs.Message
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		assert.Equal(t, want, got)
		return nil
	})

	p := newProducer(sp, "image_imports")
	require.NoError(t, p.Publish(context.Background(), &want))
	require.NoError(t, p.Close())
}

func TestProducer_PublishError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(sp, "image_imports")
	err := p.Publish(context.Background(), &jobs.Message{JobID: "job-1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
