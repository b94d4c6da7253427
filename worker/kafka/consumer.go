package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"imageImporter/jobs"
)

type Consumer struct {
	consumer sarama.ConsumerGroup
	topic    string
	logger   *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	c, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{consumer: c, topic: topic, logger: logger}, nil
}

type consumerHandler struct {
	// ctx outlives the group session so a rebalance does not cut a job short.
	ctx    context.Context
	fn     jobs.Handler
	logger *zap.Logger
	// one job at a time even when several partitions are claimed
	mu sync.Mutex
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.handle(h.ctx, msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (h *consumerHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	var jobMsg jobs.Message
	if err := json.Unmarshal(msg.Value, &jobMsg); err != nil {
		h.logger.Error("Failed to decode job message",
			zap.Int32("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.fn(ctx, &jobMsg); err != nil {
		h.logger.Error("Failed to process job",
			zap.String("job_id", jobMsg.JobID),
			zap.String("trace_id", jobMsg.TraceID),
			zap.Error(err),
		)
	}
}

// Consume blocks until ctx is cancelled, rejoining the group after every
// rebalance.
func (c *Consumer) Consume(ctx context.Context, handler jobs.Handler) error {
	h := &consumerHandler{ctx: ctx, fn: handler, logger: c.logger}
	for {
		if err := c.consumer.Consume(ctx, []string{c.topic}, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}
