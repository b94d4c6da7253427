package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"imageImporter/jobs"
)

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

func NewConsumer(rabbitURL, queueName string, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	// One unacknowledged job per worker.
	if err := channel.Qos(1, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	logger.Info("Connected to RabbitMQ", zap.String("queue", queueName))

	return &Consumer{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
		logger:    logger,
	}, nil
}

// Consume blocks until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, handler jobs.Handler) error {
	msgs, err := c.channel.ConsumeWithContext(ctx,
		c.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("rabbitmq delivery channel closed")
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery, handler jobs.Handler) {
	var jobMsg jobs.Message
	if err := json.Unmarshal(msg.Body, &jobMsg); err != nil {
		c.logger.Error("Failed to decode job message", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	if err := handler(ctx, &jobMsg); err != nil {
		c.logger.Error("Failed to process job",
			zap.String("job_id", jobMsg.JobID),
			zap.String("trace_id", jobMsg.TraceID),
			zap.Error(err),
		)
		// Not requeued: the job record is the part that failed.
		msg.Nack(false, false)
		return
	}
	msg.Ack(false)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
