package messaging

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes a single decoded event.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer subscribes to one topic and feeds decoded events to a handler.
//
// In best-effort mode the consumer acks every message, including ones the
// handler failed on: the failure is logged and the event is dropped. This
// is the delivery contract for webhook notifications, which are never
// retried.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	bestEffort bool
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewConsumer creates a consumer that nacks failed messages so the
// backend may redeliver them.
func NewConsumer[T any](
	subscriber message.Subscriber, topic string, handler Handler[T], logger *zap.Logger,
) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// NewBestEffortConsumer creates a consumer that acks failed messages.
func NewBestEffortConsumer[T any](
	subscriber message.Subscriber, topic string, handler Handler[T], logger *zap.Logger,
) *Consumer[T] {
	c := NewConsumer(subscriber, topic, handler, logger)
	c.bestEffort = true

	return c
}

// Topic returns the subscribed topic.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and begins consuming until Shutdown or context cancel.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return err
	}

	go c.consumeLoop(ctx, msgs)

	return nil
}

func (c *Consumer[T]) consumeLoop(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer[T]) handleMessage(ctx context.Context, msg *message.Message) {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("failed to unmarshal event",
			zap.String("topic", c.topic),
			zap.Error(err),
		)
		// Malformed payloads are unrecoverable either way.
		msg.Ack()

		return
	}

	if err := c.handler(ctx, &event); err != nil {
		c.logger.Error("failed to handle event",
			zap.String("topic", c.topic),
			zap.Bool("dropped", c.bestEffort),
			zap.Error(err),
		)

		if c.bestEffort {
			msg.Ack()
		} else {
			msg.Nack()
		}

		return
	}

	msg.Ack()
}

// Shutdown stops consuming and waits for the loop to drain.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}
