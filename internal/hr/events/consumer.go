package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads entity-change events and dispatches them to a
// registered handler. The notification fan-out (announcement created ->
// one notification per active user) runs on top of this.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler func(context.Context, Event) error
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("kafka_consumer"),
	}
}

// Start begins consuming in the background. A handler must be
// registered first; a consumer without one refuses to start so a
// miswired composition root shows up in the logs instead of silently
// dropping events.
func (c *Consumer) Start(ctx context.Context) {
	if c.handler == nil {
		c.logger.Error("no event handler registered, consumer not started")
		return
	}
	go c.run(ctx)
}

func (c *Consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			continue
		}
		c.process(ctx, msg)
	}
}

// process dispatches one message to the handler; the offset is only
// committed after the handler succeeds, so a failed message is
// redelivered.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("failed to parse event",
			zap.Error(err),
			zap.ByteString("value", msg.Value),
		)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.Error("failed to handle event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
		)
		return
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
		)
	}
}

func (c *Consumer) RegisterHandler(fn func(context.Context, Event) error) {
	c.handler = fn
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
