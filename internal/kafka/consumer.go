package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fveracoechea/hyperlog-sub000/internal/events"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
)

// EventHandler processes one consumed resource event.
type EventHandler func(ctx context.Context, event events.ResourceEvent) error

// Consumer reads resource events from both topics and dispatches them to
// registered handlers by event type.
type Consumer struct {
	linkReader       *kafka.Reader
	collectionReader *kafka.Reader
	handlers         map[string][]EventHandler
}

// NewConsumer creates a consumer group member for both topics.
func NewConsumer(brokers []string, groupID string) *Consumer {
	linkReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.LinkActivityTopic,
		MaxWait:  time.Second,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	collectionReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.CollectionChangesTopic,
		MaxWait:  time.Second,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		linkReader:       linkReader,
		collectionReader: collectionReader,
		handlers:         make(map[string][]EventHandler),
	}
}

// RegisterHandler registers a handler for a specific event type.
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// StartLinkEventConsumer consumes link.activity until the context is done.
func (c *Consumer) StartLinkEventConsumer(ctx context.Context) {
	c.consume(ctx, c.linkReader)
}

// StartCollectionEventConsumer consumes collection.changes until the context
// is done.
func (c *Consumer) StartCollectionEventConsumer(ctx context.Context) {
	c.consume(ctx, c.collectionReader)
}

func (c *Consumer) consume(ctx context.Context, reader *kafka.Reader) {
	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to read message")
			continue
		}

		var event events.ResourceEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to unmarshal resource event")
			continue
		}

		for _, handler := range c.handlers[event.EventType] {
			if err := handler(ctx, event); err != nil {
				logger.Log.Error().Err(err).
					Str("eventType", event.EventType).
					Msg("Error handling resource event")
			}
		}
	}
}

// Close closes both readers.
func (c *Consumer) Close() error {
	err1 := c.linkReader.Close()
	err2 := c.collectionReader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
