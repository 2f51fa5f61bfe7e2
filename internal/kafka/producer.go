package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fveracoechea/hyperlog-sub000/internal/events"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
)

type Producer struct {
	linkWriter       *kafka.Writer
	collectionWriter *kafka.Writer
}

// NewProducer creates a new Kafka producer with writers for both topics.
func NewProducer(brokers []string) *Producer {
	linkWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.LinkActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	collectionWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.CollectionChangesTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{
		linkWriter:       linkWriter,
		collectionWriter: collectionWriter,
	}
}

// PublishLinkEvent publishes a link event to the link.activity topic.
func (p *Producer) PublishLinkEvent(ctx context.Context, event *events.ResourceEvent) error {
	return p.publish(ctx, p.linkWriter, event)
}

// PublishCollectionEvent publishes a collection or tag event to the
// collection.changes topic.
func (p *Producer) PublishCollectionEvent(ctx context.Context, event *events.ResourceEvent) error {
	return p.publish(ctx, p.collectionWriter, event)
}

func (p *Producer) publish(ctx context.Context, writer *kafka.Writer, event *events.ResourceEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to marshal resource event")
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.ResourceID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := writer.WriteMessages(ctx, message); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish resource event")
		return err
	}

	logger.Log.Info().
		Str("eventType", event.EventType).
		Str("resourceType", event.ResourceType).
		Str("resourceId", event.ResourceID).
		Msg("Published resource event")
	return nil
}

// Close closes the Kafka writers.
func (p *Producer) Close() error {
	var err1, err2 error
	if p.linkWriter != nil {
		err1 = p.linkWriter.Close()
	}
	if p.collectionWriter != nil {
		err2 = p.collectionWriter.Close()
	}

	if err1 != nil {
		return err1
	}
	return err2
}
