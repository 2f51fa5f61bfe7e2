package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fveracoechea/hyperlog-sub000/internal/config"
	"github.com/fveracoechea/hyperlog-sub000/internal/events"
	"github.com/fveracoechea/hyperlog-sub000/internal/kafka"
	"github.com/fveracoechea/hyperlog-sub000/internal/redis"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
)

// The consumer keeps the Redis cache in step with resource mutations:
// collection updates and deletes invalidate cached metadata, sharing events
// maintain the ACL hash.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger.InitLogger()

	redisService := redis.NewService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisService == nil {
		log.Fatal("Failed to connect to Redis")
	}

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, "cache-updater")

	invalidate := func(ctx context.Context, event events.ResourceEvent) error {
		if event.ResourceType != events.ResourceTypeCollection {
			return nil
		}
		id, err := uuid.Parse(event.ResourceID)
		if err != nil {
			return err
		}
		return redisService.InvalidateCollection(ctx, id)
	}
	consumer.RegisterHandler(events.CollectionUpdated, invalidate)
	consumer.RegisterHandler(events.CollectionDeleted, invalidate)

	consumer.RegisterHandler(events.CollectionShared, func(ctx context.Context, event events.ResourceEvent) error {
		if event.SharedWithUserID == nil {
			return nil
		}
		collectionID, err := uuid.Parse(event.ResourceID)
		if err != nil {
			return err
		}
		userID, err := uuid.Parse(*event.SharedWithUserID)
		if err != nil {
			return err
		}
		return redisService.AddCollectionAccess(ctx, collectionID, userID)
	})
	consumer.RegisterHandler(events.CollectionUnshared, func(ctx context.Context, event events.ResourceEvent) error {
		if event.SharedWithUserID == nil {
			return nil
		}
		collectionID, err := uuid.Parse(event.ResourceID)
		if err != nil {
			return err
		}
		userID, err := uuid.Parse(*event.SharedWithUserID)
		if err != nil {
			return err
		}
		return redisService.RemoveCollectionAccess(ctx, collectionID, userID)
	})

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.StartLinkEventConsumer(ctx)
	go consumer.StartCollectionEventConsumer(ctx)

	log.Println("Kafka consumer started. Press Ctrl+C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumer...")
	cancel()

	consumer.Close()
	redisService.Close()

	log.Println("Consumer exited")
}
