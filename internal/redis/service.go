package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fveracoechea/hyperlog-sub000/internal/models"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
)

const cacheTTL = 24 * time.Hour

// Service caches collection metadata and sharing grants. Callers nil-check
// the service and fall back to the database when it is unavailable.
type Service struct {
	client *redis.Client
}

// NewService creates a new Redis service, or nil when Redis is unreachable.
func NewService(addr, password string, db int) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to connect to Redis")
		return nil
	}

	logger.Log.Info().Msg("Successfully connected to Redis")
	return &Service{client: client}
}

func collectionKey(id uuid.UUID) string {
	return fmt.Sprintf("collection:%s:metadata", id)
}

func collectionACLKey(id uuid.UUID) string {
	return fmt.Sprintf("collection:%s:acl", id)
}

// SetCollectionMetadata caches a collection by id.
func (s *Service) SetCollectionMetadata(ctx context.Context, collection *models.Collection) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, collectionKey(collection.ID), data, cacheTTL).Err()
}

// GetCollectionMetadata returns the cached collection, or nil on a miss.
func (s *Service) GetCollectionMetadata(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	data, err := s.client.Get(ctx, collectionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var collection models.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// InvalidateCollection drops the cached metadata and ACL for a collection.
func (s *Service) InvalidateCollection(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, collectionKey(id), collectionACLKey(id)).Err()
}

// AddCollectionAccess records a sharing grant in the ACL hash.
func (s *Service) AddCollectionAccess(ctx context.Context, collectionID, userID uuid.UUID) error {
	key := collectionACLKey(collectionID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, userID.String(), time.Now().Format(time.RFC3339))
	pipe.Expire(ctx, key, cacheTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveCollectionAccess drops a sharing grant from the ACL hash.
func (s *Service) RemoveCollectionAccess(ctx context.Context, collectionID, userID uuid.UUID) error {
	return s.client.HDel(ctx, collectionACLKey(collectionID), userID.String()).Err()
}

// GetCollectionACL returns the cached grant map, or nil on a miss.
func (s *Service) GetCollectionACL(ctx context.Context, collectionID uuid.UUID) (map[string]string, error) {
	acl, err := s.client.HGetAll(ctx, collectionACLKey(collectionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(acl) == 0 {
		return nil, nil
	}
	return acl, nil
}

// Close closes the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}
