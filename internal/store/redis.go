package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "classifier:result:"

// ErrNotFound is returned when no result is stored for a request.
var ErrNotFound = errors.New("result not found")

// Record is a stored classification result.
type Record struct {
	RequestID    string      `json:"request_id"`
	Tree         string      `json:"tree"`
	Label        string      `json:"label"`
	Path         []tree.Step `json:"path"`
	Fallbacks    int         `json:"fallbacks"`
	ClassifiedAt time.Time   `json:"timestamp"`
}

// NewRecord converts a traversal result into a record.
func NewRecord(requestID string, result *tree.Result, at time.Time) *Record {
	return &Record{
		RequestID:    requestID,
		Tree:         result.Tree,
		Label:        result.Label,
		Path:         result.Steps,
		Fallbacks:    result.Fallbacks,
		ClassifiedAt: at.UTC(),
	}
}

// RedisStore keeps classification results in Redis as JSON
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a new Redis result store. A zero ttl keeps results forever.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(requestID string) string {
	return keyPrefix + requestID
}

// Save stores a result under its request ID
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if rec.RequestID == "" {
		return fmt.Errorf("record is missing a request id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := s.client.Set(ctx, key(rec.RequestID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	s.logger.Debug("saved result", zap.String("request_id", rec.RequestID))
	return nil
}

// Load loads the result for a request
func (s *RedisStore) Load(ctx context.Context, requestID string) (*Record, error) {
	data, err := s.client.Get(ctx, key(requestID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &rec, nil
}

// Delete deletes the result for a request
func (s *RedisStore) Delete(ctx context.Context, requestID string) error {
	if err := s.client.Del(ctx, key(requestID)).Err(); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

// Exists checks if a result is stored for a request
func (s *RedisStore) Exists(ctx context.Context, requestID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(requestID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return n > 0, nil
}

// List returns all request IDs that have a stored result
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > len(keyPrefix) {
			ids = append(ids, k[len(keyPrefix):])
		}
	}

	return ids, nil
}
