package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl, nil), mr
}

func sampleRecord(requestID string) *Record {
	result := &tree.Result{
		Tree:  "sentiment",
		Label: "negative",
		Steps: []tree.Step{
			{Question: "Is the text positive?", Answer: "no", Branch: "no"},
		},
	}
	return NewRecord(requestID, result, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	rec := sampleRecord("req-1")
	require.NoError(t, s.Save(ctx, rec))

	loaded, err := s.Load(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestSaveRequiresRequestID(t *testing.T) {
	s, _ := newTestStore(t, 0)

	err := s.Save(context.Background(), sampleRecord(""))
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	s, _ := newTestStore(t, 0)

	_, err := s.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveAppliesTTL(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("req-1")))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"req-1"))

	mr.FastForward(2 * time.Hour)

	exists, err := s.Exists(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExistsDeleteList(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord("a")))
	require.NoError(t, s.Save(ctx, sampleRecord("b")))

	exists, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Delete(ctx, "a"))

	exists, err = s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
