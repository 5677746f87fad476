package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// RedisStore keeps entries in Redis so several planner instances behind a
// load balancer share one cache.  Redis enforces the TTL through SETEX;
// Get re-checks ExpiresAt to absorb clock skew between instances.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisStore returns a store writing keys "<prefix>:<id>".
func NewRedisStore(rdb *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "itinerary"
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + ":" + id }

// Put encodes the entry as JSON and stores it with the TTL.
func (s *RedisStore) Put(ctx context.Context, it model.Itinerary) (Entry, error) {
	created := s.now().UTC()
	e := Entry{Itinerary: it, CreatedAt: created, ExpiresAt: created.Add(s.ttl)}
	payload, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("encode entry: %w", err)
	}
	if err := s.rdb.SetEx(ctx, s.key(it.ID), payload, s.ttl).Err(); err != nil {
		return Entry{}, fmt.Errorf("redis setex: %w", err)
	}
	return e, nil
}

// Get fetches and decodes the entry for id.
func (s *RedisStore) Get(ctx context.Context, id string) (Entry, error) {
	bs, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("redis get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(bs, &e); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	if e.Expired(s.now()) {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
