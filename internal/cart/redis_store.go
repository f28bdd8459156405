package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long an idle cart survives in Redis.
const DefaultTTL = 7 * 24 * time.Hour

// RedisStore keeps each cart as a Redis hash of product id to quantity.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed cart store. A non-positive ttl selects DefaultTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Load reads the session's hash. Fields that do not hold a positive integer are skipped.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c := New()
	for id, raw := range fields {
		q, err := strconv.Atoi(raw)
		if err != nil || q < 1 {
			s.logger.Warn().
				Str("session_id", sessionID).
				Str("product_id", id).
				Str("value", raw).
				Msg("skipping malformed cart entry")
			continue
		}
		c.entries[id] = q
	}
	return c, nil
}

// Save rewrites the session's hash atomically and refreshes its expiry.
func (s *RedisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	key := cartKey(sessionID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if c.IsEmpty() {
			return nil
		}

		values := make(map[string]any, c.Len())
		for id, q := range c.entries {
			values[id] = q
		}
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
