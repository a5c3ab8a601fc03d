package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recipelens:session:"

// RedisStore keeps one JSON document per session. Updates run in a WATCH
// transaction so concurrent writers to the same session do not drop each
// other's field.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. A ttl of zero keeps sessions until evicted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (Snapshot, error) {
	return s.read(ctx, s.client, keyPrefix+id)
}

func (s *RedisStore) SetIngredients(ctx context.Context, id string, names []string) error {
	return s.update(ctx, id, func(snap *Snapshot) { snap.Ingredients = slices.Clone(names) })
}

func (s *RedisStore) SetDish(ctx context.Context, id string, dish string) error {
	return s.update(ctx, id, func(snap *Snapshot) { snap.Dish = dish })
}

func (s *RedisStore) read(ctx context.Context, c redis.Cmdable, key string) (Snapshot, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get session from Redis: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) update(ctx context.Context, id string, fn func(*Snapshot)) error {
	key := keyPrefix + id
	const maxRetries = 5

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			snap, err := s.read(ctx, tx, key)
			if err != nil {
				return err
			}
			fn(&snap)
			data, err := json.Marshal(snap)
			if err != nil {
				return fmt.Errorf("failed to marshal session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, s.ttl)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to save session to Redis: %w", err)
		}
		return nil
	}
	return fmt.Errorf("failed to save session to Redis: too much contention on %s", key)
}
