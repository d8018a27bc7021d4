package save

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "noughts:save:"
	indexKey  = "noughts:saves"
)

// RedisStore keeps saved games as JSON strings in Redis, with a sorted set
// indexing slots by save time.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string) (*RedisStore, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStore(conn), nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, g SavedGame) (string, error) {
	data, err := encode(g)
	if err != nil {
		return "", err
	}

	for n := 1; n <= maxSlotAttempts; n++ {
		slot := slotName(g.SavedAt, n)
		ok, err := s.client.SetNX(ctx, keyPrefix+slot, data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("failed to set saved game: %w", err)
		}
		if !ok {
			continue
		}
		score := float64(g.SavedAt.UnixNano())
		if err := s.client.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: slot}).Err(); err != nil {
			// an unindexed slot would never be listed
			if delErr := s.client.Del(ctx, keyPrefix+slot).Err(); delErr != nil {
				return "", fmt.Errorf("failed to index saved game: %w (cleanup: %w)", err, delErr)
			}
			return "", fmt.Errorf("failed to index saved game: %w", err)
		}
		return slot, nil
	}
	return "", fmt.Errorf("no free slot for %s", slotName(g.SavedAt, 1))
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, slot string) (*SavedGame, error) {
	response, err := s.client.Get(ctx, keyPrefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved game: %w", err)
	}
	return decode(response)
}

// List implements Store. Index entries whose game is gone or corrupt are skipped.
func (s *RedisStore) List(ctx context.Context) ([]SlotInfo, error) {
	slots, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved games: %w", err)
	}

	infos := make([]SlotInfo, 0, len(slots))
	for _, slot := range slots {
		g, err := s.Load(ctx, slot)
		if err != nil {
			continue
		}
		infos = append(infos, infoOf(slot, g))
	}
	sortNewestFirst(infos)
	return infos, nil
}
