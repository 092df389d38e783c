package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type PresenceRepo struct {
	client *goredis.Client
}

func NewPresenceRepo(client *goredis.Client) *PresenceRepo {
	return &PresenceRepo{client: client}
}

func presenceKey(userID int64) string {
	return fmt.Sprintf("presence:online:%d", userID)
}

// Touch marks the user online for the given window; each ping extends it.
func (r *PresenceRepo) Touch(ctx context.Context, userID int64, window time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 || window <= 0 {
		return fmt.Errorf("invalid presence payload")
	}

	if err := r.client.Set(ctx, presenceKey(userID), "1", window).Err(); err != nil {
		return fmt.Errorf("set presence key: %w", err)
	}

	return nil
}

func (r *PresenceRepo) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}

	err := r.client.Get(ctx, presenceKey(userID)).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get presence key: %w", err)
	}

	return true, nil
}

// OnlineSet returns which of the given users currently hold a presence key.
func (r *PresenceRepo) OnlineSet(ctx context.Context, userIDs []int64) (map[int64]bool, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	out := make(map[int64]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = presenceKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget presence keys: %w", err)
	}

	for i, v := range values {
		out[userIDs[i]] = v != nil
	}

	return out, nil
}
