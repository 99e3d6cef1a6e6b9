package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockoutKeyPrefix = "photoshare:login_lockout:"

// RedisLockoutStore counts failed logins per login_name in a Redis hash.
// Once the count reaches the threshold the key is locked until the window ends.
type RedisLockoutStore struct {
	client    *redis.Client
	threshold int
	window    time.Duration
	now       func() time.Time
}

func NewRedisLockoutStore(client *redis.Client, threshold int, window time.Duration) *RedisLockoutStore {
	if threshold <= 0 {
		threshold = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLockoutStore{
		client:    client,
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

func (s *RedisLockoutStore) Locked(ctx context.Context, loginName string) (bool, error) {
	raw, err := s.client.HGet(ctx, lockoutKeyPrefix+loginName, "locked_until").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, nil
	}
	return s.now().Before(time.Unix(unix, 0)), nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, loginName string) error {
	key := lockoutKeyPrefix + loginName

	count, err := s.client.HIncrBy(ctx, key, "failed_count", 1).Result()
	if err != nil {
		return err
	}

	if int(count) < s.threshold {
		return s.client.Expire(ctx, key, s.window).Err()
	}

	lockedUntil := s.now().Add(s.window)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "locked_until", lockedUntil.Unix(), "failed_count", 0)
		p.Expire(ctx, key, s.window)
		return nil
	})
	return err
}

func (s *RedisLockoutStore) Clear(ctx context.Context, loginName string) error {
	return s.client.Del(ctx, lockoutKeyPrefix+loginName).Err()
}
