package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/registryhq/identity-service/internal/core/ports"
)

// Key layout: otp:<purpose>:<email> holds the hashed code,
// otp:<purpose>:<email>:fails holds the attempt counter. Both expire
// together, so an expired code cannot accumulate stale counters.
const otpKeyPrefix = "otp:"

// OTPStore implements ports.OTPStore on Redis. Records carry their own
// lifetime through key TTLs; nothing needs a background sweeper.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save writes the hashed passcode, replacing any previous record and its
// attempt counter.
func (s *OTPStore) Save(ctx context.Context, key, hash string, ttl time.Duration) error {
	k := s.key(key)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, k, hash, ttl)
	pipe.Del(ctx, k+":fails")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("otp save: %w", err)
	}
	return nil
}

// Load returns the stored hash, or ports.ErrOTPNotFound when the record
// is absent or already expired.
func (s *OTPStore) Load(ctx context.Context, key string) (string, error) {
	hash, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ports.ErrOTPNotFound
		}
		return "", fmt.Errorf("otp load: %w", err)
	}
	return hash, nil
}

// Fail bumps the attempt counter, bounding its lifetime to the record's.
func (s *OTPStore) Fail(ctx context.Context, key string) (int64, error) {
	k := s.key(key) + ":fails"

	ttl, err := s.client.TTL(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("otp fail ttl: %w", err)
	}

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("otp fail incr: %w", err)
	}
	if ttl > 0 {
		_ = s.client.Expire(ctx, k, ttl).Err()
	}
	return count, nil
}

// Delete consumes the record and its counter.
func (s *OTPStore) Delete(ctx context.Context, key string) error {
	k := s.key(key)
	if err := s.client.Del(ctx, k, k+":fails").Err(); err != nil {
		return fmt.Errorf("otp delete: %w", err)
	}
	return nil
}

func (s *OTPStore) key(key string) string {
	return otpKeyPrefix + key
}
