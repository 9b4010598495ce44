package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts attempts per email in redis with a sliding expiry.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redis *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redis}
}

func (r *RateLimiter) CheckLogin(ctx context.Context, email string) error {
	return r.check(ctx, fmt.Sprintf("login_attempts:%s", email), 5, 15*time.Minute)
}

func (r *RateLimiter) CheckRegister(ctx context.Context, email string) error {
	return r.check(ctx, fmt.Sprintf("register_attempts:%s", email), 3, time.Hour)
}

func (r *RateLimiter) check(ctx context.Context, key string, max int64, window time.Duration) error {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, window)
	}

	if count > max {
		return ErrTooManyAttempts
	}
	return nil
}

func (r *RateLimiter) ResetAttempts(ctx context.Context, email, operation string) error {
	key := fmt.Sprintf("%s_attempts:%s", operation, email)
	return r.redis.Del(ctx, key).Err()
}
