package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// EligibilityCache memoizes IsEligible answers. Implementations may fail;
// callers treat failures as misses.
//
// Readers populate with Fill, which never replaces an existing entry, so a
// read that started before a decision cannot overwrite the value Set by it.
type EligibilityCache interface {
	Get(ctx context.Context, userID uint) (eligible bool, found bool, err error)
	Fill(ctx context.Context, userID uint, eligible bool) error
	Set(ctx context.Context, userID uint, eligible bool) error
	Invalidate(ctx context.Context, userID uint) error
}

func EligibilityKey(userID uint) string {
	return fmt.Sprintf("studentdeal:eligibility:%d", userID)
}

type redisCache struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewRedisCache(rdb *rd.Client, ttl time.Duration) EligibilityCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, userID uint) (bool, bool, error) {
	v, err := c.rdb.Get(ctx, EligibilityKey(userID)).Result()
	if errors.Is(err, rd.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == "1", true, nil
}

func (c *redisCache) Fill(ctx context.Context, userID uint, eligible bool) error {
	return c.rdb.SetNX(ctx, EligibilityKey(userID), cacheValue(eligible), c.ttl).Err()
}

func (c *redisCache) Set(ctx context.Context, userID uint, eligible bool) error {
	return c.rdb.Set(ctx, EligibilityKey(userID), cacheValue(eligible), c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, userID uint) error {
	return c.rdb.Del(ctx, EligibilityKey(userID)).Err()
}

func cacheValue(eligible bool) string {
	if eligible {
		return "1"
	}
	return "0"
}

type noopCache struct{}

// NoopCache disables caching; every IsEligible call reads the database.
func NoopCache() EligibilityCache { return noopCache{} }

func (noopCache) Get(context.Context, uint) (bool, bool, error) { return false, false, nil }
func (noopCache) Fill(context.Context, uint, bool) error        { return nil }
func (noopCache) Set(context.Context, uint, bool) error         { return nil }
func (noopCache) Invalidate(context.Context, uint) error        { return nil }
