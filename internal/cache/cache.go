// Package cache keeps scored results and de-duplication locks in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// ResultCache stores MatchResults under the driver's fingerprinted keys.
type ResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewResultCache(client redis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns ok=false on a miss.
func (c *ResultCache) Get(ctx context.Context, key string) (models.MatchResult, bool, error) {
	var res models.MatchResult

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return res, false, nil
	}
	if err != nil {
		return res, false, apperrors.NewCacheError("get", err)
	}
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return res, false, apperrors.NewCacheError("decode", fmt.Errorf("key %s: %w", key, err))
	}
	return res, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, res models.MatchResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return apperrors.NewCacheError("encode", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheError("set", err)
	}
	return nil
}

// Guard claims a (candidate, job) pair across concurrent generation runs.
// Claims are released once the pair is decided; ttl only bounds claims left
// behind by a crashed run.
type Guard struct {
	client redis.Cmdable
	ttl    time.Duration
	owner  string
}

// NewGuard builds a guard whose claims carry owner as their value.
func NewGuard(client redis.Cmdable, ttl time.Duration, owner string) *Guard {
	return &Guard{client: client, ttl: ttl, owner: owner}
}

func GuardKey(candidateID, jobID string) string {
	return fmt.Sprintf("match:lock:%s:%s", candidateID, jobID)
}

// Acquire returns true when this call claimed the pair.
func (g *Guard) Acquire(ctx context.Context, candidateID, jobID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, GuardKey(candidateID, jobID), g.owner, g.ttl).Result()
	if err != nil {
		return false, apperrors.NewCacheError("setnx", err)
	}
	return ok, nil
}

// releaseScript deletes the claim only while this owner still holds it.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Release drops this owner's claim on the pair. A claim that lapsed and was
// taken by another owner is left alone.
func (g *Guard) Release(ctx context.Context, candidateID, jobID string) error {
	err := g.client.Eval(ctx, releaseScript, []string{GuardKey(candidateID, jobID)}, g.owner).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return apperrors.NewCacheError("release", err)
	}
	return nil
}
