// Package cache keeps read-mostly API payloads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"retail-transfers/app/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultTTL = 5 * time.Minute

	feeTiersKey = "transfer_fees:all"
	totalsKey   = "transfer_totals"
)

// Cache is what the handlers need. A miss and a Redis failure look the same
// to callers; both fall through to the database.
type Cache interface {
	FeeTiers(ctx context.Context) ([]models.FeeTier, bool)
	SetFeeTiers(ctx context.Context, tiers []models.FeeTier)
	InvalidateFeeTiers(ctx context.Context)
	Totals(ctx context.Context) (models.Total, bool)
	SetTotals(ctx context.Context, total models.Total)
	InvalidateTotals(ctx context.Context)
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New returns a Redis backed cache. A nil client yields a cache that always misses.
func New(client *redis.Client, log *zap.Logger) *Redis {
	return &Redis{client: client, ttl: DefaultTTL, log: log}
}

func (r *Redis) FeeTiers(ctx context.Context) ([]models.FeeTier, bool) {
	var tiers []models.FeeTier
	if !r.get(ctx, feeTiersKey, &tiers) {
		return nil, false
	}
	return tiers, true
}

func (r *Redis) SetFeeTiers(ctx context.Context, tiers []models.FeeTier) {
	r.set(ctx, feeTiersKey, tiers)
}

func (r *Redis) InvalidateFeeTiers(ctx context.Context) {
	r.del(ctx, feeTiersKey)
}

func (r *Redis) Totals(ctx context.Context) (models.Total, bool) {
	var t models.Total
	ok := r.get(ctx, totalsKey, &t)
	return t, ok
}

func (r *Redis) SetTotals(ctx context.Context, total models.Total) {
	r.set(ctx, totalsKey, total)
}

func (r *Redis) InvalidateTotals(ctx context.Context) {
	r.del(ctx, totalsKey)
}

func (r *Redis) get(ctx context.Context, key string, out any) bool {
	if r == nil || r.client == nil {
		return false
	}
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		r.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		r.del(ctx, key)
		return false
	}
	return true
}

func (r *Redis) set(ctx context.Context, key string, v any) {
	if r == nil || r.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Redis) del(ctx context.Context, key string) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
