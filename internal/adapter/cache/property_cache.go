package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

const (
	generationKey = "properties:generation"
	availableKey  = "properties:available"
	remoteTTL     = 15 * time.Minute
)

func propertyKey(id uuid.UUID) string {
	return "property:" + id.String()
}

func versioned(key string, generation int64) string {
	return fmt.Sprintf("%s:g%d", key, generation)
}

// PropertyCache keeps properties in two levels: an in-process ccache in front
// of redis. Payloads are JSON in both so a value read from redis can be
// stored locally as is.
//
// Every key carries the generation counter held in redis. Invalidate bumps
// the counter, which retires the entries of every instance at once, local
// copies included, and strands any fill that started before the bump.
type PropertyCache struct {
	local    *ccache.Cache[[]byte]
	remote   *redis.Client
	localTTL time.Duration
	log      logger.Logger
}

func NewPropertyCache(remote *redis.Client, localTTL time.Duration, log logger.Logger) *PropertyCache {
	return &PropertyCache{
		local:    ccache.New(ccache.Configure[[]byte]().MaxSize(1000)),
		remote:   remote,
		localTTL: localTTL,
		log:      log,
	}
}

func (c *PropertyCache) Get(ctx context.Context, propertyID uuid.UUID) (*domain.Property, int64, bool) {
	generation, ok := c.generation(ctx)
	if !ok {
		return nil, -1, false
	}

	var p domain.Property
	if !c.get(ctx, versioned(propertyKey(propertyID), generation), &p) {
		return nil, generation, false
	}
	return &p, generation, true
}

func (c *PropertyCache) Set(ctx context.Context, generation int64, property *domain.Property) {
	if generation < 0 {
		return
	}
	c.set(ctx, versioned(propertyKey(property.ID), generation), property)
}

func (c *PropertyCache) GetAvailable(ctx context.Context) (*domain.PropertyPage, int64, bool) {
	generation, ok := c.generation(ctx)
	if !ok {
		return nil, -1, false
	}

	var page domain.PropertyPage
	if !c.get(ctx, versioned(availableKey, generation), &page) {
		return nil, generation, false
	}
	return &page, generation, true
}

func (c *PropertyCache) SetAvailable(ctx context.Context, generation int64, page *domain.PropertyPage) {
	if generation < 0 {
		return
	}
	c.set(ctx, versioned(availableKey, generation), page)
}

// Invalidate retires every cached property and the available list. Any
// availability change can add to or remove from that list, so per-id
// deletion would not be enough.
func (c *PropertyCache) Invalidate(ctx context.Context, propertyIDs ...uuid.UUID) {
	generation, err := c.remote.Incr(ctx, generationKey).Result()
	if err != nil {
		c.log.Error("cache invalidation failed for %v: %v", propertyIDs, err)
		return
	}
	c.log.Debug("cache generation %d after change to %v", generation, propertyIDs)
}

// generation reads the shared counter. A missing counter is generation 0.
func (c *PropertyCache) generation(ctx context.Context) (int64, bool) {
	generation, err := c.remote.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		c.log.Error("cache generation read failed: %v", err)
		return 0, false
	}
	return generation, true
}

func (c *PropertyCache) get(ctx context.Context, key string, dest interface{}) bool {
	if item := c.local.Get(key); item != nil && !item.Expired() {
		if err := json.Unmarshal(item.Value(), dest); err == nil {
			c.log.Debug("cache hit (local): %s", key)
			return true
		}
		c.local.Delete(key)
	}

	data, err := c.remote.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error("cache get failed for %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Error("cache payload for %s is corrupt: %v", key, err)
		return false
	}

	c.local.Set(key, data, c.localTTL)
	c.log.Debug("cache hit (redis): %s", key)
	return true
}

func (c *PropertyCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Error("cache marshal failed for %s: %v", key, err)
		return
	}

	c.local.Set(key, data, c.localTTL)

	if err := c.remote.Set(ctx, key, data, remoteTTL).Err(); err != nil {
		c.log.Error("cache set failed for %s: %v", key, err)
	}
}
