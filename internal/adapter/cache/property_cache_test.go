package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCache_MissThenLocalHit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewPropertyCache(db, time.Minute, logger.Nop())
	ctx := context.Background()

	property := &domain.Property{ID: uuid.New(), Address: "1 Main St", Price: 700, Status: domain.PropertyAvailable}
	key := versioned(propertyKey(property.ID), 0)
	payload, err := json.Marshal(property)
	require.NoError(t, err)

	mockRedis.ExpectGet(generationKey).RedisNil()
	mockRedis.ExpectGet(key).RedisNil()
	_, generation, ok := c.Get(ctx, property.ID)
	assert.False(t, ok)
	assert.Equal(t, int64(0), generation)

	mockRedis.ExpectSet(key, payload, remoteTTL).SetVal("OK")
	c.Set(ctx, generation, property)

	mockRedis.ExpectGet(generationKey).RedisNil()
	got, _, ok := c.Get(ctx, property.ID)
	require.True(t, ok, "payload is served locally once the generation is known")
	assert.Equal(t, property.Address, got.Address)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPropertyCache_RemoteHit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewPropertyCache(db, time.Minute, logger.Nop())
	ctx := context.Background()

	page := &domain.PropertyPage{Houses: []domain.Property{{ID: uuid.New(), Status: domain.PropertyAvailable}}, Page: 1, Pages: 1, Total: 1}
	payload, err := json.Marshal(page)
	require.NoError(t, err)

	mockRedis.ExpectGet(generationKey).SetVal("3")
	mockRedis.ExpectGet(versioned(availableKey, 3)).SetVal(string(payload))

	got, generation, ok := c.GetAvailable(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), generation)
	assert.Equal(t, page.Houses[0].ID, got.Houses[0].ID)
	assert.Equal(t, int64(1), got.Total)

	mockRedis.ExpectGet(generationKey).SetVal("3")
	got, _, ok = c.GetAvailable(ctx)
	require.True(t, ok)
	assert.Len(t, got.Houses, 1)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPropertyCache_InvalidateReachesOtherInstances(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	writer := NewPropertyCache(db, time.Minute, logger.Nop())
	reader := NewPropertyCache(db, time.Minute, logger.Nop())
	ctx := context.Background()

	property := &domain.Property{ID: uuid.New(), Status: domain.PropertyAvailable}
	payload, err := json.Marshal(property)
	require.NoError(t, err)

	// The reader instance warms its local level from redis.
	mockRedis.ExpectGet(generationKey).RedisNil()
	mockRedis.ExpectGet(versioned(propertyKey(property.ID), 0)).SetVal(string(payload))
	_, _, ok := reader.Get(ctx, property.ID)
	require.True(t, ok)

	// The writer instance changes the property.
	mockRedis.ExpectIncr(generationKey).SetVal(1)
	writer.Invalidate(ctx, property.ID)

	mockRedis.ExpectGet(generationKey).SetVal("1")
	mockRedis.ExpectGet(versioned(propertyKey(property.ID), 1)).RedisNil()
	_, generation, ok := reader.Get(ctx, property.ID)
	assert.False(t, ok, "the reader's local copy belongs to a retired generation")
	assert.Equal(t, int64(1), generation)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPropertyCache_FillRacingInvalidateIsStranded(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewPropertyCache(db, time.Minute, logger.Nop())
	ctx := context.Background()

	stale := &domain.PropertyPage{Houses: []domain.Property{{ID: uuid.New(), Status: domain.PropertyAvailable}}, Page: 1, Pages: 1, Total: 1}
	payload, err := json.Marshal(stale)
	require.NoError(t, err)

	mockRedis.ExpectGet(generationKey).SetVal("4")
	mockRedis.ExpectGet(versioned(availableKey, 4)).RedisNil()
	_, generation, ok := c.GetAvailable(ctx)
	require.False(t, ok)

	// A booking commits and invalidates while the list is being loaded.
	mockRedis.ExpectIncr(generationKey).SetVal(5)
	c.Invalidate(ctx, stale.Houses[0].ID)

	mockRedis.ExpectSet(versioned(availableKey, 4), payload, remoteTTL).SetVal("OK")
	c.SetAvailable(ctx, generation, stale)

	mockRedis.ExpectGet(generationKey).SetVal("5")
	mockRedis.ExpectGet(versioned(availableKey, 5)).RedisNil()
	_, _, ok = c.GetAvailable(ctx)
	assert.False(t, ok, "the late fill is not visible under the new generation")

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPropertyCache_RedisDown(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewPropertyCache(db, time.Minute, logger.Nop())
	ctx := context.Background()
	property := &domain.Property{ID: uuid.New()}

	mockRedis.ExpectGet(generationKey).SetErr(errors.New("connection refused"))
	_, generation, ok := c.Get(ctx, property.ID)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), generation)

	c.Set(ctx, generation, property)

	mockRedis.ExpectIncr(generationKey).SetErr(errors.New("connection refused"))
	c.Invalidate(ctx, property.ID)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
