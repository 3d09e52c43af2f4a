package stream

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAndPending(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := NewRedisInconsistencyStream(db)
	ctx := context.Background()

	sig := domain.Inconsistency{
		Operation:      "set booking status",
		BookingID:      uuid.New(),
		PropertyID:     uuid.New(),
		BookingStatus:  domain.BookingApproved,
		PropertyStatus: domain.PropertyAvailable,
		Cause:          "timeout",
	}
	payload, err := json.Marshal(sig)
	require.NoError(t, err)

	mockRedis.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxLen,
		Approx: true,
		Values: []interface{}{payloadField, string(payload)},
	}).SetVal("1700000000000-0")

	require.NoError(t, s.Report(ctx, sig))

	mockRedis.ExpectXLen(StreamKey).SetVal(2)
	mockRedis.ExpectXRevRangeN(StreamKey, "+", "-", 10).SetVal([]redis.XMessage{
		{ID: "1700000000001-0", Values: map[string]interface{}{payloadField: "{broken"}},
		{ID: "1700000000000-0", Values: map[string]interface{}{payloadField: string(payload)}},
	})

	signals, total, err := s.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, signals, 2)
	assert.Equal(t, "1700000000001-0", signals[0].ID)
	assert.Equal(t, unreadableOperation, signals[0].Operation)
	assert.Equal(t, "1700000000000-0", signals[1].ID)
	assert.Equal(t, sig.BookingID, signals[1].BookingID)
	assert.Equal(t, domain.PropertyAvailable, signals[1].PropertyStatus)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPending_BacklogBeyondLimit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := NewRedisInconsistencyStream(db)
	ctx := context.Background()

	newest := domain.Inconsistency{Operation: "settle payment", BookingID: uuid.New(), PropertyID: uuid.New()}
	payload, err := json.Marshal(newest)
	require.NoError(t, err)

	mockRedis.ExpectXLen(StreamKey).SetVal(250)
	mockRedis.ExpectXRevRangeN(StreamKey, "+", "-", 1).SetVal([]redis.XMessage{
		{ID: "1700000000250-0", Values: map[string]interface{}{payloadField: string(payload)}},
	})

	signals, total, err := s.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), total)
	require.Len(t, signals, 1)
	assert.Equal(t, newest.BookingID, signals[0].BookingID, "the newest signal is returned, not the oldest")

	mockRedis.ExpectXDel(StreamKey, "1700000000250-0").SetVal(1)
	require.NoError(t, s.Ack(ctx, "1700000000250-0"))

	assert.NoError(t, s.Ack(ctx))

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestPending_EmptyStream(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := NewRedisInconsistencyStream(db)

	mockRedis.ExpectXLen(StreamKey).SetVal(0)

	signals, total, err := s.Pending(context.Background(), 100)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, signals)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
