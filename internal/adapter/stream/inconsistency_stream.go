package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

const (
	StreamKey    = "reconcile:inconsistencies"
	payloadField = "payload"
	maxLen       = 10000

	unreadableOperation = "unreadable signal"
)

// RedisInconsistencyStream appends recoverable inconsistencies to a capped redis
// stream that reconciliation reads back.
type RedisInconsistencyStream struct {
	client *redis.Client
}

func NewRedisInconsistencyStream(client *redis.Client) *RedisInconsistencyStream {
	return &RedisInconsistencyStream{client: client}
}

func (s *RedisInconsistencyStream) Report(ctx context.Context, signal domain.Inconsistency) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("failed to encode inconsistency: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxLen,
		Approx: true,
		Values: []interface{}{payloadField, string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append inconsistency: %w", err)
	}

	return nil
}

// Pending returns up to limit signals, newest first, and the stream length.
// An entry whose payload cannot be decoded comes back with only its ID and
// the decode failure so it can still be acknowledged.
func (s *RedisInconsistencyStream) Pending(ctx context.Context, limit int64) ([]domain.Inconsistency, int64, error) {
	total, err := s.client.XLen(ctx, StreamKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to size inconsistency stream: %w", err)
	}
	if total == 0 {
		return []domain.Inconsistency{}, 0, nil
	}

	messages, err := s.client.XRevRangeN(ctx, StreamKey, "+", "-", limit).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read inconsistencies: %w", err)
	}

	signals := make([]domain.Inconsistency, 0, len(messages))
	for _, msg := range messages {
		signals = append(signals, decode(msg))
	}

	return signals, total, nil
}

func (s *RedisInconsistencyStream) Ack(ctx context.Context, signalIDs ...string) error {
	if len(signalIDs) == 0 {
		return nil
	}

	if err := s.client.XDel(ctx, StreamKey, signalIDs...).Err(); err != nil {
		return fmt.Errorf("failed to acknowledge inconsistencies: %w", err)
	}

	return nil
}

func decode(msg redis.XMessage) domain.Inconsistency {
	raw, ok := msg.Values[payloadField].(string)
	if !ok {
		return domain.Inconsistency{ID: msg.ID, Operation: unreadableOperation, Cause: "missing " + payloadField + " field"}
	}

	var sig domain.Inconsistency
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return domain.Inconsistency{ID: msg.ID, Operation: unreadableOperation, Cause: err.Error()}
	}

	sig.ID = msg.ID
	return sig
}
