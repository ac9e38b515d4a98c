package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/grassandaxe/booking-wizard/internal/wizard"
)

// RedisRepository stores each draft as a JSON string with a sliding TTL.
type RedisRepository struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

var _ Repository = (*RedisRepository)(nil)

func NewRedisRepository(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisRepository {
	if client == nil {
		panic("draft: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("grassaxe.internal.draft.redis")
	}
	return &RedisRepository{redis: client, ttl: ttl, tracer: tracer}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (wizard.BookingData, error) {
	ctx, span := r.tracer.Start(ctx, "draft.redis.load")
	defer span.End()

	raw, err := r.redis.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return wizard.BookingData{}, ErrNotFound
		}
		span.RecordError(err)
		return wizard.BookingData{}, fmt.Errorf("draft: failed to load draft: %w", err)
	}

	var data wizard.BookingData
	if err := json.Unmarshal(raw, &data); err != nil {
		span.RecordError(err)
		return wizard.BookingData{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, data wizard.BookingData) error {
	ctx, span := r.tracer.Start(ctx, "draft.redis.save")
	defer span.End()

	raw, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to marshal draft: %w", err)
	}
	if err := r.redis.Set(ctx, draftKey(sessionID), raw, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to persist draft: %w", err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	ctx, span := r.tracer.Start(ctx, "draft.redis.clear")
	defer span.End()

	if err := r.redis.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to delete draft: %w", err)
	}
	return nil
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("booking:draft:%s", sessionID)
}
