package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grassandaxe/booking-wizard/internal/wizard"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, time.Hour, nil)
	ctx := context.Background()

	_, err := repo.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	data := wizard.BookingData{ServiceCategory: "Residential Services", SelectedDate: "2024-3-14"}
	require.NoError(t, repo.Save(ctx, "sess-1", data))

	assert.True(t, mr.Exists("booking:draft:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("booking:draft:sess-1"))

	got, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, repo.Clear(ctx, "sess-1"))
	assert.False(t, mr.Exists("booking:draft:sess-1"))
}

func TestRedisRepository_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", wizard.BookingData{City: "Portland"}))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_CorruptJSON(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0, nil)

	require.NoError(t, mr.Set("booking:draft:sess-1", "{not json"))

	_, err := repo.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedisRepository_ConnectionError(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0, nil)
	mr.Close()

	_, err := repo.Load(context.Background(), "sess-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, repo.Save(context.Background(), "sess-1", wizard.BookingData{}))
}
