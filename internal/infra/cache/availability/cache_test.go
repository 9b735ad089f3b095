package availability

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

// unreachableRedis клиент к закрытому порту: каждая команда сразу возвращает ошибку
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCache_FallsBackToStoreWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	store := memory.NewScheduleStore()
	_, err := store.Upsert(ctx, &domain.AvailabilitySchedule{
		CreatorID:                  1,
		IsBookingEnabled:           true,
		DefaultSlotDurationMinutes: 45,
		Timezone:                   "UTC",
	})
	require.NoError(t, err)

	cache := NewCache(store, unreachableRedis(t), time.Minute, logger.NewNop())

	schedule, err := cache.GetByCreatorID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 45, schedule.DefaultSlotDurationMinutes)

	_, err = cache.Upsert(ctx, &domain.AvailabilitySchedule{CreatorID: 1, DefaultSlotDurationMinutes: 60, Timezone: "UTC"})
	require.NoError(t, err)

	schedule, err = cache.GetByCreatorID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, schedule.DefaultSlotDurationMinutes)
}

func TestCache_PropagatesStoreErrors(t *testing.T) {
	cache := NewCache(memory.NewScheduleStore(), unreachableRedis(t), time.Minute, logger.NewNop())

	_, err := cache.GetByCreatorID(context.Background(), 42)
	require.Error(t, err)
}

func TestCachedScheduleRoundTrip(t *testing.T) {
	s := &domain.AvailabilitySchedule{
		CreatorID:        9,
		IsBookingEnabled: true,
		BufferMinutes:    10,
		Timezone:         "Europe/Berlin",
		WeeklySchedule: []domain.DaySchedule{
			{DayOfWeek: 2, Active: true, Ranges: []domain.TimeRange{{Start: "08:00", End: "12:00"}}},
		},
	}

	assert.Equal(t, s, fromDomain(s).toDomain())
}
