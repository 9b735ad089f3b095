package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

const keyPrefix = "slot-booking:schedule:"

// Store источник расписаний (PostgreSQL)
type Store interface {
	GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error)
	Upsert(ctx context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Cache read-through кэш расписаний в Redis
// Ошибки Redis не пробрасываются: чтение уходит в Store
type Cache struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCache оборачивает store кэшем
func NewCache(store Store, client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(creatorID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, creatorID)
}

// GetByCreatorID возвращает расписание из кэша, при промахе читает store и кладет в кэш
// Отсутствие расписания не кэшируется
func (c *Cache) GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error) {
	raw, err := c.client.Get(ctx, key(creatorID)).Bytes()
	switch {
	case err == nil:
		var entry cachedSchedule
		if err := json.Unmarshal(raw, &entry); err == nil {
			return entry.toDomain(), nil
		}
		c.logger.Warn("ScheduleCache: corrupt entry for creator=%d, reading store", creatorID)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("ScheduleCache: redis get failed for creator=%d: %v", creatorID, err)
	}

	schedule, err := c.store.GetByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, schedule)
	return schedule, nil
}

// Upsert пишет в store и сбрасывает запись кэша
func (c *Cache) Upsert(ctx context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error) {
	saved, err := c.store.Upsert(ctx, schedule)
	if err != nil {
		return nil, err
	}

	c.Invalidate(ctx, schedule.CreatorID)
	return saved, nil
}

// Invalidate удаляет запись кэша
func (c *Cache) Invalidate(ctx context.Context, creatorID int64) {
	if err := c.client.Del(ctx, key(creatorID)).Err(); err != nil {
		c.logger.Warn("ScheduleCache: redis del failed for creator=%d: %v", creatorID, err)
	}
}

func (c *Cache) set(ctx context.Context, schedule *domain.AvailabilitySchedule) {
	raw, err := json.Marshal(fromDomain(schedule))
	if err != nil {
		c.logger.Error("ScheduleCache: failed to encode schedule for creator=%d: %v", schedule.CreatorID, err)
		return
	}
	if err := c.client.Set(ctx, key(schedule.CreatorID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("ScheduleCache: redis set failed for creator=%d: %v", schedule.CreatorID, err)
	}
}
