package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/infra/storage/availability"
)

// ScheduleStore расписания авторов в памяти процесса
type ScheduleStore struct {
	mu        sync.RWMutex
	schedules map[int64]domain.AvailabilitySchedule
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{schedules: make(map[int64]domain.AvailabilitySchedule)}
}

func (s *ScheduleStore) GetByCreatorID(_ context.Context, creatorID int64) (*domain.AvailabilitySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[creatorID]
	if !ok {
		return nil, availability.ErrScheduleNotFound
	}
	return &schedule, nil
}

func (s *ScheduleStore) Upsert(_ context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.schedules[schedule.CreatorID]; ok {
		schedule.CreatedAt = existing.CreatedAt
	} else {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
	s.schedules[schedule.CreatorID] = *schedule
	return schedule, nil
}
