package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
)

// Service сервис настроек доступности автора
type Service struct {
	store    ScheduleStore
	defaults models.Defaults
	logger   Logger
}

// Option настройка сервиса
type Option func(*Service)

// WithDefaults задает значения для первого сохранения расписания
func WithDefaults(d models.Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// NewService создает новый экземпляр сервиса доступности
func NewService(store ScheduleStore, logger Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		defaults: models.BuiltinDefaults,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get получает расписание автора
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, creatorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for creator=%d", creatorID)

	schedule, err := s.store.GetByCreatorID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Get: schedule for creator=%d not found", creatorID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for creator=%d: %v", creatorID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// Update создает или частично обновляет расписание
// Доступно только самому автору
func (s *Service) Update(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for creator=%d by user=%d", req.CreatorID, req.UserID)

	// 1. Менять расписание может только сам автор
	if req.UserID != req.CreatorID {
		s.logger.Warn("Update: user=%d is not creator=%d", req.UserID, req.CreatorID)
		return nil, ErrAccessDenied
	}

	// 2. Получаем текущее расписание или берем значения по умолчанию
	schedule, err := s.store.GetByCreatorID(ctx, req.CreatorID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Error("Update: repository error for creator=%d: %v", req.CreatorID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		schedule = s.defaults.NewSchedule(req.CreatorID)
	}

	// 3. Применяем и валидируем
	req.ApplyTo(schedule)
	if err := validateSchedule(schedule); err != nil {
		s.logger.Warn("Update: validation failed for creator=%d: %v", req.CreatorID, err)
		return nil, err
	}

	// 4. Сохраняем (кэш сбрасывается внутри хранилища)
	saved, err := s.store.Upsert(ctx, schedule)
	if err != nil {
		s.logger.Error("Update: repository error for creator=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved schedule for creator=%d", req.CreatorID)
	return models.FromDomainSchedule(saved), nil
}

func validateSchedule(s *domain.AvailabilitySchedule) error {
	if s.DefaultSlotDurationMinutes < domain.MinSlotDurationMinutes || s.DefaultSlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: defaultSlotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if s.BufferMinutes < 0 || s.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if s.MinNoticeMinutes < 0 || s.MinNoticeMinutes > domain.MaxMinNoticeMinutes {
		return fmt.Errorf("%w: minNoticeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxMinNoticeMinutes)
	}
	if s.MaxAdvanceDays < 0 || s.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: maxAdvanceDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceDays)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, s.Timezone)
	}

	seen := make(map[int]struct{}, len(s.WeeklySchedule))
	for _, day := range s.WeeklySchedule {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
		}
		if _, dup := seen[day.DayOfWeek]; dup {
			return fmt.Errorf("%w: dayOfWeek %d is listed twice", ErrInvalidInput, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = struct{}{}

		if err := validateRanges(day.Ranges); err != nil {
			return fmt.Errorf("%w: dayOfWeek %d: %v", ErrInvalidInput, day.DayOfWeek, err)
		}
	}

	return nil
}

// validateRanges диапазоны корректны и не пересекаются между собой
func validateRanges(ranges []domain.TimeRange) error {
	for _, r := range ranges {
		if err := r.Start.Validate(); err != nil {
			return err
		}
		if err := r.End.Validate(); err != nil {
			return err
		}
		if !r.Start.IsBefore(r.End) {
			return fmt.Errorf("range %s-%s: start must be before end", r.Start, r.End)
		}
	}

	sorted := make([]domain.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.IsBefore(sorted[j].Start) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.IsBefore(sorted[i-1].End) {
			return fmt.Errorf("ranges %s-%s and %s-%s overlap",
				sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
		}
	}
	return nil
}
