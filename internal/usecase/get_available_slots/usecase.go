package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-SlotBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	schedules       ScheduleStore
	catalog         CatalogClient
	timeProvider    TimeProvider
	logger          Logger
	maxWindowDays   int
}

// Option настройка use case
type Option func(*UseCase)

// WithTimeProvider подменяет источник времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		uc.timeProvider = tp
	}
}

// WithMaxWindowDays ограничивает длину окна дат в ExecuteRange
func WithMaxWindowDays(days int) Option {
	return func(uc *UseCase) {
		if days > 0 {
			uc.maxWindowDays = days
		}
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	schedules ScheduleStore,
	catalog CatalogClient,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		reservationRepo: reservationRepo,
		schedules:       schedules,
		catalog:         catalog,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		maxWindowDays:   domain.MaxWindowDays,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute возвращает свободные слоты автора на один календарный день
// Не настроенное или выключенное расписание, неактивный день и день вне окна бронирования дают пустой список
// Ошибка чтения бронирований прерывает генерацию: занятые слоты не должны попасть в ответ
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: creator=%d, date=%s, service=%v",
		req.CreatorID, req.Date.Format(domain.DateFormat), req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем расписание автора
	schedule, err := uc.loadSchedule(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.IsBookingEnabled {
		uc.logger.Info("GetAvailableSlots: booking is not enabled for creator=%d", req.CreatorID)
		return emptyResponse(req.Date, schedule), nil
	}

	// 3. Определяем длительность слота
	var offering domain.Offering
	if req.ServiceID != nil {
		offering, err = uc.loadOffering(ctx, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		if offering.OwnerID() != req.CreatorID {
			uc.logger.Warn("GetAvailableSlots: service id=%d does not belong to creator=%d", *req.ServiceID, req.CreatorID)
			return nil, ErrServiceNotFound
		}
	}
	duration := domain.ResolveDuration(offering, schedule.DefaultSlotDurationMinutes)

	// 4. Локальный день автора
	day := schedule.LocalDay(req.Date)
	if len(schedule.RangesFor(day.Weekday())) == 0 || schedule.IsBeyondHorizon(day, now) {
		uc.logger.Info("GetAvailableSlots: nothing to offer for creator=%d on %s", req.CreatorID, req.Date.Format(domain.DateFormat))
		resp := emptyResponse(req.Date, schedule)
		resp.DurationMinutes = int(duration / time.Minute)
		return resp, nil
	}

	// 5. Получаем активные бронирования, пересекающие локальный день
	dayStart, dayEnd := dayBounds(day)
	reservations, err := uc.reservationRepo.ListActiveInRange(ctx, req.CreatorID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations for creator=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 6. Обходим диапазоны дня
	slots := daySlots(schedule, day, duration, domain.ActiveIntervals(reservations), now)

	uc.logger.Info("GetAvailableSlots: generated %d slots for creator=%d, date=%s",
		len(slots), req.CreatorID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            civilDate(req.Date),
		Timezone:        schedule.Location().String(),
		DurationMinutes: int(duration / time.Minute),
		Slots:           domain.FormatSlots(slots, schedule.Location()),
	}, nil
}

// ExecuteRange возвращает свободные слоты услуги за окно дат
// Бронирования читаются один раз на все окно
func (uc *UseCase) ExecuteRange(ctx context.Context, req *RangeRequest) (*RangeResponse, error) {
	uc.logger.Info("GetServiceAvailability: service=%d, from=%s, to=%s",
		req.ServiceID, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация окна
	days, err := validateRangeRequest(req, uc.maxWindowDays)
	if err != nil {
		uc.logger.Warn("GetServiceAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Услуга определяет автора и длительность
	offering, err := uc.loadOffering(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	resp := &RangeResponse{
		ServiceID: req.ServiceID,
		CreatorID: offering.OwnerID(),
		Slots:     []WindowSlot{},
	}

	// 3. Расписание автора
	schedule, err := uc.loadSchedule(ctx, offering.OwnerID())
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.IsBookingEnabled {
		uc.logger.Info("GetServiceAvailability: booking is not enabled for creator=%d", offering.OwnerID())
		resp.Timezone = domain.DefaultTimezone
		resp.DurationMinutes = int(domain.ResolveDuration(offering, 0) / time.Minute)
		return resp, nil
	}

	duration := domain.ResolveDuration(offering, schedule.DefaultSlotDurationMinutes)
	resp.Timezone = schedule.Location().String()
	resp.DurationMinutes = int(duration / time.Minute)

	// 4. Бронирования за все окно одним запросом
	first := schedule.LocalDay(req.DateFrom)
	_, windowEnd := dayBounds(schedule.LocalDay(req.DateTo))

	reservations, err := uc.reservationRepo.ListActiveInRange(ctx, offering.OwnerID(), first, windowEnd)
	if err != nil {
		uc.logger.Error("GetServiceAvailability: failed to get reservations for creator=%d: %v", offering.OwnerID(), err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	busy := domain.ActiveIntervals(reservations)

	// 5. Обходим каждый день окна
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		for _, slot := range daySlots(schedule, day, duration, busy, now) {
			resp.Slots = append(resp.Slots, WindowSlot{
				Date:      civilDate(day),
				Start:     types.NewTimeString(slot.Start.In(day.Location())),
				End:       wallClockEnd(day, slot.End),
				Timestamp: slot.Start.UTC(),
			})
		}
	}

	uc.logger.Info("GetServiceAvailability: generated %d slots for service=%d over %d days",
		len(resp.Slots), req.ServiceID, days)
	return resp, nil
}

// loadSchedule возвращает nil без ошибки, если автор не настроил расписание
func (uc *UseCase) loadSchedule(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error) {
	schedule, err := uc.schedules.GetByCreatorID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule for creator=%d: %v", creatorID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	return schedule, nil
}

func (uc *UseCase) loadOffering(ctx context.Context, serviceID int64) (domain.Offering, error) {
	offering, err := uc.catalog.GetOffering(ctx, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrOfferingNotFound):
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogClient.ErrUnavailable):
			uc.logger.Error("GetAvailableSlots: catalog unavailable for service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return offering, nil
}

func emptyResponse(date time.Time, schedule *domain.AvailabilitySchedule) *Response {
	resp := &Response{
		Date:            civilDate(date),
		Timezone:        domain.DefaultTimezone,
		DurationMinutes: domain.DefaultSlotDurationMinutes,
		Slots:           []types.TimeString{},
	}
	if schedule != nil {
		resp.Timezone = schedule.Location().String()
		resp.DurationMinutes = int(domain.ResolveDuration(nil, schedule.DefaultSlotDurationMinutes) / time.Minute)
	}
	return resp
}
