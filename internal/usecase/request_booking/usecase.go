package request_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/availability"
	reservationRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/reservation"
	catalogClient "github.com/m04kA/SMC-SlotBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-SlotBooking/internal/service/pricing"
	"github.com/m04kA/SMC-SlotBooking/pkg/metrics"
)

// UseCase use case для бронирования слота
type UseCase struct {
	reservationRepo ReservationRepository
	schedules       ScheduleStore
	catalog         CatalogClient
	payments        PaymentClient
	notifier        Notifier
	txManager       TransactionManager
	expiry          ExpiryScheduler
	pendingTTL      time.Duration
	metrics         *metrics.Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// Option настройка use case
type Option func(*UseCase)

// WithTimeProvider подменяет источник времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		uc.timeProvider = tp
	}
}

// WithExpiryScheduler включает отложенную отмену pending бронирований через ttl
func WithExpiryScheduler(s ExpiryScheduler, ttl time.Duration) Option {
	return func(uc *UseCase) {
		uc.expiry = s
		uc.pendingTTL = ttl
	}
}

// WithMetrics подключает доменные метрики
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCase) {
		uc.metrics = m
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	schedules ScheduleStore,
	catalog CatalogClient,
	payments PaymentClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		reservationRepo: reservationRepo,
		schedules:       schedules,
		catalog:         catalog,
		payments:        payments,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute бронирует интервал автора
// Проверка пересечения и вставка выполняются в одной сериализуемой транзакции,
// а exclusion-ограничение реестра не дает двум пересекающимся активным бронированиям существовать одновременно
// Платеж и уведомления выполняются после коммита; их сбой не откатывает бронирование, а помечает ответ как degraded
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: user=%d, creator=%d, service=%d, start=%s",
		req.UserID, req.CreatorID, req.ServiceID, req.StartTime.UTC().Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу
	offering, err := uc.loadOffering(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Получаем расписание автора
	schedule, err := uc.schedules.GetByCreatorID(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("RequestBooking: creator=%d has no schedule", req.CreatorID)
			return nil, ErrBookingDisabled
		}
		uc.logger.Error("RequestBooking: failed to get schedule for creator=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrTransientFailure, err)
	}
	if !schedule.IsBookingEnabled {
		uc.logger.Warn("RequestBooking: booking is disabled for creator=%d", req.CreatorID)
		return nil, ErrBookingDisabled
	}

	// 4. Интервал и его соответствие сетке слотов
	duration := domain.ResolveDuration(offering, schedule.DefaultSlotDurationMinutes)
	interval, err := uc.resolveInterval(req, schedule, duration, now)
	if err != nil {
		uc.logger.Warn("RequestBooking: slot check failed for creator=%d: %v", req.CreatorID, err)
		return nil, err
	}

	// 5. Начальный статус
	decision := pricing.Decide(offering.Price())

	reservation := &domain.Reservation{
		CreatorID:  req.CreatorID,
		CustomerID: req.UserID,
		ServiceID:  req.ServiceID,
		StartTime:  interval.Start.UTC(),
		EndTime:    interval.End.UTC(),
		Status:     decision.Status,
		Customer: domain.CustomerInfo{
			Email: strings.TrimSpace(req.Customer.Email),
			Name:  strings.TrimSpace(req.Customer.Name),
			Notes: req.Customer.Notes,
		},
		Price:    offering.Price(),
		Currency: offering.Currency(),
	}

	// 6. Повторная проверка и вставка в сериализуемой транзакции
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		active, err := uc.reservationRepo.ListActiveInRange(txCtx, req.CreatorID, interval.Start, interval.End)
		if err != nil {
			return fmt.Errorf("failed to get active reservations: %w", err)
		}
		if interval.OverlapsAny(domain.ActiveIntervals(active)) {
			return ErrSlotConflict
		}

		candidate := *reservation
		created, err = uc.reservationRepo.Create(txCtx, &candidate)
		if err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, uc.classifyTxError(req, err)
	}

	uc.metrics.ReservationCreated(string(created.Status))
	uc.logger.Info("RequestBooking: created reservation id=%d with status=%s", created.ID, created.Status)

	// 7. Побочные действия после коммита
	resp := toResponse(created, duration)
	if decision.RequiresPayment {
		uc.startPayment(ctx, created, resp)
	} else {
		uc.notifyConfirmed(ctx, created, resp)
	}

	return resp, nil
}

func (uc *UseCase) loadOffering(ctx context.Context, req *Request) (domain.Offering, error) {
	offering, err := uc.catalog.GetOffering(ctx, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrOfferingNotFound):
			uc.logger.Warn("RequestBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogClient.ErrUnavailable):
			uc.logger.Error("RequestBooking: catalog unavailable for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: catalog unavailable: %v", ErrTransientFailure, err)
		}
		uc.logger.Error("RequestBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if offering.OwnerID() != req.CreatorID {
		uc.logger.Warn("RequestBooking: service id=%d does not belong to creator=%d", req.ServiceID, req.CreatorID)
		return nil, ErrServiceNotFound
	}

	return offering, nil
}

// resolveInterval проверяет окно бронирования и сетку слотов
func (uc *UseCase) resolveInterval(
	req *Request,
	schedule *domain.AvailabilitySchedule,
	duration time.Duration,
	now time.Time,
) (domain.Interval, error) {
	interval := domain.Interval{Start: req.StartTime, End: req.StartTime.Add(duration)}

	if req.EndTime != nil && !req.EndTime.Equal(interval.End) {
		return domain.Interval{}, fmt.Errorf("%w: endTime must equal startTime + %d minutes",
			ErrInvalidInput, int(duration/time.Minute))
	}

	if interval.Start.Before(schedule.BookableFrom(now)) {
		return domain.Interval{}, fmt.Errorf("%w: must book at least %d minutes in advance",
			ErrTooLateToBook, schedule.MinNoticeMinutes)
	}

	day := schedule.LocalDay(interval.Start.In(schedule.Location()))
	if schedule.IsBeyondHorizon(day, now) {
		return domain.Interval{}, fmt.Errorf("%w: can only book %d days in advance",
			ErrDateTooFarInFuture, schedule.MaxAdvanceDays)
	}

	ranges := schedule.RangesFor(day.Weekday())
	if !domain.IsOnSlotGrid(day, ranges, duration, schedule.Buffer(), interval.Start) {
		return domain.Interval{}, ErrInvalidTimeSlot
	}

	return interval, nil
}

// classifyTxError отделяет конфликт слота от сбоев инфраструктуры
func (uc *UseCase) classifyTxError(req *Request, err error) error {
	switch {
	case errors.Is(err, ErrSlotConflict), errors.Is(err, reservationRepo.ErrSlotTaken):
		uc.metrics.SlotConflict()
		uc.logger.Warn("RequestBooking: slot %s is taken for creator=%d",
			req.StartTime.UTC().Format(time.RFC3339), req.CreatorID)
		return ErrSlotConflict
	default:
		uc.logger.Error("RequestBooking: transaction failed for creator=%d: %v", req.CreatorID, err)
		return fmt.Errorf("%w: %w", ErrTransientFailure, err)
	}
}

// startPayment создает платеж, привязывает его к бронированию и ставит отложенную отмену
func (uc *UseCase) startPayment(ctx context.Context, res *domain.Reservation, resp *Response) {
	intent, err := uc.payments.CreatePaymentIntent(ctx, res)
	if err != nil {
		uc.metrics.SideEffectFailed("payments")
		uc.logger.Error("RequestBooking: failed to create payment intent for reservation id=%d: %v", res.ID, err)
		resp.degrade("payment could not be started, retry payment later")
	} else if err := uc.reservationRepo.AttachPaymentRef(ctx, res.ID, intent.Ref); err != nil {
		uc.metrics.SideEffectFailed("ledger")
		uc.logger.Error("RequestBooking: failed to attach payment ref=%s to reservation id=%d: %v", intent.Ref, res.ID, err)
		resp.degrade("payment reference could not be saved")
	} else {
		res.LinkedPaymentRef = &intent.Ref
		resp.Payment = &Payment{
			Ref:          intent.Ref,
			ClientSecret: intent.ClientSecret,
			Amount:       intent.Amount,
			Currency:     intent.Currency,
		}
	}

	if err := uc.notifier.NotifyBookingPending(ctx, res); err != nil {
		uc.metrics.SideEffectFailed("notifier")
		uc.logger.Warn("RequestBooking: failed to publish pending event for reservation id=%d: %v", res.ID, err)
	}

	if uc.expiry == nil {
		return
	}
	// Пропущенную задачу подберет периодический sweep
	if err := uc.expiry.SchedulePendingExpiry(ctx, res.ID, uc.pendingTTL); err != nil {
		uc.metrics.SideEffectFailed("expiry")
		uc.logger.Warn("RequestBooking: failed to schedule expiry for reservation id=%d: %v", res.ID, err)
	}
}

func (uc *UseCase) notifyConfirmed(ctx context.Context, res *domain.Reservation, resp *Response) {
	if err := uc.notifier.NotifyBookingConfirmed(ctx, res); err != nil {
		uc.metrics.SideEffectFailed("notifier")
		uc.logger.Error("RequestBooking: failed to send confirmation for reservation id=%d: %v", res.ID, err)
		resp.degrade("confirmation notification was not sent")
	}
}

func (r *Response) degrade(warning string) {
	r.Degraded = true
	r.Warnings = append(r.Warnings, warning)
}

func toResponse(res *domain.Reservation, duration time.Duration) *Response {
	return &Response{
		ID:              res.ID,
		CreatorID:       res.CreatorID,
		CustomerID:      res.CustomerID,
		ServiceID:       res.ServiceID,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		DurationMinutes: int(duration / time.Minute),
		Status:          string(res.Status),
		Confirmed:       res.Status == domain.StatusConfirmed,
		Price:           res.Price,
		Currency:        res.Currency,
		Warnings:        []string{},
		CreatedAt:       res.CreatedAt,
	}
}
