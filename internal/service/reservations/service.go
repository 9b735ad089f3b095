package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SlotBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations/models"
	"github.com/m04kA/SMC-SlotBooking/pkg/metrics"
)

const expiryReason = "payment not settled in time"

// Service сервис жизненного цикла бронирований: отмена, подтверждение оплаты, истечение, выборки
type Service struct {
	repo         ReservationRepository
	notifier     Notifier
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// Option настройка сервиса
type Option func(*Service)

// WithMetrics подключает доменные метрики
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTimeProvider подменяет источник времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *Service) {
		s.timeProvider = tp
	}
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(repo ReservationRepository, notifier Notifier, logger Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID получает бронирование по ID
// Доступно клиенту и автору бронирования
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(res, userID) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res), nil
}

// GetCustomerReservations история бронирований клиента
// Клиент видит только свои бронирования
func (s *Service) GetCustomerReservations(ctx context.Context, req *models.GetCustomerReservationsRequest) ([]*models.ReservationResponse, error) {
	s.logger.Info("GetCustomerReservations: customer=%d, user=%d", req.CustomerID, req.UserID)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerReservations: user=%d requested history of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.ReservationStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	list, err := s.repo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerReservations: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(list), nil
}

// GetCreatorReservations бронирования автора
// Доступно только самому автору
func (s *Service) GetCreatorReservations(ctx context.Context, req *models.GetCreatorReservationsRequest) ([]*models.ReservationResponse, error) {
	s.logger.Info("GetCreatorReservations: creator=%d, user=%d, includeCancelled=%t", req.CreatorID, req.UserID, req.IncludeCancelled)

	if req.UserID != req.CreatorID {
		s.logger.Warn("GetCreatorReservations: user=%d is not creator=%d", req.UserID, req.CreatorID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: dateFrom must be before dateTo", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	list, err := s.repo.ListByCreator(ctx, filter)
	if err != nil {
		s.logger.Error("GetCreatorReservations: repository error for creator=%d: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: GetCreatorReservations - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(list), nil
}

// Cancel отменяет бронирование клиентом или автором
// Повторная отмена возвращает ErrAlreadyTerminal без побочных эффектов
// Интервал освобождается сразу после коммита
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, req.UserID)

	res, err := s.load(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(res, req.UserID) {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if res.IsTerminal() {
		s.logger.Info("Cancel: reservation id=%d is already cancelled", id)
		return nil, ErrAlreadyTerminal
	}

	source := models.CancelledByCustomer
	if res.CreatorID == req.UserID && res.CustomerID != req.UserID {
		source = models.CancelledByCreator
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "cancelled by " + source
	}
	if len(reason) > domain.MaxCancellationReason {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	cancelled, err := s.repo.TransitionStatus(ctx, id, domain.StatusesFrom(domain.StatusCancelled), domain.StatusCancelled, &reason)
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrStatusConflict):
			s.logger.Info("Cancel: reservation id=%d was cancelled concurrently", id)
			return nil, ErrAlreadyTerminal
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.metrics.ReservationCancelled(source)
	s.notifyCancelled(ctx, "Cancel", cancelled)

	s.logger.Info("Cancel: reservation id=%d cancelled by %s", id, source)
	return models.FromDomainReservation(cancelled), nil
}

// ConfirmByPaymentRef подтверждает pending бронирование после успешной оплаты
// Повторное подтверждение не является ошибкой
func (s *Service) ConfirmByPaymentRef(ctx context.Context, ref string) error {
	s.logger.Info("ConfirmByPaymentRef: payment_ref=%s", ref)

	res, err := s.loadByPaymentRef(ctx, "ConfirmByPaymentRef", ref)
	if err != nil {
		return err
	}

	switch res.Status {
	case domain.StatusConfirmed:
		return nil
	case domain.StatusCancelled:
		s.logger.Warn("ConfirmByPaymentRef: reservation id=%d already cancelled, payment_ref=%s needs refund", res.ID, ref)
		return ErrAlreadyTerminal
	}

	confirmed, err := s.repo.TransitionStatus(ctx, res.ID, []domain.ReservationStatus{domain.StatusPending}, domain.StatusConfirmed, nil)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrStatusConflict) {
			current, getErr := s.repo.GetByID(ctx, res.ID)
			if getErr == nil && current.Status == domain.StatusConfirmed {
				return nil
			}
			return ErrAlreadyTerminal
		}
		s.logger.Error("ConfirmByPaymentRef: repository error for reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: ConfirmByPaymentRef - repository error: %w", ErrInternal, err)
	}

	if err := s.notifier.NotifyBookingConfirmed(ctx, confirmed); err != nil {
		s.metrics.SideEffectFailed("notifier")
		s.logger.Warn("ConfirmByPaymentRef: failed to publish confirmation for reservation id=%d: %v", confirmed.ID, err)
	}

	s.logger.Info("ConfirmByPaymentRef: reservation id=%d confirmed", confirmed.ID)
	return nil
}

// CancelByPaymentRef отменяет pending бронирование после неуспешной оплаты
// Подтвержденное бронирование не трогается
func (s *Service) CancelByPaymentRef(ctx context.Context, ref, reason string) error {
	s.logger.Info("CancelByPaymentRef: payment_ref=%s reason=%s", ref, reason)

	res, err := s.loadByPaymentRef(ctx, "CancelByPaymentRef", ref)
	if err != nil {
		return err
	}

	switch res.Status {
	case domain.StatusCancelled:
		return ErrAlreadyTerminal
	case domain.StatusConfirmed:
		s.logger.Warn("CancelByPaymentRef: reservation id=%d is confirmed, ignoring payment failure", res.ID)
		return nil
	}

	cancelled, err := s.repo.TransitionStatus(ctx, res.ID, []domain.ReservationStatus{domain.StatusPending}, domain.StatusCancelled, &reason)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrStatusConflict) {
			return ErrAlreadyTerminal
		}
		s.logger.Error("CancelByPaymentRef: repository error for reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: CancelByPaymentRef - repository error: %w", ErrInternal, err)
	}

	s.metrics.ReservationCancelled(models.CancelledByPayment)
	s.notifyCancelled(ctx, "CancelByPaymentRef", cancelled)
	return nil
}

// ExpirePending отменяет бронирование, если оно все еще pending
// Уже подтвержденные, отмененные и отсутствующие бронирования пропускаются
func (s *Service) ExpirePending(ctx context.Context, id int64) error {
	cancelled, err := s.repo.TransitionStatus(ctx, id, []domain.ReservationStatus{domain.StatusPending}, domain.StatusCancelled, ptrTo(expiryReason))
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrStatusConflict):
			return nil
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			s.logger.Warn("ExpirePending: reservation id=%d not found", id)
			return nil
		}
		s.logger.Error("ExpirePending: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: ExpirePending - repository error: %w", ErrInternal, err)
	}

	s.metrics.PendingExpired(1)
	s.metrics.ReservationCancelled(models.CancelledByExpiry)
	s.notifyCancelled(ctx, "ExpirePending", cancelled)

	s.logger.Info("ExpirePending: reservation id=%d expired", id)
	return nil
}

// SweepExpired отменяет все pending бронирования старше ttl
func (s *Service) SweepExpired(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.timeProvider.Now().Add(-ttl)

	expired, err := s.repo.CancelExpiredPending(ctx, cutoff, expiryReason)
	if err != nil {
		s.logger.Error("SweepExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: SweepExpired - repository error: %w", ErrInternal, err)
	}

	for _, res := range expired {
		s.metrics.ReservationCancelled(models.CancelledByExpiry)
		s.notifyCancelled(ctx, "SweepExpired", res)
	}
	s.metrics.PendingExpired(len(expired))

	return len(expired), nil
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) loadByPaymentRef(ctx context.Context, op, ref string) (*domain.Reservation, error) {
	res, err := s.repo.GetByPaymentRef(ctx, ref)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: no reservation for payment_ref=%s", op, ref)
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) notifyCancelled(ctx context.Context, op string, res *domain.Reservation) {
	if err := s.notifier.NotifyBookingCancelled(ctx, res); err != nil {
		s.metrics.SideEffectFailed("notifier")
		s.logger.Warn("%s: failed to publish cancellation for reservation id=%d: %v", op, res.ID, err)
	}
}

func canAccess(res *domain.Reservation, userID int64) bool {
	return res.CustomerID == userID || res.CreatorID == userID
}

func ptrTo(s string) *string {
	return &s
}
