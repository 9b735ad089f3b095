package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ReservationRepository интерфейс реестра бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByCreator(ctx context.Context, filter domain.CreatorReservationsFilter) ([]*domain.Reservation, error)
	TransitionStatus(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, reason *string) (*domain.Reservation, error)
	CancelExpiredPending(ctx context.Context, cutoff time.Time, reason string) ([]*domain.Reservation, error)
}

// Notifier публикация событий бронирований (fire-and-forget)
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, res *domain.Reservation) error
	NotifyBookingCancelled(ctx context.Context, res *domain.Reservation) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
