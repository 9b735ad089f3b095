package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ReservationRepository интерфейс реестра бронирований
type ReservationRepository interface {
	ListActiveInRange(ctx context.Context, creatorID int64, from, to time.Time) ([]*domain.Reservation, error)
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	AttachPaymentRef(ctx context.Context, id int64, ref string) error
}

// ScheduleStore интерфейс хранилища расписаний доступности
type ScheduleStore interface {
	GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetOffering(ctx context.Context, serviceID int64) (domain.Offering, error)
}

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, res *domain.Reservation) (*domain.PaymentIntent, error)
}

// Notifier публикация событий бронирований
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, res *domain.Reservation) error
	NotifyBookingPending(ctx context.Context, res *domain.Reservation) error
}

// ExpiryScheduler планирует отмену неоплаченного бронирования
type ExpiryScheduler interface {
	SchedulePendingExpiry(ctx context.Context, reservationID int64, ttl time.Duration) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
