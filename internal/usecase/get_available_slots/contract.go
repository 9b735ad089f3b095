package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ReservationRepository интерфейс реестра бронирований
type ReservationRepository interface {
	// ListActiveInRange возвращает pending/confirmed бронирования автора, пересекающие [from, to)
	ListActiveInRange(ctx context.Context, creatorID int64, from, to time.Time) ([]*domain.Reservation, error)
}

// ScheduleStore интерфейс хранилища расписаний доступности
type ScheduleStore interface {
	GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetOffering(ctx context.Context, serviceID int64) (domain.Offering, error)
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
