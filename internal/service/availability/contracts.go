package availability

import (
	"context"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// ScheduleStore интерфейс хранилища расписаний доступности (репозиторий или кэш поверх него)
type ScheduleStore interface {
	GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error)
	Upsert(ctx context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
