package get_availability

import (
	"context"

	"github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	Get(ctx context.Context, creatorID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
