package get_creator_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// dateFrom и dateTo задаются днями в UTC, dateTo включительно
func ToServiceRequest(
	creatorID int64,
	userID int64,
	dateFromStr string,
	dateToStr string,
	statusStr string,
	includeCancelledStr string,
) (*models.GetCreatorReservationsRequest, error) {
	req := &models.GetCreatorReservationsRequest{
		UserID:    userID,
		CreatorID: creatorID,
	}

	if dateFromStr != "" {
		from, err := time.Parse(domain.DateFormat, dateFromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid dateFrom: %w", err)
		}
		req.From = &from
	}

	if dateToStr != "" {
		to, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			return nil, fmt.Errorf("invalid dateTo: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		include, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
