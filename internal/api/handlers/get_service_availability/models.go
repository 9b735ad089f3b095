package get_service_availability

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotBooking/internal/usecase/get_available_slots"
)

// ServiceAvailabilityResponse HTTP response model
type ServiceAvailabilityResponse struct {
	ServiceID       int64  `json:"serviceId"`
	CreatorID       int64  `json:"creatorId"`
	Timezone        string `json:"timezone"`
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot свободный слот окна
type Slot struct {
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Timestamp string `json:"timestamp"` // RFC3339, UTC
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(serviceID int64, dateFrom, dateTo string) (*getAvailableSlots.RangeRequest, error) {
	from, err := time.Parse(domain.DateFormat, dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse(domain.DateFormat, dateTo)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.RangeRequest{
		ServiceID: serviceID,
		DateFrom:  from,
		DateTo:    to,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.RangeResponse) *ServiceAvailabilityResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			Date:      slot.Date.Format(domain.DateFormat),
			Start:     slot.Start.String(),
			End:       slot.End.String(),
			Timestamp: slot.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	return &ServiceAvailabilityResponse{
		ServiceID:       resp.ServiceID,
		CreatorID:       resp.CreatorID,
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
