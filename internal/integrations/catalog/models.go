package catalog

import (
	"fmt"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// Offering модель услуги из каталога
type Offering struct {
	ID              int64   `json:"id"`
	CreatorID       int64   `json:"creator_id"`
	Kind            string  `json:"kind"` // session | cohort
	Name            string  `json:"name"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Active          bool    `json:"active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toDomain выбирает вариант услуги по kind
func (o *Offering) toDomain() (domain.Offering, error) {
	switch domain.OfferingKind(o.Kind) {
	case domain.OfferingKindSession, "":
		return &domain.SessionOffering{
			ID:              o.ID,
			CreatorID:       o.CreatorID,
			Name:            o.Name,
			DurationMinutes: o.DurationMinutes,
			Amount:          o.Price,
			CurrencyCode:    o.Currency,
		}, nil
	case domain.OfferingKindCohort:
		if o.DurationMinutes == nil || *o.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: cohort offering id=%d has no session length", ErrInvalidResponse, o.ID)
		}
		return &domain.CohortSlotOffering{
			ID:             o.ID,
			CreatorID:      o.CreatorID,
			Name:           o.Name,
			SessionMinutes: *o.DurationMinutes,
			Amount:         o.Price,
			CurrencyCode:   o.Currency,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown offering kind %q", ErrInvalidResponse, o.Kind)
	}
}
