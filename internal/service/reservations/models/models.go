package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Источники отмены
const (
	CancelledByCustomer = "customer"
	CancelledByCreator  = "creator"
	CancelledByPayment  = "payment"
	CancelledByExpiry   = "expiry"
)

// Request модели

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	UserID int64
	Reason string
}

// GetCustomerReservationsRequest запрос истории бронирований клиента
type GetCustomerReservationsRequest struct {
	UserID     int64
	CustomerID int64
	Status     *string
}

// GetCreatorReservationsRequest запрос бронирований автора
type GetCreatorReservationsRequest struct {
	UserID           int64
	CreatorID        int64
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода, не включительно (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCreatorReservationsRequest) ToDomainFilter() (domain.CreatorReservationsFilter, error) {
	filter := domain.CreatorReservationsFilter{
		CreatorID:        r.CreatorID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse данные бронирования
type ReservationResponse struct {
	ID                 int64      `json:"id"`
	CreatorID          int64      `json:"creatorId"`
	CustomerID         int64      `json:"customerId"`
	ServiceID          int64      `json:"serviceId"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	Status             string     `json:"status"`
	CustomerEmail      string     `json:"customerEmail"`
	CustomerName       string     `json:"customerName"`
	Notes              *string    `json:"notes,omitempty"`
	Price              float64    `json:"price"`
	Currency           string     `json:"currency,omitempty"`
	PaymentRef         *string    `json:"paymentRef,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:                 r.ID,
		CreatorID:          r.CreatorID,
		CustomerID:         r.CustomerID,
		ServiceID:          r.ServiceID,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Status:             string(r.Status),
		CustomerEmail:      r.Customer.Email,
		CustomerName:       r.Customer.Name,
		Notes:              r.Customer.Notes,
		Price:              r.Price,
		Currency:           r.Currency,
		PaymentRef:         r.LinkedPaymentRef,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		if resp := FromDomainReservation(r); resp != nil {
			out = append(out, resp)
		}
	}
	return out
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
