package request_booking

import (
	"time"

	requestBooking "github.com/m04kA/SMC-SlotBooking/internal/usecase/request_booking"
)

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	CreatorID int64      `json:"creatorId"`
	ServiceID int64      `json:"serviceId"`
	StartTime time.Time  `json:"startTime"`         // RFC3339
	EndTime   *time.Time `json:"endTime,omitempty"` // RFC3339, должен совпадать с startTime + длительность
	Customer  Customer   `json:"customer"`
}

// Customer контактные данные клиента
type Customer struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID       int64    `json:"bookingId"`
	CreatorID       int64    `json:"creatorId"`
	ServiceID       int64    `json:"serviceId"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	Confirmed       bool     `json:"confirmed"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency,omitempty"`
	Payment         *Payment `json:"payment,omitempty"`
	Degraded        bool     `json:"degraded"`
	Warnings        []string `json:"warnings"`
	CreatedAt       string   `json:"createdAt"`
}

// Payment данные для оплаты на клиенте
type Payment struct {
	Ref          string `json:"ref"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestBookingRequest) ToUseCaseRequest(userID int64) *requestBooking.Request {
	return &requestBooking.Request{
		UserID:    userID,
		CreatorID: r.CreatorID,
		ServiceID: r.ServiceID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Customer: requestBooking.Customer{
			Email: r.Customer.Email,
			Name:  r.Customer.Name,
			Notes: r.Customer.Notes,
		},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *BookingResponse {
	out := &BookingResponse{
		BookingID:       resp.ID,
		CreatorID:       resp.CreatorID,
		ServiceID:       resp.ServiceID,
		StartTime:       resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:         resp.EndTime.UTC().Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Confirmed:       resp.Confirmed,
		Price:           resp.Price,
		Currency:        resp.Currency,
		Degraded:        resp.Degraded,
		Warnings:        resp.Warnings,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}

	if resp.Payment != nil {
		out.Payment = &Payment{
			Ref:          resp.Payment.Ref,
			ClientSecret: resp.Payment.ClientSecret,
			Amount:       resp.Payment.Amount,
			Currency:     resp.Payment.Currency,
		}
	}

	return out
}
