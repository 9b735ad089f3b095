package events

import "time"

// Ключи маршрутизации
const (
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingPending   = "booking.pending"
	KeyBookingCancelled = "booking.cancelled"

	KeyPaymentSucceeded = "payment.succeeded"
	KeyPaymentFailed    = "payment.failed"
)

const eventVersion = 1

// BookingEvent событие жизненного цикла бронирования
type BookingEvent struct {
	Event   string      `json:"event"`
	Version int         `json:"version"`
	Data    BookingData `json:"data"`
}

type BookingData struct {
	ReservationID      int64     `json:"reservation_id"`
	CreatorID          int64     `json:"creator_id"`
	CustomerID         int64     `json:"customer_id"`
	ServiceID          int64     `json:"service_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Status             string    `json:"status"`
	CustomerEmail      string    `json:"customer_email"`
	CustomerName       string    `json:"customer_name"`
	Price              float64   `json:"price"`
	Currency           string    `json:"currency"`
	PaymentRef         string    `json:"payment_ref,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
}

// PaymentSettlement событие от платёжного сервиса
type PaymentSettlement struct {
	Event   string `json:"event"`
	Version int    `json:"version"`
	Data    struct {
		PaymentRef    string `json:"payment_ref"`
		ReservationID int64  `json:"reservation_id,omitempty"`
		Reason        string `json:"reason,omitempty"`
	} `json:"data"`
}
