package domain

import "time"

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid возвращает true для известных статусов
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CustomerInfo контактные данные клиента, в расчёте слотов не участвуют
type CustomerInfo struct {
	Email string
	Name  string
	Notes *string
}

// Reservation бронирование интервала [StartTime, EndTime) у автора
type Reservation struct {
	ID         int64
	CreatorID  int64
	CustomerID int64
	ServiceID  int64
	StartTime  time.Time
	EndTime    time.Time
	Status     ReservationStatus
	Customer   CustomerInfo

	// Цена фиксируется на момент бронирования
	Price    float64
	Currency string

	LinkedPaymentRef   *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает интервал
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal возвращает true для отменённых бронирований
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled
}

// CanTransitionTo проверяет переход статуса
// Допустимы только pending -> confirmed, pending -> cancelled, confirmed -> cancelled
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	return CanTransition(r.Status, next)
}

// Interval возвращает занимаемый интервал
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// CanTransition таблица переходов статусов
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// StatusesFrom возвращает статусы, из которых возможен переход в to
func StatusesFrom(to ReservationStatus) []ReservationStatus {
	from := make([]ReservationStatus, 0, 2)
	for _, s := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCancelled} {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// CreatorReservationsFilter фильтр бронирований автора
type CreatorReservationsFilter struct {
	CreatorID        int64              // Обязательный параметр
	From             *time.Time         // Начало периода, включительно
	To               *time.Time         // Конец периода, не включительно
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые
}

// PaymentIntent результат создания платежа у платёжного провайдера
type PaymentIntent struct {
	Ref          string
	ClientSecret string
	Amount       int64 // в минимальных единицах валюты
	Currency     string
}
