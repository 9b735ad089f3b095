package pricing

import "github.com/m04kA/SMC-SlotBooking/internal/domain"

// Decision начальный статус бронирования
type Decision struct {
	Status          domain.ReservationStatus
	RequiresPayment bool
}

// Decide бесплатное бронирование подтверждается сразу, платное ждет оплаты
// Отрицательная цена трактуется как бесплатная
func Decide(price float64) Decision {
	if price > 0 {
		return Decision{Status: domain.StatusPending, RequiresPayment: true}
	}
	return Decision{Status: domain.StatusConfirmed}
}
