package payments

import "errors"

var (
	// ErrPaymentRejected провайдер отклонил создание платежа (4xx)
	ErrPaymentRejected = errors.New("payments client: payment intent rejected")

	// ErrUnavailable провайдер недоступен (сеть, 5xx, rate limit)
	ErrUnavailable = errors.New("payments client: provider unavailable")

	// ErrInvalidAmount сумма бронирования не подходит для платежа
	ErrInvalidAmount = errors.New("payments client: invalid amount")
)
