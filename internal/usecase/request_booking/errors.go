package request_booking

import "errors"

var (
	// ErrSlotConflict возвращается, когда интервал уже занят другим активным бронированием
	ErrSlotConflict = errors.New("request_booking: slot is already taken")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому автору
	ErrServiceNotFound = errors.New("request_booking: service not found")

	// ErrBookingDisabled возвращается, когда автор не принимает бронирования
	ErrBookingDisabled = errors.New("request_booking: creator does not accept bookings")

	// ErrInvalidTimeSlot возвращается, когда интервал не совпадает ни с одним слотом расписания
	ErrInvalidTimeSlot = errors.New("request_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот начинается раньше now + minNotice
	ErrTooLateToBook = errors.New("request_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда день превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("request_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrTransientFailure возвращается, когда хранилище или каталог временно недоступны; запрос можно повторить
	ErrTransientFailure = errors.New("request_booking: temporary failure, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_booking: internal error")
)
