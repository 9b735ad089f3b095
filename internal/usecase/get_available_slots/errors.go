package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому автору
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrWindowTooLarge возвращается, когда окно дат длиннее допустимого
	ErrWindowTooLarge = errors.New("date window is too large")

	// ErrServiceUnavailable возвращается, когда каталог услуг временно недоступен
	ErrServiceUnavailable = errors.New("catalog is temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
