package availability

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда автор еще не настроил расписание
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrAccessDenied возвращается, когда пользователь меняет чужое расписание
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
