package catalog

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда услуга отсутствует в каталоге или снята с публикации
	ErrOfferingNotFound = errors.New("catalog client: offering not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от каталога
	ErrInvalidResponse = errors.New("catalog client: invalid response")

	// ErrUnavailable возвращается, когда каталог недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("catalog client: service unavailable")
)
