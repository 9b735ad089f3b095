package availability

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у автора нет расписания
	ErrScheduleNotFound = errors.New("availability.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrEncodeSchedule возвращается при ошибке (де)сериализации недельного расписания
	ErrEncodeSchedule = errors.New("availability.repository: failed to encode weekly schedule")
)
