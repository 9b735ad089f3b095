package domain

// Значения по умолчанию
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 15
	DefaultTimezone            = "UTC"
	DefaultPendingTTLMinutes   = 15
)

// Бизнес-ограничения
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MaxBufferMinutes       = 240
	MaxMinNoticeMinutes    = 10080 // неделя
	MaxAdvanceDays         = 365
	MaxWindowDays          = 31
	MaxNotesLength         = 1000
	MaxCustomerNameLength  = 200
	MaxCancellationReason  = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие интервал в реестре
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
