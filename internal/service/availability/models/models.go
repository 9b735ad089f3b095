package models

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Request модели

// TimeRange диапазон внутри дня
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// DaySchedule расписание дня недели
type DaySchedule struct {
	DayOfWeek int         `json:"dayOfWeek"` // 0 - воскресенье
	Active    bool        `json:"active"`
	Ranges    []TimeRange `json:"ranges"`
}

// UpdateScheduleRequest запрос на изменение расписания
// Все поля опциональны - обновляются только переданные значения
// WeeklySchedule заменяется целиком
type UpdateScheduleRequest struct {
	UserID                     int64         `json:"-"`
	CreatorID                  int64         `json:"-"`
	IsBookingEnabled           *bool         `json:"isBookingEnabled,omitempty"`
	DefaultSlotDurationMinutes *int          `json:"defaultSlotDurationMinutes,omitempty"`
	BufferMinutes              *int          `json:"bufferMinutes,omitempty"`
	MinNoticeMinutes           *int          `json:"minNoticeMinutes,omitempty"`
	MaxAdvanceDays             *int          `json:"maxAdvanceDays,omitempty"` // 0 = без ограничений
	Timezone                   *string       `json:"timezone,omitempty"`
	WeeklySchedule             []DaySchedule `json:"weeklySchedule,omitempty"`
}

// ApplyTo применяет обновления к расписанию
func (r *UpdateScheduleRequest) ApplyTo(s *domain.AvailabilitySchedule) {
	if r.IsBookingEnabled != nil {
		s.IsBookingEnabled = *r.IsBookingEnabled
	}
	if r.DefaultSlotDurationMinutes != nil {
		s.DefaultSlotDurationMinutes = *r.DefaultSlotDurationMinutes
	}
	if r.BufferMinutes != nil {
		s.BufferMinutes = *r.BufferMinutes
	}
	if r.MinNoticeMinutes != nil {
		s.MinNoticeMinutes = *r.MinNoticeMinutes
	}
	if r.MaxAdvanceDays != nil {
		s.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.Timezone != nil {
		s.Timezone = *r.Timezone
	}
	if r.WeeklySchedule != nil {
		s.WeeklySchedule = toDomainDays(r.WeeklySchedule)
	}
}

// Response модели

// ScheduleResponse расписание доступности автора
type ScheduleResponse struct {
	CreatorID                  int64         `json:"creatorId"`
	IsBookingEnabled           bool          `json:"isBookingEnabled"`
	DefaultSlotDurationMinutes int           `json:"defaultSlotDurationMinutes"`
	BufferMinutes              int           `json:"bufferMinutes"`
	MinNoticeMinutes           int           `json:"minNoticeMinutes"`
	MaxAdvanceDays             int           `json:"maxAdvanceDays"`
	Timezone                   string        `json:"timezone"`
	WeeklySchedule             []DaySchedule `json:"weeklySchedule"`
	CreatedAt                  time.Time     `json:"createdAt"`
	UpdatedAt                  time.Time     `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.AvailabilitySchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	days := make([]DaySchedule, 0, len(s.WeeklySchedule))
	for _, d := range s.WeeklySchedule {
		ranges := make([]TimeRange, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, TimeRange{Start: r.Start, End: r.End})
		}
		days = append(days, DaySchedule{DayOfWeek: d.DayOfWeek, Active: d.Active, Ranges: ranges})
	}

	return &ScheduleResponse{
		CreatorID:                  s.CreatorID,
		IsBookingEnabled:           s.IsBookingEnabled,
		DefaultSlotDurationMinutes: s.DefaultSlotDurationMinutes,
		BufferMinutes:              s.BufferMinutes,
		MinNoticeMinutes:           s.MinNoticeMinutes,
		MaxAdvanceDays:             s.MaxAdvanceDays,
		Timezone:                   s.Timezone,
		WeeklySchedule:             days,
		CreatedAt:                  s.CreatedAt,
		UpdatedAt:                  s.UpdatedAt,
	}
}

// Defaults значения, с которых начинается первое сохранение расписания
type Defaults struct {
	SlotDurationMinutes int
	BufferMinutes       int
	Timezone            string
}

// BuiltinDefaults значения по умолчанию без конфигурации
var BuiltinDefaults = Defaults{
	SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
	BufferMinutes:       domain.DefaultBufferMinutes,
	Timezone:            domain.DefaultTimezone,
}

// NewSchedule выключенное расписание без рабочих дней
func (d Defaults) NewSchedule(creatorID int64) *domain.AvailabilitySchedule {
	return &domain.AvailabilitySchedule{
		CreatorID:                  creatorID,
		IsBookingEnabled:           false,
		DefaultSlotDurationMinutes: d.SlotDurationMinutes,
		BufferMinutes:              d.BufferMinutes,
		Timezone:                   d.Timezone,
		WeeklySchedule:             []domain.DaySchedule{},
	}
}

func toDomainDays(days []DaySchedule) []domain.DaySchedule {
	out := make([]domain.DaySchedule, 0, len(days))
	for _, d := range days {
		ranges := make([]domain.TimeRange, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, domain.TimeRange{Start: r.Start, End: r.End})
		}
		out = append(out, domain.DaySchedule{DayOfWeek: d.DayOfWeek, Active: d.Active, Ranges: ranges})
	}
	return out
}
