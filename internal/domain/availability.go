package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// TimeRange диапазон доступности внутри дня [Start, End), настенное время автора
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// DaySchedule расписание на день недели (0 - воскресенье)
type DaySchedule struct {
	DayOfWeek int
	Active    bool
	Ranges    []TimeRange
}

// AvailabilitySchedule настройки доступности автора
type AvailabilitySchedule struct {
	CreatorID                  int64
	IsBookingEnabled           bool
	DefaultSlotDurationMinutes int
	BufferMinutes              int
	MinNoticeMinutes           int
	MaxAdvanceDays             int // 0 - без ограничения
	Timezone                   string
	WeeklySchedule             []DaySchedule
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Location часовой пояс автора, при ошибке - UTC
func (s *AvailabilitySchedule) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RangesFor возвращает диапазоны активного дня недели в порядке расписания
// Неактивный или отсутствующий день дает nil
func (s *AvailabilitySchedule) RangesFor(weekday time.Weekday) []TimeRange {
	for _, day := range s.WeeklySchedule {
		if day.DayOfWeek != int(weekday) {
			continue
		}
		if !day.Active {
			return nil
		}
		return day.Ranges
	}
	return nil
}

// Buffer пауза между слотами
func (s *AvailabilitySchedule) Buffer() time.Duration {
	return time.Duration(s.BufferMinutes) * time.Minute
}

// MinNotice минимальное время до начала слота
func (s *AvailabilitySchedule) MinNotice() time.Duration {
	return time.Duration(s.MinNoticeMinutes) * time.Minute
}

// LocalDay полночь календарного дня date в часовом поясе автора
func (s *AvailabilitySchedule) LocalDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.Location())
}

// BookableFrom самое раннее допустимое начало слота
func (s *AvailabilitySchedule) BookableFrom(now time.Time) time.Time {
	return now.Add(s.MinNotice())
}

// IsBeyondHorizon проверяет, что локальный день позже now + MaxAdvanceDays
func (s *AvailabilitySchedule) IsBeyondHorizon(day, now time.Time) bool {
	if s.MaxAdvanceDays <= 0 {
		return false
	}
	today := s.LocalDay(now.In(s.Location()))
	return s.LocalDay(day).After(today.AddDate(0, 0, s.MaxAdvanceDays))
}
