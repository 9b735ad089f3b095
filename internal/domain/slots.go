package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Slot свободный интервал для бронирования
type Slot struct {
	Start time.Time
	End   time.Time
}

// SlotInput параметры обхода одного дня
type SlotInput struct {
	Day       time.Time // любая точка локального дня автора, Location задает часовой пояс
	Ranges    []TimeRange
	Duration  time.Duration
	Buffer    time.Duration
	Busy      []Interval
	NotBefore time.Time // слоты, начинающиеся раньше, не предлагаются; нулевое значение - без ограничения
}

// GenerateSlots обходит диапазоны дня в порядке расписания
// Кандидат [cur, cur+Duration) выдается, если помещается в диапазон и не пересекает занятые интервалы
// Курсор всегда сдвигается на Duration+Buffer, независимо от того, был ли слот выдан
func GenerateSlots(in SlotInput) []Slot {
	slots := make([]Slot, 0)
	if in.Duration <= 0 {
		return slots
	}

	walkDay(in.Day, in.Ranges, in.Duration, in.Buffer, func(start, end time.Time) bool {
		if !in.NotBefore.IsZero() && start.Before(in.NotBefore) {
			return true
		}
		candidate := Interval{Start: start, End: end}
		if !candidate.OverlapsAny(in.Busy) {
			slots = append(slots, Slot{Start: start, End: end})
		}
		return true
	})

	return slots
}

// IsOnSlotGrid проверяет, что интервал [start, start+duration) совпадает с одним из кандидатов обхода дня
func IsOnSlotGrid(day time.Time, ranges []TimeRange, duration, buffer time.Duration, start time.Time) bool {
	if duration <= 0 {
		return false
	}
	found := false
	walkDay(day, ranges, duration, buffer, func(candidate, _ time.Time) bool {
		if candidate.Equal(start) {
			found = true
			return false
		}
		return true
	})
	return found
}

// walkDay вызывает fn для каждого кандидата; fn возвращает false, чтобы остановить обход
// Диапазоны с некорректным временем или start >= end пропускаются
func walkDay(day time.Time, ranges []TimeRange, duration, buffer time.Duration, fn func(start, end time.Time) bool) {
	step := duration + buffer
	if step <= 0 {
		step = duration
	}
	for _, r := range ranges {
		rangeStart, err := r.Start.On(day)
		if err != nil {
			continue
		}
		rangeEnd, err := r.End.On(day)
		if err != nil || !rangeStart.Before(rangeEnd) {
			continue
		}

		for cur := rangeStart; !cur.Add(duration).After(rangeEnd); cur = cur.Add(step) {
			if !fn(cur, cur.Add(duration)) {
				return
			}
		}
	}
}

// FormatSlots переводит начала слотов в HH:MM в часовом поясе loc
func FormatSlots(slots []Slot, loc *time.Location) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		result = append(result, types.NewTimeString(s.Start.In(loc)))
	}
	return result
}
