package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// daySlots свободные слоты локального дня автора
// Отключенное бронирование, неактивный день и день за горизонтом дают пустой список
func daySlots(
	schedule *domain.AvailabilitySchedule,
	day time.Time,
	duration time.Duration,
	busy []domain.Interval,
	now time.Time,
) []domain.Slot {
	if !schedule.IsBookingEnabled || schedule.IsBeyondHorizon(day, now) {
		return nil
	}

	ranges := schedule.RangesFor(day.Weekday())
	if len(ranges) == 0 {
		return nil
	}

	return domain.GenerateSlots(domain.SlotInput{
		Day:       day,
		Ranges:    ranges,
		Duration:  duration,
		Buffer:    schedule.Buffer(),
		Busy:      busy,
		NotBefore: schedule.BookableFrom(now),
	})
}

// dayBounds границы локального дня [start, end); AddDate корректно проходит переход на летнее время
func dayBounds(day time.Time) (time.Time, time.Time) {
	return day, day.AddDate(0, 0, 1)
}

// civilDate отбрасывает время и часовой пояс
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// wallClockEnd конец слота в HH:MM; слот, заканчивающийся в полночь следующего дня, дает "24:00"
func wallClockEnd(day, end time.Time) types.TimeString {
	_, next := dayBounds(day)
	if end.Equal(next) {
		return types.EndOfDay
	}
	return types.NewTimeString(end.In(day.Location()))
}
