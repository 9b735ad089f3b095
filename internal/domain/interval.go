package domain

import "time"

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// Соприкасающиеся интервалы (End == other.Start) не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Duration длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// OverlapsAny возвращает true, если интервал пересекается хотя бы с одним из busy
func (i Interval) OverlapsAny(busy []Interval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}
	return false
}

// ActiveIntervals интервалы активных бронирований
func ActiveIntervals(reservations []*Reservation) []Interval {
	intervals := make([]Interval, 0, len(reservations))
	for _, r := range reservations {
		if r == nil || !r.IsActive() {
			continue
		}
		intervals = append(intervals, r.Interval())
	}
	return intervals
}
