package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusesFrom(t *testing.T) {
	assert.Equal(t, []ReservationStatus{StatusPending, StatusConfirmed}, StatusesFrom(StatusCancelled))
	assert.Equal(t, []ReservationStatus{StatusPending}, StatusesFrom(StatusConfirmed))
	assert.Empty(t, StatusesFrom(StatusPending))
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	r := Interval{Start: base, End: base.Add(30 * time.Minute)}

	assert.False(t, r.Overlaps(Interval{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)}))
	assert.False(t, r.Overlaps(Interval{Start: base.Add(-30 * time.Minute), End: base}))
	assert.True(t, r.Overlaps(Interval{Start: base.Add(-10 * time.Minute), End: base.Add(10 * time.Minute)}))
	assert.True(t, r.Overlaps(Interval{Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute)}))
	assert.True(t, r.Overlaps(r))
}

func TestActiveIntervals_SkipsCancelled(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	reservations := []*Reservation{
		{StartTime: base, EndTime: base.Add(time.Hour), Status: StatusConfirmed},
		{StartTime: base, EndTime: base.Add(time.Hour), Status: StatusCancelled},
		{StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), Status: StatusPending},
		nil,
	}

	assert.Len(t, ActiveIntervals(reservations), 2)
}

func TestResolveDuration(t *testing.T) {
	sixty := 60
	assert.Equal(t, time.Hour, ResolveDuration(&SessionOffering{DurationMinutes: &sixty}, 30))
	assert.Equal(t, 30*time.Minute, ResolveDuration(&SessionOffering{}, 30))
	assert.Equal(t, 90*time.Minute, ResolveDuration(&CohortSlotOffering{SessionMinutes: 90}, 30))
	assert.Equal(t, 45*time.Minute, ResolveDuration(nil, 45))
	assert.Equal(t, 30*time.Minute, ResolveDuration(nil, 0))
}

func TestAvailabilitySchedule_RangesFor(t *testing.T) {
	s := &AvailabilitySchedule{
		WeeklySchedule: []DaySchedule{
			{DayOfWeek: 0, Active: false, Ranges: []TimeRange{{Start: "10:00", End: "12:00"}}},
			{DayOfWeek: 1, Active: true, Ranges: []TimeRange{{Start: "09:00", End: "17:00"}}},
		},
	}

	assert.Nil(t, s.RangesFor(time.Sunday))
	assert.Len(t, s.RangesFor(time.Monday), 1)
	assert.Nil(t, s.RangesFor(time.Tuesday))
}

func TestAvailabilitySchedule_IsBeyondHorizon(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := &AvailabilitySchedule{Timezone: "UTC", MaxAdvanceDays: 7}

	assert.False(t, s.IsBeyondHorizon(now.AddDate(0, 0, 7), now))
	assert.True(t, s.IsBeyondHorizon(now.AddDate(0, 0, 8), now))

	s.MaxAdvanceDays = 0
	assert.False(t, s.IsBeyondHorizon(now.AddDate(1, 0, 0), now))
}
