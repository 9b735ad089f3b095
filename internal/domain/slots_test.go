package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

func at(day time.Time, hhmm string) time.Time {
	t, err := types.TimeString(hhmm).On(day)
	if err != nil {
		panic(err)
	}
	return t
}

func startsOf(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format(TimeFormat))
	}
	return out
}

func TestGenerateSlots_BufferSpacing(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "09:00", End: "11:00"}},
		Duration: 30 * time.Minute,
		Buffer:   15 * time.Minute,
	})

	assert.Equal(t, []string{"09:00", "09:45", "10:30"}, startsOf(slots))
}

func TestGenerateSlots_HalfOpenBoundaries(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	busy := []Interval{{Start: at(day, "10:00"), End: at(day, "10:30")}}

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "09:30", End: "11:00"}},
		Duration: 30 * time.Minute,
		Busy:     busy,
	})

	assert.Equal(t, []string{"09:30", "10:30"}, startsOf(slots))
}

func TestGenerateSlots_BusySlotStillConsumesStep(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	busy := []Interval{{Start: at(day, "09:45"), End: at(day, "10:15")}}

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "09:00", End: "11:00"}},
		Duration: 30 * time.Minute,
		Buffer:   15 * time.Minute,
		Busy:     busy,
	})

	assert.Equal(t, []string{"09:00", "10:30"}, startsOf(slots))
}

func TestGenerateSlots_RangesInScheduleOrderWithoutMerging(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(SlotInput{
		Day: day,
		Ranges: []TimeRange{
			{Start: "14:00", End: "15:00"},
			{Start: "09:00", End: "10:00"},
			{Start: "09:30", End: "10:00"},
		},
		Duration: 30 * time.Minute,
	})

	assert.Equal(t, []string{"14:00", "14:30", "09:00", "09:30", "09:30"}, startsOf(slots))
}

func TestGenerateSlots_NoPartialTrailingSlot(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "09:00", End: "10:20"}},
		Duration: 30 * time.Minute,
	})

	assert.Equal(t, []string{"09:00", "09:30"}, startsOf(slots))
}

func TestGenerateSlots_EndOfDayRange(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "23:00", End: types.EndOfDay}},
		Duration: 30 * time.Minute,
	})

	assert.Equal(t, []string{"23:00", "23:30"}, startsOf(slots))
}

func TestGenerateSlots_NotBefore(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(SlotInput{
		Day:       day,
		Ranges:    []TimeRange{{Start: "09:00", End: "11:00"}},
		Duration:  30 * time.Minute,
		NotBefore: at(day, "09:50"),
	})

	assert.Equal(t, []string{"10:00", "10:30"}, startsOf(slots))
}

func TestGenerateSlots_CreatorLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	// Бронирование 04:00-04:30 UTC = 09:30-10:00 IST
	busy := []Interval{{
		Start: time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC),
	}}

	slots := GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "09:00", End: "10:30"}},
		Duration: 30 * time.Minute,
		Busy:     busy,
	})

	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, FormatSlots(slots, loc))
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, GenerateSlots(SlotInput{Day: day, Ranges: []TimeRange{{Start: "09:00", End: "10:00"}}}))
	assert.Empty(t, GenerateSlots(SlotInput{
		Day:      day,
		Ranges:   []TimeRange{{Start: "10:00", End: "09:00"}, {Start: "9:00", End: "10:00"}},
		Duration: 30 * time.Minute,
	}))
}

func TestIsOnSlotGrid(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	ranges := []TimeRange{{Start: "09:00", End: "11:00"}}

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{name: "first slot", start: "09:00", want: true},
		{name: "after buffer", start: "09:45", want: true},
		{name: "last slot", start: "10:30", want: true},
		{name: "between grid points", start: "09:30", want: false},
		{name: "outside range", start: "11:15", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsOnSlotGrid(day, ranges, 30*time.Minute, 15*time.Minute, at(day, tt.start))
			assert.Equal(t, tt.want, got)
		})
	}
}
