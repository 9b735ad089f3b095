package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		wantErr bool
	}{
		{name: "valid", value: "09:30"},
		{name: "midnight", value: "00:00"},
		{name: "end of day", value: "24:00"},
		{name: "single digit hour", value: "9:30", wantErr: true},
		{name: "hour out of range", value: "25:00", wantErr: true},
		{name: "minutes out of range", value: "10:60", wantErr: true},
		{name: "garbage", value: "ab:cd", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("10:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, m)

	m, err = EndOfDay.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1440, m)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	at, err := TimeString("14:30").On(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), at)

	end, err := EndOfDay.On(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), end)
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2025, 1, 1, 7, 5, 0, 0, time.UTC))
	assert.Equal(t, TimeString("07:05"), ts)

	_, err := NewTimeStringFromString("7:05")
	assert.Error(t, err)
}
