package availability

import (
	"context"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
	"github.com/m04kA/SMC-SlotBooking/pkg/ptr"
)

func newService() *Service {
	return NewService(memory.NewScheduleStore(), logger.NewNop())
}

func weekdays() []models.DaySchedule {
	return []models.DaySchedule{
		{DayOfWeek: 1, Active: true, Ranges: []models.TimeRange{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}},
		{DayOfWeek: 2, Active: true, Ranges: []models.TimeRange{{Start: "09:00", End: "24:00"}}},
		{DayOfWeek: 0, Active: false},
	}
}

func TestService_Get_NotFound(t *testing.T) {
	_, err := newService().Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestService_Update_CreatesFromDefaultsThenPatches(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Update(ctx, &models.UpdateScheduleRequest{
		UserID:           1,
		CreatorID:        1,
		IsBookingEnabled: ptr.Ptr(true),
		Timezone:         ptr.Ptr("Europe/Berlin"),
		WeeklySchedule:   weekdays(),
	})
	require.NoError(t, err)
	assert.True(t, created.IsBookingEnabled)
	assert.Equal(t, 30, created.DefaultSlotDurationMinutes)
	assert.Equal(t, 15, created.BufferMinutes)
	assert.Len(t, created.WeeklySchedule, 3)

	patched, err := svc.Update(ctx, &models.UpdateScheduleRequest{
		UserID:        1,
		CreatorID:     1,
		BufferMinutes: ptr.Ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, patched.BufferMinutes)
	assert.Equal(t, "Europe/Berlin", patched.Timezone)
	assert.Len(t, patched.WeeklySchedule, 3, "schedule is kept when not sent")

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, patched.BufferMinutes, got.BufferMinutes)
}

func TestService_Update_AccessDenied(t *testing.T) {
	_, err := newService().Update(context.Background(), &models.UpdateScheduleRequest{UserID: 2, CreatorID: 1})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Update_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateScheduleRequest
	}{
		{name: "duration too short", req: models.UpdateScheduleRequest{DefaultSlotDurationMinutes: ptr.Ptr(4)}},
		{name: "duration too long", req: models.UpdateScheduleRequest{DefaultSlotDurationMinutes: ptr.Ptr(481)}},
		{name: "negative buffer", req: models.UpdateScheduleRequest{BufferMinutes: ptr.Ptr(-1)}},
		{name: "notice too long", req: models.UpdateScheduleRequest{MinNoticeMinutes: ptr.Ptr(10081)}},
		{name: "horizon too far", req: models.UpdateScheduleRequest{MaxAdvanceDays: ptr.Ptr(366)}},
		{name: "unknown timezone", req: models.UpdateScheduleRequest{Timezone: ptr.Ptr("Mars/Olympus")}},
		{name: "day out of range", req: models.UpdateScheduleRequest{WeeklySchedule: []models.DaySchedule{{DayOfWeek: 7, Active: true}}}},
		{name: "duplicate day", req: models.UpdateScheduleRequest{WeeklySchedule: []models.DaySchedule{{DayOfWeek: 1}, {DayOfWeek: 1}}}},
		{name: "inverted range", req: models.UpdateScheduleRequest{WeeklySchedule: []models.DaySchedule{
			{DayOfWeek: 1, Active: true, Ranges: []models.TimeRange{{Start: "12:00", End: "09:00"}}},
		}}},
		{name: "malformed time", req: models.UpdateScheduleRequest{WeeklySchedule: []models.DaySchedule{
			{DayOfWeek: 1, Active: true, Ranges: []models.TimeRange{{Start: "9:00", End: "12:00"}}},
		}}},
		{name: "overlapping ranges", req: models.UpdateScheduleRequest{WeeklySchedule: []models.DaySchedule{
			{DayOfWeek: 1, Active: true, Ranges: []models.TimeRange{{Start: "09:00", End: "12:00"}, {Start: "11:00", End: "13:00"}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.UserID, req.CreatorID = 1, 1
			_, err := newService().Update(context.Background(), &req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update_UsesConfiguredDefaults(t *testing.T) {
	svc := NewService(memory.NewScheduleStore(), logger.NewNop(), WithDefaults(models.Defaults{
		SlotDurationMinutes: 50,
		BufferMinutes:       10,
		Timezone:            "Asia/Kolkata",
	}))

	created, err := svc.Update(context.Background(), &models.UpdateScheduleRequest{UserID: 4, CreatorID: 4})
	require.NoError(t, err)
	assert.False(t, created.IsBookingEnabled)
	assert.Equal(t, 50, created.DefaultSlotDurationMinutes)
	assert.Equal(t, 10, created.BufferMinutes)
	assert.Equal(t, "Asia/Kolkata", created.Timezone)
}
