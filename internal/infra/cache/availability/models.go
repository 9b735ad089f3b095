package availability

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

type cachedSchedule struct {
	CreatorID                  int64       `json:"creatorId"`
	IsBookingEnabled           bool        `json:"isBookingEnabled"`
	DefaultSlotDurationMinutes int         `json:"defaultSlotDurationMinutes"`
	BufferMinutes              int         `json:"bufferMinutes"`
	MinNoticeMinutes           int         `json:"minNoticeMinutes"`
	MaxAdvanceDays             int         `json:"maxAdvanceDays"`
	Timezone                   string      `json:"timezone"`
	WeeklySchedule             []cachedDay `json:"weeklySchedule"`
	UpdatedAt                  time.Time   `json:"updatedAt"`
}

type cachedDay struct {
	DayOfWeek int         `json:"dayOfWeek"`
	Active    bool        `json:"active"`
	Ranges    [][2]string `json:"ranges"`
}

func fromDomain(s *domain.AvailabilitySchedule) cachedSchedule {
	days := make([]cachedDay, 0, len(s.WeeklySchedule))
	for _, d := range s.WeeklySchedule {
		ranges := make([][2]string, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, [2]string{r.Start.String(), r.End.String()})
		}
		days = append(days, cachedDay{DayOfWeek: d.DayOfWeek, Active: d.Active, Ranges: ranges})
	}

	return cachedSchedule{
		CreatorID:                  s.CreatorID,
		IsBookingEnabled:           s.IsBookingEnabled,
		DefaultSlotDurationMinutes: s.DefaultSlotDurationMinutes,
		BufferMinutes:              s.BufferMinutes,
		MinNoticeMinutes:           s.MinNoticeMinutes,
		MaxAdvanceDays:             s.MaxAdvanceDays,
		Timezone:                   s.Timezone,
		WeeklySchedule:             days,
		UpdatedAt:                  s.UpdatedAt,
	}
}

func (c cachedSchedule) toDomain() *domain.AvailabilitySchedule {
	days := make([]domain.DaySchedule, 0, len(c.WeeklySchedule))
	for _, d := range c.WeeklySchedule {
		ranges := make([]domain.TimeRange, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, domain.TimeRange{Start: types.TimeString(r[0]), End: types.TimeString(r[1])})
		}
		days = append(days, domain.DaySchedule{DayOfWeek: d.DayOfWeek, Active: d.Active, Ranges: ranges})
	}

	return &domain.AvailabilitySchedule{
		CreatorID:                  c.CreatorID,
		IsBookingEnabled:           c.IsBookingEnabled,
		DefaultSlotDurationMinutes: c.DefaultSlotDurationMinutes,
		BufferMinutes:              c.BufferMinutes,
		MinNoticeMinutes:           c.MinNoticeMinutes,
		MaxAdvanceDays:             c.MaxAdvanceDays,
		Timezone:                   c.Timezone,
		WeeklySchedule:             days,
		UpdatedAt:                  c.UpdatedAt,
	}
}
