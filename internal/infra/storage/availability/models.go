package availability

import (
	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// dayScheduleRow элемент JSONB-колонки weekly_schedule
type dayScheduleRow struct {
	DayOfWeek int            `json:"dayOfWeek"`
	Active    bool           `json:"active"`
	Ranges    []timeRangeRow `json:"ranges"`
}

type timeRangeRow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toRows(days []domain.DaySchedule) []dayScheduleRow {
	rows := make([]dayScheduleRow, 0, len(days))
	for _, d := range days {
		ranges := make([]timeRangeRow, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, timeRangeRow{Start: r.Start.String(), End: r.End.String()})
		}
		rows = append(rows, dayScheduleRow{DayOfWeek: d.DayOfWeek, Active: d.Active, Ranges: ranges})
	}
	return rows
}

func fromRows(rows []dayScheduleRow) []domain.DaySchedule {
	days := make([]domain.DaySchedule, 0, len(rows))
	for _, row := range rows {
		ranges := make([]domain.TimeRange, 0, len(row.Ranges))
		for _, r := range row.Ranges {
			ranges = append(ranges, domain.TimeRange{Start: types.TimeString(r.Start), End: types.TimeString(r.End)})
		}
		days = append(days, domain.DaySchedule{DayOfWeek: row.DayOfWeek, Active: row.Active, Ranges: ranges})
	}
	return days
}
