package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/psqlbuilder"
)

const table = "availability_schedules"

// Repository хранилище расписаний доступности авторов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCreatorID получает расписание автора
func (r *Repository) GetByCreatorID(ctx context.Context, creatorID int64) (*domain.AvailabilitySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"creator_id",
		"is_booking_enabled",
		"default_slot_duration_minutes",
		"buffer_minutes",
		"min_notice_minutes",
		"max_advance_days",
		"timezone",
		"weekly_schedule",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"creator_id": creatorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCreatorID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		schedule domain.AvailabilitySchedule
		weekly   []byte
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.CreatorID,
		&schedule.IsBookingEnabled,
		&schedule.DefaultSlotDurationMinutes,
		&schedule.BufferMinutes,
		&schedule.MinNoticeMinutes,
		&schedule.MaxAdvanceDays,
		&schedule.Timezone,
		&weekly,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCreatorID - scan schedule: %w", ErrScanRow, err)
	}

	var rows []dayScheduleRow
	if len(weekly) > 0 {
		if err := json.Unmarshal(weekly, &rows); err != nil {
			return nil, fmt.Errorf("%w: GetByCreatorID - decode weekly schedule: %v", ErrEncodeSchedule, err)
		}
	}
	schedule.WeeklySchedule = fromRows(rows)

	return &schedule, nil
}

// Upsert создает или полностью заменяет расписание автора
func (r *Repository) Upsert(ctx context.Context, schedule *domain.AvailabilitySchedule) (*domain.AvailabilitySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weekly, err := json.Marshal(toRows(schedule.WeeklySchedule))
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode weekly schedule: %v", ErrEncodeSchedule, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"creator_id",
			"is_booking_enabled",
			"default_slot_duration_minutes",
			"buffer_minutes",
			"min_notice_minutes",
			"max_advance_days",
			"timezone",
			"weekly_schedule",
		).
		Values(
			schedule.CreatorID,
			schedule.IsBookingEnabled,
			schedule.DefaultSlotDurationMinutes,
			schedule.BufferMinutes,
			schedule.MinNoticeMinutes,
			schedule.MaxAdvanceDays,
			schedule.Timezone,
			string(weekly),
		).
		Suffix(`ON CONFLICT (creator_id) DO UPDATE SET
			is_booking_enabled = EXCLUDED.is_booking_enabled,
			default_slot_duration_minutes = EXCLUDED.default_slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			timezone = EXCLUDED.timezone,
			weekly_schedule = EXCLUDED.weekly_schedule,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	return schedule, nil
}
