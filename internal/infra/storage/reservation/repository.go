package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBooking/pkg/pgerrors"
	"github.com/m04kA/SMC-SlotBooking/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"creator_id",
	"customer_id",
	"service_id",
	"start_time",
	"end_time",
	"status",
	"customer_email",
	"customer_name",
	"customer_notes",
	"price",
	"currency",
	"linked_payment_ref",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository реестр бронирований на PostgreSQL
// Непересечение активных интервалов гарантирует exclusion-ограничение reservations_no_overlap
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет бронирование
// Нарушение exclusion- или unique-ограничения возвращается как ErrSlotTaken
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"creator_id",
			"customer_id",
			"service_id",
			"start_time",
			"end_time",
			"status",
			"customer_email",
			"customer_name",
			"customer_notes",
			"price",
			"currency",
			"linked_payment_ref",
		).
		Values(
			res.CreatorID,
			res.CustomerID,
			res.ServiceID,
			res.StartTime.UTC(),
			res.EndTime.UTC(),
			string(res.Status),
			res.Customer.Email,
			res.Customer.Name,
			res.Customer.Notes,
			res.Price,
			res.Currency,
			res.LinkedPaymentRef,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if pgerrors.IsOverlapViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPaymentRef получает бронирование по ссылке на платеж
func (r *Repository) GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetByPaymentRef", squirrel.Eq{"linked_payment_ref": ref})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}

	return res, nil
}

// ListActiveInRange возвращает pending/confirmed бронирования автора, пересекающие [from, to)
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListActiveInRange(ctx context.Context, creatorID int64, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"creator_id": creatorID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"start_time": to.UTC()}).
		Where(squirrel.Gt{"end_time": from.UTC()}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "ListActiveInRange", query, args)
}

// ListByCustomer история бронирований клиента, новые первыми
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "ListByCustomer", query, args)
}

// ListByCreator бронирования автора по фильтру
func (r *Repository) ListByCreator(ctx context.Context, filter domain.CreatorReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"creator_id": filter.CreatorID}).
		OrderBy("start_time ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": filter.From.UTC()})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}
	switch {
	case filter.Status != nil:
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	case !filter.IncludeCancelled:
		builder = builder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCreator - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "ListByCreator", query, args)
}

// TransitionStatus условно переводит бронирование из одного из статусов from в статус to
// UPDATE выполняется только при совпадении текущего статуса, поэтому конкурентные отмена и подтверждение не выигрывают обе
// Возвращает ErrReservationNotFound или ErrStatusConflict, если строка не обновлена
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, reason *string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	from = allowedFrom(from, to)
	if len(from) == 0 {
		return nil, ErrStatusConflict
	}

	builder := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(from)})

	if to == domain.StatusCancelled {
		builder = builder.
			Set("cancellation_reason", reason).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.Suffix(returning()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - execute update: %w", ErrExecQuery, err)
	}

	return res, nil
}

// AttachPaymentRef сохраняет ссылку на платеж у pending бронирования
func (r *Repository) AttachPaymentRef(ctx context.Context, id int64, ref string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("linked_payment_ref", ref).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachPaymentRef - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachPaymentRef - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachPaymentRef - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}

	return nil
}

// CancelExpiredPending отменяет pending бронирования, созданные не позже cutoff
func (r *Repository) CancelExpiredPending(ctx context.Context, cutoff time.Time, reason string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		Where(squirrel.LtOrEq{"created_at": cutoff.UTC()}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CancelExpiredPending - build update query: %v", ErrBuildQuery, err)
	}

	return r.queryList(ctx, executor, "CancelExpiredPending", query, args)
}

func (r *Repository) queryList(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrExecQuery, op, err)
	}

	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res    domain.Reservation
		status string
	)

	err := row.Scan(
		&res.ID,
		&res.CreatorID,
		&res.CustomerID,
		&res.ServiceID,
		&res.StartTime,
		&res.EndTime,
		&status,
		&res.Customer.Email,
		&res.Customer.Name,
		&res.Customer.Notes,
		&res.Price,
		&res.Currency,
		&res.LinkedPaymentRef,
		&res.CancellationReason,
		&res.CancelledAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Status = domain.ReservationStatus(status)
	return &res, nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// allowedFrom оставляет только статусы, из которых переход в to допустим
func allowedFrom(from []domain.ReservationStatus, to domain.ReservationStatus) []domain.ReservationStatus {
	allowed := make([]domain.ReservationStatus, 0, len(from))
	for _, s := range from {
		if domain.CanTransition(s, to) {
			allowed = append(allowed, s)
		}
	}
	return allowed
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
