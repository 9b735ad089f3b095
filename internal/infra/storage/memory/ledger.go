package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/infra/storage/reservation"
)

// Ledger реестр бронирований в памяти процесса
// Create проверяет пересечение и вставляет под одной блокировкой, как exclusion-ограничение в PostgreSQL
type Ledger struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Reservation
	now    func() time.Time
}

// NewLedger создает пустой реестр
func NewLedger() *Ledger {
	return &Ledger{
		rows: make(map[int64]*domain.Reservation),
		now:  time.Now,
	}
}

// WithClock подменяет часы, которыми проставляются created_at/updated_at
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if res.IsActive() {
		for _, existing := range l.rows {
			if existing.CreatorID == res.CreatorID && existing.IsActive() && existing.Interval().Overlaps(res.Interval()) {
				return nil, reservation.ErrSlotTaken
			}
		}
	}
	if res.LinkedPaymentRef != nil {
		for _, existing := range l.rows {
			if existing.LinkedPaymentRef != nil && *existing.LinkedPaymentRef == *res.LinkedPaymentRef {
				return nil, reservation.ErrSlotTaken
			}
		}
	}

	l.nextID++
	stored := clone(res)
	stored.ID = l.nextID
	stored.CreatedAt = l.now()
	stored.UpdatedAt = stored.CreatedAt
	l.rows[stored.ID] = stored

	res.ID = stored.ID
	res.CreatedAt = stored.CreatedAt
	res.UpdatedAt = stored.UpdatedAt
	return res, nil
}

func (l *Ledger) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.rows[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return clone(res), nil
}

func (l *Ledger) GetByPaymentRef(_ context.Context, ref string) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, res := range l.rows {
		if res.LinkedPaymentRef != nil && *res.LinkedPaymentRef == ref {
			return clone(res), nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (l *Ledger) ListActiveInRange(_ context.Context, creatorID int64, from, to time.Time) ([]*domain.Reservation, error) {
	window := domain.Interval{Start: from, End: to}
	return l.list(func(r *domain.Reservation) bool {
		return r.CreatorID == creatorID && r.IsActive() && r.Interval().Overlaps(window)
	}, true), nil
}

func (l *Ledger) ListByCustomer(_ context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return l.list(func(r *domain.Reservation) bool {
		return r.CustomerID == customerID && (status == nil || r.Status == *status)
	}, false), nil
}

func (l *Ledger) ListByCreator(_ context.Context, filter domain.CreatorReservationsFilter) ([]*domain.Reservation, error) {
	return l.list(func(r *domain.Reservation) bool {
		if r.CreatorID != filter.CreatorID {
			return false
		}
		if filter.From != nil && r.StartTime.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !r.StartTime.Before(*filter.To) {
			return false
		}
		if filter.Status != nil {
			return r.Status == *filter.Status
		}
		return filter.IncludeCancelled || r.Status != domain.StatusCancelled
	}, true), nil
}

func (l *Ledger) TransitionStatus(_ context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, reason *string) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.rows[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	if !res.CanTransitionTo(to) || !slices.Contains(from, res.Status) {
		return nil, reservation.ErrStatusConflict
	}

	now := l.now()
	res.Status = to
	res.UpdatedAt = now
	if to == domain.StatusCancelled {
		res.CancellationReason = reason
		res.CancelledAt = &now
	}
	return clone(res), nil
}

func (l *Ledger) AttachPaymentRef(_ context.Context, id int64, ref string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.rows[id]
	if !ok {
		return reservation.ErrReservationNotFound
	}
	if res.Status != domain.StatusPending {
		return reservation.ErrStatusConflict
	}
	res.LinkedPaymentRef = &ref
	res.UpdatedAt = l.now()
	return nil
}

func (l *Ledger) CancelExpiredPending(_ context.Context, cutoff time.Time, reason string) ([]*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	expired := make([]*domain.Reservation, 0)
	for _, res := range l.rows {
		if res.Status != domain.StatusPending || res.CreatedAt.After(cutoff) {
			continue
		}
		res.Status = domain.StatusCancelled
		res.CancellationReason = &reason
		res.CancelledAt = &now
		res.UpdatedAt = now
		expired = append(expired, clone(res))
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

// SetCreatedAt сдвигает created_at, чтобы в тестах состарить pending бронирование
func (l *Ledger) SetCreatedAt(id int64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if res, ok := l.rows[id]; ok {
		res.CreatedAt = at
	}
}

// ActiveCount число активных бронирований автора
func (l *Ledger) ActiveCount(creatorID int64) int {
	return len(l.list(func(r *domain.Reservation) bool {
		return r.CreatorID == creatorID && r.IsActive()
	}, true))
}

func (l *Ledger) list(match func(*domain.Reservation) bool, ascending bool) []*domain.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.Reservation, 0)
	for _, res := range l.rows {
		if match(res) {
			out = append(out, clone(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

func clone(r *domain.Reservation) *domain.Reservation {
	c := *r
	return &c
}
