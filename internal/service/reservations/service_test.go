package reservations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations/models"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

const (
	creatorID  int64 = 10
	customerID int64 = 20
	strangerID int64 = 30
)

var now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []int64
	cancelled []int64
	err       error
}

func (n *recordingNotifier) NotifyBookingConfirmed(_ context.Context, res *domain.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, res.ID)
	return n.err
}

func (n *recordingNotifier) NotifyBookingCancelled(_ context.Context, res *domain.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, res.ID)
	return n.err
}

func setup(t *testing.T) (*Service, *memory.Ledger, *recordingNotifier) {
	t.Helper()
	ledger := memory.NewLedger().WithClock(func() time.Time { return now })
	notifier := &recordingNotifier{}
	svc := NewService(ledger, notifier, logger.NewNop(), WithTimeProvider(fixedTime{t: now}))
	return svc, ledger, notifier
}

func seed(t *testing.T, ledger *memory.Ledger, start time.Time, status domain.ReservationStatus, paymentRef *string) *domain.Reservation {
	t.Helper()
	res, err := ledger.Create(context.Background(), &domain.Reservation{
		CreatorID:        creatorID,
		CustomerID:       customerID,
		ServiceID:        1,
		StartTime:        start,
		EndTime:          start.Add(30 * time.Minute),
		Status:           status,
		Customer:         domain.CustomerInfo{Email: "ann@example.com", Name: "Ann"},
		Price:            25,
		Currency:         "USD",
		LinkedPaymentRef: paymentRef,
	})
	require.NoError(t, err)
	return res
}

func ref(s string) *string { return &s }

func TestService_GetByID_Access(t *testing.T) {
	svc, ledger, _ := setup(t)
	res := seed(t, ledger, now.Add(24*time.Hour), domain.StatusConfirmed, nil)

	got, err := svc.GetByID(context.Background(), res.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)

	_, err = svc.GetByID(context.Background(), res.ID, creatorID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), res.ID, strangerID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 999, customerID)
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_Cancel_FreesIntervalAndNotifies(t *testing.T) {
	svc, ledger, notifier := setup(t)
	start := now.Add(48 * time.Hour)
	res := seed(t, ledger, start, domain.StatusConfirmed, nil)

	got, err := svc.Cancel(context.Background(), res.ID, &models.CancelRequest{UserID: customerID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "cancelled by customer", *got.CancellationReason)
	assert.Equal(t, []int64{res.ID}, notifier.cancelled)
	assert.Zero(t, ledger.ActiveCount(creatorID))

	seed(t, ledger, start, domain.StatusPending, nil)
}

func TestService_Cancel_AlreadyCancelledHasNoSideEffects(t *testing.T) {
	svc, ledger, notifier := setup(t)
	res := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, nil)

	_, err := svc.Cancel(context.Background(), res.ID, &models.CancelRequest{UserID: creatorID, Reason: "sick"})
	require.NoError(t, err)

	before, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), res.ID, &models.CancelRequest{UserID: creatorID, Reason: "again"})
	require.ErrorIs(t, err, ErrAlreadyTerminal)

	after, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, notifier.cancelled, 1)
}

func TestService_Cancel_Errors(t *testing.T) {
	svc, ledger, _ := setup(t)
	res := seed(t, ledger, now.Add(48*time.Hour), domain.StatusConfirmed, nil)

	_, err := svc.Cancel(context.Background(), 404, &models.CancelRequest{UserID: customerID})
	require.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.Cancel(context.Background(), res.ID, &models.CancelRequest{UserID: strangerID})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel_NotifierFailureDoesNotFail(t *testing.T) {
	svc, ledger, notifier := setup(t)
	notifier.err = errors.New("broker down")
	res := seed(t, ledger, now.Add(48*time.Hour), domain.StatusConfirmed, nil)

	got, err := svc.Cancel(context.Background(), res.ID, &models.CancelRequest{UserID: customerID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestService_ConfirmByPaymentRef(t *testing.T) {
	svc, ledger, notifier := setup(t)
	res := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, ref("pi_1"))

	require.NoError(t, svc.ConfirmByPaymentRef(context.Background(), "pi_1"))
	require.NoError(t, svc.ConfirmByPaymentRef(context.Background(), "pi_1"), "repeated settlement is a no-op")

	got, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, []int64{res.ID}, notifier.confirmed)

	require.ErrorIs(t, svc.ConfirmByPaymentRef(context.Background(), "pi_unknown"), ErrReservationNotFound)
}

func TestService_ConfirmByPaymentRef_CancelledIsTerminal(t *testing.T) {
	svc, ledger, _ := setup(t)
	res := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, ref("pi_2"))
	require.NoError(t, svc.ExpirePending(context.Background(), res.ID))

	require.ErrorIs(t, svc.ConfirmByPaymentRef(context.Background(), "pi_2"), ErrAlreadyTerminal)
}

func TestService_CancelByPaymentRef(t *testing.T) {
	svc, ledger, notifier := setup(t)
	pending := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, ref("pi_3"))
	confirmed := seed(t, ledger, now.Add(72*time.Hour), domain.StatusConfirmed, ref("pi_4"))

	require.NoError(t, svc.CancelByPaymentRef(context.Background(), "pi_3", "card declined"))
	require.ErrorIs(t, svc.CancelByPaymentRef(context.Background(), "pi_3", "card declined"), ErrAlreadyTerminal)
	require.NoError(t, svc.CancelByPaymentRef(context.Background(), "pi_4", "late failure"))

	got, err := ledger.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	got, err = ledger.GetByID(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, []int64{pending.ID}, notifier.cancelled)
}

func TestService_ExpirePending_SkipsSettledReservations(t *testing.T) {
	svc, ledger, notifier := setup(t)
	pending := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, nil)
	confirmed := seed(t, ledger, now.Add(72*time.Hour), domain.StatusConfirmed, nil)

	require.NoError(t, svc.ExpirePending(context.Background(), pending.ID))
	require.NoError(t, svc.ExpirePending(context.Background(), pending.ID))
	require.NoError(t, svc.ExpirePending(context.Background(), confirmed.ID))
	require.NoError(t, svc.ExpirePending(context.Background(), 404))

	got, err := ledger.GetByID(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, []int64{pending.ID}, notifier.cancelled)
}

func TestService_SweepExpired(t *testing.T) {
	svc, ledger, notifier := setup(t)
	stale := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, nil)
	fresh := seed(t, ledger, now.Add(72*time.Hour), domain.StatusPending, nil)
	seed(t, ledger, now.Add(96*time.Hour), domain.StatusConfirmed, nil)
	ledger.SetCreatedAt(stale.ID, now.Add(-20*time.Minute))
	ledger.SetCreatedAt(fresh.ID, now.Add(-5*time.Minute))

	n, err := svc.SweepExpired(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int64{stale.ID}, notifier.cancelled)
	assert.Equal(t, 2, ledger.ActiveCount(creatorID))
}

func TestService_GetCustomerReservations(t *testing.T) {
	svc, ledger, _ := setup(t)
	seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, nil)
	seed(t, ledger, now.Add(72*time.Hour), domain.StatusConfirmed, nil)

	list, err := svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		UserID:     customerID,
		CustomerID: customerID,
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	status := "confirmed"
	list, err = svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		UserID:     customerID,
		CustomerID: customerID,
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "confirmed", list[0].Status)

	_, err = svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		UserID:     strangerID,
		CustomerID: customerID,
	})
	require.ErrorIs(t, err, ErrAccessDenied)

	bad := "archived"
	_, err = svc.GetCustomerReservations(context.Background(), &models.GetCustomerReservationsRequest{
		UserID:     customerID,
		CustomerID: customerID,
		Status:     &bad,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetCreatorReservations(t *testing.T) {
	svc, ledger, _ := setup(t)
	first := seed(t, ledger, now.Add(48*time.Hour), domain.StatusPending, nil)
	seed(t, ledger, now.Add(72*time.Hour), domain.StatusConfirmed, nil)
	_, err := svc.Cancel(context.Background(), first.ID, &models.CancelRequest{UserID: creatorID})
	require.NoError(t, err)

	list, err := svc.GetCreatorReservations(context.Background(), &models.GetCreatorReservationsRequest{
		UserID:    creatorID,
		CreatorID: creatorID,
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.GetCreatorReservations(context.Background(), &models.GetCreatorReservationsRequest{
		UserID:           creatorID,
		CreatorID:        creatorID,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetCreatorReservations(context.Background(), &models.GetCreatorReservationsRequest{
		UserID:    customerID,
		CreatorID: creatorID,
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}
