package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

type recordingPublisher struct {
	keys     []string
	payloads [][]byte
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, b)
	return nil
}

func TestNotifier_PublishesBookingEvents(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub)
	ref := "pi_1"
	res := &domain.Reservation{
		ID:               10,
		CreatorID:        1,
		StartTime:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC),
		Status:           domain.StatusPending,
		LinkedPaymentRef: &ref,
	}

	require.NoError(t, n.NotifyBookingPending(context.Background(), res))
	require.NoError(t, n.NotifyBookingCancelled(context.Background(), res))

	assert.Equal(t, []string{KeyBookingPending, KeyBookingCancelled}, pub.keys)

	var evt BookingEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &evt))
	assert.Equal(t, KeyBookingPending, evt.Event)
	assert.Equal(t, int64(10), evt.Data.ReservationID)
	assert.Equal(t, "pi_1", evt.Data.PaymentRef)
	assert.Equal(t, "pending", evt.Data.Status)
}

type settlerMock struct {
	mock.Mock
}

func (m *settlerMock) ConfirmByPaymentRef(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *settlerMock) CancelByPaymentRef(ctx context.Context, ref, reason string) error {
	return m.Called(ctx, ref, reason).Error(0)
}

func TestSettlementConsumer_Handle(t *testing.T) {
	succeeded := []byte(`{"event":"payment.succeeded","version":1,"data":{"payment_ref":"pi_1"}}`)
	failed := []byte(`{"event":"payment.failed","version":1,"data":{"payment_ref":"pi_2","reason":"card declined"}}`)

	tests := []struct {
		name        string
		key         string
		body        []byte
		redelivered bool
		setup       func(m *settlerMock)
		want        outcome
	}{
		{
			name:  "confirm",
			key:   KeyPaymentSucceeded,
			body:  succeeded,
			setup: func(m *settlerMock) { m.On("ConfirmByPaymentRef", mock.Anything, "pi_1").Return(nil) },
			want:  outcomeAck,
		},
		{
			name: "cancel with reason",
			key:  KeyPaymentFailed,
			body: failed,
			setup: func(m *settlerMock) {
				m.On("CancelByPaymentRef", mock.Anything, "pi_2", "card declined").Return(nil)
			},
			want: outcomeAck,
		},
		{
			name: "already cancelled is acked",
			key:  KeyPaymentSucceeded,
			body: succeeded,
			setup: func(m *settlerMock) {
				m.On("ConfirmByPaymentRef", mock.Anything, "pi_1").Return(reservations.ErrAlreadyTerminal)
			},
			want: outcomeAck,
		},
		{
			name: "transient error requeued once",
			key:  KeyPaymentSucceeded,
			body: succeeded,
			setup: func(m *settlerMock) {
				m.On("ConfirmByPaymentRef", mock.Anything, "pi_1").Return(errors.New("db down"))
			},
			want: outcomeRequeue,
		},
		{
			name:        "transient error on redelivery dropped",
			key:         KeyPaymentSucceeded,
			body:        succeeded,
			redelivered: true,
			setup: func(m *settlerMock) {
				m.On("ConfirmByPaymentRef", mock.Anything, "pi_1").Return(errors.New("db down"))
			},
			want: outcomeDrop,
		},
		{
			name:  "malformed payload acked",
			key:   KeyPaymentSucceeded,
			body:  []byte(`{`),
			setup: func(m *settlerMock) {},
			want:  outcomeAck,
		},
		{
			name:  "unrelated key acked",
			key:   "payment.refunded",
			body:  succeeded,
			setup: func(m *settlerMock) {},
			want:  outcomeAck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settler := &settlerMock{}
			tt.setup(settler)
			c := &SettlementConsumer{settler: settler, log: logger.NewNop()}

			got := c.handle(context.Background(), tt.key, tt.body, tt.redelivered)

			assert.Equal(t, tt.want, got)
			settler.AssertExpectations(t)
		})
	}
}
