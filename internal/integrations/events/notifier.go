package events

import (
	"context"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/ptr"
)

// JSONPublisher транспорт событий
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Notifier публикует события бронирований
type Notifier struct {
	pub JSONPublisher
}

func NewNotifier(pub JSONPublisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) NotifyBookingConfirmed(ctx context.Context, res *domain.Reservation) error {
	return n.publish(ctx, KeyBookingConfirmed, res)
}

func (n *Notifier) NotifyBookingPending(ctx context.Context, res *domain.Reservation) error {
	return n.publish(ctx, KeyBookingPending, res)
}

func (n *Notifier) NotifyBookingCancelled(ctx context.Context, res *domain.Reservation) error {
	return n.publish(ctx, KeyBookingCancelled, res)
}

func (n *Notifier) publish(ctx context.Context, key string, res *domain.Reservation) error {
	return n.pub.PublishJSON(ctx, key, BookingEvent{
		Event:   key,
		Version: eventVersion,
		Data: BookingData{
			ReservationID:      res.ID,
			CreatorID:          res.CreatorID,
			CustomerID:         res.CustomerID,
			ServiceID:          res.ServiceID,
			StartTime:          res.StartTime.UTC(),
			EndTime:            res.EndTime.UTC(),
			Status:             string(res.Status),
			CustomerEmail:      res.Customer.Email,
			CustomerName:       res.Customer.Name,
			Price:              res.Price,
			Currency:           res.Currency,
			PaymentRef:         ptr.Value(res.LinkedPaymentRef),
			CancellationReason: ptr.Value(res.CancellationReason),
		},
	})
}

// NopNotifier используется, когда брокер выключен
type NopNotifier struct{}

func (NopNotifier) NotifyBookingConfirmed(context.Context, *domain.Reservation) error { return nil }
func (NopNotifier) NotifyBookingPending(context.Context, *domain.Reservation) error { return nil }
func (NopNotifier) NotifyBookingCancelled(context.Context, *domain.Reservation) error { return nil }
