package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations"
)

// Settler применяет итог оплаты к бронированию
type Settler interface {
	ConfirmByPaymentRef(ctx context.Context, ref string) error
	CancelByPaymentRef(ctx context.Context, ref, reason string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDrop
)

// SettlementConsumer читает payment.succeeded / payment.failed
type SettlementConsumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	settler Settler
	log     Logger
}

// NewSettlementConsumer объявляет очередь и привязывает её к ключам платежей
func NewSettlementConsumer(url, exchange, queue string, settler Settler, log Logger) (*SettlementConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, rk := range []string{KeyPaymentSucceeded, KeyPaymentFailed} {
		if err := ch.QueueBind(q.Name, rk, exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind %s: %w", rk, err)
		}
	}

	return &SettlementConsumer{conn: conn, ch: ch, queue: q.Name, settler: settler, log: log}, nil
}

// Run читает сообщения до отмены ctx или закрытия канала
func (c *SettlementConsumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			switch c.handle(ctx, d.RoutingKey, d.Body, d.Redelivered) {
			case outcomeAck:
				_ = d.Ack(false)
			case outcomeRequeue:
				_ = d.Nack(false, true)
			case outcomeDrop:
				_ = d.Nack(false, false)
			}
		}
	}
}

func (c *SettlementConsumer) handle(ctx context.Context, key string, body []byte, redelivered bool) outcome {
	if key != KeyPaymentSucceeded && key != KeyPaymentFailed {
		return outcomeAck
	}

	var evt PaymentSettlement
	if err := json.Unmarshal(body, &evt); err != nil {
		c.log.Warn("SettlementConsumer: invalid %s payload: %v", key, err)
		return outcomeAck
	}
	if evt.Data.PaymentRef == "" {
		c.log.Warn("SettlementConsumer: %s without payment_ref", key)
		return outcomeAck
	}

	var err error
	if key == KeyPaymentSucceeded {
		err = c.settler.ConfirmByPaymentRef(ctx, evt.Data.PaymentRef)
	} else {
		reason := evt.Data.Reason
		if reason == "" {
			reason = "payment failed"
		}
		err = c.settler.CancelByPaymentRef(ctx, evt.Data.PaymentRef, reason)
	}

	switch {
	case err == nil:
		c.log.Info("SettlementConsumer: applied %s for payment_ref=%s", key, evt.Data.PaymentRef)
		return outcomeAck
	case errors.Is(err, reservations.ErrReservationNotFound), errors.Is(err, reservations.ErrAlreadyTerminal):
		c.log.Warn("SettlementConsumer: %s for payment_ref=%s ignored: %v", key, evt.Data.PaymentRef, err)
		return outcomeAck
	case redelivered:
		c.log.Error("SettlementConsumer: %s for payment_ref=%s failed again, dropping: %v", key, evt.Data.PaymentRef, err)
		return outcomeDrop
	default:
		c.log.Error("SettlementConsumer: %s for payment_ref=%s failed, requeueing: %v", key, evt.Data.PaymentRef, err)
		return outcomeRequeue
	}
}

func (c *SettlementConsumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
