package expiry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Expirer отменяет просроченные pending бронирования
type Expirer interface {
	ExpirePending(ctx context.Context, reservationID int64) error
	SweepExpired(ctx context.Context, ttl time.Duration) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker обработчики задач истечения
type Worker struct {
	expirer Expirer
	ttl     time.Duration
	log     Logger
}

func NewWorker(expirer Expirer, ttl time.Duration, log Logger) *Worker {
	return &Worker{expirer: expirer, ttl: ttl, log: log}
}

// Register подключает обработчики к mux
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeExpireReservation, w.HandleExpire)
	mux.HandleFunc(TypeSweepExpired, w.HandleSweep)
}

func (w *Worker) HandleExpire(ctx context.Context, task *asynq.Task) error {
	var p expirePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.log.Error("ExpireWorker: invalid payload: %v", err)
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.ReservationID <= 0 {
		w.log.Error("ExpireWorker: payload without reservation id")
		return fmt.Errorf("empty reservation id: %w", asynq.SkipRetry)
	}

	if err := w.expirer.ExpirePending(ctx, p.ReservationID); err != nil {
		w.log.Error("ExpireWorker: reservation id=%d: %v", p.ReservationID, err)
		return err
	}
	return nil
}

func (w *Worker) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	n, err := w.expirer.SweepExpired(ctx, w.ttl)
	if err != nil {
		w.log.Error("ExpireWorker: sweep failed: %v", err)
		return err
	}
	if n > 0 {
		w.log.Info("ExpireWorker: sweep cancelled %d pending reservations", n)
	}
	return nil
}
