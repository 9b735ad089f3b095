package expiry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Типы задач
const (
	TypeExpireReservation = "reservation:expire"
	TypeSweepExpired      = "reservation:sweep"
)

const expireMaxRetry = 5

type expirePayload struct {
	ReservationID int64 `json:"reservation_id"`
}

// newExpireTask задача отмены конкретного pending бронирования через ttl
// TaskID делает постановку идемпотентной
func newExpireTask(reservationID int64, ttl time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(expirePayload{ReservationID: reservationID})
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(TypeExpireReservation, b)
	opts := []asynq.Option{
		asynq.ProcessIn(ttl),
		asynq.TaskID(expireTaskID(reservationID)),
		asynq.MaxRetry(expireMaxRetry),
	}
	return task, opts, nil
}

func expireTaskID(reservationID int64) string {
	return fmt.Sprintf("expire:%d", reservationID)
}

// NewSweepTask периодическая задача отмены всех просроченных pending бронирований
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweepExpired, nil)
}
