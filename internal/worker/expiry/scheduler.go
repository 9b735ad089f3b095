package expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer клиент очереди (*asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler ставит задачи истечения pending бронирований
type Scheduler struct {
	client Enqueuer
}

func NewScheduler(client Enqueuer) *Scheduler {
	return &Scheduler{client: client}
}

// SchedulePendingExpiry ставит отмену бронирования через ttl
// Повторная постановка для того же бронирования не считается ошибкой
func (s *Scheduler) SchedulePendingExpiry(ctx context.Context, reservationID int64, ttl time.Duration) error {
	task, opts, err := newExpireTask(reservationID, ttl)
	if err != nil {
		return fmt.Errorf("build expire task: %w", err)
	}

	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", TypeExpireReservation, err)
	}
	return nil
}

// RegisterSweep регистрирует периодическую зачистку в cron-планировщике asynq
func RegisterSweep(scheduler *asynq.Scheduler, cronspec string) (string, error) {
	return scheduler.Register(cronspec, NewSweepTask(), asynq.MaxRetry(0), asynq.Timeout(time.Minute))
}
