package notifier

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/shared"
)

// Worker drains queued notification jobs on an interval. Delivery is decoupled
// from order state on purpose: a failed send only increments the job's attempt
// counter and never touches the order.
type Worker struct {
	uow    shared.UnitOfWork
	mailer Mailer
	clock  clock.Clock
	cfg    config.NotifierConfig

	stop chan struct{}
	done chan struct{}
}

func NewWorker(uow shared.UnitOfWork, mailer Mailer, clk clock.Clock, cfg config.Config) *Worker {
	return &Worker{
		uow:    uow,
		mailer: mailer,
		clock:  clk,
		cfg:    cfg.Notifier,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) Stop(ctx context.Context) error {
	close(w.stop)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.DrainOnce(context.Background()); err != nil {
				slog.Error("notification drain failed", "error", err.Error())
			}
		}
	}
}

// DrainOnce claims up to BatchSize runnable jobs with FOR UPDATE SKIP LOCKED,
// so concurrent workers never double-send.
func (w *Worker) DrainOnce(ctx context.Context) error {
	return w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		jobs, err := tx.Notifications().ListRunnable(ctx, tx.DB(), w.clock.Now(), int32(w.cfg.BatchSize))
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if sendErr := w.mailer.Send(ctx, job.Topic, job.Payload); sendErr != nil {
				slog.Warn("notification send failed",
					"job_id", job.ID,
					"topic", job.Topic,
					"attempts", job.Attempts+1,
					"error", sendErr.Error())
				if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, sendErr.Error(), int32(w.cfg.MaxAttempts)); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
