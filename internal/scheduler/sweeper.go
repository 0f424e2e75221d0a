// scheduler запускает фоновую чистку устаревших статей по тикеру.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job — один прогон чистки; возвращает число удалённых статей.
type Job interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Sweeper периодически вызывает Job.SweepExpired.
// Первый прогон — спустя bootDelay после Start (дать БД подняться),
// дальше — каждые interval.
type Sweeper struct {
	job       Job
	interval  time.Duration
	bootDelay time.Duration
	lg        *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// New создаёт свипер; Start нужно вызвать отдельно.
func New(job Job, interval, bootDelay time.Duration, lg *slog.Logger) *Sweeper {
	return &Sweeper{
		job:       job,
		interval:  interval,
		bootDelay: bootDelay,
		lg:        lg,
	}
}

// Start запускает фоновую горутину. Повторный Start без Stop — no-op.
func (s *Sweeper) Start(ctx context.Context) {
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop останавливает горутину и дожидается завершения текущего прогона.
func (s *Sweeper) Stop() {
	if s.stop == nil {
		return
	}

	close(s.stop)
	<-s.done
	s.stop = nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	select {
	case <-time.After(s.bootDelay):
	case <-ctx.Done():
		return
	case <-s.stop:
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	deleted, err := s.job.SweepExpired(ctx)
	if err != nil {
		s.lg.Error("sweep failed", "err", err, "elapsed", time.Since(start))
		return
	}

	s.lg.Info("sweep completed", "deleted", deleted, "elapsed", time.Since(start))
}
