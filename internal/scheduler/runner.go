package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner executes the eligibility batch on a fixed interval until stopped.
type Runner struct {
	service  *EligibilityService
	interval time.Duration
	logger   *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewRunner(service *EligibilityService, interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Runner{
		service:  service,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the loop. The first batch runs immediately so a restart
// never delays grants by a full interval.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.runOnce(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.runOnce(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	r.logger.Info("eligibility runner started", "interval", r.interval)
}

// Stop halts the loop and waits for an in-flight batch to finish.
func (r *Runner) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()
	r.logger.Info("eligibility runner stopped")
}

func (r *Runner) runOnce(ctx context.Context) {
	if _, err := r.service.Run(ctx); err != nil {
		// the next tick retries; individual employee failures are already
		// handled inside the batch
		r.logger.Error("eligibility run failed", "error", err)
	}
}
