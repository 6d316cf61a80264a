// Package scheduler runs the expiry sweep on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/usecase/sweep_expired"
)

type SweepUseCase interface {
	Execute(ctx context.Context, req *sweep_expired.Request) (*sweep_expired.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper calls the sweep use case once at start and then every Interval.
// Ticks never overlap: a slow sweep delays the next one.
type Sweeper struct {
	sweep    SweepUseCase
	interval time.Duration
	timeout  time.Duration
	logger   Logger
}

func NewSweeper(sweep SweepUseCase, interval, timeout time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.logger.Info("sweeper: started, interval=%s", s.interval)

	// kick immediately
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper: stopped")
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.sweep.Execute(runCtx, &sweep_expired.Request{})
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		s.logger.Error("sweeper: sweep failed: %v", err)
		return
	}
	if resp.Expired > 0 {
		s.logger.Info("sweeper: expired %d reservations", resp.Expired)
	}
}
