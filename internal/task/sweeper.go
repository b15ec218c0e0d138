// Package task runs the background jobs that keep task state current.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweeperConfig holds configuration for the overdue sweeper.
type SweeperConfig struct {
	// Interval is how long the sweeper waits between runs.
	// If zero, defaults to 24 hours.
	Interval time.Duration
}

// DefaultSweeperConfig returns a SweeperConfig with the production default.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval: 24 * time.Hour,
	}
}

// OverdueSweeper is the part of the task service the sweeper drives.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// Sweeper periodically marks past-due tasks as overdue. It runs one sweep
// immediately on Start and then once per interval until Stop is called.
type Sweeper struct {
	service    OverdueSweeper
	interval   time.Duration
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

// NewSweeper creates a new Sweeper.
func NewSweeper(service OverdueSweeper, config SweeperConfig, logger *slog.Logger) *Sweeper {
	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		service:    service,
		interval:   config.Interval,
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With(slog.String("component", "overdue_sweeper")),
		timeFunc:   time.Now,
	}
}

// Start launches the sweep loop. The first sweep happens right away so a
// restarted server catches up on tasks that became due while it was down.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()

	s.logger.Info("overdue sweeper started",
		"interval", s.interval)
}

// Stop shuts down the sweep loop and waits for an in-flight sweep to
// finish.
func (s *Sweeper) Stop() {
	s.cancelFunc()
	s.wg.Wait()

	s.logger.Info("overdue sweeper stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep runs a single pass. Errors are logged, never fatal: the next tick
// gets another chance.
func (s *Sweeper) sweep() {
	swept, err := s.service.SweepOverdue(s.ctx, s.timeFunc().UTC())
	if err != nil {
		s.logger.Error("overdue sweep failed",
			"error", err,
			"swept", swept)
		return
	}

	if swept > 0 {
		s.logger.Info("marked tasks overdue", "count", swept)
	}
}
