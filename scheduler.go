package acceptor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// BatchScheduler decides when batches run: once at startup, then on a
// fixed cadence until stopped.
type BatchScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterCallback(func() error)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// DefaultBatchScheduler implements BatchScheduler with a ticker loop.
type DefaultBatchScheduler struct {
	interval time.Duration
	runOnce  bool
	logger   log.Logger
	runBatch func() error

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewDefaultBatchScheduler creates a scheduler. With runOnce set, Start
// runs exactly one batch and returns its error; interval is ignored.
func NewDefaultBatchScheduler(interval time.Duration, runOnce bool, logger log.Logger) *DefaultBatchScheduler {
	return &DefaultBatchScheduler{
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegisterCallback sets the batch to run on each tick.
func (s *DefaultBatchScheduler) RegisterCallback(callback func() error) {
	s.runBatch = callback
}

// Start runs the first batch inline, so run-once callers get their verdict
// synchronously, then hands the cadence to a background goroutine.
func (s *DefaultBatchScheduler) Start(ctx context.Context) error {
	if s.runBatch == nil {
		return errors.New("no batch callback registered")
	}

	s.done = make(chan struct{})
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("Scheduling a single batch")
		return s.runBatch()
	}

	s.logger.Info("Scheduling batches on a cadence", "interval", s.interval)
	if err := s.runBatch(); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.running.Load() {
					return
				}
				s.logger.Info("Interval elapsed, running next batch")
				if err := s.runBatch(); err != nil {
					s.logger.Error("Scheduled batch failed", "error", err)
				}

			case <-s.done:
				s.logger.Debug("Scheduler stop requested")
				return

			case <-ctx.Done():
				s.running.Store(false)
				s.logger.Debug("Context closed, scheduler exiting")
				return
			}
		}
	}()

	return nil
}

// Stop ends the cadence. Safe to call repeatedly; the first call wins.
func (s *DefaultBatchScheduler) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	close(s.done)
	return nil
}

// Stopped reports whether the cadence has ended.
func (s *DefaultBatchScheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until the cadence goroutine has exited or the
// context runs out, whichever comes first.
func (s *DefaultBatchScheduler) WaitForShutdown(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Gave up waiting for the scheduler to exit", "error", ctx.Err())
		return ctx.Err()
	}
}
