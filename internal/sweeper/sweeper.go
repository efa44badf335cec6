// Package sweeper runs a periodic eviction task on its own goroutine,
// decoupled from request handling.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
)

// DefaultInterval is how often expired sessions are evicted.
const DefaultInterval = 60 * time.Second

// SweepFunc evicts expired entries and reports how many were removed.
type SweepFunc func(ctx context.Context) (int, error)

// Sweeper calls a SweepFunc on a fixed interval until stopped.
//
// For multi-replica deployments sharing one store, configure a DistributedLock
// so only one replica sweeps per tick.
type Sweeper struct {
	sweep  SweepFunc
	lock   driven.DistributedLock
	logger *slog.Logger
	name   string

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
	lockTTL  time.Duration
}

// Config holds configuration for the sweeper.
type Config struct {
	Name     string // Lock name and log component (default: "session-sweeper")
	Sweep    SweepFunc
	Lock     driven.DistributedLock // Optional
	Logger   *slog.Logger
	Interval time.Duration // default: 60s
}

// New creates a sweeper. It does nothing until Start is called.
func New(cfg Config) *Sweeper {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "session-sweeper"
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Sweeper{
		sweep:    cfg.Sweep,
		lock:     cfg.Lock,
		logger:   logger.With("component", name),
		name:     name,
		interval: interval,
		lockTTL:  interval,
	}
}

// Interval returns the sweep period.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Start begins the sweep loop. It runs until Stop is called or ctx is
// cancelled. Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	s.stopCh = stopCh
	s.doneCh = doneCh
	s.mu.Unlock()

	s.logger.Info("sweeper starting", "interval", s.interval)

	go s.run(ctx, stopCh, doneCh)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh

	s.logger.Info("sweeper stopped")
}

// Running reports whether the loop is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run clears running before signalling done, so a sweeper whose context was
// cancelled can be started again.
func (s *Sweeper) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(doneCh)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("sweeper context cancelled")
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep, honouring the distributed lock if one is
// configured. It returns the number of evicted entries.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, s.name, s.lockTTL)
		if err != nil {
			s.logger.Warn("failed to acquire sweeper lock", "error", err)
			return 0
		}
		if !acquired {
			s.logger.Debug("sweeper lock held by another instance, skipping cycle")
			return 0
		}
		defer func() {
			if err := s.lock.Release(ctx, s.name); err != nil {
				s.logger.Warn("failed to release sweeper lock", "error", err)
			}
		}()
	}

	removed, err := s.sweep(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return removed
	}
	if removed > 0 {
		s.logger.Info("evicted expired sessions", "count", removed)
	}
	return removed
}
