// Package resilience provides the retry, timeout and circuit-breaking
// wrappers used around corpus reads and the result cache.
package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by Breaker.Do while calls are being shed.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

// Breaker sheds calls to a dependency after FailureThreshold consecutive
// failures. Once Cooldown has passed a single probe call is let through; its
// outcome closes or re-opens the breaker.
type Breaker struct {
	name     string
	cfg      BreakerConfig
	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
	now      func() time.Time
	logger   *slog.Logger
}

func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:   name,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default().With("component", "circuit-breaker", "name", name),
	}
}

// Do runs fn unless the breaker is open, and records its result.
func (b *Breaker) Do(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case BreakerOpen:
		wait := b.cfg.Cooldown - b.now().Sub(b.openedAt)
		if wait > 0 {
			return fmt.Errorf("%w: %s (retry after %v)", ErrBreakerOpen, b.name, wait)
		}
		b.state = BreakerHalfOpen
		b.probing = true
		b.logger.Info("circuit half-open, probing")
	case BreakerHalfOpen:
		if b.probing {
			return fmt.Errorf("%w: %s (probe in flight)", ErrBreakerOpen, b.name)
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		if b.state != BreakerClosed {
			b.logger.Info("circuit closed")
		}
		b.state = BreakerClosed
		b.failures = 0
		b.probing = false
		return
	}
	b.failures++
	switch {
	case b.state == BreakerHalfOpen:
		b.trip()
		b.logger.Warn("probe failed, circuit re-opened", "error", err)
	case b.failures >= b.cfg.FailureThreshold:
		b.trip()
		b.logger.Warn("circuit opened", "consecutive_failures", b.failures, "error", err)
	}
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.probing = false
}
