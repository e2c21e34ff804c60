package infra

import (
	"errors"
	"sync"
	"time"
)

// Breaker guards a flaky dependency (the SMTP relay) with the usual
// closed → open → half-open cycle. While open, calls fail fast with
// ErrBreakerOpen until Cooldown has passed; then trial calls are let through
// and Recover consecutive successes close it again.

// BreakerState is the current position in the cycle.
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
	}
	return "unknown"
}

// ErrBreakerOpen is returned by Do while the breaker is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerConfig holds the thresholds. Zero values fall back to defaults.
type BreakerConfig struct {
	Trip     int           // consecutive failures that open the breaker (5)
	Recover  int           // consecutive half-open successes that close it (2)
	Cooldown time.Duration // time spent open before probing (60s)
}

type Breaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	state    BreakerState
	failures int
	trials   int
	openedAt time.Time
	now      func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Trip <= 0 {
		cfg.Trip = 5
	}
	if cfg.Recover <= 0 {
		cfg.Recover = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// State reports the current state, moving open → half-open once the
// cooldown has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

func (b *Breaker) current() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.state = BreakerHalfOpen
		b.trials = 0
	}
	return b.state
}

// Do runs fn unless the breaker is open and records the outcome.
func (b *Breaker) Do(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrBreakerOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.fail()
		return err
	}
	b.succeed()
	return nil
}

// must hold b.mu
func (b *Breaker) fail() {
	b.failures++
	switch b.state {
	case BreakerClosed:
		if b.failures >= b.cfg.Trip {
			b.open()
		}
	case BreakerHalfOpen:
		b.open()
	}
}

// must hold b.mu
func (b *Breaker) succeed() {
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.trials++
		if b.trials >= b.cfg.Recover {
			b.state = BreakerClosed
			b.failures = 0
			b.trials = 0
		}
	}
}

func (b *Breaker) open() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.failures = 0
	b.trials = 0
}
