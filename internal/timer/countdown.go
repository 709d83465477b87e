// Package timer provides the cancellable countdown behind the auto-commit
// feature. The countdown is a pure scheduler: it knows nothing about
// sessions or rendering, it just ticks down, reports the remaining time to
// an observer once per tick, and fires an expiry callback when it reaches
// zero. Cancellation is terminal for a given instance; once cancelled it
// can never fire.
package timer

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyArmed is returned when Arm is called on a countdown that
	// is already running or has already run.
	ErrAlreadyArmed = errors.New("countdown is already armed")

	// ErrCancelled is returned when Arm is called after Cancel.
	// Cancellation is terminal per instance; callers wanting a new
	// countdown create a new one.
	ErrCancelled = errors.New("countdown was cancelled")
)

type state int

const (
	stateIdle state = iota
	stateArmed
	stateCancelled
	stateExpired
)

// Countdown counts a fixed duration down in tick-sized steps.
// Thread-safe. Exactly one of the expiry callback and a successful Cancel
// happens: the expiry check and the cancellation both run under the same
// lock, so a cancelled countdown never fires and a fired countdown
// reports Cancel as too late.
type Countdown struct {
	total time.Duration
	tick  time.Duration

	mu        sync.Mutex
	st        state
	remaining time.Duration
	stop      chan struct{}
}

// New creates an idle countdown. total is the full window (60s for
// auto-commit), tick the observer cadence (1s in production, shorter in
// tests).
func New(total, tick time.Duration) *Countdown {
	if tick <= 0 {
		tick = time.Second
	}
	return &Countdown{
		total:     total,
		tick:      tick,
		st:        stateIdle,
		remaining: total,
		stop:      make(chan struct{}),
	}
}

// Arm starts the countdown. onTick receives the remaining time after each
// elapsed tick; onExpire fires when the countdown reaches zero without
// being cancelled. Either callback may be nil.
func (c *Countdown) Arm(onTick func(remaining time.Duration), onExpire func()) error {
	c.mu.Lock()
	switch c.st {
	case stateCancelled:
		c.mu.Unlock()
		return ErrCancelled
	case stateArmed, stateExpired:
		c.mu.Unlock()
		return ErrAlreadyArmed
	case stateIdle:
	}
	c.st = stateArmed
	c.remaining = c.total
	c.mu.Unlock()

	go c.run(onTick, onExpire)
	return nil
}

// Cancel stops an armed countdown. Returns true when the cancellation won
// (the expiry will never fire), false when the countdown had already
// expired or was never armed.
func (c *Countdown) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st != stateArmed && c.st != stateIdle {
		return false
	}
	c.st = stateCancelled
	close(c.stop)
	return true
}

// Remaining returns the time left on the countdown.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown ran to zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st == stateExpired
}

func (c *Countdown) run(onTick func(time.Duration), onExpire func()) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.st != stateArmed {
				c.mu.Unlock()
				return
			}
			c.remaining -= c.tick
			remaining := c.remaining
			expired := remaining <= 0
			if expired {
				c.st = stateExpired
			}
			c.mu.Unlock()

			if expired {
				if onExpire != nil {
					onExpire()
				}
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}
