package timer

import (
	"sync"
	"time"
)

// Scheduler keys one countdown per session. Arm replaces nothing: a key
// whose countdown is still running cannot be armed again, and a cancelled
// key stays cancelled until it is released.
type Scheduler struct {
	total time.Duration
	tick  time.Duration

	mu         sync.Mutex
	countdowns map[string]*Countdown
}

// NewScheduler creates a Scheduler whose countdowns run for total, ticking
// every tick.
func NewScheduler(total, tick time.Duration) *Scheduler {
	return &Scheduler{
		total:      total,
		tick:       tick,
		countdowns: make(map[string]*Countdown),
	}
}

// Arm starts a countdown for key. Returns ErrAlreadyArmed while a
// countdown for the key is live and ErrCancelled when the key was
// cancelled and not yet released.
func (s *Scheduler) Arm(key string, onTick func(remaining time.Duration), onExpire func()) error {
	s.mu.Lock()
	cd, ok := s.countdowns[key]
	if !ok {
		cd = New(s.total, s.tick)
		s.countdowns[key] = cd
	}
	s.mu.Unlock()

	return cd.Arm(onTick, func() {
		if onExpire != nil {
			onExpire()
		}
		s.Release(key)
	})
}

// Cancel stops the countdown for key. Returns true when the cancellation
// won the race against expiry. The key stays registered so a later Arm
// keeps failing with ErrCancelled; Release drops it.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	cd, ok := s.countdowns[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return cd.Cancel()
}

// Remaining returns the time left for key and whether a countdown exists.
func (s *Scheduler) Remaining(key string) (time.Duration, bool) {
	s.mu.Lock()
	cd, ok := s.countdowns[key]
	s.mu.Unlock()
	if !ok {
		return 0, false
	}
	return cd.Remaining(), true
}

// Release forgets the countdown for key, cancelling it first if it is
// still running. Called when the session goes away.
func (s *Scheduler) Release(key string) {
	s.mu.Lock()
	cd, ok := s.countdowns[key]
	delete(s.countdowns, key)
	s.mu.Unlock()
	if ok {
		cd.Cancel()
	}
}
