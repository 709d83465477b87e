package timer_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shipment/internal/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_ExpiresAfterTotal(t *testing.T) {
	c := timer.New(50*time.Millisecond, 10*time.Millisecond)

	var ticks []time.Duration
	var mu sync.Mutex
	expired := make(chan struct{})

	require.NoError(t, c.Arm(
		func(remaining time.Duration) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() { close(expired) },
	))

	select {
	case <-expired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("countdown did not expire")
	}

	assert.True(t, c.Expired())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, ticks)
	for i := 1; i < len(ticks); i++ {
		assert.Less(t, ticks[i], ticks[i-1], "remaining time must decrease")
	}
}

func TestCountdown_CancelPreventsExpiry(t *testing.T) {
	c := timer.New(50*time.Millisecond, 10*time.Millisecond)

	var fired atomic.Bool
	require.NoError(t, c.Arm(nil, func() { fired.Store(true) }))

	assert.True(t, c.Cancel())

	// Wait well past the original deadline; the expiry must never fire.
	time.Sleep(150 * time.Millisecond)
	assert.False(t, fired.Load(), "expiry fired after cancel")
}

func TestCountdown_CancelIsTerminal(t *testing.T) {
	c := timer.New(50*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, c.Arm(nil, nil))
	require.True(t, c.Cancel())

	err := c.Arm(nil, nil)
	require.ErrorIs(t, err, timer.ErrCancelled)
}

func TestCountdown_ArmTwiceFails(t *testing.T) {
	c := timer.New(time.Second, 100*time.Millisecond)
	require.NoError(t, c.Arm(nil, nil))
	require.ErrorIs(t, c.Arm(nil, nil), timer.ErrAlreadyArmed)
	c.Cancel()
}

func TestCountdown_CancelAfterExpiryReportsTooLate(t *testing.T) {
	c := timer.New(20*time.Millisecond, 10*time.Millisecond)

	expired := make(chan struct{})
	require.NoError(t, c.Arm(nil, func() { close(expired) }))

	select {
	case <-expired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("countdown did not expire")
	}

	assert.False(t, c.Cancel(), "cancel after expiry must lose")
}

func TestCountdown_RemainingStartsAtTotal(t *testing.T) {
	c := timer.New(60*time.Second, time.Second)
	assert.Equal(t, 60*time.Second, c.Remaining())
}
