package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// newTestLimiter builds a limiter without the background sweeper so tests
// can drive the clock deterministically.
func newTestLimiter(start time.Time) (*RateLimiter, *time.Time) {
	current := start
	rl := &RateLimiter{
		entries:  make(map[string]*rateLimitEntry),
		profiles: DefaultRateLimitProfiles(),
		logger:   testLogger(),
		done:     make(chan struct{}),
	}
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiterAuthProfileEscalatesToBlock(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())

	for attempt := 1; attempt <= 5; attempt++ {
		d := rl.Check("10.0.0.9", ProfileAuth)
		require.True(t, d.Allowed, "attempt %d should pass", attempt)
		assert.Equal(t, 5-attempt, d.Remaining)
		*clock = clock.Add(time.Minute)
	}

	d := rl.Check("10.0.0.9", ProfileAuth)
	require.False(t, d.Allowed, "attempt 6 must be denied")
	assert.Equal(t, 30*time.Minute, d.RetryAfter)
	assert.InDelta(t, 1800, d.RetryAfter.Seconds(), 1)
}

func TestRateLimiterBlockedKeyDoesNotGrow(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())
	for i := 0; i < 6; i++ {
		rl.Check("attacker", ProfileAuth)
	}
	countAfterBlock := rl.entries["auth|attacker"].count

	// Hammering a blocked key only reports the remaining block time.
	for i := 0; i < 50; i++ {
		*clock = clock.Add(time.Second)
		d := rl.Check("attacker", ProfileAuth)
		require.False(t, d.Allowed)
		assert.True(t, d.RetryAfter > 0)
	}
	assert.Equal(t, countAfterBlock, rl.entries["auth|attacker"].count)
}

func TestRateLimiterBlockExpiryResetsWindow(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())
	for i := 0; i < 6; i++ {
		rl.Check("returning", ProfileAuth)
	}
	require.False(t, rl.Check("returning", ProfileAuth).Allowed)

	*clock = clock.Add(30*time.Minute + time.Second)
	d := rl.Check("returning", ProfileAuth)
	require.True(t, d.Allowed, "a call after the block elapses starts a fresh window")
	assert.Equal(t, 4, d.Remaining)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())

	for i := 0; i < 3; i++ {
		require.True(t, rl.Check("browser", ProfileAPI).Allowed)
	}
	// Past the 1-minute api window the counter starts over.
	*clock = clock.Add(2 * time.Minute)
	d := rl.Check("browser", ProfileAPI)
	require.True(t, d.Allowed)
	assert.Equal(t, 99, d.Remaining)
}

func TestRateLimiterKeysAndProfilesAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	for i := 0; i < 6; i++ {
		rl.Check("shared-ip", ProfileAuth)
	}
	require.False(t, rl.Check("shared-ip", ProfileAuth).Allowed)

	assert.True(t, rl.Check("shared-ip", ProfileAPI).Allowed, "api profile keeps its own counter")
	assert.True(t, rl.Check("other-ip", ProfileAuth).Allowed, "other keys are unaffected")
}

func TestRateLimiterUnknownProfileFallsBack(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	d := rl.Check("key", "bogus")
	require.True(t, d.Allowed)
	assert.Equal(t, 99, d.Remaining, "fallback uses the api profile ceiling")
}

func TestRateLimiterSweepDropsStaleEntries(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())

	rl.Check("stale-window", ProfileAPI)
	for i := 0; i < 6; i++ {
		rl.Check("expired-block", ProfileAuth)
	}
	rl.Check("fresh", ProfileAPI)
	*clock = clock.Add(61 * time.Minute)
	rl.Check("fresh", ProfileAPI) // restart the fresh window at the new clock

	rl.sweep()

	assert.Nil(t, rl.entries["api|stale-window"], "hour-old window should be collected")
	assert.Nil(t, rl.entries["auth|expired-block"], "long-expired block should be collected")
	assert.NotNil(t, rl.entries["api|fresh"], "live entries survive the sweep")
}

func TestRateLimiterConcurrentChecks(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				rl.Check(fmt.Sprintf("client-%d", g%4), ProfileAPI)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	// Two goroutines share each key: 400 checks against a ceiling of 100.
	for g := 0; g < 4; g++ {
		e := rl.entries["api|"+fmt.Sprintf("client-%d", g)]
		require.NotNil(t, e)
		assert.LessOrEqual(t, e.count, 101, "counter stays bounded once blocked")
	}
}

func TestRateLimiterCloseStopsSweeper(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(DefaultRateLimitProfiles(), testLogger())
	rl.Check("k", ProfileAPI)
	rl.Close()
	rl.Close() // idempotent
}
