package services

import (
	"sync"
	"time"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"
	"brew-and-board/pkg/logger"
)

const (
	ProfileAuth = "auth"
	ProfileAPI  = "api"
)

// RateLimitProfile holds the numeric parameters of one named limiter
// configuration. Auth and general-API profiles differ by roughly two
// orders of magnitude, so they stay separate named configs.
type RateLimitProfile struct {
	Window      time.Duration
	MaxAttempts int
	Block       time.Duration
}

func DefaultRateLimitProfiles() map[string]RateLimitProfile {
	return map[string]RateLimitProfile{
		ProfileAuth: {Window: 15 * time.Minute, MaxAttempts: 5, Block: 30 * time.Minute},
		ProfileAPI:  {Window: time.Minute, MaxAttempts: 100, Block: time.Minute},
	}
}

type rateLimitEntry struct {
	count        int
	firstRequest time.Time
	blockedUntil time.Time // zero while counting
}

// RateLimiter is a sliding-window counter with an escalating block per key.
// State lives in one mutex-guarded table; critical sections are O(1). The
// table is not durable across restarts, which costs at most one extra
// window after a forced restart.
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*rateLimitEntry
	profiles map[string]RateLimitProfile
	logger   *logger.Logger

	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

var _ ports.RateLimiterInterface = (*RateLimiter)(nil)

const (
	sweepInterval    = 60 * time.Second
	blockGracePeriod = 60 * time.Second
	staleWindowAge   = time.Hour
)

func NewRateLimiter(profiles map[string]RateLimitProfile, log *logger.Logger) *RateLimiter {
	rl := &RateLimiter{
		entries:  make(map[string]*rateLimitEntry),
		profiles: profiles,
		logger:   log,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Check runs one step of the per-key state machine. It never blocks the
// caller for longer than the table lock and never returns an error;
// Allowed=false plus RetryAfter is the only failure signal.
func (rl *RateLimiter) Check(key, profile string) domain.RateLimitDecision {
	p, ok := rl.profiles[profile]
	if !ok {
		rl.logger.Warn("", "rate_limit_unknown_profile", "Unknown rate limit profile, falling back to api", map[string]interface{}{"profile": profile})
		p = rl.profiles[ProfileAPI]
		profile = ProfileAPI
	}
	now := rl.now()
	tableKey := profile + "|" + key

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e := rl.entries[tableKey]
	blockExpired := e != nil && !e.blockedUntil.IsZero() && !now.Before(e.blockedUntil)
	windowExpired := e != nil && e.blockedUntil.IsZero() && now.Sub(e.firstRequest) > p.Window

	if e == nil || blockExpired || windowExpired {
		rl.entries[tableKey] = &rateLimitEntry{count: 1, firstRequest: now}
		return domain.RateLimitDecision{Allowed: true, Remaining: p.MaxAttempts - 1}
	}

	if !e.blockedUntil.IsZero() {
		// Blocked: deny without incrementing, so the counter stays
		// bounded under sustained attack.
		return domain.RateLimitDecision{Allowed: false, RetryAfter: e.blockedUntil.Sub(now)}
	}

	e.count++
	if e.count > p.MaxAttempts {
		e.blockedUntil = now.Add(p.Block)
		rl.logger.Warn("", "rate_limit_exceeded", "Key exceeded attempt ceiling, blocking", map[string]interface{}{
			"profile": profile, "attempts": e.count, "block_seconds": int(p.Block.Seconds()),
		})
		return domain.RateLimitDecision{Allowed: false, RetryAfter: p.Block}
	}
	return domain.RateLimitDecision{Allowed: true, Remaining: p.MaxAttempts - e.count}
}

// Close stops the garbage-collection sweeper.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops entries whose block expired more than a grace period ago or
// whose window start is stale, bounding memory to active abusers.
func (rl *RateLimiter) sweep() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, e := range rl.entries {
		switch {
		case !e.blockedUntil.IsZero() && now.Sub(e.blockedUntil) > blockGracePeriod:
			delete(rl.entries, k)
		case e.blockedUntil.IsZero() && now.Sub(e.firstRequest) > staleWindowAge:
			delete(rl.entries, k)
		}
	}
}
