package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestLimiter returns a limiter with no cleanup goroutine and a fake clock.
func newTestLimiter(cfg *Config, now *time.Time) *Limiter {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiter_AllowAndDeny(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute}, &now)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/check", "POST")
		require.True(t, allowed, "request %d", i)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/check", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 20*time.Second, info.RetryAfter)
	assert.Equal(t, now.Add(20*time.Second), info.ResetTime)

	// another client has its own bucket
	allowed, _ = l.Allow("10.0.0.2", "/check", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute}, &now)
	defer l.Stop()

	l.Allow("c", "/fix", "POST")
	l.Allow("c", "/fix", "POST")
	allowed, _ := l.Allow("c", "/fix", "POST")
	require.False(t, allowed)

	now = now.Add(30 * time.Second)
	allowed, _ = l.Allow("c", "/fix", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("c", "/batch", "POST")
		require.True(t, allowed)
	}
	assert.Zero(t, l.Clients())
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"good": true},
		Blacklist:     map[string]bool{"bad": true},
	}, &now)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("good", "/check", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("bad", "/check", "POST")
	assert.False(t, allowed)
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cfg := DefaultConfig()
	l := newTestLimiter(cfg, &now)
	defer l.Stop()

	// batch has burst 5
	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/batch", "POST")
		require.True(t, allowed)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := l.Allow("c", "/batch", "POST")
	assert.False(t, allowed)

	// check keeps its own bucket
	allowed, info := l.Allow("c", "/check", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)

	// health is unlimited and creates no bucket
	before := l.Clients()
	for i := 0; i < 1000; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
	assert.Equal(t, before, l.Clients())
}

func TestLimiter_Cleanup(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTimeout: time.Minute}, &now)
	defer l.Stop()

	l.Allow("old", "/check", "POST")
	now = now.Add(2 * time.Minute)
	l.Allow("new", "/check", "POST")
	require.Equal(t, 2, l.Clients())

	l.cleanupBuckets()
	assert.Equal(t, 1, l.Clients())
}

func TestLimiter_StopEndsCleanupGoroutine(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	l.Stop()
	l.Stop() // idempotent
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("c", "/check", "POST"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowedCount)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, _ := l.Allow("c", "/check", "POST")
	assert.True(t, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/check", Method: "POST", Limit: 1},
		{Path: "/reports/", Method: "GET", Limit: 2},
	}

	assert.Equal(t, 1, MatchEndpoint("/check", "POST", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/reports/abc", "GET", configs).Limit)
	assert.Nil(t, MatchEndpoint("/check", "GET", configs))
	assert.Nil(t, MatchEndpoint("/other", "POST", configs))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("STRONGPASS_RATE_LIMIT_ENABLED", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("STRONGPASS_RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("STRONGPASS_RATE_LIMIT_CLEANUP_INTERVAL", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_WHITELIST", "127.0.0.1, ::1")
	t.Setenv("STRONGPASS_RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, map[string]bool{"127.0.0.1": true, "::1": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)

	t.Setenv("STRONGPASS_RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLimiter_ZeroDefaultLimitIsUnlimited(t *testing.T) {
	t.Setenv("STRONGPASS_RATE_LIMIT_ENABLED", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_DEFAULT_LIMIT", "0")
	t.Setenv("STRONGPASS_RATE_LIMIT_DEFAULT_WINDOW", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_CLEANUP_INTERVAL", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_WHITELIST", "")
	t.Setenv("STRONGPASS_RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	require.Zero(t, cfg.DefaultLimit)
	l := NewLimiter(cfg)
	defer l.Stop()

	// /count and /policy have no endpoint config and fall back to the default
	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("1.2.3.4", "/count", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
		allowed, _ = l.Allow("1.2.3.4", "/policy", "GET")
		require.True(t, allowed)
	}
	assert.Zero(t, l.Clients())

	// endpoint limits still apply
	allowed, info := l.Allow("1.2.3.4", "/batch", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 30, info.Limit)
}

func TestLimiter_ZeroDefaultWindowIsUnlimited(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1}, &now)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("c", "/count", "POST")
		assert.True(t, allowed)
	}
}
