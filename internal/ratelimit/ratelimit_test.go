package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, max int) (*MemoryRateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewMemoryRateLimiter(&Config{
		WindowSize:  time.Minute,
		MaxAttempts: max,
		BanDuration: 5 * time.Minute,
	})
	rl.now = clock.Now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestAllow_BansAfterMaxAttempts(t *testing.T) {
	rl, clock := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		allowed, info := rl.Allow("1.2.3.4")
		require.True(t, allowed, "attempt %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.True(t, info.Banned)
	assert.Equal(t, 5*time.Minute, info.RetryAfter)

	clock.Advance(2 * time.Minute)
	allowed, info = rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Equal(t, 3*time.Minute, info.RetryAfter)

	clock.Advance(3 * time.Minute)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.True(t, allowed, "ban expired")

	allowed, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed, "identifiers are independent")
}

func TestAllow_WindowResets(t *testing.T) {
	rl, clock := newTestLimiter(t, 2)

	rl.Allow("ip")
	rl.Allow("ip")
	clock.Advance(61 * time.Second)

	allowed, info := rl.Allow("ip")
	assert.True(t, allowed)
	assert.Equal(t, 1, info.Remaining)
}

func TestRecordSuccess_ClearsAttempts(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)

	rl.Allow("ip")
	rl.RecordSuccess("ip")

	allowed, _ := rl.Allow("ip")
	assert.True(t, allowed)
}

func TestCleanup_DropsExpiredRecords(t *testing.T) {
	rl, clock := newTestLimiter(t, 5)
	rl.Allow("old")
	clock.Advance(2 * time.Minute)
	rl.Allow("fresh")

	rl.cleanup()

	assert.NotContains(t, rl.attempts, "old")
	assert.Contains(t, rl.attempts, "fresh")
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.3")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
}
