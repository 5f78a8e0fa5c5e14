package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(60, 2, nil)
	defer rl.Close()

	assert.True(t, rl.Allow("ip:192.0.2.1"))
	assert.True(t, rl.Allow("ip:192.0.2.1"))
	assert.False(t, rl.Allow("ip:192.0.2.1"), "burst exhausted")
	assert.True(t, rl.Allow("ip:192.0.2.2"), "keys are limited independently")

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, 2, stats["burst_capacity"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 0.001)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1, nil)
	defer rl.Close()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }
	rl.GetLimiter("stale")

	rl.now = func() time.Time { return start.Add(20 * time.Minute) }
	rl.GetLimiter("fresh")
	rl.cleanup(10 * time.Minute)

	assert.Equal(t, 1, rl.GetStats()["active_limiters"])
	rl.mu.Lock()
	_, stale := rl.limiters["stale"]
	_, fresh := rl.limiters["fresh"]
	rl.mu.Unlock()
	assert.False(t, stale)
	assert.True(t, fresh)
}

func TestRateLimiterCloseTwice(t *testing.T) {
	rl := NewRateLimiter(60, 1, nil)
	rl.Close()
	require.NotPanics(t, rl.Close)
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{"api key preferred", map[string]string{"X-API-Key": "k1"}, true, true, "api:k1"},
		{"bearer token", map[string]string{"Authorization": "Bearer k2"}, true, false, "api:k2"},
		{"falls back to ip", nil, true, true, "ip:192.0.2.7"},
		{"api key ignored when disabled", map[string]string{"X-API-Key": "k1"}, false, true, "ip:192.0.2.7"},
		{"nothing enabled", nil, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/scores", nil)
			r.RemoteAddr = "192.0.2.7:5555"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getRateLimitKey(r, tt.byAPIKey, tt.byIP))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "198.51.100.4:8080", "198.51.100.4"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "garbage, 203.0.113.9, 10.0.0.1"}, "10.0.0.2:1", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.5"}, "10.0.0.2:1", "203.0.113.5"},
		{"invalid real ip", map[string]string{"X-Real-IP": "nope"}, "10.0.0.2:1", "10.0.0.2"},
		{"remote without port", nil, "198.51.100.4", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestMaskKeys(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijklmnop"))
	assert.Equal(t, "api:abcdefgh****", maskRateLimitKey("api:abcdefghijk"))
	assert.Equal(t, "ip:192.0.2.1", maskRateLimitKey("ip:192.0.2.1"))
}
