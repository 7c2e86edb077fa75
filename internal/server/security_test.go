package server

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnRateLimiter_SecondLimit(t *testing.T) {
	t.Parallel()

	// 5 conns/sec, 10 conns/min, 1s ban
	rl := NewConnRateLimiter(5, 10, 1*time.Second)
	ip := "127.0.0.1"

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(ip), "connection %d should be allowed", i)
	}

	// 6th connection blocked by per-second limit
	assert.False(t, rl.Allow(ip))
	// Still banned immediately after
	assert.False(t, rl.Allow(ip))
}

func TestConnRateLimiter_BanExpires(t *testing.T) {
	t.Parallel()

	rl := NewConnRateLimiter(2, 50, 500*time.Millisecond)
	ip := "192.168.1.1"

	assert.True(t, rl.Allow(ip))
	assert.True(t, rl.Allow(ip))
	assert.False(t, rl.Allow(ip))

	// Wait out both the ban and the second window
	time.Sleep(1100 * time.Millisecond)
	assert.True(t, rl.Allow(ip))
}

func TestConnRateLimiter_MinuteLimit(t *testing.T) {
	t.Parallel()

	// 100/sec but only 5/min
	rl := NewConnRateLimiter(100, 5, 1*time.Second)
	ip := "10.0.0.1"

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(ip))
	}

	assert.False(t, rl.Allow(ip))
}

func TestConnRateLimiter_Concurrency(t *testing.T) {
	t.Parallel()

	rl := NewConnRateLimiter(100, 200, 1*time.Second)
	var wg sync.WaitGroup
	successCount := 0
	var mu sync.Mutex

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("concurrent-test") {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Greater(t, successCount, 0)
	assert.LessOrEqual(t, successCount, 50)
}

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()

	ml := NewMessageRateLimiter(5)
	clientID := "client1"

	for i := 0; i < 5; i++ {
		assert.True(t, ml.Allow(clientID), "message %d should be allowed", i)
	}

	// 6th message blocked, strike recorded
	assert.False(t, ml.Allow(clientID))
	assert.Equal(t, 1, ml.Strikes(clientID))
}

func TestMessageRateLimiter_StrikesAccumulate(t *testing.T) {
	t.Parallel()

	ml := NewMessageRateLimiter(2)
	clientID := "spammer"

	for i := 0; i < 6; i++ {
		ml.Allow(clientID)
	}

	assert.Equal(t, 4, ml.Strikes(clientID))
}

func TestMessageRateLimiter_Remove(t *testing.T) {
	t.Parallel()

	ml := NewMessageRateLimiter(1)
	clientID := "temp-client"

	assert.True(t, ml.Allow(clientID))
	assert.False(t, ml.Allow(clientID))

	ml.Remove(clientID)

	// Fresh record after removal
	assert.True(t, ml.Allow(clientID))
	assert.Equal(t, 0, ml.Strikes(clientID))
}

func TestOriginChecker_AllowAll(t *testing.T) {
	t.Parallel()

	oc := NewOriginChecker([]string{"*"})
	req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")

	assert.True(t, oc.Check(req))
}

func TestOriginChecker_SpecificOrigins(t *testing.T) {
	t.Parallel()

	oc := NewOriginChecker([]string{"https://example.com", "https://app.example.com"})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://example.com", true},
		{"https://app.example.com", true},
		{"https://evil.com", false},
		{"http://example.com", false}, // Different scheme
		{"", true},                    // No origin header (same-origin or local)
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.allowed, oc.Check(req), "Origin: %s", tt.origin)
	}
}

func TestGetClientIP_ProxyHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expectedIP string
	}{
		{
			name:       "Direct connection",
			remoteAddr: "192.168.1.1:12345",
			headers:    map[string]string{},
			expectedIP: "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For single IP",
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1",
			},
			expectedIP: "203.0.113.1",
		},
		{
			name:       "X-Forwarded-For multiple IPs",
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1, 10.0.0.2, 10.0.0.3",
			},
			expectedIP: "203.0.113.1", // First IP is the original client
		},
		{
			name:       "X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"X-Real-IP": "203.0.113.2",
			},
			expectedIP: "203.0.113.2",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.3",
				"X-Real-IP":       "203.0.113.4",
			},
			expectedIP: "203.0.113.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.expectedIP, GetClientIP(req))
		})
	}
}
