package services

import (
	"net/http"
	"testing"
	"time"
)

func headerWith(remaining string) http.Header {
	h := http.Header{}
	h.Set(RatelimitHeader, remaining)
	return h
}

func TestRateLimiterIntervals(t *testing.T) {
	tests := []struct {
		name      string
		remaining string
		want      time.Duration
	}{
		{"healthy quota", "42", minInterval},
		{"just above low threshold", "6", minInterval},
		{"low quota", "5", slowInterval},
		{"low quota boundary", "3", slowInterval},
		{"critical quota", "2", pauseInterval},
		{"exhausted quota", "0", pauseInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewRateLimiter()
			limiter.UpdateFromHeaders(headerWith(tt.remaining))
			if got := limiter.Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLimiterDefaultsToNormalInterval(t *testing.T) {
	limiter := NewRateLimiter()
	if got := limiter.Interval(); got != minInterval {
		t.Errorf("Interval() = %v, want %v", got, minInterval)
	}
	if got := limiter.Remaining(); got != -1 {
		t.Errorf("Remaining() = %d, want -1", got)
	}
}

func TestRateLimiterIgnoresBadHeaders(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.UpdateFromHeaders(headerWith("2"))

	limiter.UpdateFromHeaders(http.Header{})
	if got := limiter.Remaining(); got != 2 {
		t.Errorf("Remaining() = %d after missing header, want 2", got)
	}

	limiter.UpdateFromHeaders(headerWith("not a number"))
	if got := limiter.Remaining(); got != 2 {
		t.Errorf("Remaining() = %d after garbage header, want 2", got)
	}
	if got := limiter.Interval(); got != pauseInterval {
		t.Errorf("Interval() = %v, want %v", got, pauseInterval)
	}
}

func TestRateLimiterRecovers(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.UpdateFromHeaders(headerWith("1"))
	if got := limiter.Interval(); got != pauseInterval {
		t.Fatalf("Interval() = %v, want %v", got, pauseInterval)
	}

	limiter.UpdateFromHeaders(headerWith("55"))
	if got := limiter.Interval(); got != minInterval {
		t.Errorf("Interval() = %v after quota reset, want %v", got, minInterval)
	}
}
