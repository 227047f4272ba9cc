package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded for", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", "", "198.51.100.7", "10.0.0.2:1234", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:5678", "192.0.2.1"},
		{"remote addr no port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientKey_PrefersUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "u1"))

	key, err := ratelimit.ClientKey(req)
	if err != nil {
		t.Fatalf("ClientKey: %v", err)
	}
	if key != "user:u1" {
		t.Errorf("key = %q, want %q", key, "user:u1")
	}
}

func TestPerClient_BlocksAfterLimit(t *testing.T) {
	h := ratelimit.PerClient(ratelimit.Config{Requests: 2, Window: time.Minute})(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.RemoteAddr = "192.0.2.10:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", codes[2])
	}
}

func TestPerClient_SeparateBucketsPerUser(t *testing.T) {
	h := ratelimit.PerClient(ratelimit.Config{Requests: 1, Window: time.Minute})(okHandler())

	for _, user := range []string{"alice", "bob"} {
		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.RemoteAddr = "192.0.2.10:1000"
		req = req.WithContext(auth.WithUserID(req.Context(), user))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("user %s: status = %d, want 200", user, rec.Code)
		}
	}
}

func TestPerClient_DisabledWhenZero(t *testing.T) {
	h := ratelimit.PerClient(ratelimit.Config{})(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}
