package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/polypill-api/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		expectedCost int64
	}{
		{"metrics", http.MethodGet, "/metrics", 0},
		{"health", http.MethodGet, "/health", 5},
		{"full catalog", http.MethodGet, "/v1/catalog", 20},
		{"catalog lookup", http.MethodGet, "/v1/catalog/Aspirin", 10},
		{"interaction rules", http.MethodGet, "/v1/interactions/rules", 10},
		{"create session", http.MethodPost, "/v1/sessions", 50},
		{"view session", http.MethodGet, "/v1/sessions/abc", 5},
		{"add medication", http.MethodPost, "/v1/sessions/abc/medications", 5},
		{"apply promo", http.MethodPost, "/v1/sessions/abc/promo", 5},
		{"place order", http.MethodPost, "/v1/sessions/abc/order", 30},
		{"sessions collection GET", http.MethodGet, "/v1/sessions", 20},
		{"unknown path", http.MethodGet, "/unknown", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if cost := getTokenCost(req); cost != tt.expectedCost {
				t.Errorf("Expected cost %d for %s %s, got %d", tt.expectedCost, tt.method, tt.path, cost)
			}
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	// 1000 tokens at 50 per session creation
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After 60, got %q", rr.Header().Get("Retry-After"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("Expected remaining 0, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("Expected JSON error body, got %s", rr.Body.String())
	}

	// Another client has its own bucket
	req = httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	req.RemoteAddr = "203.0.113.8:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected other client to pass, got %d", rr.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	full := rl.getBucket("198.51.100.1")
	drained := rl.getBucket("198.51.100.2")
	drained.TakeAvailable(500)
	_ = full

	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	if _, ok := rl.clients["198.51.100.1"]; ok {
		t.Error("Expected full bucket to be removed")
	}
	if _, ok := rl.clients["198.51.100.2"]; !ok {
		t.Error("Expected drained bucket to be kept")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

func TestRealIPMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		expected   string
	}{
		{"single forwarded ip", "203.0.113.1", "192.168.1.1:12345", "203.0.113.1"},
		{"forwarded chain", "203.0.113.1, 10.0.0.1", "192.168.1.1:12345", "203.0.113.1"},
		{"no header", "", "192.168.1.1:12345", "192.168.1.1:12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}

			var seen string
			RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r.RemoteAddr
			})).ServeHTTP(httptest.NewRecorder(), req)

			if seen != tt.expected {
				t.Errorf("Expected RemoteAddr %s, got %s", tt.expected, seen)
			}
		})
	}
}

func TestBlockDirectAccessMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		remoteAddr     string
		headers        map[string]string
		expectedStatus int
	}{
		{"localhost ipv4", "127.0.0.1:12345", nil, http.StatusOK},
		{"localhost ipv6", "[::1]:12345", nil, http.StatusOK},
		{"direct external", "203.0.113.5:12345", nil, http.StatusForbidden},
		{"via proxy real ip", "10.0.0.2:12345", map[string]string{"X-Real-IP": "203.0.113.5"}, http.StatusOK},
		{"via proxy forwarded", "10.0.0.2:12345", map[string]string{"X-Forwarded-For": "203.0.113.5"}, http.StatusOK},
		{"unparseable addr", "203.0.113.5", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			BlockDirectAccessMiddleware(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 64, MaxHeaderSize: 128}

	tests := []struct {
		name           string
		body           string
		header         string
		expectedStatus int
	}{
		{"small request", `{"code":"HEALTH10"}`, "", http.StatusOK},
		{"body too large", strings.Repeat("x", 65), "", http.StatusRequestEntityTooLarge},
		{"headers too large", "", strings.Repeat("h", 200), http.StatusRequestHeaderFieldsTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("X-Padding", tt.header)
			}
			rr := httptest.NewRecorder()

			RequestSizeMiddleware(cfg)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
					t.Errorf("Expected JSON error, got Content-Type %s", ct)
				}
			}
		})
	}
}
