package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/config"
	"github.com/giygas/polypill-api/data"
	"github.com/giygas/polypill-api/handlers"
	"github.com/giygas/polypill-api/health"
	"github.com/giygas/polypill-api/logging"
	"github.com/giygas/polypill-api/validation"
)

func testConfig(env config.Environment) *config.Config {
	return &config.Config{
		Port:           "0",
		Address:        "127.0.0.1",
		Env:            env,
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
		MaxSessions:    100,
		AllowedOrigins: []string{"https://polypill.example"},
	}
}

func newTestServer(t *testing.T, env config.Environment) *Server {
	t.Helper()
	logging.InitLogger("")

	store := data.NewDataContainer()
	store.UpdateCatalog(catalog.Default())
	sessions := data.NewSessionStore(100)
	checker := health.NewHealthChecker(store, sessions, 100, 0)
	h := handlers.NewHTTPHandler(store, sessions, validation.NewValidator(), checker)

	s := NewServer(testConfig(env), h)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "127.0.0.1:40000"
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	if s.server.Addr != "127.0.0.1:0" {
		t.Errorf("Expected addr 127.0.0.1:0, got %s", s.server.Addr)
	}
	if s.server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read timeout 15s, got %v", s.server.ReadTimeout)
	}
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"catalog", http.MethodGet, "/v1/catalog", http.StatusOK},
		{"catalog lookup", http.MethodGet, "/v1/catalog/Metformin", http.StatusOK},
		{"interaction rules", http.MethodGet, "/v1/interactions/rules", http.StatusOK},
		{"create session", http.MethodPost, "/v1/sessions", http.StatusCreated},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/v1/unknown", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/v1/catalog", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(s, tt.method, tt.path, "")
			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestSessionRoutesEndToEnd(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	rr := serve(s, http.MethodPost, "/v1/sessions", "")
	var view handlers.SessionView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	base := "/v1/sessions/" + view.SessionID

	rr = serve(s, http.MethodPost, base+"/medications", `{"name":"Metoprolol","dosage":"50 mg","quantity":"30"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	rr = serve(s, http.MethodPost, base+"/medications", `{"name":"Amlodipine","dosage":"5 mg"}`)
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if len(view.Interactions.Warnings) != 1 || view.Interactions.Warnings[0].Severity != catalog.SeverityMedium {
		t.Errorf("Expected one medium warning, got %+v", view.Interactions.Warnings)
	}

	if rr = serve(s, http.MethodGet, base, ""); rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for session view, got %d", rr.Code)
	}
	if rr = serve(s, http.MethodPost, base+"/order", ""); rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for order, got %d", rr.Code)
	}
	if rr = serve(s, http.MethodDelete, base, ""); rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for delete, got %d", rr.Code)
	}
}

func TestRequestIDHeaderIsAccepted(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Origin", "https://polypill.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://polypill.example" {
		t.Errorf("Expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allowed origin for foreign site, got %q", got)
	}
}

func TestDirectAccessBlockedInProduction(t *testing.T) {
	s := newTestServer(t, config.EnvProduction)

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	req.RemoteAddr = "203.0.113.9:40000"
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}

	dev := newTestServer(t, config.EnvDevelopment)
	rr = httptest.NewRecorder()
	dev.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 in dev, got %d", rr.Code)
	}
}

func TestShutdown(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Expected clean shutdown, got %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected Start to return nil after shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after shutdown")
	}
}
