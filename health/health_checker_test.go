package health

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/regimen"
)

type mockCatalogStore struct {
	catalog     *catalog.Catalog
	lastUpdated time.Time
	updating    bool
	reloadErr   error
}

func (m *mockCatalogStore) GetCatalog() *catalog.Catalog     { return m.catalog }
func (m *mockCatalogStore) UpdateCatalog(c *catalog.Catalog) { m.catalog = c }
func (m *mockCatalogStore) GetLastUpdated() time.Time        { return m.lastUpdated }
func (m *mockCatalogStore) GetServerStartTime() time.Time    { return time.Now().Add(-time.Minute) }
func (m *mockCatalogStore) IsUpdating() bool                 { return m.updating }
func (m *mockCatalogStore) BeginUpdate() bool                { return true }
func (m *mockCatalogStore) EndUpdate()                       {}
func (m *mockCatalogStore) SetReloadError(err error)         { m.reloadErr = err }
func (m *mockCatalogStore) GetReloadError() error            { return m.reloadErr }

type mockSessions struct {
	count int
}

func (m *mockSessions) Create() (string, regimen.State, error)  { return "", regimen.State{}, nil }
func (m *mockSessions) Get(string) (regimen.State, error)       { return regimen.State{}, nil }
func (m *mockSessions) Delete(string) bool                      { return false }
func (m *mockSessions) EvictIdle(time.Duration) int             { return 0 }
func (m *mockSessions) Count() int                              { return m.count }
func (m *mockSessions) Update(string, func(regimen.State) regimen.State) (regimen.State, error) {
	return regimen.State{}, nil
}

var (
	_ interfaces.CatalogStore = (*mockCatalogStore)(nil)
	_ interfaces.SessionStore = (*mockSessions)(nil)
)

func TestHealthCheck(t *testing.T) {
	now := time.Now()
	empty := catalog.MustNew(nil, nil, nil)

	tests := []struct {
		name           string
		store          *mockCatalogStore
		sessions       int
		reloadInterval time.Duration
		expectedStatus string
		expectedHTTP   int
	}{
		{
			name:           "healthy built-in catalog",
			store:          &mockCatalogStore{catalog: catalog.Default(), lastUpdated: now.Add(-72 * time.Hour)},
			expectedStatus: "healthy",
			expectedHTTP:   http.StatusOK,
		},
		{
			name:           "empty catalog",
			store:          &mockCatalogStore{catalog: empty, lastUpdated: now},
			expectedStatus: "unhealthy",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "never loaded",
			store:          &mockCatalogStore{catalog: catalog.Default()},
			expectedStatus: "unhealthy",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "session capacity reached",
			store:          &mockCatalogStore{catalog: catalog.Default(), lastUpdated: now},
			sessions:       10,
			expectedStatus: "degraded",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "stale reloaded catalog",
			store:          &mockCatalogStore{catalog: catalog.Default(), lastUpdated: now.Add(-30 * time.Hour)},
			reloadInterval: 12 * time.Hour,
			expectedStatus: "degraded",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "fresh reloaded catalog",
			store:          &mockCatalogStore{catalog: catalog.Default(), lastUpdated: now.Add(-13 * time.Hour)},
			reloadInterval: 12 * time.Hour,
			expectedStatus: "healthy",
			expectedHTTP:   http.StatusOK,
		},
		{
			name: "last reload failed",
			store: &mockCatalogStore{catalog: catalog.Default(), lastUpdated: now,
				reloadErr: errors.New("bad file")},
			reloadInterval: 12 * time.Hour,
			expectedStatus: "degraded",
			expectedHTTP:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker(tt.store, &mockSessions{count: tt.sessions}, 10, tt.reloadInterval)
			status, _, httpStatus := checker.HealthCheck()

			if status != tt.expectedStatus {
				t.Errorf("Expected status %s, got %s", tt.expectedStatus, status)
			}
			if httpStatus != tt.expectedHTTP {
				t.Errorf("Expected HTTP %d, got %d", tt.expectedHTTP, httpStatus)
			}
		})
	}
}

func TestHealthCheckData(t *testing.T) {
	store := &mockCatalogStore{catalog: catalog.Default(), lastUpdated: time.Now(), reloadErr: errors.New("bad file")}
	_, data, _ := NewHealthChecker(store, &mockSessions{count: 3}, 10, 0).HealthCheck()

	if data["medications"] != 28 {
		t.Errorf("Expected 28 medications, got %v", data["medications"])
	}
	if data["interaction_rules"] != 4 {
		t.Errorf("Expected 4 rules, got %v", data["interaction_rules"])
	}
	if data["promo_codes"] != 3 {
		t.Errorf("Expected 3 promo codes, got %v", data["promo_codes"])
	}
	if data["active_sessions"] != 3 {
		t.Errorf("Expected 3 sessions, got %v", data["active_sessions"])
	}
	if data["last_reload_error"] != "bad file" {
		t.Errorf("Expected reload error in data, got %v", data["last_reload_error"])
	}
	if _, ok := data["uptime_seconds"]; !ok {
		t.Error("Expected uptime_seconds in data")
	}
}
