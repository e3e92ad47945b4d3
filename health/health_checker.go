// Package health computes the health status of the polypill API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/polypill-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	catalogStore   interfaces.CatalogStore
	sessions       interfaces.SessionStore
	maxSessions    int
	reloadInterval time.Duration
}

// NewHealthChecker creates a health checker. reloadInterval is zero for the
// built-in catalog, which never goes stale.
func NewHealthChecker(catalogStore interfaces.CatalogStore, sessions interfaces.SessionStore,
	maxSessions int, reloadInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		catalogStore:   catalogStore,
		sessions:       sessions,
		maxSessions:    maxSessions,
		reloadInterval: reloadInterval,
	}
}

// HealthCheck returns the status, the data for the /health body and the HTTP code
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	c := h.catalogStore.GetCatalog()
	lastUpdate := h.catalogStore.GetLastUpdated()
	isUpdating := h.catalogStore.IsUpdating()
	reloadErr := h.catalogStore.GetReloadError()
	activeSessions := h.sessions.Count()

	catalogAge := time.Since(lastUpdate)
	stale := h.reloadInterval > 0 && catalogAge > 2*h.reloadInterval+time.Hour

	switch {
	case c.Len() == 0 || lastUpdate.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.maxSessions > 0 && activeSessions >= h.maxSessions:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case stale:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case reloadErr != nil:
		// The previous catalog is still served
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":       lastUpdate.Format(time.RFC3339),
		"catalog_age_hours": math.Round(catalogAge.Hours()*10) / 10,
		"medications":       c.Len(),
		"interaction_rules": len(c.ListInteractionRules()),
		"promo_codes":       len(c.ListPromoCodes()),
		"is_updating":       isUpdating,
		"active_sessions":   activeSessions,
	}

	if start := h.catalogStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int(time.Since(start).Seconds())
	}
	if reloadErr != nil {
		data["last_reload_error"] = reloadErr.Error()
	}

	return status, data, httpStatus
}
