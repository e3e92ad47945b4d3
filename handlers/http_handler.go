// Package handlers provides the HTTP handlers of the polypill API: catalog
// browsing, per-visitor regimen sessions and health.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/logging"
	"github.com/giygas/polypill-api/metrics"
	"github.com/go-chi/chi/v5"
)

// Compile-time check
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	catalogStore interfaces.CatalogStore
	sessions     interfaces.SessionStore
	validator    interfaces.InputValidator
	health       interfaces.HealthChecker
	now          func() time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(catalogStore interfaces.CatalogStore, sessions interfaces.SessionStore,
	validator interfaces.InputValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		catalogStore: catalogStore,
		sessions:     sessions,
		validator:    validator,
		health:       health,
		now:          time.Now,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ListCatalog returns every medication in catalog order
func (h *HTTPHandlerImpl) ListCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	h.RespondWithJSON(w, http.StatusOK, h.catalogStore.GetCatalog().ListAll())
}

// FindMedication looks a medication up by exact name, ignoring case
func (h *HTTPHandlerImpl) FindMedication(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		logging.Warn("Unusual user input", "name", name, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, ok := h.catalogStore.GetCatalog().FindByName(name)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Medication not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, entry)
}

// ruleView is an interaction rule with the display hints of its severity
type ruleView struct {
	catalog.InteractionRule
	Display catalog.SeverityDisplay `json:"display"`
}

// ListInteractionRules returns the rule table with severity display metadata
func (h *HTTPHandlerImpl) ListInteractionRules(w http.ResponseWriter, r *http.Request) {
	rules := h.catalogStore.GetCatalog().ListInteractionRules()

	views := make([]ruleView, len(rules))
	for i, rule := range rules {
		views[i] = ruleView{InteractionRule: rule, Display: catalog.Display(rule.Severity)}
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	h.RespondWithJSON(w, http.StatusOK, views)
}

// HealthCheck reports service health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.health.HealthCheck()
	w.Header().Set("Cache-Control", "no-store")
	h.RespondWithJSON(w, httpStatus, map[string]any{
		"status": status,
		"data":   data,
	})
}

// syncSessionGauge publishes the live session count
func (h *HTTPHandlerImpl) syncSessionGauge() {
	metrics.ActiveSessions.Set(float64(h.sessions.Count()))
}
