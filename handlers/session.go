package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/giygas/polypill-api/data"
	"github.com/giygas/polypill-api/engine"
	"github.com/giygas/polypill-api/logging"
	"github.com/giygas/polypill-api/metrics"
	"github.com/giygas/polypill-api/regimen"
	"github.com/go-chi/chi/v5"
)

// quantityField accepts the course length as a JSON string or number
type quantityField string

func (q *quantityField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = quantityField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = quantityField(n.String())
	return nil
}

type addMedicationRequest struct {
	Name     string        `json:"name"`
	Dosage   string        `json:"dosage"`
	Quantity quantityField `json:"quantity"`
}

type applyPromoRequest struct {
	Code string `json:"code"`
}

// sessionID reads and validates the {id} route parameter. It writes the error
// response itself and returns false when the id is unusable.
func (h *HTTPHandlerImpl) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := h.validator.ValidateSessionID(id); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid session id")
		return "", false
	}
	return id, true
}

func (h *HTTPHandlerImpl) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrSessionNotFound):
		h.RespondWithError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, data.ErrTooManySessions):
		h.RespondWithError(w, http.StatusServiceUnavailable, "Too many active sessions, try again later")
	default:
		logging.Error("Session store failure", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// CreateSession starts an empty regimen
func (h *HTTPHandlerImpl) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, state, err := h.sessions.Create()
	if err != nil {
		logging.Warn("Session not created", "error", err)
		h.respondStoreError(w, err)
		return
	}
	h.syncSessionGauge()

	view := buildView(id, state, h.catalogStore.GetCatalog(), nil)
	w.Header().Set("Location", "/v1/sessions/"+id)
	h.RespondWithJSON(w, http.StatusCreated, view)
}

// GetSession renders the current regimen
func (h *HTTPHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.Get(id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, buildView(id, state, h.catalogStore.GetCatalog(), nil))
}

// DeleteSession discards a regimen
func (h *HTTPHandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if !h.sessions.Delete(id) {
		h.RespondWithError(w, http.StatusNotFound, "Session not found")
		return
	}
	h.syncSessionGauge()

	w.WriteHeader(http.StatusNoContent)
}

// AddMedication resolves a medication from the catalog and appends it
func (h *HTTPHandlerImpl) AddMedication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req addMedicationRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Empty fields are left to the builder, which reports them as events
	if strings.TrimSpace(req.Name) != "" {
		if err := h.validator.ValidateInput(req.Name); err != nil {
			logging.Warn("Unusual user input", "name", req.Name, "error", err)
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if strings.TrimSpace(req.Dosage) != "" {
		if err := h.validator.ValidateDosage(req.Dosage); err != nil {
			logging.Warn("Unusual user input", "dosage", req.Dosage, "error", err)
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cat := h.catalogStore.GetCatalog()
	builder := regimen.NewBuilder(cat)

	var (
		events []regimen.Event
		addErr error
	)
	state, err := h.sessions.Update(id, func(s regimen.State) regimen.State {
		var next regimen.State
		next, events, addErr = builder.AddMedication(s, regimen.AddRequest{
			Name:     req.Name,
			Dosage:   req.Dosage,
			Quantity: string(req.Quantity),
		})
		return next
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	view := buildView(id, state, cat, events)
	if addErr != nil {
		metrics.MedicationsAdded.WithLabelValues("rejected").Inc()
		view.Error = addErr.Error()
		h.RespondWithJSON(w, http.StatusUnprocessableEntity, view)
		return
	}

	metrics.MedicationsAdded.WithLabelValues("added").Inc()
	countNewWarnings(state.Items, cat)

	h.RespondWithJSON(w, http.StatusOK, view)
}

// countNewWarnings records the pairs formed by the last item of the regimen
func countNewWarnings(items []regimen.Item, rules engine.RuleIndex) {
	if len(items) < 2 {
		return
	}
	added := items[len(items)-1]
	for _, prev := range items[:len(items)-1] {
		if rule, ok := rules.RuleFor(prev.Name, added.Name); ok {
			metrics.InteractionWarnings.WithLabelValues(string(rule.Severity)).Inc()
		}
	}
}

// RemoveMedication drops one item. Unknown item ids are ignored.
func (h *HTTPHandlerImpl) RemoveMedication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemId")

	builder := regimen.NewBuilder(h.catalogStore.GetCatalog())

	var events []regimen.Event
	state, err := h.sessions.Update(id, func(s regimen.State) regimen.State {
		var next regimen.State
		next, events = builder.RemoveMedication(s, itemID)
		return next
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, buildView(id, state, h.catalogStore.GetCatalog(), events))
}

// ApplyPromo activates a promo code on the regimen
func (h *HTTPHandlerImpl) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req applyPromoRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	code := strings.TrimSpace(req.Code)
	if err := h.validator.ValidatePromoCode(code); err != nil {
		// No such code can exist; the core still decides which error wins
		logging.Debug("Promo code rejected by shape", "error", err)
		code = ""
	}

	cat := h.catalogStore.GetCatalog()

	var (
		events   []regimen.Event
		promoErr error
	)
	state, err := h.sessions.Update(id, func(s regimen.State) regimen.State {
		var next regimen.State
		next, events, promoErr = engine.ApplyPromoCode(s, cat, code)
		return next
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	view := buildView(id, state, cat, events)
	switch {
	case errors.Is(promoErr, engine.ErrPromoAlreadyApplied):
		metrics.PromoApplications.WithLabelValues("already_applied").Inc()
	case promoErr != nil:
		metrics.PromoApplications.WithLabelValues("invalid").Inc()
	default:
		metrics.PromoApplications.WithLabelValues("applied").Inc()
		h.RespondWithJSON(w, http.StatusOK, view)
		return
	}

	view.Error = promoErr.Error()
	h.RespondWithJSON(w, http.StatusUnprocessableEntity, view)
}

// PlaceOrder prices the regimen and returns a confirmation. The regimen is
// kept so the visitor can still see what was ordered.
func (h *HTTPHandlerImpl) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sessions.Get(id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	confirmation, events, orderErr := engine.PlaceOrder(state, h.now())
	view := buildView(id, state, h.catalogStore.GetCatalog(), events)
	if orderErr != nil {
		view.Error = orderErr.Error()
		h.RespondWithJSON(w, http.StatusUnprocessableEntity, view)
		return
	}

	metrics.OrdersPlaced.Inc()
	logging.Info("Order placed",
		"session_id", id,
		"order_number", confirmation.OrderNumber,
		"items", state.Len(),
		"total", confirmation.Total)

	view.Order = &confirmation
	h.RespondWithJSON(w, http.StatusOK, view)
}
