package handlers

import (
	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/engine"
	"github.com/giygas/polypill-api/regimen"
)

// SessionView is what the browser renders after every action
type SessionView struct {
	SessionID    string                `json:"sessionId"`
	Items        []regimen.Item        `json:"items"`
	AppliedPromo *regimen.AppliedPromo `json:"appliedPromo"`
	Totals       engine.Totals         `json:"totals"`
	Interactions InteractionsView      `json:"interactions"`
	Events       []regimen.Event       `json:"events"`
	Order        *engine.Confirmation  `json:"order,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// InteractionsView is the interaction report with display hints
type InteractionsView struct {
	Status          engine.Status             `json:"status"`
	HighestSeverity catalog.Severity          `json:"highestSeverity,omitempty"`
	Display         *catalog.SeverityDisplay  `json:"display,omitempty"`
	Warnings        []catalog.InteractionRule `json:"warnings"`
	Groups          []engine.SeverityGroup    `json:"groups"`
}

// buildView prices the state and checks it against the current rules. Prices
// come from the item snapshots; only the interaction check reads the catalog.
func buildView(id string, s regimen.State, rules engine.RuleIndex, events []regimen.Event) SessionView {
	items := s.Items
	if items == nil {
		items = []regimen.Item{}
	}
	if events == nil {
		events = []regimen.Event{}
	}

	report := engine.CheckInteractions(s.Items, rules)
	interactions := InteractionsView{
		Status:          report.Status(),
		HighestSeverity: report.HighestSeverity(),
		Warnings:        report.Warnings,
		Groups:          report.GroupBySeverity(),
	}
	if interactions.Groups == nil {
		interactions.Groups = []engine.SeverityGroup{}
	}
	if interactions.HighestSeverity != "" {
		d := catalog.Display(interactions.HighestSeverity)
		interactions.Display = &d
	}

	return SessionView{
		SessionID:    id,
		Items:        items,
		AppliedPromo: s.Promo,
		Totals:       engine.ComputeTotals(s),
		Interactions: interactions,
		Events:       events,
	}
}
