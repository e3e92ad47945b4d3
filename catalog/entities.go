// Package catalog holds the static reference data of the polypill builder:
// the medications that can be added to a regimen, the known pairwise
// interactions between them and the promo codes accepted at checkout.
package catalog

import "fmt"

// Entry is one purchasable medication.
type Entry struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	CommonDosage string `json:"commonDosage"`
	PricePerPack int    `json:"pricePerPack"`
}

// Severity classifies an interaction rule.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity converts a raw string into a Severity, rejecting unknown values
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Rank orders severities from least to most serious. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// InteractionRule is a known caution between two drugs. The pair is unordered.
type InteractionRule struct {
	DrugA       string   `json:"drugA"`
	DrugB       string   `json:"drugB"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Involves reports whether the rule mentions the given drug name
func (r InteractionRule) Involves(name string) bool {
	key := nameKey(name)
	return nameKey(r.DrugA) == key || nameKey(r.DrugB) == key
}

// PromoCode unlocks a percentage discount on the regimen subtotal.
type PromoCode struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	Description     string `json:"description"`
}
