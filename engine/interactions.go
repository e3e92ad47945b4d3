package engine

import (
	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/regimen"
)

// RuleIndex answers symmetric pair lookups
type RuleIndex interface {
	RuleFor(a, b string) (catalog.InteractionRule, bool)
}

// Status distinguishes an unchecked regimen from a clear one
type Status string

const (
	StatusNotChecked Status = "not_checked"
	StatusClear      Status = "clear"
	StatusWarnings   Status = "warnings"
)

// Report is the outcome of an interaction check. The zero value means the
// check has not run.
type Report struct {
	Checked  bool                      `json:"checked"`
	Warnings []catalog.InteractionRule `json:"warnings"`
}

// SeverityGroup collects the warnings of one severity
type SeverityGroup struct {
	Severity catalog.Severity          `json:"severity"`
	Display  catalog.SeverityDisplay   `json:"display"`
	Warnings []catalog.InteractionRule `json:"warnings"`
}

// CheckInteractions tests every pair of distinct positions (i < j) against the
// index. Warnings come out in (i, j) order. A drug present at two positions is
// checked at both, so it can produce one warning per position pair.
func CheckInteractions(items []regimen.Item, index RuleIndex) Report {
	r := Report{Checked: true, Warnings: []catalog.InteractionRule{}}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if rule, ok := index.RuleFor(items[i].Name, items[j].Name); ok {
				r.Warnings = append(r.Warnings, rule)
			}
		}
	}
	return r
}

// Status reports whether the check ran and found anything
func (r Report) Status() Status {
	switch {
	case !r.Checked:
		return StatusNotChecked
	case len(r.Warnings) == 0:
		return StatusClear
	default:
		return StatusWarnings
	}
}

// HighestSeverity returns the most serious severity found, or "" if none
func (r Report) HighestSeverity() catalog.Severity {
	var top catalog.Severity
	for _, w := range r.Warnings {
		if w.Severity.Rank() > top.Rank() {
			top = w.Severity
		}
	}
	return top
}

// GroupBySeverity buckets warnings from high to low, dropping empty buckets.
// Within a bucket the check order is kept.
func (r Report) GroupBySeverity() []SeverityGroup {
	order := []catalog.Severity{catalog.SeverityHigh, catalog.SeverityMedium, catalog.SeverityLow}

	var groups []SeverityGroup
	for _, sev := range order {
		var ws []catalog.InteractionRule
		for _, w := range r.Warnings {
			if w.Severity == sev {
				ws = append(ws, w)
			}
		}
		if len(ws) > 0 {
			groups = append(groups, SeverityGroup{Severity: sev, Display: catalog.Display(sev), Warnings: ws})
		}
	}
	return groups
}
