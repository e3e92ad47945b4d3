// Package validation sanitises shell input for the polypill API and reports
// on the quality of loaded catalog data.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/logging"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Compiled once at package initialization
var (
	// Letters of any script, digits, spaces and the punctuation found in drug names
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+'()/]+$`)

	// Dosages like "500mg", "1.5 mg/ml", "10 000 IU", "0,5%"
	dosageRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\.,/%\-µ]+$`)

	promoRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,32}$`)

	// Matched as lowercase substrings
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "eval(", "expression(", "url(",
		"@import", "binding(", "behavior(",
		// SQL injection
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		// Command injection
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}
)

const (
	maxNameLength   = 60
	maxDosageLength = 40
	maxNameWords    = 6
)

// Validator implements interfaces.InputValidator
type Validator struct{}

// NewValidator creates a new input validator
func NewValidator() interfaces.InputValidator {
	return &Validator{}
}

// ValidateInput checks a medication name typed by the visitor
func (v *Validator) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(trimmed) > maxNameLength {
		return fmt.Errorf("input too long: maximum %d characters", maxNameLength)
	}

	if len(strings.Fields(trimmed)) > maxNameWords {
		return fmt.Errorf("input too complex: maximum %d words allowed", maxNameWords)
	}

	if containsDangerousPattern(trimmed) {
		return fmt.Errorf("input contains potentially dangerous content")
	}

	if !nameRegex.MatchString(trimmed) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, parentheses, slashes and plus sign are allowed")
	}

	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateDosage checks a free-text dosage such as "500mg"
func (v *Validator) ValidateDosage(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("dosage cannot be empty")
	}

	if len(trimmed) > maxDosageLength {
		return fmt.Errorf("dosage too long: maximum %d characters", maxDosageLength)
	}

	if containsDangerousPattern(trimmed) {
		return fmt.Errorf("dosage contains potentially dangerous content")
	}

	if !dosageRegex.MatchString(trimmed) {
		return fmt.Errorf("dosage contains invalid characters")
	}

	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("dosage contains excessive character repetition")
	}

	return nil
}

// ValidatePromoCode checks the shape of a promo code; whether it exists is
// decided by the catalog
func (v *Validator) ValidatePromoCode(input string) error {
	if !promoRegex.MatchString(strings.TrimSpace(input)) {
		return fmt.Errorf("promo code must be 1 to 32 letters or digits")
	}
	return nil
}

// ValidateSessionID checks that a session id is a UUID
func (v *Validator) ValidateSessionID(input string) error {
	if err := uuid.Validate(input); err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	return nil
}

// ReportCatalogQuality inspects raw catalog tables before they are indexed
// and logs what it finds. It never rejects data; catalog.New does that.
func (v *Validator) ReportCatalogQuality(
	entries []catalog.Entry,
	rules []catalog.InteractionRule,
	promos []catalog.PromoCode,
) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{
		DuplicateNames:          []string{},
		DuplicateRulePairs:      []string{},
		UnknownRuleDrugs:        []string{},
		PromoCodesOver50Percent: []string{},
	}

	fold := cases.Fold()
	key := func(s string) string { return fold.String(strings.TrimSpace(s)) }

	// Check 1: names repeated modulo case
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		k := key(e.Name)
		if known[k] {
			report.DuplicateNames = append(report.DuplicateNames, e.Name)
		}
		known[k] = true
	}

	// Check 2: pairs covered by several rules, only the first one is used
	pairs := make(map[string]int)
	involved := make(map[string]bool)
	unknown := make(map[string]bool)
	for _, r := range rules {
		a, b := key(r.DrugA), key(r.DrugB)
		if b < a {
			a, b = b, a
		}
		pairs[a+"\x00"+b]++
		if pairs[a+"\x00"+b] == 2 {
			report.DuplicateRulePairs = append(report.DuplicateRulePairs, r.DrugA+" / "+r.DrugB)
		}

		// Check 3: rule drugs missing from the medication table
		for _, name := range []string{r.DrugA, r.DrugB} {
			k := key(name)
			involved[k] = true
			if !known[k] && !unknown[k] {
				unknown[k] = true
				report.UnknownRuleDrugs = append(report.UnknownRuleDrugs, name)
			}
		}
	}

	// Check 4: medications no rule mentions
	counted := make(map[string]bool, len(entries))
	for _, e := range entries {
		k := key(e.Name)
		if !involved[k] && !counted[k] {
			report.MedicationsWithoutRules++
		}
		counted[k] = true
	}

	// Check 5: unusually generous promo codes
	for _, p := range promos {
		if p.DiscountPercent > 50 {
			report.PromoCodesOver50Percent = append(report.PromoCodesOver50Percent, p.Code)
		}
	}

	sort.Strings(report.UnknownRuleDrugs)

	logReport(report, len(entries), len(rules), len(promos))
	return report
}

func logReport(r *interfaces.CatalogQualityReport, entries, rules, promos int) {
	if len(r.DuplicateNames) > 0 {
		logging.Warn("Duplicate medication names detected", "count", len(r.DuplicateNames), "names", r.DuplicateNames)
	}
	if len(r.DuplicateRulePairs) > 0 {
		logging.Warn("Interaction pairs covered by several rules, first one wins",
			"count", len(r.DuplicateRulePairs), "pairs", r.DuplicateRulePairs)
	}
	if len(r.UnknownRuleDrugs) > 0 {
		logging.Warn("Interaction rules reference unknown medications", "names", r.UnknownRuleDrugs)
	}
	if len(r.PromoCodesOver50Percent) > 0 {
		logging.Warn("Promo codes with discounts above 50%", "codes", r.PromoCodesOver50Percent)
	}

	logging.Info("Catalog quality report",
		"medications", entries,
		"rules", rules,
		"promo_codes", promos,
		"medications_without_rules", r.MedicationsWithoutRules)
}

func containsDangerousPattern(input string) bool {
	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition reports the same rune repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	run := 0
	var prev rune = -1
	for _, r := range input {
		if r == prev {
			run++
			if run > 10 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
