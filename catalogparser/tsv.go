package catalogparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/giygas/polypill-api/catalog"
)

const (
	MedicationsFile  = "medications.tsv"
	InteractionsFile = "interactions.tsv"
	PromoCodesFile   = "promocodes.tsv"
)

// parsePrice accepts whole currency units with optional thousands
// separators: "1200", "1 200", "1,200"
func parsePrice(s string) (int, error) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", "", "_", "").Replace(s)
	price, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price value '%s': %w", s, err)
	}
	return price, nil
}

// parsePercent accepts "15" or "15%"
func parsePercent(s string) (int, error) {
	pct, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid percent value '%s': %w", s, err)
	}
	return pct, nil
}

// parseMedications reads name, category, common dosage, price rows
func parseMedications(r io.Reader) ([]catalog.Entry, skipStats, error) {
	var entries []catalog.Entry

	stats, err := scanRows(r, 4, func(f []string) bool {
		if f[0] == "" {
			return false
		}
		price, err := parsePrice(f[3])
		if err != nil || price <= 0 {
			return false
		}
		entries = append(entries, catalog.Entry{
			Name:         f[0],
			Category:     f[1],
			CommonDosage: f[2],
			PricePerPack: price,
		})
		return true
	})

	return entries, stats, err
}

// parseInteractions reads drug A, drug B, severity, description rows
func parseInteractions(r io.Reader) ([]catalog.InteractionRule, skipStats, error) {
	var rules []catalog.InteractionRule

	stats, err := scanRows(r, 3, func(f []string) bool {
		if f[0] == "" || f[1] == "" {
			return false
		}
		severity, err := catalog.ParseSeverity(strings.ToLower(f[2]))
		if err != nil {
			return false
		}
		rule := catalog.InteractionRule{DrugA: f[0], DrugB: f[1], Severity: severity}
		if len(f) > 3 {
			rule.Description = f[3]
		}
		rules = append(rules, rule)
		return true
	})

	return rules, stats, err
}

// parsePromoCodes reads code, percent, description rows
func parsePromoCodes(r io.Reader) ([]catalog.PromoCode, skipStats, error) {
	var promos []catalog.PromoCode

	stats, err := scanRows(r, 2, func(f []string) bool {
		if f[0] == "" {
			return false
		}
		pct, err := parsePercent(f[1])
		if err != nil || pct < 0 || pct > 100 {
			return false
		}
		promo := catalog.PromoCode{Code: f[0], DiscountPercent: pct}
		if len(f) > 2 {
			promo.Description = f[2]
		}
		promos = append(promos, promo)
		return true
	})

	return promos, stats, err
}
