package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Catalog is an immutable, indexed view over entries, rules and promo codes.
// It is safe for concurrent readers.
type Catalog struct {
	entries []Entry
	byName  map[string]int
	rules   []InteractionRule
	pairs   map[pairKey]int
	promos  []PromoCode
	byCode  map[string]int
}

// pairKey identifies an unordered drug pair; a <= b.
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	x, y = nameKey(x), nameKey(y)
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// nameKey normalises a drug name for lookups. Casers keep internal state,
// so a fresh one is built per call.
func nameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// PromoKey normalises a promo code the way lookups do: trimmed and uppercased
func PromoKey(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// New validates the given tables and builds their indexes
func New(entries []Entry, rules []InteractionRule, promos []PromoCode) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		rules:   make([]InteractionRule, 0, len(rules)),
		pairs:   make(map[pairKey]int, len(rules)),
		promos:  make([]PromoCode, 0, len(promos)),
		byCode:  make(map[string]int, len(promos)),
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("medication with empty name")
		}
		if e.PricePerPack <= 0 {
			return nil, fmt.Errorf("medication %q: price must be positive, got %d", e.Name, e.PricePerPack)
		}
		key := nameKey(e.Name)
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("duplicate medication name: %q", e.Name)
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	for i, r := range rules {
		if _, err := ParseSeverity(string(r.Severity)); err != nil {
			return nil, fmt.Errorf("interaction rule %d: %w", i, err)
		}
		if _, ok := c.byName[nameKey(r.DrugA)]; !ok {
			return nil, fmt.Errorf("interaction rule %d references unknown medication %q", i, r.DrugA)
		}
		if _, ok := c.byName[nameKey(r.DrugB)]; !ok {
			return nil, fmt.Errorf("interaction rule %d references unknown medication %q", i, r.DrugB)
		}
		key := newPairKey(r.DrugA, r.DrugB)
		if key.a == key.b {
			return nil, fmt.Errorf("interaction rule %d pairs %q with itself", i, r.DrugA)
		}
		// First rule for a pair wins
		if _, exists := c.pairs[key]; !exists {
			c.pairs[key] = len(c.rules)
		}
		c.rules = append(c.rules, r)
	}

	for _, p := range promos {
		code := PromoKey(p.Code)
		if code == "" {
			return nil, fmt.Errorf("promo code with empty code")
		}
		if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
			return nil, fmt.Errorf("promo code %q: discount must be between 0 and 100, got %d", code, p.DiscountPercent)
		}
		if _, exists := c.byCode[code]; exists {
			return nil, fmt.Errorf("duplicate promo code: %q", code)
		}
		p.Code = code
		c.byCode[code] = len(c.promos)
		c.promos = append(c.promos, p)
	}

	return c, nil
}

// MustNew is like New but panics on invalid tables
func MustNew(entries []Entry, rules []InteractionRule, promos []PromoCode) *Catalog {
	c, err := New(entries, rules, promos)
	if err != nil {
		panic(err)
	}
	return c
}

// FindByName returns the entry with the given name, ignoring case and surrounding spaces
func (c *Catalog) FindByName(name string) (Entry, bool) {
	i, ok := c.byName[nameKey(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ListAll returns the entries in table order
func (c *Catalog) ListAll() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ListInteractionRules returns the rules in table order
func (c *Catalog) ListInteractionRules() []InteractionRule {
	out := make([]InteractionRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// RuleFor returns the rule for the unordered pair {a, b}
func (c *Catalog) RuleFor(a, b string) (InteractionRule, bool) {
	i, ok := c.pairs[newPairKey(a, b)]
	if !ok {
		return InteractionRule{}, false
	}
	return c.rules[i], true
}

// FindPromo looks up a promo code case-insensitively
func (c *Catalog) FindPromo(code string) (PromoCode, bool) {
	i, ok := c.byCode[PromoKey(code)]
	if !ok {
		return PromoCode{}, false
	}
	return c.promos[i], true
}

// ListPromoCodes returns the promo codes in table order
func (c *Catalog) ListPromoCodes() []PromoCode {
	out := make([]PromoCode, len(c.promos))
	copy(out, c.promos)
	return out
}

// Len returns the number of medications
func (c *Catalog) Len() int {
	return len(c.entries)
}
