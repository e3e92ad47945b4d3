// Package engine derives prices, promo discounts, interaction warnings and
// order confirmations from a regimen state. Everything here is a pure
// function of its inputs.
package engine

import (
	"errors"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/regimen"
)

var (
	ErrInvalidPromoCode    = errors.New("invalid promo code")
	ErrPromoAlreadyApplied = errors.New("a promo code is already applied")
)

// PromoBook resolves promo codes
type PromoBook interface {
	FindPromo(code string) (catalog.PromoCode, bool)
}

// Totals is the price breakdown of a regimen
type Totals struct {
	Subtotal        int `json:"subtotal"`
	DiscountPercent int `json:"discountPercent"`
	Discount        int `json:"discount"`
	Total           int `json:"total"`
}

// Subtotal sums the pack price of every item. Quantity is not a multiplier.
func Subtotal(items []regimen.Item) int {
	sum := 0
	for _, it := range items {
		sum += it.PricePerPack
	}
	return sum
}

// DiscountAmount rounds subtotal*percent/100 half-up. Both inputs are non-negative.
func DiscountAmount(subtotal, percent int) int {
	if subtotal <= 0 || percent <= 0 {
		return 0
	}
	return (subtotal*percent + 50) / 100
}

// ComputeTotals prices a state. Total is always Subtotal minus Discount.
func ComputeTotals(s regimen.State) Totals {
	t := Totals{Subtotal: Subtotal(s.Items)}
	if s.Promo != nil {
		t.DiscountPercent = s.Promo.DiscountPercent
		t.Discount = DiscountAmount(t.Subtotal, t.DiscountPercent)
	}
	t.Total = t.Subtotal - t.Discount
	return t
}

// ApplyPromoCode activates a promo code on the state. Lookup ignores case.
// A state that already carries a promo is rejected.
func ApplyPromoCode(s regimen.State, book PromoBook, code string) (regimen.State, []regimen.Event, error) {
	if s.Promo != nil {
		return s, []regimen.Event{regimen.Failure("A promo code is already applied")}, ErrPromoAlreadyApplied
	}

	promo, ok := book.FindPromo(code)
	if !ok {
		return s, []regimen.Event{regimen.Failure("Invalid promo code")}, ErrInvalidPromoCode
	}

	next := s.Clone()
	next.Promo = &regimen.AppliedPromo{
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent,
		Description:     promo.Description,
	}

	return next, []regimen.Event{regimen.Success("Promo code applied! " + promo.Description)}, nil
}
