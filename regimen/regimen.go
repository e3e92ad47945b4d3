// Package regimen models the ordered list of medications a visitor assembles
// into a polypill. State transitions are pure: every operation takes a State
// and returns a new one together with the notifications it produced.
package regimen

import (
	"errors"
	"fmt"
)

// DefaultQuantity is the course length used when none is given
const DefaultQuantity = 30

// MaxQuantity bounds the course length accepted on add
const MaxQuantity = 365

// Item is one medication in the regimen. Category and PricePerPack are copied
// from the catalog when the item is added and never re-resolved.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Quantity     int    `json:"quantity"`
	Category     string `json:"category"`
	PricePerPack int    `json:"pricePerPack"`
}

// AppliedPromo is the promo code active on a regimen
type AppliedPromo struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	Description     string `json:"description"`
}

// State is the whole session state of the builder
type State struct {
	Items []Item        `json:"items"`
	Promo *AppliedPromo `json:"appliedPromo,omitempty"`
}

// Len returns the number of items
func (s State) Len() int {
	return len(s.Items)
}

// Find returns the item with the given id
func (s State) Find(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Names returns the item names in regimen order
func (s State) Names() []string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name
	}
	return names
}

// Clone returns a deep copy so callers can modify it freely
func (s State) Clone() State {
	out := State{Items: make([]Item, len(s.Items))}
	copy(out.Items, s.Items)
	if s.Promo != nil {
		p := *s.Promo
		out.Promo = &p
	}
	return out
}

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Event is a notification for the shell to display
type Event struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Success builds a success event
func Success(msg string) Event { return Event{Level: LevelSuccess, Message: msg} }

// Failure builds an error event
func Failure(msg string) Event { return Event{Level: LevelError, Message: msg} }

// Info builds an info event
func Info(msg string) Event { return Event{Level: LevelInfo, Message: msg} }

// ErrValidation is matched by every ValidationError
var ErrValidation = errors.New("validation failed")

// ValidationError reports which input field was rejected and why
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
