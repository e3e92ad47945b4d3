package regimen

import (
	"strconv"
	"strings"

	"github.com/giygas/polypill-api/catalog"
	"github.com/google/uuid"
)

// Lookup resolves a drug name to its catalog entry
type Lookup interface {
	FindByName(name string) (catalog.Entry, bool)
}

// AddRequest carries the raw shell input for AddMedication
type AddRequest struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Quantity string `json:"quantity"`
}

// Builder applies add and remove operations against a catalog
type Builder struct {
	catalog Lookup
	newID   func() string
}

// Option configures a Builder
type Option func(*Builder)

// WithIDGenerator replaces the default UUID generator
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) {
		b.newID = gen
	}
}

// NewBuilder creates a builder resolving names against c
func NewBuilder(c Lookup, opts ...Option) *Builder {
	b := &Builder{
		catalog: c,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddMedication appends a new item resolved from the catalog. On failure the
// returned state is the input state and the error is a *ValidationError.
func (b *Builder) AddMedication(s State, req AddRequest) (State, []Event, error) {
	name := strings.TrimSpace(req.Name)
	dosage := strings.TrimSpace(req.Dosage)

	if name == "" || dosage == "" {
		field := "name"
		if name != "" {
			field = "dosage"
		}
		return s, []Event{Failure("Select a medication and enter a dosage")},
			&ValidationError{Field: field, Reason: "required"}
	}

	quantity, err := ParseQuantity(req.Quantity)
	if err != nil {
		return s, []Event{Failure("Quantity must be a whole number between 1 and " + strconv.Itoa(MaxQuantity))}, err
	}

	entry, ok := b.catalog.FindByName(name)
	if !ok {
		return s, []Event{Failure("Unknown medication: " + name)},
			&ValidationError{Field: "name", Reason: "not in catalog"}
	}

	next := s.Clone()
	next.Items = append(next.Items, Item{
		ID:           b.uniqueID(s),
		Name:         entry.Name,
		Dosage:       dosage,
		Quantity:     quantity,
		Category:     entry.Category,
		PricePerPack: entry.PricePerPack,
	})

	return next, []Event{Success("Medication added to the regimen")}, nil
}

// RemoveMedication drops the item with the given id. An unknown id leaves the
// state untouched and produces no events.
func (b *Builder) RemoveMedication(s State, id string) (State, []Event) {
	idx := -1
	for i, it := range s.Items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, nil
	}

	next := s.Clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)

	return next, []Event{Info("Medication removed from the regimen")}
}

func (b *Builder) uniqueID(s State) string {
	for {
		id := b.newID()
		if _, taken := s.Find(id); !taken {
			return id
		}
	}
}

// ParseQuantity reads the course length. Empty input means DefaultQuantity.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultQuantity, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}
	if n < 1 || n > MaxQuantity {
		return 0, &ValidationError{Field: "quantity", Reason: "must be between 1 and " + strconv.Itoa(MaxQuantity)}
	}

	return n, nil
}
