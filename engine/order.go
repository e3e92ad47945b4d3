package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/giygas/polypill-api/regimen"
)

var ErrEmptyRegimen = errors.New("regimen is empty")

// Confirmation is shown to the visitor after checkout. It is not persisted.
type Confirmation struct {
	OrderNumber string `json:"orderNumber"`
	Total       int    `json:"total"`
	Savings     int    `json:"savings"`
	Message     string `json:"message"`
}

// GenerateOrderNumber builds a display-only token ORD-<8 digits>-<3 digits>
// from the clock and a random component. It is not a unique identifier.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%08d-%03d", now.UnixMilli()%100_000_000, rand.IntN(1000))
}

// PlaceOrder prices the regimen and builds the confirmation message
func PlaceOrder(s regimen.State, now time.Time) (Confirmation, []regimen.Event, error) {
	if s.Len() == 0 {
		return Confirmation{}, []regimen.Event{regimen.Failure("Add at least one medication before ordering")}, ErrEmptyRegimen
	}

	totals := ComputeTotals(s)
	c := Confirmation{
		OrderNumber: GenerateOrderNumber(now),
		Total:       totals.Total,
		Savings:     totals.Discount,
	}

	if c.Savings > 0 {
		c.Message = fmt.Sprintf("Order placed! Number: %s. Amount due: %d₽ (you save %d₽)", c.OrderNumber, c.Total, c.Savings)
	} else {
		c.Message = fmt.Sprintf("Order placed! Number: %s. Total: %d₽", c.OrderNumber, c.Total)
	}

	return c, []regimen.Event{regimen.Success(c.Message)}, nil
}
