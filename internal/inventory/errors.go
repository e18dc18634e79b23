package inventory

import (
	"fmt"
	"strings"
)

// Shortage describes one recipe requirement that current stock cannot cover.
type Shortage struct {
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
}

// ShortageError is returned by RecordSale when stock cannot cover the
// recipe. It carries every insufficient ingredient, not just the first one
// found, so callers can show the complete list of blockers.
type ShortageError struct {
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	names := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		names[i] = s.Ingredient
	}
	return fmt.Sprintf("not enough %s in stock", strings.Join(names, ", "))
}

// ValidationError reports structurally invalid input before anything is
// persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NegativeStockError guards the ledger: an adjustment that would take an
// ingredient below zero aborts its transaction. The sale workflow
// pre-validates, so seeing this error means a check-then-act ordering bug.
type NegativeStockError struct {
	Ingredient string
	Resulting  float64
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock for %s would go negative (%.3f)", e.Ingredient, e.Resulting)
}

// ProcessingError wraps an unexpected storage failure during the commit
// phase of a workflow. The transaction has been rolled back in full; the
// underlying cause is logged, not exposed to callers.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return "unable to " + e.Op
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
