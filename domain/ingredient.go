package domain

import "github.com/shopspring/decimal"

// Ingredient is a single stocked ingredient. QuantityAvailable is kept in
// the ingredient's own unit and must never go negative.
type Ingredient struct {
	ID                int64           `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	QuantityAvailable float64         `db:"quantity_available" json:"quantity_available"`
	Unit              string          `db:"unit" json:"unit"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unit_price"`
	CreatedAt         string          `db:"created_at" json:"created_at,omitempty"`
}
