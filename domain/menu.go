package domain

import "github.com/shopspring/decimal"

// MenuItem is a sellable dish. Whether it can currently be made is not
// stored; see Available.
type MenuItem struct {
	ID        int64           `db:"id" json:"id"`
	Title     string          `db:"title" json:"title"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt string          `db:"created_at" json:"created_at,omitempty"`
}

// RecipeRequirement links a menu item to one ingredient and the quantity of
// it needed per serving, in the ingredient's unit.
type RecipeRequirement struct {
	ID               int64   `db:"id" json:"id"`
	MenuItemID       int64   `db:"menu_item_id" json:"menu_item_id"`
	IngredientID     int64   `db:"ingredient_id" json:"ingredient_id"`
	QuantityRequired float64 `db:"quantity_required" json:"quantity_required"`
}

// Available reports whether every requirement is satisfiable against the
// stock snapshot provided by onHand. An item with no requirements is always
// available. The predicate reads the snapshot only; it never mutates stock.
func Available(reqs []RecipeRequirement, onHand func(ingredientID int64) float64) bool {
	for _, req := range reqs {
		if onHand(req.IngredientID) < req.QuantityRequired {
			return false
		}
	}
	return true
}
