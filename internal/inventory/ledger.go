package inventory

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ledgerRow is the slice of an ingredient the ledger works with.
type ledgerRow struct {
	Name     string  `db:"name"`
	Quantity float64 `db:"quantity_available"`
}

// Quantity returns an ingredient's current stock with no side effects.
func (s *Service) Quantity(ctx context.Context, ingredientID int64) (float64, error) {
	var qty float64
	err := s.db.GetContext(ctx, &qty, `SELECT quantity_available FROM ingredients WHERE id = $1`, ingredientID)
	return qty, err
}

// adjustStock applies quantity_available += delta to one ingredient inside
// the caller's transaction. The quantity is re-read under the transaction
// rather than trusted from any earlier snapshot, and the write is refused
// with a NegativeStockError if the result would dip below zero.
func adjustStock(tx *sqlx.Tx, ingredientID int64, delta float64) error {
	var row ledgerRow
	if err := tx.Get(&row, `SELECT name, quantity_available FROM ingredients WHERE id = $1`, ingredientID); err != nil {
		return err
	}
	next := row.Quantity + delta
	if next < 0 {
		return &NegativeStockError{Ingredient: row.Name, Resulting: next}
	}
	_, err := tx.Exec(`UPDATE ingredients SET quantity_available = $1 WHERE id = $2`, next, ingredientID)
	return err
}
