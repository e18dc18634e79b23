package inventory

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"bistro/m/domain"
)

// Service is the stock-adjustment core: it owns every mutation of
// ingredient stock and the read queries the presentation layer needs.
// All mutations happen inside a single transaction per call.
type Service struct {
	db *sqlx.DB
}

// New constructs a Service on top of a transactional store.
func New(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// requirementRow is one recipe line joined with the stock snapshot it is
// validated against.
type requirementRow struct {
	ID           int64   `db:"id"`
	IngredientID int64   `db:"ingredient_id"`
	Required     float64 `db:"quantity_required"`
	Name         string  `db:"name"`
	Available    float64 `db:"quantity_available"`
}

// RecordSale validates the menu item's recipe against current stock and, if
// every requirement is satisfiable, persists a Purchase and deducts each
// required quantity. On shortage it returns a ShortageError naming every
// insufficient ingredient and leaves stock untouched.
//
// Requirements are checked and deducted row by row in insertion order. A
// menu item that lists the same ingredient twice has each row validated
// against the same snapshot and deducted independently; if the combined
// deduction would overdraw the ingredient, the ledger guard aborts the
// whole transaction.
func (s *Service) RecordSale(ctx context.Context, menuItemID int64) (*domain.Purchase, error) {
	var exists int64
	err := s.db.GetContext(ctx, &exists, `SELECT id FROM menu_items WHERE id = $1`, menuItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ValidationError{Message: "menu item not found"}
	}
	if err != nil {
		return nil, s.processing("record sale", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, s.processing("record sale", err)
	}
	defer tx.Rollback()

	var reqs []requirementRow
	if err := tx.Select(&reqs, `SELECT r.id, r.ingredient_id, r.quantity_required, i.name, i.quantity_available
                FROM recipe_requirements r
                JOIN ingredients i ON i.id = r.ingredient_id
                WHERE r.menu_item_id = $1
                ORDER BY r.id`, menuItemID); err != nil {
		return nil, s.processing("record sale", err)
	}

	// One snapshot for the whole validation pass. An empty recipe always
	// sells.
	var shortages []Shortage
	for _, req := range reqs {
		if req.Available < req.Required {
			shortages = append(shortages, Shortage{
				Ingredient: req.Name,
				Required:   req.Required,
				Available:  req.Available,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, &ShortageError{Shortages: shortages}
	}

	var purchase domain.Purchase
	if err := tx.QueryRowx(`INSERT INTO purchases (menu_item_id) VALUES ($1) RETURNING id, menu_item_id, created_at`,
		menuItemID).StructScan(&purchase); err != nil {
		return nil, s.processing("record sale", err)
	}

	for _, req := range reqs {
		if err := adjustStock(tx, req.IngredientID, -req.Required); err != nil {
			var neg *NegativeStockError
			if errors.As(err, &neg) {
				log.Printf("sale of menu item %d aborted: %v", menuItemID, neg)
				return nil, neg
			}
			return nil, s.processing("record sale", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, s.processing("record sale", err)
	}
	return &purchase, nil
}

// ReceiptLine is one delivered quantity on an incoming goods receipt.
type ReceiptLine struct {
	IngredientID     int64   `json:"ingredient_id"`
	QuantityReceived float64 `json:"quantity_received"`
}

// RecordReceipt persists a goods receipt note with its line items and
// increments each delivered ingredient's stock. The note, every item and
// every increment commit together or not at all.
func (s *Service) RecordReceipt(ctx context.Context, note string, lines []ReceiptLine) (*domain.GoodsReceiptNote, error) {
	if strings.TrimSpace(note) == "" {
		return nil, &ValidationError{Message: "note is required"}
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Message: "at least one line item is required"}
	}
	for _, line := range lines {
		if line.IngredientID == 0 {
			return nil, &ValidationError{Message: "ingredient_id is required for each line item"}
		}
		if line.QuantityReceived <= 0 {
			return nil, &ValidationError{Message: "quantity_received must be greater than zero"}
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, s.processing("record receipt", err)
	}
	defer tx.Rollback()

	var grn domain.GoodsReceiptNote
	if err := tx.QueryRowx(`INSERT INTO goods_receipt_notes (note) VALUES ($1) RETURNING id, note, created_at`,
		note).StructScan(&grn); err != nil {
		return nil, s.processing("record receipt", err)
	}

	for _, line := range lines {
		if _, err := tx.Exec(`INSERT INTO goods_receipt_note_items (note_id, ingredient_id, quantity_received) VALUES ($1, $2, $3)`,
			grn.ID, line.IngredientID, line.QuantityReceived); err != nil {
			return nil, s.processing("record receipt", err)
		}
		if err := adjustStock(tx, line.IngredientID, line.QuantityReceived); err != nil {
			return nil, s.processing("record receipt", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, s.processing("record receipt", err)
	}
	return &grn, nil
}

// processing logs the underlying cause for operators and hands the caller a
// generic failure. The deferred rollback has already undone any writes.
func (s *Service) processing(op string, err error) error {
	log.Printf("%s failed: %v", op, err)
	return &ProcessingError{Op: op, Err: err}
}
