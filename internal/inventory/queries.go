package inventory

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bistro/m/domain"
)

// ListIngredients returns the full ledger: every ingredient with its
// current stock.
func (s *Service) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	err := s.db.SelectContext(ctx, &ingredients, `SELECT id, name, quantity_available, unit, unit_price, created_at FROM ingredients ORDER BY name`)
	return ingredients, err
}

// MenuItemStatus is a menu item plus its computed availability.
type MenuItemStatus struct {
	domain.MenuItem
	Available bool `db:"-" json:"available"`
}

// ListMenuItems returns every menu item with availability computed against
// one stock snapshot. The computation is a pure read; calling it twice with
// no intervening mutation yields the same answer.
func (s *Service) ListMenuItems(ctx context.Context) ([]MenuItemStatus, error) {
	var items []domain.MenuItem
	if err := s.db.SelectContext(ctx, &items, `SELECT id, title, price, created_at FROM menu_items ORDER BY title`); err != nil {
		return nil, err
	}

	var reqs []domain.RecipeRequirement
	if err := s.db.SelectContext(ctx, &reqs, `SELECT id, menu_item_id, ingredient_id, quantity_required FROM recipe_requirements`); err != nil {
		return nil, err
	}

	var stocks []struct {
		ID       int64   `db:"id"`
		Quantity float64 `db:"quantity_available"`
	}
	if err := s.db.SelectContext(ctx, &stocks, `SELECT id, quantity_available FROM ingredients`); err != nil {
		return nil, err
	}
	onHand := make(map[int64]float64, len(stocks))
	for _, stock := range stocks {
		onHand[stock.ID] = stock.Quantity
	}

	byItem := make(map[int64][]domain.RecipeRequirement)
	for _, req := range reqs {
		byItem[req.MenuItemID] = append(byItem[req.MenuItemID], req)
	}

	statuses := make([]MenuItemStatus, len(items))
	for i, item := range items {
		statuses[i] = MenuItemStatus{
			MenuItem:  item,
			Available: domain.Available(byItem[item.ID], func(id int64) float64 { return onHand[id] }),
		}
	}
	return statuses, nil
}

// RequirementDetail is one recipe line with its ingredient named for
// display.
type RequirementDetail struct {
	ID               int64   `db:"id" json:"id"`
	IngredientID     int64   `db:"ingredient_id" json:"ingredient_id"`
	Ingredient       string  `db:"name" json:"ingredient"`
	Unit             string  `db:"unit" json:"unit"`
	QuantityRequired float64 `db:"quantity_required" json:"quantity_required"`
}

// Requirements returns the recipe lines for one menu item in insertion
// order, the same order the sale workflow deducts them in.
func (s *Service) Requirements(ctx context.Context, menuItemID int64) ([]RequirementDetail, error) {
	var details []RequirementDetail
	err := s.db.SelectContext(ctx, &details, `SELECT r.id, r.ingredient_id, i.name, i.unit, r.quantity_required
                FROM recipe_requirements r
                JOIN ingredients i ON i.id = r.ingredient_id
                WHERE r.menu_item_id = $1
                ORDER BY r.id`, menuItemID)
	return details, err
}

// PurchaseDetail is a logged sale joined with the menu item it sold.
type PurchaseDetail struct {
	domain.Purchase
	Title string `db:"title" json:"title"`
}

// ListPurchases returns the most recent sales, newest first.
func (s *Service) ListPurchases(ctx context.Context) ([]PurchaseDetail, error) {
	var purchases []PurchaseDetail
	err := s.db.SelectContext(ctx, &purchases, `SELECT p.id, p.menu_item_id, p.created_at, m.title
                FROM purchases p
                JOIN menu_items m ON m.id = p.menu_item_id
                ORDER BY p.created_at DESC, p.id DESC LIMIT 50`)
	return purchases, err
}

// ReceiptItemDetail is one delivered line with its ingredient named.
type ReceiptItemDetail struct {
	NoteID           int64   `db:"note_id" json:"-"`
	IngredientID     int64   `db:"ingredient_id" json:"ingredient_id"`
	Ingredient       string  `db:"name" json:"ingredient"`
	QuantityReceived float64 `db:"quantity_received" json:"quantity_received"`
}

// ReceiptDetail is a goods receipt note with its line items.
type ReceiptDetail struct {
	domain.GoodsReceiptNote
	Items []ReceiptItemDetail `json:"items"`
}

// ListReceipts returns every receipt note with its items, newest first.
func (s *Service) ListReceipts(ctx context.Context) ([]ReceiptDetail, error) {
	var notes []domain.GoodsReceiptNote
	if err := s.db.SelectContext(ctx, &notes, `SELECT id, note, created_at FROM goods_receipt_notes ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return []ReceiptDetail{}, nil
	}

	ids := make([]int64, len(notes))
	for i, note := range notes {
		ids[i] = note.ID
	}

	itemsQuery, itemsArgs, err := sqlx.In(`SELECT gi.note_id, gi.ingredient_id, gi.quantity_received, i.name
                FROM goods_receipt_note_items gi
                JOIN ingredients i ON i.id = gi.ingredient_id
                WHERE gi.note_id IN (?)
                ORDER BY gi.id`, ids)
	if err != nil {
		return nil, err
	}
	itemsQuery = s.db.Rebind(itemsQuery)

	var rows []ReceiptItemDetail
	if err := s.db.SelectContext(ctx, &rows, itemsQuery, itemsArgs...); err != nil {
		return nil, err
	}
	itemsByNote := make(map[int64][]ReceiptItemDetail)
	for _, row := range rows {
		itemsByNote[row.NoteID] = append(itemsByNote[row.NoteID], row)
	}

	details := make([]ReceiptDetail, len(notes))
	for i, note := range notes {
		details[i] = ReceiptDetail{GoodsReceiptNote: note, Items: itemsByNote[note.ID]}
	}
	return details, nil
}
