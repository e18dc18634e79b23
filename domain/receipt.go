package domain

// GoodsReceiptNote records one delivery. It owns its items: deleting the
// note cascades to the items.
type GoodsReceiptNote struct {
	ID        int64  `db:"id" json:"id"`
	Note      string `db:"note" json:"note"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// GoodsReceiptNoteItem is one delivered line on a receipt note.
type GoodsReceiptNoteItem struct {
	ID               int64   `db:"id" json:"id"`
	NoteID           int64   `db:"note_id" json:"note_id"`
	IngredientID     int64   `db:"ingredient_id" json:"ingredient_id"`
	QuantityReceived float64 `db:"quantity_received" json:"quantity_received"`
}
