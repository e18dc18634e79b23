package domain

// Purchase is the immutable log record of one completed sale. Rows are only
// ever inserted, never updated.
type Purchase struct {
	ID         int64  `db:"id" json:"id"`
	MenuItemID int64  `db:"menu_item_id" json:"menu_item_id"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}
