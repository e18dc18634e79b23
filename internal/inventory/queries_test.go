package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMenuItems_ComputesAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ctx := context.Background()

	flour := seedIngredient(t, db, "Flour", "kg", 1.0)
	cheese := seedIngredient(t, db, "Cheese", "kg", 0.0)

	pizza := seedMenuItem(t, db, "Pizza", "9.50")
	seedRequirement(t, db, pizza, flour, 0.5)
	seedRequirement(t, db, pizza, cheese, 0.2)

	bread := seedMenuItem(t, db, "Bread", "3.00")
	seedRequirement(t, db, bread, flour, 0.5)

	seedMenuItem(t, db, "Coffee", "2.50")

	items, err := svc.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	available := make(map[string]bool, len(items))
	for _, item := range items {
		available[item.Title] = item.Available
	}
	assert.False(t, available["Pizza"], "missing cheese should block pizza")
	assert.True(t, available["Bread"])
	assert.True(t, available["Coffee"], "recipe-less item is always available")
}

func TestListMenuItems_IdempotentWithoutMutation(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ctx := context.Background()

	flour := seedIngredient(t, db, "Flour", "kg", 0.3)
	pizza := seedMenuItem(t, db, "Pizza", "9.50")
	seedRequirement(t, db, pizza, flour, 0.5)

	first, err := svc.ListMenuItems(ctx)
	require.NoError(t, err)
	second, err := svc.ListMenuItems(ctx)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Available, second[0].Available)
	assert.InDelta(t, 0.3, stockOf(t, db, flour), 1e-9)
}

func TestRequirements_ReturnsRowsInInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	flour := seedIngredient(t, db, "Flour", "kg", 1.0)
	cheese := seedIngredient(t, db, "Cheese", "kg", 1.0)
	pizza := seedMenuItem(t, db, "Pizza", "9.50")
	seedRequirement(t, db, pizza, flour, 0.5)
	seedRequirement(t, db, pizza, cheese, 0.2)

	details, err := svc.Requirements(context.Background(), pizza)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Flour", details[0].Ingredient)
	assert.Equal(t, "kg", details[0].Unit)
	assert.InDelta(t, 0.5, details[0].QuantityRequired, 1e-9)
	assert.Equal(t, "Cheese", details[1].Ingredient)
}

func TestListIngredients_SortedByName(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	seedIngredient(t, db, "Flour", "kg", 1.0)
	seedIngredient(t, db, "Basil", "g", 20.0)

	ingredients, err := svc.ListIngredients(context.Background())
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Basil", ingredients[0].Name)
	assert.Equal(t, "Flour", ingredients[1].Name)
}

func TestListPurchases_NewestFirstWithTitle(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ctx := context.Background()

	coffee := seedMenuItem(t, db, "Coffee", "2.50")
	tea := seedMenuItem(t, db, "Tea", "2.00")

	first, err := svc.RecordSale(ctx, coffee)
	require.NoError(t, err)
	second, err := svc.RecordSale(ctx, tea)
	require.NoError(t, err)

	purchases, err := svc.ListPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, second.ID, purchases[0].ID)
	assert.Equal(t, "Tea", purchases[0].Title)
	assert.Equal(t, first.ID, purchases[1].ID)
	assert.Equal(t, "Coffee", purchases[1].Title)
}

func TestListReceipts_LoadsItemsPerNote(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ctx := context.Background()

	flour := seedIngredient(t, db, "Flour", "kg", 0.0)
	cheese := seedIngredient(t, db, "Cheese", "kg", 0.0)

	_, err := svc.RecordReceipt(ctx, "Delivery #1", []ReceiptLine{
		{IngredientID: flour, QuantityReceived: 5.0},
		{IngredientID: cheese, QuantityReceived: 2.0},
	})
	require.NoError(t, err)
	_, err = svc.RecordReceipt(ctx, "Delivery #2", []ReceiptLine{
		{IngredientID: flour, QuantityReceived: 1.0},
	})
	require.NoError(t, err)

	receipts, err := svc.ListReceipts(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 2)

	assert.Equal(t, "Delivery #2", receipts[0].Note)
	require.Len(t, receipts[0].Items, 1)
	assert.Equal(t, "Flour", receipts[0].Items[0].Ingredient)

	assert.Equal(t, "Delivery #1", receipts[1].Note)
	require.Len(t, receipts[1].Items, 2)
}

func TestListReceipts_EmptyStore(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	receipts, err := svc.ListReceipts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, receipts)
}
