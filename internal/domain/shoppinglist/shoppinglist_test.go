package shoppinglist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain"
	"foodgram/internal/testutil"
)

func TestCompute(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	cook := testutil.CreateUser(t, db, "cook")
	shopper := testutil.CreateUser(t, db, "shopper")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	eggs := testutil.CreateIngredient(t, db, "eggs", "pcs")
	salt := testutil.CreateIngredient(t, db, "salt", "g")

	a := testutil.CreateRecipe(t, db, cook.ID, "A", 0, []testutil.Amount{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: eggs.ID, Amount: 2},
	})
	b := testutil.CreateRecipe(t, db, cook.ID, "B", 0, []testutil.Amount{
		{IngredientID: flour.ID, Amount: 100},
	})
	notInCart := testutil.CreateRecipe(t, db, cook.ID, "C", 0, []testutil.Amount{
		{IngredientID: salt.ID, Amount: 5},
	})
	for _, id := range []int64{a.ID, b.ID} {
		require.NoError(t, db.Create(domain.MarkShoppingCart.NewRow(shopper.ID, id)).Error)
	}
	require.NoError(t, db.Create(domain.MarkFavorite.NewRow(shopper.ID, notInCart.ID)).Error)

	items, err := svc.Compute(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
	}, items)

	assert.Equal(t, "eggs (pcs) - 2\nflour (g) - 300\n", string(Render(items)))

	empty, err := svc.Compute(ctx, cook.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Empty(t, Render(empty))
}

func TestCompute_SameNameDifferentUnits(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)

	cook := testutil.CreateUser(t, db, "cook")
	sugarG := testutil.CreateIngredient(t, db, "sugar", "g")
	sugarTsp := testutil.CreateIngredient(t, db, "sugar", "tsp")
	apple := testutil.CreateIngredient(t, db, "Apple", "pcs")

	rec := testutil.CreateRecipe(t, db, cook.ID, "pie", 0, []testutil.Amount{
		{IngredientID: sugarTsp.ID, Amount: 3},
		{IngredientID: sugarG.ID, Amount: 40},
		{IngredientID: apple.ID, Amount: 4},
	})
	require.NoError(t, db.Create(domain.MarkShoppingCart.NewRow(cook.ID, rec.ID)).Error)

	items, err := svc.Compute(context.Background(), cook.ID)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Name: "Apple", MeasurementUnit: "pcs", TotalAmount: 4},
		{Name: "sugar", MeasurementUnit: "g", TotalAmount: 40},
		{Name: "sugar", MeasurementUnit: "tsp", TotalAmount: 3},
	}, items)
}

func TestExport(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "anna")
	milk := testutil.CreateIngredient(t, db, "milk", "ml")
	rec := testutil.CreateRecipe(t, db, user.ID, "latte", 0, []testutil.Amount{{IngredientID: milk.ID, Amount: 50}})
	require.NoError(t, db.Create(domain.MarkShoppingCart.NewRow(user.ID, rec.ID)).Error)

	name, body, err := svc.Export(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna_shopping_cart.txt", name)
	assert.Equal(t, "milk (ml) - 50\n", string(body))

	_, _, err = svc.Export(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
