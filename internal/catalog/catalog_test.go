package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
	"github.com/unikonkon/ceasflow/internal/testutil"
)

func newLoadedCatalog(t *testing.T, store service.CategoryStore) *Catalog {
	t.Helper()
	c := New(store)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func orders(cats []model.Category) []int {
	out := make([]int, len(cats))
	for i, c := range cats {
		out[i] = c.Order
	}
	return out
}

func ids(cats []model.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}

func TestLoad_SeedsDefaultsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)

	expense := c.ByType(model.CategoryTypeExpense)
	income := c.ByType(model.CategoryTypeIncome)
	require.Len(t, expense, len(model.DefaultExpenseCategories))
	require.Len(t, income, len(model.DefaultIncomeCategories))

	assert.Equal(t, "อาหาร", expense[0].Name)
	assert.Equal(t, "🍜", expense[0].Icon)
	assert.NotEmpty(t, expense[0].Color)
	assert.Equal(t, "เงินเดือน", income[0].Name)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, orders(income))

	// A second catalog over the same store reads rather than reseeds.
	again := newLoadedCatalog(t, db.Storage)
	assert.Equal(t, ids(expense), ids(again.ByType(model.CategoryTypeExpense)))

	stored, err := db.Storage.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, len(model.DefaultExpenseCategories)+len(model.DefaultIncomeCategories))
}

func TestLoad_StoreFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := testutil.NewFailingStore(db.Storage)
	store.FailOn(testutil.OpGetCategories)

	c := New(store)
	err := c.Load(context.Background())
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Empty(t, c.All())
}

func TestAdd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()

	cat, err := c.Add(ctx, model.CategoryInput{Name: "  สัตว์เลี้ยง ", Type: model.CategoryTypeExpense, Icon: "🐶"})
	require.NoError(t, err)
	assert.Equal(t, "สัตว์เลี้ยง", cat.Name)
	assert.Equal(t, "🐶", cat.Icon)
	assert.Equal(t, len(model.DefaultExpenseCategories), cat.Order)

	plain, err := c.Add(ctx, model.CategoryInput{Name: "ฟรีแลนซ์", Type: model.CategoryTypeIncome})
	require.NoError(t, err)
	assert.Equal(t, "💰", plain.Icon, "type default icon applies")

	found, ok := c.FindByName("สัตว์เลี้ยง", model.CategoryTypeExpense)
	require.True(t, ok)
	assert.Equal(t, cat.ID, found.ID)

	_, ok = c.FindByName("สัตว์เลี้ยง", model.CategoryTypeIncome)
	assert.False(t, ok)

	_, err = c.Add(ctx, model.CategoryInput{Name: "  ", Type: model.CategoryTypeExpense})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = c.Add(ctx, model.CategoryInput{Name: "x", Type: "transfer"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAdd_PersistenceFailureLeavesCatalogUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := testutil.NewFailingStore(db.Storage)
	c := newLoadedCatalog(t, store)
	before := c.All()

	store.FailOn(testutil.OpSaveCategory)
	_, err := c.Add(context.Background(), model.CategoryInput{Name: "ใหม่", Type: model.CategoryTypeExpense})
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, ids(before), ids(c.All()))
}

func TestDelete_RenumbersDensely(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()

	expense := c.ByType(model.CategoryTypeExpense)
	victim := expense[2]
	require.NoError(t, c.Delete(ctx, victim.ID))

	after := c.ByType(model.CategoryTypeExpense)
	require.Len(t, after, len(expense)-1)
	for i, cat := range after {
		assert.Equal(t, i, cat.Order)
		assert.NotEqual(t, victim.ID, cat.ID)
	}

	reloaded := newLoadedCatalog(t, db.Storage).ByType(model.CategoryTypeExpense)
	assert.Equal(t, ids(after), ids(reloaded))
	assert.Equal(t, orders(after), orders(reloaded))

	assert.ErrorIs(t, c.Delete(ctx, victim.ID), common.ErrNotFound)
}

func TestDelete_PersistenceFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := testutil.NewFailingStore(db.Storage)
	c := newLoadedCatalog(t, store)
	before := c.ByType(model.CategoryTypeIncome)

	store.FailOn(testutil.OpDeleteCategory)
	err := c.Delete(context.Background(), before[0].ID)
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, ids(before), ids(c.ByType(model.CategoryTypeIncome)))
}

func TestReorder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()

	income := ids(c.ByType(model.CategoryTypeIncome))
	reversed := make([]string, len(income))
	for i, id := range income {
		reversed[len(income)-1-i] = id
	}

	require.NoError(t, c.Reorder(ctx, model.CategoryTypeIncome, reversed))
	got := c.ByType(model.CategoryTypeIncome)
	assert.Equal(t, reversed, ids(got))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, orders(got))

	reloaded := newLoadedCatalog(t, db.Storage)
	assert.Equal(t, reversed, ids(reloaded.ByType(model.CategoryTypeIncome)))

	t.Run("rejects partial list", func(t *testing.T) {
		err := c.Reorder(ctx, model.CategoryTypeIncome, reversed[:2])
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("rejects ids from the other type", func(t *testing.T) {
		mixed := append([]string(nil), reversed...)
		mixed[0] = c.ByType(model.CategoryTypeExpense)[0].ID
		err := c.Reorder(ctx, model.CategoryTypeIncome, mixed)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Equal(t, reversed, ids(c.ByType(model.CategoryTypeIncome)))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		dup := append([]string(nil), reversed...)
		dup[1] = dup[0]
		assert.ErrorIs(t, c.Reorder(ctx, model.CategoryTypeIncome, dup), common.ErrInvalidInput)
	})
}

func TestNotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()
	food := c.ByType(model.CategoryTypeExpense)[0]

	require.NoError(t, c.AddNote(ctx, food.ID, "  ข้าวมันไก่ "))
	require.NoError(t, c.AddNote(ctx, food.ID, "ข้าวมันไก่"))
	assert.Equal(t, []string{"ข้าวมันไก่"}, c.Notes(food.ID))

	assert.ErrorIs(t, c.AddNote(ctx, food.ID, "   "), common.ErrInvalidInput)
	assert.ErrorIs(t, c.AddNote(ctx, "missing", "x"), common.ErrNotFound)

	require.NoError(t, c.RemoveNote(ctx, food.ID, "ข้าวมันไก่"))
	assert.Empty(t, c.Notes(food.ID))
	require.NoError(t, c.RemoveNote(ctx, food.ID, "never added"))
}

func TestWritesKeepStoredIcons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()

	food := c.ByType(model.CategoryTypeExpense)[0]
	custom, err := c.Add(ctx, model.CategoryInput{Name: "สัตว์เลี้ยง", Type: model.CategoryTypeExpense, Icon: "🐶"})
	require.NoError(t, err)
	plain, err := c.Add(ctx, model.CategoryInput{Name: "ฟรีแลนซ์", Type: model.CategoryTypeIncome})
	require.NoError(t, err)

	require.NoError(t, c.AddNote(ctx, food.ID, "ข้าวมันไก่"))
	require.NoError(t, c.AddNote(ctx, custom.ID, "อาหารแมว"))
	require.NoError(t, c.AddNote(ctx, plain.ID, "งานออกแบบ"))

	income := ids(c.ByType(model.CategoryTypeIncome))
	income[0], income[1] = income[1], income[0]
	require.NoError(t, c.Reorder(ctx, model.CategoryTypeIncome, income))
	require.NoError(t, c.Delete(ctx, c.ByType(model.CategoryTypeExpense)[1].ID))

	stored, err := db.Storage.GetCategories(ctx)
	require.NoError(t, err)
	byID := make(map[string]model.Category, len(stored))
	for _, cat := range stored {
		byID[cat.ID] = cat
	}
	assert.Empty(t, byID[food.ID].Icon, "built-in icon is not persisted")
	assert.Empty(t, byID[plain.ID].Icon, "type default icon is not persisted")
	assert.Equal(t, "🐶", byID[custom.ID].Icon)
	for _, cat := range stored {
		if cat.Type == model.CategoryTypeIncome && cat.ID != plain.ID {
			assert.Empty(t, cat.Icon, cat.Name)
		}
	}

	reloaded := newLoadedCatalog(t, db.Storage)
	got, ok := reloaded.Get(food.ID)
	require.True(t, ok)
	assert.Equal(t, "🍜", got.Icon)
	assert.Equal(t, []string{"ข้าวมันไก่"}, got.Notes)
	got, ok = reloaded.Get(custom.ID)
	require.True(t, ok)
	assert.Equal(t, "🐶", got.Icon)
	got, ok = reloaded.Get(plain.ID)
	require.True(t, ok)
	assert.Equal(t, "💰", got.Icon)
}

func TestNotes_CappedAtMax(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()
	food := c.ByType(model.CategoryTypeExpense)[0]

	for i := 0; i < model.MaxCategoryNotes+5; i++ {
		require.NoError(t, c.AddNote(ctx, food.ID, fmt.Sprintf("note %d", i)))
	}

	notes := c.Notes(food.ID)
	require.Len(t, notes, model.MaxCategoryNotes)
	assert.Equal(t, "note 5", notes[0], "oldest notes are evicted")
	assert.Equal(t, fmt.Sprintf("note %d", model.MaxCategoryNotes+4), notes[len(notes)-1])

	reloaded := newLoadedCatalog(t, db.Storage)
	assert.Equal(t, notes, reloaded.Notes(food.ID))
}

func TestSubscribe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := New(db.Storage)

	var events []Event
	unsubscribe := c.Subscribe(func(e Event) { events = append(events, e) })

	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	cat, err := c.Add(ctx, model.CategoryInput{Name: "ภาษี", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, cat.ID))

	require.Len(t, events, 3)
	assert.Equal(t, EventLoaded, events[0].Kind)
	assert.Equal(t, EventAdded, events[1].Kind)
	assert.Equal(t, cat.ID, events[2].CategoryID)

	unsubscribe()
	_, err = c.Add(ctx, model.CategoryInput{Name: "บริจาค", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestGetReturnsCopies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := newLoadedCatalog(t, db.Storage)
	ctx := context.Background()
	food := c.ByType(model.CategoryTypeExpense)[0]
	require.NoError(t, c.AddNote(ctx, food.ID, "a"))

	got, ok := c.Get(food.ID)
	require.True(t, ok)
	got.Notes[0] = "mutated"

	assert.Equal(t, []string{"a"}, c.Notes(food.ID))
}
