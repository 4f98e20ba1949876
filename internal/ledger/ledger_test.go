package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/testutil"
)

type categoryMap map[string]model.Category

func (m categoryMap) Get(id string) (model.Category, bool) {
	c, ok := m[id]
	return c, ok
}

func setupLedger(t *testing.T) (*Ledger, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{Fixture: testutil.StandardLedger()})
	l := New(db.Storage)
	require.NoError(t, l.Load(context.Background()))
	return l, db
}

func expenseInput(amount string) model.TransactionInput {
	return model.TransactionInput{
		Type:       model.TransactionTypeExpense,
		Amount:     testutil.Amount(amount),
		CategoryID: "cat-food",
		WalletID:   "w1",
		Date:       testutil.Date(2024, time.March, 20, 19, 0),
		Note:       "ส้มตำ",
	}
}

func TestLedger_LoadAndAdd(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	require.Len(t, l.List(), 3)

	txn, err := l.Add(ctx, expenseInput("120.50"))
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.Len(t, l.List(), 4)
	assert.Equal(t, []string{txn.ID}, l.RecentlyAdded())

	stored, err := db.Storage.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(testutil.Amount("120.50")))

	l.ClearRecentlyAdded()
	assert.Empty(t, l.RecentlyAdded())
}

func TestLedger_AddRejectsInvalid(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.TransactionInput)
		want   error
		name   string
	}{
		{name: "zero amount", mutate: func(in *model.TransactionInput) { in.Amount = testutil.Amount("0") }, want: model.ErrNonPositiveAmount},
		{name: "negative amount", mutate: func(in *model.TransactionInput) { in.Amount = testutil.Amount("-5") }, want: model.ErrNonPositiveAmount},
		{name: "bad type", mutate: func(in *model.TransactionInput) { in.Type = "transfer" }, want: model.ErrInvalidType},
		{name: "no wallet", mutate: func(in *model.TransactionInput) { in.WalletID = "" }, want: model.ErrMissingWallet},
		{name: "no category", mutate: func(in *model.TransactionInput) { in.CategoryID = "" }, want: model.ErrMissingCategory},
		{name: "no date", mutate: func(in *model.TransactionInput) { in.Date = time.Time{} }, want: model.ErrMissingDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := expenseInput("10")
			tt.mutate(&in)
			_, err := l.Add(ctx, in)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
	assert.Len(t, l.List(), 3)
}

func TestLedger_Update(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	txn, err := l.Add(ctx, expenseInput("100"))
	require.NoError(t, err)

	note := "แก้ไข"
	amount := testutil.Amount("99.99")
	updated, err := l.Update(ctx, txn.ID, model.TransactionPatch{Note: &note, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "แก้ไข", updated.Note)
	assert.Equal(t, txn.CategoryID, updated.CategoryID)

	got, ok := l.GetByID(txn.ID)
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(amount))

	stored, err := db.Storage.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "แก้ไข", stored.Note)

	zero := testutil.Amount("0")
	_, err = l.Update(ctx, txn.ID, model.TransactionPatch{Amount: &zero})
	assert.ErrorIs(t, err, model.ErrNonPositiveAmount)
	got, _ = l.GetByID(txn.ID)
	assert.True(t, got.Amount.Equal(amount), "failed update leaves the ledger unchanged")

	_, err = l.Update(ctx, "missing", model.TransactionPatch{Note: &note})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLedger_Delete(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	first := l.List()[0]

	require.NoError(t, l.Delete(ctx, first.ID))
	_, ok := l.GetByID(first.ID)
	assert.False(t, ok)
	assert.Len(t, l.List(), 2)

	_, err := db.Storage.GetTransactionByID(ctx, first.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, l.Delete(ctx, first.ID), common.ErrNotFound)
}

func TestLedger_PersistenceFailure(t *testing.T) {
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{Fixture: testutil.StandardLedger()})
	store := testutil.NewFailingStore(db.Storage)
	l := New(store)
	ctx := context.Background()
	require.NoError(t, l.Load(ctx))
	first := l.List()[0]

	store.FailOn(testutil.OpSaveTransaction, testutil.OpUpdateTransaction, testutil.OpDeleteTransaction)

	_, err := l.Add(ctx, expenseInput("10"))
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Empty(t, l.RecentlyAdded())

	note := "x"
	_, err = l.Update(ctx, first.ID, model.TransactionPatch{Note: &note})
	assert.ErrorIs(t, err, testutil.ErrInjected)
	got, _ := l.GetByID(first.ID)
	assert.Equal(t, first.Note, got.Note)

	assert.ErrorIs(t, l.Delete(ctx, first.ID), testutil.ErrInjected)
	assert.Len(t, l.List(), 3)
}

func TestLedger_WithCategory(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()
	txn, err := l.Add(ctx, expenseInput("45"))
	require.NoError(t, err)

	cats := categoryMap{"cat-food": {ID: "cat-food", Name: "อาหาร", Type: model.CategoryTypeExpense}}
	joined, ok := l.WithCategory(txn.ID, cats)
	require.True(t, ok)
	require.NotNil(t, joined.Category)
	assert.Equal(t, "อาหาร", joined.Category.Name)

	orphan := Join(txn, categoryMap{})
	assert.Nil(t, orphan.Category)
	assert.Equal(t, txn.ID, orphan.ID)

	_, ok = l.WithCategory("missing", cats)
	assert.False(t, ok)
}

func TestLedger_ListIsSnapshot(t *testing.T) {
	l, _ := setupLedger(t)
	snapshot := l.List()
	snapshot[0].Note = "mutated"

	assert.NotEqual(t, "mutated", l.List()[0].Note)
}

func TestLedger_Subscribe(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	var kinds []EventKind
	l.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	txn, err := l.Add(ctx, expenseInput("10"))
	require.NoError(t, err)
	note := "n"
	_, err = l.Update(ctx, txn.ID, model.TransactionPatch{Note: &note})
	require.NoError(t, err)
	require.NoError(t, l.Delete(ctx, txn.ID))

	assert.Equal(t, []EventKind{EventAdded, EventUpdated, EventDeleted}, kinds)
}
