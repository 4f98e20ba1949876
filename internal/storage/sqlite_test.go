package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
)

// createTestStorage opens a migrated file-backed database in a temp dir.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testWallet(id, name string) model.Wallet {
	return model.Wallet{
		ID:             id,
		Name:           name,
		Type:           model.WalletTypeBank,
		Icon:           "🏦",
		Color:          "#6366f1",
		Currency:       "THB",
		InitialBalance: decimal.RequireFromString("1000.50"),
		IsAsset:        true,
		CreatedAt:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testTransaction(id string, day int, amount string) model.Transaction {
	return model.Transaction{
		ID:         id,
		Type:       model.TransactionTypeExpense,
		Amount:     decimal.RequireFromString(amount),
		CategoryID: "cat-food",
		WalletID:   "w1",
		Date:       time.Date(2024, 3, day, 12, 30, 0, 0, time.UTC),
		Note:       "ข้าวมันไก่",
		CreatedAt:  time.Date(2024, 3, day, 12, 31, 0, 0, time.UTC),
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("memory database migrates", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Migrate(context.Background()))
		assert.Equal(t, ":memory:", store.Path())

		_, err = store.NewCheckpointManager()
		assert.Error(t, err)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_SingleVersionCreatesFullSchema(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.Len(t, migrations, 1)
	require.NoError(t, store.Migrate(ctx))

	rows, err := store.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"categories", "checkpoint_metadata", "settings", "transactions", "wallets"}, tables)

	var notes int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('categories') WHERE name = 'notes'`).Scan(&notes))
	assert.Equal(t, 1, notes)
}

func TestCategories_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cats := []model.Category{
		{ID: "c2", Name: "เดินทาง", Type: model.CategoryTypeExpense, Order: 1},
		{ID: "c1", Name: "อาหาร", Type: model.CategoryTypeExpense, Order: 0, Notes: []string{"ข้าว", "ก๋วยเตี๋ยว"}},
		{ID: "c3", Name: "เงินเดือน", Type: model.CategoryTypeIncome, Order: 0, Icon: "💼"},
	}
	require.NoError(t, store.SaveCategories(ctx, cats))

	got, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := make(map[string]model.Category)
	for _, c := range got {
		byID[c.ID] = c
	}
	assert.Equal(t, []string{"ข้าว", "ก๋วยเตี๋ยว"}, byID["c1"].Notes)
	assert.Equal(t, "💼", byID["c3"].Icon)
	assert.Equal(t, 1, byID["c2"].Order)

	updated := byID["c2"]
	updated.Order = 5
	updated.Notes = []string{"BTS"}
	require.NoError(t, store.SaveCategory(ctx, updated))

	got, err = store.GetCategories(ctx)
	require.NoError(t, err)
	for _, c := range got {
		if c.ID == "c2" {
			assert.Equal(t, 5, c.Order)
			assert.Equal(t, []string{"BTS"}, c.Notes)
		}
	}

	require.NoError(t, store.DeleteCategory(ctx, "c2"))
	got, err = store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSaveCategory_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cat  model.Category
	}{
		{"missing id", model.Category{Name: "x", Type: model.CategoryTypeExpense}},
		{"missing name", model.Category{ID: "x", Type: model.CategoryTypeExpense}},
		{"bad type", model.Category{ID: "x", Name: "x", Type: "transfer"}},
		{"negative order", model.Category{ID: "x", Name: "x", Type: model.CategoryTypeIncome, Order: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveCategory(ctx, tt.cat)
			assert.ErrorIs(t, err, ErrInvalidCategory)
		})
	}
}

func TestWallets_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	w1 := testWallet("w1", "กสิกร")
	w2 := testWallet("w2", "เงินสด")
	w2.Type = model.WalletTypeCash
	w2.CreatedAt = w1.CreatedAt.Add(time.Hour)
	w2.InitialBalance = decimal.Zero

	require.NoError(t, store.SaveWallet(ctx, w2))
	require.NoError(t, store.SaveWallet(ctx, w1))

	got, err := store.GetWallets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w1", got[0].ID, "wallets come back in creation order")
	assert.True(t, got[0].InitialBalance.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, model.WalletTypeBank, got[0].Type)
	assert.True(t, got[0].IsAsset)

	w1.Name = "KBank"
	require.NoError(t, store.SaveWallet(ctx, w1))
	got, err = store.GetWallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KBank", got[0].Name)

	bad := testWallet("w3", "x")
	bad.Type = "piggy"
	assert.ErrorIs(t, store.SaveWallet(ctx, bad), ErrInvalidWallet)
}

func TestTransactions_CRUD(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransaction(ctx, testTransaction("t2", 20, "80")))
	require.NoError(t, store.SaveTransaction(ctx, testTransaction("t1", 15, "45.25")))

	all, err := store.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].ID, "ordered by date")
	assert.True(t, all[0].Amount.Equal(decimal.RequireFromString("45.25")))
	assert.Equal(t, "ข้าวมันไก่", all[0].Note)
	assert.True(t, all[0].Date.Equal(time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)))

	got, err := store.GetTransactionByID(ctx, "t2")
	require.NoError(t, err)
	got.Note = "updated"
	got.Type = model.TransactionTypeIncome
	require.NoError(t, store.UpdateTransaction(ctx, *got))

	got, err = store.GetTransactionByID(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Note)
	assert.Equal(t, model.TransactionTypeIncome, got.Type)

	require.NoError(t, store.DeleteTransaction(ctx, "t2"))
	_, err = store.GetTransactionByID(ctx, "t2")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	assert.ErrorIs(t, store.DeleteTransaction(ctx, "missing"), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateTransaction(ctx, testTransaction("missing", 1, "1")), common.ErrNotFound)
}

func TestSaveTransaction_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	zero := testTransaction("t1", 1, "0")
	assert.ErrorIs(t, store.SaveTransaction(ctx, zero), ErrInvalidTransaction)
	assert.ErrorIs(t, store.SaveTransaction(ctx, zero), model.ErrNonPositiveAmount)

	noID := testTransaction("", 1, "10")
	assert.ErrorIs(t, store.SaveTransaction(ctx, noID), ErrInvalidTransaction)

	//nolint:staticcheck // nil context is the case under test
	_, err := store.GetTransactions(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestSettings(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	value, err := store.GetSetting(ctx, "alerts")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.SaveSetting(ctx, "alerts", []byte(`{"a":1}`)))
	require.NoError(t, store.SaveSetting(ctx, "alerts", []byte(`{"a":2}`)))

	value, err = store.GetSetting(ctx, "alerts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(value))
}
