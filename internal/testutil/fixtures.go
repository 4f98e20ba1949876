package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
)

// Bangkok is the zone used by fixtures. It is fixed at UTC+7 so tests do not
// depend on the host's tzdata.
var Bangkok = time.FixedZone("ICT", 7*60*60)

// Date returns a Bangkok-local timestamp.
func Date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, Bangkok)
}

// Amount parses a decimal literal and panics on bad input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Fixture is a fluent builder for a small ledger: categories, wallets and
// transactions that can be seeded into any store.
type Fixture struct {
	Categories   []model.Category
	Wallets      []model.Wallet
	Transactions []model.Transaction
	seq          int
}

// NewFixture starts an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{}
}

func (f *Fixture) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%03d", prefix, f.seq)
}

// WithCategory adds a category at the end of its type's order.
func (f *Fixture) WithCategory(id, name string, t model.CategoryType) *Fixture {
	order := 0
	for _, c := range f.Categories {
		if c.Type == t {
			order++
		}
	}
	f.Categories = append(f.Categories, model.Category{
		ID:        id,
		Name:      name,
		Type:      t,
		Order:     order,
		CreatedAt: Date(2024, time.January, 1, 0, 0),
	})
	return f
}

// WithWallet adds a wallet with the given opening balance.
func (f *Fixture) WithWallet(id, name string, walletType model.WalletType, initial string) *Fixture {
	f.Wallets = append(f.Wallets, model.Wallet{
		ID:             id,
		Name:           name,
		Type:           walletType,
		Icon:           "💰",
		Color:          "#6366f1",
		Currency:       "THB",
		InitialBalance: Amount(initial),
		IsAsset:        walletType != model.WalletTypeCreditCard,
		CreatedAt:      Date(2024, time.January, 1, 0, 0).Add(time.Duration(len(f.Wallets)) * time.Minute),
	})
	return f
}

// WithTransaction adds a transaction.
func (f *Fixture) WithTransaction(walletID, categoryID string, t model.TransactionType, amount string, date time.Time, note string) *Fixture {
	f.Transactions = append(f.Transactions, model.Transaction{
		ID:         f.nextID("txn"),
		Type:       t,
		Amount:     Amount(amount),
		CategoryID: categoryID,
		WalletID:   walletID,
		Date:       date,
		Note:       note,
		CreatedAt:  date,
	})
	return f
}

// Seed writes the fixture to store.
func (f *Fixture) Seed(ctx context.Context, store service.Storage) error {
	if len(f.Categories) > 0 {
		if err := store.SaveCategories(ctx, f.Categories); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	for _, w := range f.Wallets {
		if err := store.SaveWallet(ctx, w); err != nil {
			return fmt.Errorf("failed to seed wallet %q: %w", w.Name, err)
		}
	}
	for _, txn := range f.Transactions {
		if err := store.SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to seed transaction %s: %w", txn.ID, err)
		}
	}
	return nil
}

// StandardLedger is the two-wallet scenario used across aggregation tests:
// W1 opens at 1000 with 500 income and 200 expense in March 2024, W2 opens
// at 0 with one 50 expense in February 2024.
func StandardLedger() *Fixture {
	return NewFixture().
		WithCategory("cat-food", "อาหาร", model.CategoryTypeExpense).
		WithCategory("cat-travel", "เดินทาง", model.CategoryTypeExpense).
		WithCategory("cat-salary", "เงินเดือน", model.CategoryTypeIncome).
		WithWallet("w1", "กสิกร", model.WalletTypeBank, "1000").
		WithWallet("w2", "เงินสด", model.WalletTypeCash, "0").
		WithTransaction("w1", "cat-salary", model.TransactionTypeIncome, "500", Date(2024, time.March, 1, 9, 0), "").
		WithTransaction("w1", "cat-food", model.TransactionTypeExpense, "200", Date(2024, time.March, 5, 12, 0), "ข้าว").
		WithTransaction("w2", "cat-travel", model.TransactionTypeExpense, "50", Date(2024, time.February, 10, 8, 30), "BTS")
}
