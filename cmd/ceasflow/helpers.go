package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/book"
	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/config"
	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/storage"
)

// session is an open database with its loaded ledger.
type session struct {
	cfg   config.Config
	store *storage.SQLiteStorage
	book  *book.Book
}

func (s *session) Close() {
	_ = s.store.Close()
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// openSession loads config, storage and the ledger.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b, err := book.Open(ctx, store, book.Options{
		Location:       cfg.Location(),
		Currency:       cfg.Currency,
		CurrencySymbol: cfg.CurrencySymbol,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: store, book: b}, nil
}

func parseCategoryType(s string) (model.CategoryType, error) {
	t := model.CategoryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be expense or income, got %q", common.ErrInvalidInput, s)
	}
	return t, nil
}

func parseTransactionType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be expense or income, got %q", common.ErrInvalidInput, s)
	}
	return t, nil
}

func parseWalletType(s string) (model.WalletType, error) {
	t := model.WalletType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown wallet type %q", common.ErrInvalidInput, s)
	}
	return t, nil
}

// parsePositiveAmount reads a user-entered amount that must be above zero.
func parsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := currency.Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", common.ErrInvalidInput)
	}
	return d, nil
}

var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseDate reads a local date, with or without a time of day. An empty
// string is now.
func parseDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.In(loc).Truncate(time.Minute), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or YYYY-MM-DD HH:MM", common.ErrInvalidInput, s)
}

// resolveWallet accepts a wallet id or an exact name.
func resolveWallet(b *book.Book, ref string) (model.Wallet, error) {
	if w, ok := b.Wallet(ref); ok {
		return w, nil
	}
	for _, w := range b.Wallets() {
		if w.Name == ref {
			return w, nil
		}
	}
	return model.Wallet{}, fmt.Errorf("wallet %q: %w", ref, common.ErrNotFound)
}

// resolveCategory accepts a category id or an exact name of type t.
func resolveCategory(b *book.Book, ref string, t model.CategoryType) (model.Category, error) {
	if c, ok := b.Category(ref); ok {
		return c, nil
	}
	if c, ok := b.FindCategory(ref, t); ok {
		return c, nil
	}
	return model.Category{}, fmt.Errorf("category %q: %w", ref, common.ErrNotFound)
}
