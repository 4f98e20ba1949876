// Package testutil provides shared test setup for ledger packages: migrated
// in-memory databases, fixture builders and a store that fails on demand.
package testutil

import (
	"context"
	"testing"

	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/storage"
)

// TestDB is a migrated in-memory database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. It automatically
// handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Fixture        *Fixture
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if opts.Fixture != nil {
		if err := opts.Fixture.Seed(ctx, store); err != nil {
			t.Fatalf("failed to seed fixture: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustSaveWallet stores w or fails the test.
func (db *TestDB) MustSaveWallet(w model.Wallet) {
	db.t.Helper()
	if err := db.Storage.SaveWallet(context.Background(), w); err != nil {
		db.t.Fatalf("failed to save wallet %q: %v", w.Name, err)
	}
}

// MustSaveTransaction stores txn or fails the test.
func (db *TestDB) MustSaveTransaction(txn model.Transaction) {
	db.t.Helper()
	if err := db.Storage.SaveTransaction(context.Background(), txn); err != nil {
		db.t.Fatalf("failed to save transaction %s: %v", txn.ID, err)
	}
}
