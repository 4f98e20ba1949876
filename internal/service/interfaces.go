// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/unikonkon/ceasflow/internal/model"
)

// CategoryStore persists categories.
type CategoryStore interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, category model.Category) error
	SaveCategories(ctx context.Context, categories []model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// WalletStore persists wallets.
type WalletStore interface {
	GetWallets(ctx context.Context) ([]model.Wallet, error)
	SaveWallet(ctx context.Context, wallet model.Wallet) error
}

// TransactionStore persists transactions.
type TransactionStore interface {
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	SaveTransaction(ctx context.Context, txn model.Transaction) error
	UpdateTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// SettingsStore persists small JSON documents by key.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) ([]byte, error)
	SaveSetting(ctx context.Context, key string, value []byte) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	WalletStore
	TransactionStore
	SettingsStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
