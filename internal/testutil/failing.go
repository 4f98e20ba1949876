package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
)

// ErrInjected is returned by FailingStore for operations set to fail.
var ErrInjected = errors.New("injected storage failure")

// Operation names accepted by FailingStore.FailOn.
const (
	OpSaveCategory      = "SaveCategory"
	OpSaveCategories    = "SaveCategories"
	OpDeleteCategory    = "DeleteCategory"
	OpSaveWallet        = "SaveWallet"
	OpSaveTransaction   = "SaveTransaction"
	OpUpdateTransaction = "UpdateTransaction"
	OpDeleteTransaction = "DeleteTransaction"
	OpGetCategories     = "GetCategories"
	OpSaveSetting       = "SaveSetting"
)

// FailingStore wraps a real store and fails chosen write operations.
type FailingStore struct {
	service.Storage
	failing map[string]bool
	mu      sync.Mutex
}

// NewFailingStore wraps inner.
func NewFailingStore(inner service.Storage) *FailingStore {
	return &FailingStore{Storage: inner, failing: make(map[string]bool)}
}

// FailOn makes op return ErrInjected until Recover is called.
func (s *FailingStore) FailOn(ops ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		s.failing[op] = true
	}
}

// Recover clears every injected failure.
func (s *FailingStore) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = make(map[string]bool)
}

func (s *FailingStore) fails(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failing[op]
}

// GetCategories implements service.CategoryStore.
func (s *FailingStore) GetCategories(ctx context.Context) ([]model.Category, error) {
	if s.fails(OpGetCategories) {
		return nil, ErrInjected
	}
	return s.Storage.GetCategories(ctx)
}

// SaveCategory implements service.CategoryStore.
func (s *FailingStore) SaveCategory(ctx context.Context, category model.Category) error {
	if s.fails(OpSaveCategory) {
		return ErrInjected
	}
	return s.Storage.SaveCategory(ctx, category)
}

// SaveCategories implements service.CategoryStore.
func (s *FailingStore) SaveCategories(ctx context.Context, categories []model.Category) error {
	if s.fails(OpSaveCategories) {
		return ErrInjected
	}
	return s.Storage.SaveCategories(ctx, categories)
}

// DeleteCategory implements service.CategoryStore.
func (s *FailingStore) DeleteCategory(ctx context.Context, id string) error {
	if s.fails(OpDeleteCategory) {
		return ErrInjected
	}
	return s.Storage.DeleteCategory(ctx, id)
}

// SaveWallet implements service.WalletStore.
func (s *FailingStore) SaveWallet(ctx context.Context, wallet model.Wallet) error {
	if s.fails(OpSaveWallet) {
		return ErrInjected
	}
	return s.Storage.SaveWallet(ctx, wallet)
}

// SaveTransaction implements service.TransactionStore.
func (s *FailingStore) SaveTransaction(ctx context.Context, txn model.Transaction) error {
	if s.fails(OpSaveTransaction) {
		return ErrInjected
	}
	return s.Storage.SaveTransaction(ctx, txn)
}

// UpdateTransaction implements service.TransactionStore.
func (s *FailingStore) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	if s.fails(OpUpdateTransaction) {
		return ErrInjected
	}
	return s.Storage.UpdateTransaction(ctx, txn)
}

// DeleteTransaction implements service.TransactionStore.
func (s *FailingStore) DeleteTransaction(ctx context.Context, id string) error {
	if s.fails(OpDeleteTransaction) {
		return ErrInjected
	}
	return s.Storage.DeleteTransaction(ctx, id)
}

// SaveSetting implements service.SettingsStore.
func (s *FailingStore) SaveSetting(ctx context.Context, key string, value []byte) error {
	if s.fails(OpSaveSetting) {
		return ErrInjected
	}
	return s.Storage.SaveSetting(ctx, key, value)
}
