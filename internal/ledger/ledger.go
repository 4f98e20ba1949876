// Package ledger holds the session's transactions and mirrors every change
// to the store.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
)

// EventKind names the mutation that produced an Event.
type EventKind string

// Ledger events.
const (
	EventLoaded  EventKind = "loaded"
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is delivered to subscribers after a mutation has been persisted.
type Event struct {
	Kind          EventKind
	TransactionID string
}

// CategoryLookup resolves a category id for display joins.
type CategoryLookup interface {
	Get(id string) (model.Category, bool)
}

// Ledger is the in-memory transaction list for a session.
type Ledger struct {
	store         service.TransactionStore
	now           func() time.Time
	newID         func() string
	changes       common.Notifier[Event]
	transactions  []model.Transaction
	recentlyAdded []string
	mu            sync.RWMutex
	loaded        bool
}

// New creates a ledger backed by store.
func New(store service.TransactionStore) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Subscribe registers fn for change events.
func (l *Ledger) Subscribe(fn func(Event)) (unsubscribe func()) {
	return l.changes.Subscribe(fn)
}

// Load reads every transaction from the store once.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.loaded {
		l.mu.Unlock()
		return nil
	}

	txs, err := l.store.GetTransactions(ctx)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	l.transactions = txs
	l.loaded = true
	l.mu.Unlock()

	l.changes.Notify(Event{Kind: EventLoaded})
	return nil
}

// Add validates and stores a new transaction.
func (l *Ledger) Add(ctx context.Context, input model.TransactionInput) (model.Transaction, error) {
	if err := input.Validate(); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	txn := model.Transaction{
		ID:         l.newID(),
		Type:       input.Type,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		WalletID:   input.WalletID,
		Date:       input.Date,
		Note:       input.Note,
		CreatedAt:  l.now(),
	}

	l.mu.Lock()
	if err := l.store.SaveTransaction(ctx, txn); err != nil {
		l.mu.Unlock()
		common.LogError(err, "failed to persist transaction", common.Fields{"wallet_id": txn.WalletID})
		return model.Transaction{}, fmt.Errorf("failed to add transaction: %w", err)
	}
	l.transactions = append(l.transactions, txn)
	l.recentlyAdded = append(l.recentlyAdded, txn.ID)
	l.mu.Unlock()

	l.changes.Notify(Event{Kind: EventAdded, TransactionID: txn.ID})
	return txn, nil
}

// Update applies patch to the transaction with id.
func (l *Ledger) Update(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	updated := patch.Apply(l.transactions[idx])
	if err := updated.Input().Validate(); err != nil {
		l.mu.Unlock()
		return model.Transaction{}, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	if err := l.store.UpdateTransaction(ctx, updated); err != nil {
		l.mu.Unlock()
		common.LogError(err, "failed to persist transaction update", common.Fields{"id": id})
		return model.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	l.transactions[idx] = updated
	l.mu.Unlock()

	l.changes.Notify(Event{Kind: EventUpdated, TransactionID: id})
	return updated, nil
}

// Delete removes the transaction with id.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		l.mu.Unlock()
		common.LogError(err, "failed to delete transaction", common.Fields{"id": id})
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	l.transactions = append(l.transactions[:idx:idx], l.transactions[idx+1:]...)
	l.mu.Unlock()

	l.changes.Notify(Event{Kind: EventDeleted, TransactionID: id})
	return nil
}

func (l *Ledger) indexOf(id string) int {
	for i, txn := range l.transactions {
		if txn.ID == id {
			return i
		}
	}
	return -1
}

// GetByID returns the transaction with id.
func (l *Ledger) GetByID(id string) (model.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if idx := l.indexOf(id); idx >= 0 {
		return l.transactions[idx], true
	}
	return model.Transaction{}, false
}

// List returns a snapshot copy of every transaction.
func (l *Ledger) List() []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Transaction(nil), l.transactions...)
}

// WithCategory joins the transaction with its category. The category is
// nil when it has been deleted.
func (l *Ledger) WithCategory(id string, categories CategoryLookup) (model.TransactionWithCategory, bool) {
	txn, ok := l.GetByID(id)
	if !ok {
		return model.TransactionWithCategory{}, false
	}
	return Join(txn, categories), true
}

// Join attaches the category of txn when it still exists.
func Join(txn model.Transaction, categories CategoryLookup) model.TransactionWithCategory {
	joined := model.TransactionWithCategory{Transaction: txn}
	if cat, ok := categories.Get(txn.CategoryID); ok {
		joined.Category = &cat
	}
	return joined
}

// RecentlyAdded returns the ids added since the last ClearRecentlyAdded.
func (l *Ledger) RecentlyAdded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.recentlyAdded...)
}

// ClearRecentlyAdded resets the recently added marker.
func (l *Ledger) ClearRecentlyAdded() {
	l.mu.Lock()
	l.recentlyAdded = nil
	l.mu.Unlock()
}
