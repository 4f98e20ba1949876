// Package wallet keeps the session's list of wallets. Balances are never
// stored here; they are derived from the ledger by package aggregate.
package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/emoji"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
)

// DefaultIcon is used when a wallet is added without an icon.
const DefaultIcon = "💰"

// Event is delivered to subscribers after a wallet has been persisted.
type Event struct {
	WalletID string
	Loaded   bool
}

// Registry holds wallets in creation order.
type Registry struct {
	store   service.WalletStore
	now     func() time.Time
	newID   func() string
	changes common.Notifier[Event]
	wallets []model.Wallet
	mu      sync.RWMutex
	loaded  bool
}

// New creates a registry backed by store.
func New(store service.WalletStore) *Registry {
	return &Registry{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Subscribe registers fn for change events.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	return r.changes.Subscribe(fn)
}

// Load reads wallets from the store once.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return nil
	}

	wallets, err := r.store.GetWallets(ctx)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to load wallets: %w", err)
	}
	r.wallets = wallets
	r.loaded = true
	r.mu.Unlock()

	r.changes.Notify(Event{Loaded: true})
	return nil
}

// Add assigns an id and creation time, persists the wallet and appends it.
func (r *Registry) Add(ctx context.Context, input model.WalletInput) (model.Wallet, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Wallet{}, fmt.Errorf("%w: wallet name cannot be empty", common.ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return model.Wallet{}, fmt.Errorf("%w: wallet type %q", common.ErrInvalidInput, input.Type)
	}
	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = DefaultIcon
	}
	// The icon prefixes the name in exported headers, so it must read back
	// as exactly one emoji.
	if !emoji.IsSingle(icon) {
		return model.Wallet{}, fmt.Errorf("%w: wallet icon %q must be a single emoji", common.ErrInvalidInput, input.Icon)
	}

	w := model.Wallet{
		ID:             r.newID(),
		Name:           name,
		Type:           input.Type,
		Icon:           icon,
		Color:          input.Color,
		Currency:       input.Currency,
		InitialBalance: input.InitialBalance,
		IsAsset:        input.IsAsset,
		CreatedAt:      r.now(),
	}

	r.mu.Lock()
	if err := r.store.SaveWallet(ctx, w); err != nil {
		r.mu.Unlock()
		common.LogError(err, "failed to persist wallet", common.Fields{"name": name})
		return model.Wallet{}, fmt.Errorf("failed to add wallet %q: %w", name, err)
	}
	r.wallets = append(r.wallets, w)
	r.mu.Unlock()

	r.changes.Notify(Event{WalletID: w.ID})
	return w, nil
}

// List returns a copy of all wallets in creation order.
func (r *Registry) List() []model.Wallet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Wallet(nil), r.wallets...)
}

// Get returns the wallet with id.
func (r *Registry) Get(id string) (model.Wallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.ID == id {
			return w, true
		}
	}
	return model.Wallet{}, false
}

// FindByName returns the first wallet named exactly name.
func (r *Registry) FindByName(name string) (model.Wallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.Name == name {
			return w, true
		}
	}
	return model.Wallet{}, false
}

// Names returns every wallet name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.wallets))
	for i, w := range r.wallets {
		names[i] = w.Name
	}
	return names
}
