// Package book ties the category catalog, wallet registry and transaction
// ledger into one ledger session, with workbook export and import on top.
package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/unikonkon/ceasflow/internal/alert"
	"github.com/unikonkon/ceasflow/internal/catalog"
	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/ledger"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
	"github.com/unikonkon/ceasflow/internal/sheets"
	"github.com/unikonkon/ceasflow/internal/wallet"
)

// Options configures a Book.
type Options struct {
	Location       *time.Location
	Now            func() time.Time
	Currency       string
	CurrencySymbol string
}

// Book is one ledger session. Mutations take the write lock, so an import
// never interleaves with manual edits or with another import.
//
// Change events are queued while the write lock is held and delivered once
// it is released, so observers may read the Book. Observers outlive Reload.
type Book struct {
	store    service.Storage
	opts     Options
	catalog  *catalog.Catalog
	wallets  *wallet.Registry
	ledger   *ledger.Ledger
	alerts   *alert.Store
	exporter *sheets.Exporter
	importer *sheets.Importer

	categoryEvents    common.Notifier[catalog.Event]
	walletEvents      common.Notifier[wallet.Event]
	transactionEvents common.Notifier[ledger.Event]
	queued            []func()

	mu sync.RWMutex
}

var _ sheets.Dependencies = (*Book)(nil)

// New creates a Book over store. Call Load before use.
func New(store service.Storage, opts Options) *Book {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Currency == "" {
		opts.Currency = "THB"
	}

	var importOpts []sheets.ImporterOption
	exportOpts := []sheets.ExporterOption{sheets.WithExportClock(opts.Now)}
	if opts.CurrencySymbol != "" {
		exportOpts = append(exportOpts, sheets.WithCurrencySymbol(opts.CurrencySymbol))
		importOpts = append(importOpts, sheets.WithImportCurrencySymbol(opts.CurrencySymbol))
	}

	b := &Book{
		store:    store,
		opts:     opts,
		alerts:   alert.NewStore(store),
		exporter: sheets.NewExporter(opts.Location, exportOpts...),
		importer: sheets.NewImporter(opts.Location, opts.Currency, importOpts...),
	}
	b.reset()
	return b
}

// reset replaces the components and forwards their events to the Book's
// own notifiers. Callers hold the write lock, or own b exclusively.
func (b *Book) reset() {
	b.catalog = catalog.New(b.store, catalog.WithClock(b.opts.Now))
	b.wallets = wallet.New(b.store)
	b.ledger = ledger.New(b.store)

	b.catalog.Subscribe(func(e catalog.Event) {
		b.queue(func() { b.categoryEvents.Notify(e) })
	})
	b.wallets.Subscribe(func(e wallet.Event) {
		b.queue(func() { b.walletEvents.Notify(e) })
	})
	b.ledger.Subscribe(func(e ledger.Event) {
		b.queue(func() { b.transactionEvents.Notify(e) })
	})
}

// queue defers deliver until the write lock is released. Components only
// notify from inside Book mutators, which hold the lock.
func (b *Book) queue(deliver func()) {
	b.queued = append(b.queued, deliver)
}

// unlock releases the write lock, then delivers the events queued under it.
func (b *Book) unlock() {
	queued := b.queued
	b.queued = nil
	b.mu.Unlock()
	for _, deliver := range queued {
		deliver()
	}
}

// Open creates and loads a Book.
func Open(ctx context.Context, store service.Storage, opts Options) (*Book, error) {
	b := New(store, opts)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads categories, wallets and transactions from the store.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.unlock()
	return b.load(ctx)
}

func (b *Book) load(ctx context.Context) error {
	if err := b.catalog.Load(ctx); err != nil {
		return err
	}
	if err := b.wallets.Load(ctx); err != nil {
		return err
	}
	if err := b.ledger.Load(ctx); err != nil {
		return err
	}
	slog.Debug("ledger loaded",
		"categories", len(b.catalog.All()),
		"wallets", len(b.wallets.List()),
		"transactions", len(b.ledger.List()))
	return nil
}

// Reload discards in-memory state and reads everything again, for use after
// the database has been replaced underneath the Book.
func (b *Book) Reload(ctx context.Context) error {
	b.mu.Lock()
	defer b.unlock()
	b.reset()
	b.alerts = alert.NewStore(b.store)
	return b.load(ctx)
}

// Location is the zone dates are bucketed and rendered in.
func (b *Book) Location() *time.Location {
	return b.opts.Location
}

// Alerts returns the alert settings store.
func (b *Book) Alerts() *alert.Store {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alerts
}

// SubscribeCategories registers fn for catalog changes.
func (b *Book) SubscribeCategories(fn func(catalog.Event)) (unsubscribe func()) {
	return b.categoryEvents.Subscribe(fn)
}

// SubscribeWallets registers fn for wallet changes.
func (b *Book) SubscribeWallets(fn func(wallet.Event)) (unsubscribe func()) {
	return b.walletEvents.Subscribe(fn)
}

// SubscribeTransactions registers fn for ledger changes.
func (b *Book) SubscribeTransactions(fn func(ledger.Event)) (unsubscribe func()) {
	return b.transactionEvents.Subscribe(fn)
}

// Categories returns the categories of type t in display order.
func (b *Book) Categories(t model.CategoryType) []model.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog.ByType(t)
}

// Category returns the category with id.
func (b *Book) Category(id string) (model.Category, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog.Get(id)
}

// FindCategory returns the category with exactly name and type t.
func (b *Book) FindCategory(name string, t model.CategoryType) (model.Category, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog.FindByName(name, t)
}

// AddCategory creates a category at the end of its type's order.
func (b *Book) AddCategory(ctx context.Context, input model.CategoryInput) (model.Category, error) {
	b.mu.Lock()
	defer b.unlock()
	return b.catalog.Add(ctx, input)
}

// DeleteCategory removes a category. Transactions that reference it keep
// the dangling id.
func (b *Book) DeleteCategory(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.unlock()
	return b.catalog.Delete(ctx, id)
}

// ReorderCategories sets the display order of type t to ids.
func (b *Book) ReorderCategories(ctx context.Context, t model.CategoryType, ids []string) error {
	b.mu.Lock()
	defer b.unlock()
	return b.catalog.Reorder(ctx, t, ids)
}

// AddNote remembers note for a category.
func (b *Book) AddNote(ctx context.Context, categoryID, note string) error {
	b.mu.Lock()
	defer b.unlock()
	return b.catalog.AddNote(ctx, categoryID, note)
}

// RemoveNote forgets note for a category.
func (b *Book) RemoveNote(ctx context.Context, categoryID, note string) error {
	b.mu.Lock()
	defer b.unlock()
	return b.catalog.RemoveNote(ctx, categoryID, note)
}

// Notes returns a category's recent notes, oldest first.
func (b *Book) Notes(categoryID string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog.Notes(categoryID)
}

// Wallets returns every wallet in creation order.
func (b *Book) Wallets() []model.Wallet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.wallets.List()
}

// Wallet returns the wallet with id.
func (b *Book) Wallet(id string) (model.Wallet, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.wallets.Get(id)
}

// WalletNames returns the names of every wallet.
func (b *Book) WalletNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.wallets.Names()
}

// AddWallet creates a wallet.
func (b *Book) AddWallet(ctx context.Context, input model.WalletInput) (model.Wallet, error) {
	b.mu.Lock()
	defer b.unlock()
	return b.wallets.Add(ctx, input)
}

// Transactions returns every transaction in insertion order.
func (b *Book) Transactions() []model.Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.List()
}

// Transaction returns a transaction joined with its category.
func (b *Book) Transaction(id string) (model.TransactionWithCategory, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.WithCategory(id, b.catalog)
}

// AddTransaction records a transaction entered by hand. The wallet must
// exist. A non-empty note is also remembered on the category.
func (b *Book) AddTransaction(ctx context.Context, input model.TransactionInput) (model.Transaction, error) {
	b.mu.Lock()
	defer b.unlock()

	if err := b.checkReferences(input.WalletID, input.CategoryID); err != nil {
		return model.Transaction{}, err
	}
	txn, err := b.ledger.Add(ctx, input)
	if err != nil {
		return model.Transaction{}, err
	}
	b.rememberNote(ctx, txn.CategoryID, txn.Note)
	return txn, nil
}

// UpdateTransaction applies patch to the transaction with id.
func (b *Book) UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	b.mu.Lock()
	defer b.unlock()

	if patch.WalletID != nil || patch.CategoryID != nil {
		current, ok := b.ledger.GetByID(id)
		if !ok {
			return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
		}
		next := patch.Apply(current)
		if err := b.checkReferences(next.WalletID, next.CategoryID); err != nil {
			return model.Transaction{}, err
		}
	}

	txn, err := b.ledger.Update(ctx, id, patch)
	if err != nil {
		return model.Transaction{}, err
	}
	if patch.Note != nil {
		b.rememberNote(ctx, txn.CategoryID, txn.Note)
	}
	return txn, nil
}

// DeleteTransaction removes the transaction with id.
func (b *Book) DeleteTransaction(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.unlock()
	return b.ledger.Delete(ctx, id)
}

// RecentlyAdded returns ids added this session and not yet acknowledged.
func (b *Book) RecentlyAdded() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.RecentlyAdded()
}

// ClearRecentlyAdded acknowledges every recently added id.
func (b *Book) ClearRecentlyAdded() {
	b.mu.Lock()
	defer b.unlock()
	b.ledger.ClearRecentlyAdded()
}

func (b *Book) checkReferences(walletID, categoryID string) error {
	if walletID != "" {
		if _, ok := b.wallets.Get(walletID); !ok {
			return fmt.Errorf("wallet %s: %w", walletID, common.ErrNotFound)
		}
	}
	if categoryID != "" {
		if _, ok := b.catalog.Get(categoryID); !ok {
			return fmt.Errorf("category %s: %w", categoryID, common.ErrNotFound)
		}
	}
	return nil
}

// rememberNote is best effort: the transaction is already stored.
func (b *Book) rememberNote(ctx context.Context, categoryID, note string) {
	if strings.TrimSpace(note) == "" {
		return
	}
	if err := b.catalog.AddNote(ctx, categoryID, note); err != nil {
		slog.Warn("failed to remember note", "category_id", categoryID, "error", err)
	}
}

// Snapshot copies the current ledger for export.
func (b *Book) Snapshot() sheets.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot()
}

func (b *Book) snapshot() sheets.Snapshot {
	return sheets.Snapshot{
		Transactions: b.ledger.List(),
		Wallets:      b.wallets.List(),
		Categories:   b.catalog.All(),
	}
}

// Export builds a workbook of the whole ledger.
func (b *Book) Export(ctx context.Context, onProgress sheets.ProgressFunc) (*sheets.ExportResult, error) {
	snap := b.Snapshot()
	return b.exporter.Export(ctx, snap, onProgress)
}

// Import reads a workbook and appends its wallets and transactions. Manual
// edits wait until the import finishes.
func (b *Book) Import(ctx context.Context, r io.Reader, onProgress sheets.ProgressFunc) (sheets.ImportResult, error) {
	b.mu.Lock()
	defer b.unlock()
	return b.importer.Import(ctx, r, importTarget{b}, onProgress)
}

// importTarget is the Dependencies an import writes through. It runs under
// the Book's write lock and so calls the components directly.
type importTarget struct {
	b *Book
}

func (t importTarget) WalletNames() []string {
	return t.b.wallets.Names()
}

func (t importTarget) FindCategory(name string, ct model.CategoryType) (model.Category, bool) {
	return t.b.catalog.FindByName(name, ct)
}

func (t importTarget) AddCategory(ctx context.Context, input model.CategoryInput) (model.Category, error) {
	return t.b.catalog.Add(ctx, input)
}

func (t importTarget) AddWallet(ctx context.Context, input model.WalletInput) (model.Wallet, error) {
	return t.b.wallets.Add(ctx, input)
}

func (t importTarget) AddTransaction(ctx context.Context, input model.TransactionInput) (model.Transaction, error) {
	return t.b.ledger.Add(ctx, input)
}
