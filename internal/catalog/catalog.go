// Package catalog owns the expense and income categories, their display
// order and their recent-notes lists.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/service"
)

// EventKind names the mutation that produced an Event.
type EventKind string

// Catalog events.
const (
	EventLoaded    EventKind = "loaded"
	EventAdded     EventKind = "added"
	EventDeleted   EventKind = "deleted"
	EventReordered EventKind = "reordered"
	EventNotes     EventKind = "notes"
)

// Event is delivered to subscribers after a mutation has been persisted.
type Event struct {
	Kind       EventKind
	CategoryID string
	Type       model.CategoryType
}

// Catalog is the single in-memory source of categories for a session. Every
// mutation is written to the store before the in-memory lists change.
type Catalog struct {
	store   service.CategoryStore
	now     func() time.Time
	newID   func() string
	changes common.Notifier[Event]
	expense []model.Category
	income  []model.Category
	// icons holds each category's stored icon; the lists carry enriched
	// copies and writes go through persisted.
	icons   map[string]string
	mu      sync.RWMutex
	loaded  bool
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Catalog) { c.newID = newID }
}

// New creates a catalog backed by store. Call Load before use.
func New(store service.CategoryStore, opts ...Option) *Catalog {
	c := &Catalog{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
		icons: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for change events.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.changes.Subscribe(fn)
}

// Load reads categories from the store. The first load against an empty
// store seeds the default set. Later calls are no-ops.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return nil
	}

	stored, err := c.store.GetCategories(ctx)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if len(stored) == 0 {
		seed := c.seedCategories()
		if err := c.store.SaveCategories(ctx, seed); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to seed default categories: %w", err)
		}
		stored = seed
		slog.Info("seeded default categories", "count", len(seed))
	}

	c.expense, c.income = nil, nil
	c.icons = make(map[string]string, len(stored))
	for _, cat := range stored {
		c.icons[cat.ID] = cat.Icon
		cat = model.Enrich(cat)
		if cat.Type == model.CategoryTypeIncome {
			c.income = append(c.income, cat)
		} else {
			c.expense = append(c.expense, cat)
		}
	}
	sortByOrder(c.expense)
	sortByOrder(c.income)
	c.loaded = true
	c.mu.Unlock()

	c.changes.Notify(Event{Kind: EventLoaded})
	return nil
}

func (c *Catalog) seedCategories() []model.Category {
	now := c.now()
	var seed []model.Category
	for _, t := range []model.CategoryType{model.CategoryTypeExpense, model.CategoryTypeIncome} {
		for i, d := range model.DefaultCategories(t) {
			seed = append(seed, model.Category{
				ID:        c.newID(),
				Name:      d.Name,
				Type:      t,
				Order:     i,
				CreatedAt: now,
			})
		}
	}
	return seed
}

func sortByOrder(cats []model.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].Order < cats[j].Order
	})
}

// list returns the slice for t. Callers hold c.mu.
func (c *Catalog) list(t model.CategoryType) []model.Category {
	if t == model.CategoryTypeIncome {
		return c.income
	}
	return c.expense
}

func (c *Catalog) setList(t model.CategoryType, cats []model.Category) {
	if t == model.CategoryTypeIncome {
		c.income = cats
	} else {
		c.expense = cats
	}
}

// locate finds a category by id. Callers hold c.mu.
func (c *Catalog) locate(id string) (model.CategoryType, int, bool) {
	for _, t := range []model.CategoryType{model.CategoryTypeExpense, model.CategoryTypeIncome} {
		for i, cat := range c.list(t) {
			if cat.ID == id {
				return t, i, true
			}
		}
	}
	return "", -1, false
}

// Add creates a category at the end of its type's order.
func (c *Catalog) Add(ctx context.Context, input model.CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return model.Category{}, fmt.Errorf("%w: category type %q", common.ErrInvalidInput, input.Type)
	}

	c.mu.Lock()
	existing := c.list(input.Type)
	cat := model.Category{
		ID:        c.newID(),
		Name:      name,
		Type:      input.Type,
		Icon:      strings.TrimSpace(input.Icon),
		Order:     len(existing),
		CreatedAt: c.now(),
	}

	if err := c.store.SaveCategory(ctx, cat); err != nil {
		c.mu.Unlock()
		common.LogError(err, "failed to persist category", common.Fields{"name": name})
		return model.Category{}, fmt.Errorf("failed to add category %q: %w", name, err)
	}

	c.icons[cat.ID] = cat.Icon
	enriched := model.Enrich(cat)
	c.setList(input.Type, append(existing, enriched))
	c.mu.Unlock()

	c.changes.Notify(Event{Kind: EventAdded, CategoryID: cat.ID, Type: cat.Type})
	return enriched.Clone(), nil
}

// Delete removes a category and renumbers its type densely. Transactions
// referencing it are left untouched.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	t, idx, ok := c.locate(id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}

	current := c.list(t)
	remaining := make([]model.Category, 0, len(current)-1)
	remaining = append(remaining, current[:idx]...)
	remaining = append(remaining, current[idx+1:]...)
	renumber(remaining)

	if err := c.store.DeleteCategory(ctx, id); err != nil {
		c.mu.Unlock()
		common.LogError(err, "failed to delete category", common.Fields{"id": id})
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if len(remaining) > 0 {
		if err := c.store.SaveCategories(ctx, c.persisted(remaining...)); err != nil {
			// The row is already gone; keep memory in step with storage.
			c.setList(t, remaining)
			c.mu.Unlock()
			common.LogError(err, "failed to persist category order", common.Fields{"type": t})
			return fmt.Errorf("failed to renumber categories: %w", err)
		}
	}

	c.setList(t, remaining)
	delete(c.icons, id)
	c.mu.Unlock()

	c.changes.Notify(Event{Kind: EventDeleted, CategoryID: id, Type: t})
	return nil
}

// Reorder sets the display order of one type to match ids, which must be a
// permutation of that type's category ids. All categories of both types are
// persisted so the stored order column is globally consistent.
func (c *Catalog) Reorder(ctx context.Context, t model.CategoryType, ids []string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: category type %q", common.ErrInvalidInput, t)
	}

	c.mu.Lock()
	current := c.list(t)
	if len(ids) != len(current) {
		c.mu.Unlock()
		return fmt.Errorf("%w: expected %d category ids, got %d", common.ErrInvalidInput, len(current), len(ids))
	}

	byID := make(map[string]model.Category, len(current))
	for _, cat := range current {
		byID[cat.ID] = cat
	}

	reordered := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		cat, ok := byID[id]
		if !ok {
			c.mu.Unlock()
			return fmt.Errorf("%w: category %s is not a %s category or is repeated", common.ErrInvalidInput, id, t)
		}
		delete(byID, id)
		reordered = append(reordered, cat)
	}
	renumber(reordered)

	all := make([]model.Category, 0, len(c.expense)+len(c.income))
	if t == model.CategoryTypeExpense {
		all = append(append(all, reordered...), c.income...)
	} else {
		all = append(append(all, c.expense...), reordered...)
	}

	if err := c.store.SaveCategories(ctx, c.persisted(all...)); err != nil {
		c.mu.Unlock()
		common.LogError(err, "failed to persist category order", common.Fields{"type": t})
		return fmt.Errorf("failed to reorder categories: %w", err)
	}

	c.setList(t, reordered)
	c.mu.Unlock()

	c.changes.Notify(Event{Kind: EventReordered, Type: t})
	return nil
}

// persisted returns copies of cats with display metadata reduced to what
// the store holds. Callers hold c.mu.
func (c *Catalog) persisted(cats ...model.Category) []model.Category {
	out := make([]model.Category, len(cats))
	for i, cat := range cats {
		cat = cat.Clone()
		cat.Icon = c.icons[cat.ID]
		cat.Color = ""
		out[i] = cat
	}
	return out
}

func renumber(cats []model.Category) {
	for i := range cats {
		cats[i].Order = i
	}
}

// AddNote remembers note for a category. Duplicates are ignored and the
// list keeps only the newest model.MaxCategoryNotes entries.
func (c *Catalog) AddNote(ctx context.Context, categoryID, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("%w: note cannot be empty", common.ErrInvalidInput)
	}

	return c.updateNotes(ctx, categoryID, func(cat *model.Category) bool {
		if cat.HasNote(note) {
			return false
		}
		notes := append(append([]string(nil), cat.Notes...), note)
		if len(notes) > model.MaxCategoryNotes {
			notes = notes[len(notes)-model.MaxCategoryNotes:]
		}
		cat.Notes = notes
		return true
	})
}

// RemoveNote forgets note for a category.
func (c *Catalog) RemoveNote(ctx context.Context, categoryID, note string) error {
	note = strings.TrimSpace(note)

	return c.updateNotes(ctx, categoryID, func(cat *model.Category) bool {
		if !cat.HasNote(note) {
			return false
		}
		notes := make([]string, 0, len(cat.Notes)-1)
		for _, n := range cat.Notes {
			if n != note {
				notes = append(notes, n)
			}
		}
		cat.Notes = notes
		return true
	})
}

func (c *Catalog) updateNotes(ctx context.Context, categoryID string, mutate func(*model.Category) bool) error {
	c.mu.Lock()
	t, idx, ok := c.locate(categoryID)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("category %s: %w", categoryID, common.ErrNotFound)
	}

	updated := c.list(t)[idx].Clone()
	if !mutate(&updated) {
		c.mu.Unlock()
		return nil
	}

	if err := c.store.SaveCategory(ctx, c.persisted(updated)[0]); err != nil {
		c.mu.Unlock()
		common.LogError(err, "failed to persist category notes", common.Fields{"id": categoryID})
		return fmt.Errorf("failed to update category notes: %w", err)
	}

	c.list(t)[idx] = updated
	c.mu.Unlock()

	c.changes.Notify(Event{Kind: EventNotes, CategoryID: categoryID, Type: t})
	return nil
}

// Notes returns a copy of a category's recent notes, oldest first.
func (c *Catalog) Notes(categoryID string) []string {
	cat, ok := c.Get(categoryID)
	if !ok {
		return nil
	}
	return cat.Notes
}

// Get returns a category by id.
func (c *Catalog) Get(id string) (model.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, idx, ok := c.locate(id)
	if !ok {
		return model.Category{}, false
	}
	return c.list(t)[idx].Clone(), true
}

// FindByName returns the category with exactly name and type t.
func (c *Catalog) FindByName(name string, t model.CategoryType) (model.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.list(t) {
		if cat.Name == name {
			return cat.Clone(), true
		}
	}
	return model.Category{}, false
}

// ByType returns the categories of t in display order.
func (c *Catalog) ByType(t model.CategoryType) []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.list(t))
}

// All returns expense categories followed by income categories.
func (c *Catalog) All() []model.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(cloneAll(c.expense), cloneAll(c.income)...)
}

func cloneAll(cats []model.Category) []model.Category {
	out := make([]model.Category, len(cats))
	for i, cat := range cats {
		out[i] = cat.Clone()
	}
	return out
}
