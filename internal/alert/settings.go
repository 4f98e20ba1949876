// Package alert stores spending targets and turns aggregated expenses into
// warnings.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/service"
)

// SettingsKey is the settings-table key the alert settings live under.
const SettingsKey = "alert-settings"

// CategoryLimit caps monthly spending in one expense category.
type CategoryLimit struct {
	CategoryID string          `json:"categoryId"`
	Limit      decimal.Decimal `json:"limit"`
}

// Settings is the persisted alert configuration.
type Settings struct {
	MonthlyExpenseTarget  *decimal.Decimal `json:"monthlyExpenseTarget"`
	CategoryLimits        []CategoryLimit  `json:"categoryLimits"`
	MonthlyTargetEnabled  bool             `json:"isMonthlyTargetEnabled"`
	CategoryLimitsEnabled bool             `json:"isCategoryLimitsEnabled"`
}

func (s Settings) clone() Settings {
	if s.MonthlyExpenseTarget != nil {
		target := *s.MonthlyExpenseTarget
		s.MonthlyExpenseTarget = &target
	}
	s.CategoryLimits = append([]CategoryLimit(nil), s.CategoryLimits...)
	return s
}

// Store reads and writes Settings through a settings store.
type Store struct {
	backend service.SettingsStore
	cached  *Settings
	mu      sync.Mutex
}

// NewStore creates a Store.
func NewStore(backend service.SettingsStore) *Store {
	return &Store{backend: backend}
}

// Get returns the current settings. Missing or unreadable settings yield
// the defaults: everything disabled and no limits.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	return current.clone(), nil
}

func (s *Store) load(ctx context.Context) (Settings, error) {
	if s.cached != nil {
		return *s.cached, nil
	}

	raw, err := s.backend.GetSetting(ctx, SettingsKey)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read alert settings: %w", err)
	}

	var settings Settings
	if raw != nil {
		if err := json.Unmarshal(raw, &settings); err != nil {
			common.LogError(err, "ignoring unreadable alert settings", nil)
			settings = Settings{}
		}
	}
	s.cached = &settings
	return settings, nil
}

// update applies mutate to a copy of the settings and persists it before
// the cached copy changes.
func (s *Store) update(ctx context.Context, mutate func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := current.clone()
	if err := mutate(&next); err != nil {
		return Settings{}, err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to encode alert settings: %w", err)
	}
	if err := s.backend.SaveSetting(ctx, SettingsKey, raw); err != nil {
		return Settings{}, fmt.Errorf("failed to save alert settings: %w", err)
	}

	s.cached = &next
	return next.clone(), nil
}

// SetMonthlyExpenseTarget sets or, with nil, clears the monthly target.
func (s *Store) SetMonthlyExpenseTarget(ctx context.Context, target *decimal.Decimal) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		if target != nil && !target.IsPositive() {
			return fmt.Errorf("%w: monthly target must be greater than zero", common.ErrInvalidInput)
		}
		st.MonthlyExpenseTarget = target
		return nil
	})
}

// SetMonthlyTargetEnabled toggles the monthly target alert.
func (s *Store) SetMonthlyTargetEnabled(ctx context.Context, enabled bool) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		st.MonthlyTargetEnabled = enabled
		return nil
	})
}

// SetCategoryLimitsEnabled toggles the per-category alerts.
func (s *Store) SetCategoryLimitsEnabled(ctx context.Context, enabled bool) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		st.CategoryLimitsEnabled = enabled
		return nil
	})
}

// AddCategoryLimit adds a limit. A category that already has one is left
// unchanged.
func (s *Store) AddCategoryLimit(ctx context.Context, categoryID string, limit decimal.Decimal) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		if err := validateLimit(categoryID, limit); err != nil {
			return err
		}
		for _, cl := range st.CategoryLimits {
			if cl.CategoryID == categoryID {
				return nil
			}
		}
		st.CategoryLimits = append(st.CategoryLimits, CategoryLimit{CategoryID: categoryID, Limit: limit})
		return nil
	})
}

// UpdateCategoryLimit changes an existing limit.
func (s *Store) UpdateCategoryLimit(ctx context.Context, categoryID string, limit decimal.Decimal) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		if err := validateLimit(categoryID, limit); err != nil {
			return err
		}
		for i := range st.CategoryLimits {
			if st.CategoryLimits[i].CategoryID == categoryID {
				st.CategoryLimits[i].Limit = limit
				return nil
			}
		}
		return fmt.Errorf("category limit %s: %w", categoryID, common.ErrNotFound)
	})
}

// RemoveCategoryLimit deletes the limit for categoryID if present.
func (s *Store) RemoveCategoryLimit(ctx context.Context, categoryID string) (Settings, error) {
	return s.update(ctx, func(st *Settings) error {
		kept := st.CategoryLimits[:0]
		for _, cl := range st.CategoryLimits {
			if cl.CategoryID != categoryID {
				kept = append(kept, cl)
			}
		}
		st.CategoryLimits = kept
		return nil
	})
}

func validateLimit(categoryID string, limit decimal.Decimal) error {
	if categoryID == "" {
		return fmt.Errorf("%w: category id is required", common.ErrInvalidInput)
	}
	if !limit.IsPositive() {
		return fmt.Errorf("%w: limit must be greater than zero", common.ErrInvalidInput)
	}
	return nil
}
