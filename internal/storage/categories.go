package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/unikonkon/ceasflow/internal/model"
)

// GetCategories returns every category ordered by type then display order.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, icon, sort_order, notes, created_at
		FROM categories
		ORDER BY type, sort_order, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var (
			cat       model.Category
			notesJSON string
			catType   string
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &catType, &cat.Icon, &cat.Order, &notesJSON, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Type = model.CategoryType(catType)
		if notesJSON != "" {
			if err := json.Unmarshal([]byte(notesJSON), &cat.Notes); err != nil {
				slog.Warn("ignoring malformed category notes", "category_id", cat.ID, "error", err)
				cat.Notes = nil
			}
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// SaveCategory inserts or replaces a category.
func (s *SQLiteStorage) SaveCategory(ctx context.Context, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(&category); err != nil {
		return err
	}
	return saveCategory(ctx, s.db, category)
}

// SaveCategories writes all categories in one database transaction.
func (s *SQLiteStorage) SaveCategories(ctx context.Context, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range categories {
		if err := validateCategory(&categories[i]); err != nil {
			return fmt.Errorf("category at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, cat := range categories {
		if err := saveCategory(ctx, tx, cat); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteCategory removes a category. Transactions that reference it are kept.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveCategory(ctx context.Context, db execer, cat model.Category) error {
	notes := cat.Notes
	if notes == nil {
		notes = []string{}
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode category notes: %w", err)
	}

	createdAt := cat.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO categories (id, name, type, icon, sort_order, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			icon = excluded.icon,
			sort_order = excluded.sort_order,
			notes = excluded.notes`

	if _, err := db.ExecContext(ctx, query,
		cat.ID, cat.Name, string(cat.Type), cat.Icon, cat.Order, string(notesJSON), createdAt,
	); err != nil {
		return fmt.Errorf("failed to save category %q: %w", cat.Name, err)
	}
	return nil
}
