package storage

import (
	"context"
	"fmt"

	"github.com/unikonkon/ceasflow/internal/model"
)

// GetWallets returns all wallets in creation order.
func (s *SQLiteStorage) GetWallets(ctx context.Context) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, icon, color, currency, initial_balance, is_asset, created_at
		FROM wallets
		ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []model.Wallet
	for rows.Next() {
		var (
			w          model.Wallet
			walletType string
		)
		if err := rows.Scan(&w.ID, &w.Name, &walletType, &w.Icon, &w.Color, &w.Currency,
			&w.InitialBalance, &w.IsAsset, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		w.Type = model.WalletType(walletType)
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// SaveWallet inserts or replaces a wallet.
func (s *SQLiteStorage) SaveWallet(ctx context.Context, wallet model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(&wallet); err != nil {
		return err
	}

	query := `
		INSERT INTO wallets (id, name, type, icon, color, currency, initial_balance, is_asset, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			icon = excluded.icon,
			color = excluded.color,
			currency = excluded.currency,
			initial_balance = excluded.initial_balance,
			is_asset = excluded.is_asset`

	if _, err := s.db.ExecContext(ctx, query,
		wallet.ID, wallet.Name, string(wallet.Type), wallet.Icon, wallet.Color, wallet.Currency,
		wallet.InitialBalance.String(), wallet.IsAsset, wallet.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to save wallet %q: %w", wallet.Name, err)
	}
	return nil
}
