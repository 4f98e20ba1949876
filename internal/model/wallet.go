package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WalletType is the kind of money container a wallet represents.
type WalletType string

// Wallet types.
const (
	WalletTypeCash         WalletType = "cash"
	WalletTypeBank         WalletType = "bank"
	WalletTypeCreditCard   WalletType = "credit_card"
	WalletTypeEWallet      WalletType = "e_wallet"
	WalletTypeSavings      WalletType = "savings"
	WalletTypeDailyExpense WalletType = "daily_expense"
)

// WalletTypes lists every wallet type in display order.
var WalletTypes = []WalletType{
	WalletTypeCash,
	WalletTypeBank,
	WalletTypeCreditCard,
	WalletTypeEWallet,
	WalletTypeSavings,
	WalletTypeDailyExpense,
}

// Valid reports whether t is a known wallet type.
func (t WalletType) Valid() bool {
	for _, wt := range WalletTypes {
		if wt == t {
			return true
		}
	}
	return false
}

// ParseWalletType matches s case-insensitively against the known wallet
// types. Unknown or empty input yields WalletTypeCash.
func ParseWalletType(s string) WalletType {
	cleaned := WalletType(strings.ToLower(strings.TrimSpace(s)))
	if cleaned.Valid() {
		return cleaned
	}
	return WalletTypeCash
}

// Wallet is a named money container with an opening balance. The current
// balance is never stored; see aggregate.WalletBalances.
type Wallet struct {
	CreatedAt      time.Time
	ID             string
	Name           string
	Type           WalletType
	Icon           string
	Color          string
	Currency       string
	InitialBalance decimal.Decimal
	IsAsset        bool
}

// WalletInput is a wallet without the registry-assigned id and timestamp.
type WalletInput struct {
	Name           string
	Type           WalletType
	Icon           string
	Color          string
	Currency       string
	InitialBalance decimal.Decimal
	IsAsset        bool
}
