package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction.
type TransactionType string

const (
	// TransactionTypeExpense is money leaving a wallet.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeIncome is money entering a wallet.
	TransactionTypeIncome TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// CategoryType returns the category type transactions of this kind use.
func (t TransactionType) CategoryType() CategoryType {
	if t == TransactionTypeIncome {
		return CategoryTypeIncome
	}
	return CategoryTypeExpense
}

// Transaction validation errors.
var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrMissingCategory   = errors.New("missing category id")
	ErrMissingWallet     = errors.New("missing wallet id")
	ErrMissingDate       = errors.New("missing date")
)

// Transaction is a single income or expense entry. Amount is always positive;
// the sign is carried by Type.
type Transaction struct {
	Date       time.Time
	CreatedAt  time.Time
	ID         string
	Type       TransactionType
	CategoryID string
	WalletID   string
	Note       string
	Amount     decimal.Decimal
}

// TransactionInput is what callers supply to add a transaction.
type TransactionInput struct {
	Date       time.Time
	Type       TransactionType
	CategoryID string
	WalletID   string
	Note       string
	Amount     decimal.Decimal
}

// Validate checks the invariants every stored transaction must hold.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrNonPositiveAmount, in.Amount)
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return ErrMissingCategory
	}
	if strings.TrimSpace(in.WalletID) == "" {
		return ErrMissingWallet
	}
	if in.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Input returns the mutable fields of t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Date:       t.Date,
		Type:       t.Type,
		CategoryID: t.CategoryID,
		WalletID:   t.WalletID,
		Note:       t.Note,
		Amount:     t.Amount,
	}
}

// TransactionPatch updates any subset of a transaction's fields except ID.
// Nil fields are left unchanged.
type TransactionPatch struct {
	Date       *time.Time
	Type       *TransactionType
	CategoryID *string
	WalletID   *string
	Note       *string
	Amount     *decimal.Decimal
}

// Apply returns t with the patch applied. The result is not validated.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.WalletID != nil {
		t.WalletID = *p.WalletID
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	return t
}

// TransactionWithCategory is a read-time join for display. Category is nil
// when the referenced category has been deleted.
type TransactionWithCategory struct {
	Category *Category
	Transaction
}
