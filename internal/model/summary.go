package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary groups one calendar day's transactions.
type DailySummary struct {
	Date         time.Time
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Transactions []Transaction
}

// MonthlySummary totals a month's filtered transactions.
type MonthlySummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is income minus expense. It is derived, never stored.
func (m MonthlySummary) Balance() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// WalletBalance is a wallet's all-time position.
type WalletBalance struct {
	WalletID string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Balance  decimal.Decimal
}
