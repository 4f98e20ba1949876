package sheets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/aggregate"
	"github.com/unikonkon/ceasflow/internal/model"
)

// Snapshot is the ledger state an export is built from.
type Snapshot struct {
	Transactions []model.Transaction
	Wallets      []model.Wallet
	Categories   []model.Category
}

// TransactionRow is one line of a wallet sheet's transaction table.
type TransactionRow struct {
	Date         time.Time
	Type         model.TransactionType
	CategoryIcon string
	CategoryName string
	Note         string
	Amount       decimal.Decimal
}

// WalletSection is everything written to one wallet sheet.
type WalletSection struct {
	Wallet  model.Wallet
	Balance model.WalletBalance
	Rows    []TransactionRow
}

// CategorySection is one category's totals and its transactions.
type CategorySection struct {
	Total aggregate.CategoryTotal
	Icon  string
	Name  string
	Rows  []TransactionRow
}

// TabData holds all the data for a complete workbook, computed before any
// sheet is written.
type TabData struct {
	ExportedAt   time.Time
	FirstDate    time.Time
	LastDate     time.Time
	Totals       model.MonthlySummary
	TotalBalance decimal.Decimal
	Wallets      []WalletSection
	Months       []aggregate.MonthTotal
	Categories   []CategorySection
	Transactions int
	CategoryRefs int
	HasRange     bool
}

// ParsedWallet is a wallet sheet read back from a workbook.
type ParsedWallet struct {
	SheetName      string
	Name           string
	Icon           string
	Type           model.WalletType
	InitialBalance decimal.Decimal
	Transactions   []ParsedTransaction
}

// ParsedTransaction is one accepted row of a wallet sheet.
type ParsedTransaction struct {
	Date         time.Time
	Type         model.TransactionType
	CategoryIcon string
	CategoryName string
	Note         string
	Amount       decimal.Decimal
}
