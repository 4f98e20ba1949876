// Package aggregate derives summaries from a ledger snapshot. Every function
// is pure; nothing here reads or writes storage.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
)

// Filter selects the visible transactions: one calendar month, optionally
// narrowed to a day of that month and to one wallet. Dates are bucketed in
// Location, or time.Local when it is nil.
type Filter struct {
	Location *time.Location
	WalletID string
	Year     int
	Month    time.Month
	Day      int
}

// MonthOf returns a filter for the month containing t.
func MonthOf(t time.Time) Filter {
	return Filter{Year: t.Year(), Month: t.Month(), Location: t.Location()}
}

// ParseMonth parses "YYYY-MM" into a filter bucketed in loc.
func ParseMonth(s string, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: month %q must be YYYY-MM", common.ErrInvalidInput, s)
	}
	return Filter{Year: t.Year(), Month: t.Month(), Location: loc}, nil
}

func (f Filter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Matches reports whether txn is visible under f.
func (f Filter) Matches(txn model.Transaction) bool {
	if f.WalletID != "" && txn.WalletID != f.WalletID {
		return false
	}
	d := txn.Date.In(f.location())
	if d.Year() != f.Year || d.Month() != f.Month {
		return false
	}
	return f.Day == 0 || d.Day() == f.Day
}

// FilterTransactions returns the visible transactions in their original order.
func FilterTransactions(txs []model.Transaction, f Filter) []model.Transaction {
	var out []model.Transaction
	for _, txn := range txs {
		if f.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// DailySummaries groups the visible transactions by calendar day, most
// recent day first. Within a day transactions keep their date order, with
// ties left in input order.
func DailySummaries(txs []model.Transaction, f Filter) []model.DailySummary {
	loc := f.location()
	visible := FilterTransactions(txs, f)
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date.Before(visible[j].Date)
	})

	var (
		groups []model.DailySummary
		index  = make(map[time.Time]int)
	)
	for _, txn := range visible {
		d := txn.Date.In(loc)
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)

		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, model.DailySummary{Date: day})
		}

		g := &groups[i]
		g.Transactions = append(g.Transactions, txn)
		if txn.Type == model.TransactionTypeIncome {
			g.Income = g.Income.Add(txn.Amount)
		} else {
			g.Expense = g.Expense.Add(txn.Amount)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

// Monthly sums the visible transactions by type.
func Monthly(txs []model.Transaction, f Filter) model.MonthlySummary {
	return Summarize(FilterTransactions(txs, f))
}

// Summarize sums txs by type without filtering.
func Summarize(txs []model.Transaction) model.MonthlySummary {
	var s model.MonthlySummary
	for _, txn := range txs {
		if txn.Type == model.TransactionTypeIncome {
			s.Income = s.Income.Add(txn.Amount)
		} else {
			s.Expense = s.Expense.Add(txn.Amount)
		}
	}
	return s
}

// WalletBalanceOf returns the all-time position of w:
// initial balance plus income minus expense over every transaction of w.
func WalletBalanceOf(w model.Wallet, txs []model.Transaction) model.WalletBalance {
	b := model.WalletBalance{WalletID: w.ID}
	for _, txn := range txs {
		if txn.WalletID != w.ID {
			continue
		}
		if txn.Type == model.TransactionTypeIncome {
			b.Income = b.Income.Add(txn.Amount)
		} else {
			b.Expense = b.Expense.Add(txn.Amount)
		}
	}
	b.Balance = w.InitialBalance.Add(b.Income).Sub(b.Expense)
	return b
}

// WalletBalances returns one all-time balance per wallet, in wallet order.
// The month and day filter never applies to balances.
func WalletBalances(wallets []model.Wallet, txs []model.Transaction) []model.WalletBalance {
	out := make([]model.WalletBalance, len(wallets))
	for i, w := range wallets {
		out[i] = WalletBalanceOf(w, txs)
	}
	return out
}

// TotalBalance sums every wallet balance.
func TotalBalance(balances []model.WalletBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total
}

// CurrentBalance is the balance shown for a filter: the selected wallet's
// balance, or the sum over all wallets when no wallet is selected.
func CurrentBalance(wallets []model.Wallet, txs []model.Transaction, f Filter) decimal.Decimal {
	if f.WalletID != "" {
		for _, w := range wallets {
			if w.ID == f.WalletID {
				return WalletBalanceOf(w, txs).Balance
			}
		}
		return decimal.Zero
	}
	return TotalBalance(WalletBalances(wallets, txs))
}

// CategoryExpenses sums expense amounts by category id over txs, which is
// normally the visible set.
func CategoryExpenses(txs []model.Transaction) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txs {
		if txn.Type != model.TransactionTypeExpense {
			continue
		}
		sums[txn.CategoryID] = sums[txn.CategoryID].Add(txn.Amount)
	}
	return sums
}
