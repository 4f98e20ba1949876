package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/model"
)

// MonthTotal is one calendar month of an all-time breakdown.
type MonthTotal struct {
	Start   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Balance is income minus expense.
func (m MonthTotal) Balance() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// ByMonth totals txs per calendar month in loc, oldest month first.
func ByMonth(txs []model.Transaction, loc *time.Location) []MonthTotal {
	if loc == nil {
		loc = time.Local
	}

	index := make(map[time.Time]int)
	var months []MonthTotal
	for _, txn := range txs {
		d := txn.Date.In(loc)
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
		i, ok := index[start]
		if !ok {
			i = len(months)
			index[start] = i
			months = append(months, MonthTotal{Start: start})
		}
		m := &months[i]
		m.Count++
		if txn.Type == model.TransactionTypeIncome {
			m.Income = m.Income.Add(txn.Amount)
		} else {
			m.Expense = m.Expense.Add(txn.Amount)
		}
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Start.Before(months[j].Start)
	})
	return months
}

// CategoryTotal is the all-time sum for one category id and type.
type CategoryTotal struct {
	CategoryID string
	Type       model.TransactionType
	Amount     decimal.Decimal
	Count      int
}

// ByCategory totals txs per category and type, expense first and then by
// descending amount. Equal amounts keep first-seen order.
func ByCategory(txs []model.Transaction) []CategoryTotal {
	type key struct {
		id string
		t  model.TransactionType
	}

	index := make(map[key]int)
	var totals []CategoryTotal
	for _, txn := range txs {
		k := key{txn.CategoryID, txn.Type}
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, CategoryTotal{CategoryID: txn.CategoryID, Type: txn.Type})
		}
		totals[i].Amount = totals[i].Amount.Add(txn.Amount)
		totals[i].Count++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Type != totals[j].Type {
			return totals[i].Type == model.TransactionTypeExpense
		}
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	return totals
}

// DateRange returns the earliest and latest transaction dates. ok is false
// for an empty ledger.
func DateRange(txs []model.Transaction) (first, last time.Time, ok bool) {
	for i, txn := range txs {
		if i == 0 || txn.Date.Before(first) {
			first = txn.Date
		}
		if i == 0 || txn.Date.After(last) {
			last = txn.Date
		}
	}
	return first, last, len(txs) > 0
}
