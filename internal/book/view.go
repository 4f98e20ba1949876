package book

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/aggregate"
	"github.com/unikonkon/ceasflow/internal/alert"
	"github.com/unikonkon/ceasflow/internal/model"
)

// View is the derived state for one filter: what a home screen shows.
type View struct {
	Filter         aggregate.Filter
	CurrentBalance decimal.Decimal
	Monthly        model.MonthlySummary
	Daily          []model.DailySummary
	Balances       []model.WalletBalance
	Alerts         []alert.Alert
}

// View computes summaries for f. A nil f.Location uses the Book's zone.
// Alerts always cover the whole month, even when f selects one day.
func (b *Book) View(ctx context.Context, f aggregate.Filter) (View, error) {
	if f.Location == nil {
		f.Location = b.opts.Location
	}

	b.mu.RLock()
	txs := b.ledger.List()
	wallets := b.wallets.List()
	alerts := b.alerts
	b.mu.RUnlock()

	visible := aggregate.FilterTransactions(txs, f)
	v := View{
		Filter:         f,
		CurrentBalance: aggregate.CurrentBalance(wallets, txs, f),
		Monthly:        aggregate.Summarize(visible),
		Daily:          aggregate.DailySummaries(txs, f),
		Balances:       aggregate.WalletBalances(wallets, txs),
	}

	settings, err := alerts.Get(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to read alert settings: %w", err)
	}

	month := f
	month.Day = 0
	inMonth := aggregate.FilterTransactions(txs, month)
	v.Alerts = alert.Evaluate(settings, aggregate.Summarize(inMonth).Expense,
		aggregate.CategoryExpenses(inMonth), lockedLookup{b})
	return v, nil
}

// lockedLookup resolves categories through the Book's read lock.
type lockedLookup struct {
	b *Book
}

func (l lockedLookup) Get(id string) (model.Category, bool) {
	return l.b.Category(id)
}
