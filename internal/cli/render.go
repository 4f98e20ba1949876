package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/alert"
	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/model"
)

// CategoryLookup resolves category ids for display.
type CategoryLookup interface {
	Get(id string) (model.Category, bool)
}

// Renderer writes ledger views as aligned text.
type Renderer struct {
	writer   io.Writer
	location *time.Location
	symbol   string
}

// NewRenderer creates a Renderer. Dates are shown in loc and money with
// symbol.
func NewRenderer(writer io.Writer, loc *time.Location, symbol string) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	if symbol == "" {
		symbol = currency.DefaultSymbol
	}
	return &Renderer{writer: writer, location: loc, symbol: symbol}
}

func (r *Renderer) money(d decimal.Decimal) string {
	return currency.FormatWithSymbol(d, r.symbol)
}

func (r *Renderer) signed(t model.TransactionType, d decimal.Decimal) string {
	if t == model.TransactionTypeIncome {
		return IncomeStyle.Render("+" + r.money(d))
	}
	return ExpenseStyle.Render("-" + r.money(d))
}

func (r *Renderer) table(fn func(w io.Writer)) error {
	tw := tabwriter.NewWriter(r.writer, 0, 0, 2, ' ', 0)
	fn(tw)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func (r *Renderer) line(s string) error {
	if _, err := fmt.Fprintln(r.writer, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Categories lists categories in display order.
func (r *Renderer) Categories(cats []model.Category) error {
	return r.table(func(w io.Writer) {
		fmt.Fprintln(w, "ORDER\tICON\tNAME\tTYPE\tID")
		for _, c := range cats {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.Order, c.Icon, c.Name, c.Type, SubtleStyle.Render(c.ID))
		}
	})
}

// Wallets lists wallets with their all-time balances.
func (r *Renderer) Wallets(wallets []model.Wallet, balances []model.WalletBalance) error {
	byID := make(map[string]model.WalletBalance, len(balances))
	for _, b := range balances {
		byID[b.WalletID] = b
	}
	return r.table(func(w io.Writer) {
		fmt.Fprintln(w, "WALLET\tTYPE\tINITIAL\tINCOME\tEXPENSE\tBALANCE\tID")
		for _, wl := range wallets {
			b := byID[wl.ID]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.TrimSpace(wl.Icon+" "+wl.Name), wl.Type,
				r.money(wl.InitialBalance), r.money(b.Income), r.money(b.Expense),
				BoldStyle.Render(r.money(b.Balance)), SubtleStyle.Render(wl.ID))
		}
	})
}

// Transactions lists transactions, newest first as given.
func (r *Renderer) Transactions(txs []model.Transaction, categories CategoryLookup) error {
	return r.table(func(w io.Writer) {
		fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tNOTE\tID")
		for _, txn := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				txn.Date.In(r.location).Format("2006-01-02 15:04"),
				categoryName(txn.CategoryID, categories),
				r.signed(txn.Type, txn.Amount), txn.Note, SubtleStyle.Render(txn.ID))
		}
	})
}

// Summary prints the month totals and the balance for the current filter.
func (r *Renderer) Summary(title string, monthly model.MonthlySummary, balance decimal.Decimal) error {
	content := strings.Join([]string{
		"รายรับ      " + IncomeStyle.Render(r.money(monthly.Income)),
		"รายจ่าย     " + ExpenseStyle.Render(r.money(monthly.Expense)),
		"คงเหลือ     " + BoldStyle.Render(r.money(monthly.Balance())),
		"ยอดเงินรวม  " + BoldStyle.Render(r.money(balance)),
	}, "\n")
	return r.line(RenderBox(title, content))
}

// Daily prints one block per day, most recent first as given.
func (r *Renderer) Daily(days []model.DailySummary, categories CategoryLookup) error {
	if len(days) == 0 {
		return r.line(SubtleStyle.Render("ไม่มีรายการ"))
	}
	for _, day := range days {
		header := fmt.Sprintf("%s  %s %s", BoldStyle.Render(day.Date.In(r.location).Format("Mon 2 Jan 2006")),
			IncomeStyle.Render("+"+r.money(day.Income)), ExpenseStyle.Render("-"+r.money(day.Expense)))
		if err := r.line(header); err != nil {
			return err
		}
		err := r.table(func(w io.Writer) {
			for _, txn := range day.Transactions {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", txn.Date.In(r.location).Format("15:04"),
					categoryName(txn.CategoryID, categories), r.signed(txn.Type, txn.Amount), txn.Note)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Alerts prints each alert in a box colored by its level.
func (r *Renderer) Alerts(alerts []alert.Alert) error {
	for _, a := range alerts {
		style := WarningBoxStyle
		if a.Level == alert.LevelDanger {
			style = DangerBoxStyle
		}
		if err := r.line(renderBox(style, a.Title, a.Description)); err != nil {
			return err
		}
	}
	return nil
}

// AlertSettings prints the configured targets.
func (r *Renderer) AlertSettings(s alert.Settings, categories CategoryLookup) error {
	target := "-"
	if s.MonthlyExpenseTarget != nil {
		target = r.money(*s.MonthlyExpenseTarget)
	}
	if err := r.line(fmt.Sprintf("Monthly target: %s (%s)", target, enabledLabel(s.MonthlyTargetEnabled))); err != nil {
		return err
	}
	if err := r.line(fmt.Sprintf("Category limits: %s", enabledLabel(s.CategoryLimitsEnabled))); err != nil {
		return err
	}
	return r.table(func(w io.Writer) {
		for _, l := range s.CategoryLimits {
			fmt.Fprintf(w, "  %s\t%s\n", categoryName(l.CategoryID, categories), r.money(l.Limit))
		}
	})
}

func enabledLabel(on bool) string {
	if on {
		return SuccessStyle.Render("enabled")
	}
	return SubtleStyle.Render("disabled")
}

func categoryName(id string, categories CategoryLookup) string {
	if categories != nil {
		if c, ok := categories.Get(id); ok {
			return strings.TrimSpace(c.Icon + " " + c.Name)
		}
	}
	return SubtleStyle.Render("(deleted)")
}
