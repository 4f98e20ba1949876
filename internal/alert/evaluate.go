package alert

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/model"
)

// Level is the severity of an alert.
type Level string

// Alert levels.
const (
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Thresholds on actual/target.
var (
	ExceededRatio    = decimal.NewFromInt(1)
	ApproachingRatio = decimal.RequireFromString("0.9")
)

// Alert is one message for the summary view.
type Alert struct {
	Level       Level
	Title       string
	Description string
	CategoryID  string
	Ratio       decimal.Decimal
}

// CategoryLookup resolves category ids to display names.
type CategoryLookup interface {
	Get(id string) (model.Category, bool)
}

const fallbackCategoryName = "หมวดหมู่"

// Evaluate compares the visible month's expense total and per-category
// expense sums against the configured targets.
func Evaluate(settings Settings, monthlyExpense decimal.Decimal, categoryExpenses map[string]decimal.Decimal, categories CategoryLookup) []Alert {
	var alerts []Alert

	target := settings.MonthlyExpenseTarget
	if settings.MonthlyTargetEnabled && target != nil && target.IsPositive() {
		ratio := monthlyExpense.Div(*target)
		desc := describe(monthlyExpense, *target, ratio)
		switch {
		case ratio.GreaterThanOrEqual(ExceededRatio):
			alerts = append(alerts, Alert{Level: LevelDanger, Title: "รายจ่ายเกินเป้าหมาย!", Description: desc, Ratio: ratio})
		case ratio.GreaterThanOrEqual(ApproachingRatio):
			alerts = append(alerts, Alert{Level: LevelWarning, Title: "รายจ่ายใกล้ถึงเป้าหมาย", Description: desc, Ratio: ratio})
		}
	}

	if !settings.CategoryLimitsEnabled {
		return alerts
	}

	for _, cl := range settings.CategoryLimits {
		spent := categoryExpenses[cl.CategoryID]
		if !spent.IsPositive() || !cl.Limit.IsPositive() {
			continue
		}

		name := fallbackCategoryName
		if categories != nil {
			if cat, ok := categories.Get(cl.CategoryID); ok {
				name = strings.TrimSpace(cat.Icon + " " + cat.Name)
			}
		}

		ratio := spent.Div(cl.Limit)
		desc := describe(spent, cl.Limit, ratio)
		switch {
		case ratio.GreaterThanOrEqual(ExceededRatio):
			alerts = append(alerts, Alert{Level: LevelDanger, Title: name + " เกินลิมิต!", Description: desc, CategoryID: cl.CategoryID, Ratio: ratio})
		case ratio.GreaterThanOrEqual(ApproachingRatio):
			alerts = append(alerts, Alert{Level: LevelWarning, Title: name + " ใกล้ถึงลิมิต", Description: desc, CategoryID: cl.CategoryID, Ratio: ratio})
		}
	}

	return alerts
}

func describe(actual, target, ratio decimal.Decimal) string {
	return fmt.Sprintf("%s / %s บาท (%s)", currency.Format(actual), currency.Format(target), currency.Percent(ratio))
}
