package model

import (
	"strings"
	"time"
)

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
)

// MaxCategoryNotes is the size of the recent-notes list kept per category.
const MaxCategoryNotes = 50

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category is a user-visible expense or income bucket.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Type      CategoryType
	Icon      string
	Color     string
	Notes     []string
	Order     int
}

// CategoryInput holds the fields a caller supplies when creating a category.
type CategoryInput struct {
	Name string
	Type CategoryType
	Icon string
}

// Clone returns a copy that does not share the notes slice.
func (c Category) Clone() Category {
	if c.Notes != nil {
		c.Notes = append([]string(nil), c.Notes...)
	}
	return c
}

// HasNote reports whether note is already in the recent-notes list.
func (c *Category) HasNote(note string) bool {
	for _, n := range c.Notes {
		if n == note {
			return true
		}
	}
	return false
}

// categoryAppearance is the built-in icon and color for a category name.
type categoryAppearance struct {
	Icon  string
	Color string
}

// DefaultCategory describes one entry of the seed table.
type DefaultCategory struct {
	Name  string
	Icon  string
	Color string
}

// DefaultExpenseCategories is seeded on first run, in display order.
var DefaultExpenseCategories = []DefaultCategory{
	{Name: "อาหาร", Icon: "🍜", Color: "#f97316"},
	{Name: "เครื่องดื่ม", Icon: "🧋", Color: "#a16207"},
	{Name: "เดินทาง", Icon: "🚗", Color: "#0ea5e9"},
	{Name: "ช้อปปิ้ง", Icon: "🛍️", Color: "#ec4899"},
	{Name: "ที่พัก", Icon: "🏠", Color: "#8b5cf6"},
	{Name: "บิล/ค่าน้ำไฟ", Icon: "💡", Color: "#eab308"},
	{Name: "สุขภาพ", Icon: "💊", Color: "#ef4444"},
	{Name: "บันเทิง", Icon: "🎬", Color: "#6366f1"},
	{Name: "การศึกษา", Icon: "📚", Color: "#14b8a6"},
	{Name: "อื่นๆ", Icon: "📦", Color: "#64748b"},
}

// DefaultIncomeCategories is seeded on first run, in display order.
var DefaultIncomeCategories = []DefaultCategory{
	{Name: "เงินเดือน", Icon: "💼", Color: "#22c55e"},
	{Name: "โบนัส", Icon: "🎁", Color: "#10b981"},
	{Name: "ลงทุน", Icon: "📈", Color: "#0891b2"},
	{Name: "ขายของ", Icon: "🏪", Color: "#84cc16"},
	{Name: "รายรับอื่นๆ", Icon: "💵", Color: "#65a30d"},
}

var typeDefaultAppearance = map[CategoryType]categoryAppearance{
	CategoryTypeExpense: {Icon: "💸", Color: "#ef4444"},
	CategoryTypeIncome:  {Icon: "💰", Color: "#22c55e"},
}

// DefaultCategories returns the seed set for t. Order is the table position.
func DefaultCategories(t CategoryType) []DefaultCategory {
	if t == CategoryTypeIncome {
		return DefaultIncomeCategories
	}
	return DefaultExpenseCategories
}

func lookupDefault(name string, t CategoryType) (DefaultCategory, bool) {
	for _, d := range DefaultCategories(t) {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return DefaultCategory{}, false
}

// Enrich re-attaches display metadata. A custom icon wins; otherwise the
// built-in table entry for the name is used, falling back to the type default.
func Enrich(c Category) Category {
	fallback := typeDefaultAppearance[c.Type]
	icon, color := fallback.Icon, fallback.Color
	if d, ok := lookupDefault(c.Name, c.Type); ok {
		icon, color = d.Icon, d.Color
	}
	if c.Icon == "" {
		c.Icon = icon
	}
	if c.Color == "" {
		c.Color = color
	}
	return c
}
