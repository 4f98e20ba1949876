package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/unikonkon/ceasflow/internal/aggregate"
	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/model"
)

// Export and import busy errors.
var (
	ErrExportInProgress = fmt.Errorf("%w: export", common.ErrBusy)
	ErrImportInProgress = fmt.Errorf("%w: import", common.ErrBusy)
)

// FileNamePrefix starts every exported file name.
const FileNamePrefix = "CeasFlow_Export_"

// ExportResult is a finished workbook.
type ExportResult struct {
	FileName string
	Data     []byte
	Sheets   []string
}

// Save writes the workbook into dir and returns the full path.
func (r *ExportResult) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, r.FileName)
	if err := os.WriteFile(path, r.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Exporter builds .xlsx workbooks from a ledger snapshot. One export runs at
// a time per Exporter.
type Exporter struct {
	location       *time.Location
	now            func() time.Time
	currencySymbol string
	busy           atomic.Bool
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExportClock overrides the clock used for the file name and overview.
func WithExportClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// WithCurrencySymbol sets the symbol on metadata rows.
func WithCurrencySymbol(symbol string) ExporterOption {
	return func(e *Exporter) { e.currencySymbol = symbol }
}

// NewExporter creates an Exporter that renders dates in loc.
func NewExporter(loc *time.Location, opts ...ExporterOption) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	e := &Exporter{
		location:       loc,
		now:            time.Now,
		currencySymbol: currency.DefaultSymbol,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds the workbook. The bytes are returned only once every sheet
// has been written; on failure nothing is returned.
func (e *Exporter) Export(ctx context.Context, snap Snapshot, onProgress ProgressFunc) (*ExportResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	progress := newReporter(onProgress)
	result, err := e.export(ctx, snap, progress)
	if err != nil {
		progress.fail(err)
		common.LogError(err, "export failed", common.Fields{"transactions": len(snap.Transactions)})
		return nil, err
	}

	progress.report(StageComplete, 100, fmt.Sprintf("ส่งออกสำเร็จ! %s", result.FileName))
	slog.Info("export complete", "file", result.FileName, "bytes", len(result.Data), "sheets", len(result.Sheets))
	return result, nil
}

func (e *Exporter) export(ctx context.Context, snap Snapshot, progress *reporter) (*ExportResult, error) {
	progress.report(StagePreparing, 10, "กำลังเตรียมข้อมูล...")
	exportedAt := e.now()

	data, err := e.prepare(ctx, snap, exportedAt)
	if err != nil {
		return nil, err
	}

	progress.report(StageWriting, 30, "กำลังเขียนข้อมูล...")
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("failed to close workbook", "error", err)
		}
	}()

	wb, err := newWorkbook(f)
	if err != nil {
		return nil, err
	}

	if err := e.writeOverview(wb, data); err != nil {
		return nil, err
	}
	progress.report(StageWriting, 40, "เขียนภาพรวมแล้ว")

	for i, section := range data.Wallets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.writeWallet(wb, section); err != nil {
			return nil, err
		}
		pct := 40 + (i+1)*30/len(data.Wallets)
		progress.report(StageWriting, pct, fmt.Sprintf("เขียนกระเป๋า \"%s\" แล้ว", section.Wallet.Name))
	}

	if err := e.writeMonthly(wb, data); err != nil {
		return nil, err
	}
	progress.report(StageWriting, 75, "เขียนสรุปรายเดือนแล้ว")

	if err := e.writeCategories(wb, data); err != nil {
		return nil, err
	}
	progress.report(StageWriting, 80, "เขียนสรุปหมวดหมู่แล้ว")

	progress.report(StageFinalizing, 90, "กำลังสร้างไฟล์...")
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}

	return &ExportResult{
		FileName: FileName(exportedAt.In(e.location)),
		Data:     buf.Bytes(),
		Sheets:   wb.sheetNames,
	}, nil
}

// FileName returns the export file name for t.
func FileName(t time.Time) string {
	return FileNamePrefix + t.Format("2006-01-02_150405") + ".xlsx"
}

// prepare computes every grouping before writing. The groupings are
// independent so they run concurrently.
func (e *Exporter) prepare(ctx context.Context, snap Snapshot, exportedAt time.Time) (*TabData, error) {
	categories := make(map[string]model.Category, len(snap.Categories))
	for _, c := range snap.Categories {
		categories[c.ID] = c
	}

	data := &TabData{
		ExportedAt:   exportedAt,
		Transactions: len(snap.Transactions),
		CategoryRefs: len(snap.Categories),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Wallets = walletSections(snap, categories)
		return gctx.Err()
	})
	g.Go(func() error {
		data.Months = aggregate.ByMonth(snap.Transactions, e.location)
		return gctx.Err()
	})
	g.Go(func() error {
		data.Categories = categorySections(snap.Transactions, categories)
		return gctx.Err()
	})
	g.Go(func() error {
		data.Totals = aggregate.Summarize(snap.Transactions)
		data.TotalBalance = aggregate.TotalBalance(aggregate.WalletBalances(snap.Wallets, snap.Transactions))
		data.FirstDate, data.LastDate, data.HasRange = aggregate.DateRange(snap.Transactions)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to prepare export: %w", err)
	}
	return data, nil
}

func toRow(txn model.Transaction, categories map[string]model.Category) TransactionRow {
	row := TransactionRow{
		Date:         txn.Date,
		Type:         txn.Type,
		CategoryName: uncategorized,
		Note:         txn.Note,
		Amount:       txn.Amount,
	}
	if cat, ok := categories[txn.CategoryID]; ok {
		cat = model.Enrich(cat)
		row.CategoryIcon = cat.Icon
		row.CategoryName = cat.Name
	}
	return row
}

func sortRows(rows []TransactionRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}

func walletSections(snap Snapshot, categories map[string]model.Category) []WalletSection {
	sections := make([]WalletSection, len(snap.Wallets))
	index := make(map[string]int, len(snap.Wallets))
	for i, w := range snap.Wallets {
		sections[i] = WalletSection{Wallet: w, Balance: aggregate.WalletBalanceOf(w, snap.Transactions)}
		index[w.ID] = i
	}
	for _, txn := range snap.Transactions {
		if i, ok := index[txn.WalletID]; ok {
			sections[i].Rows = append(sections[i].Rows, toRow(txn, categories))
		}
	}
	for i := range sections {
		sortRows(sections[i].Rows)
	}
	return sections
}

func categorySections(txs []model.Transaction, categories map[string]model.Category) []CategorySection {
	totals := aggregate.ByCategory(txs)
	sections := make([]CategorySection, len(totals))
	type key struct {
		id string
		t  model.TransactionType
	}
	index := make(map[key]int, len(totals))
	for i, total := range totals {
		sections[i] = CategorySection{Total: total, Name: uncategorized}
		if cat, ok := categories[total.CategoryID]; ok {
			cat = model.Enrich(cat)
			sections[i].Icon = cat.Icon
			sections[i].Name = cat.Name
		}
		index[key{total.CategoryID, total.Type}] = i
	}
	for _, txn := range txs {
		i := index[key{txn.CategoryID, txn.Type}]
		sections[i].Rows = append(sections[i].Rows, toRow(txn, categories))
	}
	for i := range sections {
		sortRows(sections[i].Rows)
	}
	return sections
}

func typeLabelOf(t model.TransactionType) string {
	if t == model.TransactionTypeIncome {
		return incomeLabel
	}
	return expenseLabel
}

func amountCell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func (e *Exporter) money(d decimal.Decimal) string {
	return currency.FormatWithSymbol(d, e.currencySymbol)
}

func (e *Exporter) writeOverview(wb *workbook, data *TabData) error {
	s, err := wb.sheet(overviewSheetName)
	if err != nil {
		return err
	}

	dateRange := "-"
	if data.HasRange {
		dateRange = FormatThaiDay(data.FirstDate, e.location) + " - " + FormatThaiDay(data.LastDate, e.location)
	}

	s.title("CeasFlow - สรุปภาพรวม")
	s.row("ส่งออกเมื่อ", FormatThaiDate(data.ExportedAt, e.location))
	s.row("ช่วงเวลาข้อมูล", dateRange)
	s.blank()
	s.moneyRow("รายรับรวม", data.Totals.Income)
	s.moneyRow("รายจ่ายรวม", data.Totals.Expense)
	s.moneyRow("ยอดคงเหลือสุทธิ", data.Totals.Balance())
	s.moneyRow("ยอดเงินรวมทุกกระเป๋า", data.TotalBalance)
	s.row("จำนวนรายการ", data.Transactions)
	s.row("จำนวนกระเป๋าเงิน", len(data.Wallets))
	s.row("จำนวนหมวดหมู่", data.CategoryRefs)
	s.blank()

	s.header(walletLabel, walletTypeLabel, initialBalanceLabel, incomeLabel, expenseLabel, "ยอดคงเหลือ", "จำนวนรายการ")
	first := s.next
	for _, w := range data.Wallets {
		s.row(strings.TrimSpace(w.Wallet.Icon+" "+w.Wallet.Name), string(w.Wallet.Type),
			amountCell(w.Wallet.InitialBalance), amountCell(w.Balance.Income),
			amountCell(w.Balance.Expense), amountCell(w.Balance.Balance), len(w.Rows))
	}
	s.moneyColumns(first, s.next-1, "C", "F")
	s.widths(map[string]float64{"A": 28, "B": 20, "C": 16, "D": 16, "E": 16, "F": 16, "G": 14})
	return s.err
}

func (e *Exporter) writeWallet(wb *workbook, section WalletSection) error {
	w := section.Wallet
	s, err := wb.sheet(WalletSheetMarker + " " + w.Name)
	if err != nil {
		return err
	}

	icon := w.Icon
	if icon == "" {
		icon = DefaultWalletIcon
	}
	s.title(headerLine(walletLabel, icon+" "+w.Name))
	s.row(headerLine(walletTypeLabel, string(w.Type)))
	s.row(headerLine(initialBalanceLabel, e.money(w.InitialBalance)))
	s.moneyRow("รายรับรวม", section.Balance.Income)
	s.moneyRow("รายจ่ายรวม", section.Balance.Expense)
	s.moneyRow("ยอดคงเหลือ", section.Balance.Balance)
	s.row("จำนวนรายการ", len(section.Rows))
	s.blank()

	s.header(transactionHeader...)
	first := s.next
	for _, r := range section.Rows {
		s.row(FormatThaiDate(r.Date, e.location), typeLabelOf(r.Type), r.CategoryIcon, r.CategoryName,
			amountCell(r.Amount), r.Note)
	}
	s.moneyColumns(first, s.next-1, "E", "E")
	s.widths(map[string]float64{"A": 22, "B": 10, "C": 8, "D": 20, "E": 14, "F": 36})
	return s.err
}

func (e *Exporter) writeMonthly(wb *workbook, data *TabData) error {
	s, err := wb.sheet(monthlySheetName)
	if err != nil {
		return err
	}

	s.title("สรุปรายเดือน")
	s.blank()
	s.header("เดือน", incomeLabel, expenseLabel, "คงเหลือ", "จำนวนรายการ")
	first := s.next
	for _, m := range data.Months {
		s.row(FormatThaiMonth(m.Start, e.location), amountCell(m.Income), amountCell(m.Expense),
			amountCell(m.Balance()), m.Count)
	}
	s.row("รวม", amountCell(data.Totals.Income), amountCell(data.Totals.Expense),
		amountCell(data.Totals.Balance()), data.Transactions)
	s.moneyColumns(first, s.next-1, "B", "D")
	s.widths(map[string]float64{"A": 16, "B": 16, "C": 16, "D": 16, "E": 14})
	return s.err
}

func (e *Exporter) writeCategories(wb *workbook, data *TabData) error {
	s, err := wb.sheet(categorySheetName)
	if err != nil {
		return err
	}

	s.title("สรุปตามหมวดหมู่")
	s.blank()
	s.header(typeLabel, iconLabel, categoryLabel, amountLabel, "จำนวนรายการ", "สัดส่วน")
	first := s.next
	for _, c := range data.Categories {
		typeTotal := data.Totals.Expense
		if c.Total.Type == model.TransactionTypeIncome {
			typeTotal = data.Totals.Income
		}
		share := "-"
		if typeTotal.IsPositive() {
			share = currency.Percent(c.Total.Amount.Div(typeTotal))
		}
		s.row(typeLabelOf(c.Total.Type), c.Icon, c.Name, amountCell(c.Total.Amount), c.Total.Count, share)
	}
	s.moneyColumns(first, s.next-1, "D", "D")
	s.blank()

	s.header(categoryLabel, dateLabel, typeLabel, amountLabel, noteLabel)
	first = s.next
	for _, c := range data.Categories {
		for _, r := range c.Rows {
			s.row(strings.TrimSpace(c.Icon+" "+c.Name), FormatThaiDate(r.Date, e.location),
				typeLabelOf(r.Type), amountCell(r.Amount), r.Note)
		}
	}
	s.moneyColumns(first, s.next-1, "D", "D")
	s.widths(map[string]float64{"A": 22, "B": 22, "C": 12, "D": 14, "E": 36, "F": 10})
	return s.err
}
