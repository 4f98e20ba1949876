package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/emoji"
	"github.com/unikonkon/ceasflow/internal/model"
)

// Import errors.
var (
	ErrNoWalletSheets    = errors.New("workbook has no wallet sheets")
	ErrNoTransactions    = errors.New("workbook has no transactions")
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// Imported wallet defaults.
const (
	DefaultWalletIcon  = "💰"
	DefaultWalletColor = "#6366f1"
)

// oleSignature starts legacy .xls (BIFF) and other OLE2 compound files.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Dependencies is everything an import needs from the ledger. The importer
// never touches storage directly.
type Dependencies interface {
	WalletNames() []string
	FindCategory(name string, t model.CategoryType) (model.Category, bool)
	AddCategory(ctx context.Context, input model.CategoryInput) (model.Category, error)
	AddWallet(ctx context.Context, input model.WalletInput) (model.Wallet, error)
	AddTransaction(ctx context.Context, input model.TransactionInput) (model.Transaction, error)
}

// ImportResult counts what an import created.
type ImportResult struct {
	WalletsCreated       int
	TransactionsImported int
	CategoriesCreated    int
}

// Importer reads workbooks produced by Exporter, or hand-made ones in the
// same layout. One import runs at a time per Importer.
type Importer struct {
	location *time.Location
	currency string
	symbol   string
	busy     atomic.Bool
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportCurrencySymbol sets the symbol stripped from amount cells. It
// should match the symbol the workbook was exported with.
func WithImportCurrencySymbol(symbol string) ImporterOption {
	return func(im *Importer) { im.symbol = symbol }
}

// NewImporter creates an Importer that reads dates in loc and tags new
// wallets with currencyCode.
func NewImporter(loc *time.Location, currencyCode string, opts ...ImporterOption) *Importer {
	if loc == nil {
		loc = time.Local
	}
	if currencyCode == "" {
		currencyCode = "THB"
	}
	im := &Importer{location: loc, currency: currencyCode, symbol: currency.DefaultSymbol}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import reads r and creates one wallet per wallet sheet, with its
// transactions. Wallets and transactions created before a failure stay.
func (im *Importer) Import(ctx context.Context, r io.Reader, deps Dependencies, onProgress ProgressFunc) (ImportResult, error) {
	if !im.busy.CompareAndSwap(false, true) {
		return ImportResult{}, ErrImportInProgress
	}
	defer im.busy.Store(false)

	progress := newReporter(onProgress)
	result, err := im.run(ctx, r, deps, progress)
	if err != nil {
		progress.fail(err)
		common.LogError(err, "import failed", common.Fields{
			"wallets_created":       result.WalletsCreated,
			"transactions_imported": result.TransactionsImported,
		})
		return result, err
	}

	progress.report(StageComplete, 100,
		fmt.Sprintf("นำเข้าสำเร็จ! %d กระเป๋า, %d รายการ", result.WalletsCreated, result.TransactionsImported))
	slog.Info("import complete",
		"wallets", result.WalletsCreated,
		"transactions", result.TransactionsImported,
		"categories", result.CategoriesCreated)
	return result, nil
}

func (im *Importer) run(ctx context.Context, r io.Reader, deps Dependencies, progress *reporter) (ImportResult, error) {
	var result ImportResult

	progress.report(StageReading, 10, "กำลังอ่านไฟล์...")
	f, err := openWorkbook(r)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("failed to close workbook", "error", err)
		}
	}()

	progress.report(StageParsing, 30, "กำลังวิเคราะห์ข้อมูล...")
	wallets, err := im.ParseWorkbook(f)
	if err != nil {
		return result, err
	}

	progress.report(StageImporting, 50, "กำลังนำเข้าข้อมูล...")
	total := len(wallets)
	for i, parsed := range wallets {
		name := UniqueWalletName(parsed.Name, deps.WalletNames())

		icon := parsed.Icon
		if icon == "" {
			icon = DefaultWalletIcon
		}
		wallet, err := deps.AddWallet(ctx, model.WalletInput{
			Name:           name,
			Type:           parsed.Type,
			Icon:           icon,
			Color:          DefaultWalletColor,
			Currency:       im.currency,
			InitialBalance: parsed.InitialBalance,
			IsAsset:        parsed.Type != model.WalletTypeCreditCard,
		})
		if err != nil {
			return result, fmt.Errorf("failed to create wallet %q: %w", name, err)
		}
		result.WalletsCreated++

		progress.report(StageImporting, interpolate(i, 0.5, total), fmt.Sprintf("กำลังนำเข้า \"%s\"...", name))

		for _, txn := range parsed.Transactions {
			cat, created, err := resolveCategory(ctx, deps, txn)
			if err != nil {
				return result, err
			}
			if created {
				result.CategoriesCreated++
			}

			if _, err := deps.AddTransaction(ctx, model.TransactionInput{
				Type:       txn.Type,
				Amount:     txn.Amount,
				CategoryID: cat.ID,
				WalletID:   wallet.ID,
				Date:       txn.Date,
				Note:       txn.Note,
			}); err != nil {
				return result, fmt.Errorf("failed to import transaction into %q: %w", name, err)
			}
			result.TransactionsImported++
		}

		progress.report(StageImporting, interpolate(i, 1, total),
			fmt.Sprintf("นำเข้า \"%s\" สำเร็จ (%d รายการ)", name, len(parsed.Transactions)))
	}

	return result, nil
}

// interpolate maps wallet i of total, plus a fraction, onto 50..90.
func interpolate(i int, fraction float64, total int) int {
	return int(math.Round(50 + (float64(i)+fraction)/float64(total)*40))
}

func resolveCategory(ctx context.Context, deps Dependencies, txn ParsedTransaction) (model.Category, bool, error) {
	catType := txn.Type.CategoryType()
	if cat, ok := deps.FindCategory(txn.CategoryName, catType); ok {
		return cat, false, nil
	}

	cat, err := deps.AddCategory(ctx, model.CategoryInput{
		Name: txn.CategoryName,
		Type: catType,
		Icon: txn.CategoryIcon,
	})
	if err != nil {
		return model.Category{}, false, fmt.Errorf("failed to create category %q: %w", txn.CategoryName, err)
	}
	return cat, true, nil
}

func openWorkbook(r io.Reader) (*excelize.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	if bytes.HasPrefix(data, oleSignature) {
		return nil, common.NewUserError("ไฟล์ .xls แบบเก่าไม่รองรับ กรุณาบันทึกเป็น .xlsx", ErrUnsupportedFormat)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewUserError("ไม่สามารถเปิดไฟล์ได้", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err))
	}
	return f, nil
}

// ParseWorkbook reads every wallet sheet of f. Sheets without the wallet
// marker are ignored, as are wallet sheets without a name or transaction
// table.
func (im *Importer) ParseWorkbook(f *excelize.File) ([]ParsedWallet, error) {
	var (
		wallets      []ParsedWallet
		sheets       int
		transactions int
	)
	for _, name := range f.GetSheetList() {
		if !strings.Contains(name, WalletSheetMarker) {
			continue
		}
		sheets++

		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		parsed, ok := im.ParseWalletRows(rows)
		if !ok {
			slog.Warn("skipping unreadable wallet sheet", "sheet", name)
			continue
		}
		parsed.SheetName = name
		transactions += len(parsed.Transactions)
		wallets = append(wallets, parsed)
	}

	if sheets == 0 {
		return nil, common.NewUserError("ไม่พบแผ่นงานกระเป๋าเงินในไฟล์", ErrNoWalletSheets)
	}
	if transactions == 0 {
		return nil, common.NewUserError("ไม่พบข้อมูลรายการในไฟล์", ErrNoTransactions)
	}
	return wallets, nil
}

// ParseWalletRows parses one wallet sheet's rows. ok is false when the
// sheet has no wallet name or no transaction table header.
func (im *Importer) ParseWalletRows(rows [][]string) (ParsedWallet, bool) {
	icon, name := parseWalletHeader(cellAt(rows, 0, 0))
	if name == "" {
		return ParsedWallet{}, false
	}

	wallet := ParsedWallet{
		Name:           name,
		Icon:           icon,
		Type:           model.ParseWalletType(stripLabel(cellAt(rows, 1, 0), walletTypeLabel)),
		InitialBalance: im.parseInitialBalance(stripLabel(cellAt(rows, 2, 0), initialBalanceLabel)),
	}

	header := -1
	for i, row := range rows {
		if len(row) >= 2 && strings.Contains(row[0], dateLabel) && strings.Contains(row[1], typeLabel) {
			header = i
			break
		}
	}
	if header < 0 {
		return ParsedWallet{}, false
	}

	for _, row := range rows[header+1:] {
		if txn, ok := im.parseTransactionRow(row); ok {
			wallet.Transactions = append(wallet.Transactions, txn)
		}
	}
	return wallet, true
}

func (im *Importer) parseTransactionRow(row []string) (ParsedTransaction, bool) {
	if len(row) < 5 {
		return ParsedTransaction{}, false
	}

	date, err := ParseThaiDate(row[0], im.location)
	if err != nil {
		return ParsedTransaction{}, false
	}

	// Negative and zero amounts are skipped rather than sign-flipped.
	amount, err := im.parseAmount(row[4])
	if err != nil || !amount.IsPositive() {
		return ParsedTransaction{}, false
	}

	txnType := model.TransactionTypeExpense
	if strings.TrimSpace(row[1]) == incomeLabel {
		txnType = model.TransactionTypeIncome
	}

	categoryName := strings.TrimSpace(row[3])
	if categoryName == "" {
		categoryName = uncategorized
	}

	var note string
	if len(row) > 5 {
		note = strings.TrimSpace(row[5])
	}

	return ParsedTransaction{
		Date:         date,
		Type:         txnType,
		CategoryIcon: strings.TrimSpace(row[2]),
		CategoryName: categoryName,
		Note:         note,
		Amount:       amount,
	}, true
}

func cellAt(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}

// stripLabel removes a leading "<label>:" and surrounding whitespace.
func stripLabel(s, label string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, label+":"); ok {
		return strings.TrimSpace(rest)
	}
	return s
}

func parseWalletHeader(s string) (icon, name string) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, walletLabel+":")
	if !ok {
		return "", s
	}
	return emoji.SplitLeading(rest)
}

func (im *Importer) parseInitialBalance(s string) decimal.Decimal {
	d, err := currency.ParseWithSymbol(s, im.symbol)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseAmount accepts a raw numeric cell or a currency-formatted string.
func (im *Importer) parseAmount(s string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		return d, nil
	}
	return currency.ParseWithSymbol(s, im.symbol)
}

// UniqueWalletName returns name, or "<name> (ซ้ำ)", then "<name> (ซ้ำ 2)"
// and so on, whichever is first absent from existing.
func UniqueWalletName(name string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, n := range existing {
		taken[n] = true
	}
	if !taken[name] {
		return name
	}

	candidate := fmt.Sprintf("%s (%s)", name, duplicateMarker)
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%s %d)", name, duplicateMarker, n)
	}
	return candidate
}
