package sheets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
	"github.com/unikonkon/ceasflow/internal/testutil"
)

var exportTime = time.Date(2024, time.March, 15, 14, 5, 7, 0, testutil.Bangkok)

func newTestExporter() *Exporter {
	return NewExporter(testutil.Bangkok, WithExportClock(func() time.Time { return exportTime }))
}

func standardSnapshot() Snapshot {
	fx := testutil.StandardLedger()
	return Snapshot{Transactions: fx.Transactions, Wallets: fx.Wallets, Categories: fx.Categories}
}

func openResult(t *testing.T, result *ExportResult) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExport(t *testing.T) {
	var updates []Progress
	result, err := newTestExporter().Export(context.Background(), standardSnapshot(), func(p Progress) {
		updates = append(updates, p)
	})
	require.NoError(t, err)

	assert.Equal(t, "CeasFlow_Export_2024-03-15_140507.xlsx", result.FileName)
	want := []string{"📊 ภาพรวม", "💰 กสิกร", "💰 เงินสด", "📅 รายเดือน", "🏷️ หมวดหมู่"}
	assert.Equal(t, want, result.Sheets)

	f := openResult(t, result)
	assert.Equal(t, want, f.GetSheetList())

	rows, err := f.GetRows("💰 กสิกร", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 11)
	assert.Equal(t, "กระเป๋าเงิน: 💰 กสิกร", rows[0][0])
	assert.Equal(t, "ประเภท: bank", rows[1][0])
	assert.Equal(t, "ยอดเริ่มต้น: ฿1,000.00", rows[2][0])
	assert.Equal(t, transactionHeader, rows[8])

	salary := rows[9]
	assert.Equal(t, "1 มี.ค. 2567 09:00", salary[0])
	assert.Equal(t, incomeLabel, salary[1])
	assert.Equal(t, "เงินเดือน", salary[3])
	assert.True(t, decimal.NewFromInt(500).Equal(decimal.RequireFromString(salary[4])))

	food := rows[10]
	assert.Equal(t, "5 มี.ค. 2567 12:00", food[0])
	assert.Equal(t, expenseLabel, food[1])
	assert.Equal(t, "🍜", food[2])
	assert.Equal(t, "อาหาร", food[3])
	assert.Equal(t, "ข้าว", food[5])

	monthly, err := f.GetRows("📅 รายเดือน", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, monthly, 6)
	assert.Equal(t, "ก.พ. 2567", monthly[3][0])
	assert.Equal(t, "มี.ค. 2567", monthly[4][0])
	assert.Equal(t, "รวม", monthly[5][0])

	require.NotEmpty(t, updates)
	last := 0
	for _, u := range updates {
		assert.GreaterOrEqual(t, u.Percent, last)
		last = u.Percent
	}
	assert.Equal(t, StagePreparing, updates[0].Stage)
	assert.Equal(t, 10, updates[0].Percent)
	final := updates[len(updates)-1]
	assert.Equal(t, StageComplete, final.Stage)
	assert.Equal(t, 100, final.Percent)
}

func TestExport_Empty(t *testing.T) {
	result, err := newTestExporter().Export(context.Background(), Snapshot{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"📊 ภาพรวม", "📅 รายเดือน", "🏷️ หมวดหมู่"}, result.Sheets)
	assert.NotEmpty(t, result.Data)
}

func TestExport_SheetNames(t *testing.T) {
	snap := Snapshot{Wallets: []model.Wallet{
		{ID: "a", Name: "บัญชี/ออม", Type: model.WalletTypeSavings},
		{ID: "b", Name: "บัญชีออม", Type: model.WalletTypeSavings},
		{ID: "c", Name: "บัญชีออม", Type: model.WalletTypeSavings},
	}}

	result, err := newTestExporter().Export(context.Background(), snap, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"📊 ภาพรวม", "💰 บัญชีออม", "💰 บัญชีออม (2)", "💰 บัญชีออม (3)", "📅 รายเดือน", "🏷️ หมวดหมู่",
	}, result.Sheets)
}

func TestExport_DeletedCategory(t *testing.T) {
	snap := standardSnapshot()
	snap.Categories = snap.Categories[1:]

	result, err := newTestExporter().Export(context.Background(), snap, nil)
	require.NoError(t, err)

	rows, err := openResult(t, result).GetRows("💰 กสิกร")
	require.NoError(t, err)
	assert.Equal(t, uncategorized, rows[10][3])
}

func TestExport_Busy(t *testing.T) {
	ex := newTestExporter()

	var nestedErr error
	_, err := ex.Export(context.Background(), standardSnapshot(), func(p Progress) {
		if p.Stage == StagePreparing {
			_, nestedErr = ex.Export(context.Background(), Snapshot{}, nil)
		}
	})
	require.NoError(t, err)
	assert.ErrorIs(t, nestedErr, ErrExportInProgress)
	assert.ErrorIs(t, nestedErr, common.ErrBusy)

	_, err = ex.Export(context.Background(), Snapshot{}, nil)
	assert.NoError(t, err, "the busy flag is released")
}

func TestExport_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var final Progress
	result, err := newTestExporter().Export(ctx, standardSnapshot(), func(p Progress) { final = p })
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.Equal(t, StageError, final.Stage)
}

func TestExportResult_Save(t *testing.T) {
	result := &ExportResult{FileName: "out.xlsx", Data: []byte("data")}
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := result.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.xlsx"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

type txnTuple struct {
	date     time.Time
	kind     model.TransactionType
	category string
	amount   string
	note     string
}

func TestExportImportRoundTrip(t *testing.T) {
	snap := standardSnapshot()
	result, err := newTestExporter().Export(context.Background(), snap, nil)
	require.NoError(t, err)

	deps := &memDeps{
		wallets:    []model.Wallet{{ID: "existing", Name: "กสิกร"}},
		categories: append([]model.Category(nil), snap.Categories...),
	}
	imported, err := newTestImporter().Import(context.Background(), bytes.NewReader(result.Data), deps, nil)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{WalletsCreated: 2, TransactionsImported: 3}, imported)

	names := map[string]string{}
	for _, c := range snap.Categories {
		names[c.ID] = c.Name
	}
	tuples := func(txs []model.Transaction, categoryName func(string) string) []txnTuple {
		out := make([]txnTuple, 0, len(txs))
		for _, txn := range txs {
			out = append(out, txnTuple{
				date:     txn.Date.In(testutil.Bangkok).Truncate(time.Minute),
				kind:     txn.Type,
				category: categoryName(txn.CategoryID),
				amount:   txn.Amount.StringFixed(2),
				note:     txn.Note,
			})
		}
		return out
	}
	byID := func(id string) string { return names[id] }
	depName := func(id string) string {
		for _, c := range deps.categories {
			if c.ID == id {
				return c.Name
			}
		}
		return ""
	}

	kbank, ok := deps.walletByName("กสิกร (ซ้ำ)")
	require.True(t, ok)
	assert.Equal(t, model.WalletTypeBank, kbank.Type)
	assert.True(t, decimal.NewFromInt(1000).Equal(kbank.InitialBalance))
	assert.Equal(t, tuples(snap.Transactions[:2], byID), tuples(deps.transactionsOf(kbank.ID), depName))

	cash, ok := deps.walletByName("เงินสด")
	require.True(t, ok)
	assert.Equal(t, tuples(snap.Transactions[2:], byID), tuples(deps.transactionsOf(cash.ID), depName))
}

func TestExportImportRoundTrip_CurrencySymbol(t *testing.T) {
	for _, symbol := range []string{"$", "€", "Rp", "US$"} {
		t.Run(symbol, func(t *testing.T) {
			snap := standardSnapshot()
			exporter := NewExporter(testutil.Bangkok,
				WithExportClock(func() time.Time { return exportTime }),
				WithCurrencySymbol(symbol))
			result, err := exporter.Export(context.Background(), snap, nil)
			require.NoError(t, err)

			deps := &memDeps{categories: append([]model.Category(nil), snap.Categories...)}
			importer := NewImporter(testutil.Bangkok, "THB", WithImportCurrencySymbol(symbol))
			_, err = importer.Import(context.Background(), bytes.NewReader(result.Data), deps, nil)
			require.NoError(t, err)

			for _, w := range snap.Wallets {
				got, ok := deps.walletByName(w.Name)
				require.True(t, ok, w.Name)
				assert.True(t, w.InitialBalance.Equal(got.InitialBalance),
					"wallet %s: exported %s, imported %s", w.Name, w.InitialBalance, got.InitialBalance)
			}
		})
	}
}

func TestExportImportRoundTrip_WalletNameStartsWithEmoji(t *testing.T) {
	snap := standardSnapshot()
	snap.Wallets[0].Icon = ""
	snap.Wallets[0].Name = "🏦 กสิกร"
	snap.Wallets[1].Icon = "👛"
	snap.Wallets[1].Name = "💵เงินสด"

	result, err := newTestExporter().Export(context.Background(), snap, nil)
	require.NoError(t, err)

	deps := &memDeps{categories: append([]model.Category(nil), snap.Categories...)}
	_, err = newTestImporter().Import(context.Background(), bytes.NewReader(result.Data), deps, nil)
	require.NoError(t, err)

	bank, ok := deps.walletByName("🏦 กสิกร")
	require.True(t, ok)
	assert.Equal(t, DefaultWalletIcon, bank.Icon)

	cash, ok := deps.walletByName("💵เงินสด")
	require.True(t, ok)
	assert.Equal(t, "👛", cash.Icon)
}
