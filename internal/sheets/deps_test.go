package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/unikonkon/ceasflow/internal/model"
)

var errWalletRejected = errors.New("wallet rejected")

// memDeps is an in-memory Dependencies for importer tests.
type memDeps struct {
	wallets        []model.Wallet
	categories     []model.Category
	transactions   []model.Transaction
	rejectWalletAt int
	seq            int
}

func (d *memDeps) id(prefix string) string {
	d.seq++
	return fmt.Sprintf("%s-%d", prefix, d.seq)
}

func (d *memDeps) WalletNames() []string {
	names := make([]string, len(d.wallets))
	for i, w := range d.wallets {
		names[i] = w.Name
	}
	return names
}

func (d *memDeps) FindCategory(name string, t model.CategoryType) (model.Category, bool) {
	for _, c := range d.categories {
		if c.Name == name && c.Type == t {
			return c, true
		}
	}
	return model.Category{}, false
}

func (d *memDeps) AddCategory(_ context.Context, in model.CategoryInput) (model.Category, error) {
	c := model.Category{ID: d.id("cat"), Name: in.Name, Type: in.Type, Icon: in.Icon}
	d.categories = append(d.categories, c)
	return c, nil
}

func (d *memDeps) AddWallet(_ context.Context, in model.WalletInput) (model.Wallet, error) {
	if d.rejectWalletAt > 0 && len(d.wallets)+1 == d.rejectWalletAt {
		return model.Wallet{}, errWalletRejected
	}
	w := model.Wallet{
		ID: d.id("w"), Name: in.Name, Type: in.Type, Icon: in.Icon, Color: in.Color,
		Currency: in.Currency, InitialBalance: in.InitialBalance, IsAsset: in.IsAsset,
	}
	d.wallets = append(d.wallets, w)
	return w, nil
}

func (d *memDeps) AddTransaction(_ context.Context, in model.TransactionInput) (model.Transaction, error) {
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}
	txn := model.Transaction{
		ID: d.id("t"), Type: in.Type, Amount: in.Amount, CategoryID: in.CategoryID,
		WalletID: in.WalletID, Date: in.Date, Note: in.Note,
	}
	d.transactions = append(d.transactions, txn)
	return txn, nil
}

func (d *memDeps) walletByName(name string) (model.Wallet, bool) {
	for _, w := range d.wallets {
		if w.Name == name {
			return w, true
		}
	}
	return model.Wallet{}, false
}

func (d *memDeps) transactionsOf(walletID string) []model.Transaction {
	var out []model.Transaction
	for _, txn := range d.transactions {
		if txn.WalletID == walletID {
			out = append(out, txn)
		}
	}
	return out
}

type testSheet struct {
	name string
	rows [][]any
}

// buildWorkbook writes sheets in order and returns the .xlsx bytes.
func buildWorkbook(t *testing.T, sheets ...testSheet) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			values := row
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func walletSheetRows(header, walletType, balance string, txRows ...[]any) [][]any {
	rows := [][]any{
		{header},
		{walletType},
		{balance},
		{"รายรับรวม", 0},
		{},
		{"วันที่", "ประเภท", "ไอคอน", "หมวดหมู่", "จำนวนเงิน", "หมายเหตุ"},
	}
	return append(rows, txRows...)
}
