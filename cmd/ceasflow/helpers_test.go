package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	now := time.Date(2024, time.March, 15, 5, 30, 45, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "", want: time.Date(2024, time.March, 15, 12, 30, 0, 0, loc)},
		{input: "2024-03-01", want: time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)},
		{input: "2024-03-01 09:15", want: time.Date(2024, time.March, 1, 9, 15, 0, 0, loc)},
		{input: "2024-03-01T09:15", want: time.Date(2024, time.March, 1, 9, 15, 0, 0, loc)},
		{input: "01/03/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input, loc, now)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParsePositiveAmount(t *testing.T) {
	d, err := parsePositiveAmount("฿1,234.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(d))

	_, err = parsePositiveAmount("0")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = parsePositiveAmount("-5")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = parsePositiveAmount("abc")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestParseTypes(t *testing.T) {
	ct, err := parseCategoryType("Income")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTypeIncome, ct)
	_, err = parseCategoryType("transfer")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	tt, err := parseTransactionType(" expense ")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeExpense, tt)

	wt, err := parseWalletType("CREDIT_CARD")
	require.NoError(t, err)
	assert.Equal(t, model.WalletTypeCreditCard, wt)
	_, err = parseWalletType("piggy")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
