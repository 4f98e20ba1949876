package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CEASFLOW_TEST_DIR", "/tmp/ledger")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/ledger.db", want: filepath.Join(home, "data/ledger.db")},
		{name: "env var", in: "$CEASFLOW_TEST_DIR/ledger.db", want: "/tmp/ledger/ledger.db"},
		{name: "plain", in: "/var/lib/ledger.db", want: "/var/lib/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "THB", cfg.Currency)
		assert.Equal(t, "฿", cfg.CurrencySymbol)
		assert.Equal(t, "Asia/Bangkok", cfg.Location().String())
	})

	t.Run("overrides from viper", func(t *testing.T) {
		viper.Reset()
		viper.Set("database.path", "/tmp/custom.db")
		viper.Set("locale.timezone", "UTC")
		viper.Set("locale.currency", "USD")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom.db", cfg.DatabasePath)
		assert.Equal(t, "USD", cfg.Currency)
		assert.Equal(t, "UTC", cfg.Location().String())
	})

	t.Run("invalid timezone", func(t *testing.T) {
		viper.Reset()
		viper.Set("locale.timezone", "Not/AZone")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("invalid log level", func(t *testing.T) {
		viper.Reset()
		viper.Set("logging.level", "loud")

		_, err := Load()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
