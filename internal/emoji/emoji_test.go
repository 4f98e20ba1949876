package emoji

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLeading(t *testing.T) {
	tests := []struct {
		in, icon, name string
	}{
		{"🏦 กสิกร", "🏦", "กสิกร"},
		{"💰เงินสด", "💰", "เงินสด"},
		{"👨‍👩‍👧 ครอบครัว", "👨‍👩‍👧", "ครอบครัว"},
		{"🇹🇭 Thai Baht", "🇹🇭", "Thai Baht"},
		{"❤️ Savings", "❤️", "Savings"},
		{"👍🏽 Tips", "👍🏽", "Tips"},
		{"1️⃣ First", "1️⃣", "First"},
		{"⚡ Power", "⚡", "Power"},
		{"©️ Corp", "©️", "Corp"},
		{"© Corp", "", "© Corp"},
		{"™ Brand", "", "™ Brand"},
		{"ℹ Info", "", "ℹ Info"},
		{"☺ Smile", "", "☺ Smile"},
		{"1 Wallet", "", "1 Wallet"},
		{"  กระเป๋า  ", "", "กระเป๋า"},
		{"Wallet 🏦", "", "Wallet 🏦"},
		{"🏦", "🏦", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			icon, name := SplitLeading(tt.in)
			assert.Equal(t, tt.icon, icon)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestIsSingle(t *testing.T) {
	assert.True(t, IsSingle("💰"))
	assert.True(t, IsSingle("👨‍👩‍👧"))
	assert.True(t, IsSingle("🇹🇭"))
	assert.False(t, IsSingle(""))
	assert.False(t, IsSingle("bank"))
	assert.False(t, IsSingle("💰💰"))
	assert.False(t, IsSingle("💰 x"))
	assert.False(t, IsSingle("©"))
}
