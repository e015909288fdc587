package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	t.Run("uppercases and trims", func(t *testing.T) {
		s, err := NormalizeSymbol("  btc ")
		require.NoError(t, err)
		assert.Equal(t, "BTC", s)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NormalizeSymbol("bt")
		assert.Error(t, err)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := NormalizeSymbol("VERYLONGSYMBOL")
		assert.Error(t, err)
	})

	t.Run("boundary lengths pass", func(t *testing.T) {
		for _, sym := range []string{"abc", "abcdefghij"} {
			_, err := NormalizeSymbol(sym)
			assert.NoError(t, err, sym)
		}
	})
}

func TestValidateAlertPrice(t *testing.T) {
	assert.NoError(t, ValidateAlertPrice(decimal.RequireFromString("0.00000001")))
	assert.Error(t, ValidateAlertPrice(decimal.Zero))
	assert.Error(t, ValidateAlertPrice(decimal.RequireFromString("-1")))
}

func TestValidateMarketPrice(t *testing.T) {
	assert.NoError(t, ValidateMarketPrice(decimal.Zero))
	assert.NoError(t, ValidateMarketPrice(decimal.RequireFromString("60000.5")))
	assert.Error(t, ValidateMarketPrice(decimal.RequireFromString("-0.01")))
}

func TestUserSerialization_NeverLeaksHash(t *testing.T) {
	u := &User{Username: "alice", Email: "alice@x.com", PasswordHash: "secret-hash"}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
	assert.Contains(t, string(data), "alice@x.com")
}

func TestDecimalFieldsSerializeAsStrings(t *testing.T) {
	c := &Cryptocurrency{
		Name:        "Bitcoin",
		Symbol:      "BTC",
		MarketPrice: decimal.RequireFromString("50000.12345678"),
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"market_price":"50000.12345678"`)
}
