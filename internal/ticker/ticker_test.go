package ticker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/models"
)

type memCatalog struct {
	cryptos []*models.Cryptocurrency
	history map[int64][]decimal.Decimal
}

func (m *memCatalog) ListCryptocurrencies(context.Context) ([]*models.Cryptocurrency, error) {
	return m.cryptos, nil
}

func (m *memCatalog) UpdateMarketPrice(_ context.Context, id int64, price decimal.Decimal) error {
	for _, c := range m.cryptos {
		if c.ID == id {
			c.MarketPrice = price
			return nil
		}
	}
	return nil
}

func (m *memCatalog) AddPriceHistory(_ context.Context, cryptoID int64, price decimal.Decimal) (*models.PriceHistory, error) {
	m.history[cryptoID] = append(m.history[cryptoID], price)
	return &models.PriceHistory{CryptocurrencyID: cryptoID, Price: price}, nil
}

type memBroadcaster struct {
	updates []PriceUpdate
}

func (m *memBroadcaster) Broadcast(v any) {
	if u, ok := v.(PriceUpdate); ok {
		m.updates = append(m.updates, u)
	}
}

func TestTick(t *testing.T) {
	catalog := &memCatalog{
		cryptos: []*models.Cryptocurrency{
			{ID: 1, Symbol: "BTC", MarketPrice: decimal.NewFromInt(60000)},
			{ID: 2, Symbol: "ETH", MarketPrice: decimal.NewFromInt(3000)},
		},
		history: make(map[int64][]decimal.Decimal),
	}
	bc := &memBroadcaster{}
	tk := New(catalog, bc, zap.NewNop(), time.Second)

	tk.Tick(context.Background())

	t.Run("appends one history point per coin", func(t *testing.T) {
		require.Len(t, catalog.history[1], 1)
		require.Len(t, catalog.history[2], 1)
	})

	t.Run("persisted price matches broadcast price", func(t *testing.T) {
		require.Len(t, bc.updates, 2)
		assert.True(t, catalog.history[1][0].Equal(bc.updates[0].Price))
		assert.Equal(t, "BTC", bc.updates[0].Symbol)
	})

	t.Run("prices stay positive and within the walk bound", func(t *testing.T) {
		for _, u := range bc.updates {
			assert.True(t, u.Price.Sign() > 0)
		}
		// +/- 0.5% of 60000 is at most 300 away.
		diff := bc.updates[0].Price.Sub(decimal.NewFromInt(60000)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromInt(301)), diff.String())
	})
}

func TestStartStop(t *testing.T) {
	catalog := &memCatalog{
		cryptos: []*models.Cryptocurrency{{ID: 1, Symbol: "BTC", MarketPrice: decimal.NewFromInt(100)}},
		history: make(map[int64][]decimal.Decimal),
	}
	tk := New(catalog, nil, zap.NewNop(), 5*time.Millisecond)

	tk.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	tk.Stop()

	assert.NotEmpty(t, catalog.history[1])
}
