// Package ticker drives the optional live price feed. It nudges every
// catalog price with a small bounded random walk, persists the result
// as a new price-history point, and broadcasts the update.
package ticker

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/models"
)

// PriceUpdate is the message broadcast to WebSocket subscribers.
type PriceUpdate struct {
	CryptocurrencyID int64           `json:"cryptocurrency_id"`
	Symbol           string          `json:"symbol"`
	Price            decimal.Decimal `json:"price"`
	Ts               int64           `json:"ts"` // Unix milliseconds
}

// Catalog is the persistence surface the ticker needs.
type Catalog interface {
	ListCryptocurrencies(ctx context.Context) ([]*models.Cryptocurrency, error)
	UpdateMarketPrice(ctx context.Context, id int64, price decimal.Decimal) error
	AddPriceHistory(ctx context.Context, cryptoID int64, price decimal.Decimal) (*models.PriceHistory, error)
}

// Broadcaster receives each price update, typically the websocket hub.
type Broadcaster interface {
	Broadcast(v any)
}

// Ticker periodically refreshes catalog prices.
type Ticker struct {
	catalog     Catalog
	broadcaster Broadcaster
	logger      *zap.Logger
	interval    time.Duration
	cancel      context.CancelFunc
	stopped     chan struct{}
}

func New(catalog Catalog, broadcaster Broadcaster, logger *zap.Logger, interval time.Duration) *Ticker {
	return &Ticker{
		catalog:     catalog,
		broadcaster: broadcaster,
		logger:      logger,
		interval:    interval,
		stopped:     make(chan struct{}),
	}
}

// Start launches the background refresh loop.
func (t *Ticker) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	t.logger.Info("starting price ticker", zap.Duration("interval", t.interval))
	go t.run(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (t *Ticker) Stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.stopped
}

func (t *Ticker) run(ctx context.Context) {
	defer close(t.stopped)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick refreshes every catalog price once. Exported so a single pass
// can be exercised without the timer loop.
func (t *Ticker) Tick(ctx context.Context) {
	cryptos, err := t.catalog.ListCryptocurrencies(ctx)
	if err != nil {
		t.logger.Error("list cryptocurrencies for tick", zap.Error(err))
		return
	}

	for _, c := range cryptos {
		newPrice := nextPrice(c.MarketPrice)
		if newPrice.Sign() <= 0 {
			continue
		}

		if err := t.catalog.UpdateMarketPrice(ctx, c.ID, newPrice); err != nil {
			t.logger.Error("update market price", zap.Int64("crypto_id", c.ID), zap.Error(err))
			continue
		}
		if _, err := t.catalog.AddPriceHistory(ctx, c.ID, newPrice); err != nil {
			t.logger.Error("append price history", zap.Int64("crypto_id", c.ID), zap.Error(err))
			continue
		}

		if t.broadcaster != nil {
			t.broadcaster.Broadcast(PriceUpdate{
				CryptocurrencyID: c.ID,
				Symbol:           c.Symbol,
				Price:            newPrice,
				Ts:               time.Now().UnixMilli(),
			})
		}
	}
}

// nextPrice applies a random change of at most +/- 0.5%, rounded to 8
// decimal places to match the column precision.
func nextPrice(price decimal.Decimal) decimal.Decimal {
	changePercent := (rand.Float64() - 0.5) / 100
	factor := decimal.NewFromFloat(1 + changePercent)
	return price.Mul(factor).Round(8)
}
