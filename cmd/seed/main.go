// Command seed rebuilds the schema and loads the catalog from the
// CoinGecko markets API: one cryptocurrency row per coin, an initial
// price-history point, and trending ranks in market-cap order. It is a
// one-shot offline tool and is not meant to run against live traffic.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/config"
	"github.com/user/cryptotrack/internal/database"
	"github.com/user/cryptotrack/internal/logger"
	"github.com/user/cryptotrack/internal/marketdata"
	"github.com/user/cryptotrack/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	zl.Info("recreating schema")
	if err := database.DropSchema(ctx, pool); err != nil {
		zl.Fatal("drop schema", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		zl.Fatal("create schema", zap.Error(err))
	}

	client := marketdata.NewClient(cfg.CoinGeckoURL, cfg.CoinGeckoKey)
	coins, err := client.TopCoins(ctx, cfg.SeedCoinCount)
	if err != nil {
		zl.Fatal("fetch market data", zap.Error(err))
	}
	zl.Info("fetched market data", zap.Int("coins", len(coins)))

	catalog := database.NewCatalogStore(pool)

	trending := make([]*models.TrendingCryptocurrency, 0, len(coins))
	for i, coin := range coins {
		symbol, err := models.NormalizeSymbol(coin.Symbol)
		if err != nil {
			zl.Warn("skipping coin with bad symbol",
				zap.String("name", coin.Name), zap.String("symbol", coin.Symbol))
			continue
		}
		if err := models.ValidateMarketPrice(coin.CurrentPrice); err != nil {
			zl.Warn("skipping coin with bad price", zap.String("name", coin.Name))
			continue
		}

		crypto := &models.Cryptocurrency{
			Name:        coin.Name,
			Symbol:      symbol,
			MarketPrice: coin.CurrentPrice,
			MarketCap:   coin.MarketCap,
			LogoURL:     coin.Image,
		}
		if err := catalog.CreateCryptocurrency(ctx, crypto); err != nil {
			zl.Fatal("insert cryptocurrency", zap.String("symbol", symbol), zap.Error(err))
		}

		if coin.CurrentPrice.Sign() > 0 {
			if _, err := catalog.AddPriceHistory(ctx, crypto.ID, coin.CurrentPrice); err != nil {
				zl.Fatal("insert price history", zap.String("symbol", symbol), zap.Error(err))
			}
		}

		// CoinGecko returns coins ordered by market cap, so position
		// doubles as the trending rank.
		trending = append(trending, &models.TrendingCryptocurrency{
			CryptocurrencyID: crypto.ID,
			Rank:             i + 1,
		})
	}

	if err := catalog.SetTrending(ctx, trending); err != nil {
		zl.Fatal("insert trending ranks", zap.Error(err))
	}

	zl.Info("seeding complete", zap.Int("cryptocurrencies", len(trending)))
}
