package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/models"
)

// These tests run against a real Postgres instance and are skipped
// unless TEST_DATABASE_URL is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, DropSchema(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool))

	return pool
}

func seedCrypto(t *testing.T, catalog *CatalogStore, symbol string) *models.Cryptocurrency {
	t.Helper()
	c := &models.Cryptocurrency{
		Name:        symbol,
		Symbol:      symbol,
		MarketPrice: decimal.RequireFromString("60000.00"),
	}
	require.NoError(t, catalog.CreateCryptocurrency(context.Background(), c))
	return c
}

func TestUserStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserStore(pool)

	alice, err := users.Create(ctx, "alice", "alice@x.com", "hash")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, alice.ID)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := users.Create(ctx, "alice", "alice2@x.com", "hash")
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := users.Create(ctx, "alice2", "alice@x.com", "hash")
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("lookups agree", func(t *testing.T) {
		byEmail, err := users.GetByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)

		byID, err := users.GetByID(ctx, byEmail.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)
	})

	t.Run("unknown lookups return nil without error", func(t *testing.T) {
		u, err := users.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestWatchlistStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserStore(pool)
	catalog := NewCatalogStore(pool)
	watchlist := NewWatchlistStore(pool)

	alice, err := users.Create(ctx, "alice", "alice@x.com", "hash")
	require.NoError(t, err)
	btc := seedCrypto(t, catalog, "BTC")

	entry, err := watchlist.Add(ctx, alice.ID, btc.ID, decimal.RequireFromString("50000.00"))
	require.NoError(t, err)

	t.Run("duplicate pair conflicts and keeps original", func(t *testing.T) {
		_, err := watchlist.Add(ctx, alice.ID, btc.ID, decimal.RequireFromString("1.00"))
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)

		entries, err := watchlist.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.True(t, entries[0].AlertPrice.Equal(decimal.RequireFromString("50000.00")))
	})

	t.Run("unknown coin is a validation error", func(t *testing.T) {
		_, err := watchlist.Add(ctx, alice.ID, 9999, decimal.NewFromInt(10))
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
	})

	t.Run("remove then list excludes the pair", func(t *testing.T) {
		require.NoError(t, watchlist.Remove(ctx, alice.ID, btc.ID))

		entries, err := watchlist.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)

		err = watchlist.Remove(ctx, alice.ID, btc.ID)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})
}

func TestCatalogStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserStore(pool)
	catalog := NewCatalogStore(pool)
	watchlist := NewWatchlistStore(pool)

	btc := seedCrypto(t, catalog, "BTC")
	eth := seedCrypto(t, catalog, "ETH")

	t.Run("duplicate symbol conflicts", func(t *testing.T) {
		err := catalog.CreateCryptocurrency(ctx, &models.Cryptocurrency{
			Name: "Bitcoin clone", Symbol: "BTC", MarketPrice: decimal.NewFromInt(1),
		})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("price history is ordered oldest first", func(t *testing.T) {
		for _, p := range []string{"60000", "60100", "59900"} {
			_, err := catalog.AddPriceHistory(ctx, btc.ID, decimal.RequireFromString(p))
			require.NoError(t, err)
		}

		rows, err := catalog.ListPriceHistory(ctx, btc.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i].RecordedAt.Before(rows[i-1].RecordedAt))
		}
	})

	t.Run("trending replaces and orders by rank", func(t *testing.T) {
		err := catalog.SetTrending(ctx, []*models.TrendingCryptocurrency{
			{CryptocurrencyID: eth.ID, Rank: 2},
			{CryptocurrencyID: btc.ID, Rank: 1},
		})
		require.NoError(t, err)

		rows, err := catalog.ListTrending(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, btc.ID, rows[0].CryptocurrencyID)
	})

	t.Run("delete cascades to history, trending and watchlists", func(t *testing.T) {
		alice, err := users.Create(ctx, "alice", "alice@x.com", "hash")
		require.NoError(t, err)
		_, err = watchlist.Add(ctx, alice.ID, btc.ID, decimal.NewFromInt(70000))
		require.NoError(t, err)

		require.NoError(t, catalog.DeleteCryptocurrency(ctx, btc.ID))

		gone, err := catalog.GetCryptocurrency(ctx, btc.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		history, err := catalog.ListPriceHistory(ctx, btc.ID)
		require.NoError(t, err)
		assert.Empty(t, history)

		entries, err := watchlist.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)

		trending, err := catalog.ListTrending(ctx)
		require.NoError(t, err)
		require.Len(t, trending, 1)
		assert.Equal(t, eth.ID, trending[0].CryptocurrencyID)
	})
}
