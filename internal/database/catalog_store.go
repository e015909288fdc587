package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/models"
)

// CatalogStore persists the cryptocurrency catalog, its price history
// and the trending ranking.
type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

const cryptoColumns = `id, name, symbol, market_price, market_cap, logo_url, created_at`

func scanCrypto(row pgx.Row) (*models.Cryptocurrency, error) {
	c := &models.Cryptocurrency{}
	err := row.Scan(&c.ID, &c.Name, &c.Symbol, &c.MarketPrice, &c.MarketCap, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCryptocurrencies returns all catalog rows ordered by id.
func (s *CatalogStore) ListCryptocurrencies(ctx context.Context) ([]*models.Cryptocurrency, error) {
	query := `SELECT ` + cryptoColumns + ` FROM cryptocurrencies ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cryptocurrencies: %w", err)
	}
	defer rows.Close()

	cryptos := make([]*models.Cryptocurrency, 0)
	for rows.Next() {
		c, err := scanCrypto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cryptocurrency row: %w", err)
		}
		cryptos = append(cryptos, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate cryptocurrency rows: %w", rows.Err())
	}

	return cryptos, nil
}

// GetCryptocurrency retrieves one catalog row. Returns nil, nil when
// the id is absent.
func (s *CatalogStore) GetCryptocurrency(ctx context.Context, id int64) (*models.Cryptocurrency, error) {
	query := `SELECT ` + cryptoColumns + ` FROM cryptocurrencies WHERE id = $1`

	c, err := scanCrypto(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cryptocurrency %d: %w", id, err)
	}
	return c, nil
}

// CreateCryptocurrency inserts a catalog row. A duplicate symbol comes
// back as a Conflict error.
func (s *CatalogStore) CreateCryptocurrency(ctx context.Context, c *models.Cryptocurrency) error {
	query := `INSERT INTO cryptocurrencies (name, symbol, market_price, market_cap, logo_url)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query, c.Name, c.Symbol, c.MarketPrice, c.MarketCap, c.LogoURL).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return apperr.Conflict("Symbol already exists")
		}
		return fmt.Errorf("create cryptocurrency %s: %w", c.Symbol, err)
	}
	return nil
}

// UpdateMarketPrice sets a new market price for a coin.
func (s *CatalogStore) UpdateMarketPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	cmdTag, err := s.pool.Exec(ctx,
		`UPDATE cryptocurrencies SET market_price = $1 WHERE id = $2`, price, id)
	if err != nil {
		return fmt.Errorf("update market price for %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperr.NotFound("Cryptocurrency not found")
	}
	return nil
}

// ListPriceHistory returns all recorded prices for a coin, oldest
// first. An unknown id yields an empty slice, not an error.
func (s *CatalogStore) ListPriceHistory(ctx context.Context, cryptoID int64) ([]*models.PriceHistory, error) {
	query := `SELECT id, cryptocurrency_id, price, recorded_at
			  FROM price_history WHERE cryptocurrency_id = $1
			  ORDER BY recorded_at ASC`

	rows, err := s.pool.Query(ctx, query, cryptoID)
	if err != nil {
		return nil, fmt.Errorf("list price history for %d: %w", cryptoID, err)
	}
	defer rows.Close()

	history := make([]*models.PriceHistory, 0)
	for rows.Next() {
		h := &models.PriceHistory{}
		if err := rows.Scan(&h.ID, &h.CryptocurrencyID, &h.Price, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		history = append(history, h)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", rows.Err())
	}

	return history, nil
}

// AddPriceHistory appends one price point. History rows are never
// updated or deleted outside a full catalog cascade.
func (s *CatalogStore) AddPriceHistory(ctx context.Context, cryptoID int64, price decimal.Decimal) (*models.PriceHistory, error) {
	h := &models.PriceHistory{CryptocurrencyID: cryptoID, Price: price}

	query := `INSERT INTO price_history (cryptocurrency_id, price) VALUES ($1, $2)
			  RETURNING id, recorded_at`

	if err := s.pool.QueryRow(ctx, query, cryptoID, price).Scan(&h.ID, &h.RecordedAt); err != nil {
		return nil, fmt.Errorf("add price history for %d: %w", cryptoID, err)
	}
	return h, nil
}

// ListTrending returns ranking entries ordered by rank ascending.
func (s *CatalogStore) ListTrending(ctx context.Context) ([]*models.TrendingCryptocurrency, error) {
	query := `SELECT id, cryptocurrency_id, rank, created_at
			  FROM trending_cryptocurrencies ORDER BY rank ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trending: %w", err)
	}
	defer rows.Close()

	trending := make([]*models.TrendingCryptocurrency, 0)
	for rows.Next() {
		t := &models.TrendingCryptocurrency{}
		if err := rows.Scan(&t.ID, &t.CryptocurrencyID, &t.Rank, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trending row: %w", err)
		}
		trending = append(trending, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate trending rows: %w", rows.Err())
	}

	return trending, nil
}

// SetTrending replaces the ranking table with the given entries in one
// transaction.
func (s *CatalogStore) SetTrending(ctx context.Context, entries []*models.TrendingCryptocurrency) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin trending tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trending_cryptocurrencies`); err != nil {
		return fmt.Errorf("clear trending: %w", err)
	}

	for _, e := range entries {
		err := tx.QueryRow(ctx,
			`INSERT INTO trending_cryptocurrencies (cryptocurrency_id, rank) VALUES ($1, $2)
			 RETURNING id, created_at`,
			e.CryptocurrencyID, e.Rank).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert trending rank %d: %w", e.Rank, err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteCryptocurrency removes a coin and all dependent rows (price
// history, trending entries, watchlist entries) in one transaction.
func (s *CatalogStore) DeleteCryptocurrency(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete cryptocurrency tx: %w", err)
	}
	defer tx.Rollback(ctx)

	dependents := []string{
		`DELETE FROM price_history WHERE cryptocurrency_id = $1`,
		`DELETE FROM trending_cryptocurrencies WHERE cryptocurrency_id = $1`,
		`DELETE FROM user_cryptocurrencies WHERE cryptocurrency_id = $1`,
	}
	for _, query := range dependents {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("delete dependents of cryptocurrency %d: %w", id, err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM cryptocurrencies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cryptocurrency %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperr.NotFound("Cryptocurrency not found")
	}

	return tx.Commit(ctx)
}
