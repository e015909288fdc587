package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/models"
)

// WatchlistStore persists user-to-cryptocurrency associations.
type WatchlistStore struct {
	pool *pgxpool.Pool
}

func NewWatchlistStore(pool *pgxpool.Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

// ListByUser returns all watchlist entries owned by the user.
func (s *WatchlistStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserCryptocurrency, error) {
	query := `SELECT id, user_id, cryptocurrency_id, alert_price
			  FROM user_cryptocurrencies WHERE user_id = $1 ORDER BY id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]*models.UserCryptocurrency, 0)
	for rows.Next() {
		e := &models.UserCryptocurrency{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.CryptocurrencyID, &e.AlertPrice); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate watchlist rows: %w", rows.Err())
	}

	return entries, nil
}

// Add creates a watchlist entry. A second add for the same
// (user, cryptocurrency) pair hits the schema unique constraint and
// comes back as a Conflict, leaving the original row untouched.
func (s *WatchlistStore) Add(ctx context.Context, userID uuid.UUID, cryptoID int64, alertPrice decimal.Decimal) (*models.UserCryptocurrency, error) {
	entry := &models.UserCryptocurrency{
		UserID:           userID,
		CryptocurrencyID: cryptoID,
		AlertPrice:       alertPrice,
	}

	query := `INSERT INTO user_cryptocurrencies (user_id, cryptocurrency_id, alert_price)
			  VALUES ($1, $2, $3)
			  RETURNING id`

	err := s.pool.QueryRow(ctx, query, userID, cryptoID, alertPrice).Scan(&entry.ID)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, apperr.Conflict("Cryptocurrency already in watchlist")
		}
		if foreignKeyViolation(err) {
			return nil, apperr.Validation("Unknown cryptocurrency")
		}
		return nil, fmt.Errorf("add watchlist entry for user %s: %w", userID, err)
	}

	return entry, nil
}

// Remove deletes the caller's entry for a coin. Removing an entry the
// user does not own reports NotFound.
func (s *WatchlistStore) Remove(ctx context.Context, userID uuid.UUID, cryptoID int64) error {
	cmdTag, err := s.pool.Exec(ctx,
		`DELETE FROM user_cryptocurrencies WHERE user_id = $1 AND cryptocurrency_id = $2`,
		userID, cryptoID)
	if err != nil {
		return fmt.Errorf("remove watchlist entry for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperr.NotFound("Cryptocurrency not found in your watchlist")
	}
	return nil
}
