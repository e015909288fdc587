package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/user/cryptotrack/internal/apperr"
)

// User represents a registered account. The password hash is stored but
// never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Cryptocurrency is one tracked coin in the catalog.
type Cryptocurrency struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Symbol      string              `json:"symbol"`
	MarketPrice decimal.Decimal     `json:"market_price"`
	MarketCap   decimal.NullDecimal `json:"market_cap"`
	LogoURL     string              `json:"logo_url"`
	CreatedAt   time.Time           `json:"created_at"`
}

// UserCryptocurrency is a watchlist entry: one user tracking one coin
// with a target alert price. A (user, cryptocurrency) pair is unique.
type UserCryptocurrency struct {
	ID               int64           `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	CryptocurrencyID int64           `json:"cryptocurrency_id"`
	AlertPrice       decimal.Decimal `json:"alert_price"`
}

// PriceHistory is one recorded price point. Rows are append-only.
type PriceHistory struct {
	ID               int64           `json:"id"`
	CryptocurrencyID int64           `json:"cryptocurrency_id"`
	Price            decimal.Decimal `json:"price"`
	RecordedAt       time.Time       `json:"recorded_at"`
}

// TrendingCryptocurrency is an externally-sourced market-cap ranking
// entry; rank 1 is the largest coin.
type TrendingCryptocurrency struct {
	ID               int64     `json:"id"`
	CryptocurrencyID int64     `json:"cryptocurrency_id"`
	Rank             int       `json:"rank"`
	CreatedAt        time.Time `json:"created_at"`
}

const (
	symbolMinLen = 3
	symbolMaxLen = 10
)

// NormalizeSymbol trims and uppercases a ticker symbol and enforces the
// 3-10 character bound.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if len(s) < symbolMinLen || len(s) > symbolMaxLen {
		return "", apperr.Validation("Symbol must be 3 to 10 characters")
	}
	return s, nil
}

// ValidateAlertPrice enforces the strictly-positive alert price rule.
func ValidateAlertPrice(price decimal.Decimal) error {
	if price.Sign() <= 0 {
		return apperr.Validation("Alert price must be a positive number")
	}
	return nil
}

// ValidateMarketPrice enforces the non-negative market price rule.
func ValidateMarketPrice(price decimal.Decimal) error {
	if price.Sign() < 0 {
		return apperr.Validation("Market price cannot be negative")
	}
	return nil
}
