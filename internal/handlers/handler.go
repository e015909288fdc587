package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/auth"
	"github.com/user/cryptotrack/internal/models"
)

// UserStore is the user persistence surface the handlers depend on.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// CatalogStore is the catalog persistence surface the handlers depend on.
type CatalogStore interface {
	ListCryptocurrencies(ctx context.Context) ([]*models.Cryptocurrency, error)
	GetCryptocurrency(ctx context.Context, id int64) (*models.Cryptocurrency, error)
	ListPriceHistory(ctx context.Context, cryptoID int64) ([]*models.PriceHistory, error)
	ListTrending(ctx context.Context) ([]*models.TrendingCryptocurrency, error)
}

// WatchlistStore is the watchlist persistence surface the handlers
// depend on.
type WatchlistStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserCryptocurrency, error)
	Add(ctx context.Context, userID uuid.UUID, cryptoID int64, alertPrice decimal.Decimal) (*models.UserCryptocurrency, error)
	Remove(ctx context.Context, userID uuid.UUID, cryptoID int64) error
}

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	users     UserStore
	catalog   CatalogStore
	watchlist WatchlistStore
	tokens    *auth.Service
	logger    *zap.Logger
}

func New(users UserStore, catalog CatalogStore, watchlist WatchlistStore, tokens *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{
		users:     users,
		catalog:   catalog,
		watchlist: watchlist,
		tokens:    tokens,
		logger:    logger,
	}
}
