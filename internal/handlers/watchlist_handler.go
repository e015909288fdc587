package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/middleware"
	"github.com/user/cryptotrack/internal/models"
)

// AddWatchlistRequest defines the expected JSON body for adding a coin
// to the caller's watchlist. Pointers distinguish absent fields from
// zero values; alert_price accepts a JSON number or string.
type AddWatchlistRequest struct {
	CryptoID   *int64           `json:"crypto_id"`
	AlertPrice *decimal.Decimal `json:"alert_price"`
}

func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Invalid user ID in token")
	}
	return userID, nil
}

// ListWatchlist returns only entries owned by the authenticated caller.
func (h *Handler) ListWatchlist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	entries, err := h.watchlist.ListByUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("list watchlist", zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}
	if entries == nil {
		entries = make([]*models.UserCryptocurrency, 0)
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}

// AddToWatchlist creates a watchlist entry for the caller.
func (h *Handler) AddToWatchlist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	req := new(AddWatchlistRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("Alert price must be a valid number")
	}
	if req.CryptoID == nil || req.AlertPrice == nil {
		return apperr.Validation("Missing crypto_id or alert_price")
	}
	if err := models.ValidateAlertPrice(*req.AlertPrice); err != nil {
		return err
	}

	entry, err := h.watchlist.Add(c.Context(), userID, *req.CryptoID, *req.AlertPrice)
	if err != nil {
		if _, ok := err.(*apperr.Error); !ok {
			h.logger.Error("add watchlist entry",
				zap.String("user_id", userID.String()),
				zap.Int64("crypto_id", *req.CryptoID),
				zap.Error(err))
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// RemoveFromWatchlist deletes the caller's entry for a coin.
func (h *Handler) RemoveFromWatchlist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	cryptoID, err := c.ParamsInt("cryptoId")
	if err != nil {
		return apperr.Validation("Invalid cryptocurrency id")
	}

	if err := h.watchlist.Remove(c.Context(), userID, int64(cryptoID)); err != nil {
		if _, ok := err.(*apperr.Error); !ok {
			h.logger.Error("remove watchlist entry",
				zap.String("user_id", userID.String()),
				zap.Int("crypto_id", cryptoID),
				zap.Error(err))
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Cryptocurrency removed from watchlist"})
}
