package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/apperr"
)

// ListCryptocurrencies returns the whole catalog.
func (h *Handler) ListCryptocurrencies(c *fiber.Ctx) error {
	cryptos, err := h.catalog.ListCryptocurrencies(c.Context())
	if err != nil {
		h.logger.Error("list cryptocurrencies", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(cryptos)
}

// GetCryptocurrency returns one catalog entry by id.
func (h *Handler) GetCryptocurrency(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid cryptocurrency id")
	}

	crypto, err := h.catalog.GetCryptocurrency(c.Context(), int64(id))
	if err != nil {
		h.logger.Error("get cryptocurrency", zap.Int("id", id), zap.Error(err))
		return err
	}
	if crypto == nil {
		// Body shape kept from the original API contract.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cryptocurrency not found"})
	}

	return c.Status(fiber.StatusOK).JSON(crypto)
}

// GetPriceHistory returns all recorded prices for a coin, oldest first.
// An unknown id yields an empty list, not a 404.
func (h *Handler) GetPriceHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid cryptocurrency id")
	}

	history, err := h.catalog.ListPriceHistory(c.Context(), int64(id))
	if err != nil {
		h.logger.Error("list price history", zap.Int("crypto_id", id), zap.Error(err))
		return err
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

// GetTrending returns ranking entries in ascending rank order.
func (h *Handler) GetTrending(c *fiber.Ctx) error {
	trending, err := h.catalog.ListTrending(c.Context())
	if err != nil {
		h.logger.Error("list trending", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(trending)
}
