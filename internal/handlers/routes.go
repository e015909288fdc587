package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/user/cryptotrack/internal/auth"
	"github.com/user/cryptotrack/internal/middleware"
)

// Access describes who may call a route.
type Access int

const (
	Public Access = iota
	Protected
)

// Route binds one endpoint to its handler and access level.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler fiber.Handler
}

// Routes returns the full API route table.
func (h *Handler) Routes() []Route {
	return []Route{
		{fiber.MethodPost, "/register", Public, h.Register},
		{fiber.MethodPost, "/login", Public, h.Login},
		{fiber.MethodPost, "/logout", Public, h.Logout},
		{fiber.MethodGet, "/check-session", Protected, h.Me},
		{fiber.MethodGet, "/me", Protected, h.Me},
		{fiber.MethodGet, "/cryptocurrencies", Public, h.ListCryptocurrencies},
		{fiber.MethodGet, "/cryptocurrencies/:id", Public, h.GetCryptocurrency},
		{fiber.MethodGet, "/price-history/:id", Public, h.GetPriceHistory},
		{fiber.MethodGet, "/user-cryptocurrencies", Protected, h.ListWatchlist},
		{fiber.MethodPost, "/user-cryptocurrencies", Protected, h.AddToWatchlist},
		{fiber.MethodDelete, "/user-cryptocurrencies/:cryptoId", Protected, h.RemoveFromWatchlist},
		{fiber.MethodGet, "/trending-cryptocurrencies", Protected, h.GetTrending},
	}
}

// RegisterRoutes mounts the route table on the app, wrapping protected
// routes with the token guard.
func RegisterRoutes(app *fiber.App, h *Handler, tokens *auth.Service) {
	guard := middleware.Protected(tokens)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.SendString("Cryptotrack API is healthy!")
	})

	for _, r := range h.Routes() {
		if r.Access == Protected {
			app.Add(r.Method, r.Path, guard, r.Handler)
		} else {
			app.Add(r.Method, r.Path, r.Handler)
		}
	}
}
