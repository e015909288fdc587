package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/auth"
	"github.com/user/cryptotrack/internal/config"
	"github.com/user/cryptotrack/internal/database"
	"github.com/user/cryptotrack/internal/handlers"
	"github.com/user/cryptotrack/internal/logger"
	"github.com/user/cryptotrack/internal/ticker"
	internalws "github.com/user/cryptotrack/internal/websocket"
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

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		zl.Fatal("ensure schema", zap.Error(err))
	}

	users := database.NewUserStore(pool)
	catalog := database.NewCatalogStore(pool)
	watchlist := database.NewWatchlistStore(pool)
	tokens := auth.NewService(cfg.JWTSecret)

	hub := internalws.NewHub(zl)
	go hub.Run()
	defer hub.Stop()

	if cfg.TickerEnabled {
		t := ticker.New(catalog, hub, zl, cfg.TickerInterval)
		t.Start(ctx)
		defer t.Stop()
	}

	h := handlers.New(users, catalog, watchlist, tokens, zl)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})

	// WebSocket routes sit outside the REST table; upgrade check first.
	wsGroup := app.Group("/ws")
	wsGroup.Use("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	wsGroup.Get("/prices", websocket.New(handlers.PriceFeed(hub, zl)))

	handlers.RegisterRoutes(app, h, tokens)

	go func() {
		zl.Info("starting server", zap.String("addr", cfg.ListenAddr))
		if err := app.Listen(cfg.ListenAddr); err != nil {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
