package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/solgate/solgate/internal/config"
	"github.com/solgate/solgate/internal/middleware"
	"github.com/solgate/solgate/internal/notifier"
	"github.com/solgate/solgate/internal/solana"
	"github.com/solgate/solgate/internal/verification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// The memory store is only a dev convenience; production needs Postgres.
	if d.DB == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var store verification.Store
	if d.DB != nil {
		store = verification.NewPostgresStore(d.DB)
	} else {
		store = verification.NewMemoryStore()
	}

	checker := solana.NewClient(d.Cfg.RPCURL, d.Cfg.RPCTimeout)

	var push notifier.Notifier
	if d.Cfg.BotWebhookURL != "" {
		push = notifier.NewBotNotifier(d.Cfg.BotWebhookURL, d.Cfg.NotifyTimeout)
	} else {
		push = notifier.NewLoggerNotifier(d.Logger)
	}

	svc := verification.NewService(store, checker, push, d.Logger, verification.Options{
		TokenMint:     d.Cfg.TokenMint,
		MinBalance:    d.Cfg.MinBalance,
		RPCTimeout:    d.Cfg.RPCTimeout,
		StoreTimeout:  d.Cfg.StoreTimeout,
		NotifyTimeout: d.Cfg.NotifyTimeout,
	})
	handler := verification.NewHandler(svc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	if d.Cache != nil {
		api.Post("/verify", middleware.Replay(d.Cache, d.Cfg.ReplayTTL, d.Logger), handler.Verify)
	} else {
		api.Post("/verify", handler.Verify)
	}

	// Wallet-connect page for the verification link the bot hands out.
	app.Get("/verify", func(c *fiber.Ctx) error {
		return c.SendFile("./web/verify.html")
	})

	return nil
}
