// Package server assembles the fiber application: middleware, pages, the
// JSON API and the admin surface.
package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"devicecover/internal/cache"
	"devicecover/internal/config"
	"devicecover/internal/events"
	"devicecover/internal/http/handlers"
	applog "devicecover/internal/log"
	"devicecover/internal/metrics"
)

const friendlyError = "Something went wrong. Please try again."

func isAPI(c *fiber.Ctx) bool {
	p := c.Path()
	return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/admin")
}

// ErrorHandler logs the error and answers without internals: JSON for the
// API, the not-found page otherwise.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := fiber.StatusInternalServerError, friendlyError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	}
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

type Options struct {
	// AccessLog enables the fiber request logger on stdout.
	AccessLog bool
}

// New wires the application around an open database.
func New(cfg config.Config, db *sqlx.DB, c cache.Cache, pub events.Publisher, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews(cfg.TemplatesDir),
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(metrics.Middleware())

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 60
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/metrics" || p == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(db, cfg, c, pub)

	// Pages
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/search", deps.SearchHandler.Search)
	app.Get("/devices/:id", deps.DeviceHandler.Page)

	// API
	api := app.Group("/api/v1")
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/devices", deps.DeviceHandler.List)
	api.Get("/devices/:id", deps.DeviceHandler.Get)
	api.Get("/devices/:id/quotes", deps.QuoteHandler.Compare)
	api.Get("/phone-packages", deps.QuoteHandler.PhonePackages)
	api.Get("/quotes/:id", deps.QuoteHandler.Get)

	// Issuing a quote writes a row and an event; throttle it harder.
	issueLimiter := limiter.New(limiter.Config{
		Max:        max(1, rate/3),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|quote"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.quote.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/devices/:id/quote", issueLimiter, deps.QuoteHandler.Device)
	api.Post("/quotes", issueLimiter, deps.QuoteHandler.Create)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminTokenHash))
	admin.Put("/devices/:id", deps.AdminHandler.SaveDevice)
	admin.Get("/quotes", deps.AdminHandler.ListQuotes)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			applog.Error(c, "health.db.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", metrics.Handler())
	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app
}
