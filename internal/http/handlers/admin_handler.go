package handlers

import (
	"errors"
	"strings"

	"devicecover/internal/domain"
	applog "devicecover/internal/log"
	"devicecover/internal/services"
	"devicecover/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Quotes  *services.QuoteService
}

type deviceForm struct {
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	MarketPrice float64 `json:"marketPrice"`
	ReleaseYear int     `json:"releaseYear"`
	Active      *bool   `json:"active"`
}

// PUT /admin/devices/:id
func (h *AdminHandler) SaveDevice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid device id")
	}
	var f deviceForm
	if err := c.BodyParser(&f); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed request body")
	}
	cat, okCat := validate.ID(f.Category)
	brand, okBrand := validate.Brand(f.Brand)
	model := strings.TrimSpace(f.Model)
	if !okCat || !okBrand || model == "" || len(model) > 80 ||
		!validate.DeclaredValue(f.MarketPrice) || !validate.ReleaseYear(f.ReleaseYear) {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	active := true
	if f.Active != nil {
		active = *f.Active
	}

	d := domain.Device{
		ID:          id,
		CategoryID:  cat,
		Brand:       brand,
		Model:       model,
		MarketPrice: f.MarketPrice,
		ReleaseYear: f.ReleaseYear,
		Active:      active,
	}
	if err := h.Catalog.SaveDevice(d); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return fail(c, fiber.StatusBadRequest, "unknown category")
		}
		applog.Error(c, "admin.device.save.fail", err, map[string]any{"device_id": id})
		return fail(c, fiber.StatusInternalServerError, "could not save device")
	}
	if err := h.Quotes.InvalidateDevice(c.UserContext(), id); err != nil {
		applog.Error(c, "admin.device.cache.fail", err, map[string]any{"device_id": id})
	}
	applog.Audit(c, "admin.device.save", map[string]any{"device_id": id, "market_price": f.MarketPrice, "active": active})
	return success(c, fiber.Map{"device": d})
}

// GET /admin/quotes?limit=
func (h *AdminHandler) ListQuotes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	rows, err := h.Quotes.Recent(limit)
	if err != nil {
		applog.Error(c, "admin.quotes.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load quotes")
	}
	if rows == nil {
		rows = []domain.QuoteRecord{}
	}
	return success(c, fiber.Map{"quotes": rows, "count": len(rows)})
}
