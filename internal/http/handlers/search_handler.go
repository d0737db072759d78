package handlers

import (
	"strings"
	"time"

	"devicecover/internal/domain"
	"devicecover/internal/log"
	"devicecover/internal/pricing"
	"devicecover/internal/services"
	"devicecover/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
	Now     func() time.Time
}

type searchHit struct {
	Device domain.Device
	// cheapest monthly premium on offer for the device
	FromMonthly float64
	Fixed       bool
}

func fromMonthly(d domain.Device, now time.Time) (float64, bool) {
	if pricing.UsesFixedPricing(d.CategoryID) {
		return pricing.GetPhonePackage(d.Brand).MonthlyPrice, true
	}
	low := 0.0
	for _, q := range pricing.CalculateAllQuotes(d.ID, d.MarketPrice, d.CategoryID, d.ReleaseYear, now) {
		if low == 0 || q.MonthlyPremium < low {
			low = q.MonthlyPremium
		}
	}
	return low, false
}

func searchPage(c *fiber.Ctx, status int, q, category, msg string) error {
	return c.Status(status).Render("search", fiber.Map{
		"Q": q, "CategoryID": category, "Hits": []searchHit{}, "Count": 0, "Err": msg,
	})
}

// GET /search?q=&category=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	raw := c.Query("q")
	if strings.TrimSpace(raw) == "" {
		return render(c, "search", fiber.Map{"Q": "", "Hits": []searchHit{}, "Count": 0})
	}
	q, ok := validate.Q(raw)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
		return searchPage(c, fiber.StatusBadRequest, "", "", "Enter a brand or model name (letters and numbers only)")
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return searchPage(c, fiber.StatusBadRequest, q, "", "Unknown device category")
		}
	}

	devices, err := h.Catalog.Search(strings.ToLower(q), category, 1, 20)
	if err != nil {
		log.Error(c, "search.error", err, map[string]any{"q": q})
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not search the catalog. Please retry."})
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	hits := make([]searchHit, 0, len(devices))
	for _, d := range devices {
		m, fixed := fromMonthly(d, now)
		hits = append(hits, searchHit{Device: d, FromMonthly: m, Fixed: fixed})
	}
	return render(c, "search", fiber.Map{
		"Q": q, "CategoryID": category, "Hits": hits, "Count": len(hits),
	})
}
