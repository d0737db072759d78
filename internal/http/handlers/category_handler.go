package handlers

import (
	"devicecover/internal/log"
	"devicecover/internal/pricing"
	"devicecover/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	groups := make([]fiber.Map, 0, len(cats))
	for _, cat := range cats {
		if cat.Devices == 0 {
			continue
		}
		devices, err := h.Catalog.ListDevicesByCategory(cat.ID, 1, 12)
		if err != nil {
			return err
		}
		groups = append(groups, fiber.Map{"Category": cat, "Devices": devices})
	}
	return render(c, "home", fiber.Map{"Groups": groups})
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		log.Error(c, "categories.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load categories")
	}
	out := make([]fiber.Map, 0, len(cats))
	for _, cat := range cats {
		out = append(out, fiber.Map{
			"id": cat.ID, "name": cat.Name, "devices": cat.Devices,
			"fixedPricing": pricing.UsesFixedPricing(cat.ID),
		})
	}
	return success(c, fiber.Map{"categories": out})
}
