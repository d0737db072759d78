package handlers

import (
	"errors"
	"fmt"
	"strings"

	"devicecover/internal/domain"
	"devicecover/internal/log"
	"devicecover/internal/pricing"
	"devicecover/internal/services"
	"devicecover/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DeviceHandler struct {
	Catalog *services.CatalogService
	Quotes  *services.QuoteService
}

type compareRow struct {
	Coverage   pricing.CoverageType
	Annual     string
	Monthly    string
	Deductible string
	MaxClaims  int
	MaxAmount  string
}

func deductibleLabel(d pricing.Deductible) string {
	if d.Type == pricing.DeductibleFixed {
		return pricing.FormatPrice(d.Value)
	}
	return fmt.Sprintf("%%%g", d.Value)
}

func compareRows(cmp services.Comparison) []compareRow {
	rows := make([]compareRow, 0, len(cmp.Quotes))
	for _, cov := range pricing.CoverageTypes {
		q, ok := cmp.Quotes[cov]
		if !ok {
			continue
		}
		rows = append(rows, compareRow{
			Coverage:   cov,
			Annual:     pricing.FormatPrice(q.AnnualPremium),
			Monthly:    pricing.FormatPrice(q.MonthlyPremium),
			Deductible: deductibleLabel(q.Deductible),
			MaxClaims:  q.Limits.MaxClaims,
			MaxAmount:  pricing.FormatPrice(q.Limits.MaxAmount),
		})
	}
	return rows
}

// GET /devices/:id
func (h *DeviceHandler) Page(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		log.Security(c, "validation.fail", map[string]any{"field": "device"})
		return notFound(c, "This device is not in our catalog")
	}
	d, cmp, err := h.Quotes.CompareDevice(c.UserContext(), id)
	if errors.Is(err, services.ErrDeviceNotFound) {
		return notFound(c, "This device is not in our catalog")
	}
	if err != nil {
		return err
	}
	return render(c, "device", fiber.Map{
		"Device":  d,
		"Rows":    compareRows(cmp),
		"Package": cmp.Package,
	})
}

// GET /api/v1/devices?category=&q=
func (h *DeviceHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, valid := validate.ID(category); !valid {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return fail(c, fiber.StatusBadRequest, "invalid category")
		}
	}
	q := ""
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var valid bool
		if q, valid = validate.Q(raw); !valid {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return fail(c, fiber.StatusBadRequest, "enter a valid keyword")
		}
	}

	var (
		devices []domain.Device
		err     error
	)
	if q == "" && category != "" {
		devices, err = h.Catalog.ListDevicesByCategory(category, c.QueryInt("page", 1), 50)
	} else {
		devices, err = h.Catalog.Search(strings.ToLower(q), category, c.QueryInt("page", 1), 50)
	}
	if err != nil {
		log.Error(c, "devices.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load devices")
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	return success(c, fiber.Map{"devices": devices, "count": len(devices)})
}

// GET /api/v1/devices/:id
func (h *DeviceHandler) Get(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		log.Security(c, "validation.fail", map[string]any{"field": "device"})
		return fail(c, fiber.StatusBadRequest, "invalid device id")
	}
	d, err := h.Catalog.GetDevice(id)
	if errors.Is(err, services.ErrDeviceNotFound) {
		return fail(c, fiber.StatusNotFound, "device not found")
	}
	if err != nil {
		log.Error(c, "devices.get.fail", err, map[string]any{"device_id": id})
		return fail(c, fiber.StatusInternalServerError, "could not load device")
	}
	return success(c, fiber.Map{"device": d, "fixedPricing": pricing.UsesFixedPricing(d.CategoryID)})
}
