package handlers

import (
	"errors"
	"strings"
	"time"

	"devicecover/internal/log"
	"devicecover/internal/pricing"
	"devicecover/internal/services"
	"devicecover/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
	Now    func() time.Time
}

func (h *QuoteHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// quoteData shapes an issued quote as {quote} or {package}, plus its id.
func quoteData(iq services.IssuedQuote, extra fiber.Map) fiber.Map {
	data := fiber.Map{"quoteId": iq.ID, "mode": iq.Mode}
	if iq.Package != nil {
		data["package"] = iq.Package
	} else {
		data["quote"] = iq.Quote
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (h *QuoteHandler) deviceError(c *fiber.Ctx, action string, err error, id string) error {
	switch {
	case errors.Is(err, services.ErrDeviceNotFound):
		return fail(c, fiber.StatusNotFound, "device not found")
	case errors.Is(err, services.ErrInvalidInput):
		log.Security(c, "validation.fail", map[string]any{"device_id": id, "err": err.Error()})
		return fail(c, fiber.StatusBadRequest, "invalid quote request")
	default:
		log.Error(c, action, err, map[string]any{"device_id": id})
		return fail(c, fiber.StatusInternalServerError, "could not price device")
	}
}

// GET /api/v1/devices/:id/quote?coverage=&termYears=
func (h *QuoteHandler) Device(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "device"})
		return fail(c, fiber.StatusBadRequest, "invalid device id")
	}
	coverage := pricing.FullCoverage
	if raw := c.Query("coverage"); raw != "" {
		if coverage, ok = validate.Coverage(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "coverage", "value": raw})
			return fail(c, fiber.StatusBadRequest, "unknown coverage type")
		}
	}
	term, ok := validate.TermYears(c.Query("termYears"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "termYears"})
		return fail(c, fiber.StatusBadRequest, "termYears must be 1, 2 or 3")
	}

	d, iq, err := h.Quotes.QuoteDevice(c.UserContext(), id, coverage, term)
	if err != nil {
		return h.deviceError(c, "quote.device.fail", err, id)
	}
	log.Info(c, "quote.issue", map[string]any{"quote_id": iq.ID, "device_id": d.ID, "mode": iq.Mode, "coverage": string(iq.CoverageType())})
	return success(c, quoteData(iq, fiber.Map{"device": d}))
}

// GET /api/v1/devices/:id/quotes
func (h *QuoteHandler) Compare(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "device"})
		return fail(c, fiber.StatusBadRequest, "invalid device id")
	}
	d, cmp, err := h.Quotes.CompareDevice(c.UserContext(), id)
	if err != nil {
		return h.deviceError(c, "quote.compare.fail", err, id)
	}
	data := fiber.Map{"device": d}
	if cmp.Package != nil {
		data["package"] = cmp.Package
	} else {
		data["quotes"] = cmp.Quotes
	}
	return success(c, data)
}

type customQuoteRequest struct {
	DeclaredValue     float64 `json:"declaredValue"`
	DeviceCategory    string  `json:"deviceCategory"`
	PurchaseAgeMonths int     `json:"purchaseAgeMonths"`
	CoverageType      string  `json:"coverageType"`
	TermYears         int     `json:"termYears"`
	Brand             string  `json:"brand"`
}

// POST /api/v1/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var req customQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "body"})
		return fail(c, fiber.StatusBadRequest, "malformed request body")
	}

	category, ok := validate.Category(req.DeviceCategory)
	if !ok {
		return h.invalid(c, "deviceCategory", "enter a device category")
	}
	if !validate.DeclaredValue(req.DeclaredValue) {
		return h.invalid(c, "declaredValue", "declared value must be between 1 and 1000000")
	}
	if !validate.AgeMonths(req.PurchaseAgeMonths) {
		return h.invalid(c, "purchaseAgeMonths", "purchase age must be between 0 and 600 months")
	}
	if req.TermYears < 0 || req.TermYears > 3 {
		return h.invalid(c, "termYears", "termYears must be 1, 2 or 3")
	}
	brand := ""
	if strings.TrimSpace(req.Brand) != "" {
		if brand, ok = validate.Brand(req.Brand); !ok {
			return h.invalid(c, "brand", "invalid brand")
		}
	}
	coverage, ok := validate.Coverage(req.CoverageType)
	if !ok {
		if !pricing.UsesFixedPricing(category) {
			return h.invalid(c, "coverageType", "unknown coverage type")
		}
		coverage = pricing.FullCoverage
	}

	iq, err := h.Quotes.QuoteCustom(c.UserContext(), pricing.Input{
		DeclaredValue:     req.DeclaredValue,
		DeviceCategory:    category,
		PurchaseAgeMonths: req.PurchaseAgeMonths,
		CoverageType:      coverage,
		TermYears:         req.TermYears,
	}, brand)
	if errors.Is(err, services.ErrInvalidInput) {
		return h.invalid(c, "body", "invalid quote request")
	}
	if err != nil {
		log.Error(c, "quote.custom.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not price device")
	}
	log.Info(c, "quote.issue", map[string]any{"quote_id": iq.ID, "mode": iq.Mode, "coverage": string(iq.CoverageType())})
	c.Status(fiber.StatusCreated)
	return success(c, quoteData(iq, nil))
}

func (h *QuoteHandler) invalid(c *fiber.Ctx, field, msg string) error {
	log.Security(c, "validation.fail", map[string]any{"field": field})
	return fail(c, fiber.StatusBadRequest, msg)
}

// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "quote not found")
	}
	iq, err := h.Quotes.GetQuote(c.UserContext(), id, h.now())
	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		return fail(c, fiber.StatusNotFound, "quote not found")
	case errors.Is(err, services.ErrQuoteExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"success": false,
			"error":   "quote expired",
			"data":    quoteData(iq, nil),
		})
	case err != nil:
		log.Error(c, "quote.get.fail", err, map[string]any{"quote_id": id})
		return fail(c, fiber.StatusInternalServerError, "could not load quote")
	}
	return success(c, quoteData(iq, nil))
}

// GET /api/v1/phone-packages?brand=
func (h *QuoteHandler) PhonePackages(c *fiber.Ctx) error {
	raw := c.Query("brand")
	if strings.TrimSpace(raw) == "" {
		return success(c, fiber.Map{"packages": pricing.PhonePackages()})
	}
	brand, ok := validate.Brand(raw)
	if !ok {
		return h.invalid(c, "brand", "invalid brand")
	}
	return success(c, fiber.Map{
		"brand":      brand,
		"phoneType":  pricing.GetPhoneType(brand),
		"knownBrand": pricing.PhoneBrandKnown(brand),
		"package":    pricing.GetPhonePackage(brand),
	})
}
