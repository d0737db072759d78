package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordQuote(t *testing.T) {
	before := testutil.ToFloat64(quotesIssued.WithLabelValues("THEFT_LOSS", "formula"))
	RecordQuote("THEFT_LOSS", "formula", 2462.4)
	RecordQuote("THEFT_LOSS", "formula", 300)
	assert.Equal(t, before+2, testutil.ToFloat64(quotesIssued.WithLabelValues("THEFT_LOSS", "formula")))
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/devices/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/devices/:id", "200"))
	for _, id := range []string{"ps5", "pixel-8"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/devices/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/devices/:id", "200")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "devicecover_http_requests_total"), "exposition missing counter")
}
