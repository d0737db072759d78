package metrics

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	quotesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devicecover",
			Name:      "quotes_issued_total",
			Help:      "Quotes issued, by coverage type and pricing mode.",
		},
		[]string{"coverage", "mode"},
	)

	annualPremium = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "devicecover",
			Name:      "annual_premium",
			Help:      "Annual premium of issued quotes in local currency.",
			Buckets:   prometheus.ExponentialBuckets(300, 2, 8), // 300 to ~38k
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devicecover",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		quotesIssued,
		annualPremium,
		httpRequests,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// RecordQuote counts one issued quote.
func RecordQuote(coverage, mode string, annual float64) {
	quotesIssued.WithLabelValues(coverage, mode).Inc()
	annualPremium.Observe(annual)
}

// Handler serves the registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware counts requests by matched route pattern, so /devices/:id is one series.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(strings.ToUpper(c.Method()), route, strconv.Itoa(status)).Inc()
		return err
	}
}
