package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retail_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	RecordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_transfer_records_created_total",
			Help: "Transfer records created, by pay method and type",
		},
		[]string{"pay", "type"},
	)

	FeeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_fee_lookups_total",
			Help: "Fee lookups by amount, by whether a tier matched",
		},
		[]string{"result"},
	)

	FeeTableSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retail_fee_table_saves_total",
			Help: "Successful bulk replacements of the fee table",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_cache_lookups_total",
			Help: "Cache lookups by key and hit or miss",
		},
		[]string{"key", "result"},
	)

	ReportExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_report_exports_total",
			Help: "Report files generated, by format",
		},
		[]string{"format"},
	)
)

// Hit labels a boolean cache or match outcome.
func Hit(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}

// Middleware records count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
