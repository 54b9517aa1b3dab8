package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "careerhub_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_llm_requests_total",
		Help: "Hosted model calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "careerhub_llm_request_duration_seconds",
		Help:    "Hosted model call latency by provider.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 90},
	}, []string{"provider"})

	CVPipelineTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_cv_pipeline_total",
		Help: "CV analysis and tailoring runs by kind and outcome.",
	}, []string{"kind", "outcome"})

	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerhub_text_extractions_total",
		Help: "Document text extractions by format and outcome.",
	}, []string{"format", "outcome"})
)

// Middleware records request counts and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
