package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mix_sessions_started_total",
		Help: "Mix-Mode sessions created.",
	})

	activitiesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mix_activities_served_total",
		Help: "Activities served by type.",
	}, []string{"activity_type"})

	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mix_answers_submitted_total",
		Help: "Graded answers by result.",
	}, []string{"result"})

	answersRevealed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mix_answers_revealed_total",
		Help: "Reveals taken instead of answering.",
	})

	readinessChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mix_readiness_checks_total",
		Help: "Deck readiness computations by refresh mode.",
	}, []string{"forced"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mix_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})
)

// MetricsMiddleware times every request against its route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
