// Package metrics exposes prometheus collectors for API calls and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the app's collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	APICalls       *prometheus.CounterVec
	APIRateLimited *prometheus.CounterVec
	Friendships    *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		APICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jack_twitter_api_calls_total",
			Help: "Twitter API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		APIRateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jack_twitter_api_rate_limited_total",
			Help: "Twitter API calls rejected or exhausted by rate limits",
		}, []string{"endpoint"}),
		Friendships: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jack_friendship_changes_total",
			Help: "Follow and unfollow operations by action and outcome",
		}, []string{"action", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jack_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jack_http_request_duration_seconds",
			Help:    "HTTP request duration seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.APICalls, m.APIRateLimited, m.Friendships, m.HTTPRequests, m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordAPICall matches the twitter client's MetricsHook signature.
func (m *Metrics) RecordAPICall(endpoint string, success, rateLimited bool) {
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.APICalls.WithLabelValues(endpoint, outcome).Inc()
	if rateLimited {
		m.APIRateLimited.WithLabelValues(endpoint).Inc()
	}
}

// RecordFriendship counts one follow or unfollow.
func (m *Metrics) RecordFriendship(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Friendships.WithLabelValues(action, outcome).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests and observes their duration by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
