package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so multiple instances (one per test
// server) never collide on registration.
type Collector struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       prometheus.Histogram
	logins         *prometheus.CounterVec
	registrations  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mergington_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_activity_registrations_total",
			Help: "Activity roster mutations by action.",
		}, []string{"action"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mergington_active_sessions",
			Help: "Sessions currently held in the session store.",
		}),
	}
	c.registry.MustRegister(c.requests, c.duration, c.logins, c.registrations, c.activeSessions)
	return c
}

// Handler serves the exposition endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordRequest(status int, duration time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.duration.Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRegistration(action string) {
	c.registrations.WithLabelValues(action).Inc()
}

func (c *Collector) SessionOpened() {
	c.activeSessions.Inc()
}

func (c *Collector) SessionClosed() {
	c.activeSessions.Dec()
}
