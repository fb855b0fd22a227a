// Package metrics holds the Prometheus collectors of the site service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "silahub"

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	LeadsCreated   *prometheus.CounterVec
	PostsWritten   *prometheus.CounterVec
	AdminLogins    *prometheus.CounterVec
	RateLimited    prometheus.Counter
	Notifications  *prometheus.CounterVec
	NotifyQueueLen prometheus.Gauge
}

// New creates and registers every collector, plus the Go runtime and
// process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LeadsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_created_total",
			Help:      "Leads captured, by inquiry type",
		}, []string{"type"}),
		PostsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blog_posts_written_total",
			Help:      "Blog post mutations, by operation",
		}, []string{"op"}),
		AdminLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_logins_total",
			Help:      "Admin login attempts, by result",
		}, []string{"result"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_notifications_total",
			Help:      "Lead notifications, by result (sent, failed, dropped)",
		}, []string{"result"}),
		NotifyQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lead_notification_queue_length",
			Help:      "Lead notifications waiting to be sent",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.LeadsCreated,
		c.PostsWritten,
		c.AdminLogins,
		c.RateLimited,
		c.Notifications,
		c.NotifyQueueLen,
	)
	return c
}

// Registry exposes the registry for the /metrics handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
