package deps

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/silahub/site/internal/blog"
	"github.com/silahub/site/internal/leads"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/metrics"
	"github.com/silahub/site/internal/session"
	"github.com/silahub/site/internal/store"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to reach the admin API
	AllowedCIDRS   []string         // IPs allowed to access readyz/infra/metrics
	AllowedOrigins []string         // CORS origins of the site front-end
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Store    store.Store   // key-value backend, pinged by readyz
	Leads    *leads.Store  // lead collection
	Blog     *blog.Store   // blog collection
	Session  *session.Gate // admin session gate
	Metrics  *metrics.Collector
	Validate *validator.Validate

	NotifierName  string        // active lead notifier ("log", "smtp", "amqp")
	NotifierState func() string // circuit breaker state, nil when unguarded

	PhoneRegion       string // default region for lead phone numbers
	LeadRateBurst     int    // lead submissions per IP in a burst
	LeadRatePerMinute int    // lead submission refill per IP per minute
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
