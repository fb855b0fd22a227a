package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
)

// BreakerConfig tunes the circuit breaker around a remote notifier.
type BreakerConfig struct {
	MaxRequests      uint32        // probes allowed while half-open
	Interval         time.Duration // closed-state window for failure counts
	Timeout          time.Duration // open-state duration before probing
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig suits an SMTP relay or broker used a few times a day.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         5 * time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Breaker stops calling a failing notifier for a while so that a dead relay
// does not hold the dispatcher up on every lead.
type Breaker struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next.
func NewBreaker(next Notifier, cfg BreakerConfig, log logger.Logger) *Breaker {
	log = log.Named("breaker")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notify-" + next.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return &Breaker{next: next, cb: cb}
}

// Notify forwards to the wrapped notifier unless the circuit is open, in
// which case gobreaker.ErrOpenState is returned immediately.
func (b *Breaker) Notify(ctx context.Context, lead domain.Lead) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Notify(ctx, lead)
	})
	return err
}

func (b *Breaker) Name() string { return b.next.Name() }

// State reports the breaker state, for readiness output.
func (b *Breaker) State() string { return b.cb.State().String() }
