package scheduler

import (
	"context"
	"time"

	"github.com/silahub/site/internal/logger"
)

// SessionExpirer clears an admin session older than maxAge.
type SessionExpirer interface {
	Expire(ctx context.Context, maxAge time.Duration) (bool, error)
}

// SessionReaper periodically ends admin sessions that outlived their token
// lifetime, so a restored flag does not stay authenticated forever.
type SessionReaper struct {
	sessions SessionExpirer
	logger   logger.Logger
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
}

// NewSessionReaper creates a reaper checking every interval.
func NewSessionReaper(s SessionExpirer, log logger.Logger, interval, maxAge time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{
		sessions: s,
		logger:   log.Named("session-reaper"),
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start checks once immediately, then on every tick.
func (r *SessionReaper) Start(ctx context.Context) {
	r.Reap(ctx)

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Reap(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reaper.
func (r *SessionReaper) Stop() {
	close(r.stopCh)
}

// Reap runs one check. Failures are logged only.
func (r *SessionReaper) Reap(ctx context.Context) {
	expired, err := r.sessions.Expire(ctx, r.maxAge)
	if err != nil {
		r.logger.Warn("session expiry check failed", logger.Error(err))
		return
	}
	if expired {
		r.logger.Info("admin session expired", logger.Duration("max_age", r.maxAge))
	}
}
