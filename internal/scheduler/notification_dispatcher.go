package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/metrics"
	"github.com/silahub/site/internal/notify"
)

const (
	// DefaultNotifyTimeout bounds one notification attempt.
	DefaultNotifyTimeout = 10 * time.Second
	// DefaultNotifyQueueSize is the number of leads waiting to be announced.
	DefaultNotifyQueueSize = 64
)

// NotificationDispatcher sends new-lead notifications from a single
// background goroutine. Leads are never retried: a failed send is logged
// and counted, and a full queue drops the lead.
type NotificationDispatcher struct {
	notifier notify.Notifier
	logger   logger.Logger
	metrics  *metrics.Collector
	timeout  time.Duration

	queue    chan domain.Lead
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

// NewNotificationDispatcher creates a dispatcher. m may be nil.
func NewNotificationDispatcher(
	n notify.Notifier,
	log logger.Logger,
	m *metrics.Collector,
	timeout time.Duration,
	queueSize int,
) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	if queueSize <= 0 {
		queueSize = DefaultNotifyQueueSize
	}

	return &NotificationDispatcher{
		notifier: n,
		logger:   log.Named("dispatcher"),
		metrics:  m,
		timeout:  timeout,
		queue:    make(chan domain.Lead, queueSize),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Dispatch queues lead without blocking.
func (d *NotificationDispatcher) Dispatch(lead domain.Lead) {
	select {
	case <-d.stopCh:
		d.drop(lead, "dispatcher stopped")
		return
	default:
	}

	select {
	case d.queue <- lead:
		d.observeQueue()
	default:
		d.drop(lead, "queue full")
	}
}

// Start runs the worker until Stop is called or ctx is cancelled.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	d.logger.Info("notification dispatcher started",
		logger.String("notifier", d.notifier.Name()),
		logger.Int("queue_size", cap(d.queue)))

	go func() {
		defer close(d.done)
		for {
			select {
			case lead := <-d.queue:
				d.observeQueue()
				d.send(lead)
			case <-d.stopCh:
				d.drain()
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop sends whatever is still queued and waits for the worker to exit.
// It is safe to call more than once.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	if d.started.Load() {
		<-d.done
	}
}

func (d *NotificationDispatcher) drain() {
	for {
		select {
		case lead := <-d.queue:
			d.send(lead)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) send(lead domain.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.notifier.Notify(ctx, lead); err != nil {
		d.logger.Error("lead notification failed",
			logger.String("lead_id", lead.ID),
			logger.String("notifier", d.notifier.Name()),
			logger.Error(err))
		d.count("failed")
		return
	}

	d.logger.Debug("lead notification sent",
		logger.String("lead_id", lead.ID),
		logger.Duration("took", time.Since(start)))
	d.count("sent")
}

func (d *NotificationDispatcher) drop(lead domain.Lead, reason string) {
	d.logger.Warn("lead notification dropped",
		logger.String("lead_id", lead.ID),
		logger.String("reason", reason))
	d.count("dropped")
}

func (d *NotificationDispatcher) count(result string) {
	if d.metrics != nil {
		d.metrics.Notifications.WithLabelValues(result).Inc()
	}
}

func (d *NotificationDispatcher) observeQueue() {
	if d.metrics != nil {
		d.metrics.NotifyQueueLen.Set(float64(len(d.queue)))
	}
}
