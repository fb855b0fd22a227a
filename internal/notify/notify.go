// Package notify announces new leads to the sales team.
package notify

import (
	"context"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/logger"
)

// Notifier delivers a new-lead announcement. Implementations should honour
// ctx cancellation where their transport allows it.
type Notifier interface {
	Notify(ctx context.Context, lead domain.Lead) error
	Name() string
}

// LogNotifier only writes the lead to the log.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, lead domain.Lead) error {
	n.log.Info("new lead notification",
		logger.String("id", lead.ID),
		logger.String("name", lead.Name),
		logger.String("email", lead.Email),
		logger.String("phone", lead.Phone),
		logger.String("business", lead.Business),
		logger.String("source", lead.Source),
		logger.String("type", lead.Type))
	return nil
}

func (n *LogNotifier) Name() string { return "log" }
