// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/avelez/stockroom-be/internal/core/ports"
)

// NotificationProcessor consumes ledger notification tasks and hands them to
// the dashboard's display channel. Delivery here is the end of the line; a
// failed task is retried by asynq, never bounced back to the ledger.
type NotificationProcessor struct {
	logger *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		logger: logger.With(slog.String("processor", "notification")),
	}
}

// ProcessStockNotification handles one notification:stock task.
func (p *NotificationProcessor) ProcessStockNotification(ctx context.Context, t *asynq.Task) error {
	var n ports.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}

	level := slog.LevelInfo
	switch n.Severity {
	case ports.SeverityWarning:
		level = slog.LevelWarn
	case ports.SeverityCritical:
		level = slog.LevelError
	}

	// Structured log is the delivery mechanism for now; mail or webhook
	// fan-out would hang off this handler.
	p.logger.Log(ctx, level, "stock notification",
		slog.String("title", n.Title),
		slog.String("description", n.Description),
		slog.String("severity", string(n.Severity)),
		slog.String("product_id", n.ProductID))

	return nil
}
