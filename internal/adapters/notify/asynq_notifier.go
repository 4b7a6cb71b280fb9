// internal/adapters/notify/asynq_notifier.go
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/avelez/stockroom-be/internal/core/ports"
)

// TypeStockNotification is the asynq task type for ledger notifications.
const TypeStockNotification = "notification:stock"

// AsynqNotifier delivers notifications through the asynq task queue. Delivery
// is fire-and-forget: enqueue failures are logged and never surfaced, because
// the sink is not part of the ledger's correctness contract.
type AsynqNotifier struct {
	client *asynq.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*AsynqNotifier)(nil)

// NewAsynqNotifier creates a notifier backed by the given asynq client.
func NewAsynqNotifier(client *asynq.Client, logger *slog.Logger) *AsynqNotifier {
	return &AsynqNotifier{
		client: client,
		logger: logger.With(slog.String("component", "notifier")),
	}
}

// Notify enqueues one notification task.
func (n *AsynqNotifier) Notify(ctx context.Context, notification ports.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal notification",
			slog.String("title", notification.Title),
			slog.String("error", err.Error()))
		return
	}

	queue := "default"
	if notification.Severity == ports.SeverityCritical {
		queue = "critical"
	}

	task := asynq.NewTask(TypeStockNotification, payload)
	info, err := n.client.EnqueueContext(ctx, task, asynq.Queue(queue))
	if err != nil {
		n.logger.WarnContext(ctx, "failed to enqueue notification",
			slog.String("title", notification.Title),
			slog.String("error", err.Error()))
		return
	}

	n.logger.DebugContext(ctx, "notification enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("severity", string(notification.Severity)))
}
