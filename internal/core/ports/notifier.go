// internal/core/ports/notifier.go
package ports

import "context"

// Severity grades a notification for display.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification is the (title, description, severity) triple surfaced to the
// dashboard after ledger operations.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	ProductID   string   `json:"product_id,omitempty"`
}

// Notifier delivers notifications fire-and-forget. Implementations must never
// block the caller or propagate delivery failures; the sink is not part of
// the ledger's correctness contract.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
