package services

import (
	"context"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// NotificationSink delivers best-effort human-readable workflow messages.
// Failures are logged by the caller and never fail the primary action.
type NotificationSink interface {
	// NotifyCreated announces a freshly created report, including its first
	// attached image reference when present.
	NotifyCreated(ctx context.Context, report *domain.Report) error

	// NotifyStatusChanged announces a status transition, naming the actor
	// and carrying the best-available artifact URL.
	NotifyStatusChanged(ctx context.Context, report *domain.Report, actorName string) error
}
