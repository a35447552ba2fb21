// Package worker turns the movement event stream into a persistent audit
// trail. It is the only writer of the movement_events collection.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"suma/internal/amqp"
	"suma/internal/ledger"
	applog "suma/internal/log"
)

// AuditWorker consumes movement events and records one audit entry each.
type AuditWorker struct {
	store  ledger.Store
	events *amqp.Client
	logger *applog.Logger
}

func NewAuditWorker(store ledger.Store, events *amqp.Client, logger *applog.Logger) *AuditWorker {
	return &AuditWorker{store: store, events: events, logger: logger}
}

// Run consumes until the context ends. Recording failures requeue the
// delivery, so a transient store problem does not lose audit entries.
func (w *AuditWorker) Run(ctx context.Context) error {
	return w.events.ConsumeMovementEvents(ctx, func(event *amqp.MovementEvent) error {
		return w.HandleMovementEvent(ctx, event)
	})
}

// HandleMovementEvent records one audit entry for a delivered event.
func (w *AuditWorker) HandleMovementEvent(ctx context.Context, event *amqp.MovementEvent) error {
	entry := ledger.Event{
		ID:         uuid.NewString(),
		MovementID: event.MovementID,
		UserID:     event.UserID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if err := w.store.RecordEvent(ctx, entry); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	w.logger.Info("Recorded audit event",
		applog.FieldMovementID, event.MovementID,
		applog.FieldUserID, event.UserID,
		applog.FieldOperation, event.Action)
	return nil
}
