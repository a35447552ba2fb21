package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"suma/internal/amqp"
	"suma/internal/core"
	"suma/internal/ledger"
)

// MovementService wraps the store with the movement lifecycle and publishes
// an event after each successful write. Publishing is best effort: the write
// already happened, so a broker problem is logged and swallowed.
type MovementService struct {
	store  ledger.Store
	events *amqp.Client
}

func NewMovementService(store ledger.Store, events *amqp.Client) *MovementService {
	return &MovementService{store: store, events: events}
}

func (s *MovementService) List(ctx context.Context, ownerID string, f ledger.MovementFilter) ([]core.Movement, error) {
	return s.store.Movements(ctx, ownerID, f)
}

func (s *MovementService) Create(ctx context.Context, ownerID string, draft core.MovementDraft) (core.Movement, error) {
	if err := draft.Validate(); err != nil {
		return core.Movement{}, err
	}
	m := core.NewMovement(uuid.NewString(), ownerID, draft, core.Now())
	if err := s.store.CreateMovement(ctx, m); err != nil {
		return core.Movement{}, fmt.Errorf("create movement: %w", err)
	}
	s.publish(ctx, m.ID, ownerID, amqp.ActionCreated)
	return m, nil
}

func (s *MovementService) Update(ctx context.Context, ownerID, id string, patch core.MovementPatch) (core.Movement, error) {
	if err := patch.Validate(); err != nil {
		return core.Movement{}, err
	}
	m, err := s.store.UpdateMovement(ctx, ownerID, id, patch, core.Now())
	if err != nil {
		return core.Movement{}, err
	}
	s.publish(ctx, id, ownerID, amqp.ActionUpdated)
	return m, nil
}

func (s *MovementService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteMovement(ctx, ownerID, id); err != nil {
		return err
	}
	s.publish(ctx, id, ownerID, amqp.ActionDeleted)
	return nil
}

// Summary computes the KPI aggregates over the requested period window.
func (s *MovementService) Summary(ctx context.Context, ownerID string, period core.Period) (core.KPISummary, error) {
	if period == "" {
		period = core.PeriodAll
	}
	if !period.IsValid() {
		return core.KPISummary{}, &core.ValidationError{Field: "period", Reason: "must be all, today, week or month"}
	}
	return s.store.Summarize(ctx, ownerID, period)
}

func (s *MovementService) publish(ctx context.Context, movementID, ownerID, action string) {
	if s.events == nil {
		return
	}
	event := amqp.NewMovementEvent(movementID, ownerID, action)
	if err := s.events.PublishMovementEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish movement event",
			"error", err,
			"movement_id", movementID,
			"action", action)
	}
}
