package amqp

import (
	"testing"
	"time"
)

func TestNewMovementEvent(t *testing.T) {
	event := NewMovementEvent("m1", "u1", ActionCreated)

	if event.MovementID != "m1" || event.UserID != "u1" || event.Action != ActionCreated {
		t.Fatalf("event fields wrong: %+v", event)
	}
	if event.OccurredAt.IsZero() {
		t.Fatal("OccurredAt should not be zero")
	}
	if time.Since(event.OccurredAt) > time.Second {
		t.Fatal("OccurredAt should be recent")
	}
}

func TestMovementEventJSON(t *testing.T) {
	event := &MovementEvent{
		MovementID: "m1",
		UserID:     "u1",
		Action:     ActionUpdated,
		OccurredAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	parsed, err := MovementEventFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.MovementID != event.MovementID || parsed.Action != event.Action {
		t.Fatalf("round trip lost fields: %+v", parsed)
	}
	if !parsed.OccurredAt.Equal(event.OccurredAt) {
		t.Fatalf("timestamp changed: %v vs %v", parsed.OccurredAt, event.OccurredAt)
	}
}

func TestMovementEventInvalidJSON(t *testing.T) {
	if _, err := MovementEventFromJSON([]byte(`{"occurred_at": 12}`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
