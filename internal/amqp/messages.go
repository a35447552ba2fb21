package amqp

import (
	"encoding/json"
	"time"
)

// Movement event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// MovementEvent is the message published after a successful movement write.
// It is deliberately small: consumers that need the record fetch it from the
// store by id.
type MovementEvent struct {
	MovementID string    `json:"movement_id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewMovementEvent(movementID, userID, action string) *MovementEvent {
	return &MovementEvent{
		MovementID: movementID,
		UserID:     userID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

func (m *MovementEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MovementEventFromJSON(data []byte) (*MovementEvent, error) {
	var m MovementEvent
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
