package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ChangeEvent is the payload the schedules trigger publishes.
type ChangeEvent struct {
	Table      string    `json:"table"`
	Action     string    `json:"action"` // insert, update or delete
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

func ParseChangeEvent(payload string) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("invalid change payload: %w", err)
	}
	if ev.Table == "" || ev.ID == uuid.Nil {
		return ev, fmt.Errorf("invalid change payload: missing table or id")
	}
	return ev, nil
}
