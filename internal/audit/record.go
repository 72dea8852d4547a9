package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action describes the kind of mutation an audit record captures.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Record is one immutable audit trail row.
type Record struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    *string        `json:"actor_id"`
	Action     Action         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Before     map[string]any `json:"before"`
	After      map[string]any `json:"after"`
	IP         *string        `json:"ip"`
	UserAgent  *string        `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Entry is what an operation hands to the recorder after it succeeds.
type Entry struct {
	ActorID    string
	Action     Action
	EntityType string
	EntityID   string
	Before     map[string]any
	After      map[string]any
	IP         string
	UserAgent  string
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
