package models

import "github.com/google/uuid"

// Record lifecycle actions carried by RecordEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	// ActionSynced re-announces an unchanged record so consumers can rebuild their view.
	ActionSynced = "synced"
)

// RecordEvent describes a change to one or more records.
type RecordEvent struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	RecordIDs []string  `json:"recordIds"`
	Record    *Record   `json:"record,omitempty"`
	Timestamp int64     `json:"timestamp"`
}
