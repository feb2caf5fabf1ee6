package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Level is the seniority tag used for filtering records.
type Level string

const (
	LevelIntern Level = "Intern"
	LevelJunior Level = "Junior"
	LevelSenior Level = "Senior"
)

// Levels lists every known level in display order.
var Levels = []Level{LevelIntern, LevelJunior, LevelSenior}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// Record represents an employee entry in the records collection.
type Record struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Position string             `bson:"position" json:"position"`
	Level    Level              `bson:"level" json:"level"`
}

// RecordPayload is the request body for creating and updating a record.
type RecordPayload struct {
	Name     string `bson:"name" json:"name"`
	Position string `bson:"position" json:"position"`
	Level    Level  `bson:"level" json:"level"`
}

// BulkDeleteRequest carries the ids to remove in a single call.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
