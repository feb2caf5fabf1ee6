package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// InsertResult mirrors the document store's insert acknowledgement.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateResult mirrors the document store's update acknowledgement.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult mirrors the document store's delete acknowledgement.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// BulkDeleteResponse is returned by the bulk delete endpoint.
type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
