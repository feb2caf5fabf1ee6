package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LevelFilter builds the find filter for a level; an empty level matches everything.
func LevelFilter(level string) bson.M {
	if level == "" {
		return bson.M{}
	}
	return bson.M{"level": level}
}

// GetRecords retrieves all records, optionally restricted to one level.
func (db *RecordDB) GetRecords(ctx context.Context, level string) ([]models.Record, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	cursor, err := db.Collection.Find(ctx, LevelFilter(level))
	if err != nil {
		return nil, fmt.Errorf("error retrieving records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding records: %w", err)
	}
	return records, nil
}

// GetRecord retrieves a single record by id.
func (db *RecordDB) GetRecord(ctx context.Context, id primitive.ObjectID) (*models.Record, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var record models.Record
	err := db.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving record %s: %w", id.Hex(), err)
	}
	return &record, nil
}

// CreateRecord inserts a new record; the store assigns its id.
func (db *RecordDB) CreateRecord(ctx context.Context, payload models.RecordPayload) (models.InsertResult, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.Collection.InsertOne(ctx, payload)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("error inserting record: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.InsertResult{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateRecord overwrites name, position and level of the record with the given id.
func (db *RecordDB) UpdateRecord(ctx context.Context, id primitive.ObjectID, payload models.RecordPayload) (models.UpdateResult, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":     payload.Name,
		"position": payload.Position,
		"level":    payload.Level,
	}}

	result, err := db.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("error updating record %s: %w", id.Hex(), err)
	}

	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
		UpsertedID:    result.UpsertedID,
	}, nil
}

// DeleteRecord removes the record with the given id.
func (db *RecordDB) DeleteRecord(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("error deleting record %s: %w", id.Hex(), err)
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

// DeleteRecords removes every record whose id is listed and returns how many went.
func (db *RecordDB) DeleteRecords(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.Collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("error deleting records: %w", err)
	}
	return result.DeletedCount, nil
}
