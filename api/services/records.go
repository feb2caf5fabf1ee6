package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/EO-DataHub/eodhp-record-services/db"
	"github.com/EO-DataHub/eodhp-record-services/internal/events"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// GetRecordsService retrieves all records, filtered by the level query parameter when present.
func (svc *Service) GetRecordsService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	level := r.URL.Query().Get("level")

	records, err := svc.DB.GetRecords(r.Context(), level)
	if err != nil {
		logger.Error().Err(err).Str("level", level).Msg("Database error retrieving records")
		WriteText(w, http.StatusInternalServerError, "Error retrieving records")
		return
	}

	// Ensure records is not nil, return an empty slice if no records are found
	if records == nil {
		records = []models.Record{}
	}

	logger.Info().Int("record_count", len(records)).Str("level", level).Msg("Successfully retrieved records")
	WriteResponse(w, http.StatusOK, records)
}

// GetRecordService retrieves a single record by id.
func (svc *Service) GetRecordService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	rawID := mux.Vars(r)["id"]
	id, err := ParseID(rawID)
	if err != nil {
		logger.Warn().Str("record_id", rawID).Msg("Invalid record id")
		WriteText(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	record, err := svc.DB.GetRecord(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		logger.Warn().Str("record_id", rawID).Msg("Record not found")
		WriteText(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("record_id", rawID).Msg("Database error retrieving record")
		WriteText(w, http.StatusInternalServerError, "Error retrieving record")
		return
	}

	WriteResponse(w, http.StatusOK, record)
}

// CreateRecordService inserts a new record from the request body.
func (svc *Service) CreateRecordService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload models.RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteText(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := svc.DB.CreateRecord(r.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create record in database")
		WriteText(w, http.StatusInternalServerError, "Error adding record")
		return
	}

	logger.Info().Str("record_id", result.InsertedID.Hex()).Msg("Record created successfully")

	created := &models.Record{
		ID:       result.InsertedID,
		Name:     payload.Name,
		Position: payload.Position,
		Level:    payload.Level,
	}
	svc.publish(r.Context(), events.NewRecordEvent(models.ActionCreated, created))

	location := fmt.Sprintf("%s/%s", strings.TrimSuffix(r.URL.Path, "/"), result.InsertedID.Hex())
	WriteResponse(w, http.StatusCreated, result, location)
}

// UpdateRecordService overwrites the fields of the record named in the URL path.
func (svc *Service) UpdateRecordService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	rawID := mux.Vars(r)["id"]
	id, err := ParseID(rawID)
	if err != nil {
		logger.Warn().Str("record_id", rawID).Msg("Invalid record id")
		WriteText(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var payload models.RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid update request payload")
		WriteText(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := svc.DB.UpdateRecord(r.Context(), id, payload)
	if err != nil {
		logger.Error().Err(err).Str("record_id", rawID).Msg("Database error updating record")
		WriteText(w, http.StatusInternalServerError, "Error updating record")
		return
	}

	if result.MatchedCount > 0 {
		updated := &models.Record{ID: id, Name: payload.Name, Position: payload.Position, Level: payload.Level}
		svc.publish(r.Context(), events.NewRecordEvent(models.ActionUpdated, updated))
	}

	logger.Info().Str("record_id", rawID).Int64("matched", result.MatchedCount).Msg("Record updated")
	WriteResponse(w, http.StatusOK, result)
}

// DeleteRecordService deletes the record named in the URL path.
func (svc *Service) DeleteRecordService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	rawID := mux.Vars(r)["id"]
	id, err := ParseID(rawID)
	if err != nil {
		logger.Warn().Str("record_id", rawID).Msg("Invalid record id")
		WriteText(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	result, err := svc.DB.DeleteRecord(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("record_id", rawID).Msg("Database error deleting record")
		WriteText(w, http.StatusInternalServerError, "Error deleting record")
		return
	}

	if result.DeletedCount == 0 {
		logger.Warn().Str("record_id", rawID).Msg("Record not found")
		WriteText(w, http.StatusNotFound, "Record not found")
		return
	}

	svc.publish(r.Context(), events.NewRecordEvent(models.ActionDeleted, nil, id.Hex()))

	logger.Info().Str("record_id", rawID).Msg("Record deleted successfully")
	WriteResponse(w, http.StatusOK, result)
}

// BulkDeleteRecordsService deletes every record listed in the request body.
// Nothing is deleted if any id is malformed.
func (svc *Service) BulkDeleteRecordsService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload models.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IDs == nil {
		logger.Warn().Err(err).Msg("Invalid bulk delete payload")
		WriteText(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ids, err := ParseIDs(payload.IDs)
	if err != nil {
		logger.Warn().Strs("record_ids", payload.IDs).Msg("Invalid record id in bulk delete")
		WriteText(w, http.StatusBadRequest, "Invalid ID format in array")
		return
	}

	deleted, err := svc.DB.DeleteRecords(r.Context(), ids)
	if err != nil {
		logger.Error().Err(err).Int("requested", len(ids)).Msg("Database error deleting records")
		WriteText(w, http.StatusInternalServerError, "Error deleting records")
		return
	}

	if deleted == 0 {
		logger.Warn().Int("requested", len(ids)).Msg("No records found to delete")
		WriteText(w, http.StatusNotFound, "No records found to delete")
		return
	}

	svc.publish(r.Context(), events.NewRecordEvent(models.ActionDeleted, nil, payload.IDs...))

	logger.Info().Int64("deleted", deleted).Int("requested", len(ids)).Msg("Records deleted successfully")
	WriteResponse(w, http.StatusOK, models.BulkDeleteResponse{DeletedCount: deleted})
}
