package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-record-services/api/services"
)

// GetRecords returns the list handler.
// @Summary List records
// @Param level query string false "Only records with this level" Enums(Intern, Junior, Senior)
// @Success 200 {array} models.Record
// @Failure 500 {string} string
// @Router /record [get]
func GetRecords(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRecordsService(w, r)
	}
}

// GetRecord returns the single record handler.
// @Summary Get a record
// @Param id path string true "24-character hex record id"
// @Success 200 {object} models.Record
// @Failure 400,404,500 {string} string
// @Router /record/{id} [get]
func GetRecord(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetRecordService(w, r)
	}
}

// CreateRecord returns the create handler.
// @Summary Create a record
// @Param record body models.RecordPayload true "Record fields"
// @Success 201 {object} models.InsertResult
// @Failure 400,500 {string} string
// @Router /record/ [post]
func CreateRecord(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateRecordService(w, r)
	}
}

// UpdateRecord returns the update handler.
// @Summary Update a record
// @Param id path string true "24-character hex record id"
// @Param record body models.RecordPayload true "Record fields"
// @Success 200 {object} models.UpdateResult
// @Failure 400,500 {string} string
// @Router /record/{id} [patch]
func UpdateRecord(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateRecordService(w, r)
	}
}

// DeleteRecord returns the single delete handler.
// @Summary Delete a record
// @Param id path string true "24-character hex record id"
// @Success 200 {object} models.DeleteResult
// @Failure 400,404,500 {string} string
// @Router /record/{id} [delete]
func DeleteRecord(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteRecordService(w, r)
	}
}

// BulkDeleteRecords returns the bulk delete handler.
// @Summary Delete several records
// @Param ids body models.BulkDeleteRequest true "Record ids"
// @Success 200 {object} models.BulkDeleteResponse
// @Failure 400,404,500 {string} string
// @Router /record/bulk-delete [delete]
func BulkDeleteRecords(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.BulkDeleteRecordsService(w, r)
	}
}
