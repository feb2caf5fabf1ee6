package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EO-DataHub/eodhp-record-services/db"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestService() (*Service, *MockRecordDB, *MockEventPublisher) {
	mockDB := new(MockRecordDB)
	mockPublisher := new(MockEventPublisher)
	return &Service{DB: mockDB, Publisher: mockPublisher}, mockDB, mockPublisher
}

func TestGetRecordsService_FilterByLevel(t *testing.T) {

	svc, mockDB, _ := newTestService()
	seniors := []models.Record{
		{ID: primitive.NewObjectID(), Name: "Ana", Position: "Engineer", Level: models.LevelSenior},
		{ID: primitive.NewObjectID(), Name: "Ben", Position: "Designer", Level: models.LevelSenior},
	}
	mockDB.On("GetRecords", mock.Anything, "Senior").Return(seniors, nil)

	r := httptest.NewRequest(http.MethodGet, "/record?level=Senior", nil)
	w := httptest.NewRecorder()
	svc.GetRecordsService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var body []models.Record
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, seniors, body)

	mockDB.AssertExpectations(t)
}

func TestGetRecordsService_EmptyIsArray(t *testing.T) {

	svc, mockDB, _ := newTestService()
	mockDB.On("GetRecords", mock.Anything, "").Return(nil, nil)

	w := httptest.NewRecorder()
	svc.GetRecordsService(w, httptest.NewRequest(http.MethodGet, "/record", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetRecordsService_StoreError(t *testing.T) {

	svc, mockDB, _ := newTestService()
	mockDB.On("GetRecords", mock.Anything, "").Return(nil, errors.New("connection reset"))

	w := httptest.NewRecorder()
	svc.GetRecordsService(w, httptest.NewRequest(http.MethodGet, "/record", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error retrieving records", w.Body.String())
}

func TestGetRecordService(t *testing.T) {

	svc, mockDB, _ := newTestService()
	id := primitive.NewObjectID()
	record := &models.Record{ID: id, Name: "Ana", Position: "Engineer", Level: models.LevelSenior}
	mockDB.On("GetRecord", mock.Anything, id).Return(record, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/record/%s", id.Hex()), nil)
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.GetRecordService(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body models.Record
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, *record, body)

	mockDB.AssertCalled(t, "GetRecord", mock.Anything, id)
}

func TestGetRecordService_NotFound(t *testing.T) {

	svc, mockDB, _ := newTestService()
	id := primitive.NewObjectID()
	mockDB.On("GetRecord", mock.Anything, id).Return(nil, db.ErrNotFound)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/record/x", nil), map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.GetRecordService(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Record not found", w.Body.String())
}

func TestGetRecordService_InvalidID(t *testing.T) {

	svc, mockDB, _ := newTestService()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/record/bad-id", nil), map[string]string{"id": "bad-id"})
	w := httptest.NewRecorder()
	svc.GetRecordService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDB.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
}

func TestCreateRecordService(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	id := primitive.NewObjectID()
	payload := models.RecordPayload{Name: "A", Position: "B", Level: models.LevelIntern}

	mockDB.On("CreateRecord", mock.Anything, payload).Return(models.InsertResult{Acknowledged: true, InsertedID: id}, nil)
	mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.RecordEvent) bool {
		return e.Action == models.ActionCreated && e.Record != nil && e.Record.ID == id
	})).Return(nil)

	requestBody, _ := json.Marshal(payload)
	r := httptest.NewRequest(http.MethodPost, "/record/", bytes.NewReader(requestBody))
	w := httptest.NewRecorder()
	svc.CreateRecordService(w, r)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "/record/"+id.Hex(), res.Header.Get("Location"))

	var body models.InsertResult
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.True(t, body.Acknowledged)
	assert.Equal(t, id, body.InsertedID)

	mockDB.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestCreateRecordService_PublishFailureIsNotFatal(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	mockDB.On("CreateRecord", mock.Anything, mock.Anything).Return(models.InsertResult{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	r := httptest.NewRequest(http.MethodPost, "/record/", bytes.NewBufferString(`{"name":"A","position":"B","level":"Intern"}`))
	w := httptest.NewRecorder()
	svc.CreateRecordService(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRecordService_Errors(t *testing.T) {

	svc, mockDB, _ := newTestService()
	mockDB.On("CreateRecord", mock.Anything, mock.Anything).Return(models.InsertResult{}, errors.New("write concern"))

	w := httptest.NewRecorder()
	svc.CreateRecordService(w, httptest.NewRequest(http.MethodPost, "/record/", bytes.NewBufferString(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	svc.CreateRecordService(w, httptest.NewRequest(http.MethodPost, "/record/", bytes.NewBufferString(`{"name":"A"}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error adding record", w.Body.String())
}

func TestUpdateRecordService(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	id := primitive.NewObjectID()
	payload := models.RecordPayload{Name: "Ana", Position: "Lead", Level: models.LevelSenior}

	mockDB.On("UpdateRecord", mock.Anything, id, payload).Return(models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)
	mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.RecordEvent) bool {
		return e.Action == models.ActionUpdated
	})).Return(nil)

	requestBody, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/record/"+id.Hex(), bytes.NewReader(requestBody))
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.UpdateRecordService(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body models.UpdateResult
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int64(1), body.ModifiedCount)

	mockDB.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestUpdateRecordService_UnmatchedDoesNotPublish(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	id := primitive.NewObjectID()
	mockDB.On("UpdateRecord", mock.Anything, id, mock.Anything).Return(models.UpdateResult{Acknowledged: true}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/record/"+id.Hex(), bytes.NewBufferString(`{"name":"X"}`))
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.UpdateRecordService(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpdateRecordService_InvalidID(t *testing.T) {

	svc, mockDB, _ := newTestService()

	req := httptest.NewRequest(http.MethodPatch, "/record/123", bytes.NewBufferString(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "123"})
	w := httptest.NewRecorder()
	svc.UpdateRecordService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", w.Body.String())
	mockDB.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRecordService(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	id := primitive.NewObjectID()
	mockDB.On("DeleteRecord", mock.Anything, id).Return(models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil).Once()
	mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.RecordEvent) bool {
		return e.Action == models.ActionDeleted && len(e.RecordIDs) == 1 && e.RecordIDs[0] == id.Hex()
	})).Return(nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/record/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.DeleteRecordService(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())

	mockDB.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestDeleteRecordService_NotFound(t *testing.T) {

	svc, mockDB, _ := newTestService()
	id := primitive.NewObjectID()
	mockDB.On("DeleteRecord", mock.Anything, id).Return(models.DeleteResult{Acknowledged: true}, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/record/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
	w := httptest.NewRecorder()
	svc.DeleteRecordService(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkDeleteRecordsService(t *testing.T) {

	svc, mockDB, mockPublisher := newTestService()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	mockDB.On("DeleteRecords", mock.Anything, []primitive.ObjectID{a, b}).Return(int64(2), nil)
	mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	body := fmt.Sprintf(`{"ids":["%s","%s"]}`, a.Hex(), b.Hex())
	w := httptest.NewRecorder()
	svc.BulkDeleteRecordsService(w, httptest.NewRequest(http.MethodDelete, "/record/bulk-delete", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":2}`, w.Body.String())
}

func TestBulkDeleteRecordsService_InvalidIDDeletesNothing(t *testing.T) {

	svc, mockDB, _ := newTestService()

	body := fmt.Sprintf(`{"ids":["%s","bad-id"]}`, primitive.NewObjectID().Hex())
	w := httptest.NewRecorder()
	svc.BulkDeleteRecordsService(w, httptest.NewRequest(http.MethodDelete, "/record/bulk-delete", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format in array", w.Body.String())
	mockDB.AssertNotCalled(t, "DeleteRecords", mock.Anything, mock.Anything)
}

func TestBulkDeleteRecordsService_NoneDeleted(t *testing.T) {

	svc, mockDB, _ := newTestService()
	mockDB.On("DeleteRecords", mock.Anything, mock.Anything).Return(int64(0), nil)

	w := httptest.NewRecorder()
	svc.BulkDeleteRecordsService(w, httptest.NewRequest(http.MethodDelete, "/record/bulk-delete", bytes.NewBufferString(`{"ids":[]}`)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No records found to delete", w.Body.String())
}

func TestBulkDeleteRecordsService_MalformedBody(t *testing.T) {

	svc, mockDB, _ := newTestService()

	for _, body := range []string{`{}`, `{"ids":"abc"}`, `nope`} {
		w := httptest.NewRecorder()
		svc.BulkDeleteRecordsService(w, httptest.NewRequest(http.MethodDelete, "/record/bulk-delete", bytes.NewBufferString(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	mockDB.AssertNotCalled(t, "DeleteRecords", mock.Anything, mock.Anything)
}

func TestParseIDs(t *testing.T) {
	id := primitive.NewObjectID()

	ids, err := ParseIDs([]string{id.Hex()})
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{id}, ids)

	_, err = ParseIDs([]string{id.Hex(), "zzzzzzzzzzzzzzzzzzzzzzzz"})
	assert.ErrorIs(t, err, ErrInvalidID)
}
