package services

import (
	"context"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockRecordDB struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockRecordDB) GetRecords(ctx context.Context, level string) ([]models.Record, error) {
	args := m.Called(ctx, level)
	records, _ := args.Get(0).([]models.Record)
	return records, args.Error(1)
}

func (m *MockRecordDB) GetRecord(ctx context.Context, id primitive.ObjectID) (*models.Record, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*models.Record)
	return record, args.Error(1)
}

func (m *MockRecordDB) CreateRecord(ctx context.Context, payload models.RecordPayload) (models.InsertResult, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(models.InsertResult), args.Error(1)
}

func (m *MockRecordDB) UpdateRecord(ctx context.Context, id primitive.ObjectID, payload models.RecordPayload) (models.UpdateResult, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(models.UpdateResult), args.Error(1)
}

func (m *MockRecordDB) DeleteRecord(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.DeleteResult), args.Error(1)
}

func (m *MockRecordDB) DeleteRecords(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventPublisher) Publish(ctx context.Context, event models.RecordEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}
