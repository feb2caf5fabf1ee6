package db

import (
	"context"
	"sync"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDB keeps records in process memory, in insertion order.
// It backs the serve command's --in-memory mode and the API tests.
type MemoryDB struct {
	mu      sync.RWMutex
	order   []primitive.ObjectID
	records map[primitive.ObjectID]models.Record
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{records: make(map[primitive.ObjectID]models.Record)}
}

func (m *MemoryDB) GetRecords(ctx context.Context, level string) ([]models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []models.Record{}
	for _, id := range m.order {
		record := m.records[id]
		if level == "" || string(record.Level) == level {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *MemoryDB) GetRecord(ctx context.Context, id primitive.ObjectID) (*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (m *MemoryDB) CreateRecord(ctx context.Context, payload models.RecordPayload) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := primitive.NewObjectID()
	m.records[id] = models.Record{ID: id, Name: payload.Name, Position: payload.Position, Level: payload.Level}
	m.order = append(m.order, id)
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *MemoryDB) UpdateRecord(ctx context.Context, id primitive.ObjectID, payload models.RecordPayload) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[id]
	if !ok {
		return models.UpdateResult{Acknowledged: true}, nil
	}

	updated := models.Record{ID: id, Name: payload.Name, Position: payload.Position, Level: payload.Level}
	result := models.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if updated != current {
		m.records[id] = updated
		result.ModifiedCount = 1
	}
	return result, nil
}

func (m *MemoryDB) DeleteRecord(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.DeleteResult{Acknowledged: true, DeletedCount: m.remove(id)}, nil
}

func (m *MemoryDB) DeleteRecords(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		deleted += m.remove(id)
	}
	return deleted, nil
}

// remove must be called with the write lock held
func (m *MemoryDB) remove(id primitive.ObjectID) int64 {
	if _, ok := m.records[id]; !ok {
		return 0
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1
}
