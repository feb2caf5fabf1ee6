package recordclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/api/handlers"
	"github.com/EO-DataHub/eodhp-record-services/api/services"
	"github.com/EO-DataHub/eodhp-record-services/db"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, seed ...models.RecordPayload) (*Client, *db.MemoryDB) {
	t.Helper()

	store := db.NewMemoryDB()
	for _, p := range seed {
		_, err := store.CreateRecord(context.Background(), p)
		require.NoError(t, err)
	}

	r := mux.NewRouter()
	handlers.RegisterRoutes(r, "", &services.Service{DB: store})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return NewClient(server.URL+"/", 5*time.Second), store
}

func TestClient_CRUD(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	inserted, err := client.Create(ctx, models.RecordPayload{Name: "Ana", Position: "Engineer", Level: models.LevelJunior})
	require.NoError(t, err)
	require.False(t, inserted.InsertedID.IsZero())
	id := inserted.InsertedID.Hex()

	record, err := client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", record.Name)

	updated, err := client.Update(ctx, id, models.RecordPayload{Name: "Ana", Position: "Engineer", Level: models.LevelSenior})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.MatchedCount)

	seniors, err := client.List(ctx, "Senior")
	require.NoError(t, err)
	require.Len(t, seniors, 1)
	assert.Equal(t, inserted.InsertedID, seniors[0].ID)

	deleted, err := client.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.DeletedCount)

	_, err = client.Get(ctx, id)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Record not found", httpErr.Message)
}

func TestClient_CreateFromRow(t *testing.T) {
	client, store := newTestServer(t)

	row := map[string]string{"name": "Ben", "position": "Designer", "level": "Intern"}
	inserted, err := client.Create(context.Background(), row)
	require.NoError(t, err)

	record, err := store.GetRecord(context.Background(), inserted.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, models.LevelIntern, record.Level)
}

func TestClient_BulkDelete(t *testing.T) {
	client, store := newTestServer(t,
		models.RecordPayload{Name: "Ana", Position: "Engineer", Level: models.LevelSenior},
		models.RecordPayload{Name: "Ben", Position: "Designer", Level: models.LevelJunior},
	)
	existing, _ := store.GetRecords(context.Background(), "")

	result, err := client.BulkDelete(context.Background(), []string{existing[0].ID.Hex(), existing[1].ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedCount)

	_, err = client.BulkDelete(context.Background(), nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	_, err = client.BulkDelete(context.Background(), []string{"bad-id"})
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{Status: http.StatusBadRequest, Message: "Invalid ID format"}
	assert.Equal(t, "400 Bad Request: Invalid ID format", err.Error())
}
