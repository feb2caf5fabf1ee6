package cmd

import (
	"testing"

	"github.com/EO-DataHub/eodhp-record-services/internal/importer"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRowColumns(t *testing.T) {
	rows := []importer.Row{
		{"level": "Senior", "name": "Ana", "team": "Core"},
		{"position": "Engineer", "age": "30"},
	}
	assert.Equal(t, []string{"name", "position", "level", "age", "team"}, rowColumns(rows))
	assert.Empty(t, rowColumns(nil))
}

func TestRenderRecords(t *testing.T) {
	id := primitive.NewObjectID()
	out := renderRecords([]models.Record{{ID: id, Name: "Ana", Position: "Engineer", Level: models.LevelSenior}},
		func(string) bool { return true })

	assert.Contains(t, out, id.Hex())
	assert.Contains(t, out, "Engineer")
	assert.Contains(t, out, "x")
}

func TestValidateLevel(t *testing.T) {
	assert.NoError(t, validateLevel(""))
	assert.NoError(t, validateLevel("Junior"))
	assert.Error(t, validateLevel("junior"))
	assert.Error(t, validateLevel("Manager"))
}
