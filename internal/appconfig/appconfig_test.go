package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RendersEnvironment(t *testing.T) {
	t.Setenv("TEST_MONGODB_URI", "mongodb://db:27017/?retryWrites=true&w=majority")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
host: 127.0.0.1:9000
database:
  uri: "{{ .TEST_MONGODB_URI }}"
  name: staff
  timeout: 3s
client:
  baseURL: http://api.local/
import:
  concurrency: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Host)
	assert.Equal(t, "mongodb://db:27017/?retryWrites=true&w=majority", cfg.Database.URI)
	assert.Equal(t, "staff", cfg.Database.Name)
	assert.Equal(t, DefaultCollection, cfg.Database.Collection)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "http://api.local", cfg.Client.BaseURL)
	assert.Equal(t, 2, cfg.Import.Concurrency)
	assert.Equal(t, DefaultPreviewRows, cfg.Import.PreviewRows)
}

func TestLoadConfig_MissingVariableRendersEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`pulsar:
  url: "{{ .SURELY_UNSET_PULSAR_URL }}"
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Pulsar.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultDocsPath, cfg.DocsPath)
	assert.Equal(t, DefaultDBName, cfg.Database.Name)
	assert.Equal(t, DefaultDBTimeout, cfg.Database.Timeout)
	assert.Equal(t, DefaultBaseURL, cfg.Client.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Client.Timeout)
	assert.Equal(t, DefaultConcurrency, cfg.Import.Concurrency)
	assert.Equal(t, DefaultRegion, cfg.AWS.Region)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("host: [unterminated"))
	assert.Error(t, err)
}
