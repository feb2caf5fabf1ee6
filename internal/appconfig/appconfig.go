package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host     string         `yaml:"host"`
	BasePath string         `yaml:"basePath"`
	DocsPath string         `yaml:"docsPath"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Pulsar   PulsarConfig   `yaml:"pulsar"`
	AWS      AWSConfig      `yaml:"aws"`
	Client   ClientConfig   `yaml:"client"`
	Import   ImportConfig   `yaml:"import"`
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DatabaseConfig defines the document store connection details
type DatabaseConfig struct {
	URI        string        `yaml:"uri"`
	Name       string        `yaml:"name"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`

	// SecretName, when set, names an AWS Secrets Manager secret holding the URI.
	SecretName string `yaml:"secretName"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// ClientConfig configures the record API client used by the CLI commands
type ClientConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// ImportConfig tunes the spreadsheet import pipeline
type ImportConfig struct {
	Concurrency int `yaml:"concurrency"`
	PreviewRows int `yaml:"previewRows"`
}

const (
	DefaultHost        = "0.0.0.0:5050"
	DefaultDocsPath    = "/docs"
	DefaultDBName      = "employees"
	DefaultCollection  = "records"
	DefaultDBTimeout   = 10 * time.Second
	DefaultBaseURL     = "http://localhost:5050"
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 8
	DefaultPreviewRows = 10
	DefaultRegion      = "eu-west-2"
)

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// Parse the template file
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	return Parse(buf.Bytes())
}

// Parse unmarshals rendered YAML and fills in defaults for unset fields
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.DocsPath == "" {
		c.DocsPath = DefaultDocsPath
	}
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
	if c.Database.Name == "" {
		c.Database.Name = DefaultDBName
	}
	if c.Database.Collection == "" {
		c.Database.Collection = DefaultCollection
	}
	if c.Database.Timeout <= 0 {
		c.Database.Timeout = DefaultDBTimeout
	}
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = DefaultBaseURL
	}
	c.Client.BaseURL = strings.TrimSuffix(c.Client.BaseURL, "/")
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = DefaultTimeout
	}
	if c.Import.Concurrency <= 0 {
		c.Import.Concurrency = DefaultConcurrency
	}
	if c.Import.PreviewRows <= 0 {
		c.Import.PreviewRows = DefaultPreviewRows
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
