package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/valueobjects"
	"appbuilder/infrastructure/config"
)

// TestLoadConfig tests configuration loading from environment variables.
func TestLoadConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("PERSISTENCE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/editor.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ENABLE_TRACING", "yes")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, config.DriverSQLite, cfg.PersistenceDriver)
	assert.Equal(t, "/tmp/editor.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.EnableTracing)
	require.NotNil(t, cfg.Editor)
	assert.Equal(t, 2000, cfg.Editor.MaxElements)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PERSISTENCE_DRIVER", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, config.DriverMemory, cfg.PersistenceDriver)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 600, cfg.RateLimitPerMinute)
	assert.Equal(t, 100000, cfg.Editor.MaxElements)
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Environment:       "development",
			PersistenceDriver: config.DriverMemory,
			MetricsBackend:    config.MetricsNone,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid development config", mutate: func(c *config.Config) {}},
		{
			name:    "memory store in production",
			mutate:  func(c *config.Config) { c.Environment = "production" },
			wantErr: "not allowed in production",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *config.Config) { c.PersistenceDriver = config.DriverSQLite },
			wantErr: "SQLITE_PATH",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *config.Config) { c.PersistenceDriver = config.DriverPostgres },
			wantErr: "POSTGRES_DSN",
		},
		{
			name: "dynamodb with table",
			mutate: func(c *config.Config) {
				c.PersistenceDriver = config.DriverDynamoDB
				c.DynamoDBTable = "docs"
			},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *config.Config) { c.PersistenceDriver = "mongo" },
			wantErr: "unknown PERSISTENCE_DRIVER",
		},
		{
			name:    "unknown metrics backend",
			mutate:  func(c *config.Config) { c.MetricsBackend = "statsd" },
			wantErr: "unknown METRICS_BACKEND",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *config.Config) { c.RateLimitPerMinute = -1 },
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEditorConfig_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_language: swift\nmax_elements: 50\n"), 0o600))

	editor, err := config.LoadEditorConfig("production", path)

	require.NoError(t, err)
	assert.Equal(t, valueobjects.LanguageSwift, editor.DefaultLanguage)
	assert.Equal(t, 50, editor.MaxElements)
	assert.Equal(t, 2500, editor.MaxNodes)
	assert.Equal(t, 300.0, editor.DerivedNodeOffsetX)
}

func TestLoadEditorConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default_language: cobol\n"), 0o600))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("max_elements: [\n"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read editor config"},
		{"unparseable", broken, "failed to parse editor config"},
		{"invalid values", bad, "invalid editor config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadEditorConfig("", tt.path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
