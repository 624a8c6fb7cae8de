package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	editorconfig "appbuilder/domain/config"
)

// Persistence drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
)

// Metrics backends
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsCloudWatch = "cloudwatch"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress  string
	Environment    string
	AllowedOrigins []string

	// Persistence
	PersistenceDriver string
	SQLitePath        string
	PostgresDSN       string
	PostgresMaxConns  int

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string
	EventSource   string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Observability
	MetricsBackend   string
	MetricsNamespace string
	EnableTracing    bool
	EnableCORS       bool

	// Requests per minute per client on the API; 0 disables limiting
	RateLimitPerMinute int

	// Editor defaults, from the environment profile and the overlay file
	EditorConfigFile string
	Editor           *editorconfig.EditorConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		PersistenceDriver: getEnv("PERSISTENCE_DRIVER", DriverMemory),
		SQLitePath:        getEnv("SQLITE_PATH", "appbuilder.db"),
		PostgresDSN:       getEnv("POSTGRES_DSN", ""),
		PostgresMaxConns:  getEnvInt("POSTGRES_MAX_CONNS", 4),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "appbuilder")),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),
		EventSource:   getEnv("EVENT_SOURCE", "appbuilder.documents"),

		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsBackend:   getEnv("METRICS_BACKEND", MetricsNone),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "AppBuilder"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 600),

		EditorConfigFile: getEnv("EDITOR_CONFIG_FILE", ""),
	}

	editor, err := LoadEditorConfig(cfg.Environment, cfg.EditorConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Editor = editor

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEditorConfig starts from the environment profile and overlays the YAML
// file at path when one is given. Keys absent from the file keep the profile
// value.
func LoadEditorConfig(environment, path string) (*editorconfig.EditorConfig, error) {
	editor := editorconfig.LoadEditorConfig(environment)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read editor config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, editor); err != nil {
			return nil, fmt.Errorf("failed to parse editor config %s: %w", path, err)
		}
	}
	if err := editor.Validate(); err != nil {
		return nil, fmt.Errorf("invalid editor config: %w", err)
	}
	return editor, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.PersistenceDriver {
	case DriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("PERSISTENCE_DRIVER=memory is not allowed in production")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown PERSISTENCE_DRIVER %q", c.PersistenceDriver)
	}

	switch c.MetricsBackend {
	case MetricsNone, MetricsPrometheus, MetricsCloudWatch:
	default:
		return fmt.Errorf("unknown METRICS_BACKEND %q", c.MetricsBackend)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
