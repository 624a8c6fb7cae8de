package ports

import (
	"context"
	"time"

	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/events"
)

// DocumentRepository persists whole document snapshots
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type DocumentRepository interface {
	// Load returns the latest snapshot of a project, or a not found error
	Load(ctx context.Context, projectID string) (*aggregates.Snapshot, error)

	// Save replaces the stored snapshot. It fails with a conflict when the
	// stored version is not older than snapshot.Version.
	Save(ctx context.Context, projectID string, snapshot aggregates.Snapshot) error
}

// ProjectRepository persists project descriptors
type ProjectRepository interface {
	// Get retrieves a descriptor by project id
	Get(ctx context.Context, projectID string) (*entities.ProjectDescriptor, error)

	// Save persists a descriptor (create or update)
	Save(ctx context.Context, project entities.ProjectDescriptor) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

// Metrics records service-level measurements
type Metrics interface {
	// IncrementCounter adds one to a named counter
	IncrementCounter(name string, tags map[string]string)

	// RecordDuration records how long an operation took
	RecordDuration(name string, d time.Duration, tags map[string]string)

	// RecordValue records a gauge-style value
	RecordValue(name string, value float64, tags map[string]string)
}
