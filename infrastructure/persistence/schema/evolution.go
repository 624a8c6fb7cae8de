// Package schema applies ordered, versioned DDL migrations to the SQL stores.
package schema

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Migration is one forward step of the schema
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

// SchemaVersion is a row of the migration history
type SchemaVersion struct {
	Version     int       `json:"version"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

// Executor is the slice of a database driver the runner needs
type Executor interface {
	// Exec runs a statement that returns no rows
	Exec(ctx context.Context, statement string, args ...interface{}) error
	// AppliedVersions lists the versions recorded in the history table
	AppliedVersions(ctx context.Context) ([]int, error)
}

// HistoryTable records applied migrations
const HistoryTable = "schema_migrations"

// SchemaEvolution manages database schema evolution
type SchemaEvolution struct {
	migrations []Migration
	history    []SchemaVersion
	clock      func() time.Time
}

// NewSchemaEvolution creates a new schema evolution manager
func NewSchemaEvolution(migrations ...Migration) (*SchemaEvolution, error) {
	s := &SchemaEvolution{clock: time.Now}
	for _, m := range migrations {
		if err := s.RegisterMigration(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RegisterMigration registers a new migration
func (s *SchemaEvolution) RegisterMigration(migration Migration) error {
	if migration.Version <= 0 {
		return fmt.Errorf("invalid migration: version must be positive, got %d", migration.Version)
	}
	if len(migration.Statements) == 0 {
		return fmt.Errorf("invalid migration %d: no statements", migration.Version)
	}
	for _, existing := range s.migrations {
		if existing.Version == migration.Version {
			return fmt.Errorf("migration %d already exists", migration.Version)
		}
	}

	s.migrations = append(s.migrations, migration)
	sort.Slice(s.migrations, func(i, j int) bool { return s.migrations[i].Version < s.migrations[j].Version })
	return nil
}

// Migrate applies every registered migration the database has not seen, in
// version order. The history table itself is created first.
func (s *SchemaEvolution) Migrate(ctx context.Context, db Executor) error {
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`, HistoryTable)
	if err := db.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", HistoryTable, err)
	}

	applied, err := db.AppliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", HistoryTable, err)
	}

	for _, m := range s.Pending(applied) {
		for _, stmt := range m.Statements {
			if err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
			}
		}
		now := s.clock().UTC()
		record := fmt.Sprintf("INSERT INTO %s (version, description, applied_at) VALUES (%d, '%s', '%s')",
			HistoryTable, m.Version, escape(m.Description), now.Format(time.RFC3339))
		if err := db.Exec(ctx, record); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		s.history = append(s.history, SchemaVersion{Version: m.Version, Description: m.Description, AppliedAt: now})
	}
	return nil
}

// Pending lists the migrations missing from applied, in version order
func (s *SchemaEvolution) Pending(applied []int) []Migration {
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var out []Migration
	for _, m := range s.migrations {
		if !done[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// GetCurrentVersion returns the highest registered version
func (s *SchemaEvolution) GetCurrentVersion() int {
	if len(s.migrations) == 0 {
		return 0
	}
	return s.migrations[len(s.migrations)-1].Version
}

// GetHistory returns the migrations applied by this instance
func (s *SchemaEvolution) GetHistory() []SchemaVersion {
	return s.history
}

func escape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(out)
}

// DocumentStoreMigrations is the schema shared by the SQL document stores.
// Both dialects accept it as written.
var DocumentStoreMigrations = []Migration{
	{
		Version:     1,
		Description: "documents and projects",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS documents (
	project_id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	body TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	platform TEXT NOT NULL,
	language TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`,
		},
	},
	{
		Version:     2,
		Description: "content digest on documents",
		Statements: []string{
			`ALTER TABLE documents ADD COLUMN digest TEXT NOT NULL DEFAULT ''`,
		},
	},
}
