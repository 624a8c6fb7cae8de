// Package sqlite stores documents and projects in a local SQLite file, for
// single-device use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/infrastructure/persistence/abstractions"
	"appbuilder/infrastructure/persistence/schema"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// Store implements the document and project repositories on SQLite
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	clock  utils.Clock
}

var (
	_ ports.DocumentRepository = (*Store)(nil)
	_ ports.ProjectRepository  = (*projectStore)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; an in-memory database also lives on one connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger, clock: utils.SystemClock}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("SQLite document store ready", zap.String("path", path))
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	evolution, err := schema.NewSchemaEvolution(schema.DocumentStoreMigrations...)
	if err != nil {
		return err
	}
	return evolution.Migrate(ctx, executor{s.db})
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the latest snapshot of a project
func (s *Store) Load(ctx context.Context, projectID string) (*aggregates.Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE project_id = ?`, projectID).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, abstractions.DocumentNotFound(projectID)
		}
		return nil, pkgerrors.NewDatabaseError("load document", err)
	}
	return abstractions.DecodeSnapshot([]byte(body))
}

// Save upserts the snapshot when it advances the stored version
func (s *Store) Save(ctx context.Context, projectID string, snapshot aggregates.Snapshot) error {
	body, err := abstractions.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO documents (project_id, version, body, digest, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (project_id) DO UPDATE SET
            version = excluded.version,
            body = excluded.body,
            digest = excluded.digest,
            updated_at = excluded.updated_at
        WHERE documents.version < excluded.version`,
		projectID, snapshot.Version, string(body), utils.Digest(body), s.clock().UTC().Format(time.RFC3339))
	if err != nil {
		return pkgerrors.NewDatabaseError("save document", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var stored int
		_ = s.db.QueryRowContext(ctx, `SELECT version FROM documents WHERE project_id = ?`, projectID).Scan(&stored)
		return abstractions.StaleWrite(projectID, stored, snapshot.Version)
	}
	return nil
}

// Projects returns the project repository backed by the same database
func (s *Store) Projects() ports.ProjectRepository {
	return &projectStore{db: s.db}
}

type projectStore struct {
	db *sql.DB
}

func (p *projectStore) Get(ctx context.Context, projectID string) (*entities.ProjectDescriptor, error) {
	var (
		d                    entities.ProjectDescriptor
		platform, language   string
		createdAt, updatedAt string
	)
	err := p.db.QueryRowContext(ctx, `
        SELECT id, name, description, platform, language, created_at, updated_at
        FROM projects
        WHERE id = ?`, projectID).
		Scan(&d.ID, &d.Name, &d.Description, &platform, &language, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, abstractions.ProjectNotFound(projectID)
		}
		return nil, pkgerrors.NewDatabaseError("get project", err)
	}
	d.Platform = valueobjects.Platform(platform)
	d.Language = valueobjects.Language(language)
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at on project %s: %w", projectID, err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at on project %s: %w", projectID, err)
	}
	return &d, nil
}

func (p *projectStore) Save(ctx context.Context, project entities.ProjectDescriptor) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, description, platform, language, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            platform = excluded.platform,
            language = excluded.language,
            updated_at = excluded.updated_at`,
		project.ID, project.Name, project.Description, string(project.Platform), string(project.Language),
		project.CreatedAt.UTC().Format(time.RFC3339), project.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return pkgerrors.NewDatabaseError("save project", err)
	}
	return nil
}

// executor adapts *sql.DB to the migration runner
type executor struct {
	db *sql.DB
}

func (e executor) Exec(ctx context.Context, statement string, args ...interface{}) error {
	_, err := e.db.ExecContext(ctx, statement, args...)
	return err
}

func (e executor) AppliedVersions(ctx context.Context) ([]int, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT version FROM `+schema.HistoryTable+` ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
