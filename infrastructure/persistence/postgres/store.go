// Package postgres stores documents and projects in PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
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

// Store implements the document and project repositories on PostgreSQL
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	clock  utils.Clock
}

var (
	_ ports.DocumentRepository = (*Store)(nil)
	_ ports.ProjectRepository  = (*projectStore)(nil)
)

// Open connects to dsn, checks the connection and migrates the schema
func Open(ctx context.Context, dsn string, maxConns int, logger *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &Store{pool: pool, logger: logger, clock: utils.SystemClock}
	evolution, err := schema.NewSchemaEvolution(schema.DocumentStoreMigrations...)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := evolution.Migrate(ctx, executor{pool}); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("PostgreSQL document store ready", zap.Int32("max_conns", poolCfg.MaxConns))
	return s, nil
}

// Close closes the database connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Load returns the latest snapshot of a project
func (s *Store) Load(ctx context.Context, projectID string) (*aggregates.Snapshot, error) {
	var body string
	err := s.pool.QueryRow(ctx, `SELECT body FROM documents WHERE project_id = $1`, projectID).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	tag, err := s.pool.Exec(ctx, `
        INSERT INTO documents (project_id, version, body, digest, updated_at)
        VALUES ($1, $2, $3, $4, $5)
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
	if tag.RowsAffected() == 0 {
		var stored int
		_ = s.pool.QueryRow(ctx, `SELECT version FROM documents WHERE project_id = $1`, projectID).Scan(&stored)
		return abstractions.StaleWrite(projectID, stored, snapshot.Version)
	}
	return nil
}

// Projects returns the project repository backed by the same pool
func (s *Store) Projects() ports.ProjectRepository {
	return &projectStore{pool: s.pool}
}

type projectStore struct {
	pool *pgxpool.Pool
}

func (p *projectStore) Get(ctx context.Context, projectID string) (*entities.ProjectDescriptor, error) {
	var (
		d                    entities.ProjectDescriptor
		platform, language   string
		createdAt, updatedAt string
	)
	err := p.pool.QueryRow(ctx, `
        SELECT id, name, description, platform, language, created_at, updated_at
        FROM projects
        WHERE id = $1`, projectID).
		Scan(&d.ID, &d.Name, &d.Description, &platform, &language, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	_, err := p.pool.Exec(ctx, `
        INSERT INTO projects (id, name, description, platform, language, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            platform = excluded.platform,
            language = excluded.language,
            updated_at = excluded.updated_at`,
		project.ID, project.Name, project.Description, string(project.Platform), string(project.Language),
		project.CreatedAt.UTC().Format(time.RFC3339), project.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return pkgerrors.NewDuplicateIDError("project", project.ID)
		}
		return pkgerrors.NewDatabaseError("save project", err)
	}
	return nil
}

// executor adapts the pool to the migration runner
type executor struct {
	pool *pgxpool.Pool
}

func (e executor) Exec(ctx context.Context, statement string, args ...interface{}) error {
	_, err := e.pool.Exec(ctx, statement, args...)
	return err
}

func (e executor) AppliedVersions(ctx context.Context) ([]int, error) {
	rows, err := e.pool.Query(ctx, `SELECT version FROM `+schema.HistoryTable+` ORDER BY version`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, err
	}
	return versions, nil
}
