// Package memory keeps documents and projects in process memory. It backs
// tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"appbuilder/application/ports"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/infrastructure/persistence/abstractions"
)

type storedDocument struct {
	version int
	body    []byte
}

// DocumentRepository implements ports.DocumentRepository in memory.
// Snapshots are stored encoded, so callers never share state with the store.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]storedDocument
	saves     int
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{documents: make(map[string]storedDocument)}
}

// Load returns the latest snapshot of a project
func (r *DocumentRepository) Load(ctx context.Context, projectID string) (*aggregates.Snapshot, error) {
	r.mu.RLock()
	doc, ok := r.documents[projectID]
	r.mu.RUnlock()
	if !ok {
		return nil, abstractions.DocumentNotFound(projectID)
	}
	return abstractions.DecodeSnapshot(doc.body)
}

// Save replaces the stored snapshot if it advances the version
func (r *DocumentRepository) Save(ctx context.Context, projectID string, snapshot aggregates.Snapshot) error {
	body, err := abstractions.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current, found := r.documents[projectID]
	if err := abstractions.CheckAdvance(projectID, current.version, found, snapshot.Version); err != nil {
		return err
	}
	r.documents[projectID] = storedDocument{version: snapshot.Version, body: body}
	r.saves++
	return nil
}

// Saves counts successful writes
func (r *DocumentRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// ProjectRepository implements ports.ProjectRepository in memory
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]entities.ProjectDescriptor
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[string]entities.ProjectDescriptor)}
}

// Get retrieves a descriptor by project id
func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*entities.ProjectDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[projectID]
	if !ok {
		return nil, abstractions.ProjectNotFound(projectID)
	}
	return &p, nil
}

// Save persists a descriptor (create or update)
func (r *ProjectRepository) Save(ctx context.Context, project entities.ProjectDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project
	return nil
}

// IDs lists stored project ids in sorted order
func (r *ProjectRepository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.projects))
	for id := range r.projects {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
