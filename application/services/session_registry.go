// Package services orchestrates open editor sessions and their persistence.
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/application/session"
	"appbuilder/domain/config"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/events"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/extensions"
)

// DocumentChange is the payload of the document_changed hook: the events of
// one command and the snapshot they produced
type DocumentChange struct {
	ProjectID string
	Version   int
	Events    []events.DomainEvent
	Snapshot  aggregates.Snapshot
}

// SessionEvent is the payload of the session_opened and session_closed hooks
type SessionEvent struct {
	ProjectID string
	Version   int
}

// SessionRegistry keeps one controller per open project and serializes
// access to it. Successful commands fire the document_changed hooks.
type SessionRegistry struct {
	documents ports.DocumentRepository
	projects  ports.ProjectRepository
	hooks     *extensions.HookManager
	config    *config.EditorConfig
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*openSession
}

type openSession struct {
	mu      sync.Mutex
	ctrl    *session.Controller
	pending []events.DomainEvent
	closed  bool
}

// NewSessionRegistry creates a registry. projects may be nil, in which case
// new sessions use the configured default language.
func NewSessionRegistry(
	documents ports.DocumentRepository,
	projects ports.ProjectRepository,
	hooks *extensions.HookManager,
	cfg *config.EditorConfig,
	logger *zap.Logger,
) *SessionRegistry {
	if hooks == nil {
		hooks = extensions.NewHookManager()
	}
	if cfg == nil {
		cfg = config.DefaultEditorConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRegistry{
		documents: documents,
		projects:  projects,
		hooks:     hooks,
		config:    cfg,
		logger:    logger,
		sessions:  make(map[string]*openSession),
	}
}

// Do runs fn against the project's controller while holding the project
// lock. Any committed changes are handed to the document_changed hooks
// before Do returns, even when fn fails after a partial success.
func (r *SessionRegistry) Do(ctx context.Context, projectID string, fn func(*session.Controller) error) error {
	s, err := r.lock(ctx, projectID)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	fnErr := fn(s.ctrl)
	if fnErr != nil {
		r.logger.Debug("session command failed",
			zap.String("project_id", projectID),
			zap.Error(fnErr))
		if failed := r.hooks.ExecuteAll(ctx, extensions.HookCommandFailed, fnErr); len(failed) > 0 {
			r.logger.Warn("command_failed hooks failed", zap.Any("errors", failed))
		}
	}

	if len(s.pending) > 0 {
		change := DocumentChange{
			ProjectID: projectID,
			Version:   s.ctrl.Document().Version(),
			Events:    s.pending,
			Snapshot:  s.ctrl.Document().Snapshot(),
		}
		s.pending = nil
		if err := r.hooks.Execute(ctx, extensions.HookDocumentChanged, change); err != nil {
			r.logger.Error("document_changed hooks failed",
				zap.String("project_id", projectID),
				zap.Int("version", change.Version),
				zap.Error(err))
			if fnErr == nil {
				return pkgerrors.Wrap(err, "persist document changes")
			}
		}
	}
	return fnErr
}

// View runs a read-only fn against the project's controller. No hooks fire.
func (r *SessionRegistry) View(ctx context.Context, projectID string, fn func(*session.Controller) error) error {
	s, err := r.lock(ctx, projectID)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	return fn(s.ctrl)
}

// lock returns the open session for a project with its mutex held, opening
// it first when needed
func (r *SessionRegistry) lock(ctx context.Context, projectID string) (*openSession, error) {
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("project id is required")
	}
	for {
		r.mu.Lock()
		s, ok := r.sessions[projectID]
		if !ok {
			s = &openSession{}
			s.mu.Lock()
			r.sessions[projectID] = s
			r.mu.Unlock()

			if err := r.open(ctx, projectID, s); err != nil {
				r.mu.Lock()
				delete(r.sessions, projectID)
				r.mu.Unlock()
				s.closed = true
				s.mu.Unlock()
				return nil, err
			}
			return s, nil
		}
		r.mu.Unlock()

		s.mu.Lock()
		if !s.closed {
			return s, nil
		}
		// Closed while we waited; start over with a fresh session.
		s.mu.Unlock()
	}
}

// open loads the stored snapshot, or starts an empty document for a project
// that has none, and reconciles it
func (r *SessionRegistry) open(ctx context.Context, projectID string, s *openSession) error {
	start := time.Now()

	snapshot := aggregates.EmptySnapshot(projectID)
	stored, err := r.documents.Load(ctx, projectID)
	switch {
	case err == nil && stored != nil:
		snapshot = *stored
		snapshot.ProjectID = projectID
	case err == nil || pkgerrors.IsNotFound(err):
		r.logger.Debug("no stored document, starting empty", zap.String("project_id", projectID))
	default:
		return pkgerrors.Wrap(err, "load document")
	}

	doc, err := aggregates.FromSnapshot(snapshot)
	if err != nil {
		return err
	}
	ctrl := session.NewController(doc, r.language(ctx, projectID), r.config, r.logger)
	if err := ctrl.Load(snapshot); err != nil {
		return err
	}
	doc.Subscribe(func(evs []events.DomainEvent) {
		s.pending = append(s.pending, evs...)
	})
	s.ctrl = ctrl

	r.logger.Info("session opened",
		zap.String("project_id", projectID),
		zap.Int("version", doc.Version()),
		zap.Int("elements", len(doc.Elements())),
		zap.Duration("duration", time.Since(start)))

	if failed := r.hooks.ExecuteAll(ctx, extensions.HookSessionOpened, SessionEvent{ProjectID: projectID, Version: doc.Version()}); len(failed) > 0 {
		r.logger.Warn("session_opened hooks failed", zap.Any("errors", failed))
	}
	return nil
}

func (r *SessionRegistry) language(ctx context.Context, projectID string) valueobjects.Language {
	if r.projects == nil {
		return r.config.DefaultLanguage
	}
	project, err := r.projects.Get(ctx, projectID)
	if err != nil || project == nil {
		return r.config.DefaultLanguage
	}
	return project.Language
}

// Close drops the in-memory session for a project. The stored document is
// left untouched. Closing a project that is not open is a no-op.
func (r *SessionRegistry) Close(ctx context.Context, projectID string) error {
	r.mu.Lock()
	s, ok := r.sessions[projectID]
	if ok {
		delete(r.sessions, projectID)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	if s.ctrl == nil {
		// The open that registered it failed.
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	version := s.ctrl.Document().Version()
	s.mu.Unlock()

	r.logger.Info("session closed", zap.String("project_id", projectID), zap.Int("version", version))
	if failed := r.hooks.ExecuteAll(ctx, extensions.HookSessionClosed, SessionEvent{ProjectID: projectID, Version: version}); len(failed) > 0 {
		r.logger.Warn("session_closed hooks failed", zap.Any("errors", failed))
	}
	return nil
}

// Projects lists the open project ids in sorted order
func (r *SessionRegistry) Projects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Hooks exposes the hook manager so adapters can register on it
func (r *SessionRegistry) Hooks() *extensions.HookManager {
	return r.hooks
}
