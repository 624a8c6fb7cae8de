// Package handlers answers editor queries.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/application/queries"
	"appbuilder/application/queries/bus"
	"appbuilder/application/services"
	"appbuilder/application/session"
	"appbuilder/domain/codegen"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/templates"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// PreviewCacheTTL is how long a rendered preview stays cached, in seconds.
// Keys are content digests so entries never go stale, only cold.
const PreviewCacheTTL = 600

// DocumentQueryHandlers answers document, project, preview and catalog queries
type DocumentQueryHandlers struct {
	registry  *services.SessionRegistry
	projects  ports.ProjectRepository
	cache     ports.Cache
	generator *codegen.Generator
	logger    *zap.Logger
}

// NewDocumentQueryHandlers creates the handler set. cache may be nil.
func NewDocumentQueryHandlers(
	registry *services.SessionRegistry,
	projects ports.ProjectRepository,
	cache ports.Cache,
	logger *zap.Logger,
) *DocumentQueryHandlers {
	return &DocumentQueryHandlers{
		registry:  registry,
		projects:  projects,
		cache:     cache,
		generator: codegen.NewGenerator(),
		logger:    logger,
	}
}

func handle[Q bus.Query](fn func(context.Context, Q) (interface{}, error)) bus.QueryHandler {
	return bus.QueryHandlerFunc(func(ctx context.Context, query bus.Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return fn(ctx, typed)
	})
}

// Register registers every query handler on the bus, wrapped in the given
// middlewares
func (h *DocumentQueryHandlers) Register(b *bus.QueryBus, wrap ...func(bus.QueryHandler) bus.QueryHandler) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetDocumentQuery{}, handle(h.getDocument)},
		{queries.GetProjectQuery{}, handle(h.getProject)},
		{queries.PreviewComponentQuery{}, handle(h.preview)},
		{queries.CatalogQuery{}, handle(h.catalog)},
	}
	for _, r := range registrations {
		handler := r.handler
		for i := len(wrap) - 1; i >= 0; i-- {
			handler = wrap[i](handler)
		}
		if err := b.Register(r.query, handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *DocumentQueryHandlers) getDocument(ctx context.Context, q queries.GetDocumentQuery) (interface{}, error) {
	var view queries.DocumentView
	err := h.registry.View(ctx, q.ProjectID, func(c *session.Controller) error {
		doc := c.Document()
		view = queries.DocumentView{
			ProjectID: doc.ProjectID(),
			Version:   doc.Version(),
			Mode:      string(c.Mode()),
			Language:  c.Language(),
			Nodes:     doc.Nodes(),
			Edges:     doc.Edges(),
			Selection: doc.Selection(),
		}
		elements := doc.Elements()
		view.Elements = make([]queries.ElementView, len(elements))
		for i, el := range elements {
			view.Elements[i] = queries.NewElementView(el)
		}
		files := doc.Files()
		view.Files = make([]queries.FileView, len(files))
		for i, f := range files {
			view.Files[i] = queries.NewFileView(f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (h *DocumentQueryHandlers) getProject(ctx context.Context, q queries.GetProjectQuery) (interface{}, error) {
	if h.projects == nil {
		return nil, pkgerrors.NewUnavailableError("project store")
	}
	project, err := h.projects.Get(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (h *DocumentQueryHandlers) preview(ctx context.Context, q queries.PreviewComponentQuery) (interface{}, error) {
	var (
		el   entities.DesignElement
		lang valueobjects.Language
	)
	err := h.registry.View(ctx, q.ProjectID, func(c *session.Controller) error {
		var ok bool
		el, ok = c.Document().Element(q.ElementID)
		if !ok {
			return pkgerrors.NewNotFoundError("element")
		}
		lang = valueobjects.Language(q.Language)
		if lang == "" {
			lang = c.Language()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	key, keyErr := previewKey(el, lang)
	if h.cache != nil && keyErr == nil {
		if cached, ok := h.cache.Get(ctx, key); ok {
			if res, ok := cached.(codegen.Result); ok {
				return res, nil
			}
		}
	}

	res := h.generator.GenerateComponent(el, lang)
	if h.cache != nil && keyErr == nil {
		if err := h.cache.Set(ctx, key, res, PreviewCacheTTL); err != nil {
			h.logger.Debug("failed to cache preview", zap.Error(err))
		}
	}
	return res, nil
}

// previewKey is a digest of everything a preview depends on
func previewKey(el entities.DesignElement, lang valueobjects.Language) (string, error) {
	raw, err := json.Marshal(el)
	if err != nil {
		return "", err
	}
	return "preview:" + utils.ShortDigest(32, string(lang), string(raw)), nil
}

// ElementTypeInfo is one row of the element catalog
type ElementTypeInfo struct {
	Type  entities.ElementType   `json:"type"`
	Label string                 `json:"label"`
	Size  valueobjects.Size      `json:"size"`
	Props map[string]interface{} `json:"props"`
}

func (h *DocumentQueryHandlers) catalog(ctx context.Context, q queries.CatalogQuery) (interface{}, error) {
	switch q.Kind {
	case queries.CatalogLanguages:
		return valueobjects.Languages(), nil
	case queries.CatalogPalette:
		return templates.Palette(), nil
	case queries.CatalogTemplates:
		return templates.Names(), nil
	case queries.CatalogElements:
		out := make([]ElementTypeInfo, 0, len(entities.ElementTypes))
		for _, t := range entities.ElementTypes {
			out = append(out, ElementTypeInfo{
				Type:  t,
				Label: t.DisplayName(),
				Size:  entities.DefaultSize(t),
				Props: entities.DefaultProps(t),
			})
		}
		return out, nil
	}
	return nil, pkgerrors.NewValidationError("unknown catalog: " + q.Kind)
}
