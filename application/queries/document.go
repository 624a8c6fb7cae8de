// Package queries holds the read-side queries of the editor.
package queries

import (
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// GetDocumentQuery reads the full editor state of a project
type GetDocumentQuery struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// Validate validates the GetDocumentQuery
func (q GetDocumentQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ElementView is an element plus the derived flat geometry clients expect
type ElementView struct {
	entities.DesignElement
	valueobjects.FlatGeometry
}

// NewElementView builds the view of one element
func NewElementView(el entities.DesignElement) ElementView {
	return ElementView{DesignElement: el, FlatGeometry: el.FlatGeometry()}
}

// DocumentView is the result of GetDocumentQuery
type DocumentView struct {
	ProjectID string                `json:"projectId"`
	Version   int                   `json:"version"`
	Mode      string                `json:"mode"`
	Language  valueobjects.Language `json:"language"`
	Elements  []ElementView         `json:"elements"`
	Nodes     []entities.LogicNode  `json:"nodes"`
	Edges     []entities.LogicEdge  `json:"edges"`
	Files     []FileView            `json:"files"`
	Selection aggregates.Selection  `json:"selection"`
}

// FileView adds the derived editor fields to a code file
type FileView struct {
	entities.CodeFile
	Highlight  string `json:"highlight"`
	UserEdited bool   `json:"userEdited"`
}

// NewFileView builds the view of one file
func NewFileView(f entities.CodeFile) FileView {
	return FileView{
		CodeFile:   f,
		Highlight:  valueobjects.HighlightForPath(f.Path),
		UserEdited: f.IsUserEdited(),
	}
}

// GetProjectQuery reads a project descriptor
type GetProjectQuery struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// Validate validates the GetProjectQuery
func (q GetProjectQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// PreviewComponentQuery renders one element without touching the document
type PreviewComponentQuery struct {
	ProjectID string `json:"projectId" validate:"required"`
	ElementID string `json:"elementId" validate:"required"`
	Language  string `json:"language,omitempty" validate:"omitempty,oneof=typescript javascript swift python kotlin"`
}

// Validate validates the PreviewComponentQuery
func (q PreviewComponentQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// Catalog kinds
const (
	CatalogLanguages = "languages"
	CatalogPalette   = "palette"
	CatalogTemplates = "templates"
	CatalogElements  = "elements"
)

// CatalogQuery reads one of the static editor catalogs
type CatalogQuery struct {
	Kind string `json:"kind"`
}

// Validate validates the CatalogQuery
func (q CatalogQuery) Validate() error {
	switch q.Kind {
	case CatalogLanguages, CatalogPalette, CatalogTemplates, CatalogElements:
		return nil
	}
	return pkgerrors.NewValidationError("unknown catalog: " + q.Kind)
}

// CacheKey makes catalog results cacheable; they never change at runtime
func (q CatalogQuery) CacheKey() string {
	return q.Kind
}
