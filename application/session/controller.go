// Package session drives one open editor over a document: it maps user
// gestures to document mutations and keeps the derived logic nodes in step
// with the design.
package session

import (
	"fmt"
	"path"
	"strconv"

	"go.uber.org/zap"

	"appbuilder/domain/codegen"
	"appbuilder/domain/config"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/reconcile"
	"appbuilder/domain/templates"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// Mode is the editor view currently active
type Mode string

const (
	ModeDesign Mode = "design"
	ModeLogic  Mode = "logic"
	ModeCode   Mode = "code"
)

// IsValid reports whether m is one of the three editor modes
func (m Mode) IsValid() bool {
	switch m {
	case ModeDesign, ModeLogic, ModeCode:
		return true
	}
	return false
}

// Controller owns one document and the editor state around it.
// It is not safe for concurrent use; callers serialize access.
type Controller struct {
	doc        *aggregates.Document
	mode       Mode
	language   valueobjects.Language
	generator  *codegen.Generator
	reconciler reconcile.Reconciler
	config     *config.EditorConfig
	logger     *zap.Logger
	clock      utils.Clock
}

// NewController creates a controller in design mode
func NewController(doc *aggregates.Document, language valueobjects.Language, cfg *config.EditorConfig, logger *zap.Logger) *Controller {
	if cfg == nil {
		cfg = config.DefaultEditorConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if language == "" {
		language = cfg.DefaultLanguage
	}
	return &Controller{
		doc:        doc,
		mode:       ModeDesign,
		language:   language,
		generator:  codegen.NewGenerator(),
		reconciler: reconcile.New(cfg.DerivedNodeOffsetX),
		config:     cfg,
		logger:     logger.With(zap.String("project_id", doc.ProjectID())),
		clock:      utils.SystemClock,
	}
}

// SetClock overrides the clock used for file headers
func (c *Controller) SetClock(clock utils.Clock) {
	if clock != nil {
		c.clock = clock
		c.doc.SetClock(clock)
	}
}

func (c *Controller) Document() *aggregates.Document  { return c.doc }
func (c *Controller) Mode() Mode                      { return c.mode }
func (c *Controller) Language() valueobjects.Language { return c.language }

// SetLanguage changes the generation target for later generations
func (c *Controller) SetLanguage(lang valueobjects.Language) error {
	if !lang.IsValid() {
		return pkgerrors.NewValidationError("unsupported language: " + string(lang))
	}
	c.language = lang
	return nil
}

// SwitchMode activates a view. Entering code mode with no files seeds them
// from the design once.
func (c *Controller) SwitchMode(mode Mode) error {
	if !mode.IsValid() {
		return pkgerrors.ErrUnknownMode
	}
	if mode == ModeCode && len(c.doc.Files()) == 0 {
		if _, err := c.Regenerate(); err != nil {
			return err
		}
	}
	c.mode = mode
	return nil
}

// RegenerateResult describes a regeneration
type RegenerateResult struct {
	Files   []entities.CodeFile `json:"files"`
	Notices []codegen.Notice    `json:"notices,omitempty"`
	// Overwritten lists the paths of replaced files that held user edits
	Overwritten []string `json:"overwritten,omitempty"`
}

// Regenerate replaces every code file with freshly generated ones and opens
// the first
func (c *Controller) Regenerate() (RegenerateResult, error) {
	project, err := c.generator.GenerateProject(c.doc.Elements(), c.language)
	if err != nil {
		return RegenerateResult{}, err
	}

	var overwritten []string
	for _, f := range c.doc.Files() {
		if f.IsUserEdited() {
			overwritten = append(overwritten, f.Path)
		}
	}

	err = c.doc.Batch(func() error {
		if err := c.doc.ReplaceFiles(project.Files); err != nil {
			return err
		}
		if len(project.Files) > 0 {
			return c.doc.SelectFile(project.Files[0].ID)
		}
		return nil
	})
	if err != nil {
		return RegenerateResult{}, c.fail("regenerate", err)
	}

	for _, n := range project.Notices {
		c.logger.Info("generation fell back to a stub",
			zap.String("element_id", n.ElementID),
			zap.String("element_type", string(n.ElementType)),
			zap.String("language", string(n.Language)))
	}
	if len(overwritten) > 0 {
		c.logger.Warn("regeneration replaced user-edited files", zap.Strings("paths", overwritten))
	}
	return RegenerateResult{Files: project.Files, Notices: project.Notices, Overwritten: overwritten}, nil
}

// Preview renders a single element without touching the document
func (c *Controller) Preview(elementID string, lang valueobjects.Language) (codegen.Result, error) {
	el, ok := c.doc.Element(elementID)
	if !ok {
		return codegen.Result{}, pkgerrors.NewNotFoundError("element")
	}
	if lang == "" {
		lang = c.language
	}
	return c.generator.GenerateComponent(el, lang), nil
}

// Load replaces the whole document with a snapshot and reconciles it
func (c *Controller) Load(snapshot aggregates.Snapshot) error {
	return c.withDesign("load", func() error {
		return c.doc.Restore(snapshot)
	})
}

// withDesign runs an element mutation and the resulting reconciliation as
// one batch, so observers never see an unreconciled document
func (c *Controller) withDesign(op string, fn func() error) error {
	err := c.doc.Batch(func() error {
		if err := fn(); err != nil {
			return err
		}
		plan := c.reconciler.Reconcile(c.doc.Elements(), c.doc.Nodes())
		return c.doc.ApplyReconciliation(plan)
	})
	if err != nil {
		return c.fail(op, err)
	}
	return nil
}

// fail logs invariant violations, which indicate a bug rather than bad input
func (c *Controller) fail(op string, err error) error {
	if pkgerrors.IsInvariantViolation(err) {
		c.logger.Error("document invariant violated; mutation rolled back",
			zap.String("operation", op), zap.Error(err))
	}
	return err
}

// Design mode

// ElementDrop describes a palette drop. Empty fields take the defaults.
type ElementDrop struct {
	ID       string
	Type     entities.ElementType
	Name     string
	Position *valueobjects.Position
}

// AddElement drops a new element on the canvas
func (c *Controller) AddElement(drop ElementDrop) (entities.DesignElement, error) {
	if err := c.checkElementLimit(); err != nil {
		return entities.DesignElement{}, err
	}
	id := drop.ID
	if id == "" {
		id = valueobjects.NewElementID()
	}
	pos := c.config.DefaultDropPosition
	if drop.Position != nil {
		pos = *drop.Position
	}
	el, err := entities.NewDesignElement(id, drop.Type, drop.Name, pos)
	if err != nil {
		return entities.DesignElement{}, err
	}
	if err := c.withDesign("add_element", func() error { return c.doc.AddElement(el) }); err != nil {
		return entities.DesignElement{}, err
	}
	return el, nil
}

// UpdateElement applies a partial update to an element
func (c *Controller) UpdateElement(id string, patch entities.ElementPatch) error {
	return c.withDesign("update_element", func() error { return c.doc.UpdateElement(id, patch) })
}

// MoveElement is the geometry gesture for dragging
func (c *Controller) MoveElement(id string, x, y float64) error {
	return c.withDesign("move_element", func() error { return c.doc.MoveElement(id, x, y) })
}

// ResizeElement is the geometry gesture for resize handles
func (c *Controller) ResizeElement(id string, width, height float64) error {
	return c.withDesign("resize_element", func() error { return c.doc.ResizeElement(id, width, height) })
}

// DuplicateElement copies an element next to the original and selects the copy
func (c *Controller) DuplicateElement(id, newID string) (entities.DesignElement, error) {
	if err := c.checkElementLimit(); err != nil {
		return entities.DesignElement{}, err
	}
	if newID == "" {
		newID = valueobjects.NewElementID()
	}
	var dup entities.DesignElement
	err := c.withDesign("duplicate_element", func() error {
		var err error
		dup, err = c.doc.DuplicateElement(id, newID, c.config.DuplicateOffset)
		if err != nil {
			return err
		}
		return c.doc.SelectElement(dup.ID)
	})
	if err != nil {
		return entities.DesignElement{}, err
	}
	return dup, nil
}

func (c *Controller) checkElementLimit() error {
	if len(c.doc.Elements()) >= c.config.MaxElements {
		return pkgerrors.NewValidationError(fmt.Sprintf("element limit of %d reached", c.config.MaxElements))
	}
	return nil
}

// RemoveElement deletes an element and everything derived from it.
// Removing an element that is already gone is a no-op.
func (c *Controller) RemoveElement(id string) error {
	if _, ok := c.doc.Element(id); !ok {
		c.logger.Warn("element already removed", zap.String("element_id", id))
		return nil
	}
	return c.withDesign("remove_element", func() error { return c.doc.RemoveElement(id) })
}

func (c *Controller) SelectElement(id string) error {
	return c.doc.SelectElement(id)
}

// Logic mode

// NodeDrop describes a logic palette drop
type NodeDrop struct {
	ID       string
	Kind     string
	Position valueobjects.Position
	Data     map[string]interface{}
}

// AddNode creates a user node from the palette and selects it
func (c *Controller) AddNode(drop NodeDrop) (entities.LogicNode, error) {
	nodes := c.doc.Nodes()
	if len(nodes) >= c.config.MaxNodes {
		return entities.LogicNode{}, pkgerrors.NewValidationError(fmt.Sprintf("node limit of %d reached", c.config.MaxNodes))
	}
	if drop.Kind == "" {
		return entities.LogicNode{}, pkgerrors.NewValidationError("node kind is required")
	}
	entry := templates.Lookup(drop.Kind)

	id := drop.ID
	if id == "" {
		id = valueobjects.NewNodeID()
	}
	data := entry.DefaultData
	data["label"] = entry.Label + " " + strconv.Itoa(len(nodes)+1)
	for k, v := range drop.Data {
		data[k] = v
	}

	n, err := entities.NewLogicNode(id, entry.Type, drop.Position, data)
	if err != nil {
		return entities.LogicNode{}, err
	}
	err = c.doc.Batch(func() error {
		if err := c.doc.AddNode(n); err != nil {
			return err
		}
		return c.doc.SelectNode(n.ID)
	})
	if err != nil {
		return entities.LogicNode{}, c.fail("add_node", err)
	}
	return n, nil
}

func (c *Controller) UpdateNode(id string, patch entities.NodePatch) error {
	return c.fail("update_node", c.doc.UpdateNode(id, patch))
}

// MoveNode is the geometry gesture for dragging a node
func (c *Controller) MoveNode(id string, x, y float64) error {
	pos, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return err
	}
	return c.UpdateNode(id, entities.NodePatch{Position: &pos})
}

// RemoveNode deletes a node and its edges. Removing a missing node is a no-op.
func (c *Controller) RemoveNode(id string) error {
	if _, ok := c.doc.Node(id); !ok {
		c.logger.Warn("node already removed", zap.String("node_id", id))
		return nil
	}
	return c.fail("remove_node", c.doc.RemoveNode(id))
}

// Connection describes a new edge
type Connection struct {
	ID           string
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
	Data         map[string]interface{}
}

// Connect adds an edge between two existing nodes
func (c *Controller) Connect(conn Connection) (entities.LogicEdge, error) {
	if len(c.doc.Edges()) >= c.config.MaxEdges {
		return entities.LogicEdge{}, pkgerrors.NewValidationError(fmt.Sprintf("edge limit of %d reached", c.config.MaxEdges))
	}
	id := conn.ID
	if id == "" {
		id = valueobjects.NewEdgeID()
	}
	e, err := entities.NewLogicEdge(id, conn.Source, conn.Target)
	if err != nil {
		return entities.LogicEdge{}, err
	}
	e = e.WithHandles(conn.SourceHandle, conn.TargetHandle)
	e.Data = conn.Data
	if err := c.doc.AddEdge(e); err != nil {
		return entities.LogicEdge{}, c.fail("connect", err)
	}
	return e, nil
}

// Disconnect removes an edge. Removing a missing edge is a no-op.
func (c *Controller) Disconnect(id string) error {
	if _, ok := c.doc.Edge(id); !ok {
		c.logger.Warn("edge already removed", zap.String("edge_id", id))
		return nil
	}
	return c.fail("disconnect", c.doc.RemoveEdge(id))
}

func (c *Controller) SelectNode(id string) error {
	return c.doc.SelectNode(id)
}

func (c *Controller) SelectEdge(id string) error {
	return c.doc.SelectEdge(id)
}

// ApplyTemplate replaces the user-built logic graph with a prebuilt flow.
// Nodes derived from design elements stay in place.
func (c *Controller) ApplyTemplate(name string) (templates.Instance, error) {
	inst, err := templates.Instantiate(name, valueobjects.NewNodeID, valueobjects.NewEdgeID)
	if err != nil {
		return templates.Instance{}, err
	}
	err = c.doc.Batch(func() error {
		for _, e := range c.doc.Edges() {
			if err := c.doc.RemoveEdge(e.ID); err != nil {
				return err
			}
		}
		for _, n := range c.doc.Nodes() {
			if n.IsDerived() {
				continue
			}
			if err := c.doc.RemoveNode(n.ID); err != nil {
				return err
			}
		}
		for _, n := range inst.Nodes {
			if err := c.doc.AddNode(n); err != nil {
				return err
			}
		}
		for _, e := range inst.Edges {
			if err := c.doc.AddEdge(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return templates.Instance{}, c.fail("apply_template", err)
	}
	return inst, nil
}

// Code mode

// AddFile creates a user file with a header comment and opens it
func (c *Controller) AddFile(name, dir string) (entities.CodeFile, error) {
	if len(c.doc.Files()) >= c.config.MaxFiles {
		return entities.CodeFile{}, pkgerrors.NewValidationError(fmt.Sprintf("file limit of %d reached", c.config.MaxFiles))
	}
	if name == "" || path.Base(name) != name {
		return entities.CodeFile{}, pkgerrors.NewValidationError("file name must be a single path element")
	}
	if dir == "" {
		dir = "/"
	}
	f, err := entities.NewUserFile(valueobjects.NewFileID(), path.Join(dir, name), fileHeader(name, utils.FormatDate(c.clock())))
	if err != nil {
		return entities.CodeFile{}, err
	}
	err = c.doc.Batch(func() error {
		if err := c.doc.AddFile(f); err != nil {
			return err
		}
		return c.doc.SelectFile(f.ID)
	})
	if err != nil {
		return entities.CodeFile{}, c.fail("add_file", err)
	}
	return f, nil
}

// fileHeader is the comment a new user file starts with, in the comment
// syntax of its extension
func fileHeader(name, date string) string {
	switch valueobjects.HighlightForPath(name) {
	case "python", "yaml":
		return fmt.Sprintf("# %s\n# Created on %s\n", name, date)
	case "css", "scss", "less":
		return fmt.Sprintf("/* %s */\n/* Created on %s */\n", name, date)
	case "html", "xml", "markdown":
		return fmt.Sprintf("<!-- %s -->\n<!-- Created on %s -->\n", name, date)
	case "json":
		return ""
	default:
		return fmt.Sprintf("// %s\n// Created on %s\n", name, date)
	}
}

func (c *Controller) UpdateFile(id, content string) error {
	return c.fail("update_file", c.doc.UpdateFileContent(id, content))
}

// RemoveFile deletes a file. Removing a missing file is a no-op.
func (c *Controller) RemoveFile(id string) error {
	if _, ok := c.doc.File(id); !ok {
		c.logger.Warn("file already removed", zap.String("file_id", id))
		return nil
	}
	return c.fail("remove_file", c.doc.RemoveFile(id))
}

// OpenFile makes a file the current one
func (c *Controller) OpenFile(id string) error {
	return c.doc.SelectFile(id)
}
