package aggregates

import (
	"time"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/events"
	"appbuilder/domain/reconcile"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// Selection kinds carried by SelectionChanged events
const (
	SelectionElement = "element"
	SelectionNode    = "node"
	SelectionEdge    = "edge"
	SelectionFile    = "file"
)

// Observer receives the events of one committed mutation
type Observer func([]events.DomainEvent)

type subscription struct {
	id int
	fn Observer
}

// Document is the aggregate root shared by the design, logic and code views.
// Every mutator is all-or-nothing: on error the document is left exactly as
// it was before the call. A Document is not safe for concurrent use.
type Document struct {
	projectID string
	state     state
	version   int
	clock     utils.Clock

	depth   int
	pending []events.DomainEvent

	observers []subscription
	nextSubID int
}

// NewDocument creates an empty document for a project
func NewDocument(projectID string) *Document {
	return &Document{
		projectID: projectID,
		state:     stateFromSnapshot(EmptySnapshot(projectID)),
		clock:     utils.SystemClock,
	}
}

// FromSnapshot rebuilds a document from persisted state without raising events
func FromSnapshot(s Snapshot) (*Document, error) {
	if err := validateSnapshot(s); err != nil {
		return nil, err
	}
	d := NewDocument(s.ProjectID)
	d.state = stateFromSnapshot(s)
	d.version = s.Version
	return d, nil
}

// SetClock overrides the event timestamp source
func (d *Document) SetClock(clock utils.Clock) {
	if clock != nil {
		d.clock = clock
	}
}

func (d *Document) ProjectID() string { return d.projectID }

// Version increments once per committed mutation
func (d *Document) Version() int { return d.version }

// Elements returns a copy of the design elements in order
func (d *Document) Elements() []entities.DesignElement {
	out := make([]entities.DesignElement, len(d.state.elements))
	for i, el := range d.state.elements {
		out[i] = el.Clone()
	}
	return out
}

// Nodes returns a copy of the logic nodes in order
func (d *Document) Nodes() []entities.LogicNode {
	out := make([]entities.LogicNode, len(d.state.nodes))
	for i, n := range d.state.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a copy of the logic edges in order
func (d *Document) Edges() []entities.LogicEdge {
	out := make([]entities.LogicEdge, len(d.state.edges))
	for i, e := range d.state.edges {
		out[i] = e.Clone()
	}
	return out
}

// Files returns a copy of the code files in order
func (d *Document) Files() []entities.CodeFile {
	return append([]entities.CodeFile{}, d.state.files...)
}

func (d *Document) Selection() Selection { return d.state.selection }

// Element looks up an element by id
func (d *Document) Element(id string) (entities.DesignElement, bool) {
	if i := d.elementIndex(id); i >= 0 {
		return d.state.elements[i].Clone(), true
	}
	return entities.DesignElement{}, false
}

// Node looks up a logic node by id
func (d *Document) Node(id string) (entities.LogicNode, bool) {
	if i := d.nodeIndex(id); i >= 0 {
		return d.state.nodes[i].Clone(), true
	}
	return entities.LogicNode{}, false
}

// Edge looks up a logic edge by id
func (d *Document) Edge(id string) (entities.LogicEdge, bool) {
	if i := d.edgeIndex(id); i >= 0 {
		return d.state.edges[i].Clone(), true
	}
	return entities.LogicEdge{}, false
}

// File looks up a code file by id
func (d *Document) File(id string) (entities.CodeFile, bool) {
	if i := d.fileIndex(id); i >= 0 {
		return d.state.files[i], true
	}
	return entities.CodeFile{}, false
}

// Subscribe registers an observer. Observers run synchronously, in
// registration order, after each committed top-level mutation.
func (d *Document) Subscribe(fn Observer) (unsubscribe func()) {
	d.nextSubID++
	id := d.nextSubID
	d.observers = append(d.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range d.observers {
			if sub.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Batch runs fn as a single all-or-nothing unit that notifies observers once
func (d *Document) Batch(fn func() error) error {
	return d.mutate(fn)
}

func (d *Document) mutate(fn func() error) error {
	saved := copyState(d.state)
	mark := len(d.pending)

	d.depth++
	err := fn()
	if err == nil {
		err = d.CheckInvariants()
	}
	d.depth--

	if err != nil {
		d.state = saved
		d.pending = d.pending[:mark]
		return err
	}
	if d.depth == 0 {
		d.commit()
	}
	return nil
}

func (d *Document) commit() {
	if len(d.pending) == 0 {
		return
	}
	d.version++
	batch := d.pending
	d.pending = nil
	for _, sub := range append([]subscription(nil), d.observers...) {
		sub.fn(batch)
	}
}

func (d *Document) now() time.Time { return d.clock() }

// nextVersion is the version the in-flight mutation commits as
func (d *Document) nextVersion() int { return d.version + 1 }

func (d *Document) emit(ev events.DomainEvent) {
	d.pending = append(d.pending, ev)
}

// Design elements

// AddElement appends an element
func (d *Document) AddElement(el entities.DesignElement) error {
	return d.mutate(func() error {
		return d.addElement(el)
	})
}

func (d *Document) addElement(el entities.DesignElement) error {
	if err := el.Validate(); err != nil {
		return err
	}
	if d.elementIndex(el.ID) >= 0 {
		return pkgerrors.NewDuplicateIDError("element", el.ID)
	}
	stored := el.Clone()
	d.state.elements = append(d.state.elements, stored)
	d.emit(events.NewElementChanged(d.projectID, events.TypeElementAdded, el.ID, d.nextVersion(), d.now()))
	return nil
}

// UpdateElement merges patch into the element. Fields the patch leaves nil
// are untouched.
func (d *Document) UpdateElement(id string, patch entities.ElementPatch) error {
	return d.mutate(func() error {
		i := d.elementIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("element")
		}
		updated, err := d.state.elements[i].Apply(patch)
		if err != nil {
			return err
		}
		d.state.elements[i] = updated
		d.emit(events.NewElementChanged(d.projectID, events.TypeElementUpdated, id, d.nextVersion(), d.now()))
		return nil
	})
}

// MoveElement sets the element's position
func (d *Document) MoveElement(id string, x, y float64) error {
	pos, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return err
	}
	return d.UpdateElement(id, entities.ElementPatch{Position: &pos})
}

// ResizeElement sets the element's size. Negative extents are rejected.
func (d *Document) ResizeElement(id string, width, height float64) error {
	size, err := valueobjects.NewSize(width, height)
	if err != nil {
		return err
	}
	return d.UpdateElement(id, entities.ElementPatch{Size: &size})
}

// DuplicateElement copies an element under newID, shifted by offset
func (d *Document) DuplicateElement(id, newID string, offset float64) (entities.DesignElement, error) {
	var dup entities.DesignElement
	err := d.mutate(func() error {
		i := d.elementIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("element")
		}
		var err error
		dup, err = d.state.elements[i].Duplicate(newID, offset)
		if err != nil {
			return err
		}
		return d.addElement(dup)
	})
	if err != nil {
		return entities.DesignElement{}, err
	}
	return dup, nil
}

// RemoveElement removes the element together with the logic nodes derived
// from it and those nodes' edges
func (d *Document) RemoveElement(id string) error {
	return d.mutate(func() error {
		i := d.elementIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("element")
		}
		d.state.elements = append(d.state.elements[:i:i], d.state.elements[i+1:]...)
		if d.state.selection.ElementID == id {
			d.state.selection.ElementID = ""
		}
		d.emit(events.NewElementChanged(d.projectID, events.TypeElementRemoved, id, d.nextVersion(), d.now()))

		for _, nodeID := range reconcile.Orphans(d.state.elements, d.state.nodes) {
			d.removeNode(nodeID)
		}
		return nil
	})
}

// Logic nodes

// AddNode appends a logic node. A derived node must point at an existing element.
func (d *Document) AddNode(n entities.LogicNode) error {
	return d.mutate(func() error {
		return d.addNode(n)
	})
}

func (d *Document) addNode(n entities.LogicNode) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if d.nodeIndex(n.ID) >= 0 {
		return pkgerrors.NewDuplicateIDError("node", n.ID)
	}
	if n.IsDerived() && d.elementIndex(n.SourceElementID) < 0 {
		return pkgerrors.NewNotFoundError("source element")
	}
	d.state.nodes = append(d.state.nodes, n.Clone())
	d.emit(events.NewNodeChanged(d.projectID, events.TypeNodeAdded, n.ID, n.IsDerived(), d.nextVersion(), d.now()))
	return nil
}

// UpdateNode replaces the position and merges data from patch
func (d *Document) UpdateNode(id string, patch entities.NodePatch) error {
	return d.mutate(func() error {
		i := d.nodeIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("node")
		}
		updated, err := d.state.nodes[i].Apply(patch)
		if err != nil {
			return err
		}
		d.state.nodes[i] = updated
		d.emit(events.NewNodeChanged(d.projectID, events.TypeNodeUpdated, id, updated.IsDerived(), d.nextVersion(), d.now()))
		return nil
	})
}

// RemoveNode removes the node and every edge touching it
func (d *Document) RemoveNode(id string) error {
	return d.mutate(func() error {
		if d.nodeIndex(id) < 0 {
			return pkgerrors.NewNotFoundError("node")
		}
		d.removeNode(id)
		return nil
	})
}

func (d *Document) removeNode(id string) {
	i := d.nodeIndex(id)
	if i < 0 {
		return
	}
	removed := d.state.nodes[i]
	d.state.nodes = append(d.state.nodes[:i:i], d.state.nodes[i+1:]...)
	if d.state.selection.NodeID == id {
		d.state.selection.NodeID = ""
	}

	kept := d.state.edges[:0:0]
	for _, e := range d.state.edges {
		if e.Touches(id) {
			d.dropEdgeSelection(e.ID)
			d.emit(events.NewEdgeChanged(d.projectID, events.TypeEdgeRemoved, e.ID, e.Source, e.Target, d.nextVersion(), d.now()))
			continue
		}
		kept = append(kept, e)
	}
	d.state.edges = kept
	d.emit(events.NewNodeChanged(d.projectID, events.TypeNodeRemoved, id, removed.IsDerived(), d.nextVersion(), d.now()))
}

// Logic edges

// AddEdge connects two existing nodes
func (d *Document) AddEdge(e entities.LogicEdge) error {
	return d.mutate(func() error {
		if err := e.Validate(); err != nil {
			return err
		}
		if d.edgeIndex(e.ID) >= 0 {
			return pkgerrors.NewDuplicateIDError("edge", e.ID)
		}
		if d.nodeIndex(e.Source) < 0 {
			return pkgerrors.NewNotFoundError("source node")
		}
		if d.nodeIndex(e.Target) < 0 {
			return pkgerrors.NewNotFoundError("target node")
		}
		d.state.edges = append(d.state.edges, e.Clone())
		d.emit(events.NewEdgeChanged(d.projectID, events.TypeEdgeAdded, e.ID, e.Source, e.Target, d.nextVersion(), d.now()))
		return nil
	})
}

// RemoveEdge removes one edge
func (d *Document) RemoveEdge(id string) error {
	return d.mutate(func() error {
		i := d.edgeIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("edge")
		}
		e := d.state.edges[i]
		d.state.edges = append(d.state.edges[:i:i], d.state.edges[i+1:]...)
		d.dropEdgeSelection(id)
		d.emit(events.NewEdgeChanged(d.projectID, events.TypeEdgeRemoved, e.ID, e.Source, e.Target, d.nextVersion(), d.now()))
		return nil
	})
}

func (d *Document) dropEdgeSelection(id string) {
	if d.state.selection.EdgeID == id {
		d.state.selection.EdgeID = ""
	}
}

// Code files

// AddFile appends a code file. Paths are unique within a document.
func (d *Document) AddFile(f entities.CodeFile) error {
	return d.mutate(func() error {
		if err := f.Validate(); err != nil {
			return err
		}
		if d.fileIndex(f.ID) >= 0 {
			return pkgerrors.NewDuplicateIDError("file", f.ID)
		}
		for _, existing := range d.state.files {
			if existing.Path == f.Path {
				return pkgerrors.NewConflictError("a file already exists at " + f.Path).WithDetail("path", f.Path)
			}
		}
		d.state.files = append(d.state.files, f)
		d.emit(events.NewFileChanged(d.projectID, events.TypeFileAdded, f.ID, f.Path, d.nextVersion(), d.now()))
		return nil
	})
}

// UpdateFileContent replaces a file's content
func (d *Document) UpdateFileContent(id, content string) error {
	return d.mutate(func() error {
		i := d.fileIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("file")
		}
		d.state.files[i] = d.state.files[i].WithContent(content)
		d.emit(events.NewFileChanged(d.projectID, events.TypeFileUpdated, id, d.state.files[i].Path, d.nextVersion(), d.now()))
		return nil
	})
}

// RemoveFile removes a file and clears it as the current file
func (d *Document) RemoveFile(id string) error {
	return d.mutate(func() error {
		i := d.fileIndex(id)
		if i < 0 {
			return pkgerrors.NewNotFoundError("file")
		}
		f := d.state.files[i]
		d.state.files = append(d.state.files[:i:i], d.state.files[i+1:]...)
		if d.state.selection.FileID == id {
			d.state.selection.FileID = ""
		}
		d.emit(events.NewFileChanged(d.projectID, events.TypeFileRemoved, id, f.Path, d.nextVersion(), d.now()))
		return nil
	})
}

// ReplaceFiles swaps the whole file set. The current file is cleared unless
// its id survives.
func (d *Document) ReplaceFiles(files []entities.CodeFile) error {
	return d.mutate(func() error {
		ids := make(map[string]struct{}, len(files))
		paths := make(map[string]struct{}, len(files))
		for _, f := range files {
			if err := f.Validate(); err != nil {
				return err
			}
			if _, dup := ids[f.ID]; dup {
				return pkgerrors.NewDuplicateIDError("file", f.ID)
			}
			if _, dup := paths[f.Path]; dup {
				return pkgerrors.NewConflictError("duplicate file path " + f.Path).WithDetail("path", f.Path)
			}
			ids[f.ID] = struct{}{}
			paths[f.Path] = struct{}{}
		}
		d.state.files = append([]entities.CodeFile{}, files...)
		if _, ok := ids[d.state.selection.FileID]; !ok {
			d.state.selection.FileID = ""
		}
		d.emit(events.NewFilesReplaced(d.projectID, len(files), d.nextVersion(), d.now()))
		return nil
	})
}

// Selection

// SelectElement focuses an element. An empty id clears the selection.
func (d *Document) SelectElement(id string) error {
	return d.selectID(SelectionElement, id, d.elementIndex)
}

// SelectNode focuses a logic node. An empty id clears the selection.
func (d *Document) SelectNode(id string) error {
	return d.selectID(SelectionNode, id, d.nodeIndex)
}

// SelectEdge focuses a logic edge. An empty id clears the selection.
func (d *Document) SelectEdge(id string) error {
	return d.selectID(SelectionEdge, id, d.edgeIndex)
}

// SelectFile opens a code file. An empty id clears the selection.
func (d *Document) SelectFile(id string) error {
	return d.selectID(SelectionFile, id, d.fileIndex)
}

func (d *Document) selectID(kind, id string, index func(string) int) error {
	if id != "" && index(id) < 0 {
		return pkgerrors.NewNotFoundError(kind)
	}
	return d.mutate(func() error {
		slot := d.selectionSlot(kind)
		if *slot == id {
			return nil
		}
		*slot = id
		d.emit(events.NewSelectionChanged(d.projectID, kind, id, d.nextVersion(), d.now()))
		return nil
	})
}

func (d *Document) selectionSlot(kind string) *string {
	switch kind {
	case SelectionNode:
		return &d.state.selection.NodeID
	case SelectionEdge:
		return &d.state.selection.EdgeID
	case SelectionFile:
		return &d.state.selection.FileID
	default:
		return &d.state.selection.ElementID
	}
}

// Reconciliation

// ApplyReconciliation applies a reconciler plan atomically. The whole plan is
// checked first; a plan that would break the document is an invariant violation.
func (d *Document) ApplyReconciliation(plan reconcile.Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	return d.mutate(func() error {
		removing := make(map[string]struct{}, len(plan.ToRemove))
		for _, id := range plan.ToRemove {
			i := d.nodeIndex(id)
			if i < 0 {
				return pkgerrors.NewInvariantViolation("reconciliation removes unknown node %s", id)
			}
			if !d.state.nodes[i].IsDerived() {
				return pkgerrors.NewInvariantViolation("reconciliation removes user node %s", id)
			}
			removing[id] = struct{}{}
		}

		adding := make(map[string]struct{}, len(plan.ToAdd))
		for _, n := range plan.ToAdd {
			if !n.IsDerived() {
				return pkgerrors.NewInvariantViolation("reconciliation adds node %s without a source element", n.ID)
			}
			if d.elementIndex(n.SourceElementID) < 0 {
				return pkgerrors.NewInvariantViolation("reconciliation adds node %s for unknown element %s", n.ID, n.SourceElementID)
			}
			_, gone := removing[n.ID]
			if _, dup := adding[n.ID]; dup || (d.nodeIndex(n.ID) >= 0 && !gone) {
				return pkgerrors.NewInvariantViolation("reconciliation node id %s collides", n.ID)
			}
			adding[n.ID] = struct{}{}
		}

		for _, id := range plan.ToRemove {
			d.removeNode(id)
		}
		for _, n := range plan.ToAdd {
			if err := d.addNode(n); err != nil {
				return pkgerrors.NewInvariantViolation("reconciliation node %s rejected", n.ID).WithCause(err)
			}
		}
		return nil
	})
}

// Snapshots

// Snapshot returns a deep copy of the full state
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		ProjectID: d.projectID,
		Version:   d.version,
		Elements:  d.Elements(),
		Nodes:     d.Nodes(),
		Edges:     d.Edges(),
		Files:     d.Files(),
		Selection: d.state.selection,
	}
}

// Restore replaces the whole state with s after validating it
func (d *Document) Restore(s Snapshot) error {
	if err := validateSnapshot(s); err != nil {
		return err
	}
	return d.mutate(func() error {
		d.state = stateFromSnapshot(s)
		d.emit(events.NewDocumentRestored(d.projectID, len(s.Elements), len(s.Nodes), len(s.Edges), len(s.Files), d.nextVersion(), d.now()))
		return nil
	})
}

func validateSnapshot(s Snapshot) error {
	invalid := func(cause error) error {
		return pkgerrors.NewValidationError("invalid snapshot").
			WithCode(pkgerrors.CodeInvalidSnapshot).
			WithCause(cause)
	}
	for _, el := range s.Elements {
		if err := el.Validate(); err != nil {
			return invalid(err)
		}
	}
	for _, n := range s.Nodes {
		if err := n.Validate(); err != nil {
			return invalid(err)
		}
	}
	for _, e := range s.Edges {
		if err := e.Validate(); err != nil {
			return invalid(err)
		}
	}
	for _, f := range s.Files {
		if err := f.Validate(); err != nil {
			return invalid(err)
		}
	}
	if err := checkInvariants(stateFromSnapshot(s)); err != nil {
		return invalid(err)
	}
	return nil
}

// CheckInvariants verifies the structural invariants: unique ids per
// collection, existing edge endpoints and a selection that points at
// existing entities.
func (d *Document) CheckInvariants() error {
	return checkInvariants(d.state)
}

func checkInvariants(s state) error {
	elementIDs := make(map[string]struct{}, len(s.elements))
	for _, el := range s.elements {
		if _, dup := elementIDs[el.ID]; dup {
			return pkgerrors.NewInvariantViolation("duplicate element id %s", el.ID)
		}
		elementIDs[el.ID] = struct{}{}
	}

	nodeIDs := make(map[string]struct{}, len(s.nodes))
	for _, n := range s.nodes {
		if _, dup := nodeIDs[n.ID]; dup {
			return pkgerrors.NewInvariantViolation("duplicate node id %s", n.ID)
		}
		nodeIDs[n.ID] = struct{}{}
	}

	edgeIDs := make(map[string]struct{}, len(s.edges))
	for _, e := range s.edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return pkgerrors.NewInvariantViolation("duplicate edge id %s", e.ID)
		}
		edgeIDs[e.ID] = struct{}{}
		if _, ok := nodeIDs[e.Source]; !ok {
			return pkgerrors.NewInvariantViolation("edge %s has missing source %s", e.ID, e.Source)
		}
		if _, ok := nodeIDs[e.Target]; !ok {
			return pkgerrors.NewInvariantViolation("edge %s has missing target %s", e.ID, e.Target)
		}
	}

	fileIDs := make(map[string]struct{}, len(s.files))
	for _, f := range s.files {
		if _, dup := fileIDs[f.ID]; dup {
			return pkgerrors.NewInvariantViolation("duplicate file id %s", f.ID)
		}
		fileIDs[f.ID] = struct{}{}
	}

	sel := s.selection
	checks := []struct {
		kind string
		id   string
		ids  map[string]struct{}
	}{
		{SelectionElement, sel.ElementID, elementIDs},
		{SelectionNode, sel.NodeID, nodeIDs},
		{SelectionEdge, sel.EdgeID, edgeIDs},
		{SelectionFile, sel.FileID, fileIDs},
	}
	for _, c := range checks {
		if c.id == "" {
			continue
		}
		if _, ok := c.ids[c.id]; !ok {
			return pkgerrors.NewInvariantViolation("selected %s %s does not exist", c.kind, c.id)
		}
	}
	return nil
}

func (d *Document) elementIndex(id string) int {
	for i, el := range d.state.elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) nodeIndex(id string) int {
	for i, n := range d.state.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) edgeIndex(id string) int {
	for i, e := range d.state.edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) fileIndex(id string) int {
	for i, f := range d.state.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}
