package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event types raised by the document aggregate
const (
	TypeElementAdded     = "document.element_added"
	TypeElementUpdated   = "document.element_updated"
	TypeElementRemoved   = "document.element_removed"
	TypeNodeAdded        = "document.node_added"
	TypeNodeUpdated      = "document.node_updated"
	TypeNodeRemoved      = "document.node_removed"
	TypeEdgeAdded        = "document.edge_added"
	TypeEdgeRemoved      = "document.edge_removed"
	TypeFileAdded        = "document.file_added"
	TypeFileUpdated      = "document.file_updated"
	TypeFileRemoved      = "document.file_removed"
	TypeFilesReplaced    = "document.files_replaced"
	TypeSelectionChanged = "document.selection_changed"
	TypeDocumentRestored = "document.restored"
)

func newBase(projectID, eventType string, version int, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: projectID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     version,
	}
}

// Design element events

// ElementChanged covers element add, update and remove
type ElementChanged struct {
	BaseEvent
	ElementID string `json:"element_id"`
}

// NewElementChanged creates an element event of the given type
func NewElementChanged(projectID, eventType, elementID string, version int, at time.Time) ElementChanged {
	return ElementChanged{
		BaseEvent: newBase(projectID, eventType, version, at),
		ElementID: elementID,
	}
}

// Logic graph events

// NodeChanged covers node add, update and remove. Derived is set when the node
// is owned by a design element.
type NodeChanged struct {
	BaseEvent
	NodeID  string `json:"node_id"`
	Derived bool   `json:"derived"`
}

// NewNodeChanged creates a node event of the given type
func NewNodeChanged(projectID, eventType, nodeID string, derived bool, version int, at time.Time) NodeChanged {
	return NodeChanged{
		BaseEvent: newBase(projectID, eventType, version, at),
		NodeID:    nodeID,
		Derived:   derived,
	}
}

// EdgeChanged covers edge add and remove
type EdgeChanged struct {
	BaseEvent
	EdgeID string `json:"edge_id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewEdgeChanged creates an edge event of the given type
func NewEdgeChanged(projectID, eventType, edgeID, source, target string, version int, at time.Time) EdgeChanged {
	return EdgeChanged{
		BaseEvent: newBase(projectID, eventType, version, at),
		EdgeID:    edgeID,
		Source:    source,
		Target:    target,
	}
}

// Code file events

// FileChanged covers file add, update and remove
type FileChanged struct {
	BaseEvent
	FileID string `json:"file_id"`
	Path   string `json:"path"`
}

// NewFileChanged creates a file event of the given type
func NewFileChanged(projectID, eventType, fileID, path string, version int, at time.Time) FileChanged {
	return FileChanged{
		BaseEvent: newBase(projectID, eventType, version, at),
		FileID:    fileID,
		Path:      path,
	}
}

// FilesReplaced is raised when regeneration swaps the whole file set
type FilesReplaced struct {
	BaseEvent
	FileCount int `json:"file_count"`
}

func NewFilesReplaced(projectID string, count int, version int, at time.Time) FilesReplaced {
	return FilesReplaced{
		BaseEvent: newBase(projectID, TypeFilesReplaced, version, at),
		FileCount: count,
	}
}

// Selection and lifecycle events

// SelectionChanged is raised when any selection slot changes
type SelectionChanged struct {
	BaseEvent
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func NewSelectionChanged(projectID, kind, id string, version int, at time.Time) SelectionChanged {
	return SelectionChanged{
		BaseEvent: newBase(projectID, TypeSelectionChanged, version, at),
		Kind:      kind,
		ID:        id,
	}
}

// DocumentRestored is raised when a snapshot replaces the whole document
type DocumentRestored struct {
	BaseEvent
	Elements int `json:"elements"`
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Files    int `json:"files"`
}

func NewDocumentRestored(projectID string, elements, nodes, edges, files int, version int, at time.Time) DocumentRestored {
	return DocumentRestored{
		BaseEvent: newBase(projectID, TypeDocumentRestored, version, at),
		Elements:  elements,
		Nodes:     nodes,
		Edges:     edges,
		Files:     files,
	}
}
