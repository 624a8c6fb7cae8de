package entities

import (
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

// NodeType identifies a logic node kind. The set is open; the constants below
// are the kinds the editor knows defaults for.
type NodeType string

const (
	NodeState     NodeType = "state"
	NodeAPI       NodeType = "api"
	NodeCondition NodeType = "condition"
	NodeFunction  NodeType = "function"
	NodeInput     NodeType = "input"
	NodeOutput    NodeType = "output"
	NodeEvent     NodeType = "event"
)

// DefaultNodeData returns the starting data payload for a node type
func DefaultNodeData(t NodeType) map[string]interface{} {
	switch t {
	case NodeState:
		return map[string]interface{}{"fields": map[string]interface{}{"value": ""}}
	case NodeAPI:
		return map[string]interface{}{"method": "GET", "endpoint": "/api"}
	case NodeCondition:
		return map[string]interface{}{"condition": "value === true"}
	case NodeFunction:
		return map[string]interface{}{"code": "// Write your function here"}
	case NodeInput:
		return map[string]interface{}{"inputType": "text"}
	case NodeEvent:
		return map[string]interface{}{"eventType": "onClick"}
	default:
		return map[string]interface{}{}
	}
}

// LogicNode is a vertex in the logic graph. A node with a SourceElementID was
// derived from a design element and is owned by the reconciler.
type LogicNode struct {
	ID              string                 `json:"id"`
	Type            NodeType               `json:"type"`
	Position        valueobjects.Position  `json:"position"`
	Data            map[string]interface{} `json:"data"`
	SourceElementID string                 `json:"sourceElementId,omitempty"`
}

// NewLogicNode creates a user node with the default data for its type merged
// under data
func NewLogicNode(id string, nodeType NodeType, position valueobjects.Position, data map[string]interface{}) (LogicNode, error) {
	n := LogicNode{
		ID:       id,
		Type:     nodeType,
		Position: position,
		Data:     mergeMap(DefaultNodeData(nodeType), data),
	}
	if err := n.Validate(); err != nil {
		return LogicNode{}, err
	}
	return n, nil
}

// Validate checks the node invariants
func (n LogicNode) Validate() error {
	if n.ID == "" {
		return pkgerrors.NewValidationError("node id cannot be empty")
	}
	if n.Type == "" {
		return pkgerrors.NewValidationError("node type cannot be empty")
	}
	return n.Position.Validate()
}

// IsDerived reports whether the node was derived from a design element
func (n LogicNode) IsDerived() bool {
	return n.SourceElementID != ""
}

// Label returns data.label when it is a string
func (n LogicNode) Label() string {
	if s, ok := n.Data["label"].(string); ok {
		return s
	}
	return ""
}

func (n LogicNode) Clone() LogicNode {
	out := n
	out.Data = cloneMap(n.Data)
	return out
}

// NodePatch is a partial node update. Position replaces, Data merges.
type NodePatch struct {
	Position *valueobjects.Position `json:"position,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func (p NodePatch) IsEmpty() bool {
	return p.Position == nil && p.Data == nil
}

// Apply returns a copy of n with the patch merged in
func (n LogicNode) Apply(p NodePatch) (LogicNode, error) {
	out := n.Clone()
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Data != nil {
		out.Data = mergeMap(out.Data, p.Data)
	}
	if err := out.Validate(); err != nil {
		return LogicNode{}, err
	}
	return out, nil
}
