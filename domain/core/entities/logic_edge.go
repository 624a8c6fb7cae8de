package entities

import pkgerrors "appbuilder/pkg/errors"

// Handle ids used by condition nodes
const (
	HandleTrue  = "true"
	HandleFalse = "false"
)

// LogicEdge is a directed connection between two logic nodes
type LogicEdge struct {
	ID           string                 `json:"id"`
	Source       string                 `json:"source"`
	Target       string                 `json:"target"`
	SourceHandle string                 `json:"sourceHandle,omitempty"`
	TargetHandle string                 `json:"targetHandle,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// NewLogicEdge creates an edge between source and target
func NewLogicEdge(id, source, target string) (LogicEdge, error) {
	e := LogicEdge{ID: id, Source: source, Target: target}
	if err := e.Validate(); err != nil {
		return LogicEdge{}, err
	}
	return e, nil
}

// WithHandles returns a copy with the connection handles set
func (e LogicEdge) WithHandles(sourceHandle, targetHandle string) LogicEdge {
	e.SourceHandle = sourceHandle
	e.TargetHandle = targetHandle
	return e
}

// Validate checks the edge's own fields. Endpoint existence is a document
// invariant and checked there.
func (e LogicEdge) Validate() error {
	if e.ID == "" {
		return pkgerrors.NewValidationError("edge id cannot be empty")
	}
	if e.Source == "" || e.Target == "" {
		return pkgerrors.NewValidationError("edge source and target are required")
	}
	return nil
}

// Touches reports whether nodeID is either endpoint
func (e LogicEdge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

func (e LogicEdge) Clone() LogicEdge {
	out := e
	if e.Data != nil {
		out.Data = cloneMap(e.Data)
	}
	return out
}
