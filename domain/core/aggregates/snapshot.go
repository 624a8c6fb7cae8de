package aggregates

import (
	"appbuilder/domain/core/entities"
)

// Selection holds the ids the editor currently focuses. Empty means nothing.
type Selection struct {
	ElementID string `json:"selectedElementId,omitempty"`
	NodeID    string `json:"selectedNodeId,omitempty"`
	EdgeID    string `json:"selectedEdgeId,omitempty"`
	FileID    string `json:"currentFileId,omitempty"`
}

// Snapshot is a deep copy of a document's full state. Stores persist it as a
// whole; there are no partial writes.
type Snapshot struct {
	ProjectID string                   `json:"projectId"`
	Version   int                      `json:"version"`
	Elements  []entities.DesignElement `json:"elements"`
	Nodes     []entities.LogicNode     `json:"nodes"`
	Edges     []entities.LogicEdge     `json:"edges"`
	Files     []entities.CodeFile      `json:"files"`
	Selection Selection                `json:"selection"`
}

// EmptySnapshot is the state of a project nobody has edited yet
func EmptySnapshot(projectID string) Snapshot {
	return Snapshot{
		ProjectID: projectID,
		Elements:  []entities.DesignElement{},
		Nodes:     []entities.LogicNode{},
		Edges:     []entities.LogicEdge{},
		Files:     []entities.CodeFile{},
	}
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		ProjectID: s.ProjectID,
		Version:   s.Version,
		Selection: s.Selection,
		Elements:  make([]entities.DesignElement, len(s.Elements)),
		Nodes:     make([]entities.LogicNode, len(s.Nodes)),
		Edges:     make([]entities.LogicEdge, len(s.Edges)),
		Files:     make([]entities.CodeFile, len(s.Files)),
	}
	for i, el := range s.Elements {
		out.Elements[i] = el.Clone()
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range s.Edges {
		out.Edges[i] = e.Clone()
	}
	copy(out.Files, s.Files)
	return out
}

// state is the mutable part of a document, swapped wholesale on rollback
type state struct {
	elements  []entities.DesignElement
	nodes     []entities.LogicNode
	edges     []entities.LogicEdge
	files     []entities.CodeFile
	selection Selection
}

// copyState copies the slices. Entities are replaced, never mutated in place,
// so sharing their maps with the copy is safe.
func copyState(s state) state {
	return state{
		elements:  append([]entities.DesignElement(nil), s.elements...),
		nodes:     append([]entities.LogicNode(nil), s.nodes...),
		edges:     append([]entities.LogicEdge(nil), s.edges...),
		files:     append([]entities.CodeFile(nil), s.files...),
		selection: s.selection,
	}
}

func stateFromSnapshot(s Snapshot) state {
	c := s.Clone()
	return state{
		elements:  c.Elements,
		nodes:     c.Nodes,
		edges:     c.Edges,
		files:     c.Files,
		selection: c.Selection,
	}
}
