// Package reconcile derives logic nodes from design elements.
//
// Reconciliation is a pure function from (elements, nodes) to a Plan. It never
// modifies user-created nodes or the data of derived nodes that already exist.
package reconcile

import (
	"strconv"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
)

// DefaultOffsetX is the horizontal distance between an element and its derived node
const DefaultOffsetX = 300

// Plan is the set of changes that brings the logic graph in line with the design
type Plan struct {
	ToAdd    []entities.LogicNode `json:"toAdd"`
	ToRemove []string             `json:"toRemove"`
}

// IsEmpty reports whether applying the plan would change nothing
func (p Plan) IsEmpty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// DerivedNodeType maps an element type to the node type derived from it.
// Media elements carry no behavior and derive nothing.
func DerivedNodeType(t entities.ElementType) (entities.NodeType, bool) {
	switch t {
	case entities.ElementButton:
		return entities.NodeEvent, true
	case entities.ElementInput:
		return entities.NodeInput, true
	case entities.ElementText:
		return entities.NodeOutput, true
	case entities.ElementContainer, entities.ElementCard, entities.ElementVStack,
		entities.ElementHStack, entities.ElementZStack, entities.ElementGrid, entities.ElementColumns:
		return entities.NodeState, true
	default:
		return "", false
	}
}

// Reconciler computes plans with a configurable node offset
type Reconciler struct {
	OffsetX float64
}

// New creates a reconciler. A non-positive offset falls back to DefaultOffsetX.
func New(offsetX float64) Reconciler {
	if offsetX <= 0 {
		offsetX = DefaultOffsetX
	}
	return Reconciler{OffsetX: offsetX}
}

// Reconcile computes a plan with the default offset
func Reconcile(elements []entities.DesignElement, nodes []entities.LogicNode) Plan {
	return New(DefaultOffsetX).Reconcile(elements, nodes)
}

// Reconcile computes the plan for elements and nodes. Applying the returned plan
// and reconciling again yields an empty plan.
func (r Reconciler) Reconcile(elements []entities.DesignElement, nodes []entities.LogicNode) Plan {
	plan := Plan{ToAdd: []entities.LogicNode{}, ToRemove: []string{}}

	elementIDs := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		elementIDs[el.ID] = struct{}{}
	}

	covered := make(map[string]struct{}, len(nodes))
	removed := make(map[string]struct{})
	for _, n := range nodes {
		if !n.IsDerived() {
			continue
		}
		_, exists := elementIDs[n.SourceElementID]
		_, dup := covered[n.SourceElementID]
		if !exists || dup {
			plan.ToRemove = append(plan.ToRemove, n.ID)
			removed[n.ID] = struct{}{}
			continue
		}
		covered[n.SourceElementID] = struct{}{}
	}

	taken := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, gone := removed[n.ID]; !gone {
			taken[n.ID] = struct{}{}
		}
	}

	for _, el := range elements {
		if _, ok := covered[el.ID]; ok {
			continue
		}
		nodeType, ok := DerivedNodeType(el.Type)
		if !ok {
			continue
		}
		id := uniqueID(valueobjects.DerivedNodeID(el.ID), taken)
		taken[id] = struct{}{}
		covered[el.ID] = struct{}{}

		data := entities.DefaultNodeData(nodeType)
		data["label"] = el.Name
		plan.ToAdd = append(plan.ToAdd, entities.LogicNode{
			ID:              id,
			Type:            nodeType,
			Position:        valueobjects.Position{X: el.Position.X + r.OffsetX, Y: el.Position.Y},
			Data:            data,
			SourceElementID: el.ID,
		})
	}

	return plan
}

// Orphans returns the ids of derived nodes whose source element is not in
// elements, in node order
func Orphans(elements []entities.DesignElement, nodes []entities.LogicNode) []string {
	elementIDs := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		elementIDs[el.ID] = struct{}{}
	}
	var out []string
	for _, n := range nodes {
		if !n.IsDerived() {
			continue
		}
		if _, ok := elementIDs[n.SourceElementID]; !ok {
			out = append(out, n.ID)
		}
	}
	return out
}

func uniqueID(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
