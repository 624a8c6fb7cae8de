package templates

import (
	"sort"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

type nodeSpec struct {
	key  string
	typ  entities.NodeType
	x, y float64
	data map[string]interface{}
}

type edgeSpec struct {
	from, to string
	handle   string
}

type flow struct {
	nodes []nodeSpec
	edges []edgeSpec
}

var flows = map[string]flow{
	"api-fetch": {
		nodes: []nodeSpec{
			{"mount", entities.NodeEvent, 250, 50, map[string]interface{}{"label": "Component Mount", "eventType": "mount"}},
			{"loading", entities.NodeState, 250, 150, map[string]interface{}{"label": "Loading State", "fields": map[string]interface{}{"value": "true"}}},
			{"fetch", entities.NodeAPI, 250, 250, map[string]interface{}{"label": "Fetch Data", "method": "GET", "endpoint": "/api/data"}},
			{"ok", entities.NodeCondition, 250, 350, map[string]interface{}{"label": "API Success?", "condition": "response.ok === true"}},
			{"error", entities.NodeState, 100, 450, map[string]interface{}{"label": "Error State", "fields": map[string]interface{}{"message": "Failed to fetch data"}}},
			{"data", entities.NodeState, 400, 450, map[string]interface{}{"label": "Data State", "fields": map[string]interface{}{"items": "[]"}}},
			{"done", entities.NodeState, 250, 550, map[string]interface{}{"label": "Loading Complete", "fields": map[string]interface{}{"value": "false"}}},
		},
		edges: []edgeSpec{
			{"mount", "loading", ""},
			{"loading", "fetch", ""},
			{"fetch", "ok", ""},
			{"ok", "error", entities.HandleFalse},
			{"ok", "data", entities.HandleTrue},
			{"error", "done", ""},
			{"data", "done", ""},
		},
	},
	"form-submit": {
		nodes: []nodeSpec{
			{"submit", entities.NodeEvent, 250, 50, map[string]interface{}{"label": "Form Submit", "eventType": "submit"}},
			{"form", entities.NodeState, 250, 150, map[string]interface{}{"label": "Form Data", "fields": map[string]interface{}{"name": "", "email": ""}}},
			{"validate", entities.NodeFunction, 250, 250, map[string]interface{}{"label": "Validate Form", "code": `return name.length > 0 && email.includes("@")`}},
			{"valid", entities.NodeCondition, 250, 350, map[string]interface{}{"label": "Is Valid?", "condition": "result === true"}},
			{"error", entities.NodeState, 100, 450, map[string]interface{}{"label": "Error State", "fields": map[string]interface{}{"message": "Please fill all fields correctly"}}},
			{"send", entities.NodeAPI, 400, 450, map[string]interface{}{"label": "Submit Form", "method": "POST", "endpoint": "/api/form"}},
		},
		edges: []edgeSpec{
			{"submit", "form", ""},
			{"form", "validate", ""},
			{"validate", "valid", ""},
			{"valid", "error", entities.HandleFalse},
			{"valid", "send", entities.HandleTrue},
		},
	},
	"auth-flow": {
		nodes: []nodeSpec{
			{"click", entities.NodeEvent, 250, 50, map[string]interface{}{"label": "Login Button Click", "eventType": "click"}},
			{"login", entities.NodeAPI, 250, 150, map[string]interface{}{"label": "Login API", "method": "POST", "endpoint": "/api/auth/login"}},
			{"success", entities.NodeCondition, 250, 250, map[string]interface{}{"label": "Login Success?", "condition": "response.token !== undefined"}},
			{"error", entities.NodeState, 100, 350, map[string]interface{}{"label": "Error State", "fields": map[string]interface{}{"message": "Invalid login credentials"}}},
			{"auth", entities.NodeState, 400, 350, map[string]interface{}{"label": "Auth State", "fields": map[string]interface{}{"token": "response.token", "user": "response.user"}}},
			{"navigate", entities.NodeFunction, 400, 450, map[string]interface{}{"label": "Navigate", "code": `navigate("/dashboard")`}},
		},
		edges: []edgeSpec{
			{"click", "login", ""},
			{"login", "success", ""},
			{"success", "error", entities.HandleFalse},
			{"success", "auth", entities.HandleTrue},
			{"auth", "navigate", ""},
		},
	},
}

// Names lists the available flow templates
func Names() []string {
	out := make([]string, 0, len(flows))
	for name := range flows {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Instance is a template materialized with concrete ids
type Instance struct {
	Nodes []entities.LogicNode `json:"nodes"`
	Edges []entities.LogicEdge `json:"edges"`
}

// Instantiate builds the named flow, minting ids with nodeID and edgeID so
// repeated use never collides with existing graph content
func Instantiate(name string, nodeID, edgeID func() string) (Instance, error) {
	f, ok := flows[name]
	if !ok {
		return Instance{}, pkgerrors.ErrUnknownTemplate
	}

	ids := make(map[string]string, len(f.nodes))
	inst := Instance{
		Nodes: make([]entities.LogicNode, 0, len(f.nodes)),
		Edges: make([]entities.LogicEdge, 0, len(f.edges)),
	}
	for _, spec := range f.nodes {
		id := nodeID()
		ids[spec.key] = id
		n, err := entities.NewLogicNode(id, spec.typ, valueobjects.Position{X: spec.x, Y: spec.y}, spec.data)
		if err != nil {
			return Instance{}, err
		}
		inst.Nodes = append(inst.Nodes, n)
	}
	for _, spec := range f.edges {
		e, err := entities.NewLogicEdge(edgeID(), ids[spec.from], ids[spec.to])
		if err != nil {
			return Instance{}, err
		}
		inst.Edges = append(inst.Edges, e.WithHandles(spec.handle, ""))
	}
	return inst, nil
}
