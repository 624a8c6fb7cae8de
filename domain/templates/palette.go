// Package templates holds the logic node palette and the prebuilt logic flows.
package templates

import (
	"sort"
	"strings"

	"appbuilder/domain/core/entities"
)

// PaletteEntry is one item of the logic node palette. Several entries may
// create the same node type with different preset data.
type PaletteEntry struct {
	Kind        string                 `json:"kind"`
	Type        entities.NodeType      `json:"type"`
	Label       string                 `json:"label"`
	DefaultData map[string]interface{} `json:"defaultData"`
}

var palette = map[string]PaletteEntry{
	"state":     {Kind: "state", Type: entities.NodeState, Label: "State"},
	"api":       {Kind: "api", Type: entities.NodeAPI, Label: "API Call"},
	"condition": {Kind: "condition", Type: entities.NodeCondition, Label: "Condition"},
	"function":  {Kind: "function", Type: entities.NodeFunction, Label: "Function"},
	"input":     {Kind: "input", Type: entities.NodeInput, Label: "Input"},
	"output":    {Kind: "output", Type: entities.NodeOutput, Label: "Output"},
	"event":     {Kind: "event", Type: entities.NodeEvent, Label: "Event"},
	"notification": {
		Kind: "notification", Type: entities.NodeFunction, Label: "Notification",
		DefaultData: map[string]interface{}{"code": `showNotification("Message")`},
	},
	"email": {
		Kind: "email", Type: entities.NodeFunction, Label: "Send Email",
		DefaultData: map[string]interface{}{"code": `sendEmail("user@example.com", "Subject", "Body")`},
	},
	"loop": {
		Kind: "loop", Type: entities.NodeFunction, Label: "Loop",
		DefaultData: map[string]interface{}{"code": "items.forEach(item => {\n  // Process item\n})"},
	},
}

// Lookup resolves a palette kind. Kinds outside the palette create a node of
// that type with no preset data, labelled after the kind.
func Lookup(kind string) PaletteEntry {
	if entry, ok := palette[kind]; ok {
		return withData(entry)
	}
	label := kind
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return PaletteEntry{Kind: kind, Type: entities.NodeType(kind), Label: label, DefaultData: map[string]interface{}{}}
}

func withData(entry PaletteEntry) PaletteEntry {
	data := entities.DefaultNodeData(entry.Type)
	for k, v := range entry.DefaultData {
		data[k] = v
	}
	entry.DefaultData = data
	return entry
}

// Palette lists every entry sorted by kind
func Palette() []PaletteEntry {
	out := make([]PaletteEntry, 0, len(palette))
	for _, entry := range palette {
		out = append(out, withData(entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
