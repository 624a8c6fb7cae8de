package templates

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/entities"
	pkgerrors "appbuilder/pkg/errors"
)

func counter(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"api-fetch", "auth-flow", "form-submit"}, Names())
}

func TestInstantiate(t *testing.T) {
	tests := []struct {
		name      string
		nodes     int
		edges     int
		firstType entities.NodeType
	}{
		{"api-fetch", 7, 7, entities.NodeEvent},
		{"form-submit", 6, 5, entities.NodeEvent},
		{"auth-flow", 6, 5, entities.NodeEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := Instantiate(tt.name, counter("n"), counter("e"))

			require.NoError(t, err)
			assert.Len(t, inst.Nodes, tt.nodes)
			assert.Len(t, inst.Edges, tt.edges)
			assert.Equal(t, tt.firstType, inst.Nodes[0].Type)

			ids := make(map[string]bool)
			for _, n := range inst.Nodes {
				assert.False(t, n.IsDerived())
				ids[n.ID] = true
			}
			for _, e := range inst.Edges {
				assert.True(t, ids[e.Source], "edge source %s must be a template node", e.Source)
				assert.True(t, ids[e.Target], "edge target %s must be a template node", e.Target)
			}
		})
	}
}

func TestInstantiate_ConditionBranches(t *testing.T) {
	inst, err := Instantiate("api-fetch", counter("n"), counter("e"))
	require.NoError(t, err)

	handles := map[string]string{}
	for _, e := range inst.Edges {
		if e.SourceHandle != "" {
			handles[e.SourceHandle] = e.Target
		}
	}

	byID := map[string]entities.LogicNode{}
	for _, n := range inst.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "Error State", byID[handles[entities.HandleFalse]].Label())
	assert.Equal(t, "Data State", byID[handles[entities.HandleTrue]].Label())
}

func TestInstantiate_FreshIDsEachTime(t *testing.T) {
	nodeID, edgeID := counter("n"), counter("e")

	first, err := Instantiate("auth-flow", nodeID, edgeID)
	require.NoError(t, err)
	second, err := Instantiate("auth-flow", nodeID, edgeID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Nodes[0].ID, second.Nodes[0].ID)
	assert.NotEqual(t, first.Edges[0].ID, second.Edges[0].ID)
}

func TestInstantiate_UnknownTemplate(t *testing.T) {
	_, err := Instantiate("checkout", counter("n"), counter("e"))

	assert.ErrorIs(t, err, pkgerrors.ErrUnknownTemplate)
}

func TestLookup(t *testing.T) {
	t.Run("preset kind merges node defaults", func(t *testing.T) {
		entry := Lookup("email")

		assert.Equal(t, entities.NodeFunction, entry.Type)
		assert.Equal(t, "Send Email", entry.Label)
		assert.Contains(t, entry.DefaultData["code"], "sendEmail")
	})

	t.Run("custom kind becomes its own type", func(t *testing.T) {
		entry := Lookup("webhook")

		assert.Equal(t, entities.NodeType("webhook"), entry.Type)
		assert.Equal(t, "Webhook", entry.Label)
		assert.Empty(t, entry.DefaultData)
	})
}

func TestPalette(t *testing.T) {
	entries := Palette()

	require.Len(t, entries, 10)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Kind, entries[i].Kind)
	}
}
