package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appbuilder/domain/config"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/events"
	pkgerrors "appbuilder/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(aggregates.NewDocument("p1"), valueobjects.LanguageTypeScript, config.DefaultEditorConfig(), zap.NewNop())
	c.SetClock(func() time.Time { return fixedNow })
	return c
}

func TestController_AddElementDerivesNode(t *testing.T) {
	// Arrange
	c := newTestController(t)

	// Act
	el, err := c.AddElement(ElementDrop{ID: "btn", Type: entities.ElementButton, Name: "Submit Button"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, valueobjects.Position{X: 100, Y: 100}, el.Position)
	nodes := c.Document().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "node-btn", nodes[0].ID)
	assert.Equal(t, entities.NodeEvent, nodes[0].Type)
	assert.Equal(t, valueobjects.Position{X: 400, Y: 100}, nodes[0].Position)
}

func TestController_ObserversSeeOneReconciledChange(t *testing.T) {
	c := newTestController(t)
	var batches [][]events.DomainEvent
	c.Document().Subscribe(func(evs []events.DomainEvent) {
		batches = append(batches, evs)
	})

	_, err := c.AddElement(ElementDrop{ID: "t1", Type: entities.ElementText})
	require.NoError(t, err)

	require.Len(t, batches, 1)
	assert.Equal(t, 1, c.Document().Version())
	assert.Len(t, batches[0], 2)
}

func TestController_RemoveElementCascades(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddElement(ElementDrop{ID: "b1", Type: entities.ElementButton})
	require.NoError(t, err)
	n, err := c.AddNode(NodeDrop{ID: "user", Kind: "state"})
	require.NoError(t, err)
	_, err = c.Connect(Connection{ID: "e1", Source: "node-b1", Target: n.ID})
	require.NoError(t, err)

	err = c.RemoveElement("b1")

	require.NoError(t, err)
	assert.Empty(t, c.Document().Elements())
	assert.Empty(t, c.Document().Edges())
	require.Len(t, c.Document().Nodes(), 1)
	assert.Equal(t, "user", c.Document().Nodes()[0].ID)
}

func TestController_RemoveMissingIsNoop(t *testing.T) {
	c := newTestController(t)

	assert.NoError(t, c.RemoveElement("nope"))
	assert.NoError(t, c.RemoveNode("nope"))
	assert.NoError(t, c.Disconnect("nope"))
	assert.NoError(t, c.RemoveFile("nope"))
	assert.Equal(t, 0, c.Document().Version())
}

func TestController_DuplicateSelectsCopy(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddElement(ElementDrop{ID: "in", Type: entities.ElementInput, Name: "Email"})
	require.NoError(t, err)

	dup, err := c.DuplicateElement("in", "in2")

	require.NoError(t, err)
	assert.Equal(t, valueobjects.Position{X: 120, Y: 120}, dup.Position)
	assert.Equal(t, "in2", c.Document().Selection().ElementID)
	_, ok := c.Document().Node("node-in2")
	assert.True(t, ok)
}

func TestController_AddNodeFromPalette(t *testing.T) {
	tests := []struct {
		kind     string
		wantType entities.NodeType
		label    string
	}{
		{"api", entities.NodeAPI, "API Call 1"},
		{"loop", entities.NodeFunction, "Loop 1"},
		{"webhook", entities.NodeType("webhook"), "Webhook 1"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			c := newTestController(t)

			n, err := c.AddNode(NodeDrop{Kind: tt.kind, Position: valueobjects.Position{X: 5, Y: 5}})

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(n.ID, "node-"))
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.label, n.Label())
			assert.Equal(t, n.ID, c.Document().Selection().NodeID)
		})
	}

	t.Run("empty kind", func(t *testing.T) {
		_, err := newTestController(t).AddNode(NodeDrop{})
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestController_ConnectRejectsUnknownEndpoint(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddNode(NodeDrop{ID: "a", Kind: "state"})
	require.NoError(t, err)

	_, err = c.Connect(Connection{Source: "a", Target: "ghost"})

	assert.Error(t, err)
	assert.Empty(t, c.Document().Edges())
}

func TestController_ApplyTemplateKeepsDerivedNodes(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddElement(ElementDrop{ID: "b1", Type: entities.ElementButton})
	require.NoError(t, err)
	_, err = c.AddNode(NodeDrop{ID: "old", Kind: "function"})
	require.NoError(t, err)

	inst, err := c.ApplyTemplate("form-submit")

	require.NoError(t, err)
	_, ok := c.Document().Node("node-b1")
	assert.True(t, ok)
	_, ok = c.Document().Node("old")
	assert.False(t, ok)
	assert.Len(t, c.Document().Nodes(), len(inst.Nodes)+1)
	assert.Len(t, c.Document().Edges(), len(inst.Edges))

	_, err = c.ApplyTemplate("missing")
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownTemplate)
}

func TestController_SwitchModeSeedsCode(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddElement(ElementDrop{ID: "t1", Type: entities.ElementText, Name: "Title"})
	require.NoError(t, err)

	require.NoError(t, c.SwitchMode(ModeCode))

	files := c.Document().Files()
	require.Len(t, files, 2)
	assert.Equal(t, "/src/components/Title.tsx", files[0].Path)
	assert.Equal(t, files[0].ID, c.Document().Selection().FileID)
	assert.Equal(t, ModeCode, c.Mode())

	// a second visit keeps the existing files
	version := c.Document().Version()
	require.NoError(t, c.SwitchMode(ModeDesign))
	require.NoError(t, c.SwitchMode(ModeCode))
	assert.Equal(t, version, c.Document().Version())

	assert.ErrorIs(t, c.SwitchMode(Mode("preview")), pkgerrors.ErrUnknownMode)
}

func TestController_RegenerateReportsOverwrites(t *testing.T) {
	c := newTestController(t)
	require.NoError(t, c.SetLanguage(valueobjects.LanguageKotlin))
	_, err := c.AddElement(ElementDrop{ID: "b1", Type: entities.ElementButton, Name: "Go"})
	require.NoError(t, err)
	first, err := c.Regenerate()
	require.NoError(t, err)
	require.Len(t, first.Notices, 1)
	require.NoError(t, c.UpdateFile(first.Files[0].ID, "fun go() {}"))

	second, err := c.Regenerate()

	require.NoError(t, err)
	assert.Equal(t, []string{"/src/components/Go.kt"}, second.Overwritten)
	assert.False(t, c.Document().Files()[0].IsUserEdited())
}

func TestController_SetLanguageRejectsUnknown(t *testing.T) {
	c := newTestController(t)

	err := c.SetLanguage("rust")

	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, valueobjects.LanguageTypeScript, c.Language())
}

func TestController_Preview(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddElement(ElementDrop{ID: "t1", Type: entities.ElementText})
	require.NoError(t, err)
	version := c.Document().Version()

	res, err := c.Preview("t1", valueobjects.LanguageSwift)

	require.NoError(t, err)
	assert.Contains(t, res.Source, "struct Text_t1: View")
	assert.Equal(t, version, c.Document().Version())

	_, err = c.Preview("missing", "")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestController_AddFile(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		dir    string
		path   string
		header string
	}{
		{"typescript", "utils.ts", "/src", "/src/utils.ts", "// utils.ts\n// Created on 2024-03-09\n"},
		{"python", "main.py", "", "/main.py", "# main.py\n# Created on 2024-03-09\n"},
		{"css", "app.css", "/styles", "/styles/app.css", "/* app.css */\n/* Created on 2024-03-09 */\n"},
		{"json", "data.json", "/", "/data.json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)

			f, err := c.AddFile(tt.file, tt.dir)

			require.NoError(t, err)
			assert.Equal(t, tt.path, f.Path)
			assert.Equal(t, tt.header, f.Content)
			assert.Equal(t, f.ID, c.Document().Selection().FileID)
		})
	}

	t.Run("nested name rejected", func(t *testing.T) {
		_, err := newTestController(t).AddFile("a/b.ts", "/")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("duplicate path conflicts", func(t *testing.T) {
		c := newTestController(t)
		_, err := c.AddFile("x.ts", "/")
		require.NoError(t, err)

		_, err = c.AddFile("x.ts", "/")

		assert.True(t, pkgerrors.IsConflict(err))
		assert.Len(t, c.Document().Files(), 1)
	})
}

func TestController_ElementLimit(t *testing.T) {
	cfg := config.DefaultEditorConfig()
	cfg.MaxElements = 1
	c := NewController(aggregates.NewDocument("p1"), "", cfg, nil)
	_, err := c.AddElement(ElementDrop{Type: entities.ElementImage})
	require.NoError(t, err)

	_, err = c.AddElement(ElementDrop{Type: entities.ElementImage})

	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, valueobjects.LanguageTypeScript, c.Language())
}

func TestController_DuplicateRespectsElementLimit(t *testing.T) {
	cfg := config.DefaultEditorConfig()
	cfg.MaxElements = 1
	c := NewController(aggregates.NewDocument("p1"), "", cfg, nil)
	el, err := c.AddElement(ElementDrop{ID: "c1", Type: entities.ElementCard})
	require.NoError(t, err)
	version := c.Document().Version()

	_, err = c.DuplicateElement(el.ID, "c2")

	assert.True(t, pkgerrors.IsValidation(err))
	assert.Len(t, c.Document().Elements(), 1)
	assert.Equal(t, version, c.Document().Version())
}

func TestController_LoadReconciles(t *testing.T) {
	c := newTestController(t)
	el, err := entities.NewDesignElement("in", entities.ElementInput, "Name", valueobjects.Position{})
	require.NoError(t, err)
	snap := aggregates.EmptySnapshot("p1")
	snap.Elements = []entities.DesignElement{el}
	snap.Nodes = []entities.LogicNode{{ID: "node-stale", Type: entities.NodeEvent, SourceElementID: "gone"}}

	require.NoError(t, c.Load(snap))

	nodes := c.Document().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "node-in", nodes[0].ID)
}

func TestController_MoveNode(t *testing.T) {
	c := newTestController(t)
	_, err := c.AddNode(NodeDrop{ID: "n", Kind: "output"})
	require.NoError(t, err)

	require.NoError(t, c.MoveNode("n", 40, 50))

	n, _ := c.Document().Node("n")
	assert.Equal(t, valueobjects.Position{X: 40, Y: 50}, n.Position)
}
