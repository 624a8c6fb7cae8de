package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appbuilder/application/commands"
	"appbuilder/application/commands/bus"
	"appbuilder/application/services"
	"appbuilder/application/session"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/templates"
	"appbuilder/infrastructure/persistence/memory"
	pkgerrors "appbuilder/pkg/errors"
)

type fixture struct {
	bus      *bus.CommandBus
	docs     *memory.DocumentRepository
	projects *memory.ProjectRepository
	registry *services.SessionRegistry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	docs := memory.NewDocumentRepository()
	projects := memory.NewProjectRepository()
	registry := services.NewSessionRegistry(docs, projects, nil, nil, zap.NewNop())
	services.RegisterDocumentHooks(registry.Hooks(), docs, nil, nil, zap.NewNop())

	h := NewDocumentHandlers(registry, projects, zap.NewNop())
	h.clock = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	b := bus.NewCommandBus()
	require.NoError(t, h.Register(b))
	return fixture{bus: b, docs: docs, projects: projects, registry: registry}
}

func (f fixture) send(t *testing.T, cmd bus.Command) interface{} {
	t.Helper()
	result, err := f.bus.Send(context.Background(), cmd)
	require.NoError(t, err)
	return result
}

func (f fixture) stored(t *testing.T, projectID string) *aggregates.Snapshot {
	t.Helper()
	snap, err := f.docs.Load(context.Background(), projectID)
	require.NoError(t, err)
	return snap
}

func TestDocumentHandlers_DesignFlow(t *testing.T) {
	f := newFixture(t)
	x, y := 40.0, 60.0

	added := f.send(t, commands.AddElementCommand{ProjectID: "p1", ElementID: "b1", Type: "button", Name: "Buy", X: &x, Y: &y})
	el, ok := added.(entities.DesignElement)
	require.True(t, ok)
	assert.Equal(t, valueobjects.Position{X: 40, Y: 60}, el.Position)

	moved := f.send(t, commands.MoveElementCommand{ProjectID: "p1", ElementID: "b1", X: 5, Y: 6}).(entities.DesignElement)
	assert.Equal(t, valueobjects.Position{X: 5, Y: 6}, moved.Position)

	resized := f.send(t, commands.ResizeElementCommand{ProjectID: "p1", ElementID: "b1", Width: 90, Height: 30}).(entities.DesignElement)
	assert.Equal(t, valueobjects.Size{Width: 90, Height: 30}, resized.Size)

	updated := f.send(t, commands.UpdateElementCommand{
		ProjectID: "p1",
		ElementID: "b1",
		Patch:     entities.ElementPatch{Props: map[string]interface{}{"text": "Pay"}},
	}).(entities.DesignElement)
	assert.Equal(t, "Pay", updated.Props["text"])

	dup := f.send(t, commands.DuplicateElementCommand{ProjectID: "p1", ElementID: "b1", NewID: "b2"}).(entities.DesignElement)
	assert.Equal(t, "b2", dup.ID)

	snap := f.stored(t, "p1")
	assert.Len(t, snap.Elements, 2)
	assert.Len(t, snap.Nodes, 2)

	f.send(t, commands.RemoveElementCommand{ProjectID: "p1", ElementID: "b1"})
	snap = f.stored(t, "p1")
	assert.Len(t, snap.Elements, 1)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "node-b2", snap.Nodes[0].ID)
}

func TestDocumentHandlers_DuplicateIDRejected(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.AddElementCommand{ProjectID: "p1", ElementID: "e", Type: "text"})

	_, err := f.bus.Send(context.Background(), commands.AddElementCommand{ProjectID: "p1", ElementID: "e", Type: "text"})

	assert.True(t, pkgerrors.IsDuplicateID(err))
}

func TestDocumentHandlers_LogicFlow(t *testing.T) {
	f := newFixture(t)

	a := f.send(t, commands.AddNodeCommand{ProjectID: "p1", NodeID: "a", Kind: "event", X: 1, Y: 2}).(entities.LogicNode)
	assert.Equal(t, entities.NodeEvent, a.Type)
	f.send(t, commands.AddNodeCommand{ProjectID: "p1", NodeID: "b", Kind: "api"})

	edge := f.send(t, commands.ConnectCommand{ProjectID: "p1", EdgeID: "e1", Source: "a", Target: "b"}).(entities.LogicEdge)
	assert.Equal(t, "e1", edge.ID)

	sel := f.send(t, commands.SelectCommand{ProjectID: "p1", Kind: commands.SelectEdge, ID: "e1"}).(aggregates.Selection)
	assert.Equal(t, "e1", sel.EdgeID)

	moved := f.send(t, commands.UpdateNodeCommand{
		ProjectID: "p1",
		NodeID:    "b",
		Patch:     entities.NodePatch{Data: map[string]interface{}{"endpoint": "/api/items"}},
	}).(entities.LogicNode)
	assert.Equal(t, "/api/items", moved.Data["endpoint"])

	f.send(t, commands.DisconnectCommand{ProjectID: "p1", EdgeID: "e1"})
	f.send(t, commands.RemoveNodeCommand{ProjectID: "p1", NodeID: "a"})

	snap := f.stored(t, "p1")
	assert.Empty(t, snap.Edges)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "b", snap.Nodes[0].ID)
	assert.Empty(t, snap.Selection.EdgeID)
}

func TestDocumentHandlers_ApplyTemplate(t *testing.T) {
	f := newFixture(t)

	inst := f.send(t, commands.ApplyTemplateCommand{ProjectID: "p1", Template: "api-fetch"}).(templates.Instance)

	assert.Len(t, inst.Nodes, 7)
	snap := f.stored(t, "p1")
	assert.Len(t, snap.Nodes, 7)
	assert.Len(t, snap.Edges, 7)

	_, err := f.bus.Send(context.Background(), commands.ApplyTemplateCommand{ProjectID: "p1", Template: "nope"})
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownTemplate)
}

func TestDocumentHandlers_CodeFlow(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.AddElementCommand{ProjectID: "p1", ElementID: "t1", Type: "text", Name: "Heading"})

	mode := f.send(t, commands.SwitchModeCommand{ProjectID: "p1", Mode: "code", Language: "python"}).(ModeResult)
	assert.Equal(t, session.ModeCode, mode.Mode)
	assert.Equal(t, valueobjects.LanguagePython, mode.Language)
	assert.Equal(t, 2, mode.Files)

	file := f.send(t, commands.AddFileCommand{ProjectID: "p1", Name: "helpers.py", Directory: "/src"}).(entities.CodeFile)
	assert.Equal(t, "/src/helpers.py", file.Path)
	assert.Equal(t, "# helpers.py\n# Created on "+time.Now().UTC().Format("2006-01-02")+"\n", file.Content)

	edited := f.send(t, commands.UpdateFileCommand{ProjectID: "p1", FileID: file.ID, Content: "x = 1\n"}).(entities.CodeFile)
	assert.Equal(t, "x = 1\n", edited.Content)

	regen := f.send(t, commands.RegenerateCommand{ProjectID: "p1", Language: "typescript"}).(session.RegenerateResult)
	assert.Equal(t, []string{"/src/helpers.py"}, regen.Overwritten)
	assert.Len(t, regen.Files, 2)

	f.send(t, commands.RemoveFileCommand{ProjectID: "p1", FileID: regen.Files[1].ID})
	assert.Len(t, f.stored(t, "p1").Files, 1)
}

func TestDocumentHandlers_CreateProject(t *testing.T) {
	f := newFixture(t)
	cmd := commands.CreateProjectCommand{ProjectID: "shop", Name: "Shop", Platform: "web", Language: "javascript"}

	project := f.send(t, cmd).(entities.ProjectDescriptor)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), project.CreatedAt)
	assert.Equal(t, []string{"shop"}, f.projects.IDs())

	_, err := f.bus.Send(context.Background(), cmd)
	assert.True(t, pkgerrors.IsDuplicateID(err))

	mode := f.send(t, commands.SwitchModeCommand{ProjectID: "shop", Mode: "design"}).(ModeResult)
	assert.Equal(t, valueobjects.LanguageJavaScript, mode.Language)
}

func TestDocumentHandlers_CloseSession(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.AddElementCommand{ProjectID: "p1", ElementID: "e", Type: "card"})
	require.Equal(t, []string{"p1"}, f.registry.Projects())

	f.send(t, commands.CloseSessionCommand{ProjectID: "p1"})

	assert.Empty(t, f.registry.Projects())
}
