// Package handlers executes editor commands against open sessions.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"appbuilder/application/commands"
	"appbuilder/application/commands/bus"
	"appbuilder/application/ports"
	"appbuilder/application/services"
	"appbuilder/application/session"
	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/domain/templates"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// DocumentHandlers routes editor commands to the session registry
type DocumentHandlers struct {
	registry *services.SessionRegistry
	projects ports.ProjectRepository
	clock    utils.Clock
	logger   *zap.Logger
}

// NewDocumentHandlers creates the handler set
func NewDocumentHandlers(
	registry *services.SessionRegistry,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *DocumentHandlers {
	return &DocumentHandlers{
		registry: registry,
		projects: projects,
		clock:    utils.SystemClock,
		logger:   logger,
	}
}

// handle adapts a typed handler function to the bus
func handle[C bus.Command](fn func(context.Context, C) (interface{}, error)) bus.CommandHandler {
	return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) (interface{}, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("invalid command type %T", cmd)
		}
		return fn(ctx, typed)
	})
}

// Register registers every editor command on the bus
func (h *DocumentHandlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.AddElementCommand{}, handle(h.addElement)},
		{commands.UpdateElementCommand{}, handle(h.updateElement)},
		{commands.MoveElementCommand{}, handle(h.moveElement)},
		{commands.ResizeElementCommand{}, handle(h.resizeElement)},
		{commands.DuplicateElementCommand{}, handle(h.duplicateElement)},
		{commands.RemoveElementCommand{}, handle(h.removeElement)},
		{commands.SelectCommand{}, handle(h.selectEntity)},
		{commands.SwitchModeCommand{}, handle(h.switchMode)},
		{commands.AddNodeCommand{}, handle(h.addNode)},
		{commands.UpdateNodeCommand{}, handle(h.updateNode)},
		{commands.RemoveNodeCommand{}, handle(h.removeNode)},
		{commands.ConnectCommand{}, handle(h.connect)},
		{commands.DisconnectCommand{}, handle(h.disconnect)},
		{commands.ApplyTemplateCommand{}, handle(h.applyTemplate)},
		{commands.AddFileCommand{}, handle(h.addFile)},
		{commands.UpdateFileCommand{}, handle(h.updateFile)},
		{commands.RemoveFileCommand{}, handle(h.removeFile)},
		{commands.RegenerateCommand{}, handle(h.regenerate)},
		{commands.CreateProjectCommand{}, handle(h.createProject)},
		{commands.CloseSessionCommand{}, handle(h.closeSession)},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// Design

func (h *DocumentHandlers) addElement(ctx context.Context, cmd commands.AddElementCommand) (interface{}, error) {
	drop := session.ElementDrop{
		ID:   cmd.ElementID,
		Type: entities.ElementType(cmd.Type),
		Name: cmd.Name,
	}
	if cmd.X != nil && cmd.Y != nil {
		pos, err := valueobjects.NewPosition(*cmd.X, *cmd.Y)
		if err != nil {
			return nil, err
		}
		drop.Position = &pos
	}

	var el entities.DesignElement
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		el, err = c.AddElement(drop)
		return err
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// elementAfter runs fn and returns the element as it stands afterwards
func (h *DocumentHandlers) elementAfter(ctx context.Context, projectID, elementID string, fn func(*session.Controller) error) (interface{}, error) {
	var el entities.DesignElement
	err := h.registry.Do(ctx, projectID, func(c *session.Controller) error {
		if err := fn(c); err != nil {
			return err
		}
		el, _ = c.Document().Element(elementID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (h *DocumentHandlers) updateElement(ctx context.Context, cmd commands.UpdateElementCommand) (interface{}, error) {
	return h.elementAfter(ctx, cmd.ProjectID, cmd.ElementID, func(c *session.Controller) error {
		return c.UpdateElement(cmd.ElementID, cmd.Patch)
	})
}

func (h *DocumentHandlers) moveElement(ctx context.Context, cmd commands.MoveElementCommand) (interface{}, error) {
	return h.elementAfter(ctx, cmd.ProjectID, cmd.ElementID, func(c *session.Controller) error {
		return c.MoveElement(cmd.ElementID, cmd.X, cmd.Y)
	})
}

func (h *DocumentHandlers) resizeElement(ctx context.Context, cmd commands.ResizeElementCommand) (interface{}, error) {
	return h.elementAfter(ctx, cmd.ProjectID, cmd.ElementID, func(c *session.Controller) error {
		return c.ResizeElement(cmd.ElementID, cmd.Width, cmd.Height)
	})
}

func (h *DocumentHandlers) duplicateElement(ctx context.Context, cmd commands.DuplicateElementCommand) (interface{}, error) {
	return h.elementAfter(ctx, cmd.ProjectID, cmd.NewID, func(c *session.Controller) error {
		_, err := c.DuplicateElement(cmd.ElementID, cmd.NewID)
		return err
	})
}

func (h *DocumentHandlers) removeElement(ctx context.Context, cmd commands.RemoveElementCommand) (interface{}, error) {
	return nil, h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		return c.RemoveElement(cmd.ElementID)
	})
}

func (h *DocumentHandlers) selectEntity(ctx context.Context, cmd commands.SelectCommand) (interface{}, error) {
	var sel aggregates.Selection
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		switch cmd.Kind {
		case commands.SelectElement:
			err = c.SelectElement(cmd.ID)
		case commands.SelectNode:
			err = c.SelectNode(cmd.ID)
		case commands.SelectEdge:
			err = c.SelectEdge(cmd.ID)
		case commands.SelectFile:
			err = c.OpenFile(cmd.ID)
		default:
			err = pkgerrors.NewValidationError("unknown selection kind: " + cmd.Kind)
		}
		sel = c.Document().Selection()
		return err
	})
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// ModeResult is the editor state after a mode switch
type ModeResult struct {
	Mode     session.Mode          `json:"mode"`
	Language valueobjects.Language `json:"language"`
	Files    int                   `json:"files"`
}

func (h *DocumentHandlers) switchMode(ctx context.Context, cmd commands.SwitchModeCommand) (interface{}, error) {
	var res ModeResult
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		if cmd.Language != "" {
			if err := c.SetLanguage(valueobjects.Language(cmd.Language)); err != nil {
				return err
			}
		}
		if err := c.SwitchMode(session.Mode(cmd.Mode)); err != nil {
			return err
		}
		res = ModeResult{Mode: c.Mode(), Language: c.Language(), Files: len(c.Document().Files())}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Logic

func (h *DocumentHandlers) addNode(ctx context.Context, cmd commands.AddNodeCommand) (interface{}, error) {
	pos, err := valueobjects.NewPosition(cmd.X, cmd.Y)
	if err != nil {
		return nil, err
	}
	var n entities.LogicNode
	err = h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		n, err = c.AddNode(session.NodeDrop{ID: cmd.NodeID, Kind: cmd.Kind, Position: pos, Data: cmd.Data})
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (h *DocumentHandlers) updateNode(ctx context.Context, cmd commands.UpdateNodeCommand) (interface{}, error) {
	var n entities.LogicNode
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		if err := c.UpdateNode(cmd.NodeID, cmd.Patch); err != nil {
			return err
		}
		n, _ = c.Document().Node(cmd.NodeID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (h *DocumentHandlers) removeNode(ctx context.Context, cmd commands.RemoveNodeCommand) (interface{}, error) {
	return nil, h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		return c.RemoveNode(cmd.NodeID)
	})
}

func (h *DocumentHandlers) connect(ctx context.Context, cmd commands.ConnectCommand) (interface{}, error) {
	var e entities.LogicEdge
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		e, err = c.Connect(session.Connection{
			ID:           cmd.EdgeID,
			Source:       cmd.Source,
			Target:       cmd.Target,
			SourceHandle: cmd.SourceHandle,
			TargetHandle: cmd.TargetHandle,
			Data:         cmd.Data,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (h *DocumentHandlers) disconnect(ctx context.Context, cmd commands.DisconnectCommand) (interface{}, error) {
	return nil, h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		return c.Disconnect(cmd.EdgeID)
	})
}

func (h *DocumentHandlers) applyTemplate(ctx context.Context, cmd commands.ApplyTemplateCommand) (interface{}, error) {
	var inst templates.Instance
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		inst, err = c.ApplyTemplate(cmd.Template)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// Code

func (h *DocumentHandlers) addFile(ctx context.Context, cmd commands.AddFileCommand) (interface{}, error) {
	var f entities.CodeFile
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		var err error
		f, err = c.AddFile(cmd.Name, cmd.Directory)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *DocumentHandlers) updateFile(ctx context.Context, cmd commands.UpdateFileCommand) (interface{}, error) {
	var f entities.CodeFile
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		if err := c.UpdateFile(cmd.FileID, cmd.Content); err != nil {
			return err
		}
		f, _ = c.Document().File(cmd.FileID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *DocumentHandlers) removeFile(ctx context.Context, cmd commands.RemoveFileCommand) (interface{}, error) {
	return nil, h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		return c.RemoveFile(cmd.FileID)
	})
}

func (h *DocumentHandlers) regenerate(ctx context.Context, cmd commands.RegenerateCommand) (interface{}, error) {
	var res session.RegenerateResult
	err := h.registry.Do(ctx, cmd.ProjectID, func(c *session.Controller) error {
		if cmd.Language != "" {
			if err := c.SetLanguage(valueobjects.Language(cmd.Language)); err != nil {
				return err
			}
		}
		var err error
		res, err = c.Regenerate()
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Projects

func (h *DocumentHandlers) createProject(ctx context.Context, cmd commands.CreateProjectCommand) (interface{}, error) {
	if h.projects == nil {
		return nil, pkgerrors.NewUnavailableError("project store")
	}
	if existing, err := h.projects.Get(ctx, cmd.ProjectID); err == nil && existing != nil {
		return nil, pkgerrors.NewDuplicateIDError("project", cmd.ProjectID)
	} else if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	project, err := entities.NewProjectDescriptor(
		cmd.ProjectID,
		cmd.Name,
		cmd.Description,
		valueobjects.Platform(cmd.Platform),
		valueobjects.Language(cmd.Language),
		h.clock().UTC(),
	)
	if err != nil {
		return nil, err
	}
	if err := h.projects.Save(ctx, project); err != nil {
		return nil, err
	}
	h.logger.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("language", string(project.Language)))
	return project, nil
}

func (h *DocumentHandlers) closeSession(ctx context.Context, cmd commands.CloseSessionCommand) (interface{}, error) {
	return nil, h.registry.Close(ctx, cmd.ProjectID)
}
