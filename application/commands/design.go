// Package commands holds the write-side commands of the editor. Ids of
// created entities are minted by the caller so a command can be retried.
package commands

import (
	"appbuilder/domain/core/entities"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// AddElementCommand drops a palette element on the canvas
type AddElementCommand struct {
	ProjectID string   `json:"projectId" validate:"required"`
	ElementID string   `json:"id" validate:"required,max=128"`
	Type      string   `json:"type" validate:"required"`
	Name      string   `json:"name" validate:"max=200"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// Validate validates the command
func (c AddElementCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if !entities.ElementType(c.Type).IsValid() {
		return pkgerrors.NewValidationError("unknown element type: " + c.Type)
	}
	if (c.X == nil) != (c.Y == nil) {
		return pkgerrors.NewValidationError("x and y must be given together")
	}
	return nil
}

// UpdateElementCommand applies a partial update to an element
type UpdateElementCommand struct {
	ProjectID string                `json:"projectId" validate:"required"`
	ElementID string                `json:"id" validate:"required"`
	Patch     entities.ElementPatch `json:"patch"`
}

// Validate validates the command
func (c UpdateElementCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Patch.IsEmpty() {
		return pkgerrors.NewValidationError("patch changes nothing")
	}
	return nil
}

// MoveElementCommand is one drag gesture event
type MoveElementCommand struct {
	ProjectID string  `json:"projectId" validate:"required"`
	ElementID string  `json:"id" validate:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Validate validates the command
func (c MoveElementCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ResizeElementCommand is one resize gesture event
type ResizeElementCommand struct {
	ProjectID string  `json:"projectId" validate:"required"`
	ElementID string  `json:"id" validate:"required"`
	Width     float64 `json:"width" validate:"gte=0"`
	Height    float64 `json:"height" validate:"gte=0"`
}

// Validate validates the command
func (c ResizeElementCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DuplicateElementCommand copies an element under NewID
type DuplicateElementCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	ElementID string `json:"id" validate:"required"`
	NewID     string `json:"newId" validate:"required,max=128,nefield=ElementID"`
}

// Validate validates the command
func (c DuplicateElementCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RemoveElementCommand deletes an element and its derived logic
type RemoveElementCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	ElementID string `json:"id" validate:"required"`
}

// Validate validates the command
func (c RemoveElementCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// Selection kinds accepted by SelectCommand
const (
	SelectElement = "element"
	SelectNode    = "node"
	SelectEdge    = "edge"
	SelectFile    = "file"
)

// SelectCommand focuses an entity. An empty ID clears the selection.
type SelectCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=element node edge file"`
	ID        string `json:"id"`
}

// Validate validates the command
func (c SelectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// SwitchModeCommand activates an editor view and optionally changes the
// generation language
type SwitchModeCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=design logic code"`
	Language  string `json:"language,omitempty" validate:"omitempty,oneof=typescript javascript swift python kotlin"`
}

// Validate validates the command
func (c SwitchModeCommand) Validate() error {
	return utils.ValidateStruct(c)
}
