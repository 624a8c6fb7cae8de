package commands

import (
	"appbuilder/domain/core/entities"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// AddNodeCommand drops a logic palette entry on the graph
type AddNodeCommand struct {
	ProjectID string                 `json:"projectId" validate:"required"`
	NodeID    string                 `json:"id" validate:"required,max=128"`
	Kind      string                 `json:"kind" validate:"required,max=64"`
	X         float64                `json:"x"`
	Y         float64                `json:"y"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Validate validates the command
func (c AddNodeCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateNodeCommand moves a node or merges into its data
type UpdateNodeCommand struct {
	ProjectID string             `json:"projectId" validate:"required"`
	NodeID    string             `json:"id" validate:"required"`
	Patch     entities.NodePatch `json:"patch"`
}

// Validate validates the command
func (c UpdateNodeCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Patch.IsEmpty() {
		return pkgerrors.NewValidationError("patch changes nothing")
	}
	return nil
}

// RemoveNodeCommand deletes a node and its edges
type RemoveNodeCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	NodeID    string `json:"id" validate:"required"`
}

// Validate validates the command
func (c RemoveNodeCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ConnectCommand adds an edge between two nodes
type ConnectCommand struct {
	ProjectID    string                 `json:"projectId" validate:"required"`
	EdgeID       string                 `json:"id" validate:"required,max=128"`
	Source       string                 `json:"source" validate:"required"`
	Target       string                 `json:"target" validate:"required"`
	SourceHandle string                 `json:"sourceHandle,omitempty"`
	TargetHandle string                 `json:"targetHandle,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// Validate validates the command
func (c ConnectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DisconnectCommand removes an edge
type DisconnectCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	EdgeID    string `json:"id" validate:"required"`
}

// Validate validates the command
func (c DisconnectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ApplyTemplateCommand replaces the user logic graph with a prebuilt flow
type ApplyTemplateCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	Template  string `json:"template" validate:"required"`
}

// Validate validates the command
func (c ApplyTemplateCommand) Validate() error {
	return utils.ValidateStruct(c)
}
