package commands

import "appbuilder/pkg/utils"

// CreateProjectCommand stores a new project descriptor
type CreateProjectCommand struct {
	ProjectID   string `json:"id" validate:"required,max=128"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Platform    string `json:"platform" validate:"required,oneof=web mobile desktop"`
	Language    string `json:"language" validate:"required,oneof=typescript javascript swift python kotlin"`
}

// Validate validates the command
func (c CreateProjectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// CloseSessionCommand drops a project's in-memory session
type CloseSessionCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// Validate validates the command
func (c CloseSessionCommand) Validate() error {
	return utils.ValidateStruct(c)
}
