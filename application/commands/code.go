package commands

import (
	"path"

	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// AddFileCommand creates a user code file
type AddFileCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Directory string `json:"directory,omitempty" validate:"omitempty,startswith=/"`
}

// Validate validates the command
func (c AddFileCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if path.Base(c.Name) != c.Name {
		return pkgerrors.NewValidationError("name must not contain a directory")
	}
	return nil
}

// UpdateFileCommand replaces a file's content
type UpdateFileCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	FileID    string `json:"id" validate:"required"`
	Content   string `json:"content" validate:"max=1048576"`
}

// Validate validates the command
func (c UpdateFileCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RemoveFileCommand deletes a file
type RemoveFileCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	FileID    string `json:"id" validate:"required"`
}

// Validate validates the command
func (c RemoveFileCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RegenerateCommand replaces every file with freshly generated code
type RegenerateCommand struct {
	ProjectID string `json:"projectId" validate:"required"`
	Language  string `json:"language,omitempty" validate:"omitempty,oneof=typescript javascript swift python kotlin"`
}

// Validate validates the command
func (c RegenerateCommand) Validate() error {
	return utils.ValidateStruct(c)
}
