package entities

import (
	"time"

	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// ProjectDescriptor is the metadata of an application being built
type ProjectDescriptor struct {
	ID          string                `json:"id" validate:"required"`
	Name        string                `json:"name" validate:"required,max=200"`
	Description string                `json:"description,omitempty" validate:"max=2000"`
	Platform    valueobjects.Platform `json:"platform" validate:"required,oneof=web mobile desktop"`
	Language    valueobjects.Language `json:"language" validate:"required,oneof=typescript javascript swift python kotlin"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewProjectDescriptor creates a validated descriptor
func NewProjectDescriptor(id, name, description string, platform valueobjects.Platform, language valueobjects.Language, now time.Time) (ProjectDescriptor, error) {
	p := ProjectDescriptor{
		ID:          id,
		Name:        name,
		Description: description,
		Platform:    platform,
		Language:    language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return ProjectDescriptor{}, err
	}
	return p, nil
}

// Validate runs the struct tags plus the language table check
func (p ProjectDescriptor) Validate() error {
	if err := utils.ValidateStruct(p); err != nil {
		return err
	}
	if !p.Language.IsValid() {
		return pkgerrors.NewValidationError("unsupported language: " + string(p.Language))
	}
	return nil
}
