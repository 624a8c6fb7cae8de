package config

import (
	"fmt"

	"appbuilder/domain/core/valueobjects"
)

// EditorConfig holds the editor's tunable defaults and limits
type EditorConfig struct {
	// Canvas defaults
	DefaultDropPosition valueobjects.Position `yaml:"default_drop_position" json:"defaultDropPosition"`
	DuplicateOffset     float64               `yaml:"duplicate_offset" json:"duplicateOffset"`

	// Reconciliation
	DerivedNodeOffsetX float64 `yaml:"derived_node_offset_x" json:"derivedNodeOffsetX"`

	// Code generation
	DefaultLanguage valueobjects.Language `yaml:"default_language" json:"defaultLanguage"`

	// Document limits
	MaxElements int `yaml:"max_elements" json:"maxElements"`
	MaxNodes    int `yaml:"max_nodes" json:"maxNodes"`
	MaxEdges    int `yaml:"max_edges" json:"maxEdges"`
	MaxFiles    int `yaml:"max_files" json:"maxFiles"`

	// Preview cache
	PreviewCacheSize int `yaml:"preview_cache_size" json:"previewCacheSize"`
}

// DefaultEditorConfig returns the default editor configuration
func DefaultEditorConfig() *EditorConfig {
	return &EditorConfig{
		DefaultDropPosition: valueobjects.Position{X: 100, Y: 100},
		DuplicateOffset:     20,
		DerivedNodeOffsetX:  300,
		DefaultLanguage:     valueobjects.LanguageTypeScript,

		MaxElements: 2000,
		MaxNodes:    5000,
		MaxEdges:    10000,
		MaxFiles:    1000,

		PreviewCacheSize: 256,
	}
}

// ProductionEditorConfig tightens the document limits
func ProductionEditorConfig() *EditorConfig {
	config := DefaultEditorConfig()

	config.MaxElements = 1000
	config.MaxNodes = 2500
	config.MaxEdges = 5000
	config.MaxFiles = 500

	return config
}

// DevelopmentEditorConfig relaxes the limits for local work
func DevelopmentEditorConfig() *EditorConfig {
	config := DefaultEditorConfig()

	config.MaxElements = 100000
	config.MaxNodes = 100000
	config.MaxEdges = 500000
	config.MaxFiles = 10000
	config.PreviewCacheSize = 32

	return config
}

// LoadEditorConfig picks the profile for an environment
func LoadEditorConfig(environment string) *EditorConfig {
	switch environment {
	case "production":
		return ProductionEditorConfig()
	case "development":
		return DevelopmentEditorConfig()
	default:
		return DefaultEditorConfig()
	}
}

// Validate checks if the configuration is valid
func (c *EditorConfig) Validate() error {
	if c.DerivedNodeOffsetX <= 0 {
		return fmt.Errorf("derived_node_offset_x must be positive, got %v", c.DerivedNodeOffsetX)
	}
	if c.DuplicateOffset < 0 {
		return fmt.Errorf("duplicate_offset cannot be negative, got %v", c.DuplicateOffset)
	}
	if !c.DefaultLanguage.IsValid() {
		return fmt.Errorf("unsupported default_language %q", c.DefaultLanguage)
	}
	if c.MaxElements <= 0 || c.MaxNodes <= 0 || c.MaxEdges <= 0 || c.MaxFiles <= 0 {
		return fmt.Errorf("document limits must be positive")
	}
	if c.PreviewCacheSize < 0 {
		return fmt.Errorf("preview_cache_size cannot be negative")
	}
	return nil
}
