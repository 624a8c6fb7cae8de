package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

type validatable interface {
	Validate() error
}

func TestCommandValidation(t *testing.T) {
	x, y := 10.0, 20.0

	tests := []struct {
		name    string
		cmd     validatable
		wantErr bool
	}{
		{"add element", AddElementCommand{ProjectID: "p", ElementID: "e", Type: "button"}, false},
		{"add element with position", AddElementCommand{ProjectID: "p", ElementID: "e", Type: "text", X: &x, Y: &y}, false},
		{"add element half position", AddElementCommand{ProjectID: "p", ElementID: "e", Type: "text", X: &x}, true},
		{"add element unknown type", AddElementCommand{ProjectID: "p", ElementID: "e", Type: "slider"}, true},
		{"add element missing project", AddElementCommand{ElementID: "e", Type: "button"}, true},
		{"update element empty patch", UpdateElementCommand{ProjectID: "p", ElementID: "e"}, true},
		{"update element", UpdateElementCommand{ProjectID: "p", ElementID: "e", Patch: entities.ElementPatch{Name: valueobjects.Ptr("New")}}, false},
		{"resize negative", ResizeElementCommand{ProjectID: "p", ElementID: "e", Width: -1, Height: 5}, true},
		{"resize", ResizeElementCommand{ProjectID: "p", ElementID: "e", Width: 0, Height: 5}, false},
		{"duplicate onto itself", DuplicateElementCommand{ProjectID: "p", ElementID: "e", NewID: "e"}, true},
		{"duplicate", DuplicateElementCommand{ProjectID: "p", ElementID: "e", NewID: "e2"}, false},
		{"select unknown kind", SelectCommand{ProjectID: "p", Kind: "page"}, true},
		{"select clears", SelectCommand{ProjectID: "p", Kind: "node"}, false},
		{"switch mode", SwitchModeCommand{ProjectID: "p", Mode: "code", Language: "swift"}, false},
		{"switch mode unknown language", SwitchModeCommand{ProjectID: "p", Mode: "code", Language: "rust"}, true},
		{"switch mode unknown mode", SwitchModeCommand{ProjectID: "p", Mode: "preview"}, true},
		{"add node", AddNodeCommand{ProjectID: "p", NodeID: "n", Kind: "api"}, false},
		{"add node without kind", AddNodeCommand{ProjectID: "p", NodeID: "n"}, true},
		{"update node empty patch", UpdateNodeCommand{ProjectID: "p", NodeID: "n"}, true},
		{"connect missing target", ConnectCommand{ProjectID: "p", EdgeID: "e", Source: "a"}, true},
		{"connect", ConnectCommand{ProjectID: "p", EdgeID: "e", Source: "a", Target: "b"}, false},
		{"apply template", ApplyTemplateCommand{ProjectID: "p", Template: "auth-flow"}, false},
		{"add file", AddFileCommand{ProjectID: "p", Name: "App.tsx", Directory: "/src"}, false},
		{"add file nested name", AddFileCommand{ProjectID: "p", Name: "src/App.tsx"}, true},
		{"add file relative dir", AddFileCommand{ProjectID: "p", Name: "App.tsx", Directory: "src"}, true},
		{"regenerate", RegenerateCommand{ProjectID: "p"}, false},
		{"create project", CreateProjectCommand{ProjectID: "p", Name: "Shop", Platform: "web", Language: "typescript"}, false},
		{"create project bad platform", CreateProjectCommand{ProjectID: "p", Name: "Shop", Platform: "tv", Language: "typescript"}, true},
		{"close session", CloseSessionCommand{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err), "want validation error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
