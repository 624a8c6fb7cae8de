package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

func TestNewDesignElement(t *testing.T) {
	t.Run("applies palette defaults", func(t *testing.T) {
		el, err := NewDesignElement("b1", ElementButton, "", valueobjects.Position{X: 10, Y: 20})

		require.NoError(t, err)
		assert.Equal(t, "Button", el.Name)
		assert.Equal(t, valueobjects.Size{Width: 150, Height: 40}, el.Size)
		assert.Equal(t, "Button", el.Props["text"])
		require.NotNil(t, el.Style.BorderRadius)
		assert.Equal(t, 4.0, *el.Style.BorderRadius)
		assert.True(t, el.IsVisible())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewDesignElement("x", ElementType("slider"), "", valueobjects.Position{})

		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := NewDesignElement("", ElementText, "", valueobjects.Position{})

		assert.Error(t, err)
	})
}

func TestDesignElementApply(t *testing.T) {
	el, err := NewDesignElement("t1", ElementText, "Title", valueobjects.Position{})
	require.NoError(t, err)
	el.Props["extra"] = "keep-me"

	tests := []struct {
		name    string
		patch   ElementPatch
		wantErr bool
		check   func(t *testing.T, out DesignElement)
	}{
		{
			name:  "props merge key by key",
			patch: ElementPatch{Props: map[string]interface{}{"text": "Hello"}},
			check: func(t *testing.T, out DesignElement) {
				assert.Equal(t, "Hello", out.Props["text"])
				assert.Equal(t, "keep-me", out.Props["extra"])
			},
		},
		{
			name:  "nil prop value deletes the key",
			patch: ElementPatch{Props: map[string]interface{}{"extra": nil}},
			check: func(t *testing.T, out DesignElement) {
				_, ok := out.Props["extra"]
				assert.False(t, ok)
			},
		},
		{
			name:  "empty string prop is kept",
			patch: ElementPatch{Props: map[string]interface{}{"text": ""}},
			check: func(t *testing.T, out DesignElement) {
				v, ok := out.Props["text"]
				assert.True(t, ok)
				assert.Equal(t, "", v)
			},
		},
		{
			name:  "style merges field by field",
			patch: ElementPatch{Style: &valueobjects.Style{Color: valueobjects.Ptr("#ff0000")}},
			check: func(t *testing.T, out DesignElement) {
				assert.Equal(t, "#ff0000", *out.Style.Color)
				assert.Equal(t, "Inter", *out.Style.FontFamily)
			},
		},
		{
			name:    "negative size is rejected",
			patch:   ElementPatch{Size: &valueobjects.Size{Width: -5, Height: 10}},
			wantErr: true,
		},
		{
			name:  "visibility toggles",
			patch: ElementPatch{Visible: valueobjects.Ptr(false)},
			check: func(t *testing.T, out DesignElement) {
				assert.False(t, out.IsVisible())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := el.Apply(tt.patch)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}

	assert.Equal(t, "Text content", el.Props["text"], "apply must not mutate the receiver")
}

func TestDesignElementDuplicate(t *testing.T) {
	el, err := NewDesignElement("c1", ElementCard, "Card", valueobjects.Position{X: 100, Y: 50})
	require.NoError(t, err)

	dup, err := el.Duplicate("c2", 20)

	require.NoError(t, err)
	assert.Equal(t, "c2", dup.ID)
	assert.Equal(t, "Card (copy)", dup.Name)
	assert.Equal(t, valueobjects.Position{X: 120, Y: 70}, dup.Position)
	assert.Equal(t, el.Size, dup.Size)

	dup.Props["title"] = "Changed"
	assert.Equal(t, "Card Title", el.Props["title"])
}

func TestDesignElementFlatGeometry(t *testing.T) {
	el, err := NewDesignElement("i1", ElementImage, "", valueobjects.Position{X: 5, Y: 6})
	require.NoError(t, err)

	flat := el.FlatGeometry()

	assert.Equal(t, valueobjects.FlatGeometry{X: 5, Y: 6, Width: 200, Height: 150}, flat)
}

func TestNewLogicNodeMergesDefaults(t *testing.T) {
	n, err := NewLogicNode("n1", NodeAPI, valueobjects.Position{}, map[string]interface{}{"method": "POST"})

	require.NoError(t, err)
	assert.Equal(t, "POST", n.Data["method"])
	assert.Equal(t, "/api", n.Data["endpoint"])
	assert.False(t, n.IsDerived())
}

func TestLogicNodeApply(t *testing.T) {
	n, err := NewLogicNode("n1", NodeState, valueobjects.Position{X: 1, Y: 1}, map[string]interface{}{"label": "Counter"})
	require.NoError(t, err)

	out, err := n.Apply(NodePatch{
		Position: &valueobjects.Position{X: 50, Y: 60},
		Data:     map[string]interface{}{"label": "Total"},
	})

	require.NoError(t, err)
	assert.Equal(t, valueobjects.Position{X: 50, Y: 60}, out.Position)
	assert.Equal(t, "Total", out.Label())
	assert.Equal(t, "Counter", n.Label())
	assert.NotNil(t, out.Data["fields"])
}

func TestLogicNodeValidate(t *testing.T) {
	assert.Error(t, LogicNode{Type: NodeState}.Validate())
	assert.Error(t, LogicNode{ID: "n"}.Validate())
	assert.NoError(t, LogicNode{ID: "n", Type: NodeType("custom")}.Validate())
}

func TestLogicEdge(t *testing.T) {
	e, err := NewLogicEdge("e1", "a", "b")
	require.NoError(t, err)

	e = e.WithHandles(HandleTrue, "")

	assert.True(t, e.Touches("a"))
	assert.True(t, e.Touches("b"))
	assert.False(t, e.Touches("c"))
	assert.Equal(t, HandleTrue, e.SourceHandle)

	_, err = NewLogicEdge("e2", "", "b")
	assert.Error(t, err)
}

func TestCodeFile(t *testing.T) {
	t.Run("user file path is normalized", func(t *testing.T) {
		f, err := NewUserFile("f1", `src\components\..\App.tsx`, "export {}")

		require.NoError(t, err)
		assert.Equal(t, "/src/App.tsx", f.Path)
		assert.Equal(t, "App.tsx", f.Name)
		assert.Equal(t, "typescript", f.Language)
		assert.True(t, f.IsUserEdited())
	})

	t.Run("generated file tracks edits", func(t *testing.T) {
		f, err := NewGeneratedFile("f2", "/App.py", "print('hi')")
		require.NoError(t, err)
		assert.False(t, f.IsUserEdited())

		edited := f.WithContent("print('bye')")

		assert.True(t, edited.IsUserEdited())
		assert.Equal(t, f.GeneratedHash, edited.GeneratedHash)
	})

	t.Run("root path is rejected", func(t *testing.T) {
		_, err := NewUserFile("f3", "/", "")
		assert.Error(t, err)
	})

	t.Run("unclean stored path fails validation", func(t *testing.T) {
		f := CodeFile{ID: "f4", Path: "src/../a.ts"}
		assert.Error(t, f.Validate())
	})
}

func TestNewProjectDescriptor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		platform valueobjects.Platform
		language valueobjects.Language
		title    string
		wantErr  bool
	}{
		{name: "web typescript", platform: valueobjects.PlatformWeb, language: valueobjects.LanguageTypeScript, title: "Shop"},
		{name: "mobile swift", platform: valueobjects.PlatformMobile, language: valueobjects.LanguageSwift, title: "Notes"},
		{name: "missing name", platform: valueobjects.PlatformWeb, language: valueobjects.LanguagePython, wantErr: true},
		{name: "unknown platform", platform: "watch", language: valueobjects.LanguagePython, title: "X", wantErr: true},
		{name: "unknown language", platform: valueobjects.PlatformWeb, language: "rust", title: "X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProjectDescriptor("p1", tt.title, "", tt.platform, tt.language, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, p.CreatedAt)
			assert.Equal(t, now, p.UpdatedAt)
		})
	}
}
