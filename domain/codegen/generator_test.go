package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

func textElement(id, name, text string) entities.DesignElement {
	return entities.DesignElement{
		ID:       id,
		Type:     entities.ElementText,
		Name:     name,
		Props:    map[string]interface{}{"text": text},
		Position: valueobjects.Position{X: 10, Y: 20},
		Size:     valueobjects.Size{Width: 200, Height: 40},
	}
}

func paths(files []entities.CodeFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestGenerateProject_EmptyDesignGetsScaffold(t *testing.T) {
	tests := []struct {
		lang  valueobjects.Language
		paths []string
	}{
		{valueobjects.LanguageTypeScript, []string{"/src/App.tsx", "/src/index.tsx"}},
		{valueobjects.LanguageJavaScript, []string{"/src/App.jsx", "/src/index.jsx"}},
		{valueobjects.LanguageSwift, []string{"/ContentView.swift"}},
		{valueobjects.LanguagePython, []string{"/main.py"}},
		{valueobjects.LanguageKotlin, []string{"/src/main.kt"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			result, err := NewGenerator().GenerateProject(nil, tt.lang)

			require.NoError(t, err)
			assert.Equal(t, tt.paths, paths(result.Files))
			assert.Empty(t, result.Notices)
			for _, f := range result.Files {
				assert.NotEmpty(t, f.Content)
				assert.False(t, f.IsUserEdited())
			}
		})
	}
}

func TestGenerateProject_MediaOnlyDesignGetsScaffold(t *testing.T) {
	img := entities.DesignElement{ID: "img", Type: entities.ElementImage, Name: "Logo"}

	result, err := NewGenerator().GenerateProject([]entities.DesignElement{img}, valueobjects.LanguageTypeScript)

	require.NoError(t, err)
	assert.Equal(t, []string{"/src/App.tsx", "/src/index.tsx"}, paths(result.Files))
}

func TestGenerateComponent_TextUsesDefaults(t *testing.T) {
	// Arrange
	el := textElement("t1", "Greeting", "Hello")

	// Act
	result := NewGenerator().GenerateComponent(el, valueobjects.LanguageTypeScript)

	// Assert
	assert.Nil(t, result.Fallback)
	assert.Contains(t, result.Source, "Hello")
	assert.Contains(t, result.Source, "color: '#000000'")
	assert.Contains(t, result.Source, "fontSize: 16")
	assert.Contains(t, result.Source, "export const Greeting = () => {")
	assert.NotContains(t, result.Source, "px")
}

func TestGenerateComponent_StyleOverrides(t *testing.T) {
	el := textElement("t1", "Title", "Big")
	el.Style = valueobjects.Style{
		Color:    valueobjects.Ptr("#ff0000"),
		FontSize: valueobjects.Ptr(32.5),
	}

	result := NewGenerator().GenerateComponent(el, valueobjects.LanguageTypeScript)

	assert.Contains(t, result.Source, "color: '#ff0000'")
	assert.Contains(t, result.Source, "fontSize: 32.5")
}

func TestGenerateComponent_Languages(t *testing.T) {
	button := entities.DesignElement{
		ID:    "b1",
		Type:  entities.ElementButton,
		Name:  "Save",
		Props: map[string]interface{}{"text": "Save now"},
		Size:  valueobjects.Size{Width: 150, Height: 40},
	}

	tests := []struct {
		lang     valueobjects.Language
		contains []string
	}{
		{valueobjects.LanguageTypeScript, []string{"export const Save = () => {", "Save now", "onClick={handleClick}"}},
		{valueobjects.LanguageJavaScript, []string{"export const Save = () => {", "backgroundColor: '#3b82f6'"}},
		{valueobjects.LanguageSwift, []string{"struct Save: View {", `Text("Save now")`, "extension Color {"}},
		{valueobjects.LanguagePython, []string{"class Save:", `self.text = "Save now"`, "def render(self):"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			result := NewGenerator().GenerateComponent(button, tt.lang)

			assert.Nil(t, result.Fallback)
			for _, want := range tt.contains {
				assert.Contains(t, result.Source, want)
			}
		})
	}
}

func TestGenerateComponent_FallbackStub(t *testing.T) {
	tests := []struct {
		name   string
		el     entities.DesignElement
		lang   valueobjects.Language
		prefix string
	}{
		{
			name:   "kotlin has no templates",
			el:     textElement("t1", "Label", "Hi"),
			lang:   valueobjects.LanguageKotlin,
			prefix: "// Generated code for Label (text)",
		},
		{
			name:   "python video",
			el:     entities.DesignElement{ID: "v1", Type: entities.ElementVideo, Name: "Intro"},
			lang:   valueobjects.LanguagePython,
			prefix: "# Generated code for Intro (video)",
		},
		{
			name:   "name with newline stays in the comment",
			el:     entities.DesignElement{ID: "v2", Type: entities.ElementSVG, Name: "Icon\nalert('x')"},
			lang:   valueobjects.LanguageTypeScript,
			prefix: "// Generated code for Icon alert('x') (svg)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewGenerator().GenerateComponent(tt.el, tt.lang)

			require.NotNil(t, result.Fallback)
			assert.Equal(t, pkgerrors.CodeGenerationFallback, result.Fallback.Code)
			assert.Equal(t, tt.el.ID, result.Fallback.ElementID)
			assert.True(t, strings.HasPrefix(result.Source, tt.prefix), result.Source)
		})
	}
}

func TestGenerateProject_ComponentsAndEntryPoint(t *testing.T) {
	elements := []entities.DesignElement{
		{ID: "c1", Type: entities.ElementContainer, Name: "Main Panel", Size: valueobjects.Size{Width: 300, Height: 200}},
		textElement("t1", "Headline", "Welcome"),
		{ID: "i1", Type: entities.ElementImage, Name: "Hero"},
		{ID: "b1", Type: entities.ElementButton, Name: "Go"},
	}

	result, err := NewGenerator().GenerateProject(elements, valueobjects.LanguageTypeScript)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/src/components/MainPanel.tsx",
		"/src/components/Headline.tsx",
		"/src/components/Go.tsx",
		"/src/index.tsx",
	}, paths(result.Files))

	index := result.Files[3].Content
	assert.Contains(t, index, "import { MainPanel } from './components/MainPanel';")
	assert.Less(t, strings.Index(index, "<MainPanel />"), strings.Index(index, "<Headline />"))
	assert.Less(t, strings.Index(index, "<Headline />"), strings.Index(index, "<Go />"))
}

func TestGenerateProject_SwiftSharesColorHelper(t *testing.T) {
	elements := []entities.DesignElement{textElement("t1", "Title", "Hi")}

	result, err := NewGenerator().GenerateProject(elements, valueobjects.LanguageSwift)

	require.NoError(t, err)
	assert.Equal(t, []string{"/src/components/Title.swift", "/src/ColorHex.swift", "/src/ContentView.swift"}, paths(result.Files))
	assert.NotContains(t, result.Files[0].Content, "extension Color")
	assert.Contains(t, result.Files[1].Content, "extension Color")
	assert.Contains(t, result.Files[2].Content, "Title()")
}

func TestGenerateProject_NameCollisions(t *testing.T) {
	elements := []entities.DesignElement{
		textElement("aaaaaa-1", "Label", "one"),
		textElement("bbbbbb-2", "label", "two"),
		textElement("bbbbbb-3", "Label", "three"),
	}

	result, err := NewGenerator().GenerateProject(elements, valueobjects.LanguagePython)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/src/components/Label.py",
		"/src/components/label_bbbbbb.py",
		"/src/components/Label_2.py",
		"/src/index.py",
	}, paths(result.Files))
}

func TestGenerateProject_IsDeterministic(t *testing.T) {
	elements := []entities.DesignElement{
		{ID: "c1", Type: entities.ElementContainer, Name: "Box"},
		textElement("t1", "Copy", "Body text"),
		{ID: "v1", Type: entities.ElementVideo, Name: "Clip"},
		{ID: "b1", Type: entities.ElementButton, Name: "Buy"},
	}
	gen := NewGenerator()

	first, err := gen.GenerateProject(elements, valueobjects.LanguageSwift)
	require.NoError(t, err)
	second, err := gen.GenerateProject(elements, valueobjects.LanguageSwift)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for _, f := range first.Files {
		assert.Equal(t, FileID(f.Path), f.ID)
	}
}

func TestGenerateProject_ReportsFallbacks(t *testing.T) {
	elements := []entities.DesignElement{textElement("t1", "Hello", "Hi")}

	result, err := NewGenerator().GenerateProject(elements, valueobjects.LanguageKotlin)

	require.NoError(t, err)
	require.Len(t, result.Notices, 1)
	assert.Equal(t, "t1", result.Notices[0].ElementID)
	assert.Equal(t, []string{"/src/components/Hello.kt", "/src/index.kt"}, paths(result.Files))
}

func TestEscaping(t *testing.T) {
	t.Run("jsx text cannot open expressions or tags", func(t *testing.T) {
		el := textElement("t1", "Risky", "<script>{alert(1)}</script>")

		src := NewGenerator().GenerateComponent(el, valueobjects.LanguageTypeScript).Source

		assert.NotContains(t, src, "<script>")
		assert.Contains(t, src, "&lt;script&gt;{'{'}alert(1){'}'}&lt;/script&gt;")
	})

	t.Run("js string literal escapes quotes", func(t *testing.T) {
		assert.Equal(t, `'it\'s \\ fine\n'`, jsString("it's \\ fine\n"))
	})

	t.Run("swift string escapes interpolation", func(t *testing.T) {
		assert.Equal(t, `"\\(x) \"q\""`, swiftString(`\(x) "q"`))
	})

	t.Run("python string escapes quotes", func(t *testing.T) {
		assert.Equal(t, `"say \"hi\""`, pyString(`say "hi"`))
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		elType   entities.ElementType
		expected string
	}{
		{"spaces removed", "Submit Button", entities.ElementButton, "SubmitButton"},
		{"punctuation dropped", "my-card!", entities.ElementCard, "mycard"},
		{"leading digit", "1st Item", entities.ElementText, "_1stItem"},
		{"empty falls back to type", "  ", entities.ElementContainer, "Container"},
		{"non ascii dropped", "Café", entities.ElementText, "Caf"},
		{"only symbols", "@@@", entities.ElementInput, "Input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input, tt.elType))
		})
	}
}

func TestPropInt(t *testing.T) {
	props := map[string]interface{}{
		"float":    float64(3),
		"fraction": 2.5,
		"string":   " 4 ",
		"zero":     float64(0),
		"bool":     true,
	}

	assert.Equal(t, 3, propInt(props, "float", 2))
	assert.Equal(t, 2, propInt(props, "fraction", 2))
	assert.Equal(t, 4, propInt(props, "string", 2))
	assert.Equal(t, 2, propInt(props, "zero", 2))
	assert.Equal(t, 2, propInt(props, "bool", 2))
	assert.Equal(t, 2, propInt(props, "missing", 2))
}

func TestGenerateProject_ReservedNames(t *testing.T) {
	button := func(id, name string) []entities.DesignElement {
		return []entities.DesignElement{{ID: id, Type: entities.ElementButton, Name: name}}
	}

	tests := []struct {
		name      string
		lang      valueobjects.Language
		elements  []entities.DesignElement
		component string
		entry     string
		contains  string
	}{
		{
			name:      "react import",
			lang:      valueobjects.LanguageTypeScript,
			elements:  button("abc123-x", "React"),
			component: "/src/components/React_abc123.tsx",
			entry:     "/src/index.tsx",
			contains:  "import { React_abc123 } from './components/React_abc123';",
		},
		{
			name:      "entry point function",
			lang:      valueobjects.LanguageJavaScript,
			elements:  button("abc123-x", "App"),
			component: "/src/components/App_abc123.jsx",
			entry:     "/src/index.jsx",
			contains:  "<App_abc123 />",
		},
		{
			name:      "react hook",
			lang:      valueobjects.LanguageTypeScript,
			elements:  button("abc123-x", "useState"),
			component: "/src/components/useState_abc123.tsx",
			entry:     "/src/index.tsx",
			contains:  "<useState_abc123 />",
		},
		{
			name:      "js keyword",
			lang:      valueobjects.LanguageTypeScript,
			elements:  button("abc123-x", "new"),
			component: "/src/components/new_abc123.tsx",
			entry:     "/src/index.tsx",
			contains:  "<new_abc123 />",
		},
		{
			name:      "lowercase react is free",
			lang:      valueobjects.LanguageTypeScript,
			elements:  button("abc123-x", "react"),
			component: "/src/components/react.tsx",
			entry:     "/src/index.tsx",
			contains:  "import { react } from './components/react';",
		},
		{
			name:      "swift content view",
			lang:      valueobjects.LanguageSwift,
			elements:  button("abc123-x", "ContentView"),
			component: "/src/components/ContentView_abc123.swift",
			entry:     "/src/ContentView.swift",
			contains:  "ContentView_abc123()",
		},
		{
			name:      "swiftui type",
			lang:      valueobjects.LanguageSwift,
			elements:  button("abc123-x", "Color"),
			component: "/src/components/Color_abc123.swift",
			entry:     "/src/ContentView.swift",
			contains:  "Color_abc123()",
		},
		{
			name:      "python keyword",
			lang:      valueobjects.LanguagePython,
			elements:  button("abc123-x", "class"),
			component: "/src/components/class_abc123.py",
			entry:     "/src/index.py",
			contains:  "from components.class_abc123 import class_abc123",
		},
		{
			name:      "python entry function",
			lang:      valueobjects.LanguagePython,
			elements:  button("abc123-x", "main"),
			component: "/src/components/main_abc123.py",
			entry:     "/src/index.py",
			contains:  "main_abc123().render()",
		},
		{
			name:      "id without alphanumerics",
			lang:      valueobjects.LanguageTypeScript,
			elements:  button("---", "React"),
			component: "/src/components/React_2.tsx",
			entry:     "/src/index.tsx",
			contains:  "<React_2 />",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewGenerator().GenerateProject(tt.elements, tt.lang)

			require.NoError(t, err)
			got := paths(result.Files)
			assert.Equal(t, tt.component, got[0])
			assert.Equal(t, tt.entry, got[len(got)-1])
			assert.Contains(t, result.Files[len(got)-1].Content, tt.contains)
		})
	}
}

func TestGenerateComponent_ReservedNames(t *testing.T) {
	el := entities.DesignElement{ID: "abc123", Type: entities.ElementButton, Name: "class"}

	py := NewGenerator().GenerateComponent(el, valueobjects.LanguagePython).Source
	assert.Contains(t, py, "class class_abc123:")

	el.Name = "Text"
	swift := NewGenerator().GenerateComponent(el, valueobjects.LanguageSwift).Source
	assert.Contains(t, swift, "struct Text_abc123: View {")
}

func TestGenerateComponent_WrongPropTypesUseDefaults(t *testing.T) {
	values := map[string]interface{}{
		"number": 42,
		"bool":   true,
		"nil":    nil,
		"map":    map[string]interface{}{},
	}

	tests := []struct {
		name     string
		elType   entities.ElementType
		prop     string
		lang     valueobjects.Language
		expected string
	}{
		{"button text", entities.ElementButton, "text", valueobjects.LanguageTypeScript, "Button"},
		{"text text", entities.ElementText, "text", valueobjects.LanguageTypeScript, "Text content"},
		{"input placeholder", entities.ElementInput, "placeholder", valueobjects.LanguageTypeScript, "Enter text..."},
		{"image src", entities.ElementImage, "src", valueobjects.LanguageTypeScript, "/placeholder.jpg"},
		{"card title", entities.ElementCard, "title", valueobjects.LanguageTypeScript, "Card Title"},
		{"swift text", entities.ElementText, "text", valueobjects.LanguageSwift, "Text content"},
		{"swift image src", entities.ElementImage, "src", valueobjects.LanguageSwift, "/placeholder.jpg"},
		{"python button text", entities.ElementButton, "text", valueobjects.LanguagePython, `self.text = "Button"`},
	}

	for _, tt := range tests {
		for label, value := range values {
			t.Run(tt.name+"/"+label, func(t *testing.T) {
				el := entities.DesignElement{
					ID:    "w1",
					Type:  tt.elType,
					Name:  "Widget",
					Props: map[string]interface{}{tt.prop: value},
				}

				result := NewGenerator().GenerateComponent(el, tt.lang)

				assert.Nil(t, result.Fallback)
				assert.Contains(t, result.Source, tt.expected)
			})
		}
	}
}
