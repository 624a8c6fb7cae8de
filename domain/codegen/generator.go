// Package codegen turns design elements into source files.
//
// Generation is pure and byte-deterministic: the same elements and language
// always produce the same files, ids included.
package codegen

import (
	"fmt"
	"strings"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// Notice reports that an element/language pair has no dedicated template and
// a comment stub was emitted instead. It is informational, never an error.
type Notice struct {
	Code        string                `json:"code"`
	ElementID   string                `json:"elementId"`
	ElementName string                `json:"elementName"`
	ElementType entities.ElementType  `json:"elementType"`
	Language    valueobjects.Language `json:"language"`
	Message     string                `json:"message"`
}

func newNotice(el entities.DesignElement, lang valueobjects.Language) *Notice {
	return &Notice{
		Code:        pkgerrors.CodeGenerationFallback,
		ElementID:   el.ID,
		ElementName: el.Name,
		ElementType: el.Type,
		Language:    lang,
		Message:     fmt.Sprintf("no %s template for %s elements; emitted a stub", lang, el.Type),
	}
}

// Result is the source generated for one element
type Result struct {
	Source   string  `json:"source"`
	Fallback *Notice `json:"fallback,omitempty"`
}

// ProjectResult is the file set generated for a whole design
type ProjectResult struct {
	Files   []entities.CodeFile `json:"files"`
	Notices []Notice            `json:"notices,omitempty"`
}

// Generator renders elements to source text
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// options tune a single render
type options struct {
	// standalone output carries its own helper declarations
	standalone bool
}

// GenerateComponent renders one element as a self-contained source file
func (g *Generator) GenerateComponent(el entities.DesignElement, lang valueobjects.Language) Result {
	return g.render(el, newNamer(lang).identFor(el), lang, options{standalone: true})
}

func (g *Generator) render(el entities.DesignElement, ident string, lang valueobjects.Language, opts options) Result {
	var (
		source string
		ok     bool
	)
	switch lang {
	case valueobjects.LanguageTypeScript, valueobjects.LanguageJavaScript:
		source, ok = reactComponent(el, ident, lang == valueobjects.LanguageTypeScript)
	case valueobjects.LanguageSwift:
		source, ok = swiftComponent(el, ident, opts)
	case valueobjects.LanguagePython:
		source, ok = pythonComponent(el, ident)
	}
	if ok {
		return Result{Source: source}
	}
	return Result{Source: stub(el, lang), Fallback: newNotice(el, lang)}
}

// commentPrefix is the line comment syntax of lang
func commentPrefix(lang valueobjects.Language) string {
	if lang == valueobjects.LanguagePython {
		return "#"
	}
	return "//"
}

func stub(el entities.DesignElement, lang valueobjects.Language) string {
	c := commentPrefix(lang)
	return fmt.Sprintf("%s Generated code for %s (%s)\n%s Add your implementation here\n", c, oneLine(el.Name), el.Type, c)
}

// oneLine keeps user text from breaking out of a line comment
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// componentTypes are the element types that become their own project file
func isComponentType(t entities.ElementType) bool {
	switch t {
	case entities.ElementContainer, entities.ElementText, entities.ElementButton:
		return true
	}
	return false
}

type component struct {
	el    entities.DesignElement
	ident string
}

// GenerateProject renders a full file set: one file per component element
// and an entry point that renders them in element order. A design with no
// component elements gets a starter scaffold instead.
func (g *Generator) GenerateProject(elements []entities.DesignElement, lang valueobjects.Language) (ProjectResult, error) {
	names := newNamer(lang)
	var components []component
	for _, el := range elements {
		if isComponentType(el.Type) {
			components = append(components, component{el: el, ident: names.identFor(el)})
		}
	}

	var sources []generatedSource
	var notices []Notice
	if len(components) == 0 {
		sources = scaffold(lang)
	} else {
		ext := lang.Extension()
		for _, c := range components {
			res := g.render(c.el, c.ident, lang, options{})
			if res.Fallback != nil {
				notices = append(notices, *res.Fallback)
			}
			sources = append(sources, generatedSource{
				path:    fmt.Sprintf("/src/components/%s.%s", c.ident, ext),
				content: res.Source,
			})
		}
		sources = append(sources, entryPoint(components, lang)...)
	}

	files := make([]entities.CodeFile, 0, len(sources))
	for _, s := range sources {
		f, err := entities.NewGeneratedFile(FileID(s.path), s.path, s.content)
		if err != nil {
			return ProjectResult{}, err
		}
		files = append(files, f)
	}
	return ProjectResult{Files: files, Notices: notices}, nil
}

// FileID is the deterministic id of a generated file
func FileID(path string) string {
	return valueobjects.FileIDFromDigest(utils.ShortDigest(16, path))
}

type generatedSource struct {
	path    string
	content string
}

func entryPoint(components []component, lang valueobjects.Language) []generatedSource {
	switch lang {
	case valueobjects.LanguageTypeScript, valueobjects.LanguageJavaScript:
		return []generatedSource{{path: "/src/index." + lang.Extension(), content: reactIndex(components)}}
	case valueobjects.LanguageSwift:
		return []generatedSource{
			{path: "/src/ColorHex.swift", content: swiftImport + "\n" + swiftColorExtension},
			{path: "/src/ContentView.swift", content: swiftContentView(components)},
		}
	case valueobjects.LanguagePython:
		return []generatedSource{{path: "/src/index.py", content: pythonIndex(components)}}
	default:
		var b strings.Builder
		c := commentPrefix(lang)
		fmt.Fprintf(&b, "%s Entry point\n", c)
		for _, comp := range components {
			fmt.Fprintf(&b, "%s Renders %s\n", c, comp.ident)
		}
		fmt.Fprintf(&b, "%s Add your implementation here\n", c)
		return []generatedSource{{path: "/src/index." + lang.Extension(), content: b.String()}}
	}
}
