package valueobjects

import (
	"path"
	"sort"
	"strings"
)

// Language is a code generation target
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguageSwift      Language = "swift"
	LanguagePython     Language = "python"
	LanguageKotlin     Language = "kotlin"
)

// Platform is where the generated application runs
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformMobile  Platform = "mobile"
	PlatformDesktop Platform = "desktop"
)

// IsValid reports whether p is a known platform
func (p Platform) IsValid() bool {
	switch p {
	case PlatformWeb, PlatformMobile, PlatformDesktop:
		return true
	}
	return false
}

// LanguageInfo is one row of the static language table
type LanguageInfo struct {
	ID        Language `json:"id" yaml:"id"`
	Extension string   `json:"extension" yaml:"extension"`
	Highlight string   `json:"highlight" yaml:"highlight"`
}

var languageTable = map[Language]LanguageInfo{
	LanguageTypeScript: {ID: LanguageTypeScript, Extension: "tsx", Highlight: "typescript"},
	LanguageJavaScript: {ID: LanguageJavaScript, Extension: "jsx", Highlight: "javascript"},
	LanguageSwift:      {ID: LanguageSwift, Extension: "swift", Highlight: "swift"},
	LanguagePython:     {ID: LanguagePython, Extension: "py", Highlight: "python"},
	LanguageKotlin:     {ID: LanguageKotlin, Extension: "kt", Highlight: "kotlin"},
}

// Info returns the table row for l. Unknown languages get a plain text row.
func (l Language) Info() LanguageInfo {
	if info, ok := languageTable[l]; ok {
		return info
	}
	return LanguageInfo{ID: l, Extension: "txt", Highlight: "plaintext"}
}

// Extension is the file extension generated sources use
func (l Language) Extension() string {
	return l.Info().Extension
}

// IsValid reports whether l is in the language table
func (l Language) IsValid() bool {
	_, ok := languageTable[l]
	return ok
}

// Languages lists the table in a stable order
func Languages() []LanguageInfo {
	out := make([]LanguageInfo, 0, len(languageTable))
	for _, info := range languageTable {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var extensionHighlights = map[string]string{
	"js":    "javascript",
	"jsx":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"css":   "css",
	"html":  "html",
	"json":  "json",
	"py":    "python",
	"java":  "java",
	"kt":    "kotlin",
	"swift": "swift",
	"md":    "markdown",
	"scss":  "scss",
	"sass":  "scss",
	"less":  "less",
	"xml":   "xml",
	"yaml":  "yaml",
	"yml":   "yaml",
}

// HighlightForPath derives the syntax-highlight id of a file from its extension
func HighlightForPath(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if id, ok := extensionHighlights[ext]; ok {
		return id
	}
	return "plaintext"
}
