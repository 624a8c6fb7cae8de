package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
)

// Sanitize turns an element name into an identifier: whitespace and
// non-identifier characters are dropped, a leading digit gets an underscore,
// and an empty result falls back to the type name. Keywords are left to the
// namer of the target language.
func Sanitize(name string, elementType entities.ElementType) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		if isIdentRune(r) {
			b.WriteRune(r)
		}
	}
	ident := b.String()
	if ident == "" {
		ident = elementType.DisplayName()
	}
	if ident == "" {
		ident = "Component"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "_" + ident
	}
	return ident
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// namer hands out unique identifiers within one generated project. Keywords
// and names the entry point declares are never handed out.
type namer struct {
	taken    map[string]struct{}
	reserved map[string]struct{}
}

func newNamer(lang valueobjects.Language) *namer {
	return &namer{taken: make(map[string]struct{}), reserved: reservedIdents[lang]}
}

// identFor returns the sanitized name of el, suffixed with a fragment of its
// id when another element already claimed that name
func (n *namer) identFor(el entities.DesignElement) string {
	base := Sanitize(el.Name, el.Type)
	if n.claim(base) {
		return base
	}
	if frag := idFragment(el.ID); frag != "" {
		if candidate := base + "_" + frag; n.claim(candidate) {
			return candidate
		}
	}
	for i := 2; ; i++ {
		if candidate := base + "_" + strconv.Itoa(i); n.claim(candidate) {
			return candidate
		}
	}
}

func (n *namer) claim(ident string) bool {
	if _, ok := n.reserved[ident]; ok {
		return false
	}
	key := strings.ToLower(ident)
	if _, ok := n.taken[key]; ok {
		return false
	}
	n.taken[key] = struct{}{}
	return true
}

// idFragment is the first six alphanumerics of an id
func idFragment(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 6 {
				break
			}
		}
	}
	return b.String()
}

func identSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var jsReserved = []string{
	"await", "break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends", "false",
	"finally", "for", "function", "if", "implements", "import", "in",
	"instanceof", "interface", "let", "new", "null", "package", "private",
	"protected", "public", "return", "static", "super", "switch", "this",
	"throw", "true", "try", "typeof", "var", "void", "while", "with", "yield",
	"arguments", "eval", "undefined",
	// declared by the generated entry point and components
	"React", "App", "useState",
}

var reservedIdents = map[valueobjects.Language]map[string]struct{}{
	valueobjects.LanguageTypeScript: identSet(jsReserved...),
	valueobjects.LanguageJavaScript: identSet(jsReserved...),
	valueobjects.LanguageSwift: identSet(
		"associatedtype", "class", "deinit", "enum", "extension", "fileprivate",
		"func", "import", "init", "inout", "internal", "let", "open", "operator",
		"private", "protocol", "public", "rethrows", "static", "struct",
		"subscript", "typealias", "var", "break", "case", "continue", "default",
		"defer", "do", "else", "fallthrough", "for", "guard", "if", "in",
		"repeat", "return", "switch", "where", "while", "as", "Any", "catch",
		"false", "is", "nil", "super", "self", "Self", "throw", "throws", "true",
		"try", "some", "_",
		// SwiftUI and Foundation types the generated views use
		"ContentView", "View", "Color", "Text", "Button", "TextField", "Image",
		"AsyncImage", "VStack", "HStack", "ZStack", "RoundedRectangle",
		"Scanner", "Double", "String", "URL", "CharacterSet", "UInt64", "State",
	),
	valueobjects.LanguagePython: identSet(
		"False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "class", "continue", "def", "del", "elif", "else", "except",
		"finally", "for", "from", "global", "if", "import", "in", "is",
		"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
		"while", "with", "yield",
		"main", "print", "self",
	),
}
