package codegen

import (
	"strconv"
	"strings"
)

// formatNumber renders v the same way on every run and platform
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func numOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func strOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// propString reads a string prop. Values of any other type fall back to def.
func propString(props map[string]interface{}, key, def string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return def
}

// propInt reads a positive whole-number prop, accepting JSON numbers and
// numeric strings
func propInt(props map[string]interface{}, key string, def int) int {
	switch v := props[key].(type) {
	case float64:
		if v >= 1 && v == float64(int(v)) {
			return int(v)
		}
	case int:
		if v >= 1 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			return n
		}
	}
	return def
}

var jsStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// jsString quotes s as a single-quoted JavaScript string literal
func jsString(s string) string {
	return "'" + jsStringEscaper.Replace(s) + "'"
}

var jsxAttrEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`"`, `&quot;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
)

// jsxAttr quotes s as a double-quoted JSX attribute value
func jsxAttr(s string) string {
	return `"` + jsxAttrEscaper.Replace(s) + `"`
}

var jsxTextEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`{`, `{'{'}`,
	`}`, `{'}'}`,
)

// jsxText escapes s for use as JSX child text
func jsxText(s string) string {
	return jsxTextEscaper.Replace(s)
}

var doubleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// swiftString quotes s as a Swift string literal. Interpolation is escaped
// by the backslash rule.
func swiftString(s string) string {
	return `"` + doubleQuoteEscaper.Replace(s) + `"`
}

// pyString quotes s as a Python string literal
func pyString(s string) string {
	return `"` + doubleQuoteEscaper.Replace(s) + `"`
}

// property is one key/value pair of a rendered style object. The value is
// already a literal in the target language.
type property struct {
	key   string
	value string
}

type properties []property

func (p *properties) num(key string, v float64) {
	*p = append(*p, property{key: key, value: formatNumber(v)})
}

func (p *properties) raw(key, literal string) {
	*p = append(*p, property{key: key, value: literal})
}
