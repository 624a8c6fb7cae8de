package codegen

import (
	"fmt"
	"strings"

	"appbuilder/domain/core/entities"
)

const defaultCardShadow = "0 4px 6px -1px rgba(0, 0, 0, 0.1), 0 2px 4px -1px rgba(0, 0, 0, 0.06)"

// reactComponent renders el as a React function component with an inline
// style object. The second result is false when no template exists.
func reactComponent(el entities.DesignElement, ident string, typed bool) (string, bool) {
	switch el.Type {
	case entities.ElementContainer, entities.ElementVStack, entities.ElementHStack, entities.ElementZStack:
		return reactStack(el, ident), true
	case entities.ElementGrid:
		return reactGrid(el, ident), true
	case entities.ElementColumns:
		return reactColumns(el, ident), true
	case entities.ElementCard:
		return reactCard(el, ident), true
	case entities.ElementButton:
		return reactButton(el, ident), true
	case entities.ElementText:
		return reactText(el, ident), true
	case entities.ElementInput:
		return reactInput(el, ident, typed), true
	case entities.ElementImage:
		return reactImage(el, ident), true
	}
	return "", false
}

// geometry is the box every component starts from
func reactGeometry(el entities.DesignElement) properties {
	var p properties
	p.num("width", el.Size.Width)
	p.num("height", el.Size.Height)
	p.raw("position", jsString("relative"))
	p.num("left", el.Position.X)
	p.num("top", el.Position.Y)
	return p
}

// reactOptional appends the style fields that only appear when set
func reactOptional(p *properties, el entities.DesignElement, skip ...string) {
	s := el.Style
	skipped := func(key string) bool {
		for _, k := range skip {
			if k == key {
				return true
			}
		}
		return false
	}
	if s.BorderWidth != nil && !skipped("border") {
		p.num("borderWidth", *s.BorderWidth)
		p.raw("borderStyle", jsString(strOr(s.BorderStyle, "solid")))
		p.raw("borderColor", jsString(strOr(s.BorderColor, "#e2e8f0")))
	}
	if s.BoxShadow != nil && !skipped("boxShadow") {
		p.raw("boxShadow", jsString(*s.BoxShadow))
	}
	if s.Opacity != nil {
		p.num("opacity", *s.Opacity)
	}
	if s.ZIndex != nil {
		p.raw("zIndex", fmt.Sprintf("%d", *s.ZIndex))
	}
}

func renderJSObject(p properties, indent string) string {
	var b strings.Builder
	for _, prop := range p {
		fmt.Fprintf(&b, "%s%s: %s,\n", indent, prop.key, prop.value)
	}
	return b.String()
}

// reactElement wraps the JSX of a component in its module boilerplate
func reactModule(imports, ident, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", imports)
	fmt.Fprintf(&b, "export const %s = () => {\n", ident)
	b.WriteString(body)
	b.WriteString("};\n")
	return b.String()
}

func reactStack(el entities.DesignElement, ident string) string {
	s := el.Style
	p := reactGeometry(el)
	p.raw("backgroundColor", jsString(strOr(s.BackgroundColor, "transparent")))
	p.num("padding", numOr(s.Padding, 0))
	p.num("margin", numOr(s.Margin, 0))
	p.num("borderRadius", numOr(s.BorderRadius, 0))

	child := "{/* Add child components here */}"
	switch el.Type {
	case entities.ElementZStack:
		p.raw("display", jsString("grid"))
		p.raw("gridTemplateAreas", jsString(`"stack"`))
		child = "{/* Children share the \"stack\" grid area and overlap */}"
	default:
		direction := "column"
		if el.Type == entities.ElementHStack {
			direction = "row"
		}
		p.raw("display", jsString("flex"))
		p.raw("flexDirection", jsString(strOr(s.FlexDirection, direction)))
		p.raw("justifyContent", jsString(strOr(s.JustifyContent, "flex-start")))
		p.raw("alignItems", jsString(strOr(s.AlignItems, "flex-start")))
		p.num("gap", numOr(s.Gap, 8))
	}
	reactOptional(&p, el)

	body := "  return (\n" +
		"    <div\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		"      " + child + "\n" +
		"    </div>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactGrid(el entities.DesignElement, ident string) string {
	s := el.Style
	columns := propInt(el.Props, "columns", 2)
	p := reactGeometry(el)
	p.raw("backgroundColor", jsString(strOr(s.BackgroundColor, "transparent")))
	p.num("padding", numOr(s.Padding, 0))
	p.num("margin", numOr(s.Margin, 0))
	p.num("borderRadius", numOr(s.BorderRadius, 0))
	p.raw("display", jsString("grid"))
	p.raw("gridTemplateColumns", jsString(fmt.Sprintf("repeat(%d, 1fr)", columns)))
	p.num("gap", numOr(s.Gap, 8))
	reactOptional(&p, el)

	body := "  return (\n" +
		"    <div\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		"      {/* Add grid items here */}\n" +
		"    </div>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactColumns(el entities.DesignElement, ident string) string {
	s := el.Style
	columns := propInt(el.Props, "columns", 2)
	p := reactGeometry(el)
	p.raw("backgroundColor", jsString(strOr(s.BackgroundColor, "transparent")))
	p.num("padding", numOr(s.Padding, 0))
	p.num("margin", numOr(s.Margin, 0))
	p.num("borderRadius", numOr(s.BorderRadius, 0))
	p.raw("display", jsString("flex"))
	p.raw("flexDirection", jsString("row"))
	p.num("gap", numOr(s.Gap, 8))
	reactOptional(&p, el)

	var cols strings.Builder
	for i := 1; i <= columns; i++ {
		fmt.Fprintf(&cols, "      <div style={{ flex: 1 }}>\n        {/* Column %d */}\n      </div>\n", i)
	}

	body := "  return (\n" +
		"    <div\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		cols.String() +
		"    </div>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactCard(el entities.DesignElement, ident string) string {
	s := el.Style
	p := reactGeometry(el)
	p.raw("backgroundColor", jsString(strOr(s.BackgroundColor, "#ffffff")))
	p.num("padding", numOr(s.Padding, 16))
	p.num("margin", numOr(s.Margin, 0))
	p.num("borderRadius", numOr(s.BorderRadius, 8))
	p.raw("boxShadow", jsString(strOr(s.BoxShadow, defaultCardShadow)))
	p.raw("display", jsString("flex"))
	p.raw("flexDirection", jsString("column"))
	reactOptional(&p, el, "boxShadow")

	title := propString(el.Props, "title", "Card Title")
	body := "  return (\n" +
		"    <div\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		"      <h3 style={{ margin: '0 0 12px 0', fontSize: 18, fontWeight: 'bold' }}>\n" +
		"        " + jsxText(title) + "\n" +
		"      </h3>\n" +
		"      <div>\n" +
		"        {/* Card content goes here */}\n" +
		"      </div>\n" +
		"    </div>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactButton(el entities.DesignElement, ident string) string {
	s := el.Style
	p := reactGeometry(el)
	p.raw("backgroundColor", jsString(strOr(s.BackgroundColor, "#3b82f6")))
	p.raw("color", jsString(strOr(s.Color, "#ffffff")))
	p.num("borderRadius", numOr(s.BorderRadius, 4))
	p.num("padding", numOr(s.Padding, 8))
	p.num("margin", numOr(s.Margin, 0))
	if s.BorderWidth == nil {
		p.raw("border", jsString("none"))
	}
	p.raw("cursor", jsString("pointer"))
	p.raw("fontWeight", jsString(strOr(s.FontWeight, "normal")))
	p.num("fontSize", numOr(s.FontSize, 16))
	p.raw("textAlign", jsString(strOr(s.TextAlign, "center")))
	reactOptional(&p, el)

	text := propString(el.Props, "text", "Button")
	body := "  const handleClick = () => {\n" +
		"    console.log('Button clicked');\n" +
		"    // Add your click handler logic here\n" +
		"  };\n\n" +
		"  return (\n" +
		"    <button\n" +
		"      onClick={handleClick}\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		"      " + jsxText(text) + "\n" +
		"    </button>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactText(el entities.DesignElement, ident string) string {
	s := el.Style
	p := reactGeometry(el)
	p.raw("color", jsString(strOr(s.Color, "#000000")))
	p.raw("fontFamily", jsString(strOr(s.FontFamily, "inherit")))
	p.num("fontSize", numOr(s.FontSize, 16))
	p.raw("fontWeight", jsString(strOr(s.FontWeight, "normal")))
	p.raw("textAlign", jsString(strOr(s.TextAlign, "left")))
	p.num("margin", numOr(s.Margin, 0))
	p.num("padding", numOr(s.Padding, 0))
	if s.BackgroundColor != nil {
		p.raw("backgroundColor", jsString(*s.BackgroundColor))
	}
	reactOptional(&p, el)

	text := propString(el.Props, "text", "Text content")
	body := "  return (\n" +
		"    <p\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    >\n" +
		"      " + jsxText(text) + "\n" +
		"    </p>\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactInput(el entities.DesignElement, ident string, typed bool) string {
	s := el.Style
	p := reactGeometry(el)
	p.num("padding", numOr(s.Padding, 8))
	p.num("margin", numOr(s.Margin, 0))
	p.num("borderRadius", numOr(s.BorderRadius, 4))
	p.num("borderWidth", numOr(s.BorderWidth, 1))
	p.raw("borderColor", jsString(strOr(s.BorderColor, "#d1d5db")))
	p.raw("borderStyle", jsString(strOr(s.BorderStyle, "solid")))
	p.num("fontSize", numOr(s.FontSize, 16))
	if s.BackgroundColor != nil {
		p.raw("backgroundColor", jsString(*s.BackgroundColor))
	}
	if s.Color != nil {
		p.raw("color", jsString(*s.Color))
	}
	reactOptional(&p, el, "border")

	param := "e"
	if typed {
		param = "e: React.ChangeEvent<HTMLInputElement>"
	}
	inputType := propString(el.Props, "type", "text")
	placeholder := propString(el.Props, "placeholder", "Enter text...")
	body := "  const [value, setValue] = useState('');\n\n" +
		"  const handleChange = (" + param + ") => {\n" +
		"    setValue(e.target.value);\n" +
		"  };\n\n" +
		"  return (\n" +
		"    <input\n" +
		"      type=" + jsxAttr(inputType) + "\n" +
		"      placeholder=" + jsxAttr(placeholder) + "\n" +
		"      value={value}\n" +
		"      onChange={handleChange}\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    />\n" +
		"  );\n"
	return reactModule("import React, { useState } from 'react';", ident, body)
}

func reactImage(el entities.DesignElement, ident string) string {
	s := el.Style
	p := reactGeometry(el)
	p.raw("objectFit", jsString(strOr(s.ObjectFit, "cover")))
	p.num("borderRadius", numOr(s.BorderRadius, 0))
	reactOptional(&p, el)

	src := propString(el.Props, "src", "/placeholder.jpg")
	alt := propString(el.Props, "alt", "Image")
	body := "  return (\n" +
		"    <img\n" +
		"      src=" + jsxAttr(src) + "\n" +
		"      alt=" + jsxAttr(alt) + "\n" +
		"      style={{\n" +
		renderJSObject(p, "        ") +
		"      }}\n" +
		"    />\n" +
		"  );\n"
	return reactModule("import React from 'react';", ident, body)
}

func reactIndex(components []component) string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	for _, c := range components {
		fmt.Fprintf(&b, "import { %s } from './components/%s';\n", c.ident, c.ident)
	}
	b.WriteString("\nexport default function App() {\n")
	b.WriteString("  return (\n")
	b.WriteString("    <div className=\"App\">\n")
	for _, c := range components {
		fmt.Fprintf(&b, "      <%s />\n", c.ident)
	}
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String()
}
