package codegen

import (
	"fmt"
	"strings"

	"appbuilder/domain/core/entities"
)

// pythonComponent renders el as a plain class holding a style dict and a
// render method
func pythonComponent(el entities.DesignElement, ident string) (string, bool) {
	s := el.Style
	var (
		p        properties
		text     string
		hasText  bool
		kind     string
		children bool
	)
	p.num("width", el.Size.Width)
	p.num("height", el.Size.Height)
	p.num("left", el.Position.X)
	p.num("top", el.Position.Y)

	switch el.Type {
	case entities.ElementContainer:
		kind = "container"
		children = true
		p.raw("background_color", pyString(strOr(s.BackgroundColor, "transparent")))
		p.num("padding", numOr(s.Padding, 0))
		p.num("margin", numOr(s.Margin, 0))
		p.num("border_radius", numOr(s.BorderRadius, 0))
		p.raw("flex_direction", pyString(strOr(s.FlexDirection, "column")))
		p.num("gap", numOr(s.Gap, 8))
	case entities.ElementButton:
		kind = "button"
		text, hasText = propString(el.Props, "text", "Button"), true
		p.raw("background_color", pyString(strOr(s.BackgroundColor, "#3b82f6")))
		p.raw("color", pyString(strOr(s.Color, "#ffffff")))
		p.num("border_radius", numOr(s.BorderRadius, 4))
		p.num("padding", numOr(s.Padding, 8))
		p.num("margin", numOr(s.Margin, 0))
		p.raw("font_weight", pyString(strOr(s.FontWeight, "normal")))
		p.num("font_size", numOr(s.FontSize, 16))
		p.raw("text_align", pyString(strOr(s.TextAlign, "center")))
	case entities.ElementText:
		kind = "text"
		text, hasText = propString(el.Props, "text", "Text content"), true
		p.raw("color", pyString(strOr(s.Color, "#000000")))
		p.raw("font_family", pyString(strOr(s.FontFamily, "inherit")))
		p.num("font_size", numOr(s.FontSize, 16))
		p.raw("font_weight", pyString(strOr(s.FontWeight, "normal")))
		p.raw("text_align", pyString(strOr(s.TextAlign, "left")))
		p.num("margin", numOr(s.Margin, 0))
		p.num("padding", numOr(s.Padding, 0))
	default:
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "class %s:\n", ident)
	fmt.Fprintf(&b, "    \"\"\"%s component generated from the design.\"\"\"\n\n", kind)
	b.WriteString("    def __init__(self):\n")
	if hasText {
		fmt.Fprintf(&b, "        self.text = %s\n", pyString(text))
	}
	if children {
		b.WriteString("        self.children = []\n")
	}
	b.WriteString("        self.style = {\n")
	for _, prop := range p {
		fmt.Fprintf(&b, "            %s: %s,\n", pyString(prop.key), prop.value)
	}
	b.WriteString("        }\n\n")
	b.WriteString("    def render(self):\n")
	fmt.Fprintf(&b, "        node = {\"type\": %s, \"style\": self.style}\n", pyString(kind))
	if hasText {
		b.WriteString("        node[\"text\"] = self.text\n")
	}
	if children {
		b.WriteString("        node[\"children\"] = [child.render() for child in self.children]\n")
	}
	b.WriteString("        return node\n")
	return b.String(), true
}

func pythonIndex(components []component) string {
	var b strings.Builder
	b.WriteString("# Main application file\n")
	for _, c := range components {
		fmt.Fprintf(&b, "from components.%s import %s\n", c.ident, c.ident)
	}
	b.WriteString("\n\ndef main():\n")
	b.WriteString("    print(\"Application started\")\n")
	for _, c := range components {
		fmt.Fprintf(&b, "    %s().render()\n", c.ident)
	}
	b.WriteString("\n\nif __name__ == \"__main__\":\n")
	b.WriteString("    main()\n")
	return b.String()
}
