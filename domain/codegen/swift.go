package codegen

import (
	"fmt"
	"strings"

	"appbuilder/domain/core/entities"
)

const swiftImport = "import SwiftUI\n"

const swiftColorExtension = `// Helper for hex color support
extension Color {
    init(hex: String) {
        let hex = hex.trimmingCharacters(in: CharacterSet.alphanumerics.inverted)
        var int: UInt64 = 0
        Scanner(string: hex).scanHexInt64(&int)
        let a, r, g, b: UInt64
        switch hex.count {
        case 3:
            (a, r, g, b) = (255, (int >> 8) * 17, (int >> 4 & 0xF) * 17, (int & 0xF) * 17)
        case 6:
            (a, r, g, b) = (255, int >> 16, int >> 8 & 0xFF, int & 0xFF)
        case 8:
            (a, r, g, b) = (int >> 24, int >> 16 & 0xFF, int >> 8 & 0xFF, int & 0xFF)
        default:
            (a, r, g, b) = (1, 1, 1, 0)
        }
        self.init(
            .sRGB,
            red: Double(r) / 255,
            green: Double(g) / 255,
            blue: Double(b) / 255,
            opacity: Double(a) / 255
        )
    }
}
`

var swiftWeights = map[string]string{
	"normal": "regular",
	"bold":   "bold",
	"100":    "ultraLight",
	"200":    "thin",
	"300":    "light",
	"400":    "regular",
	"500":    "medium",
	"600":    "semibold",
	"700":    "bold",
	"800":    "heavy",
	"900":    "black",

	"ultraLight": "ultraLight",
	"thin":       "thin",
	"light":      "light",
	"regular":    "regular",
	"medium":     "medium",
	"semibold":   "semibold",
	"heavy":      "heavy",
	"black":      "black",
}

func swiftWeight(v *string, def string) string {
	if v == nil {
		return def
	}
	if w, ok := swiftWeights[*v]; ok {
		return w
	}
	return def
}

func swiftAlignment(v *string) string {
	if v == nil {
		return "leading"
	}
	switch *v {
	case "center":
		return "center"
	case "right", "end", "trailing":
		return "trailing"
	default:
		return "leading"
	}
}

// swiftComponent renders el as a SwiftUI view. Standalone output includes
// the Color(hex:) extension; project output shares one copy.
func swiftComponent(el entities.DesignElement, ident string, opts options) (string, bool) {
	var view string
	switch el.Type {
	case entities.ElementContainer, entities.ElementVStack, entities.ElementHStack, entities.ElementZStack:
		view = swiftStack(el)
	case entities.ElementButton:
		view = swiftButton(el)
	case entities.ElementText:
		view = swiftText(el)
	case entities.ElementInput:
		return swiftInput(el, ident, opts), true
	case entities.ElementImage:
		view = swiftImage(el)
	default:
		return "", false
	}

	var b strings.Builder
	b.WriteString(swiftImport)
	b.WriteString("\n")
	fmt.Fprintf(&b, "struct %s: View {\n", ident)
	b.WriteString("    var body: some View {\n")
	b.WriteString(view)
	b.WriteString("    }\n")
	b.WriteString("}\n")
	if opts.standalone {
		b.WriteString("\n")
		b.WriteString(swiftColorExtension)
	}
	return b.String(), true
}

func swiftColor(hex string) string {
	return "Color(hex: " + swiftString(hex) + ")"
}

func swiftStack(el entities.DesignElement) string {
	s := el.Style
	gap := formatNumber(numOr(s.Gap, 8))

	var open string
	switch el.Type {
	case entities.ElementHStack:
		open = fmt.Sprintf("HStack(alignment: .top, spacing: %s) {", gap)
	case entities.ElementZStack:
		open = "ZStack(alignment: .topLeading) {"
	default:
		open = fmt.Sprintf("VStack(alignment: .leading, spacing: %s) {", gap)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "        %s\n", open)
	b.WriteString("            // Add child components here\n")
	b.WriteString("        }\n")
	fmt.Fprintf(&b, "        .frame(width: %s, height: %s)\n", formatNumber(el.Size.Width), formatNumber(el.Size.Height))
	fmt.Fprintf(&b, "        .background(%s)\n", swiftColor(strOr(s.BackgroundColor, "#ffffff")))
	fmt.Fprintf(&b, "        .cornerRadius(%s)\n", formatNumber(numOr(s.BorderRadius, 0)))
	fmt.Fprintf(&b, "        .padding(%s)\n", formatNumber(numOr(s.Padding, 0)))
	swiftCommonModifiers(&b, el)
	return b.String()
}

func swiftButton(el entities.DesignElement) string {
	s := el.Style
	text := propString(el.Props, "text", "Button")

	var b strings.Builder
	b.WriteString("        Button(action: {\n")
	b.WriteString("            print(\"Button tapped\")\n")
	b.WriteString("            // Add your action here\n")
	b.WriteString("        }) {\n")
	fmt.Fprintf(&b, "            Text(%s)\n", swiftString(text))
	fmt.Fprintf(&b, "                .foregroundColor(%s)\n", swiftColor(strOr(s.Color, "#ffffff")))
	fmt.Fprintf(&b, "                .frame(width: %s, height: %s)\n", formatNumber(el.Size.Width), formatNumber(el.Size.Height))
	fmt.Fprintf(&b, "                .font(.system(size: %s, weight: .%s))\n", formatNumber(numOr(s.FontSize, 16)), swiftWeight(s.FontWeight, "medium"))
	b.WriteString("        }\n")
	fmt.Fprintf(&b, "        .background(%s)\n", swiftColor(strOr(s.BackgroundColor, "#3b82f6")))
	fmt.Fprintf(&b, "        .cornerRadius(%s)\n", formatNumber(numOr(s.BorderRadius, 4)))
	fmt.Fprintf(&b, "        .padding(%s)\n", formatNumber(numOr(s.Padding, 0)))
	swiftCommonModifiers(&b, el)
	return b.String()
}

func swiftText(el entities.DesignElement) string {
	s := el.Style
	text := propString(el.Props, "text", "Text content")

	var b strings.Builder
	fmt.Fprintf(&b, "        Text(%s)\n", swiftString(text))
	fmt.Fprintf(&b, "            .foregroundColor(%s)\n", swiftColor(strOr(s.Color, "#000000")))
	fmt.Fprintf(&b, "            .font(.system(size: %s, weight: .%s))\n", formatNumber(numOr(s.FontSize, 16)), swiftWeight(s.FontWeight, "regular"))
	fmt.Fprintf(&b, "            .frame(width: %s, height: %s, alignment: .%s)\n",
		formatNumber(el.Size.Width), formatNumber(el.Size.Height), swiftAlignment(s.TextAlign))
	swiftCommonModifiersIndent(&b, el, "            ")
	return b.String()
}

func swiftImage(el entities.DesignElement) string {
	s := el.Style
	src := propString(el.Props, "src", "/placeholder.jpg")
	alt := propString(el.Props, "alt", "Image")

	mode := ".fill"
	if s.ObjectFit != nil && *s.ObjectFit == "contain" {
		mode = ".fit"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "        AsyncImage(url: URL(string: %s)) { image in\n", swiftString(src))
	fmt.Fprintf(&b, "            image.resizable().aspectRatio(contentMode: %s)\n", mode)
	b.WriteString("        } placeholder: {\n")
	b.WriteString("            Color.gray.opacity(0.2)\n")
	b.WriteString("        }\n")
	fmt.Fprintf(&b, "        .accessibilityLabel(%s)\n", swiftString(alt))
	fmt.Fprintf(&b, "        .frame(width: %s, height: %s)\n", formatNumber(el.Size.Width), formatNumber(el.Size.Height))
	b.WriteString("        .clipped()\n")
	fmt.Fprintf(&b, "        .cornerRadius(%s)\n", formatNumber(numOr(s.BorderRadius, 0)))
	swiftCommonModifiers(&b, el)
	return b.String()
}

func swiftInput(el entities.DesignElement, ident string, opts options) string {
	s := el.Style
	placeholder := propString(el.Props, "placeholder", "Enter text...")
	secure := propString(el.Props, "type", "text") == "password"

	field := "TextField"
	if secure {
		field = "SecureField"
	}

	var b strings.Builder
	b.WriteString(swiftImport)
	b.WriteString("\n")
	fmt.Fprintf(&b, "struct %s: View {\n", ident)
	b.WriteString("    @State private var value: String = \"\"\n\n")
	b.WriteString("    var body: some View {\n")
	fmt.Fprintf(&b, "        %s(%s, text: $value)\n", field, swiftString(placeholder))
	fmt.Fprintf(&b, "            .font(.system(size: %s))\n", formatNumber(numOr(s.FontSize, 16)))
	fmt.Fprintf(&b, "            .padding(%s)\n", formatNumber(numOr(s.Padding, 8)))
	b.WriteString("            .overlay(\n")
	fmt.Fprintf(&b, "                RoundedRectangle(cornerRadius: %s)\n", formatNumber(numOr(s.BorderRadius, 4)))
	fmt.Fprintf(&b, "                    .stroke(%s, lineWidth: %s)\n",
		swiftColor(strOr(s.BorderColor, "#d1d5db")), formatNumber(numOr(s.BorderWidth, 1)))
	b.WriteString("            )\n")
	fmt.Fprintf(&b, "            .frame(width: %s, height: %s)\n", formatNumber(el.Size.Width), formatNumber(el.Size.Height))
	swiftCommonModifiersIndent(&b, el, "            ")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	if opts.standalone {
		b.WriteString("\n")
		b.WriteString(swiftColorExtension)
	}
	return b.String()
}

func swiftCommonModifiers(b *strings.Builder, el entities.DesignElement) {
	swiftCommonModifiersIndent(b, el, "        ")
}

func swiftCommonModifiersIndent(b *strings.Builder, el entities.DesignElement, indent string) {
	if el.Style.Opacity != nil {
		fmt.Fprintf(b, "%s.opacity(%s)\n", indent, formatNumber(*el.Style.Opacity))
	}
	fmt.Fprintf(b, "%s.position(x: %s, y: %s)\n", indent, formatNumber(el.Position.X), formatNumber(el.Position.Y))
}

func swiftContentView(components []component) string {
	var b strings.Builder
	b.WriteString(swiftImport)
	b.WriteString("\n")
	b.WriteString("struct ContentView: View {\n")
	b.WriteString("    var body: some View {\n")
	b.WriteString("        VStack {\n")
	for _, c := range components {
		fmt.Fprintf(&b, "            %s()\n", c.ident)
	}
	b.WriteString("        }\n")
	b.WriteString("        .padding()\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
