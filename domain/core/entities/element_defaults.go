package entities

import "appbuilder/domain/core/valueobjects"

// DefaultSize is the palette size for a freshly dropped element
func DefaultSize(t ElementType) valueobjects.Size {
	switch t {
	case ElementContainer:
		return valueobjects.Size{Width: 300, Height: 200}
	case ElementText, ElementInput:
		return valueobjects.Size{Width: 200, Height: 40}
	case ElementButton:
		return valueobjects.Size{Width: 150, Height: 40}
	case ElementImage, ElementSVG:
		return valueobjects.Size{Width: 200, Height: 150}
	case ElementVideo:
		return valueobjects.Size{Width: 320, Height: 240}
	case ElementVStack, ElementHStack, ElementZStack:
		return valueobjects.Size{Width: 250, Height: 250}
	case ElementGrid:
		return valueobjects.Size{Width: 300, Height: 300}
	case ElementCard:
		return valueobjects.Size{Width: 250, Height: 300}
	case ElementColumns:
		return valueobjects.Size{Width: 400, Height: 200}
	default:
		return valueobjects.Size{Width: 150, Height: 150}
	}
}

// DefaultProps is the palette prop set for a freshly dropped element
func DefaultProps(t ElementType) map[string]interface{} {
	switch t {
	case ElementText:
		return map[string]interface{}{"text": "Text content"}
	case ElementButton:
		return map[string]interface{}{"text": "Button"}
	case ElementInput:
		return map[string]interface{}{"placeholder": "Enter text...", "type": "text"}
	case ElementImage:
		return map[string]interface{}{"src": "/placeholder.jpg", "alt": "Image"}
	case ElementVideo:
		return map[string]interface{}{"src": "", "controls": true}
	case ElementSVG:
		return map[string]interface{}{"src": "", "alt": "SVG Icon"}
	case ElementCard:
		return map[string]interface{}{"title": "Card Title"}
	case ElementColumns:
		return map[string]interface{}{"columns": float64(2)}
	default:
		return map[string]interface{}{}
	}
}

// DefaultStyle is the palette style for a freshly dropped element. Fields
// left nil fall through to the code generator's defaults.
func DefaultStyle(t ElementType) valueobjects.Style {
	str := valueobjects.Ptr[string]
	num := valueobjects.Ptr[float64]

	switch t {
	case ElementText:
		return valueobjects.Style{
			FontFamily: str("Inter"),
			FontSize:   num(16),
			FontWeight: str("normal"),
			TextAlign:  str("left"),
			Color:      str("#000000"),
		}
	case ElementButton:
		return valueobjects.Style{
			BorderRadius: num(4),
			Padding:      num(8),
		}
	case ElementContainer:
		return valueobjects.Style{
			Padding:         num(16),
			BackgroundColor: str("#ffffff"),
			BorderRadius:    num(4),
			BorderWidth:     num(1),
			BorderStyle:     str("solid"),
			BorderColor:     str("#e2e8f0"),
		}
	case ElementVStack:
		return valueobjects.Style{FlexDirection: str("column"), Gap: num(8), Padding: num(8)}
	case ElementHStack:
		return valueobjects.Style{FlexDirection: str("row"), Gap: num(8), Padding: num(8)}
	default:
		return valueobjects.Style{}
	}
}
