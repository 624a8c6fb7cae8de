package entities

import (
	"strings"

	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

// ElementType is the closed set of visual building blocks
type ElementType string

const (
	ElementText      ElementType = "text"
	ElementButton    ElementType = "button"
	ElementInput     ElementType = "input"
	ElementImage     ElementType = "image"
	ElementVideo     ElementType = "video"
	ElementSVG       ElementType = "svg"
	ElementContainer ElementType = "container"
	ElementVStack    ElementType = "vstack"
	ElementHStack    ElementType = "hstack"
	ElementZStack    ElementType = "zstack"
	ElementGrid      ElementType = "grid"
	ElementCard      ElementType = "card"
	ElementColumns   ElementType = "columns"
)

// ElementTypes lists every element type in palette order
var ElementTypes = []ElementType{
	ElementText, ElementButton, ElementInput, ElementImage, ElementVideo, ElementSVG,
	ElementContainer, ElementVStack, ElementHStack, ElementZStack, ElementGrid,
	ElementCard, ElementColumns,
}

// IsValid reports whether t belongs to the closed set
func (t ElementType) IsValid() bool {
	for _, known := range ElementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName is the capitalized type, used as the default element name
func (t ElementType) DisplayName() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DesignElement is a visual node on the canvas.
// Position and Size are the only stored geometry.
type DesignElement struct {
	ID       string                 `json:"id"`
	Type     ElementType            `json:"type"`
	Name     string                 `json:"name"`
	Props    map[string]interface{} `json:"props"`
	Style    valueobjects.Style     `json:"style"`
	Position valueobjects.Position  `json:"position"`
	Size     valueobjects.Size      `json:"size"`
	Visible  *bool                  `json:"visible,omitempty"`
}

// NewDesignElement creates an element with the palette defaults for its type
func NewDesignElement(id string, elementType ElementType, name string, position valueobjects.Position) (DesignElement, error) {
	if id == "" {
		return DesignElement{}, pkgerrors.NewValidationError("element id cannot be empty")
	}
	if !elementType.IsValid() {
		return DesignElement{}, pkgerrors.NewValidationError("unknown element type: " + string(elementType))
	}
	if strings.TrimSpace(name) == "" {
		name = elementType.DisplayName()
	}

	el := DesignElement{
		ID:       id,
		Type:     elementType,
		Name:     name,
		Props:    DefaultProps(elementType),
		Style:    DefaultStyle(elementType),
		Position: position,
		Size:     DefaultSize(elementType),
	}
	if err := el.Validate(); err != nil {
		return DesignElement{}, err
	}
	return el, nil
}

// Validate checks the element invariants
func (e DesignElement) Validate() error {
	if e.ID == "" {
		return pkgerrors.NewValidationError("element id cannot be empty")
	}
	if !e.Type.IsValid() {
		return pkgerrors.NewValidationError("unknown element type: " + string(e.Type))
	}
	if err := e.Position.Validate(); err != nil {
		return err
	}
	return e.Size.Validate()
}

// IsVisible applies the default of true
func (e DesignElement) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// FlatGeometry is the derived legacy x/y/width/height view
func (e DesignElement) FlatGeometry() valueobjects.FlatGeometry {
	return valueobjects.Flatten(e.Position, e.Size)
}

// Clone returns a deep copy
func (e DesignElement) Clone() DesignElement {
	out := e
	out.Props = cloneMap(e.Props)
	out.Style = e.Style.Clone()
	if e.Visible != nil {
		out.Visible = valueobjects.Ptr(*e.Visible)
	}
	return out
}

// ElementPatch is a partial update. Nil fields are left untouched.
type ElementPatch struct {
	Name     *string                `json:"name,omitempty"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Style    *valueobjects.Style    `json:"style,omitempty"`
	Position *valueobjects.Position `json:"position,omitempty"`
	Size     *valueobjects.Size     `json:"size,omitempty"`
	Visible  *bool                  `json:"visible,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ElementPatch) IsEmpty() bool {
	return p.Name == nil && p.Props == nil && p.Style == nil &&
		p.Position == nil && p.Size == nil && p.Visible == nil
}

// Apply returns a copy of e with the patch merged in. Style merges field by
// field; props merge key by key and a nil value deletes the key.
func (e DesignElement) Apply(p ElementPatch) (DesignElement, error) {
	out := e.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Props != nil {
		out.Props = mergeMap(out.Props, p.Props)
	}
	if p.Style != nil {
		out.Style = out.Style.Merge(*p.Style)
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Size != nil {
		out.Size = *p.Size
	}
	if p.Visible != nil {
		out.Visible = valueobjects.Ptr(*p.Visible)
	}
	if err := out.Validate(); err != nil {
		return DesignElement{}, err
	}
	return out, nil
}

// Duplicate copies the element under a new id, renamed and shifted by offset
// on both axes
func (e DesignElement) Duplicate(newID string, offset float64) (DesignElement, error) {
	if newID == "" {
		return DesignElement{}, pkgerrors.NewValidationError("element id cannot be empty")
	}
	out := e.Clone()
	out.ID = newID
	out.Name = e.Name + " (copy)"
	out.Position = e.Position.Offset(offset, offset)
	return out, nil
}
