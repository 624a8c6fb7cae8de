package valueobjects

import (
	"math"

	pkgerrors "appbuilder/pkg/errors"
)

// Position is the canvas location of an element or logic node
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position, rejecting non-finite coordinates
func NewPosition(x, y float64) (Position, error) {
	if !isFinite(x) || !isFinite(y) {
		return Position{}, pkgerrors.NewValidationError("position coordinates must be finite numbers")
	}
	return Position{X: x, Y: y}, nil
}

// Offset returns the position moved by dx and dy
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Validate checks the position invariants
func (p Position) Validate() error {
	_, err := NewPosition(p.X, p.Y)
	return err
}

// Size is the rendered extent of a design element
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a size. Negative or non-finite extents are rejected.
func NewSize(width, height float64) (Size, error) {
	if !isFinite(width) || !isFinite(height) {
		return Size{}, pkgerrors.NewValidationError("size must be finite numbers")
	}
	if width < 0 || height < 0 {
		return Size{}, pkgerrors.NewValidationError("size cannot be negative")
	}
	return Size{Width: width, Height: height}, nil
}

// Validate checks the size invariants
func (s Size) Validate() error {
	_, err := NewSize(s.Width, s.Height)
	return err
}

// FlatGeometry is the legacy x/y/width/height view of an element.
// It is always computed from Position and Size and never stored.
type FlatGeometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Flatten derives the flat view from the canonical geometry
func Flatten(p Position, s Size) FlatGeometry {
	return FlatGeometry{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
