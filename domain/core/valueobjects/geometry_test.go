package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "origin", x: 0, y: 0},
		{name: "negative coordinates", x: -120.5, y: -3},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "infinite y", x: 0, y: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X)
			assert.Equal(t, tt.y, pos.Y)
		})
	}
}

func TestNewSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{name: "zero size is allowed", width: 0, height: 0},
		{name: "regular size", width: 200, height: 40},
		{name: "negative width", width: -1, height: 40, wantErr: true},
		{name: "negative height", width: 10, height: -0.5, wantErr: true},
		{name: "infinite width", width: math.Inf(1), height: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSize(tt.width, tt.height)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestFlattenDerivesFromCanonicalGeometry(t *testing.T) {
	flat := Flatten(Position{X: 10, Y: 20}, Size{Width: 150, Height: 40})

	assert.Equal(t, FlatGeometry{X: 10, Y: 20, Width: 150, Height: 40}, flat)
}

func TestPositionOffset(t *testing.T) {
	p := Position{X: 1, Y: 2}

	assert.Equal(t, Position{X: 21, Y: 22}, p.Offset(20, 20))
	assert.Equal(t, Position{X: 1, Y: 2}, p, "offset must not mutate the receiver")
}

func TestStyleMerge(t *testing.T) {
	// Arrange
	base := Style{Color: Ptr("#000000"), FontSize: Ptr(16.0)}
	patch := Style{FontSize: Ptr(24.0), Padding: Ptr(8.0)}

	// Act
	merged := base.Merge(patch)

	// Assert
	require.NotNil(t, merged.Color)
	assert.Equal(t, "#000000", *merged.Color)
	assert.Equal(t, 24.0, *merged.FontSize)
	assert.Equal(t, 8.0, *merged.Padding)
	assert.Equal(t, 16.0, *base.FontSize, "merge must not mutate the base")
}

func TestStyleCloneSharesNoPointers(t *testing.T) {
	s := Style{Color: Ptr("#fff"), ZIndex: Ptr(2)}
	c := s.Clone()

	*c.Color = "#000"
	*c.ZIndex = 9

	assert.Equal(t, "#fff", *s.Color)
	assert.Equal(t, 2, *s.ZIndex)
}

func TestStyleUnmarshalJSONIsLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s Style)
	}{
		{
			name:  "pixel strings become numbers",
			input: `{"fontSize":"18px","padding":" 4 "}`,
			check: func(t *testing.T, s Style) {
				require.NotNil(t, s.FontSize)
				assert.Equal(t, 18.0, *s.FontSize)
				require.NotNil(t, s.Padding)
				assert.Equal(t, 4.0, *s.Padding)
			},
		},
		{
			name:  "numeric font weight is kept as text",
			input: `{"fontWeight":700}`,
			check: func(t *testing.T, s Style) {
				require.NotNil(t, s.FontWeight)
				assert.Equal(t, "700", *s.FontWeight)
			},
		},
		{
			name:  "wrong runtime types fall back to defaults",
			input: `{"color":12,"fontSize":"large","borderRadius":true}`,
			check: func(t *testing.T, s Style) {
				assert.Nil(t, s.Color)
				assert.Nil(t, s.FontSize)
				assert.Nil(t, s.BorderRadius)
			},
		},
		{
			name:  "null fields stay unset",
			input: `{"color":null}`,
			check: func(t *testing.T, s Style) {
				assert.True(t, s.IsEmpty())
			},
		},
		{
			name:  "non object style is empty",
			input: `"red"`,
			check: func(t *testing.T, s Style) {
				assert.True(t, s.IsEmpty())
			},
		},
		{
			name:  "fractional z index is dropped",
			input: `{"zIndex":1.5}`,
			check: func(t *testing.T, s Style) {
				assert.Nil(t, s.ZIndex)
			},
		},
		{
			name:  "z index outside int32 is dropped",
			input: `{"zIndex":1e300,"opacity":0.5}`,
			check: func(t *testing.T, s Style) {
				assert.Nil(t, s.ZIndex)
				require.NotNil(t, s.Opacity)
				assert.Equal(t, 0.5, *s.Opacity)
			},
		},
		{
			name:  "negative z index at the int32 bound is kept",
			input: `{"zIndex":-2147483648}`,
			check: func(t *testing.T, s Style) {
				require.NotNil(t, s.ZIndex)
				assert.Equal(t, math.MinInt32, *s.ZIndex)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Style
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			tt.check(t, s)
		})
	}
}
