package valueobjects

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Style is a partial style record. A nil field means "use the generation
// default for this element type", which is different from an explicit zero.
type Style struct {
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	Color           *string  `json:"color,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontWeight      *string  `json:"fontWeight,omitempty"`
	TextAlign       *string  `json:"textAlign,omitempty"`
	Padding         *float64 `json:"padding,omitempty"`
	Margin          *float64 `json:"margin,omitempty"`
	BorderRadius    *float64 `json:"borderRadius,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty"`
	BorderStyle     *string  `json:"borderStyle,omitempty"`
	FlexDirection   *string  `json:"flexDirection,omitempty"`
	JustifyContent  *string  `json:"justifyContent,omitempty"`
	AlignItems      *string  `json:"alignItems,omitempty"`
	Gap             *float64 `json:"gap,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	ZIndex          *int     `json:"zIndex,omitempty"`
	BoxShadow       *string  `json:"boxShadow,omitempty"`
	ObjectFit       *string  `json:"objectFit,omitempty"`
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Merge returns a copy of s with every non-nil field of patch applied
func (s Style) Merge(patch Style) Style {
	out := s.Clone()
	mergeString(&out.BackgroundColor, patch.BackgroundColor)
	mergeString(&out.Color, patch.Color)
	mergeString(&out.FontFamily, patch.FontFamily)
	mergeFloat(&out.FontSize, patch.FontSize)
	mergeString(&out.FontWeight, patch.FontWeight)
	mergeString(&out.TextAlign, patch.TextAlign)
	mergeFloat(&out.Padding, patch.Padding)
	mergeFloat(&out.Margin, patch.Margin)
	mergeFloat(&out.BorderRadius, patch.BorderRadius)
	mergeFloat(&out.BorderWidth, patch.BorderWidth)
	mergeString(&out.BorderColor, patch.BorderColor)
	mergeString(&out.BorderStyle, patch.BorderStyle)
	mergeString(&out.FlexDirection, patch.FlexDirection)
	mergeString(&out.JustifyContent, patch.JustifyContent)
	mergeString(&out.AlignItems, patch.AlignItems)
	mergeFloat(&out.Gap, patch.Gap)
	mergeFloat(&out.Opacity, patch.Opacity)
	if patch.ZIndex != nil {
		out.ZIndex = Ptr(*patch.ZIndex)
	}
	mergeString(&out.BoxShadow, patch.BoxShadow)
	mergeString(&out.ObjectFit, patch.ObjectFit)
	return out
}

// Clone returns a deep copy so callers never share field pointers
func (s Style) Clone() Style {
	return Style{
		BackgroundColor: cloneString(s.BackgroundColor),
		Color:           cloneString(s.Color),
		FontFamily:      cloneString(s.FontFamily),
		FontSize:        cloneFloat(s.FontSize),
		FontWeight:      cloneString(s.FontWeight),
		TextAlign:       cloneString(s.TextAlign),
		Padding:         cloneFloat(s.Padding),
		Margin:          cloneFloat(s.Margin),
		BorderRadius:    cloneFloat(s.BorderRadius),
		BorderWidth:     cloneFloat(s.BorderWidth),
		BorderColor:     cloneString(s.BorderColor),
		BorderStyle:     cloneString(s.BorderStyle),
		FlexDirection:   cloneString(s.FlexDirection),
		JustifyContent:  cloneString(s.JustifyContent),
		AlignItems:      cloneString(s.AlignItems),
		Gap:             cloneFloat(s.Gap),
		Opacity:         cloneFloat(s.Opacity),
		ZIndex:          cloneInt(s.ZIndex),
		BoxShadow:       cloneString(s.BoxShadow),
		ObjectFit:       cloneString(s.ObjectFit),
	}
}

// IsEmpty reports whether no field is set
func (s Style) IsEmpty() bool {
	return s == Style{}
}

// UnmarshalJSON decodes a style leniently. Style records arrive from an
// untyped editor, so a field with the wrong runtime type is dropped
// (falls back to the default) instead of failing the whole document.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// A style that is not an object at all is treated as empty.
		*s = Style{}
		return nil
	}

	out := Style{
		BackgroundColor: lenientString(raw["backgroundColor"]),
		Color:           lenientString(raw["color"]),
		FontFamily:      lenientString(raw["fontFamily"]),
		FontSize:        lenientFloat(raw["fontSize"]),
		FontWeight:      lenientWeight(raw["fontWeight"]),
		TextAlign:       lenientString(raw["textAlign"]),
		Padding:         lenientFloat(raw["padding"]),
		Margin:          lenientFloat(raw["margin"]),
		BorderRadius:    lenientFloat(raw["borderRadius"]),
		BorderWidth:     lenientFloat(raw["borderWidth"]),
		BorderColor:     lenientString(raw["borderColor"]),
		BorderStyle:     lenientString(raw["borderStyle"]),
		FlexDirection:   lenientString(raw["flexDirection"]),
		JustifyContent:  lenientString(raw["justifyContent"]),
		AlignItems:      lenientString(raw["alignItems"]),
		Gap:             lenientFloat(raw["gap"]),
		Opacity:         lenientFloat(raw["opacity"]),
		BoxShadow:       lenientString(raw["boxShadow"]),
		ObjectFit:       lenientString(raw["objectFit"]),
	}
	if f := lenientFloat(raw["zIndex"]); f != nil && *f == math.Trunc(*f) &&
		*f >= math.MinInt32 && *f <= math.MaxInt32 {
		out.ZIndex = Ptr(int(*f))
	}

	*s = out
	return nil
}

func lenientString(raw json.RawMessage) *string {
	if isAbsent(raw) {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func lenientFloat(raw json.RawMessage) *float64 {
	if isAbsent(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if !isFinite(f) {
			return nil
		}
		return &f
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(str), "px"), 64)
	if err != nil || !isFinite(parsed) {
		return nil
	}
	return &parsed
}

// lenientWeight accepts both "bold" and 700
func lenientWeight(raw json.RawMessage) *string {
	if v := lenientString(raw); v != nil {
		return v
	}
	var f float64
	if isAbsent(raw) || json.Unmarshal(raw, &f) != nil || f != math.Trunc(f) {
		return nil
	}
	return Ptr(strconv.Itoa(int(f)))
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = Ptr(*src)
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = Ptr(*src)
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}
