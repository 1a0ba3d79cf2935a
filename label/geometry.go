package label

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines the renderable primitives a label is composed of.
// Coordinates are label-local millimeters with the origin at the top
// left corner.

// Color holds 0-255 RGB values.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseColor parses #RGB and #RRGGBB hex strings.
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(string(v[0]), 2)),
			G: mustHex(strings.Repeat(string(v[1]), 2)),
			B: mustHex(strings.Repeat(string(v[2]), 2)),
		}, nil
	case 6:
		return Color{R: mustHex(v[0:2]), G: mustHex(v[2:4]), B: mustHex(v[4:6])}, nil
	default:
		return Color{}, fmt.Errorf("cannot parse color %q", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// lerp interpolates between two colors, t in [0,1].
func lerp(a, b Color, t float64) Color {
	mix := func(x, y int) int { return x + int(float64(y-x)*t+0.5) }
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // nil means no fill
}

// Line is a straight segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // <=0 lets the renderer pick a default
}

// Band is a horizontal strip filled with a linear gradient across its
// color stops. Renderers draw it through Slices.
type Band struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Stops  []Color `json:"stops"`
	Steps  int     `json:"steps"`
}

// bandBleed closes hairline gaps between adjacent slices.
const bandBleed = 0.05

// Slices expands the band into equal-width filled rectangles with the
// gradient interpolated across the stops.
func (b Band) Slices() []Rect {
	steps := b.Steps
	if steps < 2 {
		steps = 2
	}
	if len(b.Stops) == 0 {
		return nil
	}
	stops := b.Stops
	if len(stops) == 1 {
		stops = []Color{stops[0], stops[0]}
	}
	sliceW := b.Width / float64(steps)
	out := make([]Rect, 0, steps)
	for i := 0; i < steps; i++ {
		ratio := float64(i) / float64(steps-1)
		// Position within the stop list.
		pos := ratio * float64(len(stops)-1)
		seg := int(pos)
		if seg >= len(stops)-1 {
			seg = len(stops) - 2
		}
		c := lerp(stops[seg], stops[seg+1], pos-float64(seg))
		w := sliceW + bandBleed
		if i == steps-1 {
			w = sliceW
		}
		fill := c
		out = append(out, Rect{
			X:         b.X + float64(i)*sliceW,
			Y:         b.Y,
			Width:     w,
			Height:    b.Height,
			FillColor: &fill,
		})
	}
	return out
}

// FontStyle names one of the label font weights.
type FontStyle string

const (
	FontRegular   FontStyle = "regular"
	FontBold      FontStyle = "bold"
	FontExtraBold FontStyle = "extrabold"
)

// Anchor positions for TextBox.X.
const (
	AnchorLeft   = "left"
	AnchorCenter = "center"
	AnchorRight  = "right"
)

// TextBox is one positioned line of display text. Content is already in
// presentation order (directional runs reordered, letter forms joined);
// Y is the text baseline.
type TextBox struct {
	Content   string    `json:"content"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Anchor    string    `json:"anchor"`
	Font      FontStyle `json:"font"`
	FontSize  float64   `json:"fontSize"` // mm
	Color     Color     `json:"color"`
	TextWidth float64   `json:"textWidth"` // measured, mm
}

// Fragment is the complete renderable geometry of one label. Field
// order is draw order: background first, strikes last. Name keeps the
// logical (non-reordered) product name; every TextBox content is
// presentation-ordered and must not be stored or compared.
type Fragment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Background Rect      `json:"background"`
	Hatch      []Line    `json:"hatch,omitempty"`
	Rects      []Rect    `json:"rects,omitempty"`
	Bands      []Band    `json:"bands,omitempty"`
	Barcode    []Rect    `json:"barcode,omitempty"`
	Texts      []TextBox `json:"texts,omitempty"`
	Strikes    []Line    `json:"strikes,omitempty"`
}
