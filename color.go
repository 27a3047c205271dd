package mapview

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/gg"
)

// Color is a wire-format color with components in [0, 1].
// On the feed and in configuration objects it is encoded as a JSON array
// [r, g, b, a]; a three-element array implies alpha 1.
type Color struct {
	R, G, B, A float64
}

// NewColor creates a Color from RGBA components in [0, 1].
func NewColor(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGBA converts the color to the gg drawing representation.
func (c Color) RGBA() gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Mix linearly interpolates from c toward other by t in [0, 1].
func (c Color) Mix(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// MarshalJSON encodes the color as [r, g, b, a].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{c.R, c.G, c.B, c.A})
}

// UnmarshalJSON decodes [r, g, b] or [r, g, b, a] arrays.
func (c *Color) UnmarshalJSON(data []byte) error {
	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("mapview: invalid color: %w", err)
	}
	switch len(parts) {
	case 3:
		*c = Color{R: parts[0], G: parts[1], B: parts[2], A: 1}
	case 4:
		*c = Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}
	default:
		return fmt.Errorf("mapview: color needs 3 or 4 components, got %d", len(parts))
	}
	return nil
}
