package mapview

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// ErrInvalidRotation reports a rotation that is not a multiple of 90
// degrees. It indicates a caller bug, not a transient condition: the paint
// pass aborts without drawing a partial frame.
var ErrInvalidRotation = errors.New("mapview: rotation must be a multiple of 90 degrees")

// rightAngle returns the exact sine and cosine for a rotation restricted
// to right angles. Exact integer values keep the world↔screen round trip
// bit-stable at 90° steps.
func rightAngle(deg float64) (sin, cos float64, err error) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1, nil
	case 90:
		return 1, 0, nil
	case 180:
		return 0, -1, nil
	case 270:
		return -1, 0, nil
	}
	return 0, 0, fmt.Errorf("%w: got %v", ErrInvalidRotation, deg)
}

// Transform is an immutable per-paint snapshot of the world↔screen
// mapping. World coordinates are y-up; screen coordinates are y-down
// pixels with the origin at the top-left of the surface.
type Transform struct {
	CW, CH   float64  // surface size in pixels
	Scale    float64  // pixels per world unit, always > 0
	Center   gg.Point // world point fixed at the surface center
	Rotation float64  // degrees, multiple of 90

	sin, cos float64
}

// NewTransform builds a transform snapshot. It returns ErrInvalidRotation
// for rotations that are not right angles. A non-positive scale falls back
// to 1 so degenerate geometry renders a minimal frame instead of dividing
// by zero.
func NewTransform(cw, ch, scale, rotation float64, center gg.Point) (*Transform, error) {
	sin, cos, err := rightAngle(rotation)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}
	return &Transform{
		CW:       cw,
		CH:       ch,
		Scale:    scale,
		Center:   center,
		Rotation: rotation,
		sin:      sin,
		cos:      cos,
	}, nil
}

// WorldToScreen maps a world point to surface pixels: the centered point
// is rotated by +rotation, scaled (y flipped), and translated to the
// surface center.
func (t *Transform) WorldToScreen(p gg.Point) gg.Point {
	d := p.Sub(t.Center)
	rx := d.X*t.cos - d.Y*t.sin
	ry := d.X*t.sin + d.Y*t.cos
	return gg.Pt(t.CW/2+rx*t.Scale, t.CH/2-ry*t.Scale)
}

// ScreenDeltaToWorld converts a screen-space delta (for example from a
// drag gesture) into world axes. It is the exact algebraic inverse of the
// rotation step in WorldToScreen; anything less and panning drifts at
// non-zero rotation.
func (t *Transform) ScreenDeltaToWorld(d gg.Point) gg.Point {
	ux := d.X / t.Scale
	uy := -d.Y / t.Scale
	return gg.Pt(ux*t.cos+uy*t.sin, -ux*t.sin+uy*t.cos)
}

// ScreenToWorld is the full inverse of WorldToScreen.
func (t *Transform) ScreenToWorld(p gg.Point) gg.Point {
	return t.Center.Add(t.ScreenDeltaToWorld(gg.Pt(p.X-t.CW/2, p.Y-t.CH/2)))
}

// PixelsToWorld converts a pixel length to world units.
func (t *Transform) PixelsToWorld(px float64) float64 {
	return px / t.Scale
}

// WorldToPixels converts a world-unit length to pixels.
func (t *Transform) WorldToPixels(w float64) float64 {
	return w * t.Scale
}

// baseScale computes pixels per world unit such that the larger world
// dimension fills the surface at zoom 1. Degenerates to 1 if any
// dimension is zero (guards divide-by-zero before the first layout).
func baseScale(cw, ch float64, limits Limits) float64 {
	w, h := limits.Width(), limits.Height()
	if cw <= 0 || ch <= 0 || w <= 0 || h <= 0 {
		return 1
	}
	return math.Max(cw/w, ch/h)
}
