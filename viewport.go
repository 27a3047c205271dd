package mapview

import "github.com/gogpu/gg"

// Viewport holds the mutable view state of a Map session: surface size,
// zoom, view center, and pan offset. The world point Center+Offset is
// always fixed at the surface center.
type Viewport struct {
	cfg *Config

	cw, ch float64 // surface size in pixels
	zoom   float64
	center gg.Point // view center, world units
	offset gg.Point // pan delta added to the center, world units

	dragging  bool
	dragStart gg.Point // screen position at pointer-down
	dragBase  gg.Point // offset at pointer-down
}

// NewViewport creates a viewport for the given configuration, positioned
// at the configured initial display center and zoom.
func NewViewport(cfg *Config) *Viewport {
	v := &Viewport{
		cfg:    cfg,
		center: gg.Pt(cfg.InitialDisplayCenter[0], cfg.InitialDisplayCenter[1]),
	}
	v.SetZoom(cfg.InitialDisplayZoom)
	return v
}

// SetSurfaceSize records the drawing surface size in pixels. The base
// scale is re-derived from it on the next Transform call, so a stale
// scale is never used for a frame.
func (v *Viewport) SetSurfaceSize(w, h int) {
	v.cw, v.ch = float64(w), float64(h)
}

// SurfaceSize returns the current surface size in pixels.
func (v *Viewport) SurfaceSize() (w, h float64) {
	return v.cw, v.ch
}

// BaseScale returns pixels per world unit at zoom 1 for the current
// surface size.
func (v *Viewport) BaseScale() float64 {
	return baseScale(v.cw, v.ch, v.cfg.Limits)
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// SetZoom stores the zoom factor clamped to the configured limits.
// Callers must never bypass the clamp.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = v.cfg.ZoomLimits.Clamp(z)
}

// Center returns the view center in world units.
func (v *Viewport) Center() gg.Point { return v.center }

// SetCenter moves the view center and resets the pan offset.
func (v *Viewport) SetCenter(p gg.Point) {
	v.center = p
	v.offset = gg.Point{}
}

// Offset returns the pan offset in world units.
func (v *Viewport) Offset() gg.Point { return v.offset }

// SetOffset replaces the pan offset.
func (v *Viewport) SetOffset(p gg.Point) { v.offset = p }

// Dragging reports whether a drag gesture is in progress.
func (v *Viewport) Dragging() bool { return v.dragging }

// Transform builds the world↔screen snapshot for the current state.
// The base scale is derived here, at the start of every paint, so resize
// events between frames are always honored. Returns ErrInvalidRotation
// when the configured rotation is not a right angle.
func (v *Viewport) Transform() (*Transform, error) {
	scale := v.BaseScale() * v.zoom
	return NewTransform(v.cw, v.ch, scale, v.cfg.Rotation, v.center.Add(v.offset))
}
