package mapview

import "github.com/gogpu/gg"

// wheelZoomRate converts wheel delta units into a zoom factor:
// newZoom = zoom * (1 - deltaY*wheelZoomRate).
const wheelZoomRate = 0.001

// Controller translates pointer and wheel input into viewport mutations.
// The host adapter forwards its native events here; coordinates are
// surface pixels.
type Controller struct {
	cfg *Config
	vp  *Viewport
}

// NewController creates an input controller for the viewport.
func NewController(cfg *Config, vp *Viewport) *Controller {
	return &Controller{cfg: cfg, vp: vp}
}

// PointerDown starts a drag gesture at the given screen position.
func (c *Controller) PointerDown(x, y float64) {
	if !c.cfg.AllowDrag {
		return
	}
	c.vp.dragging = true
	c.vp.dragStart = gg.Pt(x, y)
	c.vp.dragBase = c.vp.offset
}

// PointerMove updates the pan offset while dragging so the content
// follows the pointer ("grab and drag"). It is a no-op when no drag is in
// progress.
func (c *Controller) PointerMove(x, y float64) {
	if !c.vp.dragging {
		return
	}
	tr, err := c.vp.Transform()
	if err != nil {
		// Rotation contract violations surface at draw time; input is
		// simply ignored until then.
		return
	}
	delta := tr.ScreenDeltaToWorld(gg.Pt(x, y).Sub(c.vp.dragStart))
	c.vp.offset = c.vp.dragBase.Sub(delta)
}

// PointerUp ends the drag gesture. No inertia is applied.
func (c *Controller) PointerUp() {
	c.vp.dragging = false
}

// Wheel applies a wheel-zoom step. Zoom is anchored at the viewport
// center, not at the pointer.
func (c *Controller) Wheel(deltaY float64) {
	if !c.cfg.AllowZoom {
		return
	}
	c.vp.SetZoom(c.vp.zoom * (1 - deltaY*wheelZoomRate))
}
