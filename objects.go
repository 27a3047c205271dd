package mapview

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// EntityFactory constructs an entity with default state for a wire type.
type EntityFactory func(id string) Entity

var entityFactories = map[string]EntityFactory{}

// RegisterEntityType installs a factory for a feed object type. Built-in
// types may be overridden. Call before any feed traffic arrives.
func RegisterEntityType(name string, f EntityFactory) {
	entityFactories[name] = f
}

func init() {
	RegisterEntityType("group", func(id string) Entity { return NewGroup(id) })
	RegisterEntityType("point", func(id string) Entity { return NewMarker(id) })
	RegisterEntityType("agent", func(id string) Entity { return NewAgent(id) })
	RegisterEntityType("vision_agent", func(id string) Entity { return NewVisionAgent(id) })
	RegisterEntityType("circle", func(id string) Entity { return NewCircle(id) })
	RegisterEntityType("ellipse", func(id string) Entity { return NewEllipse(id) })
	RegisterEntityType("rectangle", func(id string) Entity { return NewRect(id) })
	RegisterEntityType("line", func(id string) Entity { return NewLine(id) })
	RegisterEntityType("coordinate_system", func(id string) Entity { return NewCoordinateSystem(id) })
}

func newEntity(typ, id string) (Entity, error) {
	f, ok := entityFactories[typ]
	if !ok {
		return nil, fmt.Errorf("mapview: unknown object type %q", typ)
	}
	return f(id), nil
}

// baseObject carries the identity and presentation state common to all
// entities.
type baseObject struct {
	id  string
	cfg ObjectConfig
}

func newBaseObject(id string, layer int) baseObject {
	return baseObject{id: id, cfg: ObjectConfig{Visible: true, Layer: layer}}
}

func (b *baseObject) ID() string                  { return b.id }
func (b *baseObject) ObjectConfig() *ObjectConfig { return &b.cfg }
func (b *baseObject) Destroy()                    {}

func (b *baseObject) UpdateConfig(data map[string]any) error {
	return applyJSON(&b.cfg, data)
}

// paintColor applies the dim effect to a fill or stroke color.
func (b *baseObject) paintColor(c Color) Color {
	if b.cfg.Dim {
		return c.WithAlpha(c.A * 0.3)
	}
	return c
}

var highlightColor = NewColor(1, 1, 1, 0.8)

// Size units for marker radii.
const (
	SizeMeter = "meter"
	SizePixel = "pixel"
)

// Marker is a point of interest drawn as a circle, square, or triangle.
// Size is a radius, in world units or pixels depending on SizeUnit.
type Marker struct {
	baseObject
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Shape    string  `json:"shape"`
	Size     float64 `json:"size"`
	SizeUnit string  `json:"size_unit"`
	Color    Color   `json:"color"`
}

// NewMarker creates a marker with default presentation.
func NewMarker(id string) *Marker {
	return &Marker{
		baseObject: newBaseObject(id, 3),
		Shape:      "circle",
		Size:       0.05,
		SizeUnit:   SizeMeter,
		Color:      NewColor(1, 134.0/255, 125.0/255, 1),
	}
}

func (m *Marker) Update(data map[string]any) error { return applyJSON(m, data) }

func (m *Marker) radiusPx(tr *Transform) float64 {
	if m.SizeUnit == SizePixel {
		return m.Size
	}
	return tr.WorldToPixels(m.Size)
}

func (m *Marker) Draw(dc *gg.Context, tr *Transform) error {
	p := tr.WorldToScreen(gg.Pt(m.X, m.Y))
	r := m.radiusPx(tr)
	if r <= 0 {
		return nil
	}
	switch m.Shape {
	case "square":
		dc.DrawRectangle(p.X-r, p.Y-r, 2*r, 2*r)
	case "triangle":
		// Apex up in screen space regardless of rotation.
		for i := 0; i < 3; i++ {
			a := -math.Pi/2 + float64(i)*2*math.Pi/3
			x, y := p.X+r*math.Cos(a), p.Y+r*math.Sin(a)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
	default:
		dc.DrawCircle(p.X, p.Y, r)
	}
	setFill(dc, m.paintColor(m.Color))
	if m.cfg.Highlight {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setFill(dc, highlightColor)
		dc.SetLineWidth(2)
		dc.ClearDash()
		return dc.Stroke()
	}
	return dc.Fill()
}

// Agent is a positioned, oriented object: a body circle plus a heading
// arrow. Psi is radians, counterclockwise from the world +x axis. Size
// is the body radius; the arrow dimensions are world units as well.
type Agent struct {
	baseObject
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Psi         float64 `json:"psi"`
	Size        float64 `json:"size"`
	Color       Color   `json:"color"`
	ArrowLength float64 `json:"arrow_length"`
	ArrowWidth  float64 `json:"arrow_width"`
}

// NewAgent creates an agent with default presentation.
func NewAgent(id string) *Agent {
	return &Agent{
		baseObject:  newBaseObject(id, 4),
		Size:        0.05,
		Color:       NewColor(0, 0.7, 0.7, 1),
		ArrowLength: 0.2,
		ArrowWidth:  0.02,
	}
}

func (a *Agent) Update(data map[string]any) error { return applyJSON(a, data) }

func (a *Agent) Draw(dc *gg.Context, tr *Transform) error {
	col := a.paintColor(a.Color)
	pos := gg.Pt(a.X, a.Y)
	p := tr.WorldToScreen(pos)
	r := tr.WorldToPixels(a.Size)

	dc.DrawCircle(p.X, p.Y, r)
	setFill(dc, col)
	if a.cfg.Highlight {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setFill(dc, highlightColor)
		dc.SetLineWidth(2)
		dc.ClearDash()
		if err := dc.Stroke(); err != nil {
			return err
		}
	} else if err := dc.Fill(); err != nil {
		return err
	}

	heading := gg.Pt(math.Cos(a.Psi), math.Sin(a.Psi))
	tip := tr.WorldToScreen(pos.Add(heading.Mul(a.ArrowLength)))
	return drawArrow(dc, p, tip, tr.WorldToPixels(a.ArrowWidth), col)
}

// VisionAgent is an agent with a translucent field-of-view cone centered
// on the heading.
type VisionAgent struct {
	Agent
	FOV          float64 `json:"fov"`           // radians
	VisionRadius float64 `json:"vision_radius"` // world units
	Opacity      float64 `json:"opacity"`
}

// NewVisionAgent creates a vision agent with a 90 degree cone. The
// heading arrow is slightly larger than a plain agent's so it stays
// visible against the cone.
func NewVisionAgent(id string) *VisionAgent {
	a := NewAgent(id)
	a.ArrowLength = 0.25
	a.ArrowWidth = 0.03
	return &VisionAgent{
		Agent:        *a,
		FOV:          math.Pi / 2,
		VisionRadius: 0.5,
		Opacity:      0.3,
	}
}

func (v *VisionAgent) Update(data map[string]any) error { return applyJSON(v, data) }

func (v *VisionAgent) Draw(dc *gg.Context, tr *Transform) error {
	if v.FOV > 0 && v.VisionRadius > 0 {
		// The cone is built in world space so map rotation carries it
		// along with the heading.
		const segments = 32
		pos := gg.Pt(v.X, v.Y)
		p := tr.WorldToScreen(pos)
		dc.MoveTo(p.X, p.Y)
		for i := 0; i <= segments; i++ {
			a := v.Psi - v.FOV/2 + v.FOV*float64(i)/segments
			w := pos.Add(gg.Pt(math.Cos(a), math.Sin(a)).Mul(v.VisionRadius))
			q := tr.WorldToScreen(w)
			dc.LineTo(q.X, q.Y)
		}
		dc.ClosePath()
		setFill(dc, v.paintColor(v.Color.WithAlpha(v.Opacity)))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return v.Agent.Draw(dc, tr)
}

// Circle is a world-space disc with optional outline.
type Circle struct {
	baseObject
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"` // world units
	Color     Color   `json:"color"`
	LineWidth float64 `json:"line_width"` // px
	LineColor Color   `json:"line_color"`
}

// NewCircle creates a circle with default presentation.
func NewCircle(id string) *Circle {
	return &Circle{
		baseObject: newBaseObject(id, 1),
		Radius:     1,
		Color:      NewColor(1, 0, 0, 1),
		LineWidth:  1,
		LineColor:  NewColor(0, 0, 0, 1),
	}
}

func (c *Circle) Update(data map[string]any) error { return applyJSON(c, data) }

func (c *Circle) Draw(dc *gg.Context, tr *Transform) error {
	p := tr.WorldToScreen(gg.Pt(c.X, c.Y))
	r := tr.WorldToPixels(c.Radius)
	if r <= 0 {
		return nil
	}
	dc.DrawCircle(p.X, p.Y, r)
	setFill(dc, c.paintColor(c.Color))
	if c.LineWidth > 0 {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setFill(dc, c.paintColor(c.LineColor))
		dc.SetLineWidth(c.LineWidth)
		dc.ClearDash()
		return dc.Stroke()
	}
	return dc.Fill()
}

// Ellipse is a world-space ellipse with semi-axes RX and RY, rotated by
// Psi radians counterclockwise.
type Ellipse struct {
	baseObject
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	RX        float64 `json:"rx"` // world units
	RY        float64 `json:"ry"` // world units
	Psi       float64 `json:"psi"`
	Color     Color   `json:"color"`
	LineWidth float64 `json:"line_width"` // px
	LineColor Color   `json:"line_color"`
}

// NewEllipse creates an ellipse with default presentation.
func NewEllipse(id string) *Ellipse {
	return &Ellipse{
		baseObject: newBaseObject(id, 1),
		RX:         1,
		RY:         0.5,
		Color:      NewColor(1, 0, 0, 0.35),
		LineWidth:  1,
		LineColor:  NewColor(0, 0, 0, 1),
	}
}

func (e *Ellipse) Update(data map[string]any) error { return applyJSON(e, data) }

func (e *Ellipse) Draw(dc *gg.Context, tr *Transform) error {
	if e.RX <= 0 || e.RY <= 0 {
		return nil
	}
	// The outline is built in world space so Psi and the map rotation
	// compose.
	const segments = 64
	center := gg.Pt(e.X, e.Y)
	cp, sp := math.Cos(e.Psi), math.Sin(e.Psi)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		lx, ly := e.RX*math.Cos(a), e.RY*math.Sin(a)
		w := center.Add(gg.Pt(lx*cp-ly*sp, lx*sp+ly*cp))
		p := tr.WorldToScreen(w)
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.ClosePath()
	setFill(dc, e.paintColor(e.Color))
	if e.LineWidth > 0 {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setFill(dc, e.paintColor(e.LineColor))
		dc.SetLineWidth(e.LineWidth)
		dc.ClearDash()
		return dc.Stroke()
	}
	return dc.Fill()
}

// Rect is an axis-aligned world rectangle; X and Y name its lower-left
// corner. Map rotation renders it as a rotated quad.
type Rect struct {
	baseObject
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`  // world units
	Height    float64 `json:"height"` // world units
	Color     Color   `json:"color"`
	LineWidth float64 `json:"line_width"` // px
	LineColor Color   `json:"line_color"`
}

// NewRect creates a rectangle with default presentation.
func NewRect(id string) *Rect {
	return &Rect{
		baseObject: newBaseObject(id, 1),
		Width:      1,
		Height:     1,
		Color:      NewColor(1, 0, 0, 0.35),
		LineColor:  NewColor(0, 0, 0, 1),
	}
}

func (rc *Rect) Update(data map[string]any) error { return applyJSON(rc, data) }

func (rc *Rect) Draw(dc *gg.Context, tr *Transform) error {
	if rc.Width <= 0 || rc.Height <= 0 {
		return nil
	}
	worldRectPath(dc, tr, rc.X, rc.Y, rc.X+rc.Width, rc.Y+rc.Height)
	setFill(dc, rc.paintColor(rc.Color))
	if rc.LineWidth > 0 {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		setFill(dc, rc.paintColor(rc.LineColor))
		dc.SetLineWidth(rc.LineWidth)
		dc.ClearDash()
		return dc.Stroke()
	}
	return dc.Fill()
}

// Line is a straight world-space segment.
type Line struct {
	baseObject
	X1    float64   `json:"x1"`
	Y1    float64   `json:"y1"`
	X2    float64   `json:"x2"`
	Y2    float64   `json:"y2"`
	Width float64   `json:"width"` // px
	Style LineStyle `json:"style"`
	Color Color     `json:"color"`
}

// NewLine creates a line with default presentation.
func NewLine(id string) *Line {
	return &Line{
		baseObject: newBaseObject(id, 2),
		Width:      2,
		Style:      LineDashed,
		Color:      NewColor(0.9, 0.9, 0.9, 0.6),
	}
}

func (l *Line) Update(data map[string]any) error { return applyJSON(l, data) }

func (l *Line) Draw(dc *gg.Context, tr *Transform) error {
	a := tr.WorldToScreen(gg.Pt(l.X1, l.Y1))
	b := tr.WorldToScreen(gg.Pt(l.X2, l.Y2))
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	setFill(dc, l.paintColor(l.Color))
	dc.SetLineWidth(l.Width)
	setLineStyle(dc, l.Style)
	err := dc.Stroke()
	dc.ClearDash()
	return err
}

// CoordinateSystem is a pose frame: two axis arrows at a world position,
// rotated by Psi radians counterclockwise. Size is the arrow length and
// Width the shaft width, both world units.
type CoordinateSystem struct {
	baseObject
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Psi   float64 `json:"psi"`
	Size  float64 `json:"size"`
	Width float64 `json:"width"`
}

// NewCoordinateSystem creates a frame with default presentation.
func NewCoordinateSystem(id string) *CoordinateSystem {
	return &CoordinateSystem{
		baseObject: newBaseObject(id, 2),
		Size:       0.25,
		Width:      0.02,
	}
}

func (cs *CoordinateSystem) Update(data map[string]any) error { return applyJSON(cs, data) }

func (cs *CoordinateSystem) Draw(dc *gg.Context, tr *Transform) error {
	if cs.Size <= 0 {
		return nil
	}
	pos := gg.Pt(cs.X, cs.Y)
	ux := gg.Pt(math.Cos(cs.Psi), math.Sin(cs.Psi))
	uy := gg.Pt(-ux.Y, ux.X)
	width := tr.WorldToPixels(cs.Width)

	from := tr.WorldToScreen(pos)
	toX := tr.WorldToScreen(pos.Add(ux.Mul(cs.Size)))
	toY := tr.WorldToScreen(pos.Add(uy.Mul(cs.Size)))
	if err := drawArrow(dc, from, toX, width, cs.paintColor(axisXColor)); err != nil {
		return err
	}
	return drawArrow(dc, from, toY, width, cs.paintColor(axisYColor))
}
