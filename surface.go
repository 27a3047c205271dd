package mapview

import (
	"math"

	"github.com/gogpu/gg"
)

// Axis colors shared by the origin coordinate system and the tick bars.
var (
	axisXColor = NewColor(0.86, 0.2, 0.2, 1)
	axisYColor = NewColor(0.2, 0.78, 0.25, 1)
)

// sticky collects the first drawing error of a paint pass; later
// operations still run so the pass stays visually consistent.
type sticky struct {
	err error
}

func (s *sticky) do(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// SurfaceRenderer paints the static map content: background, rounded map
// face, checkerboard tiles, grid lines, outside-only border, and the
// coordinate axes at the world origin. Tiles and grid are clipped to the
// rounded face.
type SurfaceRenderer struct {
	cfg *Config
}

// NewSurfaceRenderer creates a surface renderer for the configuration.
func NewSurfaceRenderer(cfg *Config) *SurfaceRenderer {
	return &SurfaceRenderer{cfg: cfg}
}

// Draw paints the surface onto dc for the given transform.
func (r *SurfaceRenderer) Draw(dc *gg.Context, tr *Transform) error {
	var s sticky

	dc.ClearWithColor(r.cfg.BackgroundColor.RGBA())

	x, y, w, h := r.faceRect(tr)
	radius := clampRadius(tr.WorldToPixels(r.cfg.MapBorderRadius), w, h)

	// Face fill, then tiles and grid inside the rounded clip.
	dc.Push()
	roundedRectPath(dc, x, y, w, h, radius)
	setFill(dc, r.cfg.MapColor)
	s.do(dc.FillPreserve())
	dc.Clip()
	if r.cfg.Tiles {
		r.drawTiles(dc, tr, &s)
	}
	if r.cfg.ShowGrid {
		r.drawGrid(dc, tr, &s)
	}
	dc.Pop()

	// Border grown by half the stroke width: the inner stroke edge lands
	// exactly on the map boundary, so tiles and grid are never overlapped.
	if r.cfg.MapBorderWidth > 0 {
		half := r.cfg.MapBorderWidth / 2
		roundedRectPath(dc, x-half, y-half, w+2*half, h+2*half, radius+half)
		setFill(dc, r.cfg.MapBorderColor)
		dc.SetLineWidth(r.cfg.MapBorderWidth)
		dc.ClearDash()
		s.do(dc.Stroke())
	}

	r.drawAxes(dc, tr, &s)
	return s.err
}

// faceRect computes the screen-space bounding rectangle of the world
// limits. All four corners are projected because rotation permutes them.
func (r *SurfaceRenderer) faceRect(tr *Transform) (x, y, w, h float64) {
	lim := r.cfg.Limits
	corners := [4]gg.Point{
		tr.WorldToScreen(gg.Pt(lim.X[0], lim.Y[0])),
		tr.WorldToScreen(gg.Pt(lim.X[1], lim.Y[0])),
		tr.WorldToScreen(gg.Pt(lim.X[1], lim.Y[1])),
		tr.WorldToScreen(gg.Pt(lim.X[0], lim.Y[1])),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// drawTiles paints the checkerboard anchored at the configured origin.
// Iteration bounds come from the world limits so only tiles that can be
// visible are emitted.
func (r *SurfaceRenderer) drawTiles(dc *gg.Context, tr *Transform, s *sticky) {
	ts := r.cfg.TileSize
	if ts <= 0 {
		return
	}
	lim := r.cfg.Limits
	ox, oy := r.cfg.Origin[0], r.cfg.Origin[1]

	i0 := int(math.Floor((lim.X[0] - ox) / ts))
	i1 := int(math.Ceil((lim.X[1] - ox) / ts))
	j0 := int(math.Floor((lim.Y[0] - oy) / ts))
	j1 := int(math.Ceil((lim.Y[1] - oy) / ts))

	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			x0 := math.Max(ox+float64(i)*ts, lim.X[0])
			y0 := math.Max(oy+float64(j)*ts, lim.Y[0])
			x1 := math.Min(ox+float64(i+1)*ts, lim.X[1])
			y1 := math.Min(oy+float64(j+1)*ts, lim.Y[1])
			if x1 <= x0 || y1 <= y0 {
				continue
			}

			parity := ((i+j)%2 + 2) % 2
			worldRectPath(dc, tr, x0, y0, x1, y1)
			setFill(dc, r.cfg.TileColors[parity])
			if r.cfg.TileBorderWidth > 0 {
				s.do(dc.FillPreserve())
				setFill(dc, r.cfg.TileBorderColor)
				dc.SetLineWidth(r.cfg.TileBorderWidth)
				dc.ClearDash()
				s.do(dc.Stroke())
			} else {
				s.do(dc.Fill())
			}
		}
	}
}

// drawGrid paints minor then major grid lines so major lines end up on
// top. Line positions snap to multiples of the step relative to the
// origin and are clipped to the world limits.
func (r *SurfaceRenderer) drawGrid(dc *gg.Context, tr *Transform, s *sticky) {
	r.drawGridLines(dc, tr, s, r.cfg.MinorGridSize, r.cfg.MinorGridWidth,
		r.cfg.MinorGridStyle, r.cfg.MinorGridColor)
	r.drawGridLines(dc, tr, s, r.cfg.MajorGridSize, r.cfg.MajorGridWidth,
		r.cfg.MajorGridStyle, r.cfg.MajorGridColor)
}

func (r *SurfaceRenderer) drawGridLines(dc *gg.Context, tr *Transform, s *sticky,
	step, width float64, style LineStyle, col Color) {
	if step <= 0 {
		return
	}
	lim := r.cfg.Limits
	ox, oy := r.cfg.Origin[0], r.cfg.Origin[1]

	const snap = 1e-9
	for k := int(math.Ceil((lim.X[0]-ox)/step - snap)); ; k++ {
		x := ox + float64(k)*step
		if x > lim.X[1]+snap {
			break
		}
		a := tr.WorldToScreen(gg.Pt(x, lim.Y[0]))
		b := tr.WorldToScreen(gg.Pt(x, lim.Y[1]))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
	}
	for k := int(math.Ceil((lim.Y[0]-oy)/step - snap)); ; k++ {
		y := oy + float64(k)*step
		if y > lim.Y[1]+snap {
			break
		}
		a := tr.WorldToScreen(gg.Pt(lim.X[0], y))
		b := tr.WorldToScreen(gg.Pt(lim.X[1], y))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
	}

	setFill(dc, col)
	dc.SetLineWidth(width)
	setLineStyle(dc, style)
	s.do(dc.Stroke())
	dc.ClearDash()
}

// drawAxes paints the two arrow-tipped world axes from the configured
// origin. Axes are independent of the rounded clip.
func (r *SurfaceRenderer) drawAxes(dc *gg.Context, tr *Transform, s *sticky) {
	size := r.cfg.CoordinateSystemSize
	if size <= 0 {
		return
	}
	alpha := r.cfg.CoordinateSystemAlpha
	width := r.cfg.CoordinateSystemWidth
	origin := gg.Pt(r.cfg.Origin[0], r.cfg.Origin[1])

	from := tr.WorldToScreen(origin)
	toX := tr.WorldToScreen(origin.Add(gg.Pt(size, 0)))
	toY := tr.WorldToScreen(origin.Add(gg.Pt(0, size)))
	s.do(drawArrow(dc, from, toX, width, axisXColor.WithAlpha(alpha)))
	s.do(drawArrow(dc, from, toY, width, axisYColor.WithAlpha(alpha)))
}

// drawArrow strokes a shaft and fills a triangular head from one screen
// point to another.
func drawArrow(dc *gg.Context, from, to gg.Point, width float64, col Color) error {
	dir := to.Sub(from)
	length := dir.Length()
	if length == 0 {
		return nil
	}
	u := dir.Div(length)
	head := math.Min(math.Max(3*width, 6), length/2)
	base := to.Sub(u.Mul(head))
	n := gg.Pt(-u.Y, u.X).Mul(head / 2)

	setFill(dc, col)
	dc.SetLineWidth(width)
	dc.ClearDash()
	dc.DrawLine(from.X, from.Y, base.X, base.Y)
	if err := dc.Stroke(); err != nil {
		return err
	}
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(base.X+n.X, base.Y+n.Y)
	dc.LineTo(base.X-n.X, base.Y-n.Y)
	dc.ClosePath()
	return dc.Fill()
}

// roundedRectPath builds the standard four-arc rounded rectangle path,
// reused for the face fill, the clip region, and the grown border stroke.
func roundedRectPath(dc *gg.Context, x, y, w, h, r float64) {
	dc.DrawRoundedRectangle(x, y, w, h, clampRadius(r, w, h))
}

// worldRectPath builds the path of an axis-aligned world rectangle as a
// screen-space quad (rotation turns it into a rotated quad).
func worldRectPath(dc *gg.Context, tr *Transform, x0, y0, x1, y1 float64) {
	p0 := tr.WorldToScreen(gg.Pt(x0, y0))
	p1 := tr.WorldToScreen(gg.Pt(x1, y0))
	p2 := tr.WorldToScreen(gg.Pt(x1, y1))
	p3 := tr.WorldToScreen(gg.Pt(x0, y1))
	dc.MoveTo(p0.X, p0.Y)
	dc.LineTo(p1.X, p1.Y)
	dc.LineTo(p2.X, p2.Y)
	dc.LineTo(p3.X, p3.Y)
	dc.ClosePath()
}

func clampRadius(r, w, h float64) float64 {
	max := math.Min(w, h) / 2
	if r > max {
		return max
	}
	if r < 0 {
		return 0
	}
	return r
}

func setFill(dc *gg.Context, c Color) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func setLineStyle(dc *gg.Context, style LineStyle) {
	switch style {
	case LineDashed:
		dc.SetDash(6, 4)
	case LineDotted:
		dc.SetDash(2, 3)
	default:
		dc.ClearDash()
	}
}
