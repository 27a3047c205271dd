package mapview

import (
	"math"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// EdgeLabeler draws the two semi-transparent coordinate bars along the
// bottom and left surface edges and places numeric world-coordinate
// labels in them. The bottom bar always shows the world axis that runs
// horizontally on screen, so the bars follow the axes across rotations.
type EdgeLabeler struct {
	cfg  *Config
	face text.Face
}

// NewEdgeLabeler creates a labeler. The face may be nil, in which case
// bars are drawn without label text.
func NewEdgeLabeler(cfg *Config, face text.Face) *EdgeLabeler {
	return &EdgeLabeler{cfg: cfg, face: face}
}

// tick is one label candidate: a world coordinate value and its pixel
// position along the bar.
type tick struct {
	value  float64
	screen float64
}

// labelStep returns the world spacing between labels and whether it
// comes from the tiling. Tile coordinates take precedence over grid
// coordinates; labels are disabled entirely when neither source is
// shown.
func (l *EdgeLabeler) labelStep() (step float64, tiled, ok bool) {
	if l.cfg.Tiles && l.cfg.ShowTileCoordinates && l.cfg.TileSize > 0 {
		return l.cfg.TileSize, true, true
	}
	if l.cfg.ShowGrid && l.cfg.ShowGridCoordinates && l.cfg.MajorGridSize > 0 {
		return l.cfg.MajorGridSize, false, true
	}
	return 0, false, false
}

// Draw paints both bars and their labels.
func (l *EdgeLabeler) Draw(dc *gg.Context, tr *Transform) error {
	step, tiled, ok := l.labelStep()
	if !ok {
		return nil
	}
	bar := l.cfg.TicksBarSizePx
	if bar <= 0 {
		return nil
	}

	// At 90 and 270 degrees the world y axis runs horizontally.
	hAxis := 0
	if tr.sin != 0 {
		hAxis = 1
	}
	vAxis := 1 - hAxis

	var s sticky
	if l.face != nil {
		dc.SetFont(l.face)
	}
	pad := l.cfg.TicksPaddingPx
	prec := stepDecimals(step)

	// Bottom bar. The left bar stops above it so the corner is not
	// painted twice.
	setFill(dc, axisTint(l.cfg.TicksBarColor, hAxis))
	dc.DrawRectangle(0, tr.CH-bar, tr.CW, bar)
	s.do(dc.Fill())

	setFill(dc, axisTint(l.cfg.TicksBarColor, vAxis))
	dc.DrawRectangle(0, 0, bar, tr.CH-bar)
	s.do(dc.Fill())

	setFill(dc, l.cfg.TicksColor)

	dc.Push()
	dc.ClipRect(0, tr.CH-bar, tr.CW, bar)
	for _, tk := range l.axisTicks(tr, step, tiled, hAxis, true) {
		label := formatTick(tk.value, prec)
		w, _ := dc.MeasureString(label)
		if tk.screen-w/2 < pad || tk.screen+w/2 > tr.CW-pad {
			continue
		}
		dc.DrawStringAnchored(label, tk.screen, tr.CH-bar/2, 0.5, 0.5)
	}
	dc.Pop()

	dc.Push()
	dc.ClipRect(0, 0, bar, tr.CH-bar)
	for _, tk := range l.axisTicks(tr, step, tiled, vAxis, false) {
		label := formatTick(tk.value, prec)
		_, h := dc.MeasureString(label)
		if tk.screen-h/2 < pad || tk.screen+h/2 > tr.CH-bar-pad {
			continue
		}
		dc.DrawStringAnchored(label, bar-pad, tk.screen, 1, 0.5)
	}
	dc.Pop()

	return s.err
}

// axisTicks computes the visible label candidates for one world axis.
// Candidates sit on multiples of the step, anchored at the configured
// origin for tile coordinates and at zero for grid coordinates. A
// stride keeps neighbouring labels at least MinLabelPx apart, and the
// anchor itself is always on the stride lattice. The result is a pure
// function of the transform and the configuration.
func (l *EdgeLabeler) axisTicks(tr *Transform, step float64, tiled bool, axis int, horizontal bool) []tick {
	d := tr.WorldToPixels(step)
	if d <= 0 {
		return nil
	}
	stride := 1
	if l.cfg.MinLabelPx > 0 && d < l.cfg.MinLabelPx {
		stride = int(math.Ceil(l.cfg.MinLabelPx / d))
	}

	a := l.worldAt(tr, axis, horizontal, 0)
	var b float64
	if horizontal {
		b = l.worldAt(tr, axis, horizontal, tr.CW)
	} else {
		b = l.worldAt(tr, axis, horizontal, tr.CH)
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	lim := l.cfg.Limits
	if axis == 0 {
		lo, hi = math.Max(lo, lim.X[0]), math.Min(hi, lim.X[1])
	} else {
		lo, hi = math.Max(lo, lim.Y[0]), math.Min(hi, lim.Y[1])
	}

	const snap = 1e-9
	base := 0.0
	if tiled {
		base = l.cfg.Origin[axis]
	}
	kLo := int(math.Ceil((lo-base)/step - snap))
	kHi := int(math.Floor((hi-base)/step + snap))

	var ticks []tick
	for k := kLo; k <= kHi; k++ {
		if k%stride != 0 {
			continue
		}
		v := base + float64(k)*step
		ticks = append(ticks, tick{value: v, screen: l.screenAt(tr, axis, horizontal, v)})
	}
	return ticks
}

// worldAt returns the world coordinate of the given axis at a pixel
// position along the bar.
func (l *EdgeLabeler) worldAt(tr *Transform, axis int, horizontal bool, s float64) float64 {
	var p gg.Point
	if horizontal {
		p = tr.ScreenToWorld(gg.Pt(s, tr.CH/2))
	} else {
		p = tr.ScreenToWorld(gg.Pt(tr.CW/2, s))
	}
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// screenAt is the inverse of worldAt for a single axis value.
func (l *EdgeLabeler) screenAt(tr *Transform, axis int, horizontal bool, v float64) float64 {
	w := tr.Center
	if axis == 0 {
		w.X = v
	} else {
		w.Y = v
	}
	p := tr.WorldToScreen(w)
	if horizontal {
		return p.X
	}
	return p.Y
}

// axisTint shades the bar color slightly toward the axis color so the
// two bars are distinguishable after rotation swaps them.
func axisTint(base Color, axis int) Color {
	if axis == 0 {
		return base.Mix(axisXColor, 0.15)
	}
	return base.Mix(axisYColor, 0.15)
}

// stepDecimals returns the number of fractional digits needed to print
// multiples of the step exactly, capped at 6.
func stepDecimals(step float64) int {
	for p := 0; p <= 6; p++ {
		scaled := step * math.Pow(10, float64(p))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9*math.Max(1, math.Abs(scaled)) {
			return p
		}
	}
	return 6
}

// formatTick prints a tick value with fixed precision. Negative zero is
// normalized so "-0" never appears in a bar.
func formatTick(v float64, prec int) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
