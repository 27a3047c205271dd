package mapview

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func labelerSetup(t *testing.T, cfg *Config, zoom, rotation float64) (*EdgeLabeler, *Transform) {
	t.Helper()
	cfg.Rotation = rotation
	tr, err := NewTransform(600, 600, 200*zoom, rotation, gg.Pt(1.5, 1.5))
	if err != nil {
		t.Fatal(err)
	}
	return NewEdgeLabeler(cfg, nil), tr
}

func TestLabelStep(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		step  float64
		tiled bool
		ok    bool
	}{
		{"tiles win", func(c *Config) { c.ShowGrid = true }, 0.5, true, true},
		{"grid fallback", func(c *Config) {
			c.Tiles = false
			c.ShowGrid = true
		}, 1, false, true},
		{"tile coords hidden", func(c *Config) {
			c.ShowTileCoordinates = false
			c.ShowGrid = true
		}, 1, false, true},
		{"nothing shown", func(c *Config) {
			c.Tiles = false
			c.ShowGrid = false
		}, 0, false, false},
		{"grid without coords", func(c *Config) {
			c.Tiles = false
			c.ShowGrid = true
			c.ShowGridCoordinates = false
		}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(cfg)
			l := NewEdgeLabeler(cfg, nil)
			step, tiled, ok := l.labelStep()
			if ok != tt.ok || (ok && (step != tt.step || tiled != tt.tiled)) {
				t.Errorf("labelStep = (%v, %v, %v), want (%v, %v, %v)",
					step, tiled, ok, tt.step, tt.tiled, tt.ok)
			}
		})
	}
}

func TestAxisTicksSpacing(t *testing.T) {
	cfg := testConfig()
	// Zoomed far out: one tile is 10 px, well under MinLabelPx.
	l, tr := labelerSetup(t, cfg, 0.1, 0)

	ticks := l.axisTicks(tr, cfg.TileSize, true, 0, true)
	if len(ticks) == 0 {
		t.Fatal("no ticks produced")
	}
	for i := 1; i < len(ticks); i++ {
		gap := math.Abs(ticks[i].screen - ticks[i-1].screen)
		if gap < cfg.MinLabelPx {
			t.Errorf("ticks %d and %d are %.1f px apart, want >= %v",
				i-1, i, gap, cfg.MinLabelPx)
		}
	}
}

// In tile-coordinate mode the stride lattice is anchored at the origin,
// so the origin value is labelable whenever it is in range.
func TestAxisTicksTilesAnchoredAtOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Origin = [2]float64{0.25, 0.75}
	l, tr := labelerSetup(t, cfg, 0.1, 0)

	for _, axis := range []int{0, 1} {
		found := false
		for _, tk := range l.axisTicks(tr, cfg.TileSize, true, axis, axis == 0) {
			if tk.value == cfg.Origin[axis] {
				found = true
			}
		}
		if !found {
			t.Errorf("axis %d: origin value %v not in tick set", axis, cfg.Origin[axis])
		}
	}
}

// Grid coordinates label absolute world positions, so the lattice is
// anchored at zero even when the origin is shifted.
func TestAxisTicksGridAnchoredAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.Tiles = false
	cfg.ShowGrid = true
	cfg.Origin = [2]float64{0.25, 0.75}
	l, tr := labelerSetup(t, cfg, 1, 0)

	ticks := l.axisTicks(tr, cfg.MajorGridSize, false, 0, true)
	if len(ticks) == 0 {
		t.Fatal("no ticks produced")
	}
	for _, tk := range ticks {
		steps := tk.value / cfg.MajorGridSize
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			t.Errorf("tick %v is not on the zero-anchored lattice", tk.value)
		}
	}
}

func TestAxisTicksStayInsideLimits(t *testing.T) {
	cfg := testConfig()
	l, tr := labelerSetup(t, cfg, 0.25, 0)

	for _, tk := range l.axisTicks(tr, cfg.TileSize, true, 0, true) {
		if tk.value < cfg.Limits.X[0]-1e-9 || tk.value > cfg.Limits.X[1]+1e-9 {
			t.Errorf("tick %v outside limits %v", tk.value, cfg.Limits.X)
		}
	}
}

// At 90 degrees the y axis runs horizontally, so the bottom bar values
// must be y coordinates: the world point under the bar varies in y.
func TestAxisTicksRotationSwapsAxes(t *testing.T) {
	cfg := testConfig()
	l, tr := labelerSetup(t, cfg, 1, 90)

	ticks := l.axisTicks(tr, cfg.TileSize, true, 1, true)
	if len(ticks) < 2 {
		t.Fatalf("want at least 2 ticks on the horizontal y axis, got %d", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].value == ticks[i-1].value {
			t.Error("tick values do not vary along the bar")
		}
	}
	// Screen position must move with the value.
	if ticks[0].screen == ticks[1].screen {
		t.Error("tick screen positions do not vary along the bar")
	}
}

func TestStepDecimals(t *testing.T) {
	tests := []struct {
		step float64
		want int
	}{
		{1, 0},
		{2, 0},
		{0.5, 1},
		{0.25, 2},
		{0.1, 1},
		{1.0 / 3.0, 6},
	}
	for _, tt := range tests {
		if got := stepDecimals(tt.step); got != tt.want {
			t.Errorf("stepDecimals(%v) = %d, want %d", tt.step, got, tt.want)
		}
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{1.5, 1, "1.5"},
		{2, 0, "2"},
		{math.Copysign(0, -1), 1, "0.0"},
		{-0.5, 1, "-0.5"},
	}
	for _, tt := range tests {
		if got := formatTick(tt.v, tt.prec); got != tt.want {
			t.Errorf("formatTick(%v, %d) = %q, want %q", tt.v, tt.prec, got, tt.want)
		}
	}
}
