package mapview

import (
	"testing"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/floats/scalar"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	return &cfg
}

func TestNewViewport(t *testing.T) {
	cfg := testConfig()
	v := NewViewport(cfg)
	if v.Center() != gg.Pt(1.5, 1.5) {
		t.Errorf("Center = %v, want initial display center", v.Center())
	}
	if v.Zoom() != cfg.InitialDisplayZoom {
		t.Errorf("Zoom = %v, want %v", v.Zoom(), cfg.InitialDisplayZoom)
	}
}

func TestNewViewportClampsInitialZoom(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDisplayZoom = 10
	cfg.ZoomLimits = ZoomLimits{Max: f(2)}
	v := NewViewport(cfg)
	if v.Zoom() != 2 {
		t.Errorf("Zoom = %v, want clamped to 2", v.Zoom())
	}
}

func TestViewportSetZoomClamps(t *testing.T) {
	cfg := testConfig()
	cfg.ZoomLimits = ZoomLimits{Min: f(0.5), Max: f(4)}
	v := NewViewport(cfg)

	v.SetZoom(0.01)
	if v.Zoom() != 0.5 {
		t.Errorf("Zoom = %v, want 0.5", v.Zoom())
	}
	v.SetZoom(100)
	if v.Zoom() != 4 {
		t.Errorf("Zoom = %v, want 4", v.Zoom())
	}
}

func TestViewportSetCenterResetsOffset(t *testing.T) {
	v := NewViewport(testConfig())
	v.SetOffset(gg.Pt(0.5, -0.25))
	v.SetCenter(gg.Pt(2, 2))
	if v.Offset() != (gg.Point{}) {
		t.Errorf("Offset = %v, want zero after SetCenter", v.Offset())
	}
}

func TestViewportTransformTracksSurfaceSize(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDisplayZoom = 1
	cfg.ZoomLimits = ZoomLimits{}
	v := NewViewport(cfg)

	v.SetSurfaceSize(600, 600)
	tr, err := v.Transform()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Scale != 200 {
		t.Errorf("Scale = %v, want 200", tr.Scale)
	}

	// A resize between frames must be reflected on the next transform.
	v.SetSurfaceSize(900, 600)
	tr, err = v.Transform()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Scale != 300 {
		t.Errorf("Scale after resize = %v, want 300", tr.Scale)
	}
}

func TestViewportTransformAppliesOffset(t *testing.T) {
	cfg := testConfig()
	cfg.InitialDisplayZoom = 1
	cfg.ZoomLimits = ZoomLimits{}
	v := NewViewport(cfg)
	v.SetSurfaceSize(600, 600)
	v.SetOffset(gg.Pt(0.5, 0))

	tr, err := v.Transform()
	if err != nil {
		t.Fatal(err)
	}
	// World point center+offset sits at the surface center.
	got := tr.WorldToScreen(gg.Pt(2, 1.5))
	if !scalar.EqualWithinAbs(got.X, 300, coordTol) ||
		!scalar.EqualWithinAbs(got.Y, 300, coordTol) {
		t.Errorf("offset center maps to %v, want (300, 300)", got)
	}
}

func TestViewportTransformInvalidRotation(t *testing.T) {
	cfg := testConfig()
	cfg.Rotation = 45
	v := NewViewport(cfg)
	v.SetSurfaceSize(600, 600)
	if _, err := v.Transform(); err == nil {
		t.Fatal("expected error for 45 degree rotation")
	}
}
