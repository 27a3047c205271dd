package mapview

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestNewEntityFactories(t *testing.T) {
	tests := []struct {
		typ   string
		layer int
	}{
		{"point", 3},
		{"agent", 4},
		{"vision_agent", 4},
		{"circle", 1},
		{"ellipse", 1},
		{"rectangle", 1},
		{"line", 2},
		{"coordinate_system", 2},
		{"group", 0},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			e, err := newEntity(tt.typ, "obj")
			if err != nil {
				t.Fatal(err)
			}
			if e.ID() != "obj" {
				t.Errorf("ID = %q", e.ID())
			}
			if !e.ObjectConfig().Visible {
				t.Error("new entity not visible")
			}
			if e.ObjectConfig().Layer != tt.layer {
				t.Errorf("layer = %d, want %d", e.ObjectConfig().Layer, tt.layer)
			}
		})
	}
}

func TestNewEntityUnknownType(t *testing.T) {
	if _, err := newEntity("teapot", "x"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestRegisterEntityType(t *testing.T) {
	RegisterEntityType("custom_marker", func(id string) Entity {
		m := NewMarker(id)
		m.Shape = "square"
		return m
	})
	e, err := newEntity("custom_marker", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := e.(*Marker); !ok || m.Shape != "square" {
		t.Errorf("custom factory produced %#v", e)
	}
}

func TestEntityUpdateMergesPartialState(t *testing.T) {
	a := NewAgent("a1")
	a.Size = 0.4
	if err := a.Update(map[string]any{"x": 2.5, "psi": math.Pi}); err != nil {
		t.Fatal(err)
	}
	if a.X != 2.5 || a.Psi != math.Pi {
		t.Errorf("agent = %+v", a)
	}
	if a.Size != 0.4 {
		t.Errorf("Size = %v, want untouched 0.4", a.Size)
	}
}

func TestVisionAgentDefaults(t *testing.T) {
	v := NewVisionAgent("v1")
	if v.FOV != math.Pi/2 {
		t.Errorf("FOV = %v, want pi/2", v.FOV)
	}
	if v.VisionRadius != 0.5 || v.Opacity != 0.3 {
		t.Errorf("vision = %v radius, %v opacity", v.VisionRadius, v.Opacity)
	}
	if err := v.Update(map[string]any{"fov": 1.0, "x": 2.0}); err != nil {
		t.Fatal(err)
	}
	if v.FOV != 1.0 || v.X != 2.0 {
		t.Errorf("after update: fov %v, x %v", v.FOV, v.X)
	}
}

func TestMarkerRadius(t *testing.T) {
	tr, err := NewTransform(600, 600, 200, 0, gg.Pt(1.5, 1.5))
	if err != nil {
		t.Fatal(err)
	}

	m := NewMarker("m")
	m.Size = 0.1
	if got := m.radiusPx(tr); got != 20 {
		t.Errorf("meter radius = %v px, want 20", got)
	}

	m.SizeUnit = SizePixel
	m.Size = 16
	if got := m.radiusPx(tr); got != 16 {
		t.Errorf("pixel radius = %v px, want 16", got)
	}
}

// Out-of-the-box object state matches the wire catalogue clients expect.
func TestCatalogueDefaults(t *testing.T) {
	m := NewMarker("m")
	if m.Size != 0.05 || m.SizeUnit != SizeMeter || m.Shape != "circle" {
		t.Errorf("marker = %+v", m)
	}
	if m.Color != NewColor(1, 134.0/255, 125.0/255, 1) {
		t.Errorf("marker color = %+v", m.Color)
	}

	a := NewAgent("a")
	if a.Size != 0.05 || a.Color != NewColor(0, 0.7, 0.7, 1) {
		t.Errorf("agent = %+v", a)
	}
	if a.ArrowLength != 0.2 || a.ArrowWidth != 0.02 {
		t.Errorf("agent arrow = %v x %v", a.ArrowLength, a.ArrowWidth)
	}

	v := NewVisionAgent("v")
	if v.ArrowLength != 0.25 || v.ArrowWidth != 0.03 {
		t.Errorf("vision agent arrow = %v x %v", v.ArrowLength, v.ArrowWidth)
	}

	c := NewCircle("c")
	if c.Radius != 1 || c.Color != NewColor(1, 0, 0, 1) || c.LineWidth != 1 {
		t.Errorf("circle = %+v", c)
	}

	e := NewEllipse("e")
	if e.RX != 1 || e.RY != 0.5 || e.Color != NewColor(1, 0, 0, 0.35) {
		t.Errorf("ellipse = %+v", e)
	}

	r := NewRect("r")
	if r.Width != 1 || r.Height != 1 || r.Color != NewColor(1, 0, 0, 0.35) {
		t.Errorf("rect = %+v", r)
	}

	l := NewLine("l")
	if l.Style != LineDashed || l.Color != NewColor(0.9, 0.9, 0.9, 0.6) {
		t.Errorf("line = %+v", l)
	}

	cs := NewCoordinateSystem("cs")
	if cs.Size != 0.25 || cs.Width != 0.02 {
		t.Errorf("coordinate system = %+v", cs)
	}
}

func TestEllipseUpdate(t *testing.T) {
	e := NewEllipse("e")
	if err := e.Update(map[string]any{"x": 1.0, "rx": 2.0, "psi": math.Pi / 4}); err != nil {
		t.Fatal(err)
	}
	if e.X != 1.0 || e.RX != 2.0 || e.Psi != math.Pi/4 {
		t.Errorf("ellipse = %+v", e)
	}
	if e.RY != 0.5 {
		t.Errorf("RY = %v, want untouched 0.5", e.RY)
	}
}

func TestEntityUpdateConfig(t *testing.T) {
	m := NewMarker("m")
	if err := m.UpdateConfig(map[string]any{"layer": 7, "dim": true}); err != nil {
		t.Fatal(err)
	}
	if m.cfg.Layer != 7 || !m.cfg.Dim {
		t.Errorf("config = %+v", m.cfg)
	}
	// Dim scales the paint alpha down.
	c := m.paintColor(NewColor(1, 0, 0, 1))
	if c.A >= 1 {
		t.Errorf("dim alpha = %v, want < 1", c.A)
	}
}

func TestEntitiesDrawSmoke(t *testing.T) {
	tr, err := NewTransform(300, 300, 100, 90, gg.Pt(1.5, 1.5))
	if err != nil {
		t.Fatal(err)
	}
	dc := gg.NewContext(300, 300)

	square := NewMarker("sq")
	square.Shape = "square"
	triangle := NewMarker("tri")
	triangle.Shape = "triangle"
	triangle.cfg.Highlight = true

	entities := []Entity{
		NewMarker("m"), square, triangle,
		NewAgent("a"), NewVisionAgent("v"),
		NewCircle("c"), NewEllipse("el"), NewRect("r"), NewLine("l"),
		NewCoordinateSystem("cs"),
	}
	for _, e := range entities {
		if err := e.Draw(dc, tr); err != nil {
			t.Errorf("%s draw: %v", e.ID(), err)
		}
	}
}
