package mapview

import (
	"encoding/json"
	"fmt"
)

// LineStyle selects how grid lines are stroked.
type LineStyle string

// Supported line styles.
const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Limits is the world extent of the map, in world units.
// Invariant: X[1] > X[0] and Y[1] > Y[0].
type Limits struct {
	X [2]float64 `json:"x"`
	Y [2]float64 `json:"y"`
}

// Width returns the world width.
func (l Limits) Width() float64 { return l.X[1] - l.X[0] }

// Height returns the world height.
func (l Limits) Height() float64 { return l.Y[1] - l.Y[0] }

// ZoomLimits bounds the user zoom factor. A nil bound is unbounded on
// that side. Encoded on the wire as [min, max] with nulls allowed.
type ZoomLimits struct {
	Min *float64
	Max *float64
}

// Clamp returns z clamped into the limits. Inverted bounds are swapped
// before clamping. Clamp is idempotent.
func (zl ZoomLimits) Clamp(z float64) float64 {
	lo, hi := zl.Min, zl.Max
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	if lo != nil && z < *lo {
		z = *lo
	}
	if hi != nil && z > *hi {
		z = *hi
	}
	return z
}

// MarshalJSON encodes the limits as [min, max] with nulls for open bounds.
func (zl ZoomLimits) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*float64{zl.Min, zl.Max})
}

// UnmarshalJSON decodes [min, max]; either element may be null.
func (zl *ZoomLimits) UnmarshalJSON(data []byte) error {
	var parts []*float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("mapview: invalid zoom_limits: %w", err)
	}
	zl.Min, zl.Max = nil, nil
	if len(parts) > 0 {
		zl.Min = parts[0]
	}
	if len(parts) > 1 {
		zl.Max = parts[1]
	}
	return nil
}

// Config is the map configuration, merged over DefaultConfig by the host
// or by update_config feed messages. JSON keys match the wire protocol;
// unrecognized keys are ignored.
type Config struct {
	// Geometry
	Limits   Limits     `json:"limits"`
	Origin   [2]float64 `json:"origin"`
	Rotation float64    `json:"rotation"` // degrees, must be a multiple of 90

	// Coordinate system axes drawn at the origin
	CoordinateSystemSize  float64 `json:"coordinate_system_size"` // world units
	CoordinateSystemAlpha float64 `json:"coordinate_system_alpha"`
	CoordinateSystemWidth float64 `json:"coordinate_system_width"` // px

	// Map face and border
	MapBorderWidth  float64 `json:"map_border_width"` // px
	MapBorderColor  Color   `json:"map_border_color"`
	MapBorderRadius float64 `json:"map_border_radius"` // world units
	MapColor        Color   `json:"map_color"`
	BackgroundColor Color   `json:"background_color"`

	// Grid
	ShowGrid            bool      `json:"show_grid"`
	ShowGridCoordinates bool      `json:"show_grid_coordinates"`
	MajorGridSize       float64   `json:"major_grid_size"`  // world units
	MinorGridSize       float64   `json:"minor_grid_size"`  // world units
	MajorGridWidth      float64   `json:"major_grid_width"` // px
	MajorGridStyle      LineStyle `json:"major_grid_style"`
	MajorGridColor      Color     `json:"major_grid_color"`
	MinorGridWidth      float64   `json:"minor_grid_width"` // px
	MinorGridStyle      LineStyle `json:"minor_grid_style"`
	MinorGridColor      Color     `json:"minor_grid_color"`

	// Tiling
	Tiles               bool     `json:"tiles"`
	TileSize            float64  `json:"tile_size"` // world units
	TileColors          [2]Color `json:"tile_colors"`
	TileBorderWidth     float64  `json:"tile_border_width"` // px
	TileBorderColor     Color    `json:"tile_border_color"`
	ShowTileCoordinates bool     `json:"show_tile_coordinates"`

	// Edge tick labels
	TicksColor     Color   `json:"ticks_color"`
	TicksBarColor  Color   `json:"ticks_bar_color"`
	TicksBarSizePx float64 `json:"ticks_bar_size_px"`
	TicksPaddingPx float64 `json:"ticks_padding_px"`
	MinLabelPx     float64 `json:"min_label_px"`

	// Behaviour
	AllowZoom bool `json:"allow_zoom"`
	AllowDrag bool `json:"allow_drag"`

	// Display
	InitialDisplayCenter [2]float64 `json:"initial_display_center"`
	InitialDisplayZoom   float64    `json:"initial_display_zoom"`
	ZoomLimits           ZoomLimits `json:"zoom_limits"`

	// Rendering
	FPS float64 `json:"fps"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Limits:   Limits{X: [2]float64{0, 3}, Y: [2]float64{0, 3}},
		Origin:   [2]float64{0, 0},
		Rotation: 0,

		CoordinateSystemSize:  0.5,
		CoordinateSystemAlpha: 0.9,
		CoordinateSystemWidth: 3,

		MapBorderWidth:  1,
		MapBorderColor:  NewColor(1, 1, 1, 1),
		MapBorderRadius: 0.1,
		MapColor:        NewColor(1, 1, 1, 0),
		BackgroundColor: NewColor(0, 0, 0, 0),

		ShowGrid:            false,
		ShowGridCoordinates: true,
		MajorGridSize:       1,
		MinorGridSize:       0.5,
		MajorGridWidth:      1,
		MajorGridStyle:      LineSolid,
		MajorGridColor:      NewColor(0.5, 0.5, 0.5, 0.4),
		MinorGridWidth:      1,
		MinorGridStyle:      LineDotted,
		MinorGridColor:      NewColor(0.5, 0.5, 0.5, 0.4),

		Tiles:    true,
		TileSize: 0.5,
		TileColors: [2]Color{
			NewColor(0.3, 0.3, 0.3, 1),
			NewColor(28.0/255, 27.0/255, 43.0/255, 0.6),
		},
		TileBorderWidth:     1,
		TileBorderColor:     NewColor(0, 0, 0, 1),
		ShowTileCoordinates: true,

		TicksColor:     NewColor(1, 1, 1, 1),
		TicksBarColor:  NewColor(0, 0, 0, 0.4),
		TicksBarSizePx: 22,
		TicksPaddingPx: 4,
		MinLabelPx:     20,

		AllowZoom: true,
		AllowDrag: true,

		InitialDisplayCenter: [2]float64{1.5, 1.5},
		InitialDisplayZoom:   0.75,

		FPS: 30,
	}
}

// Merge returns a copy of the config with the partial JSON object applied
// on top. Unknown keys are ignored; keys absent from the partial object
// keep their current value.
func (c Config) Merge(partial []byte) (Config, error) {
	merged := c
	if err := json.Unmarshal(partial, &merged); err != nil {
		return c, fmt.Errorf("mapview: merge config: %w", err)
	}
	return merged, nil
}

// MergeMap is Merge for an already-decoded partial configuration.
func (c Config) MergeMap(partial map[string]any) (Config, error) {
	data, err := json.Marshal(partial)
	if err != nil {
		return c, fmt.Errorf("mapview: merge config: %w", err)
	}
	return c.Merge(data)
}

// Validate checks the world-geometry invariants. Rotation is validated
// separately at draw time (see Transform).
func (c *Config) Validate() error {
	if c.Limits.X[1] <= c.Limits.X[0] {
		return fmt.Errorf("mapview: limits.x must satisfy max > min, got [%v, %v]",
			c.Limits.X[0], c.Limits.X[1])
	}
	if c.Limits.Y[1] <= c.Limits.Y[0] {
		return fmt.Errorf("mapview: limits.y must satisfy max > min, got [%v, %v]",
			c.Limits.Y[0], c.Limits.Y[1])
	}
	return nil
}
