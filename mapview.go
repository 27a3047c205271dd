package mapview

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	defaultFaceOnce sync.Once
	defaultFace     text.Face
)

// DefaultFace returns the built-in label face (Go Regular at 12 points).
// Returns nil if the embedded font fails to parse, in which case labels
// are skipped.
func DefaultFace() text.Face {
	defaultFaceOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			Logger().Warn("load default font", "err", err)
			return
		}
		defaultFace = src.Face(12)
	})
	return defaultFace
}

// Option configures a Map at construction time.
type Option func(*Map)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Map) { m.cfg = cfg }
}

// WithFont replaces the label face. A nil face disables label text.
func WithFont(face text.Face) Option {
	return func(m *Map) { m.face = face }
}

// WithPresent registers the host callback invoked once per frame by the
// render loop. The host is expected to call Draw from it.
func WithPresent(present func()) Option {
	return func(m *Map) { m.present = present }
}

// WithClock replaces the render loop time source.
func WithClock(c Clock) Option {
	return func(m *Map) { m.clock = c }
}

// Map is one interactive map session: configuration, viewport, scene
// graph, renderers, and the frame loop. All exported methods are safe
// for concurrent use.
type Map struct {
	id string

	mu  sync.Mutex
	cfg Config

	vp      *Viewport
	ctrl    *Controller
	reg     *Registry
	surface *SurfaceRenderer
	labeler *EdgeLabeler
	loop    *RenderLoop

	face    text.Face
	present func()
	clock   Clock
}

// New creates a map session with the given identifier.
func New(id string, opts ...Option) (*Map, error) {
	m := &Map{
		id:   id,
		cfg:  DefaultConfig(),
		face: DefaultFace(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	m.vp = NewViewport(&m.cfg)
	m.ctrl = NewController(&m.cfg, m.vp)
	m.reg = NewRegistry()
	m.surface = NewSurfaceRenderer(&m.cfg)
	m.labeler = NewEdgeLabeler(&m.cfg, m.face)
	m.loop = NewRenderLoop(m.cfg.FPS, func() {
		if m.present != nil {
			m.present()
		}
	})
	if m.clock != nil {
		m.loop.SetClock(m.clock)
	}
	Logger().Info("map created", "id", id)
	return m, nil
}

// ID returns the session identifier.
func (m *Map) ID() string { return m.id }

// Config returns a copy of the current configuration.
func (m *Map) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Viewport returns the viewport state.
func (m *Map) Viewport() *Viewport { return m.vp }

// Registry returns the scene graph.
func (m *Map) Registry() *Registry { return m.reg }

// Configure merges a partial configuration on top of the current one.
// The merged result is validated before it replaces anything, so a bad
// partial leaves the map untouched. A changed fps retargets the loop.
func (m *Map) Configure(partial map[string]any) error {
	m.mu.Lock()
	merged, err := m.cfg.MergeMap(partial)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := merged.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	fpsChanged := merged.FPS != m.cfg.FPS
	m.cfg = merged
	m.mu.Unlock()

	if fpsChanged {
		m.loop.SetFPS(merged.FPS)
	}
	return nil
}

// Draw renders one complete frame onto dc: surface, objects, then edge
// labels. The surface size is taken from dc, so resizing the context
// between frames is honored without further calls.
func (m *Map) Draw(dc *gg.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vp.SetSurfaceSize(dc.Width(), dc.Height())
	tr, err := m.vp.Transform()
	if err != nil {
		return fmt.Errorf("map %s: %w", m.id, err)
	}

	if err := m.surface.Draw(dc, tr); err != nil {
		return err
	}
	if err := m.reg.Draw(dc, tr); err != nil {
		return err
	}
	return m.labeler.Draw(dc, tr)
}

// Start launches the render loop.
func (m *Map) Start() { m.loop.Start() }

// Stop halts the render loop.
func (m *Map) Stop() { m.loop.Stop() }

// PointerDown forwards a pointer press at surface coordinates.
func (m *Map) PointerDown(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctrl.PointerDown(x, y)
}

// PointerMove forwards a pointer move at surface coordinates.
func (m *Map) PointerMove(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctrl.PointerMove(x, y)
}

// PointerUp forwards a pointer release.
func (m *Map) PointerUp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctrl.PointerUp()
}

// Wheel forwards a wheel-zoom step.
func (m *Map) Wheel(deltaY float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctrl.Wheel(deltaY)
}

// Add inserts an entity under the parent group path ("" is the root).
func (m *Map) Add(parent string, e Entity) error {
	return m.reg.Add(parent, e)
}

// Remove deletes the object at uid, destroying any subtree.
func (m *Map) Remove(uid string) error {
	return m.reg.Remove(uid)
}

// Lookup returns the object at uid.
func (m *Map) Lookup(uid string) (Entity, error) {
	return m.reg.Lookup(uid)
}
