package mapview

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

// Object lookup errors.
var (
	ErrUnknownObject   = errors.New("mapview: unknown object")
	ErrDuplicateObject = errors.New("mapview: duplicate object id")
)

// ObjectConfig is the per-object presentation state shared by all entity
// kinds. It is merged from update_config feed messages; absent keys keep
// their current value.
type ObjectConfig struct {
	Name      string `json:"name"`
	Visible   bool   `json:"visible"`
	Layer     int    `json:"layer"`
	Highlight bool   `json:"highlight"`
	Dim       bool   `json:"dim"`
}

// Entity is a drawable map object. Implementations receive their state
// through Update (object data) and UpdateConfig (presentation), both as
// partial JSON-style maps.
type Entity interface {
	ID() string
	ObjectConfig() *ObjectConfig
	Draw(dc *gg.Context, tr *Transform) error
	Update(data map[string]any) error
	UpdateConfig(data map[string]any) error
	Destroy()
}

// applyJSON merges a partial map onto dst through a JSON round trip, so
// entity fields follow the same wire conventions as Config.
func applyJSON(dst any, data map[string]any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("mapview: encode update: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("mapview: apply update: %w", err)
	}
	return nil
}

// Group is a named collection of entities and nested groups. An
// invisible group hides its entire subtree. Group implements Entity so
// feed messages address groups and leaf objects uniformly, but a group
// draws nothing itself.
type Group struct {
	id       string
	cfg      ObjectConfig
	children map[string]Entity
}

// NewGroup creates an empty visible group.
func NewGroup(id string) *Group {
	return &Group{
		id:       id,
		cfg:      ObjectConfig{Visible: true},
		children: make(map[string]Entity),
	}
}

func (g *Group) ID() string { return g.id }

// ObjectConfig returns the group presentation state.
func (g *Group) ObjectConfig() *ObjectConfig { return &g.cfg }

// Draw is a no-op; members are drawn by the compositor.
func (g *Group) Draw(*gg.Context, *Transform) error { return nil }

// Update is a no-op; groups carry no object data.
func (g *Group) Update(map[string]any) error { return nil }

// UpdateConfig merges partial presentation state onto the group.
func (g *Group) UpdateConfig(data map[string]any) error {
	return applyJSON(&g.cfg, data)
}

// Destroy destroys all members.
func (g *Group) Destroy() {
	for id, child := range g.children {
		child.Destroy()
		delete(g.children, id)
	}
}

// Registry is the scene graph: a tree of groups addressed by
// slash-separated uids ("fleet/drones/d1"). The registry lock guards
// the tree structure; entity state is guarded by the map mutex, which
// serializes feed mutations against Draw.
type Registry struct {
	mu   sync.Mutex
	root *Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{root: NewGroup("")}
}

// group descends to the group at path, creating missing intermediate
// groups when create is set. An empty path is the root.
func (r *Registry) group(path string, create bool) (*Group, error) {
	g := r.root
	if path == "" {
		return g, nil
	}
	for _, seg := range strings.Split(path, "/") {
		child, ok := g.children[seg]
		if !ok {
			if !create {
				return nil, fmt.Errorf("%w: %q", ErrUnknownObject, path)
			}
			sub := NewGroup(seg)
			g.children[seg] = sub
			g = sub
			continue
		}
		sub, ok := child.(*Group)
		if !ok {
			return nil, fmt.Errorf("mapview: %q is not a group", path)
		}
		g = sub
	}
	return g, nil
}

// Add inserts an entity (or group) under the parent path. Missing
// parent groups are created on the way down.
func (r *Registry) Add(parent string, e Entity) error {
	if strings.Contains(e.ID(), "/") {
		return fmt.Errorf("mapview: object id %q must not contain '/'", e.ID())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, err := r.group(parent, true)
	if err != nil {
		return err
	}
	if _, exists := g.children[e.ID()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateObject, joinUID(parent, e.ID()))
	}
	g.children[e.ID()] = e
	return nil
}

// Remove deletes the object at uid and destroys it, including any
// subtree if the uid names a group.
func (r *Registry) Remove(uid string) error {
	parent, leaf := splitUID(uid)
	r.mu.Lock()
	defer r.mu.Unlock()
	g, err := r.group(parent, false)
	if err != nil {
		return err
	}
	child, ok := g.children[leaf]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownObject, uid)
	}
	delete(g.children, leaf)
	child.Destroy()
	return nil
}

// Lookup returns the entity or group at uid.
func (r *Registry) Lookup(uid string) (Entity, error) {
	parent, leaf := splitUID(uid)
	r.mu.Lock()
	defer r.mu.Unlock()
	g, err := r.group(parent, false)
	if err != nil {
		return nil, err
	}
	child, ok := g.children[leaf]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, uid)
	}
	return child, nil
}

// drawEntry pairs an entity with its full uid for the z-order tie-break.
type drawEntry struct {
	uid string
	e   Entity
}

// Flatten returns the currently drawable entities in z order: ascending
// layer, ties broken by uid so the order is deterministic. Members of
// invisible groups are pruned without inspection.
func (r *Registry) Flatten() []Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := flattenGroup(r.root, "", nil)

	// Sorting reads each entity's layer, so it stays under the lock.
	sort.SliceStable(entries, func(i, j int) bool {
		li := entries[i].e.ObjectConfig().Layer
		lj := entries[j].e.ObjectConfig().Layer
		if li != lj {
			return li < lj
		}
		return entries[i].uid < entries[j].uid
	})

	out := make([]Entity, len(entries))
	for i, en := range entries {
		out[i] = en.e
	}
	return out
}

func flattenGroup(g *Group, prefix string, out []drawEntry) []drawEntry {
	for id, child := range g.children {
		uid := joinUID(prefix, id)
		if sub, ok := child.(*Group); ok {
			if sub.cfg.Visible {
				out = flattenGroup(sub, uid, out)
			}
			continue
		}
		if child.ObjectConfig().Visible {
			out = append(out, drawEntry{uid: uid, e: child})
		}
	}
	return out
}

// Draw composites all visible entities onto dc in z order.
func (r *Registry) Draw(dc *gg.Context, tr *Transform) error {
	var s sticky
	for _, e := range r.Flatten() {
		s.do(e.Draw(dc, tr))
	}
	return s.err
}

func joinUID(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "/" + id
}

func splitUID(uid string) (parent, leaf string) {
	if i := strings.LastIndex(uid, "/"); i >= 0 {
		return uid[:i], uid[i+1:]
	}
	return "", uid
}
