package mapview

import (
	"encoding/json"
	"fmt"
)

// Feed message types.
const (
	MsgUpdate       = "update"
	MsgUpdateConfig = "update_config"
	MsgAdd          = "add"
	MsgRemove       = "remove"
)

// Message is one feed protocol frame. Update messages batch per-object
// payloads in Data keyed by uid; add and remove address a single object
// through Parent and ID.
type Message struct {
	Type    string                     `json:"type"`
	Parent  string                     `json:"parent,omitempty"`
	ID      string                     `json:"id,omitempty"`
	Payload json.RawMessage            `json:"payload,omitempty"`
	Data    map[string]json.RawMessage `json:"data,omitempty"`
}

// addPayload describes a new object. Children lets a single add message
// populate a whole group subtree.
type addPayload struct {
	Type     string                     `json:"type"`
	Data     map[string]any             `json:"data,omitempty"`
	Config   map[string]any             `json:"config,omitempty"`
	Children map[string]json.RawMessage `json:"children,omitempty"`
}

// HandleMessage decodes and applies one feed frame. A malformed frame
// returns an error; failures on individual objects (unknown uid, unknown
// type, bad payload) are logged and dropped so one bad object never
// stalls the feed.
//
// Entity mutations are applied under the map mutex, so a feed goroutine
// can run concurrently with Draw.
func (m *Map) HandleMessage(raw []byte) error {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("mapview: decode feed message: %w", err)
	}

	switch msg.Type {
	case MsgUpdate:
		m.mu.Lock()
		defer m.mu.Unlock()
		m.applyBatch(msg, func(e Entity, data map[string]any) error {
			return e.Update(data)
		})
	case MsgUpdateConfig:
		// An empty id addresses the map configuration itself. Configure
		// takes the map mutex, so it must run before this frame does.
		if msg.ID == "" && len(msg.Data) == 0 && len(msg.Payload) > 0 {
			var partial map[string]any
			if err := json.Unmarshal(msg.Payload, &partial); err != nil {
				return fmt.Errorf("mapview: decode config payload: %w", err)
			}
			if err := m.Configure(partial); err != nil {
				Logger().Warn("config update rejected", "err", err)
			}
			return nil
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.applyBatch(msg, func(e Entity, data map[string]any) error {
			return e.UpdateConfig(data)
		})
	case MsgAdd:
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.addObject(msg.Parent, msg.ID, msg.Payload); err != nil {
			Logger().Warn("add dropped", "id", joinUID(msg.Parent, msg.ID), "err", err)
		}
	case MsgRemove:
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.reg.Remove(msg.ID); err != nil {
			Logger().Warn("remove dropped", "id", msg.ID, "err", err)
		}
	default:
		Logger().Warn("unknown feed message type", "type", msg.Type)
	}
	return nil
}

// applyBatch applies a per-object operation to every uid in the message.
// Single-object messages use ID plus Payload instead of Data.
func (m *Map) applyBatch(msg Message, op func(Entity, map[string]any) error) {
	batch := msg.Data
	if batch == nil && msg.ID != "" {
		batch = map[string]json.RawMessage{msg.ID: msg.Payload}
	}
	for uid, raw := range batch {
		e, err := m.reg.Lookup(uid)
		if err != nil {
			Logger().Warn("update dropped", "id", uid, "err", err)
			continue
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			Logger().Warn("update dropped", "id", uid, "err", err)
			continue
		}
		if err := op(e, data); err != nil {
			Logger().Warn("update dropped", "id", uid, "err", err)
		}
	}
}

// addObject constructs an entity from an add payload and inserts it
// under the parent, then recurses into any declared children.
func (m *Map) addObject(parent, id string, raw json.RawMessage) error {
	var p addPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode add payload: %w", err)
	}
	e, err := newEntity(p.Type, id)
	if err != nil {
		return err
	}
	if len(p.Data) > 0 {
		if err := e.Update(p.Data); err != nil {
			return err
		}
	}
	if len(p.Config) > 0 {
		if err := e.UpdateConfig(p.Config); err != nil {
			return err
		}
	}
	if err := m.reg.Add(parent, e); err != nil {
		return err
	}
	uid := joinUID(parent, id)
	for childID, childRaw := range p.Children {
		if err := m.addObject(uid, childID, childRaw); err != nil {
			Logger().Warn("add dropped", "id", joinUID(uid, childID), "err", err)
		}
	}
	return nil
}
