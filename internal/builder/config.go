// Package builder implements the PC builder core: configuration parsing,
// compatibility rule evaluation and price aggregation. Evaluation and
// pricing are pure functions of the submitted configuration plus catalog
// and rule snapshots, so they carry no state and are safe to call
// concurrently.
package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when the submitted body is not a
// slot-to-selection mapping. This is the only input shape the core rejects;
// everything else degrades to skipped checks.
var ErrInvalidConfiguration = errors.New("configuration must be an object mapping slot keys to component selections")

// ComponentRef points at a catalog component. The identifier is opaque;
// display fields may ride along but are ignored by evaluation and pricing.
type ComponentRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// SlotSelection is one or more component refs for a single slot. Slots like
// memory or storage accept a JSON array; single-component slots accept a
// bare object. The submitted shape is remembered so snapshots round-trip.
type SlotSelection struct {
	Refs  []ComponentRef
	multi bool
}

func (s *SlotSelection) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty slot selection")
	}
	switch trimmed[0] {
	case '[':
		var refs []ComponentRef
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		s.Refs = refs
		s.multi = true
		return nil
	case '{':
		var ref ComponentRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		s.Refs = []ComponentRef{ref}
		s.multi = false
		return nil
	default:
		return fmt.Errorf("slot selection must be an object or an array")
	}
}

func (s SlotSelection) MarshalJSON() ([]byte, error) {
	if !s.multi && len(s.Refs) == 1 {
		return json.Marshal(s.Refs[0])
	}
	if s.Refs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Refs)
}

// Count is the number of units selected for the slot. A single ref counts
// as one; list membership is the quantity representation.
func (s SlotSelection) Count() int { return len(s.Refs) }

// Configuration is a build-in-progress: slot key to selection. Slot
// iteration order follows the submitted JSON object, which makes price
// breakdown line order deterministic for a fixed input.
type Configuration struct {
	slots map[string]SlotSelection
	order []string
}

func (c *Configuration) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return ErrInvalidConfiguration
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return ErrInvalidConfiguration
	}

	c.slots = make(map[string]SlotSelection)
	c.order = c.order[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return ErrInvalidConfiguration
		}
		key, ok := keyTok.(string)
		if !ok {
			return ErrInvalidConfiguration
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return ErrInvalidConfiguration
		}
		var sel SlotSelection
		if err := json.Unmarshal(raw, &sel); err != nil {
			return fmt.Errorf("slot %q: %w", key, err)
		}
		if _, exists := c.slots[key]; !exists {
			c.order = append(c.order, key)
		}
		c.slots[key] = sel
	}
	return nil
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slot := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(slot)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		selJSON, err := json.Marshal(c.slots[slot])
		if err != nil {
			return nil, err
		}
		buf.Write(selJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Set replaces the selection for a slot, appending to the iteration order
// on first use. Intended for building configurations in code.
func (c *Configuration) Set(slot string, multi bool, refs ...ComponentRef) {
	if c.slots == nil {
		c.slots = make(map[string]SlotSelection)
	}
	if _, exists := c.slots[slot]; !exists {
		c.order = append(c.order, slot)
	}
	c.slots[slot] = SlotSelection{Refs: refs, multi: multi}
}

// Slots returns slot keys in submission order.
func (c *Configuration) Slots() []string { return c.order }

func (c *Configuration) Selection(slot string) (SlotSelection, bool) {
	sel, ok := c.slots[slot]
	return sel, ok
}

func (c *Configuration) Empty() bool { return len(c.order) == 0 }

// ComponentIDs collects every referenced identifier, deduplicated in
// first-seen order. Used to resolve the catalog snapshot for a request.
func (c *Configuration) ComponentIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, slot := range c.order {
		for _, ref := range c.slots[slot].Refs {
			if ref.ID == "" {
				continue
			}
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			ids = append(ids, ref.ID)
		}
	}
	return ids
}
