package depot

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Snapshot is the persisted form of a World: plain maps, slices and scalars only.
type Snapshot struct {
	Resources map[string]any            `json:"resources" yaml:"resources"`
	Entities  map[Entity]map[string]any `json:"entities" yaml:"entities"`
}

func NewSnapshot() Snapshot {
	return Snapshot{
		Resources: make(map[string]any),
		Entities:  make(map[Entity]map[string]any),
	}
}

// Snapshot captures the world with no particular purpose.
func (w *World) Snapshot() (Snapshot, error) {
	return w.SnapshotFor(nil)
}

// SnapshotFor captures every live entity, the dehydrated form of every component not
// marked SkipSerialization, and every set resource that declares a dehydrate hook.
// purpose is handed to each dehydrate hook unchanged.
func (w *World) SnapshotFor(purpose any) (Snapshot, error) {
	snap := NewSnapshot()
	for _, e := range w.live.ids {
		snap.Entities[e] = make(map[string]any)
	}

	for name, entry := range w.componentNames.Items() {
		if entry.info.skip {
			continue
		}
		var err error
		entry.storage.eachAny(func(e Entity, v any) bool {
			data, ok := entry.info.dehydrate(v, purpose)
			if !ok {
				return true
			}
			plain, perr := toPlain(data)
			if perr != nil {
				err = fmt.Errorf("dehydrate component %s of entity %d: %w", name, e, perr)
				return false
			}
			components, exists := snap.Entities[e]
			if !exists {
				components = make(map[string]any)
				snap.Entities[e] = components
			}
			components[name] = plain
			return true
		})
		if err != nil {
			return Snapshot{}, err
		}
	}

	for name, slot := range w.resourceNames.Items() {
		if !slot.set || slot.info.dehydrate == nil {
			continue
		}
		data, ok := slot.info.dehydrate(slot.value, purpose)
		if !ok {
			continue
		}
		plain, err := toPlain(data)
		if err != nil {
			return Snapshot{}, fmt.Errorf("dehydrate resource %s: %w", name, err)
		}
		snap.Resources[name] = plain
	}
	return snap, nil
}

// Restore loads a snapshot in two phases. Resources are merged into the current
// values: a resource the snapshot does not mention, or whose rehydrate declines, keeps
// its value. Entities and components are reset first and rebuilt from the snapshot.
//
// Every type named in the snapshot must be registered beforehand. Restore is not
// atomic: on error the world is left partially restored.
func (w *World) Restore(snap Snapshot) error {
	for _, name := range slices.Sorted(maps.Keys(snap.Resources)) {
		idx, ok := w.resourceNames.GetIndex(name)
		if !ok {
			return UnknownResourceError{Name: name}
		}
		slot := *w.resourceNames.GetItem(idx)
		value, ok, err := slot.info.rehydrate(snap.Resources[name])
		if err != nil {
			return fmt.Errorf("rehydrate resource %s: %w", name, err)
		}
		if !ok {
			continue
		}
		slot.value = value
		slot.set = true
	}

	w.live.clear()
	w.signatures.reset()
	for _, entry := range w.components {
		entry.storage.clear()
	}

	restored := 0
	for _, e := range slices.Sorted(maps.Keys(snap.Entities)) {
		if e == 0 {
			return InvalidEntityError{Entity: e}
		}
		w.live.add(e)
		components := snap.Entities[e]
		for _, name := range slices.Sorted(maps.Keys(components)) {
			idx, ok := w.componentNames.GetIndex(name)
			if !ok {
				return UnknownComponentError{Name: name}
			}
			entry := *w.componentNames.GetItem(idx)
			value, ok, err := entry.info.rehydrate(components[name])
			if err != nil {
				return fmt.Errorf("rehydrate component %s of entity %d: %w", name, e, err)
			}
			if !ok {
				continue
			}
			if !entry.storage.setAny(e, value) {
				return InvalidComponentError{Value: value}
			}
			w.signatures.mark(e, entry.bit)
			restored++
		}
	}

	w.log.Debug("restored snapshot",
		zap.Int("entities", w.live.len()),
		zap.Int("components", restored),
		zap.Int("resources", len(snap.Resources)),
	)
	return nil
}

// toPlain deep-copies v into its JSON representation: maps, slices, strings,
// float64s, bools and nil.
func toPlain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// decodeValue copies the fields of plain data onto target, a pointer.
func decodeValue(data any, target any) error {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}

func decodeInto[T any](data any) (any, bool, error) {
	v := new(T)
	if err := decodeValue(data, v); err != nil {
		return nil, false, err
	}
	return v, true, nil
}
