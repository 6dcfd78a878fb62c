package depot

import (
	"reflect"

	"go.uber.org/zap"
)

var _ WorldView = &World{}

type componentEntry struct {
	info    *componentInfo
	storage componentStorage
	bit     uint32
}

type resourceSlot struct {
	info  *resourceInfo
	value any
	set   bool
}

// World owns all entities, component storages and resources. It is not safe for
// concurrent use; confine a World to one goroutine or synchronize externally.
type World struct {
	live       liveSet
	signatures signatures

	components     map[reflect.Type]*componentEntry
	componentNames *SimpleCache[*componentEntry]

	resources     map[reflect.Type]*resourceSlot
	resourceNames *SimpleCache[*resourceSlot]

	log *zap.Logger
}

func newWorld() *World {
	return &World{
		signatures:     newSignatures(),
		components:     make(map[reflect.Type]*componentEntry),
		componentNames: newSimpleCache[*componentEntry](MaxComponentTypes),
		resources:      make(map[reflect.Type]*resourceSlot),
		resourceNames:  newSimpleCache[*resourceSlot](maxResourceTypes),
		log:            Config.logger(),
	}
}

const maxResourceTypes = 1 << 16

// Entities returns the live entity ids in ascending order.
func (w *World) Entities() []Entity {
	return w.live.snapshot()
}

// CreateEntity allocates the id one above the current maximum live id. An id freed by
// DestroyEntity is handed out again only when it was the maximum.
func (w *World) CreateEntity() Entity {
	e := w.live.max() + 1
	w.live.add(e)
	return e
}

func (w *World) BuildEntity() *EntityBuilder {
	return newEntityBuilder(w.CreateEntity(), w)
}

// DestroyEntity removes the entity and every component it holds. Unknown ids are
// ignored.
func (w *World) DestroyEntity(e Entity) {
	for _, entry := range w.components {
		entry.storage.delete(e)
	}
	w.signatures.drop(e)
	w.live.remove(e)
}

// Alive reports whether e is in the live set.
func (w *World) Alive(e Entity) bool {
	return w.live.has(e)
}

// RegisterComponent registers component types. Registering a type again is a no-op
// and keeps its stored instances.
func (w *World) RegisterComponent(components ...Component) error {
	for _, c := range components {
		if c == nil {
			return UnknownComponentError{Name: "<nil>"}
		}
		info := c.info()
		if _, exists := w.components[info.typ]; exists {
			continue
		}
		bit, ok := w.signatures.register()
		if !ok {
			return ComponentLimitError{Name: info.name, Limit: MaxComponentTypes}
		}
		entry := &componentEntry{
			info:    info,
			storage: info.newStorage(),
			bit:     bit,
		}
		if _, err := w.componentNames.Register(info.name, entry); err != nil {
			w.signatures.release(bit)
			return err
		}
		w.components[info.typ] = entry
		w.log.Debug("registered component", zap.String("name", info.name), zap.Uint32("bit", entry.bit))
	}
	return nil
}

func (w *World) entry(c Component) (*componentEntry, error) {
	if c == nil {
		return nil, UnknownComponentError{Name: "<nil>"}
	}
	entry, ok := w.components[c.info().typ]
	if !ok {
		return nil, UnknownComponentError{Name: c.Name()}
	}
	return entry, nil
}

// AddComponent stores component (a *T of a registered type) on the entity, replacing
// any previous instance of that type.
func (w *World) AddComponent(e Entity, component any) error {
	if e == 0 {
		return InvalidEntityError{Entity: e}
	}
	typ := reflect.TypeOf(component)
	if typ == nil {
		return InvalidComponentError{Value: component}
	}
	entry, ok := w.components[typ]
	if !ok {
		return UnknownComponentError{Name: typ.String()}
	}
	if !entry.storage.setAny(e, component) {
		return InvalidComponentError{Value: component}
	}
	w.signatures.mark(e, entry.bit)
	return nil
}

func (w *World) GetComponent(e Entity, c Component) (any, bool, error) {
	entry, err := w.entry(c)
	if err != nil {
		return nil, false, err
	}
	v, ok := entry.storage.getAny(e)
	return v, ok, nil
}

func (w *World) RequireComponent(e Entity, c Component) (any, error) {
	entry, err := w.entry(c)
	if err != nil {
		return nil, err
	}
	v, ok := entry.storage.getAny(e)
	if !ok {
		return nil, MissingComponentError{Entity: e, Name: entry.info.name}
	}
	return v, nil
}

func (w *World) RemoveComponent(e Entity, c Component) error {
	entry, err := w.entry(c)
	if err != nil {
		return err
	}
	entry.storage.delete(e)
	w.signatures.unmark(e, entry.bit)
	return nil
}

// ClearComponent removes the component type from every entity.
func (w *World) ClearComponent(c Component) error {
	entry, err := w.entry(c)
	if err != nil {
		return err
	}
	entry.storage.eachAny(func(e Entity, _ any) bool {
		w.signatures.unmark(e, entry.bit)
		return true
	})
	entry.storage.clear()
	return nil
}

// SetResource stores resource (a non-nil pointer), replacing the previous value of its
// type. Types not yet registered are registered with a default, non-serialized
// definition.
func (w *World) SetResource(resource any) error {
	typ := reflect.TypeOf(resource)
	if typ == nil || typ.Kind() != reflect.Pointer || reflect.ValueOf(resource).IsNil() {
		return InvalidResourceError{Value: resource}
	}
	slot, ok := w.resources[typ]
	if !ok {
		var err error
		slot, err = w.addResourceSlot(implicitResourceInfo(typ))
		if err != nil {
			return err
		}
	}
	slot.value = resource
	slot.set = true
	return nil
}

// RegisterResource registers resource types without setting values. Existing values
// are never overwritten; a type first seen through SetResource takes on the declared
// definition.
func (w *World) RegisterResource(resources ...Resource) error {
	for _, r := range resources {
		if r == nil {
			return UnknownResourceError{Name: "<nil>"}
		}
		info := r.info()
		slot, exists := w.resources[info.typ]
		if !exists {
			if _, err := w.addResourceSlot(info); err != nil {
				return err
			}
			continue
		}
		if !slot.info.implicit || slot.info == info {
			continue
		}
		if slot.info.name != info.name {
			if _, taken := w.resourceNames.GetIndex(info.name); taken {
				return DuplicateNameError{Name: info.name}
			}
			w.resourceNames.Remove(slot.info.name)
			if _, err := w.resourceNames.Register(info.name, slot); err != nil {
				return err
			}
		}
		slot.info = info
	}
	return nil
}

func (w *World) addResourceSlot(info *resourceInfo) (*resourceSlot, error) {
	slot := &resourceSlot{info: info}
	name := info.name
	if _, taken := w.resourceNames.GetIndex(name); taken && info.implicit {
		name = info.typ.Elem().String()
		info.name = name
	}
	if _, err := w.resourceNames.Register(name, slot); err != nil {
		return nil, err
	}
	w.resources[info.typ] = slot
	w.log.Debug("registered resource", zap.String("name", name), zap.Bool("implicit", info.implicit))
	return slot, nil
}

// RemoveResource unsets the resource value. The type stays registered.
func (w *World) RemoveResource(r Resource) {
	if r == nil {
		return
	}
	slot, ok := w.resources[r.info().typ]
	if !ok {
		return
	}
	slot.value = nil
	slot.set = false
}

// GetResource returns the resource value, absent when unset or unregistered.
func (w *World) GetResource(r Resource) (any, bool) {
	if r == nil {
		return nil, false
	}
	slot, ok := w.resources[r.info().typ]
	if !ok || !slot.set {
		return nil, false
	}
	return slot.value, true
}

func (w *World) RequireResource(r Resource) (any, error) {
	v, ok := w.GetResource(r)
	if !ok {
		name := "<nil>"
		if r != nil {
			name = r.Name()
			if slot, registered := w.resources[r.info().typ]; registered {
				name = slot.info.name
			}
		}
		return nil, MissingResourceError{Name: name}
	}
	return v, nil
}
