package depot

import (
	"fmt"
	"reflect"
)

type operationType int

const (
	opInvalid operationType = iota - 1
	opCreate
	opDestroy
	opAddComponent
	opRemoveComponent
)

type operation struct {
	typ       operationType
	entity    Entity
	component any
	removed   Component
	spawn     []any
}

type opKey struct {
	entity Entity
	typ    reflect.Type
}

// Commands buffers structural changes so systems can issue them while iterating query
// results. Flush applies creates, then component changes, then destroys, then
// deferred functions.
//
// For one entity and component type only the last Add or Remove survives, and
// component changes on an entity queued for destruction are dropped.
type Commands struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	deferred       []func(WorldView) error
	pendingDestroy map[Entity]struct{}
	pendingMods    map[opKey]int
}

func newCommands() *Commands {
	return &Commands{
		pendingDestroy: make(map[Entity]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

var CommandsResource = FactoryNewResource[Commands]()

// Spawn queues a new entity carrying components.
func (c *Commands) Spawn(components ...any) {
	c.createOps = append(c.createOps, operation{typ: opCreate, spawn: components})
}

func (c *Commands) Destroy(entities ...Entity) {
	c.init()
	for _, e := range entities {
		if _, queued := c.pendingDestroy[e]; queued {
			continue
		}
		c.pendingDestroy[e] = struct{}{}
		for key, idx := range c.pendingMods {
			if key.entity == e {
				c.componentOps[idx].typ = opInvalid
				delete(c.pendingMods, key)
			}
		}
		c.destroyOps = append(c.destroyOps, operation{typ: opDestroy, entity: e})
	}
}

// Add queues component (a *T of a registered type) for the entity.
func (c *Commands) Add(e Entity, component any) {
	c.enqueueComponentOp(operation{
		typ:       opAddComponent,
		entity:    e,
		component: component,
	}, reflect.TypeOf(component))
}

func (c *Commands) Remove(e Entity, component Component) {
	var typ reflect.Type
	if component != nil {
		typ = component.info().typ
	}
	c.enqueueComponentOp(operation{
		typ:     opRemoveComponent,
		entity:  e,
		removed: component,
	}, typ)
}

// Defer queues fn to run after all structural changes of the flush.
func (c *Commands) Defer(fn func(w WorldView) error) {
	c.deferred = append(c.deferred, fn)
}

// Len is the number of queued operations.
func (c *Commands) Len() int {
	return len(c.createOps) + len(c.pendingMods) + len(c.destroyOps) + len(c.deferred)
}

func (c *Commands) init() {
	if c.pendingDestroy == nil {
		c.pendingDestroy = make(map[Entity]struct{})
		c.pendingMods = make(map[opKey]int)
	}
}

func (c *Commands) enqueueComponentOp(op operation, typ reflect.Type) {
	c.init()
	if _, destroyed := c.pendingDestroy[op.entity]; destroyed {
		return
	}
	key := opKey{entity: op.entity, typ: typ}
	if idx, exists := c.pendingMods[key]; exists {
		c.componentOps[idx] = op
		return
	}
	c.pendingMods[key] = len(c.componentOps)
	c.componentOps = append(c.componentOps, op)
}

// Flush applies and clears the queue. Commands queued while flushing, for example by a
// deferred function, stay queued for the next flush. The first error stops the flush;
// operations not yet applied are discarded.
func (c *Commands) Flush(w WorldView) error {
	creates, mods, destroys, deferred := c.createOps, c.componentOps, c.destroyOps, c.deferred
	c.reset()

	for _, op := range creates {
		b := w.BuildEntity()
		for _, component := range op.spawn {
			b.AddComponent(component)
		}
		if err := b.Err(); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}

	for _, op := range mods {
		switch op.typ {
		case opAddComponent:
			if err := w.AddComponent(op.entity, op.component); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := w.RemoveComponent(op.entity, op.removed); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		}
	}

	for _, op := range destroys {
		w.DestroyEntity(op.entity)
	}

	for _, fn := range deferred {
		if err := fn(w); err != nil {
			return fmt.Errorf("failed to run deferred command: %w", err)
		}
	}
	return nil
}

func (c *Commands) reset() {
	c.createOps = nil
	c.componentOps = nil
	c.destroyOps = nil
	c.deferred = nil
	clear(c.pendingDestroy)
	clear(c.pendingMods)
}
