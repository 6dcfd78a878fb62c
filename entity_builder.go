package depot

// EntityBuilder provides chained component access for one entity. The first error
// from a chained call is kept and reported by Err; later calls become no-ops.
type EntityBuilder struct {
	entity Entity
	world  WorldView
	err    error
}

func newEntityBuilder(e Entity, w WorldView) *EntityBuilder {
	return &EntityBuilder{entity: e, world: w}
}

func (b *EntityBuilder) Entity() Entity {
	return b.entity
}

// AddComponent adds or replaces a component on the entity.
func (b *EntityBuilder) AddComponent(component any) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.world.AddComponent(b.entity, component)
	return b
}

func (b *EntityBuilder) GetComponent(c Component) (any, bool, error) {
	return b.world.GetComponent(b.entity, c)
}

func (b *EntityBuilder) RemoveComponent(c Component) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.world.RemoveComponent(b.entity, c)
	return b
}

func (b *EntityBuilder) Err() error {
	return b.err
}
