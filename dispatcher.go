package depot

import (
	"fmt"

	"go.uber.org/zap"
)

// SystemFunc adapts a plain function to a System.
type SystemFunc func(w WorldView) error

func (f SystemFunc) Run(w WorldView) error {
	return f(w)
}

type namedSystem struct {
	name string
	fn   SystemFunc
}

func (s namedSystem) Run(w WorldView) error {
	return s.fn(w)
}

func (s namedSystem) DisplayName() string {
	return s.name
}

type displayNamer interface {
	DisplayName() string
}

func systemName(s System) string {
	if n, ok := s.(displayNamer); ok {
		return n.DisplayName()
	}
	return fmt.Sprintf("%T", s)
}

// Dispatcher runs its systems in the order they were added. It is itself a System,
// so dispatchers nest.
type Dispatcher struct {
	systems []System
	log     *zap.Logger
}

var _ System = &Dispatcher{}

func newDispatcher() *Dispatcher {
	return &Dispatcher{log: Config.logger()}
}

func (d *Dispatcher) AddSystem(systems ...System) *Dispatcher {
	d.systems = append(d.systems, systems...)
	return d
}

func (d *Dispatcher) AddSystemFunc(name string, fn SystemFunc) *Dispatcher {
	return d.AddSystem(namedSystem{name: name, fn: fn})
}

func (d *Dispatcher) Len() int {
	return len(d.systems)
}

// Run invokes every system once. The first error aborts the pass. When a Commands
// resource is set, it is flushed after each system.
func (d *Dispatcher) Run(w WorldView) error {
	world, parent := scopeOf(w)
	for _, s := range d.systems {
		name := systemName(s)
		span := parent.Child(name)

		view := w
		if span != nil && world != nil {
			view = tracedView{WorldView: w, world: world, trace: span}
		}
		err := s.Run(view)
		if err == nil {
			err = flushCommands(view)
		}
		span.Done()

		if err != nil {
			d.log.Warn("system failed, aborting dispatch", zap.String("system", name), zap.Error(err))
			return fmt.Errorf("system %s: %w", name, err)
		}
	}
	return nil
}

func flushCommands(w WorldView) error {
	cmds, ok := CommandsResource.Get(w)
	if !ok || cmds.Len() == 0 {
		return nil
	}
	return cmds.Flush(w)
}

// scopeOf resolves the world backing a view and the span new work should nest under.
func scopeOf(w WorldView) (*World, *Trace) {
	switch v := w.(type) {
	case tracedView:
		return v.world, v.trace
	case *World:
		return v, v.rootTrace()
	}
	return nil, nil
}

// tracedView records the queries a system runs under that system's span.
type tracedView struct {
	WorldView
	world *World
	trace *Trace
}

func (v tracedView) Query(e Entity, query ...QueryElement) (Result, bool, error) {
	return v.world.query(v, e, query, v.trace)
}

func (v tracedView) Find(query ...QueryElement) *QueryResults {
	return v.world.find(v, query, v.trace)
}

func (v tracedView) BuildEntity() *EntityBuilder {
	return newEntityBuilder(v.CreateEntity(), v)
}

func (v tracedView) With(entities []Entity) *QueryResults {
	results := v.WorldView.With(entities)
	results.world = v
	return results
}
