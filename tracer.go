package depot

import (
	"time"
)

// Trace is one timed span in a tree of spans. A nil *Trace is a valid, disabled trace:
// every method on it is a no-op, so untraced code paths pay nothing.
type Trace struct {
	Name     string
	Start    time.Time
	End      time.Time
	Children []*Trace
}

func NewTrace(name string) *Trace {
	return &Trace{Name: name, Start: time.Now()}
}

// Child starts a nested span.
func (t *Trace) Child(name string) *Trace {
	if t == nil {
		return nil
	}
	child := NewTrace(name)
	t.Children = append(t.Children, child)
	return child
}

func (t *Trace) Rename(name string) {
	if t == nil {
		return
	}
	t.Name = name
}

// Done closes the span. Closing twice keeps the first end time.
func (t *Trace) Done() {
	if t == nil || !t.End.IsZero() {
		return
	}
	t.End = time.Now()
}

// Duration is zero for open or nil spans.
func (t *Trace) Duration() time.Duration {
	if t == nil || t.End.IsZero() {
		return 0
	}
	return t.End.Sub(t.Start)
}

// Walk visits the span tree depth-first, parents before children.
func (t *Trace) Walk(fn func(t *Trace, depth int)) {
	t.walk(fn, 0)
}

func (t *Trace) walk(fn func(*Trace, int), depth int) {
	if t == nil {
		return
	}
	fn(t, depth)
	for _, child := range t.Children {
		child.walk(fn, depth+1)
	}
}

// Tracer is the resource that switches tracing on. When it is set in a world, the
// Dispatcher records one span per system under Root, and queries run by those systems
// record spans beneath it. Query and Find called directly on the World while the
// Tracer is set add their spans under Root too; those spans accumulate until Reset.
type Tracer struct {
	root *Trace
}

func NewTracer(name string) *Tracer {
	return &Tracer{root: NewTrace(name)}
}

func (t *Tracer) Root() *Trace {
	if t == nil {
		return nil
	}
	return t.root
}

// Reset discards recorded spans and starts a fresh root.
func (t *Tracer) Reset() {
	t.root = NewTrace(t.root.Name)
}

var TracerResource = FactoryNewResource[Tracer]()
