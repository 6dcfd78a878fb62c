package depot

import "slices"

// Query evaluates query against one entity. The boolean is false when any element
// fails; evaluation stops at the first failing element. Unregistered component types
// are reported as errors, never as a failed match, but elements after the first
// failing one are not checked. Find checks all of them up front.
func (w *World) Query(e Entity, query ...QueryElement) (Result, bool, error) {
	return w.query(w, e, query, w.rootTrace())
}

// Find returns the entities, in ascending id order, for which query succeeds. The
// results are lazy: the live set is read as iteration advances, so entities created
// or destroyed mid-iteration are observed. Use Commands to defer structural changes.
// Every element, nested ones included, is checked for registration before the scan;
// an unregistered type is reported as an UnknownComponentError.
func (w *World) Find(query ...QueryElement) *QueryResults {
	return w.find(w, query, w.rootTrace())
}

// With seeds a QueryResults with an explicit list of entities, each carrying its id
// as the result.
func (w *World) With(entities []Entity) *QueryResults {
	ids := slices.Clone(entities)
	return newQueryResults(w, func(yield func(Entity, Result) bool) error {
		for _, e := range ids {
			if !yield(e, Result{e}) {
				return nil
			}
		}
		return nil
	})
}

func (w *World) query(view WorldView, e Entity, query []QueryElement, parent *Trace) (Result, bool, error) {
	span := parent.Child("query")
	defer span.Done()
	return w.evaluate(view, e, query, span)
}

func (w *World) find(view WorldView, query []QueryElement, trace *Trace) *QueryResults {
	query = slices.Clone(query)
	filter, err := w.compile(query)
	return newQueryResults(view, func(yield func(Entity, Result) bool) error {
		if err != nil {
			return err
		}
		var last Entity
		for {
			e, ok := w.live.after(last)
			if !ok {
				return nil
			}
			last = e
			if !w.signatures.accepts(e, filter) {
				continue
			}
			result, ok, err := w.query(view, e, query, trace)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if !yield(e, result) {
				return nil
			}
		}
	})
}

func (w *World) evaluate(view WorldView, e Entity, query []QueryElement, trace *Trace) (Result, bool, error) {
	result := make(Result, 0, len(query))
	for _, element := range query {
		span := trace.Child("query element")
		value, contributes, ok, err := w.evaluateElement(view, e, element, span)
		span.Done()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		if contributes {
			result = append(result, value)
		}
	}
	return result, true, nil
}

func (w *World) evaluateElement(view WorldView, e Entity, element QueryElement, span *Trace) (value any, contributes, ok bool, err error) {
	if element == nil {
		return nil, false, false, InvalidQueryElementError{Element: element}
	}
	kind := element.Kind()
	span.Rename(kind.String())

	switch kind {
	case ElementEntity:
		return e, true, true, nil

	case ElementEntityBuilder:
		return newEntityBuilder(e, view), true, true, nil

	case ElementComponent:
		c, isComponent := element.(Component)
		if !isComponent {
			return nil, false, false, InvalidQueryElementError{Element: element}
		}
		entry, err := w.entry(c)
		if err != nil {
			return nil, false, false, err
		}
		v, found := entry.storage.getAny(e)
		if !found {
			return nil, false, false, nil
		}
		return v, true, true, nil

	case ElementNot:
		n, isNot := element.(notNode)
		if !isNot {
			return nil, false, false, InvalidQueryElementError{Element: element}
		}
		_, matched, err := w.evaluate(view, e, []QueryElement{n.inner}, span)
		if err != nil {
			return nil, false, false, err
		}
		return nil, false, !matched, nil

	case ElementOptional:
		o, isOptional := element.(optionalNode)
		if !isOptional {
			return nil, false, false, InvalidQueryElementError{Element: element}
		}
		inner, matched, err := w.evaluate(view, e, []QueryElement{o.inner}, span)
		if err != nil {
			return nil, false, false, err
		}
		if matched && len(inner) > 0 {
			return inner[0], true, true, nil
		}
		return nil, true, true, nil

	case ElementDerived:
		d, isDerived := element.(derivedNode)
		if !isDerived || d.combiner == nil {
			return nil, false, false, InvalidQueryElementError{Element: element}
		}
		sub, matched, err := w.evaluate(view, e, d.query, span)
		if err != nil || !matched {
			return nil, false, false, err
		}
		v, ok := d.combiner(sub, view)
		if !ok {
			return nil, false, false, nil
		}
		return v, true, true, nil
	}
	return nil, false, false, InvalidQueryElementError{Element: element}
}

// compile checks that every component the query references is registered and
// derives the signature filter from its top-level component and Not(component)
// elements.
func (w *World) compile(query []QueryElement) (signatureFilter, error) {
	var filter signatureFilter
	if err := w.validate(query); err != nil {
		return filter, err
	}
	for _, element := range query {
		switch el := element.(type) {
		case Component:
			entry, _ := w.entry(el)
			filter.required.Mark(entry.bit)
			filter.hasRequired = true
		case notNode:
			if c, ok := el.inner.(Component); ok {
				entry, _ := w.entry(c)
				filter.excluded.Mark(entry.bit)
				filter.hasExcluded = true
			}
		}
	}
	return filter, nil
}

func (w *World) validate(query []QueryElement) error {
	for _, element := range query {
		switch el := element.(type) {
		case nil:
			return InvalidQueryElementError{Element: element}
		case Component:
			if _, err := w.entry(el); err != nil {
				return err
			}
		case notNode:
			if err := w.validate([]QueryElement{el.inner}); err != nil {
				return err
			}
		case optionalNode:
			if err := w.validate([]QueryElement{el.inner}); err != nil {
				return err
			}
		case derivedNode:
			if err := w.validate(el.query); err != nil {
				return err
			}
		}
	}
	return nil
}

// rootTrace returns the trace of the Tracer resource, or nil when tracing is off.
func (w *World) rootTrace() *Trace {
	tracer, ok := TracerResource.Get(w)
	if !ok {
		return nil
	}
	return tracer.Root()
}
