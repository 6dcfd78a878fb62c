package depot

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// source produces (entity, result) pairs each time it is called. It may be called any
// number of times and never caches.
type source func(yield func(Entity, Result) bool) error

// QueryResults is a lazily composed sequence of query results. Composition methods
// return new QueryResults without evaluating anything; every terminal operation or
// range loop re-runs the underlying scan against the world's current state.
type QueryResults struct {
	world  WorldView
	source source
	err    error
}

func newQueryResults(w WorldView, src source) *QueryResults {
	return &QueryResults{world: w, source: src}
}

func (q *QueryResults) run(yield func(Entity, Result) bool) error {
	q.err = q.source(yield)
	return q.err
}

// Filter keeps results for which predicate returns true.
func (q *QueryResults) Filter(predicate func(Result) bool) *QueryResults {
	src := q.source
	return newQueryResults(q.world, func(yield func(Entity, Result) bool) error {
		return src(func(e Entity, r Result) bool {
			if !predicate(r) {
				return true
			}
			return yield(e, r)
		})
	})
}

// Chain yields q's results followed by other's. Entities present in both are yielded
// twice.
func (q *QueryResults) Chain(other *QueryResults) *QueryResults {
	first, second := q.source, other.source
	return newQueryResults(q.world, func(yield func(Entity, Result) bool) error {
		stopped := false
		err := first(func(e Entity, r Result) bool {
			if !yield(e, r) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil || stopped {
			return err
		}
		return second(yield)
	})
}

// Select replaces each result with a fresh query against the same entity, dropping
// entities for which the new query fails.
func (q *QueryResults) Select(query ...QueryElement) *QueryResults {
	src, w := q.source, q.world
	return newQueryResults(w, func(yield func(Entity, Result) bool) error {
		var queryErr error
		err := src(func(e Entity, _ Result) bool {
			replacement, ok, err := w.Query(e, query...)
			if err != nil {
				queryErr = err
				return false
			}
			if !ok {
				return true
			}
			return yield(e, replacement)
		})
		if queryErr != nil {
			return queryErr
		}
		return err
	})
}

// First evaluates only as far as the first result.
func (q *QueryResults) First() (Result, bool, error) {
	var (
		first Result
		found bool
	)
	err := q.run(func(_ Entity, r Result) bool {
		first, found = r, true
		return false
	})
	if err != nil {
		return nil, false, err
	}
	return first, found, nil
}

// Count evaluates every result and discards it.
func (q *QueryResults) Count() (int, error) {
	n := 0
	err := q.run(func(Entity, Result) bool {
		n++
		return true
	})
	return n, err
}

// Collect eagerly gathers every result.
func (q *QueryResults) Collect() ([]Result, error) {
	results := iter_util.Collect(q.All())
	if q.err != nil {
		return nil, q.err
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// All ranges over the results. After the loop, Err reports any evaluation error.
func (q *QueryResults) All() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		q.run(func(_ Entity, r Result) bool {
			return yield(r)
		})
	}
}

// Entries ranges over (entity, result) pairs.
func (q *QueryResults) Entries() iter.Seq2[Entity, Result] {
	return func(yield func(Entity, Result) bool) {
		q.run(yield)
	}
}

// Err returns the error of the most recent evaluation.
func (q *QueryResults) Err() error {
	return q.err
}
