package depot

import "iter"

var _ iCursor = &Cursor{}

func newCursor(results *QueryResults) *Cursor {
	return &Cursor{results: results}
}

// Next advances to the following result. It returns false once the results are
// exhausted, after which the cursor is reset and may be walked again.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	e, r, ok := c.next()
	if !ok {
		c.Reset()
		return false
	}
	c.entity = e
	c.current = r
	c.visited++
	return true
}

func (c *Cursor) initialize() {
	c.next, c.stop = iter.Pull2(c.results.Entries())
	c.visited = 0
	c.initialized = true
}

// Reset abandons the current walk and releases its iterator. The next call to Next
// starts over from the first result.
func (c *Cursor) Reset() {
	if c.stop != nil {
		c.stop()
	}
	c.next = nil
	c.stop = nil
	c.entity = 0
	c.current = nil
	c.visited = 0
	c.initialized = false
}

func (c *Cursor) Entity() Entity {
	return c.entity
}

func (c *Cursor) Result() Result {
	return c.current
}

// Visited is the number of results yielded by the current walk.
func (c *Cursor) Visited() int {
	return c.visited
}

func (c *Cursor) Err() error {
	return c.results.Err()
}

// TotalMatched evaluates the results in full and counts them, independent of the
// cursor position.
func (c *Cursor) TotalMatched() (int, error) {
	return c.results.Count()
}
