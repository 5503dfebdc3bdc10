package pagedseq

import "fmt"

// page is a fixed-capacity block of elements.
//
// The backing array is allocated once with capacity == page size and is
// never grown, shrunk or moved, so pointers into items stay valid for as
// long as the slot is occupied.
type page[T any] struct {
	items []T
}

func newPage[T any](size int) *page[T] {
	return &page[T]{items: make([]T, 0, size)}
}

func (p *page[T]) len() int { return len(p.items) }

func (p *page[T]) full() bool { return len(p.items) == cap(p.items) }

// push appends v. Appending to a full page would reallocate the backing
// array, which breaks slot stability, so it is treated as a bug.
func (p *page[T]) push(v T) {
	if p.full() {
		panic(fmt.Errorf("pagedseq: push into full page (cap=%d)", cap(p.items)))
	}
	p.items = append(p.items, v)
}

// pop removes the trailing element. The vacated slot is zeroed so the page
// does not keep the value reachable.
func (p *page[T]) pop() (T, bool) {
	n := len(p.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	v := p.items[n-1]
	var zero T
	p.items[n-1] = zero
	p.items = p.items[:n-1]
	return v, true
}

// reset zeroes every occupied slot and empties the page.
func (p *page[T]) reset() {
	clear(p.items)
	p.items = p.items[:0]
}

// chain is the ordered list of pages. Pages are held by pointer so growing
// the chain never moves page storage.
type chain[T any] struct {
	pages []*page[T]
}

func (c *chain[T]) len() int { return len(c.pages) }

// at returns the i-th page, or nil when i is outside the chain.
func (c *chain[T]) at(i int) *page[T] {
	if i < 0 || i >= len(c.pages) {
		return nil
	}
	return c.pages[i]
}

// back returns the trailing page, or nil for an empty chain.
func (c *chain[T]) back() *page[T] {
	return c.at(len(c.pages) - 1)
}

func (c *chain[T]) pushBack(p *page[T]) {
	c.pages = append(c.pages, p)
}

// popBack detaches the trailing page.
func (c *chain[T]) popBack() *page[T] {
	n := len(c.pages)
	if n == 0 {
		return nil
	}
	p := c.pages[n-1]
	c.pages[n-1] = nil
	c.pages = c.pages[:n-1]
	return p
}
