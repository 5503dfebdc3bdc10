package pagedseq

import (
	"context"
	"iter"
	"unsafe"
)

// Sequence is an unrolled linked list: an ordered collection stored in a
// chain of fixed-capacity pages.
//
// Elements are appended at the tail and removed either from the tail (Pop)
// or from any position by swapping the last element into its slot (Remove).
// Pages never move once allocated, so a pointer obtained from GetMut stays
// valid until that slot is vacated.
//
// A Sequence has a single owner and performs no internal synchronization.
// Callers that share one across goroutines must guard it themselves.
type Sequence[T any] struct {
	pageSize  int
	pageBytes int64
	chain     chain[T]
	length    int
	opts      options
}

// Stats describes the storage layout of a Sequence.
type Stats struct {
	Len        int // Number of elements
	PageSize   int // Elements per page
	Pages      int // Pages currently held by the chain
	SparePages int // Empty trailing pages kept for the next push (0 or 1)
	Capacity   int // Pages * PageSize
}

// New creates an empty Sequence whose pages hold pageSize elements each.
//
// No pages are allocated until the first push. A non-positive pageSize is
// rejected with *ErrInvalidPageSize.
func New[T any](pageSize int, optFns ...Option) (*Sequence[T], error) {
	if pageSize <= 0 {
		return nil, &ErrInvalidPageSize{PageSize: pageSize}
	}

	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	o.logger = o.logger.WithPageSize(pageSize)

	var zero T
	return &Sequence[T]{
		pageSize:  pageSize,
		pageBytes: int64(pageSize) * int64(unsafe.Sizeof(zero)),
		opts:      o,
	}, nil
}

// MustNew is like New but panics on an invalid page size.
func MustNew[T any](pageSize int, optFns ...Option) *Sequence[T] {
	s, err := New[T](pageSize, optFns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int { return s.length }

// PageSize returns the number of elements per page.
func (s *Sequence[T]) PageSize() int { return s.pageSize }

// PageCount returns the number of pages currently allocated.
func (s *Sequence[T]) PageCount() int { return s.chain.len() }

// Stats returns the current storage layout.
func (s *Sequence[T]) Stats() Stats {
	spare := 0
	if p := s.chain.back(); p != nil && p.len() == 0 {
		spare = 1
	}
	return Stats{
		Len:        s.length,
		PageSize:   s.pageSize,
		Pages:      s.chain.len(),
		SparePages: spare,
		Capacity:   s.chain.len() * s.pageSize,
	}
}

// pageOf returns the zero-based page that holds logical position pos.
func (s *Sequence[T]) pageOf(pos int) int {
	return pos / s.pageSize
}

// offsetOf returns the slot of logical position pos within its page.
func (s *Sequence[T]) offsetOf(pos int) int {
	return pos % s.pageSize
}

// Push appends item as the new last element.
//
// Push only fails when a MemoryAcquirer is configured and refuses the memory
// for a new page; that is treated as an allocation failure and panics with
// *ErrPageBudget. Use TryPush to receive the error instead.
func (s *Sequence[T]) Push(item T) {
	if err := s.TryPush(item); err != nil {
		panic(err)
	}
}

// TryPush appends item as the new last element. It returns *ErrPageBudget
// if a new page was needed and the MemoryAcquirer refused it; the sequence
// is left unchanged in that case.
func (s *Sequence[T]) TryPush(item T) error {
	target := s.pageOf(s.length)

	// The chain holds either exactly the pages needed for length elements,
	// or one more (an empty spare) when length is a multiple of pageSize.
	switch n := s.chain.len(); {
	case n == target:
		if err := s.grow(); err != nil {
			return err
		}
	case n != target+1:
		panic(errInvariant("push at len %d: want %d or %d pages, have %d", s.length, target, target+1, n))
	}

	s.chain.at(target).push(item)
	s.length++
	return nil
}

// Pop removes and returns the last element.
// It returns false if the sequence is empty.
func (s *Sequence[T]) Pop() (T, bool) {
	if s.length == 0 {
		var zero T
		return zero, false
	}

	last := s.length - 1
	p := s.chain.at(s.pageOf(last))
	if p == nil || p.len() != s.offsetOf(last)+1 {
		panic(errInvariant("pop at len %d: page %d missing or misaligned (pages=%d)", s.length, s.pageOf(last), s.chain.len()))
	}

	v, _ := p.pop()
	s.length--
	s.reclaim()
	return v, true
}

// Get returns the element at logical position pos.
// It returns false if pos is outside [0, Len()).
func (s *Sequence[T]) Get(pos int) (T, bool) {
	ref, ok := s.GetMut(pos)
	if !ok {
		var zero T
		return zero, false
	}
	return *ref, true
}

// GetMut returns a pointer to the element at logical position pos.
// It returns false if pos is outside [0, Len()).
//
// The pointer stays valid until the element is popped or removed; pushes
// never relocate existing elements.
func (s *Sequence[T]) GetMut(pos int) (*T, bool) {
	if pos < 0 || pos >= s.length {
		return nil, false
	}
	return s.slot(pos), true
}

// Set overwrites the element at logical position pos.
// It returns false if pos is outside [0, Len()).
func (s *Sequence[T]) Set(pos int, item T) bool {
	ref, ok := s.GetMut(pos)
	if !ok {
		return false
	}
	*ref = item
	return true
}

// Remove removes and returns the element at logical position pos.
// It returns false if pos is outside [0, Len()).
//
// The last element is moved into the vacated position, so the relative
// order of the remaining elements is not preserved. The cost is bounded by
// a single page regardless of the sequence length.
func (s *Sequence[T]) Remove(pos int) (T, bool) {
	if pos < 0 || pos >= s.length {
		var zero T
		return zero, false
	}

	last := s.length - 1
	crossPage := false
	if pos != last {
		// pos != last, so the two slots are distinct even on a shared page.
		a, b := s.slot(pos), s.slot(last)
		*a, *b = *b, *a
		crossPage = s.pageOf(pos) != s.pageOf(last)
	}

	v, ok := s.Pop()
	s.opts.metrics.RecordRemove(crossPage)
	return v, ok
}

// All returns an iterator over positions and elements in logical order.
// The sequence must not be modified during iteration.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		pos := 0
		for _, p := range s.chain.pages {
			for _, v := range p.items {
				if !yield(pos, v) {
					return
				}
				pos++
			}
		}
	}
}

// Values returns an iterator over the elements in logical order.
// The sequence must not be modified during iteration.
func (s *Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, p := range s.chain.pages {
			for _, v := range p.items {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Pages returns an iterator over the occupied pages in logical order.
// Each yielded slice aliases page storage: it is only valid until the
// next mutation and must not be modified or retained.
func (s *Sequence[T]) Pages() iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for i, p := range s.chain.pages {
			if p.len() == 0 {
				return
			}
			if !yield(i, p.items[:p.len():p.len()]) {
				return
			}
		}
	}
}

// Trim releases the spare empty trailing page, if any.
func (s *Sequence[T]) Trim() {
	if p := s.chain.back(); p != nil && p.len() == 0 {
		s.release()
	}
}

// Clear removes all elements and releases every page.
func (s *Sequence[T]) Clear() {
	s.length = 0
	for s.chain.len() > 0 {
		s.release()
	}
}

// slot resolves an in-range logical position to its storage.
func (s *Sequence[T]) slot(pos int) *T {
	idx, off := s.pageOf(pos), s.offsetOf(pos)
	p := s.chain.at(idx)
	if p == nil || off >= p.len() {
		panic(errInvariant("position %d (page %d, slot %d) not backed by storage (len=%d pages=%d)", pos, idx, off, s.length, s.chain.len()))
	}
	return &p.items[off]
}

// reclaim keeps at most the page that would receive the next push. This
// leaves one empty spare page after popping a page dry and releases it once
// the length drops into the previous page.
func (s *Sequence[T]) reclaim() {
	keep := s.pageOf(s.length) + 1
	for s.chain.len() > keep {
		if s.chain.back().len() != 0 {
			panic(errInvariant("reclaiming non-empty page at len %d (pages=%d)", s.length, s.chain.len()))
		}
		s.release()
	}
}

func (s *Sequence[T]) grow() error {
	ctx := context.Background()
	if s.opts.acquirer != nil {
		if err := s.opts.acquirer.AcquireMemory(s.pageBytes); err != nil {
			err = &ErrPageBudget{PageBytes: s.pageBytes, cause: err}
			s.opts.metrics.RecordBudgetRejection()
			s.opts.logger.LogPageAlloc(ctx, s.chain.len(), s.length, err)
			return err
		}
	}

	s.chain.pushBack(newPage[T](s.pageSize))
	s.opts.metrics.RecordPageAlloc(s.pageSize)
	s.opts.logger.LogPageAlloc(ctx, s.chain.len(), s.length, nil)
	return nil
}

func (s *Sequence[T]) release() {
	p := s.chain.popBack()
	if p == nil {
		return
	}
	p.reset()

	if s.opts.acquirer != nil {
		s.opts.acquirer.ReleaseMemory(s.pageBytes)
	}
	s.opts.metrics.RecordPageRelease(s.pageSize)
	s.opts.logger.LogPageRelease(context.Background(), s.chain.len(), s.length)
}
