// Package pagedseq provides an unrolled linked list: a sequential container
// that stores elements in fixed-capacity pages chained together.
//
// Appending and popping at the tail are amortized O(1) and never move
// existing elements, because the container grows by adding pages rather than
// reallocating one large array. Removal at an arbitrary position is bounded by
// a single page: the last element is swapped into the vacated slot.
//
// # Quick Start
//
//	seq, err := pagedseq.New[string](512)
//	if err != nil {
//	    return err
//	}
//
//	seq.Push("a")
//	seq.Push("b")
//	seq.Push("c")
//
//	v, ok := seq.Get(1)    // "b", true
//	v, ok = seq.Remove(0)  // "a", true; "c" now lives at position 0
//	v, ok = seq.Pop()      // "b", true
//
//	for pos, v := range seq.All() {
//	    fmt.Println(pos, v)
//	}
//
// # Addressing
//
// Logical position pos lives on page pos/pageSize at slot pos%pageSize.
// Every page except the last is always full.
//
// # Page Reclamation
//
// After a pop the chain keeps the page that would receive the next push,
// even if it is empty. Popping a page dry therefore leaves one empty spare
// page; it is released as soon as the length drops into the previous page,
// or explicitly with Trim. This avoids allocate/free churn when the length
// oscillates around a page boundary.
//
// # Memory Budget
//
// WithMemoryAcquirer charges each page (pageSize * sizeof(T) bytes) against a
// budget such as *resource.Controller. Push panics if the budget refuses a
// page; TryPush returns *ErrPageBudget instead.
//
// # Thread Safety
//
// A Sequence is not safe for concurrent use. Wrap it in a sync.Mutex or
// sync.RWMutex if several goroutines need access.
//
// # Persistence
//
// The snapshot package encodes a Sequence page by page (optionally LZ4 or
// ZSTD compressed) and can store it in any blobstore.Store.
package pagedseq
