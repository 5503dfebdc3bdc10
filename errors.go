package pagedseq

import (
	"errors"
	"fmt"
)

// ErrInvalidPageSize indicates a non-positive page size passed to New.
type ErrInvalidPageSize struct {
	PageSize int
}

func (e *ErrInvalidPageSize) Error() string {
	return fmt.Sprintf("invalid page size: %d (must be positive)", e.PageSize)
}

// ErrPageBudget indicates that the configured MemoryAcquirer refused the
// memory for a new page.
//
// The acquirer's error (typically resource.ErrMemoryLimitExceeded) can be
// accessed via errors.Unwrap.
type ErrPageBudget struct {
	PageBytes int64
	cause     error
}

func (e *ErrPageBudget) Error() string {
	return fmt.Sprintf("page allocation of %d bytes rejected: %v", e.PageBytes, e.cause)
}

func (e *ErrPageBudget) Unwrap() error { return e.cause }

// errInvariant builds the panic value for an internal accounting bug.
// Such a state is never reported to callers as a regular error.
func errInvariant(format string, args ...any) error {
	return fmt.Errorf("pagedseq: invariant violated: "+format, args...)
}

// IsPageBudget reports whether err was caused by a rejected page allocation.
func IsPageBudget(err error) bool {
	var e *ErrPageBudget
	return errors.As(err, &e)
}
