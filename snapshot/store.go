package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/pagedseq"
	"github.com/hupe1980/pagedseq/blobstore"
)

// Save encodes seq and stores it under name.
func Save[T any](ctx context.Context, store blobstore.Store, name string, seq *pagedseq.Sequence[T], optFns ...Option) error {
	var buf bytes.Buffer
	if err := Encode(ctx, &buf, seq, optFns...); err != nil {
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("put snapshot %q: %w", name, err)
	}
	return nil
}

// Load fetches the snapshot stored under name and decodes it.
// A missing snapshot is reported as blobstore.ErrNotFound.
func Load[T any](ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*pagedseq.Sequence[T], error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", name, err)
	}
	seq, err := Decode[T](ctx, bytes.NewReader(data), optFns...)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return seq, nil
}
