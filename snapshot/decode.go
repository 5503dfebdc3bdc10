package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/pagedseq"
	"github.com/hupe1980/pagedseq/codec"
	"github.com/hupe1980/pagedseq/internal/hash"
	"github.com/hupe1980/pagedseq/internal/conv"
	"github.com/hupe1980/pagedseq/resource"
)

// Decode reads a snapshot from r and rebuilds the sequence with the
// snapshot's page size.
//
// Elements are pushed in logical order, so a memory budget passed through
// WithSequenceOptions is charged page by page. On any error the partially
// built sequence is cleared and its budget returned.
func Decode[T any](ctx context.Context, r io.Reader, optFns ...Option) (seq *pagedseq.Sequence[T], err error) {
	o := applyOptions(optFns)
	rr := resource.NewRateLimitedReader(ctx, r, o.controller)

	var read int64
	pages := 0
	defer func() {
		if err != nil && seq != nil {
			seq.Clear()
			seq = nil
		}
		length := 0
		if seq != nil {
			length = seq.Len()
		}
		o.logger.LogSnapshot(ctx, "decode", pages, length, read, err)
	}()

	buf := make([]byte, HeaderSize)
	if err := readFull(rr, buf, "header"); err != nil {
		return nil, err
	}
	read += HeaderSize

	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	if !h.Compression.valid() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptSnapshot, h.Compression)
	}

	c, err := o.codecFor(h.Codec)
	if err != nil {
		return nil, err
	}

	pageSize, length, pageCount, err := layout(&h)
	if err != nil {
		return nil, err
	}

	seq, err = pagedseq.New[T](pageSize, o.seqOpts...)
	if err != nil {
		return nil, err
	}

	hb := make([]byte, blockHeaderSize)
	remaining := length
	for i := range pageCount {
		if err := ctx.Err(); err != nil {
			return seq, err
		}

		items, n, err := readPage[T](rr, hb, c, h.Compression)
		read += n
		if err != nil {
			return seq, fmt.Errorf("page %d: %w", i, err)
		}

		// Every page but the last is full.
		want := min(pageSize, remaining)
		if len(items) != want {
			return seq, fmt.Errorf("%w: page %d holds %d elements, want %d", ErrCorruptSnapshot, i, len(items), want)
		}

		for _, v := range items {
			if err := seq.TryPush(v); err != nil {
				return seq, err
			}
		}
		remaining -= want
		pages++
	}

	return seq, nil
}

// layout validates the header's shape and converts it to native ints.
func layout(h *Header) (pageSize, length, pageCount int, err error) {
	if h.PageSize == 0 {
		return 0, 0, 0, fmt.Errorf("%w: zero page size", ErrCorruptSnapshot)
	}
	if pageSize, err = conv.Uint32ToInt(h.PageSize); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: page size: %v", ErrCorruptSnapshot, err)
	}
	if length, err = conv.Uint64ToInt(h.Length); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: length: %v", ErrCorruptSnapshot, err)
	}
	if pageCount, err = conv.Uint32ToInt(h.PageCount); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: page count: %v", ErrCorruptSnapshot, err)
	}

	if want := (length + pageSize - 1) / pageSize; pageCount != want {
		return 0, 0, 0, fmt.Errorf("%w: %d pages for %d elements of page size %d, want %d",
			ErrCorruptSnapshot, pageCount, length, pageSize, want)
	}
	return pageSize, length, pageCount, nil
}

// readPage reads one block and returns its elements and the bytes consumed.
func readPage[T any](r io.Reader, hb []byte, c codec.Codec, comp Compression) ([]T, int64, error) {
	if err := readFull(r, hb, "block header"); err != nil {
		return nil, 0, err
	}
	bh := readBlockHeader(hb)
	if bh.UncompressedSize > maxBlockSize || bh.CompressedSize > maxBlockSize {
		return nil, blockHeaderSize, fmt.Errorf("%w: block of %d bytes exceeds limit", ErrCorruptSnapshot, bh.stored())
	}

	stored := make([]byte, bh.stored())
	if err := readFull(r, stored, "block payload"); err != nil {
		return nil, blockHeaderSize, err
	}
	n := int64(blockHeaderSize + len(stored))

	payload := stored
	if bh.CompressedSize != 0 {
		if comp == CompressionNone {
			return nil, n, fmt.Errorf("%w: compressed block in uncompressed snapshot", ErrCorruptSnapshot)
		}
		var err error
		if payload, err = decompress(stored, bh.UncompressedSize, comp); err != nil {
			return nil, n, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	}

	if err := hash.Verify(payload, bh.Checksum); err != nil {
		return nil, n, fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}

	var items []T
	if err := c.Unmarshal(payload, &items); err != nil {
		return nil, n, fmt.Errorf("%w: unmarshal: %v", ErrCorruptSnapshot, err)
	}
	return items, n, nil
}

func (o options) codecFor(name string) (codec.Codec, error) {
	if o.codec != nil && o.codec.Name() == name {
		return o.codec, nil
	}
	if c, ok := codec.ByName(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// readFull reports a short read as corruption; other errors (such as a
// canceled rate limiter wait) pass through unchanged.
func readFull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated %s", ErrCorruptSnapshot, what)
		}
		return err
	}
	return nil
}
