package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/pagedseq"
	"github.com/hupe1980/pagedseq/internal/conv"
	"github.com/hupe1980/pagedseq/resource"
	"golang.org/x/sync/errgroup"
)

// Encode writes a snapshot of seq to w.
//
// Pages are marshaled and compressed in parallel, then written in logical
// order. seq must not be modified until Encode returns.
func Encode[T any](ctx context.Context, w io.Writer, seq *pagedseq.Sequence[T], optFns ...Option) (err error) {
	o := applyOptions(optFns)
	if !o.compression.valid() {
		return fmt.Errorf("unsupported compression: %s", o.compression)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var pages [][]T
	for _, p := range seq.Pages() {
		pages = append(pages, p)
	}

	var written int64
	defer func() {
		o.logger.LogSnapshot(ctx, "encode", len(pages), seq.Len(), written, err)
	}()

	h, err := newHeader(seq, len(pages), o)
	if err != nil {
		return err
	}
	hdr, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	blocks, err := encodePages(ctx, pages, o)
	if err != nil {
		return err
	}

	rw := resource.NewRateLimitedWriter(ctx, w, o.controller)
	n, err := rw.Write(hdr)
	written += int64(n)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		n, err := rw.Write(block)
		written += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}

func newHeader[T any](seq *pagedseq.Sequence[T], pages int, o options) (*Header, error) {
	pageSize, err := conv.IntToUint32(seq.PageSize())
	if err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}
	pageCount, err := conv.IntToUint32(pages)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	length, err := conv.IntToUint64(seq.Len())
	if err != nil {
		return nil, fmt.Errorf("length: %w", err)
	}

	return &Header{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: o.compression,
		PageSize:    pageSize,
		PageCount:   pageCount,
		Length:      length,
		Codec:       o.codec.Name(),
	}, nil
}

func encodePages[T any](ctx context.Context, pages [][]T, o options) ([][]byte, error) {
	blocks := make([][]byte, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, items := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := o.controller.AcquireBackground(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseBackground()

			block, err := encodeBlock(items, o)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			blocks[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// encodeBlock returns the block header followed by the stored payload.
func encodeBlock[T any](items []T, o options) ([]byte, error) {
	payload, err := o.codec.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if len(payload) > maxBlockSize {
		return nil, fmt.Errorf("encoded page is %d bytes, limit %d", len(payload), maxBlockSize)
	}

	compressed, err := compress(payload, o.compression)
	if err != nil {
		return nil, err
	}

	bh := blockHeader{Checksum: checksum(payload)}
	if bh.UncompressedSize, err = conv.IntToUint32(len(payload)); err != nil {
		return nil, err
	}

	body := payload
	if compressed != nil {
		if bh.CompressedSize, err = conv.IntToUint32(len(compressed)); err != nil {
			return nil, err
		}
		body = compressed
	}

	block := make([]byte, blockHeaderSize+len(body))
	bh.put(block)
	copy(block[blockHeaderSize:], body)
	return block, nil
}
