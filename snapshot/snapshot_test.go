package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"testing"

	"github.com/hupe1980/pagedseq"
	"github.com/hupe1980/pagedseq/blobstore"
	"github.com/hupe1980/pagedseq/codec"
	"github.com/hupe1980/pagedseq/resource"
	"github.com/hupe1980/pagedseq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSeq[T any](t *testing.T, pageSize int, items []T) *pagedseq.Sequence[T] {
	t.Helper()
	seq := pagedseq.MustNew[T](pageSize)
	for _, v := range items {
		seq.Push(v)
	}
	return seq
}

func encode[T any](t *testing.T, seq *pagedseq.Sequence[T], opts ...Option) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(t.Context(), &buf, seq, opts...))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(1)
	records := rng.Records(100)

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			for _, n := range []int{0, 1, 16, 49, 100} {
				name := fmt.Sprintf("%s/%s/%d", comp, c.Name(), n)
				t.Run(name, func(t *testing.T) {
					seq := buildSeq(t, 16, records[:n])
					data := encode(t, seq, WithCompression(comp), WithCodec(c))

					got, err := Decode[testutil.Record](t.Context(), bytes.NewReader(data))
					require.NoError(t, err)
					assert.Equal(t, 16, got.PageSize())
					assert.Equal(t, n, got.Len())
					assert.Equal(t, slices.Collect(seq.Values()), slices.Collect(got.Values()))
				})
			}
		}
	}
}

func TestRoundTrip_PreservesSwapRemoveOrder(t *testing.T) {
	seq := buildSeq(t, 3, []string{"a", "b", "c", "d", "e"})
	seq.Remove(0)

	got, err := Decode[string](t.Context(), bytes.NewReader(encode(t, seq)))
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "b", "c", "d"}, slices.Collect(got.Values()))
}

func TestHeader(t *testing.T) {
	seq := buildSeq(t, 4, []int{1, 2, 3, 4, 5, 6, 7, 8})
	seq.Pop()
	seq.Pop()
	seq.Pop()
	seq.Pop()
	require.Equal(t, 1, seq.Stats().SparePages)

	data := encode(t, seq, WithCompression(CompressionZSTD), WithCodec(codec.JSON{}))
	require.GreaterOrEqual(t, len(data), HeaderSize)
	assert.Equal(t, uint32(MagicNumber), binary.LittleEndian.Uint32(data))

	var h Header
	require.NoError(t, h.UnmarshalBinary(data[:HeaderSize]))
	assert.Equal(t, Header{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: CompressionZSTD,
		PageSize:    4,
		PageCount:   1, // the spare page is not recorded
		Length:      4,
		Codec:       "json",
	}, h)

	t.Run("codec name too long", func(t *testing.T) {
		h := Header{Codec: "a-very-long-codec-name"}
		_, err := h.MarshalBinary()
		assert.ErrorIs(t, err, ErrUnknownCodec)
	})
}

func TestDecode_Corruption(t *testing.T) {
	seq := buildSeq(t, 4, []int{10, 20, 30, 40, 50, 60, 70, 80, 90})
	valid := encode(t, seq, WithCodec(codec.JSON{}))

	mutate := func(fn func(b []byte) []byte) []byte {
		return fn(slices.Clone(valid))
	}

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{
			name: "empty",
			data: nil,
			err:  ErrCorruptSnapshot,
		},
		{
			name: "bad magic",
			data: mutate(func(b []byte) []byte { b[0] ^= 0xFF; return b }),
			err:  ErrInvalidMagic,
		},
		{
			name: "bad version",
			data: mutate(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 99); return b }),
			err:  ErrInvalidVersion,
		},
		{
			name: "unknown compression",
			data: mutate(func(b []byte) []byte { b[6] = 9; return b }),
			err:  ErrCorruptSnapshot,
		},
		{
			name: "unknown codec",
			data: mutate(func(b []byte) []byte { copy(b[24:40], "msgpack\x00"); return b }),
			err:  ErrUnknownCodec,
		},
		{
			name: "zero page size",
			data: mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 0); return b }),
			err:  ErrCorruptSnapshot,
		},
		{
			name: "page count mismatch",
			data: mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[12:], 2); return b }),
			err:  ErrCorruptSnapshot,
		},
		{
			// 7 elements of page size 3 still span 3 pages, but page 0
			// holds 4 elements.
			name: "short middle page",
			data: mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 3); binary.LittleEndian.PutUint64(b[16:], 7); return b }),
			err:  ErrCorruptSnapshot,
		},
		{
			name: "truncated block",
			data: valid[:len(valid)-3],
			err:  ErrCorruptSnapshot,
		},
		{
			name: "flipped payload byte",
			data: mutate(func(b []byte) []byte { b[HeaderSize+blockHeaderSize+1] ^= 0x01; return b }),
			err:  ErrChecksumMismatch,
		},
		{
			name: "oversized block",
			data: mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[HeaderSize:], 1<<31); return b }),
			err:  ErrCorruptSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Decode[int](t.Context(), bytes.NewReader(tt.data))
			assert.Nil(t, seq)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecode_MemoryBudget(t *testing.T) {
	seq := buildSeq(t, 4, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	data := encode(t, seq)

	// Three int64 pages of 4 are needed; the budget fits two.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	got, err := Decode[int64](t.Context(), bytes.NewReader(data),
		WithSequenceOptions(pagedseq.WithMemoryAcquirer(rc)),
	)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, pagedseq.IsPageBudget(err))
	assert.Equal(t, int64(0), rc.MemoryUsage(), "partial sequence returns its budget")

	rc = resource.NewController(resource.Config{MemoryLimitBytes: 96})
	got, err = Decode[int64](t.Context(), bytes.NewReader(data),
		WithSequenceOptions(pagedseq.WithMemoryAcquirer(rc)),
	)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Len())
	assert.Equal(t, int64(96), rc.MemoryUsage())
}

func TestController(t *testing.T) {
	rc := resource.NewController(resource.Config{
		MaxBackgroundWorkers: 2,
		IOLimitBytesPerSec:   1 << 20,
	})

	seq := buildSeq(t, 8, testutil.NewRNG(3).Ints(200, 1000))
	data := encode(t, seq,
		WithController(rc),
		WithConcurrency(4),
		WithCompression(CompressionLZ4),
	)

	got, err := Decode[int](t.Context(), bytes.NewReader(data), WithController(rc))
	require.NoError(t, err)
	assert.Equal(t, slices.Collect(seq.Values()), slices.Collect(got.Values()))

	// All background slots were returned.
	assert.True(t, rc.TryAcquireBackground())
	assert.True(t, rc.TryAcquireBackground())
	assert.False(t, rc.TryAcquireBackground())
}

func TestCanceledContext(t *testing.T) {
	seq := buildSeq(t, 2, []int{1, 2, 3})
	data := encode(t, seq)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(ctx, &buf, seq), context.Canceled)
	assert.Zero(t, buf.Len())

	_, err := Decode[int](ctx, bytes.NewReader(data))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnsupportedCompression(t *testing.T) {
	seq := buildSeq(t, 2, []int{1})
	var buf bytes.Buffer
	assert.Error(t, Encode(t.Context(), &buf, seq, WithCompression(Compression(7))))
}

type upperJSON struct{}

func (upperJSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (upperJSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (upperJSON) Name() string                       { return "upper-json" }

func TestCustomCodec(t *testing.T) {
	seq := buildSeq(t, 2, []string{"x", "y", "z"})
	data := encode(t, seq, WithCodec(upperJSON{}))

	_, err := Decode[string](t.Context(), bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnknownCodec)

	got, err := Decode[string](t.Context(), bytes.NewReader(data), WithCodec(upperJSON{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, slices.Collect(got.Values()))
}

func TestSaveLoad(t *testing.T) {
	store := blobstore.NewMemoryStore()
	seq := buildSeq(t, 5, testutil.NewRNG(9).Words(23, 4))

	require.NoError(t, Save(t.Context(), store, "words.psq", seq, WithCompression(CompressionZSTD)))

	got, err := Load[string](t.Context(), store, "words.psq")
	require.NoError(t, err)
	assert.Equal(t, slices.Collect(seq.Values()), slices.Collect(got.Values()))

	_, err = Load[string](t.Context(), store, "missing.psq")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(t.Context(), "garbage.psq", []byte("not a snapshot")))
	_, err = Load[string](t.Context(), store, "garbage.psq")
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := pagedseq.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	seq := buildSeq(t, 2, []int{1, 2, 3})
	data := encode(t, seq, WithLogger(logger))
	_, err := Decode[int](t.Context(), bytes.NewReader(data[:10]), WithLogger(logger))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"snapshot complete"`)
	assert.Contains(t, out, `"op":"encode"`)
	assert.Contains(t, out, `"msg":"snapshot failed"`)
	assert.Contains(t, out, `"op":"decode"`)
}
