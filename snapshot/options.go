package snapshot

import (
	"runtime"

	"github.com/hupe1980/pagedseq"
	"github.com/hupe1980/pagedseq/codec"
	"github.com/hupe1980/pagedseq/resource"
)

type options struct {
	codec       codec.Codec
	compression Compression
	controller  *resource.Controller
	concurrency int
	logger      *pagedseq.Logger
	seqOpts     []pagedseq.Option
}

func defaultOptions() options {
	return options{
		codec:       codec.Default,
		compression: CompressionNone,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      pagedseq.NoopLogger(),
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Option configures Encode, Decode, Save and Load.
type Option func(*options)

// WithCodec sets the element codec used by Encode.
//
// Decode always uses the codec named in the snapshot header. A codec set
// here is consulted first, so custom codecs can be decoded as well.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the page block compression used by Encode.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithController routes snapshot work through a resource controller.
// Page encoders take background slots and all IO is rate limited.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithConcurrency bounds the number of pages encoded in parallel.
// Values below 1 select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}

// WithLogger sets the logger for snapshot completion events.
func WithLogger(l *pagedseq.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = pagedseq.NoopLogger()
		}
		o.logger = l
	}
}

// WithSequenceOptions passes options to the Sequence built by Decode.
// The page size always comes from the snapshot.
func WithSequenceOptions(opts ...pagedseq.Option) Option {
	return func(o *options) {
		o.seqOpts = append(o.seqOpts, opts...)
	}
}
