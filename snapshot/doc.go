// Package snapshot serializes a pagedseq.Sequence into a self-describing
// binary blob and restores it.
//
// # Format
//
// A snapshot is a 40-byte little-endian header followed by one block per
// occupied page, in logical order:
//
//	Header:
//	  magic       uint32  "PSQ1"
//	  version     uint16
//	  compression uint8   0=none, 1=lz4, 2=zstd
//	  reserved    uint8
//	  pageSize    uint32
//	  pageCount   uint32
//	  length      uint64
//	  codec       [16]byte (zero padded)
//
//	Block:
//	  uncompressed uint32
//	  compressed   uint32  0 means the payload is stored raw
//	  crc32c       uint32  Castagnoli, over the uncompressed payload
//	  payload      []byte  codec encoding of the page's elements
//
// Every page but the last is full. The spare page a sequence may keep for
// its next push is not recorded.
//
// # Usage
//
//	err := snapshot.Save(ctx, store, "events.psq", seq,
//	    snapshot.WithCompression(snapshot.CompressionZSTD),
//	)
//
//	restored, err := snapshot.Load[Event](ctx, store, "events.psq")
//
// Pages are encoded concurrently. When a resource.Controller is configured,
// encoders take its background slots and all IO passes its rate limiter.
package snapshot
