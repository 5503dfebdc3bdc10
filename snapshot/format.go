package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/pagedseq/codec"
	"github.com/hupe1980/pagedseq/internal/hash"
)

const (
	// MagicNumber identifies snapshot blobs (ASCII: "PSQ1").
	MagicNumber = 0x50535131
	// Version is the current snapshot format version.
	Version = 1

	// HeaderSize is the encoded size of Header.
	HeaderSize = 40

	blockHeaderSize = 12

	// maxBlockSize bounds a single page payload. Larger size fields are
	// treated as corruption rather than allocated.
	maxBlockSize = 1 << 30
)

var (
	ErrInvalidMagic     = errors.New("invalid magic number")
	ErrInvalidVersion   = errors.New("unsupported version")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrUnknownCodec     = errors.New("unknown codec")
	ErrCorruptSnapshot  = errors.New("corrupt snapshot")
)

// Header is the fixed-size header at the start of every snapshot.
type Header struct {
	Magic       uint32
	Version     uint16
	Compression Compression
	PageSize    uint32
	PageCount   uint32
	Length      uint64
	Codec       string
}

// MarshalBinary encodes the header into HeaderSize bytes.
func (h *Header) MarshalBinary() ([]byte, error) {
	if len(h.Codec) > codec.MaxNameLen {
		return nil, fmt.Errorf("%w: name %q longer than %d bytes", ErrUnknownCodec, h.Codec, codec.MaxNameLen)
	}

	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	buf[6] = byte(h.Compression)
	// buf[7] reserved
	binary.LittleEndian.PutUint32(buf[8:], h.PageSize)
	binary.LittleEndian.PutUint32(buf[12:], h.PageCount)
	binary.LittleEndian.PutUint64(buf[16:], h.Length)
	copy(buf[24:], h.Codec)
	return buf, nil
}

// UnmarshalBinary decodes and validates the magic number and version.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes", ErrCorruptSnapshot, len(buf))
	}

	h.Magic = binary.LittleEndian.Uint32(buf[0:])
	if h.Magic != MagicNumber {
		return fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, h.Magic)
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:])
	if h.Version != Version {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = Compression(buf[6])
	h.PageSize = binary.LittleEndian.Uint32(buf[8:])
	h.PageCount = binary.LittleEndian.Uint32(buf[12:])
	h.Length = binary.LittleEndian.Uint64(buf[16:])
	h.Codec = string(bytes.TrimRight(buf[24:24+codec.MaxNameLen], "\x00"))
	return nil
}

// blockHeader precedes every page payload.
type blockHeader struct {
	UncompressedSize uint32
	CompressedSize   uint32 // 0 means stored raw
	Checksum         uint32
}

func (b blockHeader) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], b.UncompressedSize)
	binary.LittleEndian.PutUint32(buf[4:], b.CompressedSize)
	binary.LittleEndian.PutUint32(buf[8:], b.Checksum)
}

func readBlockHeader(buf []byte) blockHeader {
	return blockHeader{
		UncompressedSize: binary.LittleEndian.Uint32(buf[0:]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[4:]),
		Checksum:         binary.LittleEndian.Uint32(buf[8:]),
	}
}

// stored returns the number of payload bytes that follow the block header.
func (b blockHeader) stored() uint32 {
	if b.CompressedSize == 0 {
		return b.UncompressedSize
	}
	return b.CompressedSize
}

func checksum(data []byte) uint32 {
	return hash.CRC32C(data)
}
