// Package hash provides the checksum used to verify snapshot page blocks.
//
// All checksums use CRC32-Castagnoli (CRC32C), which Go computes with
// hardware instructions on x86 (SSE4.2) and ARM (CRC extension). It only
// detects accidental corruption and is not a cryptographic digest.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(payload)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	sum := h.Sum32()
package hash
