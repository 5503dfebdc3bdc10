// Package mmap provides read-only memory-mapped file access.
//
// blobstore.LocalStore uses it to read snapshot files without copying them
// through a read buffer:
//
//	m, err := mmap.Open("seq.psq")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2) with a sequential-access hint; Windows uses
// CreateFileMapping/MapViewOfFile; other platforms fall back to reading the
// whole file into memory.
//
// Bytes must not be used after Close.
package mmap
