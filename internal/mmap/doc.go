// Package mmap maps snapshot files read-only for the local blob store.
//
// A snapshot is decoded in one front-to-back pass, so Open hints sequential
// access where the platform supports it. Bytes aliases the mapping and must
// not be used after Close; ReadAt and Copy copy out and fail with ErrClosed
// once the mapping is gone.
package mmap
