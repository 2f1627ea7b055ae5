// Package region provides page providers: growable, contiguous byte regions
// that a heap carves blocks from.
//
// # Overview
//
// A Provider behaves like a process break. Extend(n) appends n bytes to the
// region and returns the offset where they start; the allocator writes block
// headers directly into Bytes(). Offsets are stable for the lifetime of the
// region, so the allocator never stores raw addresses.
//
// # Implementations
//
// Slice: Go-heap backed region with an optional byte limit
//
//   - Portable, zero setup
//   - Bytes() may move when the region grows; re-fetch views after Extend
//
// Mmap: anonymous reserved mapping (linux, darwin)
//
//   - Reserves the full capacity of address space up front with PROT_NONE
//   - Commits pages with mprotect as the break advances
//   - The base address never moves
//
// File: shared mapping of a file (linux, darwin)
//
//   - The file length is the break, so a heap can be reopened
//   - Pair with region/dirty to flush header writes
//
// # Thread Safety
//
// Providers are not thread-safe. The heap that owns a provider serializes
// all access to it.
package region
