// Package store provides delivery tracking for stackwatch.
//
// Poll windows overlap at cycle boundaries, so the same question can show
// up in consecutive batches. This package remembers which question ids
// have already been delivered and filters them out of later batches,
// bounding memory with oldest-first eviction.
//
// The main components are:
//
//   - [Store]: Interface defining the delivery-tracking operations
//   - [MemoryStore]: In-memory implementation of Store
//
// Users of the stackwatch library should not need to interact with this
// package directly. Deduplication is enabled through the main package's
// WithDeduplication option.
package store
