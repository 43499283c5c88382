// Package cache provides a byte-bounded LRU for raw image batches.
//
// Reading one frame means reading the whole batch blob that holds it, and a
// z-stack usually lands in one or two batches. Keeping the last few batches
// in memory turns the per-slice rereads into map lookups. Capacity is
// counted in bytes of cached values; a value larger than the capacity is
// never cached.
package cache
