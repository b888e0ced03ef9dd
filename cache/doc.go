// Package cache provides a small in-memory TTL cache and a single-flight
// loader used for bounded-staleness principal snapshots.
//
// Entries expire after a fixed TTL and are cleaned up lazily on read. The
// Loader deduplicates concurrent misses for the same key so a burst of
// requests for one subject costs a single store lookup per TTL window.
package cache
