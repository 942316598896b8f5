// Package jarcache provides a content-addressed, on-disk cache for jar
// files keyed by a 128-bit checksum.
//
// Jars are stored under a sharded layout derived from the checksum, so
// the directory can be shared bit-exactly with other readers:
//
//	<rootDir>/<HH>/<H56><L64>.jar
//
// The cache is safe for concurrent use within a process, and multiple
// processes may share the same root directory without coordination:
// publication is write-to-temp plus atomic same-directory rename, and
// a conflicting writer's file is verified before being accepted, so a
// reader never observes partial or corrupt content at a canonical
// path. Content found to mismatch its checksum is deleted and fetched
// again rather than served.
//
// Checksum computation over cached files is memoized per path and
// throttled by a bounded semaphore (width 1 by default), which keeps a
// burst of connecting peers from hashing the same large jars in
// parallel.
package jarcache
