package jarcache

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// fileHasher computes file checksums with memoization and a bound on
// concurrent computations.
//
// When many peers connect at once they all want the checksums of the
// same handful of large jars. The memo answers repeat callers without
// touching the file again, singleflight collapses callers racing on
// the same path, and the weighted semaphore caps how many distinct
// files are hashed simultaneously.
type fileHasher struct {
	memo  sync.Map // canonical path -> Checksum
	group singleflight.Group
	sem   *semaphore.Weighted
}

func newFileHasher(concurrency int64) *fileHasher {
	return &fileHasher{sem: semaphore.NewWeighted(concurrency)}
}

// checksumOf returns the checksum of the file at path, computing and
// memoizing it on first use. Waiting for the concurrency slot respects
// ctx cancellation.
func (h *fileHasher) checksumOf(ctx context.Context, path string) (Checksum, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return Checksum{}, err
	}
	if sum, ok := h.memo.Load(canon); ok {
		return sum.(Checksum), nil
	}

	v, err, _ := h.group.Do(canon, func() (any, error) {
		// Re-check: another goroutine may have finished between our
		// memo miss and entering the flight.
		if sum, ok := h.memo.Load(canon); ok {
			return sum, nil
		}
		if err := h.sem.Acquire(ctx, 1); err != nil {
			return Checksum{}, err
		}
		defer h.sem.Release(1)

		sum, err := ChecksumOfFile(canon)
		if err != nil {
			return Checksum{}, err
		}
		h.memo.Store(canon, sum)
		return sum, nil
	})
	if err != nil {
		return Checksum{}, err
	}
	return v.(Checksum), nil
}

// forget drops the memo entry for path. Called whenever the cache
// deletes or replaces the backing file, so the memo never outlives the
// content it describes.
func (h *fileHasher) forget(path string) {
	if canon, err := canonicalPath(path); err == nil {
		h.memo.Delete(canon)
	}
}

// canonicalPath is the memo key for a file path. Lexical normalization
// is enough here: the cache only hashes paths it derived itself, and
// symlink resolution would fail for entries deleted out-of-band.
func canonicalPath(path string) (string, error) {
	return filepath.Abs(path)
}
