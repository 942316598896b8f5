package jarcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Retrieve fetches the jar identified by sum from the peer and
// publishes it into the cache, returning the cached path.
//
// Publication is write-to-temp plus atomic rename inside the target's
// own shard directory, so concurrent writers — including independent
// processes sharing the root — never leave a partial jar at a
// canonical path. A valid file published by a competing writer is
// accepted after verification; content that does not hash to sum is
// never served, and such failures match ErrChecksumMismatch. The
// temporary file is removed on every exit path.
func (c *Cache) Retrieve(ctx context.Context, loader JarLoader, sum Checksum) (string, error) {
	if c.retrieveGroup != nil {
		v, err, _ := c.retrieveGroup.Do(sum.String(), func() (any, error) {
			return c.retrieve(ctx, loader, sum)
		})
		if err != nil {
			return "", err
		}
		return v.(string), nil
	}
	return c.retrieve(ctx, loader, sum)
}

func (c *Cache) retrieve(ctx context.Context, loader JarLoader, sum Checksum) (string, error) {
	c.retrievals.Add(1)
	target := c.jarPath(sum)

	// Another writer sharing the root may have published the target
	// already: reuse it when valid, clear it when stale.
	if _, err := os.Stat(target); err == nil {
		actual, err := c.hasher.checksumOf(ctx, target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Deleted out-of-band (an external reaper, say) between the
			// stat and the hash. Treat as an ordinary miss.
		case err != nil:
			return "", err
		case actual == sum:
			c.log().Debug("jar already cached", "checksum", sum.String())
			return target, nil
		default:
			c.mismatches.Add(1)
			c.log().Warn("cached jar checksum mismatch",
				"path", target, "expected", sum.String(), "actual", actual.String())
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("remove stale %s: %w", target, err)
			}
			c.hasher.forget(target)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", target, err)
	}

	tmpPath, err := c.download(ctx, loader, sum, target)
	if err != nil {
		return "", fmt.Errorf("write to %s: %w", target, err)
	}
	defer os.Remove(tmpPath) // the temp must never outlive this call

	actual, err := ChecksumOfFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("write to %s: %w", target, err)
	}
	if actual != sum {
		c.mismatches.Add(1)
		return "", &MismatchError{Path: tmpPath, Expected: sum, Actual: actual}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		if _, statErr := os.Stat(target); statErr != nil {
			return "", fmt.Errorf("publish %s: %w", target, err)
		}
		// A competing writer won the rename race. That is fine as long
		// as what it published is actually the requested content.
		actual, cerr := c.hasher.checksumOf(ctx, target)
		if cerr != nil {
			return "", cerr
		}
		if actual != sum {
			c.mismatches.Add(1)
			return "", &MismatchError{Path: target, Expected: sum, Actual: actual}
		}
	}
	return target, nil
}

// download streams the jar into a fresh temp file in the target's
// shard directory and returns the temp path. Same-directory placement
// keeps the later rename on a single filesystem, which is what makes
// it atomic. On error the temp file has already been removed.
func (c *Cache) download(ctx context.Context, loader JarLoader, sum Checksum, target string) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	c.log().Debug("retrieving jar", "checksum", sum.String())
	streamErr := loader.WriteJarTo(ctx, sum, tmp)
	if closeErr := tmp.Close(); streamErr == nil {
		streamErr = closeErr
	}
	if streamErr != nil {
		_ = os.Remove(tmpPath)
		return "", streamErr
	}
	return tmpPath, nil
}
