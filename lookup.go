package jarcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Lookup checks whether the jar identified by sum is already cached.
//
// A miss returns ("", false, nil). On a hit the jar's path is
// returned. When touch is enabled the file's modification time is
// refreshed best-effort so an external reaper can evict by LRU. The
// first hit per checksum on this instance announces the presence to
// the peer via loader.NotifyJarPresence; a notification failure is
// returned to the caller.
//
// The hit path does not verify content: integrity is enforced when
// content is written (see Retrieve) and trusted between writes.
func (c *Cache) Lookup(ctx context.Context, loader JarLoader, sum Checksum) (string, bool, error) {
	target := c.jarPath(sum)
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.misses.Add(1)
			return "", false, nil
		}
		return "", false, fmt.Errorf("stat %s: %w", target, err)
	}
	c.hits.Add(1)
	c.log().Debug("jar cache hit", "checksum", sum.String())

	if c.touch {
		now := time.Now()
		if err := os.Chtimes(target, now, now); err != nil {
			// Advisory only; external eviction just sees a staler time.
			c.log().Debug("touch failed", "path", target, "error", err)
		}
	}

	if _, seen := c.notified.LoadOrStore(sum, struct{}{}); !seen {
		if err := loader.NotifyJarPresence(ctx, sum); err != nil {
			return "", false, fmt.Errorf("notify presence of %s: %w", sum, err)
		}
	}
	return target, true, nil
}
