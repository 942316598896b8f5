package jarcache

import (
	"fmt"
	"path/filepath"
)

// jarPath returns the canonical cache path for sum under the root.
//
// The top 8 bits of the high half name a 2-hex-digit shard directory;
// the remaining 120 bits form the file name. The 256-way fan-out keeps
// individual directories small on filesystems that degrade with large
// flat listings, and the encoding reconstructs all 128 bits, so
// distinct checksums never share a path. The layout is shared with
// other readers of the cache directory and must not change.
func (c *Cache) jarPath(sum Checksum) string {
	return filepath.Join(c.rootDir,
		fmt.Sprintf("%02X", sum.Hi>>56),
		fmt.Sprintf("%014X%016X.jar", sum.Hi&0x00FF_FFFF_FFFF_FFFF, sum.Lo))
}
