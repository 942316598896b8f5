package jarcache

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/zeebo/blake3"
)

// Checksum identifies jar content by a 128-bit BLAKE3 digest.
//
// Checksums are plain comparable values: equality compares both
// halves, and a Checksum can key maps directly.
type Checksum struct {
	Hi uint64
	Lo uint64
}

// String returns the canonical 32-digit uppercase hex form.
//
// This form is for diagnostics and logging only. Cache paths use a
// different hex split of the same bits (see jarPath) and must never be
// derived from String.
func (c Checksum) String() string {
	return fmt.Sprintf("%016X%016X", c.Hi, c.Lo)
}

// ParseChecksum parses the form produced by Checksum.String.
func ParseChecksum(s string) (Checksum, error) {
	if len(s) != 32 {
		return Checksum{}, fmt.Errorf("checksum %q: want 32 hex digits, got %d", s, len(s))
	}
	hi, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return Checksum{}, fmt.Errorf("checksum %q: %w", s, err)
	}
	lo, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return Checksum{}, fmt.Errorf("checksum %q: %w", s, err)
	}
	return Checksum{Hi: hi, Lo: lo}, nil
}

// ChecksumOf computes the checksum of everything readable from r.
//
// The digest is the first 16 bytes of the BLAKE3 extended output,
// interpreted big-endian.
func ChecksumOf(r io.Reader) (Checksum, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Checksum{}, err
	}
	var sum [16]byte
	if _, err := io.ReadFull(h.Digest(), sum[:]); err != nil {
		return Checksum{}, err
	}
	return Checksum{
		Hi: binary.BigEndian.Uint64(sum[:8]),
		Lo: binary.BigEndian.Uint64(sum[8:]),
	}, nil
}

// ChecksumOfFile computes the checksum of the file at path.
func ChecksumOfFile(path string) (Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Checksum{}, err
	}
	defer f.Close()

	sum, err := ChecksumOf(f)
	if err != nil {
		return Checksum{}, fmt.Errorf("checksum %s: %w", path, err)
	}
	return sum, nil
}
