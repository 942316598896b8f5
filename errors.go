package jarcache

import (
	"errors"
	"fmt"
)

// ErrChecksumMismatch is matched (via errors.Is) by every error
// reporting content whose hash disagrees with the checksum it was
// requested or stored under. The concrete type is *MismatchError.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// MismatchError reports a file whose content hashed to a different
// checksum than expected.
type MismatchError struct {
	Path     string
	Expected Checksum
	Actual   Checksum
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch: expected %s, actual %s", e.Path, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrChecksumMismatch
}
