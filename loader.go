package jarcache

import (
	"context"
	"io"
)

// JarLoader is the peer-side collaborator that streams jar content and
// receives presence notifications. Implementations live on the
// remoting channel, outside this package.
type JarLoader interface {
	// WriteJarTo streams the full content identified by sum into w.
	// It must honor cancellation of ctx. The cache closes any sink it
	// passes here after the call returns, regardless of outcome.
	WriteJarTo(ctx context.Context, sum Checksum, w io.Writer) error

	// NotifyJarPresence tells the peer that this side already holds
	// the jar identified by sum.
	NotifyJarPresence(ctx context.Context, sum Checksum) error
}
