// Package testutil provides test doubles for the jar cache.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/meigma/jarcache"
)

// MockLoader is a scripted JarLoader for tests.
//
// Register content with Add before use; configuration fields must not
// be changed once the loader is shared between goroutines. Call counts
// are safe to read concurrently.
type MockLoader struct {
	// WriteErr, when set, fails every WriteJarTo call.
	WriteErr error

	// NotifyErr, when set, fails every NotifyJarPresence call.
	NotifyErr error

	// WriteHook, when set, runs inside WriteJarTo after the temp sink
	// has been handed over but before any content is written. Tests
	// use it to interleave a competing writer.
	WriteHook func()

	// BlockWrites, when non-nil, makes WriteJarTo wait until the
	// channel is closed or ctx is cancelled.
	BlockWrites chan struct{}

	content  map[jarcache.Checksum][]byte
	writes   atomic.Int64
	notifies atomic.Int64
}

// NewMockLoader returns an empty loader.
func NewMockLoader() *MockLoader {
	return &MockLoader{content: make(map[jarcache.Checksum][]byte)}
}

// Add registers content to be served for sum.
func (m *MockLoader) Add(sum jarcache.Checksum, content []byte) {
	m.content[sum] = content
}

// AddContent registers content under its own checksum and returns it.
func (m *MockLoader) AddContent(content []byte) (jarcache.Checksum, error) {
	sum, err := jarcache.ChecksumOf(bytes.NewReader(content))
	if err != nil {
		return jarcache.Checksum{}, err
	}
	m.content[sum] = content
	return sum, nil
}

func (m *MockLoader) WriteJarTo(ctx context.Context, sum jarcache.Checksum, w io.Writer) error {
	m.writes.Add(1)
	if m.WriteHook != nil {
		m.WriteHook()
	}
	if m.BlockWrites != nil {
		select {
		case <-m.BlockWrites:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	content, ok := m.content[sum]
	if !ok {
		return fmt.Errorf("no content registered for %s", sum)
	}
	_, err := w.Write(content)
	return err
}

func (m *MockLoader) NotifyJarPresence(ctx context.Context, sum jarcache.Checksum) error {
	m.notifies.Add(1)
	return m.NotifyErr
}

// Writes returns the number of WriteJarTo calls so far.
func (m *MockLoader) Writes() int64 {
	return m.writes.Load()
}

// Notifies returns the number of NotifyJarPresence calls so far.
func (m *MockLoader) Notifies() int64 {
	return m.notifies.Load()
}
