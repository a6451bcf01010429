// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/siderolabs/gen/optional"
	"go.uber.org/zap"
)

// Options defines settings for BufferQueue.
type Options struct {
	Compressor Compressor

	Logger *zap.Logger

	Delimiter optional.Optional[[]byte]

	// InitialCapacity is the number of chunk slots allocated up front.
	InitialCapacity int

	// MaxBytes limits the number of buffered bytes, zero means unbounded.
	MaxBytes int
}

// Compressor implements an optional interface for queue snapshots.
//
// Compress and Decompress append to the dest slice and return the result.
//
// Compressor should be safe for concurrent use by multiple goroutines.
type Compressor interface {
	// Compress compresses the concatenation of chunks, size is the total number of bytes in chunks.
	Compress(chunks iter.Seq[[]byte], size int64, dest []byte) ([]byte, error)
	Decompress(src, dest []byte) ([]byte, error)
	DecompressedSize(src []byte) (int64, error)
}

// defaultOptions returns default initial values.
func defaultOptions() Options {
	return Options{
		InitialCapacity: 8,
		Logger:          zap.NewNop(),
	}
}

// OptionFunc allows setting BufferQueue options.
type OptionFunc func(*Options) error

// WithInitialCapacity sets initial number of chunk slots.
//
// The store doubles its capacity each time it fills up.
func WithInitialCapacity(capacity int) OptionFunc {
	return func(opt *Options) error {
		if capacity <= 0 {
			return fmt.Errorf("initial capacity should be positive: %d", capacity)
		}

		opt.InitialCapacity = capacity

		return nil
	}
}

// WithMaxBytes bounds the number of buffered bytes.
//
// Pushes which would exceed the bound fail with ErrOverflow. Zero disables the bound.
func WithMaxBytes(n int) OptionFunc {
	return func(opt *Options) error {
		if n < 0 {
			return fmt.Errorf("max bytes should be non-negative: %d", n)
		}

		opt.MaxBytes = n

		return nil
	}
}

// WithDelimiter sets the delimiter used by line operations.
//
// An empty delimiter is the same as no delimiter.
func WithDelimiter(delim []byte) OptionFunc {
	return func(opt *Options) error {
		opt.Delimiter = delimiterOf(delim)

		return nil
	}
}

// WithCompressor enables Snapshot and Restore.
func WithCompressor(c Compressor) OptionFunc {
	return func(opt *Options) error {
		if c == nil {
			return fmt.Errorf("compressor should not be nil")
		}

		opt.Compressor = c

		return nil
	}
}

// WithLogger sets logger for BufferQueue.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(opt *Options) error {
		opt.Logger = logger

		return nil
	}
}

func delimiterOf(delim []byte) optional.Optional[[]byte] {
	if len(delim) == 0 {
		return optional.None[[]byte]()
	}

	return optional.Some(bytes.Clone(delim))
}
