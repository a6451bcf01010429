// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package receiver

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options defines settings for Receiver.
type Options struct {
	Logger *zap.Logger

	// Limiter throttles ingestion, one token per byte read.
	Limiter *rate.Limiter

	Delimiter []byte

	ReadSize    int
	MaxBuffered int
}

// defaultOptions returns default initial values.
func defaultOptions() Options {
	return Options{
		Delimiter: []byte("\r\n"),
		ReadSize:  4096,
		Logger:    zap.NewNop(),
	}
}

// OptionFunc allows setting Receiver options.
type OptionFunc func(*Options) error

// WithReadSize sets the size of a single read from the source.
func WithReadSize(size int) OptionFunc {
	return func(opt *Options) error {
		if size <= 0 {
			return fmt.Errorf("read size should be positive: %d", size)
		}

		opt.ReadSize = size

		return nil
	}
}

// WithDelimiter sets the line delimiter, default is "\r\n".
func WithDelimiter(delim []byte) OptionFunc {
	return func(opt *Options) error {
		if len(delim) == 0 {
			return fmt.Errorf("delimiter should not be empty")
		}

		opt.Delimiter = delim

		return nil
	}
}

// WithMaxBuffered bounds the number of bytes buffered but not yet consumed.
//
// Reads which would exceed the bound fail with qbuf.ErrOverflow.
func WithMaxBuffered(n int) OptionFunc {
	return func(opt *Options) error {
		if n < 0 {
			return fmt.Errorf("max buffered should be non-negative: %d", n)
		}

		opt.MaxBuffered = n

		return nil
	}
}

// WithRateLimiter throttles reads from the source to the limiter's rate in bytes per second.
func WithRateLimiter(limiter *rate.Limiter) OptionFunc {
	return func(opt *Options) error {
		opt.Limiter = limiter

		return nil
	}
}

// WithLogger sets logger for Receiver.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(opt *Options) error {
		opt.Logger = logger

		return nil
	}
}
