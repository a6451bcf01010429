// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import "errors"

var (
	// ErrUnderflow is returned when more bytes are requested than currently buffered.
	//
	// The condition is recoverable: push more data and retry.
	ErrUnderflow = errors.New("buffer underflow")

	// ErrOverflow is returned when a push would exceed the configured MaxBytes.
	ErrOverflow = errors.New("buffer overflow")

	// ErrInvalidArgument is returned for negative lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidDelimiter is returned by line operations when no delimiter is set.
	ErrInvalidDelimiter = errors.New("no delimiter")

	// ErrNotFound is returned when the delimiter is not present in the buffered data.
	ErrNotFound = errors.New("delimiter not found")

	// ErrNoCompressor is returned by Snapshot and Restore when no Compressor is configured.
	ErrNoCompressor = errors.New("compressor is not configured")
)
