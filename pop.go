// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"fmt"

	"github.com/siderolabs/gen/optional"
)

func (q *BufferQueue) checkLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: tried to pop a negative number of bytes: %d", ErrInvalidArgument, n)
	}

	if n > q.store.total {
		return fmt.Errorf("%w: %d bytes buffered, tried to pop %d bytes", ErrUnderflow, q.store.total, n)
	}

	return nil
}

// Pop removes exactly n bytes from the queue.
//
// If the request matches a whole pushed chunk, that chunk is returned as is,
// otherwise the result is a fresh copy.
func (q *BufferQueue) Pop(n int) ([]byte, error) {
	if err := q.checkLength(n); err != nil {
		return nil, err
	}

	return q.store.pop(n, false), nil
}

// PopAll removes all buffered bytes from the queue.
func (q *BufferQueue) PopAll() []byte {
	return q.store.pop(q.store.total, false)
}

// PopAtMost removes up to n bytes from the queue.
func (q *BufferQueue) PopAtMost(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: tried to pop a negative number of bytes: %d", ErrInvalidArgument, n)
	}

	return q.store.pop(min(n, q.store.total), false), nil
}

// PopView removes exactly n bytes from the queue, avoiding a copy where possible.
//
// If the bytes lie within a single chunk, the result aliases that chunk's storage,
// a copy is made only when the request spans several chunks. The view keeps the
// chunk storage alive for as long as it is referenced; it must not be modified.
// The capacity of a view never extends past its length.
func (q *BufferQueue) PopView(n int) ([]byte, error) {
	if err := q.checkLength(n); err != nil {
		return nil, err
	}

	return q.store.pop(n, true), nil
}

// PopViewAll is PopView of all buffered bytes.
func (q *BufferQueue) PopViewAll() []byte {
	return q.store.pop(q.store.total, true)
}

// PopLine removes a line terminated by the configured delimiter.
//
// The delimiter is consumed but not returned. ErrNotFound is returned if the
// buffered data holds no complete line.
func (q *BufferQueue) PopLine() ([]byte, error) {
	return q.popLine(optional.None[[]byte](), false)
}

// PopLineDelim is PopLine with the given delimiter instead of the configured one.
func (q *BufferQueue) PopLineDelim(delim []byte) ([]byte, error) {
	return q.popLine(optional.Some(delim), false)
}

// PopLines removes all complete lines terminated by the configured delimiter.
//
// The result is empty if no complete line is buffered.
func (q *BufferQueue) PopLines() ([][]byte, error) {
	return q.popLines(optional.None[[]byte]())
}

// PopLinesDelim is PopLines with the given delimiter instead of the configured one.
func (q *BufferQueue) PopLinesDelim(delim []byte) ([][]byte, error) {
	return q.popLines(optional.Some(delim))
}

func (q *BufferQueue) delimiter(override optional.Optional[[]byte]) ([]byte, error) {
	delim := q.opt.Delimiter.ValueOr(nil)

	if override.IsPresent() {
		delim = override.ValueOr(nil)
	}

	if len(delim) == 0 {
		return nil, ErrInvalidDelimiter
	}

	return delim, nil
}

func (q *BufferQueue) popLine(override optional.Optional[[]byte], keepEnds bool) ([]byte, error) {
	delim, err := q.delimiter(override)
	if err != nil {
		return nil, err
	}

	k := q.store.find(delim)
	if k == -1 {
		return nil, ErrNotFound
	}

	if keepEnds {
		return q.store.pop(k+len(delim), false), nil
	}

	line := q.store.pop(k, false)
	q.store.discard(len(delim))

	return line, nil
}

func (q *BufferQueue) popLines(override optional.Optional[[]byte]) ([][]byte, error) {
	delim, err := q.delimiter(override)
	if err != nil {
		return nil, err
	}

	lines := [][]byte{}

	for {
		k := q.store.find(delim)
		if k == -1 {
			return lines, nil
		}

		lines = append(lines, q.store.pop(k, false))
		q.store.discard(len(delim))
	}
}
