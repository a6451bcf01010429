// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"bytes"
	"io"
)

var (
	_ io.ReadWriter = (*BufferQueue)(nil)
	_ io.WriterTo   = (*BufferQueue)(nil)
)

// Write implements io.Writer.
//
// As io.Writer must not retain p, the data is copied before being pushed.
func (q *BufferQueue) Write(p []byte) (int, error) {
	if err := q.Push(bytes.Clone(p)); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Read implements io.Reader, popping up to len(p) bytes into p.
func (q *BufferQueue) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if q.store.total == 0 {
		return 0, io.EOF
	}

	var n int

	for segment := range q.store.segments() {
		n += copy(p[n:], segment)

		if n == len(p) {
			break
		}
	}

	q.store.discard(n)

	return n, nil
}

// WriteTo implements io.WriterTo, draining the queue into w chunk by chunk.
//
// Bytes not accepted by w stay in the queue.
func (q *BufferQueue) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for q.store.total > 0 {
		c := q.store.cursor()
		segment := c.rest()

		n, err := w.Write(segment)
		q.store.discard(n)
		total += int64(n)

		if err != nil {
			return total, err
		}

		if n < len(segment) {
			return total, io.ErrShortWrite
		}
	}

	return total, nil
}
