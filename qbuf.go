// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package qbuf provides a FIFO byte queue built from independently sized chunks.
//
// Data is pushed in whatever chunks it arrives in, and popped as exact byte
// counts, delimited lines or fixed-width records regardless of chunk
// boundaries. Pops satisfied by a single chunk avoid copying.
//
// BufferQueue is not safe for concurrent use.
package qbuf

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// BufferQueue is a growable circular queue of byte chunks.
type BufferQueue struct {
	opt Options

	store chunkStore
}

// New creates a new BufferQueue with specified options.
func New(opts ...OptionFunc) (*BufferQueue, error) {
	q := &BufferQueue{
		opt: defaultOptions(),
	}

	for _, o := range opts {
		if err := o(&q.opt); err != nil {
			return nil, err
		}
	}

	q.store = newChunkStore(q.opt.InitialCapacity)

	return q, nil
}

// Push appends a chunk to the queue.
//
// The queue takes ownership of chunk: it must not be modified after the call.
// Pushing an empty chunk is a no-op.
func (q *BufferQueue) Push(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	if q.opt.MaxBytes > 0 && q.store.total+len(chunk) > q.opt.MaxBytes {
		return fmt.Errorf("%w: %d bytes buffered, pushing %d bytes, limit %d", ErrOverflow, q.store.total, len(chunk), q.opt.MaxBytes)
	}

	oldCapacity := len(q.store.chunks)

	if q.store.push(chunk) {
		q.opt.Logger.Debug("grew chunk store",
			zap.Int("old_capacity", oldCapacity),
			zap.Int("new_capacity", len(q.store.chunks)),
			zap.Int("num_chunks", q.store.count),
		)
	}

	return nil
}

// PushMany pushes chunks in order.
//
// It stops at the first failure, chunks pushed before it stay in the queue.
func (q *BufferQueue) PushMany(chunks ...[]byte) error {
	for i, chunk := range chunks {
		if err := q.Push(chunk); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	return nil
}

// Clear drops all buffered data.
func (q *BufferQueue) Clear() {
	q.store.reset()
}

// Len returns number of buffered bytes.
func (q *BufferQueue) Len() int {
	return q.store.total
}

// NumChunks returns number of chunks holding buffered bytes.
func (q *BufferQueue) NumChunks() int {
	return q.store.count
}

// Capacity returns number of chunk slots allocated.
func (q *BufferQueue) Capacity() int {
	return len(q.store.chunks)
}

// Delimiter returns a copy of the configured delimiter, or nil if there is none.
func (q *BufferQueue) Delimiter() []byte {
	return bytes.Clone(q.opt.Delimiter.ValueOr(nil))
}

// SetDelimiter replaces the delimiter used by line operations.
//
// Setting nil or an empty delimiter disables line operations.
func (q *BufferQueue) SetDelimiter(delim []byte) {
	q.opt.Delimiter = delimiterOf(delim)
}

// String implements fmt.Stringer.
func (q *BufferQueue) String() string {
	return fmt.Sprintf("BufferQueue(%d bytes)", q.store.total)
}
