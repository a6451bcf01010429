// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"fmt"

	"go.uber.org/zap"
)

// Snapshot returns the buffered bytes compressed with the configured Compressor.
//
// The queue is not modified. The snapshot can be loaded into another queue with Restore.
func (q *BufferQueue) Snapshot() ([]byte, error) {
	if q.opt.Compressor == nil {
		return nil, ErrNoCompressor
	}

	compressed, err := q.opt.Compressor.Compress(q.store.segments(), int64(q.store.total), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compress queue contents: %w", err)
	}

	return compressed, nil
}

// Restore appends the contents of a snapshot to the queue as a single chunk.
//
// The queue is left unchanged on error.
func (q *BufferQueue) Restore(snapshot []byte) error {
	if q.opt.Compressor == nil {
		return ErrNoCompressor
	}

	size, err := q.opt.Compressor.DecompressedSize(snapshot)
	if err != nil {
		return fmt.Errorf("failed to get size of snapshot: %w", err)
	}

	if size == 0 {
		return nil
	}

	if q.opt.MaxBytes > 0 && int64(q.store.total)+size > int64(q.opt.MaxBytes) {
		return fmt.Errorf("%w: %d bytes buffered, restoring %d bytes, limit %d", ErrOverflow, q.store.total, size, q.opt.MaxBytes)
	}

	data, err := q.opt.Compressor.Decompress(snapshot, make([]byte, 0, size))
	if err != nil {
		return fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("snapshot size mismatch: header %d, decompressed %d", size, len(data))
	}

	if err = q.Push(data); err != nil {
		return err
	}

	q.opt.Logger.Debug("restored queue snapshot",
		zap.Int64("restored_bytes", size),
		zap.Int("compressed_bytes", len(snapshot)),
		zap.Int("buffered_bytes", q.store.total),
	)

	return nil
}
