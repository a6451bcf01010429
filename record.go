// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import "fmt"

// RecordDecoder decodes fixed-width records described by D into values of type V.
type RecordDecoder[D, V any] interface {
	// Size returns the encoded length of a record described by desc.
	Size(desc D) (int, error)
	// Unpack decodes a record from exactly Size(desc) bytes.
	Unpack(desc D, data []byte) (V, error)
}

// PopRecord removes a fixed-width record described by desc from the queue and decodes it.
//
// Errors from dec are returned as is. The queue is left unchanged if fewer bytes
// than the record size are buffered, or if dec fails.
func PopRecord[D, V any](q *BufferQueue, dec RecordDecoder[D, V], desc D) (V, error) {
	var zero V

	size, err := dec.Size(desc)
	if err != nil {
		return zero, err
	}

	if err = q.checkLength(size); err != nil {
		return zero, fmt.Errorf("record of %d bytes: %w", size, err)
	}

	v, err := dec.Unpack(desc, q.store.peek(size))
	if err != nil {
		return zero, err
	}

	q.store.discard(size)

	return v, nil
}
