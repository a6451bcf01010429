// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"bytes"
	"iter"
	"slices"
)

// chunkStore is a growable circular array of chunks.
//
// Live chunks occupy slots [head, head+count) modulo len(chunks).
type chunkStore struct {
	// stored chunks, nil in free slots
	chunks [][]byte

	head, tail int
	count      int

	// bytes already consumed from chunks[head]
	offset int

	// unconsumed bytes across all stored chunks
	total int
}

func newChunkStore(capacity int) chunkStore {
	return chunkStore{
		chunks: make([][]byte, capacity),
	}
}

// push appends the chunk and reports whether the store had to grow.
func (s *chunkStore) push(chunk []byte) (grown bool) {
	if len(chunk) == 0 {
		return false
	}

	if s.count == len(s.chunks) {
		s.grow()

		grown = true
	}

	s.chunks[s.tail] = slices.Clip(chunk)
	s.tail = (s.tail + 1) % len(s.chunks)
	s.count++
	s.total += len(chunk)

	return grown
}

// grow doubles the capacity, laying out live chunks from index 0.
func (s *chunkStore) grow() {
	chunks := make([][]byte, max(2*len(s.chunks), 1))

	if s.count > 0 {
		if s.head < s.tail {
			copy(chunks, s.chunks[s.head:s.tail])
		} else {
			// live range wraps past the end of the old array
			n := copy(chunks, s.chunks[s.head:])
			copy(chunks[n:], s.chunks[:s.tail])
		}
	}

	s.chunks = chunks
	s.head = 0
	s.tail = s.count % len(chunks)
}

// retireHead drops the head chunk, releasing the reference to it.
func (s *chunkStore) retireHead() {
	s.chunks[s.head] = nil
	s.head = (s.head + 1) % len(s.chunks)
	s.count--
	s.offset = 0
}

// pop removes exactly n bytes, 0 <= n <= s.total must hold.
//
// If view is set, a request satisfied by the head chunk alone aliases its storage.
func (s *chunkStore) pop(n int, view bool) []byte {
	if n == 0 {
		return []byte{}
	}

	head := s.chunks[s.head]

	switch {
	case s.offset == 0 && n == len(head):
		// hand over the chunk itself
		s.retireHead()
		s.total -= n

		return head
	case n <= len(head)-s.offset:
		start := s.offset

		var out []byte

		if view {
			out = head[start : start+n : start+n]
		} else {
			out = bytes.Clone(head[start : start+n])
		}

		if start+n == len(head) {
			s.retireHead()
		} else {
			s.offset += n
		}

		s.total -= n

		return out
	}

	out := make([]byte, n)

	for copied := 0; copied < n; {
		head = s.chunks[s.head]

		nn := copy(out[copied:], head[s.offset:])
		copied += nn

		if s.offset+nn == len(head) {
			s.retireHead()
		} else {
			s.offset += nn
		}
	}

	s.total -= n

	return out
}

// peek returns the first n bytes without consuming them, 0 <= n <= s.total must hold.
//
// The result aliases the head chunk if the bytes lie within it.
func (s *chunkStore) peek(n int) []byte {
	if n == 0 {
		return []byte{}
	}

	if head := s.chunks[s.head][s.offset:]; n <= len(head) {
		return head[:n:n]
	}

	out := make([]byte, 0, n)

	for segment := range s.segments() {
		out = append(out, segment[:min(len(segment), n-len(out))]...)

		if len(out) == n {
			break
		}
	}

	return out
}

// reset drops all chunks, keeping the allocated capacity.
func (s *chunkStore) reset() {
	clear(s.chunks)

	s.head, s.tail, s.count = 0, 0, 0
	s.offset, s.total = 0, 0
}

// segments yields the unconsumed part of every stored chunk in order.
//
// The store must not be modified while iterating.
func (s *chunkStore) segments() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for c := s.cursor(); c.valid(); c.nextChunk() {
			if !yield(c.rest()) {
				return
			}
		}
	}
}

// discard drops n bytes without materializing them, 0 <= n <= s.total must hold.
func (s *chunkStore) discard(n int) {
	s.total -= n

	for n > 0 {
		l := len(s.chunks[s.head]) - s.offset
		if n < l {
			s.offset += n

			return
		}

		n -= l
		s.retireHead()
	}
}
