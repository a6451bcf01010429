// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

// scanCursor is a read-only position in the chunkStore.
//
// The cursor is a snapshot: it is invalidated by any push, pop or reset of the store.
type scanCursor struct {
	s *chunkStore

	// logical chunk index, relative to s.head
	idx int
	// offset within the chunk
	off int
}

// cursor returns a cursor at the first unconsumed byte.
func (s *chunkStore) cursor() scanCursor {
	return scanCursor{
		s:   s,
		off: s.offset,
	}
}

func (c *scanCursor) valid() bool {
	return c.idx < c.s.count
}

func (c *scanCursor) chunk() []byte {
	return c.s.chunks[(c.s.head+c.idx)%len(c.s.chunks)]
}

// rest returns the bytes of the current chunk starting at the cursor.
func (c *scanCursor) rest() []byte {
	return c.chunk()[c.off:]
}

// nextChunk moves the cursor to the start of the next chunk.
func (c *scanCursor) nextChunk() {
	c.idx++
	c.off = 0
}

// advance moves the cursor k bytes forward, crossing chunk boundaries.
func (c *scanCursor) advance(k int) {
	for k > 0 && c.valid() {
		l := len(c.chunk()) - c.off
		if k < l {
			c.off += k

			return
		}

		k -= l
		c.nextChunk()
	}
}

// hasPrefix reports whether the bytes at the cursor start with p.
//
// Comparison is done byte by byte, following chunk boundaries. The cursor itself is not moved.
func (c scanCursor) hasPrefix(p []byte) bool {
	for i := 0; i < len(p); {
		if !c.valid() {
			return false
		}

		rest := c.rest()

		for _, b := range rest {
			if b != p[i] {
				return false
			}

			i++

			if i == len(p) {
				return true
			}
		}

		c.nextChunk()
	}

	return true
}
