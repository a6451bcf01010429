// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import "bytes"

// find returns the offset of the leftmost occurrence of delim in the
// unconsumed bytes, or -1.
//
// Matches lying wholly inside a chunk are found with bytes.Index, the ones
// straddling chunk boundaries are checked position by position.
func (s *chunkStore) find(delim []byte) int {
	dl := len(delim)
	if dl == 0 || dl > s.total {
		return -1
	}

	var pos int

	for c := s.cursor(); c.valid(); c.nextChunk() {
		rest := c.rest()

		if s.total-pos < dl {
			break
		}

		if idx := bytes.Index(rest, delim); idx != -1 {
			return pos + idx
		}

		// candidates starting in the tail of the chunk run into the next ones
		if dl > 1 && c.idx+1 < s.count {
			start := max(len(rest)-dl+1, 0)

			probe := c
			probe.advance(start)

			for i := start; i < len(rest); i++ {
				if s.total-(pos+i) < dl {
					return -1
				}

				if probe.hasPrefix(delim) {
					return pos + i
				}

				probe.advance(1)
			}
		}

		pos += len(rest)
	}

	return -1
}
