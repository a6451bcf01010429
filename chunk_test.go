// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *chunkStore) checkInvariants(t *testing.T) {
	t.Helper()

	var sum int

	for i := range s.count {
		chunk := s.chunks[(s.head+i)%len(s.chunks)]
		require.NotEmpty(t, chunk)

		sum += len(chunk)
	}

	require.Equal(t, sum-s.offset, s.total)
	require.Equal(t, (s.head+s.count)%len(s.chunks), s.tail)

	if s.count == 0 {
		require.Zero(t, s.offset)
		require.Zero(t, s.total)
	} else {
		require.Less(t, s.offset, len(s.chunks[s.head]))
	}

	for i := s.count; i < len(s.chunks); i++ {
		require.Nil(t, s.chunks[(s.head+i)%len(s.chunks)], "free slot holds a chunk")
	}
}

func TestChunkStoreGrowWrapped(t *testing.T) {
	t.Parallel()

	s := newChunkStore(4)

	for _, chunk := range []string{"a", "b", "c", "d"} {
		s.push([]byte(chunk))
	}

	assert.Equal(t, "ab", string(s.pop(2, false)))

	s.push([]byte("e"))
	s.push([]byte("f"))

	// live range now wraps: slots [2, 3, 0, 1]
	assert.Equal(t, 2, s.head)
	assert.Equal(t, 2, s.tail)
	s.checkInvariants(t)

	assert.True(t, s.push([]byte("g")))
	assert.Len(t, s.chunks, 8)
	assert.Equal(t, 0, s.head)
	assert.Equal(t, 5, s.tail)
	s.checkInvariants(t)

	assert.Equal(t, "cdefg", string(s.pop(s.total, false)))
	s.checkInvariants(t)
}

func TestChunkStoreGrowWithOffset(t *testing.T) {
	t.Parallel()

	s := newChunkStore(1)

	s.push([]byte("hello"))
	assert.Equal(t, "he", string(s.pop(2, true)))

	s.push([]byte(" world"))
	s.checkInvariants(t)

	assert.Equal(t, 2, len(s.chunks))
	assert.Equal(t, 2, s.offset)
	assert.Equal(t, "llo world", string(s.pop(s.total, true)))
}

func TestChunkStoreRandomOps(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))

	s := newChunkStore(1)

	var (
		expected []byte
		next     byte
	)

	for range 5000 {
		switch op := rng.IntN(10); {
		case op < 5:
			chunk := make([]byte, rng.IntN(16))
			for i := range chunk {
				chunk[i] = next
				next++
			}

			s.push(chunk)
			expected = append(expected, chunk...)
		case op < 8:
			n := rng.IntN(s.total + 1)

			require.Equal(t, string(expected[:n]), string(s.pop(n, op == 7)))
			expected = expected[n:]
		case op < 9:
			n := rng.IntN(s.total + 1)

			s.discard(n)
			expected = expected[n:]
		default:
			var joined []byte

			for segment := range s.segments() {
				joined = append(joined, segment...)
			}

			require.Equal(t, string(expected), string(joined))

			n := rng.IntN(s.total + 1)
			require.Equal(t, string(expected[:n]), string(s.peek(n)))
		}

		s.checkInvariants(t)
		require.Equal(t, len(expected), s.total)
	}

	s.reset()
	s.checkInvariants(t)
}

func TestFindMatchesIndex(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))

	for range 2000 {
		// small alphabet makes partial matches frequent
		data := make([]byte, rng.IntN(64))
		for i := range data {
			data[i] = "ab\n"[rng.IntN(3)]
		}

		delim := make([]byte, 1+rng.IntN(4))
		for i := range delim {
			delim[i] = "ab\n"[rng.IntN(3)]
		}

		s := newChunkStore(2)

		// optionally consume a prefix to exercise the head offset
		prefix := 0
		if len(data) > 0 {
			prefix = rng.IntN(len(data) + 1)
		}

		for p := data; len(p) > 0; {
			size := min(1+rng.IntN(5), len(p))
			s.push(p[:size])
			p = p[size:]
		}

		s.discard(prefix)

		require.Equal(t, bytes.Index(data[prefix:], delim), s.find(delim), "data %q delim %q prefix %d", data, delim, prefix)
	}
}

func TestCursorHasPrefix(t *testing.T) {
	t.Parallel()

	s := newChunkStore(2)

	for _, chunk := range []string{"ab", "c", "def"} {
		s.push([]byte(chunk))
	}

	c := s.cursor()
	c.advance(1)

	assert.True(t, c.hasPrefix([]byte("bcd")))
	assert.True(t, c.hasPrefix([]byte("bcdef")))
	assert.False(t, c.hasPrefix([]byte("bcdefg")))
	assert.False(t, c.hasPrefix([]byte("bd")))

	// hasPrefix does not move the cursor
	assert.Equal(t, 0, c.idx)
	assert.Equal(t, 1, c.off)

	c.advance(2)
	assert.Equal(t, 2, c.idx)
	assert.Equal(t, 0, c.off)
	assert.Equal(t, "def", string(c.rest()))

	c.advance(3)
	assert.False(t, c.valid())
}
