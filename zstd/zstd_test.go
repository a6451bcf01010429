// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package zstd_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/siderolabs/go-qbuf/zstd"
)

func TestCompressor(t *testing.T) {
	t.Parallel()

	compressor, err := zstd.NewCompressor()
	require.NoError(t, err)

	for _, test := range []struct {
		size      int
		numChunks int
	}{
		{
			size: 0,
		},
		{
			size:      1024,
			numChunks: 1,
		},
		{
			size:      1024,
			numChunks: 7,
		},
		{
			size:      1024 * 1024,
			numChunks: 33,
		},
	} {
		t.Run(strconv.Itoa(test.size)+"/"+strconv.Itoa(test.numChunks), func(t *testing.T) {
			t.Parallel()

			data, err := io.ReadAll(io.LimitReader(rand.Reader, int64(test.size)))
			require.NoError(t, err)

			var chunks [][]byte

			if test.numChunks > 0 {
				chunkSize := (len(data) + test.numChunks - 1) / test.numChunks

				chunks = slices.Collect(slices.Chunk(data, chunkSize))
			}

			compressed, err := compressor.Compress(slices.Values(chunks), int64(len(data)), []byte("prefix"))
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(compressed, []byte("prefix")))

			compressed = compressed[len("prefix"):]

			decompressed, err := compressor.Decompress(compressed, nil)
			require.NoError(t, err)

			if len(data) == 0 {
				data = nil
			}

			require.Equal(t, data, decompressed)

			decompressedSize, err := compressor.DecompressedSize(compressed)
			require.NoError(t, err)

			require.Equal(t, int64(len(data)), decompressedSize)
		})
	}
}

func TestCompressorSizeMismatch(t *testing.T) {
	t.Parallel()

	compressor, err := zstd.NewCompressor()
	require.NoError(t, err)

	_, err = compressor.Compress(slices.Values([][]byte{[]byte("abc")}), 5, nil)
	require.Error(t, err)

	// the encoder is usable after a failure
	compressed, err := compressor.Compress(slices.Values([][]byte{[]byte("abc")}), 3, nil)
	require.NoError(t, err)

	decompressed, err := compressor.Decompress(compressed, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), decompressed)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
