// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package zstd implements queue snapshot compression with zstd.
package zstd

import (
	"bytes"
	"errors"
	"iter"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Compressor implements qbuf.Compressor using zstd compression.
//
// Chunks are streamed through a single encoder, so they are never concatenated
// in memory before compression.
type Compressor struct {
	dec *zstd.Decoder

	// guards the streaming encoder
	mu  sync.Mutex
	enc *zstd.Encoder
}

// NewCompressor creates new Compressor.
//
// Encoder concurrency defaults to 1, so that compression does not leave
// goroutines behind; opts can override it.
func NewCompressor(opts ...zstd.EOption) (*Compressor, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, append([]zstd.EOption{zstd.WithEncoderConcurrency(1)}, opts...)...)
	if err != nil {
		dec.Close()

		return nil, err
	}

	return &Compressor{
		dec: dec,
		enc: enc,
	}, nil
}

// Compress the concatenation of chunks into a single zstd frame appended to dest.
//
// The frame header records size as the content size.
func (c *Compressor) Compress(chunks iter.Seq[[]byte], size int64, dest []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size == 0 {
		return c.enc.EncodeAll(nil, dest), nil
	}

	out := bytes.NewBuffer(dest)

	c.enc.ResetContentSize(out, size)
	defer c.enc.Reset(nil)

	for chunk := range chunks {
		if _, err := c.enc.Write(chunk); err != nil {
			return nil, err
		}
	}

	if err := c.enc.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Decompress data using zstd.
func (c *Compressor) Decompress(src, dest []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, dest)
}

// DecompressedSize returns the size of the decompressed data.
func (c *Compressor) DecompressedSize(src []byte) (int64, error) {
	if len(src) == 0 {
		return 0, nil
	}

	var header zstd.Header

	if err := header.Decode(src); err != nil {
		return 0, err
	}

	if header.HasFCS {
		return int64(header.FrameContentSize), nil
	}

	return 0, errors.New("frame content size is not set")
}
