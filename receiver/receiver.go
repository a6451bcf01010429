// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package receiver feeds data read from an io.Reader into a qbuf.BufferQueue
// and hands out complete lines, fixed-size blocks and records.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/siderolabs/go-qbuf"
)

// Receiver reads from a source in chunks and extracts complete units of data.
//
// Receiver is not safe for concurrent use.
type Receiver struct {
	r io.Reader
	q *qbuf.BufferQueue

	opt Options

	eof bool
}

// New creates a Receiver reading from r.
func New(r io.Reader, opts ...OptionFunc) (*Receiver, error) {
	rc := &Receiver{
		r:   r,
		opt: defaultOptions(),
	}

	for _, o := range opts {
		if err := o(&rc.opt); err != nil {
			return nil, err
		}
	}

	var err error

	rc.q, err = qbuf.New(
		qbuf.WithDelimiter(rc.opt.Delimiter),
		qbuf.WithMaxBytes(rc.opt.MaxBuffered),
		qbuf.WithLogger(rc.opt.Logger),
	)
	if err != nil {
		return nil, err
	}

	return rc, nil
}

// Queue returns the underlying queue.
func (rc *Receiver) Queue() *qbuf.BufferQueue {
	return rc.q
}

// Pump performs a single read from the source and buffers the result.
//
// Pump returns io.EOF once the source is exhausted.
func (rc *Receiver) Pump(ctx context.Context) error {
	if rc.eof {
		return io.EOF
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	size := rc.opt.ReadSize

	if rc.opt.MaxBuffered > 0 {
		size = min(size, rc.opt.MaxBuffered-rc.q.Len())

		if size <= 0 {
			return fmt.Errorf("%w: %d bytes buffered", qbuf.ErrOverflow, rc.q.Len())
		}
	}

	buf := make([]byte, size)

	n, err := rc.r.Read(buf)
	if n > 0 {
		if pushErr := rc.q.Push(buf[:n]); pushErr != nil {
			return pushErr
		}

		if throttleErr := rc.throttle(ctx, n); throttleErr != nil {
			return throttleErr
		}
	}

	switch {
	case errors.Is(err, io.EOF):
		rc.eof = true

		rc.opt.Logger.Debug("source exhausted", zap.Int("buffered_bytes", rc.q.Len()))

		if n > 0 {
			return nil
		}

		return io.EOF
	case err != nil:
		return fmt.Errorf("failed to read from source: %w", err)
	}

	return nil
}

func (rc *Receiver) throttle(ctx context.Context, n int) error {
	if rc.opt.Limiter == nil {
		return nil
	}

	burst := rc.opt.Limiter.Burst()
	if burst <= 0 {
		return rc.opt.Limiter.WaitN(ctx, n)
	}

	for n > 0 {
		k := min(n, burst)

		if err := rc.opt.Limiter.WaitN(ctx, k); err != nil {
			return err
		}

		n -= k
	}

	return nil
}

// ReadLine returns the next line without the delimiter, reading from the source as needed.
//
// At the end of the source ReadLine returns io.EOF, or io.ErrUnexpectedEOF if
// an incomplete line is left over.
func (rc *Receiver) ReadLine(ctx context.Context) ([]byte, error) {
	for {
		line, err := rc.q.PopLine()
		if err == nil {
			return line, nil
		}

		if !errors.Is(err, qbuf.ErrNotFound) {
			return nil, err
		}

		if err = rc.Pump(ctx); err != nil {
			return nil, rc.eofError(err)
		}
	}
}

// ReadFull returns exactly n bytes, reading from the source as needed.
func (rc *Receiver) ReadFull(ctx context.Context, n int) ([]byte, error) {
	for {
		data, err := rc.q.Pop(n)
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, qbuf.ErrUnderflow) {
			return nil, err
		}

		if err = rc.Pump(ctx); err != nil {
			return nil, rc.eofError(err)
		}
	}
}

func (rc *Receiver) eofError(err error) error {
	if !errors.Is(err, io.EOF) {
		return err
	}

	if leftover := rc.q.Len(); leftover > 0 {
		rc.opt.Logger.Warn("source ended with incomplete data", zap.Int("leftover_bytes", leftover))

		return io.ErrUnexpectedEOF
	}

	return io.EOF
}

// Lines calls fn for every line read from the source until the source is exhausted.
//
// Lines returns nil at a clean end of the source, otherwise the first error
// from reading or from fn.
func (rc *Receiver) Lines(ctx context.Context, fn func(line []byte) error) error {
	for {
		line, err := rc.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if err = fn(line); err != nil {
			return err
		}
	}
}
