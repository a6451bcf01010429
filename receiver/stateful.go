// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package receiver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/siderolabs/go-qbuf"
	"github.com/siderolabs/go-qbuf/record"
)

// State is a step of a stateful protocol.
//
// Handle is called with exactly Size bytes. It returns the next state, or
// the zero State to stay in the current one. A zero-size state consumes
// nothing, so it must move on to another state.
type State struct {
	Handle func(data []byte) (State, error)
	Size   int
}

func (s State) validate() error {
	if s.Handle == nil {
		return fmt.Errorf("state of %d bytes has no handler", s.Size)
	}

	if s.Size < 0 {
		return fmt.Errorf("%w: state size is negative: %d", qbuf.ErrInvalidArgument, s.Size)
	}

	return nil
}

// Stateful drives a stateful protocol starting from initial until the source is exhausted.
//
// Stateful returns nil at a clean end of the source, otherwise the first error
// from reading or from a state handler. The context is checked before every step.
func (rc *Receiver) Stateful(ctx context.Context, initial State) error {
	if err := initial.validate(); err != nil {
		return fmt.Errorf("initial state: %w", err)
	}

	state := initial

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := rc.ReadFull(ctx, state.Size)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		next, err := state.Handle(data)
		if err != nil {
			return err
		}

		switch {
		case next.Handle == nil && next.Size == 0:
			if state.Size == 0 {
				return errors.New("zero-size state cannot be kept")
			}
		default:
			if err = next.validate(); err != nil {
				return fmt.Errorf("next state: %w", err)
			}

			state = next
		}
	}
}

// ReadRecord reads a fixed-size record of type T from rc.
//
// T must be a fixed-size type as understood by encoding/binary.
func ReadRecord[T any](ctx context.Context, rc *Receiver, order binary.ByteOrder) (T, error) {
	var zero T

	size := binary.Size(zero)
	if size < 0 {
		return zero, fmt.Errorf("%w: %T is not a fixed-size value", record.ErrInvalidDescriptor, zero)
	}

	for rc.q.Len() < size {
		if err := rc.Pump(ctx); err != nil {
			return zero, rc.eofError(err)
		}
	}

	return record.Pop[T](rc.q, record.Binary{Order: order})
}

// Messages calls fn for every message framed with a uint32 length prefix in the given byte order.
//
// Messages returns nil at a clean end of the source. A message longer than
// maxSize fails with qbuf.ErrOverflow; zero maxSize means no limit.
func (rc *Receiver) Messages(ctx context.Context, order binary.ByteOrder, maxSize int, fn func(msg []byte) error) error {
	for {
		length, err := ReadRecord[uint32](ctx, rc, order)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if uint64(length) > math.MaxInt || (maxSize > 0 && int(length) > maxSize) {
			return fmt.Errorf("%w: message of %d bytes", qbuf.ErrOverflow, length)
		}

		msg, err := rc.ReadFull(ctx, int(length))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}

			return err
		}

		if err = fn(msg); err != nil {
			return err
		}
	}
}
