// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package record implements fixed-width record decoding for qbuf.PopRecord.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"

	"github.com/siderolabs/go-qbuf"
)

// ErrInvalidDescriptor is returned for descriptors which do not describe a fixed-size value.
var ErrInvalidDescriptor = errors.New("invalid record descriptor")

// Binary decodes records laid out as encoding/binary fixed-size values.
//
// The descriptor is a pointer to the value to decode into, e.g. *uint32 or a
// pointer to a struct of fixed-size fields. Unpack fills it in and returns it.
type Binary struct {
	Order binary.ByteOrder
}

// BigEndian is a Binary decoder for network byte order.
var BigEndian = Binary{Order: binary.BigEndian}

// LittleEndian is a Binary decoder for little-endian records.
var LittleEndian = Binary{Order: binary.LittleEndian}

// Size implements qbuf.RecordDecoder.
func (b Binary) Size(desc any) (int, error) {
	if desc == nil {
		return 0, fmt.Errorf("%w: nil", ErrInvalidDescriptor)
	}

	if v := reflect.ValueOf(desc); (v.Kind() != reflect.Pointer && v.Kind() != reflect.Slice) || v.IsNil() {
		return 0, fmt.Errorf("%w: %T is not a non-nil pointer or slice", ErrInvalidDescriptor, desc)
	}

	size := binary.Size(desc)
	if size < 0 {
		return 0, fmt.Errorf("%w: %T is not a fixed-size value", ErrInvalidDescriptor, desc)
	}

	return size, nil
}

// Unpack implements qbuf.RecordDecoder.
func (b Binary) Unpack(desc any, data []byte) (any, error) {
	n, err := binary.Decode(data, b.order(), desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	if n != len(data) {
		return nil, fmt.Errorf("record decoded %d bytes out of %d", n, len(data))
	}

	return desc, nil
}

func (b Binary) order() binary.ByteOrder {
	if b.Order == nil {
		return binary.BigEndian
	}

	return b.Order
}

// Pop removes a record of type T from q, decoding it with b.
//
// T must be a fixed-size type as understood by encoding/binary.
func Pop[T any](q *qbuf.BufferQueue, b Binary) (T, error) {
	var v T

	if _, err := qbuf.PopRecord[any, any](q, b, &v); err != nil {
		return v, err
	}

	return v, nil
}
