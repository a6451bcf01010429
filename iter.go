// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package qbuf

import (
	"iter"

	"github.com/siderolabs/gen/optional"
)

// Next removes the next line terminated by the configured delimiter.
//
// Unlike PopLine, the returned line keeps the trailing delimiter.
func (q *BufferQueue) Next() ([]byte, error) {
	return q.popLine(optional.None[[]byte](), true)
}

// Lines returns a sequence draining the complete lines currently buffered.
//
// Each line keeps its trailing delimiter. The sequence ends once no complete
// line is left; calling Lines again after more data is pushed picks up from there.
// Lines fails immediately if no delimiter is configured.
func (q *BufferQueue) Lines() (iter.Seq[[]byte], error) {
	if _, err := q.delimiter(optional.None[[]byte]()); err != nil {
		return nil, err
	}

	return func(yield func([]byte) bool) {
		for {
			line, err := q.Next()
			if err != nil {
				return
			}

			if !yield(line) {
				return
			}
		}
	}, nil
}
