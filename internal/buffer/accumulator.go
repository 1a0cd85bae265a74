// Package buffer provides the FIFO byte accumulator that sits between caller
// writes and part uploads.
//
// The accumulator never caps how much it holds. A single large write is kept in
// memory in full until the caller drains it with TakeFront.
package buffer

import (
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

// Accumulator absorbs variable-size writes and hands out exact-size prefixes.
// It is not safe for concurrent use.
type Accumulator struct {
	buf []byte
	off int // start of unread data within buf
}

// Append adds p to the back of the buffer.
func (a *Accumulator) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	// Slide unread data to the front so the backing array is reused instead of
	// growing by the consumed prefix.
	if a.off > 0 {
		n := copy(a.buf, a.buf[a.off:])
		a.buf = a.buf[:n]
		a.off = 0
	}
	a.buf = append(a.buf, p...)
}

// Len returns the number of buffered bytes.
func (a *Accumulator) Len() int {
	return len(a.buf) - a.off
}

// TakeFront removes the first n bytes and appends them to dst.
// It returns ErrInsufficientBuffer when fewer than n bytes are buffered.
func (a *Accumulator) TakeFront(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > a.Len() {
		return dst, errors.NewError("takeFront", errors.ErrInsufficientBuffer)
	}

	dst = append(dst, a.buf[a.off:a.off+n]...)
	a.off += n
	if a.off == len(a.buf) {
		a.buf = a.buf[:0]
		a.off = 0
	}
	return dst, nil
}

// Reset drops all buffered data and releases the backing array.
func (a *Accumulator) Reset() {
	a.buf = nil
	a.off = 0
}
