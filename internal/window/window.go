// Package window implements the append-and-consume buffer between the
// external byte producer and the block framer.
package window

import (
	"errors"
	"io"
)

// ErrShortRead is returned by FillTo when the underlying reader reached
// EOF before delivering the requested number of bytes.
var ErrShortRead = errors.New("window: short read, producer exhausted mid-block")

// minGrow is the smallest chunk Window grows its buffer by, so producers
// that deliver single bytes at a time don't cause O(n^2) reallocation.
const minGrow = 16 << 10 // 16 KiB

// Window buffers bytes read from r, supporting "ensure at least N
// buffered" and "drop the first N buffered" with amortized O(1) advance.
// It never retains more than max(largest FillTo request, minGrow) bytes
// of slack at once under normal input.
type Window struct {
	r    io.Reader
	buf  []byte
	off  int // start of valid data within buf
	end  int // end of valid data within buf
	eof  bool
}

// New returns a Window reading from r.
func New(r io.Reader) *Window {
	return &Window{r: r, buf: make([]byte, minGrow)}
}

// Buffered returns the number of bytes currently available without a read.
func (w *Window) Buffered() int { return w.end - w.off }

// Bytes returns a read-only view of the currently buffered bytes. The
// slice is invalidated by the next call to FillTo or Advance.
func (w *Window) Bytes() []byte { return w.buf[w.off:w.end] }

// FillTo ensures at least n bytes are buffered, growing and reading from
// the producer as needed. It returns the number of bytes now available:
// n on success (more only if more was already buffered), or fewer only if
// the producer signalled EOF. A read error
// other than io.EOF is returned unwrapped so the caller can distinguish a
// genuine I/O failure from a clean short read.
func (w *Window) FillTo(n int) (int, error) {
	if w.Buffered() >= n {
		return w.Buffered(), nil
	}
	w.ensureCapacity(n)

	for w.Buffered() < n && !w.eof {
		readN, err := w.r.Read(w.buf[w.end : w.off+n])
		if readN > 0 {
			w.end += readN
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				w.eof = true
				break
			}
			return w.Buffered(), err
		}
		if readN == 0 {
			// A Reader is allowed to return (0, nil); avoid spinning.
			continue
		}
	}

	if w.Buffered() < n {
		return w.Buffered(), ErrShortRead
	}
	return w.Buffered(), nil
}

// Advance drops the first n buffered bytes. n must not exceed Buffered().
func (w *Window) Advance(n int) {
	if n <= 0 {
		return
	}
	if n > w.Buffered() {
		n = w.Buffered()
	}
	w.off += n
	if w.off == w.end {
		// Nothing live; recycle the whole buffer instead of sliding.
		w.off, w.end = 0, 0
		if len(w.buf) > minGrow*4 {
			w.buf = make([]byte, minGrow)
		}
	}
}

// ensureCapacity makes room for n buffered bytes, sliding live data to the
// front of buf (or reallocating) as needed.
func (w *Window) ensureCapacity(n int) {
	if cap(w.buf)-w.off >= n {
		return
	}
	live := w.Buffered()
	newCap := n
	if newCap < minGrow {
		newCap = minGrow
	}
	if live+newCap < cap(w.buf) {
		// Sliding the live bytes to the front frees enough room.
		copy(w.buf, w.buf[w.off:w.end])
		w.off, w.end = 0, live
		return
	}
	grown := make([]byte, newCap)
	copy(grown, w.buf[w.off:w.end])
	w.buf = grown
	w.off, w.end = 0, live
}
