// Package frame implements the pcapng block-framing state machine: it
// delimits type:u32 | total_length:u32 | body | total_length:u32
// envelopes, validates length bounds and trailer agreement, and is the
// only component in the decoder allowed to declare the stream
// unrecoverable.
package frame

import (
	"encoding/binary"
	"io"

	"github.com/sofiworker/pcapng/internal/window"
)

const (
	sectionHeaderType uint32 = 0x0A0D0D0A

	byteOrderMagicLittle uint32 = 0x1A2B3C4D
	byteOrderMagicBig    uint32 = 0x4D3C2B1A

	legacyPcapMagicLE uint32 = 0xA1B2C3D4
	legacyPcapMagicBE uint32 = 0xD4C3B2A1
)

// Errors returned by Framer.Next are always fatal (Tier 3): once the
// trailing-length trust is broken, the decoder cannot locate the next
// block boundary without heuristics that risk false positives.
var (
	ErrLegacyPcap      = errFatal{"frame: input is a legacy pcap capture, not pcapng"}
	ErrBadMagic        = errFatal{"frame: unrecognised section header byte-order magic"}
	ErrBadBlockLength  = errFatal{"frame: block length out of bounds"}
	ErrTrailerMismatch = errFatal{"frame: block trailer length disagrees with header"}
	ErrUnexpectedEOF   = errFatal{"frame: unexpected end of stream mid-block"}
)

type errFatal struct{ msg string }

func (e errFatal) Error() string { return e.msg }

// SourceReadError wraps an I/O failure from the underlying producer.
type SourceReadError struct{ Err error }

func (e *SourceReadError) Error() string { return "frame: source read failed: " + e.Err.Error() }
func (e *SourceReadError) Unwrap() error { return e.Err }

// Block is one framed pcapng block: its type, its body (the bytes
// between the two total_length fields), and the stream offset at which
// the body begins (for diagnostic citation).
type Block struct {
	Type       uint32
	Body       []byte
	BodyOffset int64
}

const hardMax = 16 << 20

// Framer delimits pcapng blocks from an underlying io.Reader, tracking
// the current section's byte order across Section Header Blocks.
type Framer struct {
	win           *window.Window
	order         binary.ByteOrder
	haveOrder     bool
	maxBlockSize  int
	consumed      int64 // total bytes consumed from the stream so far
	sawFirstBlock bool
}

// New returns a Framer reading from r, with the default 16 MiB
// per-block hard cap.
func New(r io.Reader) *Framer {
	return &Framer{win: window.New(r), maxBlockSize: hardMax}
}

// SetMaxBlockSize overrides the hard cap on a single block's total length.
func (f *Framer) SetMaxBlockSize(n int) {
	if n > 0 {
		f.maxBlockSize = n
	}
}

// Next returns the next framed block, or io.EOF at a clean block
// boundary with nothing left to read. Any other error is fatal.
func (f *Framer) Next() (*Block, error) {
	avail, err := f.win.FillTo(8)
	if err != nil {
		if avail == 0 {
			return nil, io.EOF
		}
		return nil, f.wrapReadErr(err)
	}
	if avail == 0 {
		return nil, io.EOF
	}
	if avail < 8 {
		return nil, ErrUnexpectedEOF
	}

	header := f.win.Bytes()[:8]

	if !f.sawFirstBlock {
		if err := f.checkLegacyPcap(header); err != nil {
			return nil, err
		}
	}

	blockType := f.peekU32(header[0:4])

	if blockType == sectionHeaderType {
		if err := f.learnByteOrder(); err != nil {
			return nil, err
		}
	} else if !f.haveOrder {
		// The stream must open with a Section Header; spec.md's own
		// invariant ("packets before the first Section Header are
		// impossible") generalizes to "no block before the first SHB".
		return nil, ErrBadMagic
	}

	totalLength := f.order.Uint32(f.win.Bytes()[4:8])
	if totalLength < 12 || totalLength > uint32(f.maxBlockSize) || totalLength%4 != 0 {
		return nil, ErrBadBlockLength
	}

	avail, err = f.win.FillTo(int(totalLength))
	if err != nil {
		if avail < int(totalLength) {
			return nil, ErrUnexpectedEOF
		}
		return nil, f.wrapReadErr(err)
	}
	if avail < int(totalLength) {
		return nil, ErrUnexpectedEOF
	}

	full := f.win.Bytes()[:totalLength]
	trailer := f.order.Uint32(full[totalLength-4:])
	if trailer != totalLength {
		return nil, ErrTrailerMismatch
	}

	body := make([]byte, totalLength-12)
	copy(body, full[8:totalLength-4])

	block := &Block{
		Type:       blockType,
		Body:       body,
		BodyOffset: f.consumed + 8,
	}

	f.consumed += int64(totalLength)
	f.win.Advance(int(totalLength))
	f.sawFirstBlock = true

	return block, nil
}

// ByteOrder reports the current section's byte order. Only meaningful
// after the first Section Header Block has been seen.
func (f *Framer) ByteOrder() binary.ByteOrder { return f.order }

func (f *Framer) peekU32(b []byte) uint32 {
	if f.haveOrder {
		return f.order.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}

func (f *Framer) learnByteOrder() error {
	if _, err := f.win.FillTo(12); err != nil {
		return ErrUnexpectedEOF
	}
	magic := binary.LittleEndian.Uint32(f.win.Bytes()[8:12])
	switch magic {
	case byteOrderMagicLittle:
		f.order = binary.LittleEndian
	case byteOrderMagicBig:
		f.order = binary.BigEndian
	default:
		return ErrBadMagic
	}
	f.haveOrder = true
	return nil
}

func (f *Framer) checkLegacyPcap(header []byte) error {
	magic := binary.BigEndian.Uint32(header[0:4])
	if magic == legacyPcapMagicLE || magic == legacyPcapMagicBE {
		return ErrLegacyPcap
	}
	return nil
}

func (f *Framer) wrapReadErr(err error) error {
	if err == io.EOF || err == window.ErrShortRead {
		return ErrUnexpectedEOF
	}
	return &SourceReadError{Err: err}
}
