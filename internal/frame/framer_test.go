package frame

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func writeBlock(buf *bytes.Buffer, order binary.ByteOrder, blockType uint32, body []byte) {
	total := uint32(8 + len(body) + 4)
	binary.Write(buf, order, blockType)
	binary.Write(buf, order, total)
	buf.Write(body)
	binary.Write(buf, order, total)
}

func shbBody(order binary.ByteOrder, magic uint32) []byte {
	var body bytes.Buffer
	binary.Write(&body, order, magic)
	binary.Write(&body, order, uint16(1))
	binary.Write(&body, order, uint16(0))
	binary.Write(&body, order, int64(-1))
	binary.Write(&body, order, uint16(0))
	binary.Write(&body, order, uint16(0))
	return body.Bytes()
}

func TestNextYieldsBodyExcludingHeaderAndTrailer(t *testing.T) {
	var buf bytes.Buffer
	writeBlock(&buf, binary.LittleEndian, sectionHeaderType, shbBody(binary.LittleEndian, byteOrderMagicLittle))

	f := New(&buf)
	block, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if block.Type != sectionHeaderType {
		t.Fatalf("unexpected type: %#x", block.Type)
	}
	if len(block.Body) != 20 {
		t.Fatalf("expected a 20-byte body (magic+major+minor+seclen+terminator), got %d", len(block.Body))
	}
	gotMagic := binary.LittleEndian.Uint32(block.Body[0:4])
	if gotMagic != byteOrderMagicLittle {
		t.Fatalf("expected body to start with the byte-order magic, got %#x", gotMagic)
	}
}

func TestNextReturnsEOFAtCleanBoundary(t *testing.T) {
	var buf bytes.Buffer
	writeBlock(&buf, binary.LittleEndian, sectionHeaderType, shbBody(binary.LittleEndian, byteOrderMagicLittle))

	f := New(&buf)
	if _, err := f.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := f.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestFirstBlockMustBeSectionHeader(t *testing.T) {
	var buf bytes.Buffer
	writeBlock(&buf, binary.LittleEndian, 0x00000006, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	f := New(&buf)
	if _, err := f.Next(); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic for a non-SHB first block, got %v", err)
	}
}

func TestLegacyPcapMagicDetected(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, legacyPcapMagicLE)
	buf.Write(make([]byte, 20))

	f := New(&buf)
	if _, err := f.Next(); err != ErrLegacyPcap {
		t.Fatalf("expected ErrLegacyPcap, got %v", err)
	}
}

func TestTrailerMismatchDetected(t *testing.T) {
	var buf bytes.Buffer
	writeBlock(&buf, binary.LittleEndian, sectionHeaderType, shbBody(binary.LittleEndian, byteOrderMagicLittle))
	raw := buf.Bytes()
	binary.LittleEndian.PutUint32(raw[len(raw)-4:], 0xDEADBEEF)

	f := New(bytes.NewReader(raw))
	if _, err := f.Next(); err != ErrTrailerMismatch {
		t.Fatalf("expected ErrTrailerMismatch, got %v", err)
	}
}

func TestBlockLengthOutOfBounds(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, sectionHeaderType)
	binary.Write(&buf, binary.LittleEndian, uint32(5)) // not a multiple of 4, and below the 12-byte floor
	binary.Write(&buf, binary.LittleEndian, byteOrderMagicLittle)

	f := New(&buf)
	if _, err := f.Next(); err != ErrBadBlockLength {
		t.Fatalf("expected ErrBadBlockLength, got %v", err)
	}
}

func TestMaxBlockSizeEnforced(t *testing.T) {
	body := make([]byte, 64)
	binary.LittleEndian.PutUint32(body[0:4], byteOrderMagicLittle) // valid magic so byte-order negotiation succeeds

	var buf bytes.Buffer
	writeBlock(&buf, binary.LittleEndian, sectionHeaderType, body)

	f := New(&buf)
	f.SetMaxBlockSize(32)
	if _, err := f.Next(); err != ErrBadBlockLength {
		t.Fatalf("expected ErrBadBlockLength when exceeding the configured cap, got %v", err)
	}
}
