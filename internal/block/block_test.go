package block

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWalkOptionsStopsAtEndOfOptions(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	buf.Write([]byte("eth0"))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	// trailing garbage after end-of-options must be ignored
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	opts, err := WalkOptions(buf.Bytes(), binary.LittleEndian)
	if err != nil {
		t.Fatalf("WalkOptions: %v", err)
	}
	if len(opts) != 1 || opts[0].Code != 2 || string(opts[0].Value) != "eth0" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestWalkOptionsOverrunIsReported(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(100)) // declared length exceeds remaining body

	_, err := WalkOptions(buf.Bytes(), binary.LittleEndian)
	if _, ok := err.(OptionLengthError); !ok {
		t.Fatalf("expected OptionLengthError, got %v (%T)", err, err)
	}
}

func TestParseTSResolBase2AndBase10(t *testing.T) {
	units, clamped := ParseTSResol(0x80|6, 0) // base2, exp=6 -> 64
	if clamped || units != 64 {
		t.Fatalf("base2 exp6: got units=%d clamped=%v", units, clamped)
	}

	units, clamped = ParseTSResol(6, 0) // base10, exp=6 -> 1e6
	if clamped || units != 1_000_000 {
		t.Fatalf("base10 exp6: got units=%d clamped=%v", units, clamped)
	}
}

func TestParseTSResolClampsOverflow(t *testing.T) {
	units, clamped := ParseTSResol(0x80|100, 42) // base2 exp=100 > 63, overflow
	if !clamped || units != 42 {
		t.Fatalf("expected clamp to fallback 42, got units=%d clamped=%v", units, clamped)
	}
}

func TestDecodeInterfaceDescriptionUnknownOptionTracked(t *testing.T) {
	var body bytes.Buffer
	binary.Write(&body, binary.LittleEndian, uint16(1))  // link type
	binary.Write(&body, binary.LittleEndian, uint16(0))  // reserved
	binary.Write(&body, binary.LittleEndian, uint32(65535))
	binary.Write(&body, binary.LittleEndian, uint16(999)) // unrecognised option code
	binary.Write(&body, binary.LittleEndian, uint16(0))
	binary.Write(&body, binary.LittleEndian, uint16(0))
	binary.Write(&body, binary.LittleEndian, uint16(0))

	idb, err := DecodeInterfaceDescription(binary.LittleEndian, body.Bytes())
	if err != nil {
		t.Fatalf("DecodeInterfaceDescription: %v", err)
	}
	if len(idb.UnknownOptionCodes) != 1 || idb.UnknownOptionCodes[0] != 999 {
		t.Fatalf("expected unknown option 999 tracked, got %+v", idb.UnknownOptionCodes)
	}
}

func TestDecodeEnhancedPacketTruncatedData(t *testing.T) {
	var body bytes.Buffer
	binary.Write(&body, binary.LittleEndian, uint32(0))  // interface id
	binary.Write(&body, binary.LittleEndian, uint32(0))  // ts high
	binary.Write(&body, binary.LittleEndian, uint32(0))  // ts low
	binary.Write(&body, binary.LittleEndian, uint32(100)) // captured_len claims 100 bytes
	binary.Write(&body, binary.LittleEndian, uint32(100)) // original_len
	body.Write([]byte{0x01, 0x02}) // but only 2 are actually present

	_, err := DecodeEnhancedPacket(binary.LittleEndian, body.Bytes())
	if _, ok := err.(TruncatedError); !ok {
		t.Fatalf("expected TruncatedError, got %v (%T)", err, err)
	}
}

func TestConvertTimestampSubNanosecondTruncation(t *testing.T) {
	// tsresol of 10^10 units/second: sub-nanosecond resolution, must
	// truncate (floor) rather than round or overflow.
	ts := ConvertTimestamp(15, 10_000_000_000, 0)
	if ts.Unix() != 0 {
		t.Fatalf("unexpected seconds: %d", ts.Unix())
	}
	if ts.Nanosecond() != 1 {
		t.Fatalf("expected truncation to 1ns, got %dns", ts.Nanosecond())
	}
}
