package block

import "encoding/binary"

// EnhancedPacket is the decoded body of an Enhanced Packet Block.
type EnhancedPacket struct {
	InterfaceID uint32
	RawTS       uint64
	CapturedLen uint32
	OriginalLen uint32
	Data        []byte
	DataOffset  int // byte offset of Data within the block body, for diagnostics
	Options     []Option
}

// DecodeEnhancedPacket parses the fixed fields, captured data, and option
// list of an Enhanced Packet Block body.
func DecodeEnhancedPacket(order binary.ByteOrder, body []byte) (*EnhancedPacket, error) {
	if err := requireLen(body, 20); err != nil {
		return nil, err
	}

	epb := &EnhancedPacket{
		InterfaceID: readU32(order, body[0:4]),
		RawTS:       (uint64(readU32(order, body[4:8])) << 32) | uint64(readU32(order, body[8:12])),
		CapturedLen: readU32(order, body[12:16]),
		OriginalLen: readU32(order, body[16:20]),
		DataOffset:  20,
	}

	end := 20 + int(epb.CapturedLen)
	if end < 20 || end > len(body) {
		return nil, TruncatedError{}
	}
	epb.Data = append([]byte(nil), body[20:end]...)

	off := end + pad32(int(epb.CapturedLen))
	if off > len(body) {
		return nil, TruncatedError{}
	}

	opts, err := WalkOptions(body[off:], order)
	if err != nil {
		return epb, err
	}
	epb.Options = opts
	return epb, nil
}
