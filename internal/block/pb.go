package block

import "encoding/binary"

// ObsoletePacket is the decoded body of the obsolete Packet Block
// (0x00000002), parsed with the same timestamp semantics as an Enhanced
// Packet Block, per its historical layout.
type ObsoletePacket struct {
	InterfaceID uint16
	DropsCount  *uint16 // nil when the field is the reserved 0xFFFF sentinel
	RawTS       uint64
	CapturedLen uint32
	OriginalLen uint32
	Data        []byte
	Options     []Option
}

// DecodeObsoletePacket parses an obsolete Packet Block body.
func DecodeObsoletePacket(order binary.ByteOrder, body []byte) (*ObsoletePacket, error) {
	if err := requireLen(body, 20); err != nil {
		return nil, err
	}

	pb := &ObsoletePacket{InterfaceID: readU16(order, body[0:2])}
	if drops := readU16(order, body[2:4]); drops != 0xFFFF {
		pb.DropsCount = &drops
	}
	pb.RawTS = (uint64(readU32(order, body[4:8])) << 32) | uint64(readU32(order, body[8:12]))
	pb.CapturedLen = readU32(order, body[12:16])
	pb.OriginalLen = readU32(order, body[16:20])

	end := 20 + int(pb.CapturedLen)
	if end < 20 || end > len(body) {
		return nil, TruncatedError{}
	}
	pb.Data = append([]byte(nil), body[20:end]...)

	off := end + pad32(int(pb.CapturedLen))
	if off > len(body) {
		return nil, TruncatedError{}
	}

	opts, err := WalkOptions(body[off:], order)
	if err != nil {
		return pb, err
	}
	pb.Options = opts
	return pb, nil
}
