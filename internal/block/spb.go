package block

import "encoding/binary"

// SimplePacket is the decoded body of a Simple Packet Block. It carries
// no timestamp and implicitly refers to interface 0; the Simple Packet
// Block format has no trailing options.
type SimplePacket struct {
	OriginalLen uint32
	Data        []byte
}

// DecodeSimplePacket parses original_len and the (possibly truncated)
// data that follows. capturedLen is computed by the caller as
// min(original_len, snap_len of interface 0, body_len-4), since that
// requires section state this package doesn't hold.
func DecodeSimplePacket(order binary.ByteOrder, body []byte) (*SimplePacket, error) {
	if err := requireLen(body, 4); err != nil {
		return nil, err
	}
	sp := &SimplePacket{OriginalLen: readU32(order, body[0:4])}
	sp.Data = append([]byte(nil), body[4:]...)
	return sp, nil
}
