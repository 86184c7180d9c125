package block

import "encoding/binary"

// Unknown is a well-framed block of a type this decoder does not
// recognize. Its body is kept verbatim for callers that want to
// surface or re-emit it; no attempt is made to interpret its contents
// beyond the framing already validated by the caller.
type Unknown struct {
	Type uint32
	Body []byte
}

// DecodeUnknown wraps the body of a block whose type isn't one of the
// recognized block types. Framing (length, trailer) is already
// validated by the time a block reaches here, so there's nothing left
// to fail on.
func DecodeUnknown(blockType uint32, order binary.ByteOrder, body []byte) *Unknown {
	return &Unknown{Type: blockType, Body: append([]byte(nil), body...)}
}
