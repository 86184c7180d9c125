package block

import "encoding/binary"

// SectionHeader is the decoded body of a Section Header Block, minus its
// own type/length/trailer (the Framer already validated those).
type SectionHeader struct {
	ByteOrderMagic uint32
	MajorVersion   uint16
	MinorVersion   uint16
	SectionLength  int64 // -1 means "unspecified"
	Options        []Option
}

// DecodeSectionHeader parses everything after the byte-order magic that
// the Framer already consumed to pick order: major/minor version,
// section length, and options.
func DecodeSectionHeader(order binary.ByteOrder, byteOrderMagic uint32, rest []byte) (*SectionHeader, error) {
	if err := requireLen(rest, 12); err != nil {
		return nil, err
	}
	major := readU16(order, rest[0:2])
	minor := readU16(order, rest[2:4])
	sectionLength := readI64(order, rest[4:12])

	opts, err := WalkOptions(rest[12:], order)
	if err != nil {
		return nil, err
	}

	return &SectionHeader{
		ByteOrderMagic: byteOrderMagic,
		MajorVersion:   major,
		MinorVersion:   minor,
		SectionLength:  sectionLength,
		Options:        opts,
	}, nil
}
