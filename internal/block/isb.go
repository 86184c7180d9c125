package block

import "encoding/binary"

// InterfaceStatistics is the decoded body of an Interface Statistics
// Block.
type InterfaceStatistics struct {
	InterfaceID uint32
	RawTS       uint64

	StartTimeRawTS *uint64
	EndTimeRawTS   *uint64
	PacketsReceived *uint64
	PacketsDropped  *uint64
	PacketsFiltered *uint64
	PacketsDelivered *uint64
	InterfaceDrop   *uint64
}

// DecodeInterfaceStatistics parses an Interface Statistics Block body.
func DecodeInterfaceStatistics(order binary.ByteOrder, body []byte) (*InterfaceStatistics, error) {
	if err := requireLen(body, 12); err != nil {
		return nil, err
	}
	isb := &InterfaceStatistics{
		InterfaceID: readU32(order, body[0:4]),
		RawTS:       (uint64(readU32(order, body[4:8])) << 32) | uint64(readU32(order, body[8:12])),
	}

	opts, err := WalkOptions(body[12:], order)
	if err != nil {
		return isb, err
	}
	for _, opt := range opts {
		if len(opt.Value) != 8 {
			continue
		}
		switch opt.Code {
		case 2:
			v := readU64(order, opt.Value)
			isb.StartTimeRawTS = &v
		case 3:
			v := readU64(order, opt.Value)
			isb.EndTimeRawTS = &v
		case 4:
			v := readU64(order, opt.Value)
			isb.PacketsReceived = &v
		case 5:
			v := readU64(order, opt.Value)
			isb.InterfaceDrop = &v
		case 6:
			v := readU64(order, opt.Value)
			isb.PacketsFiltered = &v
		case 7:
			v := readU64(order, opt.Value)
			isb.PacketsDropped = &v
		case 8:
			v := readU64(order, opt.Value)
			isb.PacketsDelivered = &v
		}
	}
	return isb, nil
}
