package block

import "encoding/binary"

// InterfaceDescription is the decoded body of an Interface Description
// Block. Optional fields are best-effort: absence leaves the zero value
// rather than an error, matching the option TLVs' own "absent means
// default" semantics.
type InterfaceDescription struct {
	LinkType uint16
	SnapLen  uint32

	Name        string
	Description string
	NameInvalidUTF8 bool
	DescInvalidUTF8 bool

	// TSResolRaw is the raw if_tsresol byte; clamping against overflow
	// needs the per-Capture fallback resolution, which this package
	// doesn't have, so that check happens in section.State.AddInterface.
	TSResolRaw byte
	HasTSResol bool

	TSOffsetSeconds int64
	HasTSOffset     bool

	IPv4Addrs [][8]byte
	IPv6Addrs [][17]byte
	MACAddr   *[6]byte
	EUIAddr   *[8]byte
	SpeedBps  *uint64
	TZOffset  *int32
	Filter    string
	OS        string
	OSInvalidUTF8 bool
	FCSLenBits *uint8
	Hardware   string
	HardwareInvalidUTF8 bool
	TxSpeedBps *uint64
	RxSpeedBps *uint64

	UnknownOptionCodes []uint16
}

// DecodeInterfaceDescription parses link_type, reserved, snap_len and the
// option list of an Interface Description Block.
func DecodeInterfaceDescription(order binary.ByteOrder, body []byte) (*InterfaceDescription, error) {
	if err := requireLen(body, 8); err != nil {
		return nil, err
	}
	idb := &InterfaceDescription{
		LinkType: readU16(order, body[0:2]),
		SnapLen:  readU32(order, body[4:8]),
	}

	opts, err := WalkOptions(body[8:], order)
	if err != nil {
		return idb, err
	}

	for _, opt := range opts {
		switch opt.Code {
		case 2:
			idb.Name, idb.NameInvalidUTF8 = decodeOptionString(opt.Value)
		case 3:
			idb.Description, idb.DescInvalidUTF8 = decodeOptionString(opt.Value)
		case 4:
			if len(opt.Value) == 8 {
				var v [8]byte
				copy(v[:], opt.Value)
				idb.IPv4Addrs = append(idb.IPv4Addrs, v)
			}
		case 5:
			if len(opt.Value) == 17 {
				var v [17]byte
				copy(v[:], opt.Value)
				idb.IPv6Addrs = append(idb.IPv6Addrs, v)
			}
		case 6:
			if len(opt.Value) == 6 {
				var v [6]byte
				copy(v[:], opt.Value)
				idb.MACAddr = &v
			}
		case 7:
			if len(opt.Value) == 8 {
				var v [8]byte
				copy(v[:], opt.Value)
				idb.EUIAddr = &v
			}
		case 8:
			if len(opt.Value) == 8 {
				v := readU64(order, opt.Value)
				idb.SpeedBps = &v
			}
		case 9:
			if len(opt.Value) >= 1 {
				idb.TSResolRaw = opt.Value[0]
				idb.HasTSResol = true
			}
		case 10:
			if len(opt.Value) == 4 {
				v := int32(readU32(order, opt.Value))
				idb.TZOffset = &v
			}
		case 11:
			idb.Filter, _ = decodeOptionString(opt.Value)
		case 12:
			idb.OS, idb.OSInvalidUTF8 = decodeOptionString(opt.Value)
		case 13:
			if len(opt.Value) == 1 {
				v := opt.Value[0]
				idb.FCSLenBits = &v
			}
		case 14:
			if len(opt.Value) == 8 {
				idb.TSOffsetSeconds = readI64(order, opt.Value)
				idb.HasTSOffset = true
			}
		case 15:
			idb.Hardware, idb.HardwareInvalidUTF8 = decodeOptionString(opt.Value)
		case 16:
			if len(opt.Value) == 8 {
				v := readU64(order, opt.Value)
				idb.TxSpeedBps = &v
			}
		case 17:
			if len(opt.Value) == 8 {
				v := readU64(order, opt.Value)
				idb.RxSpeedBps = &v
			}
		default:
			idb.UnknownOptionCodes = append(idb.UnknownOptionCodes, opt.Code)
		}
	}

	return idb, nil
}

func decodeOptionString(value []byte) (string, bool) {
	s, ok := DecodeUTF8String(value)
	if !ok {
		return string(value), true // invalid=true; caller decides how to surface it
	}
	return s, false
}
