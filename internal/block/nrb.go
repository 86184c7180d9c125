package block

import "encoding/binary"

// NameRecord is a single IPv4/IPv6-to-name association decoded out of a
// Name Resolution Block's record list.
type NameRecord struct {
	RecordType uint16
	Address    []byte
	Names      []string
}

// NameResolution is the decoded body of a Name Resolution Block: a list
// of records terminated by an nrb_record_end marker, followed by the
// block's own (rarely used) options.
type NameResolution struct {
	Records []NameRecord
	Options []Option
}

// DecodeNameResolution walks the record list of a Name Resolution Block.
// A record whose declared length runs past the body ends the walk with an
// OptionLengthError; the records decoded before it are returned alongside
// that error. NRB is a "decoded enough to validate structure" block, so
// a malformed record is a per-block error, never a fatal one.
func DecodeNameResolution(order binary.ByteOrder, body []byte) (*NameResolution, error) {
	nr := &NameResolution{}
	i := 0
	for i+4 <= len(body) {
		recType := readU16(order, body[i:i+2])
		recLen := int(readU16(order, body[i+2:i+4]))
		i += 4

		if recType == 0 {
			break // nrb_record_end
		}
		if i+recLen > len(body) {
			return nr, OptionLengthError{Code: recType, RelOffset: i - 4}
		}

		value := body[i : i+recLen]
		i += recLen + pad32(recLen)

		switch recType {
		case 1: // IPv4: 4-byte address + NUL-terminated names
			if len(value) < 4 {
				continue
			}
			rec := NameRecord{RecordType: recType, Address: append([]byte(nil), value[:4]...)}
			rec.Names = splitNulStrings(value[4:])
			nr.Records = append(nr.Records, rec)
		case 2: // IPv6: 16-byte address + NUL-terminated names
			if len(value) < 16 {
				continue
			}
			rec := NameRecord{RecordType: recType, Address: append([]byte(nil), value[:16]...)}
			rec.Names = splitNulStrings(value[16:])
			nr.Records = append(nr.Records, rec)
		}
	}

	if i < len(body) {
		opts, err := WalkOptions(body[i:], order)
		if err != nil {
			return nr, err
		}
		nr.Options = opts
	}
	return nr, nil
}

func splitNulStrings(b []byte) []string {
	var names []string
	start := 0
	for i, c := range b {
		if c == 0 {
			if i > start {
				names = append(names, string(b[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(b) {
		names = append(names, string(b[start:]))
	}
	return names
}
