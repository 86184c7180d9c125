package block

import (
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Option is a single decoded TLV: code, raw value (padding stripped).
type Option struct {
	Code  uint16
	Value []byte
}

// OptionLengthError reports an option TLV whose declared length overruns
// the remaining block body. RelOffset is relative to the start of the
// options region that was being walked.
type OptionLengthError struct {
	Code      uint16
	RelOffset int
}

func (e OptionLengthError) Error() string { return "block: option length overruns body" }

// WalkOptions parses the TLV option list that terminates most pcapng
// block bodies. It stops at an explicit end-of-options (code 0) or when
// the body is exhausted, matching the "terminated by code 0 or
// end-of-body" rule. A length that would overrun the remaining bytes
// yields a skip-block OptionLengthError with the rest of the options
// discarded, the same "resynchronisation is impossible past this point"
// rule the Framer applies at the block level.
func WalkOptions(body []byte, order binary.ByteOrder) ([]Option, error) {
	var opts []Option
	i := 0
	for i+4 <= len(body) {
		code := readU16(order, body[i:i+2])
		length := int(readU16(order, body[i+2:i+4]))
		i += 4

		if code == 0 {
			return opts, nil
		}

		if i+length > len(body) {
			return opts, OptionLengthError{Code: code, RelOffset: i - 4}
		}

		value := make([]byte, length)
		copy(value, body[i:i+length])
		opts = append(opts, Option{Code: code, Value: value})
		i += length + pad32(length)
	}
	return opts, nil
}

// FindOption returns the first option with the given code, if any.
func FindOption(opts []Option, code uint16) (Option, bool) {
	for _, o := range opts {
		if o.Code == code {
			return o, true
		}
	}
	return Option{}, false
}

var utf8Decoder = unicode.UTF8.NewDecoder()

// DecodeUTF8String strictly validates value as UTF-8 and returns
// (string, false) if it isn't valid UTF-8 so the caller can raise
// InvalidUTF8OptionError instead of silently accepting mojibake. Valid
// input is then passed through the same transform machinery a
// text-encoding-aware pipeline would use for any other charset (the
// x/text UTF-8 decoder alone replaces bad bytes rather than failing).
func DecodeUTF8String(value []byte) (string, bool) {
	if !utf8.Valid(value) {
		return "", false
	}
	decoded, err := utf8Decoder.Bytes(value)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
