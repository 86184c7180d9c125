// Package block implements the typed pcapng block decoders: Section
// Header, Interface Description, Enhanced/Simple/obsolete Packet, Name
// Resolution, Interface Statistics, and well-framed-but-unknown blocks.
package block

import "encoding/binary"

// BlockType identifies a pcapng block's 32-bit type field.
type BlockType uint32

const (
	SectionHeaderType        BlockType = 0x0A0D0D0A
	InterfaceDescriptionType BlockType = 0x00000001
	ObsoletePacketType       BlockType = 0x00000002
	SimplePacketType         BlockType = 0x00000003
	NameResolutionType       BlockType = 0x00000004
	InterfaceStatisticsType  BlockType = 0x00000005
	EnhancedPacketType       BlockType = 0x00000006
)

const (
	ByteOrderMagicLittle uint32 = 0x1A2B3C4D
	ByteOrderMagicBig    uint32 = 0x4D3C2B1A
)

// TruncatedError reports that a fixed-layout field ran past the end of the
// decoded body; callers convert it into the caller-visible
// TruncatedBlockBodyError with the block type and stream offset attached.
type TruncatedError struct{}

func (TruncatedError) Error() string { return "block: truncated body" }

func requireLen(body []byte, n int) error {
	if len(body) < n {
		return TruncatedError{}
	}
	return nil
}

func readU16(order binary.ByteOrder, b []byte) uint16 { return order.Uint16(b) }
func readU32(order binary.ByteOrder, b []byte) uint32 { return order.Uint32(b) }
func readU64(order binary.ByteOrder, b []byte) uint64 { return order.Uint64(b) }
func readI64(order binary.ByteOrder, b []byte) int64  { return int64(order.Uint64(b)) }

// pad32 returns the number of padding bytes needed to align n to 4.
func pad32(n int) int { return (4 - (n % 4)) % 4 }
