package pcapng

import "time"

// Packet is a single captured frame, fully owned by the caller once
// returned from Capture.Next. Its byte slice is a copy; the Window it was
// read from is free to recycle storage immediately afterwards.
type Packet struct {
	// Timestamp is the packet's wall-clock instant, converted to the
	// interface's declared resolution. It is the zero Time when the
	// interface has no usable timestamp convention (Simple Packet Blocks).
	Timestamp time.Time

	// InterfaceID is a global id: unique across the whole stream, even
	// across multiple sections, by construction (see Capture.Interface).
	InterfaceID uint64

	// OriginOffset is the byte offset of this packet's data field within
	// the underlying stream, for diagnostic citation.
	OriginOffset int64

	// Data is the raw captured link-layer bytes; len(Data) <= CapturedLen.
	Data []byte

	// CapturedLen is the number of octets actually stored (after any
	// snap-length truncation).
	CapturedLen uint32

	// OriginalLen is the on-wire length before truncation to snap length.
	OriginalLen uint32
}

// Interface is a declared packet source within one section of the stream.
type Interface struct {
	// LinkType is the 16-bit link-layer type code registered by
	// tcpdump.org.
	LinkType uint16

	// SnapLen is the maximum number of captured bytes per packet; zero
	// means unlimited.
	SnapLen uint32

	// TSResolUnits is the number of timestamp units per second; a
	// declared if_tsresol whose value overflows a uint64 is replaced by
	// the fallback resolution.
	TSResolUnits uint64

	// TSOffsetSeconds is added to every raw timestamp on this interface.
	TSOffsetSeconds int64

	// Name and Description are optional UTF-8 strings from if_name/
	// if_description; empty when absent.
	Name        string
	Description string

	// SectionID is the ordinal of the section that declared this
	// interface (0-based).
	SectionID uint64

	// The following are best-effort, populated from Interface Description
	// Block options when present; absence leaves the zero value.
	IPv4Addrs       [][8]byte
	IPv6Addrs       [][17]byte
	MACAddr         *[6]byte
	EUIAddr         *[8]byte
	SpeedBps        *uint64
	TZOffsetSeconds int32
	Filter          string
	OS              string
	FCSLenBits      *uint8
	Hardware        string
	TxSpeedBps      *uint64
	RxSpeedBps      *uint64
}

// InterfaceStats holds the best-effort contents of an Interface Statistics
// Block for one interface.
type InterfaceStats struct {
	StartTime       *time.Time
	EndTime         *time.Time
	PacketsReceived *uint64
	PacketsDropped  *uint64
	PacketsFiltered *uint64
	PacketsDelivered *uint64
	InterfaceDrop   *uint64
}

// NameRecord is a single entry from a Name Resolution Block.
type NameRecord struct {
	// RecordType is 1 (IPv4) or 2 (IPv6) per the pcapng registry.
	RecordType uint16
	Address    []byte
	Names      []string
}
