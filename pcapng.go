// Package pcapng decodes pcapng capture streams: Section Header,
// Interface Description, Enhanced/Simple/obsolete Packet, Interface
// Statistics, and Name Resolution blocks, presented as a single
// Packet iterator with a three-tier error policy (warn-only, per-block
// non-fatal, stream-ending fatal).
package pcapng

import (
	"context"
	"encoding/binary"
	"errors"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/sofiworker/pcapng/internal/block"
	"github.com/sofiworker/pcapng/internal/frame"
	"github.com/sofiworker/pcapng/internal/section"
)

// Capture decodes packets out of a pcapng stream. It is not safe for
// concurrent use by multiple goroutines; callers that want to decode
// several streams concurrently should give each its own Capture (see
// pcapngutil.DecodeFiles).
type Capture struct {
	framer *frame.Framer
	state  *section.State
	cfg    *config
	log    *zap.Logger

	nameRecords []NameRecord
	stats       map[uint64]*InterfaceStats

	// sectionSilenced is set when the current section's Section Header
	// declares an unsupported major version: frames keep being consumed
	// (so the next SHB is still found) but IDB/packet/ISB/NRB decoding
	// is skipped until that next SHB resets it.
	sectionSilenced    bool
	warnedUnknownTypes map[uint32]bool // deduped once per type per section

	fatal error // sticky once set; every subsequent Next returns io.EOF
}

// New returns a Capture reading framed pcapng blocks from r.
func New(r io.Reader, opts ...Option) *Capture {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f := frame.New(r)
	f.SetMaxBlockSize(cfg.maxBlockSize)

	return &Capture{
		framer:             f,
		state:              section.New(cfg.defaultRes),
		cfg:                cfg,
		log:                zap.NewNop(),
		stats:              make(map[uint64]*InterfaceStats),
		warnedUnknownTypes: make(map[uint32]bool),
	}
}

// WithLogger attaches a zap logger used for Tier-1 (warn-and-continue)
// diagnostics. The default is a no-op logger.
func (c *Capture) WithLogger(log *zap.Logger) *Capture {
	if log != nil {
		c.log = log
	}
	return c
}

// Next returns the next packet in the stream. Once any fatal error has
// been returned, every subsequent call returns io.EOF.
func (c *Capture) Next() (*Packet, error) {
	if c.fatal != nil {
		return nil, io.EOF
	}

	for {
		fb, err := c.framer.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			c.fatal = translateFrameErr(err)
			return nil, c.fatal
		}

		pkt, err := c.handleBlock(fb)
		if err != nil {
			// Tier 2: surfaced once, iteration continues on the next call.
			return nil, err
		}
		if pkt != nil {
			c.recordMetric("packets_decoded", 1)
			return pkt, nil
		}
		// A block that returned no error and no packet (SHB on a
		// supported version, IDB, ISB, NRB, Unknown) falls through to
		// the next framed block with no caller-visible signal.
	}
}

// translateFrameErr maps the internal/frame sentinel set onto the
// public sentinel set, so callers only ever import the root package's
// error values.
func translateFrameErr(err error) error {
	switch {
	case errors.Is(err, frame.ErrLegacyPcap):
		return ErrLegacyPcap
	case errors.Is(err, frame.ErrBadMagic):
		return ErrBadMagic
	case errors.Is(err, frame.ErrBadBlockLength):
		return ErrBadBlockLength
	case errors.Is(err, frame.ErrTrailerMismatch):
		return ErrTrailerMismatch
	case errors.Is(err, frame.ErrUnexpectedEOF):
		return ErrUnexpectedEOF
	}
	var srcErr *frame.SourceReadError
	if errors.As(err, &srcErr) {
		return &SourceReadError{Err: srcErr.Err}
	}
	return err
}

func (c *Capture) handleBlock(fb *frame.Block) (*Packet, error) {
	order := c.framer.ByteOrder()

	// The Section Header itself is never silenced: it's the only block
	// that can lift the silence a prior unsupported version imposed.
	if block.BlockType(fb.Type) == block.SectionHeaderType {
		return nil, c.handleSectionHeader(fb, order)
	}
	if c.sectionSilenced {
		return nil, nil
	}

	switch block.BlockType(fb.Type) {
	case block.InterfaceDescriptionType:
		return nil, c.handleInterfaceDescription(fb, order)
	case block.EnhancedPacketType:
		return c.handleEnhancedPacket(fb, order)
	case block.ObsoletePacketType:
		return c.handleObsoletePacket(fb, order)
	case block.SimplePacketType:
		return c.handleSimplePacket(fb, order)
	case block.InterfaceStatisticsType:
		return nil, c.handleInterfaceStatistics(fb, order)
	case block.NameResolutionType:
		return nil, c.handleNameResolution(fb, order)
	default:
		c.warnUnknownBlockType(fb.Type)
		block.DecodeUnknown(fb.Type, order, fb.Body)
		c.recordMetric("blocks_skipped", 1)
		return nil, nil
	}
}

// warnUnknownBlockType logs once per block type per section, per the
// "warn once per type per section" policy for well-framed but
// unrecognised block types.
func (c *Capture) warnUnknownBlockType(t uint32) {
	if c.warnedUnknownTypes[t] {
		return
	}
	c.warnedUnknownTypes[t] = true
	c.log.Warn("unrecognised block type", zap.Uint32("type", t))
}

func (c *Capture) handleSectionHeader(fb *frame.Block, order binary.ByteOrder) error {
	magic := block.ByteOrderMagicLittle
	if order == binary.BigEndian {
		magic = block.ByteOrderMagicBig
	}
	shb, err := block.DecodeSectionHeader(order, magic, fb.Body[4:])
	if err != nil {
		return c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}

	c.state.BeginSection()
	c.warnedUnknownTypes = make(map[uint32]bool)

	if shb.MajorVersion != 1 {
		c.sectionSilenced = true
		return c.tierTwo(&UnsupportedVersionError{Major: shb.MajorVersion, Minor: shb.MinorVersion})
	}
	c.sectionSilenced = false
	return nil
}

// firstInvalidUTF8OptionCode reports the option code of the first
// UTF-8-flagged string field that failed validation, so
// InvalidUTF8OptionError has something concrete to cite when more than
// one field on the same Interface Description Block is bad.
func firstInvalidUTF8OptionCode(idb *block.InterfaceDescription) (code uint16, bad bool) {
	switch {
	case idb.NameInvalidUTF8:
		return 2, true
	case idb.DescInvalidUTF8:
		return 3, true
	case idb.OSInvalidUTF8:
		return 12, true
	case idb.HardwareInvalidUTF8:
		return 15, true
	default:
		return 0, false
	}
}

func (c *Capture) handleInterfaceDescription(fb *frame.Block, order binary.ByteOrder) error {
	idb, err := block.DecodeInterfaceDescription(order, fb.Body)
	if err != nil {
		return c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}
	if code, bad := firstInvalidUTF8OptionCode(idb); bad {
		return c.tierTwo(&InvalidUTF8OptionError{Code: code, Offset: fb.BodyOffset})
	}
	for _, code := range idb.UnknownOptionCodes {
		c.log.Warn("unrecognised interface description option", zap.Uint16("code", code))
	}

	global, clamped := c.state.AddInterface(idb, c.nextLocalInterfaceID())
	if clamped {
		c.log.Warn("timestamp resolution clamped to fallback", zap.Int64("offset", fb.BodyOffset))
	}
	if iface, ok := c.state.Interface(global); ok && iface.TSResolUnits > 1_000_000_000 {
		c.log.Warn("timestamp resolution finer than a nanosecond; timestamps are truncated", zap.Int64("offset", fb.BodyOffset))
	}
	return nil
}

// nextLocalInterfaceID assumes interfaces are declared in ascending
// order starting at zero within a section, the convention every
// pcapng writer in practice follows; section.State.Resolve keys off
// this same assumption.
func (c *Capture) nextLocalInterfaceID() uint32 {
	count := uint32(0)
	for _, iface := range c.state.Interfaces() {
		if iface.SectionID == c.state.SectionID() {
			count++
		}
	}
	return count
}

func (c *Capture) handleEnhancedPacket(fb *frame.Block, order binary.ByteOrder) (*Packet, error) {
	epb, err := block.DecodeEnhancedPacket(order, fb.Body)
	if err != nil {
		return nil, c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}

	globalID, ok := c.state.Resolve(epb.InterfaceID)
	if !ok {
		return nil, c.tierTwo(&UnknownInterfaceError{InterfaceID: epb.InterfaceID, Offset: fb.BodyOffset})
	}
	iface, _ := c.state.Interface(globalID)

	pkt := &Packet{
		Timestamp:    block.ConvertTimestamp(epb.RawTS, iface.TSResolUnits, iface.TSOffsetSeconds),
		InterfaceID:  globalID,
		OriginOffset: fb.BodyOffset + int64(epb.DataOffset),
		Data:         epb.Data,
		CapturedLen:  epb.CapturedLen,
		OriginalLen:  epb.OriginalLen,
	}
	if iface.SnapLen != 0 && epb.CapturedLen > iface.SnapLen {
		if c.cfg.strict {
			return nil, c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
		}
		c.log.Warn("captured length exceeds interface snap length",
			zap.Uint32("captured", epb.CapturedLen), zap.Uint32("snaplen", iface.SnapLen))
	}
	return pkt, nil
}

func (c *Capture) handleObsoletePacket(fb *frame.Block, order binary.ByteOrder) (*Packet, error) {
	c.log.Warn("obsolete packet block is deprecated", zap.Int64("offset", fb.BodyOffset))

	pb, err := block.DecodeObsoletePacket(order, fb.Body)
	if err != nil {
		return nil, c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}
	globalID, ok := c.state.Resolve(uint32(pb.InterfaceID))
	if !ok {
		return nil, c.tierTwo(&UnknownInterfaceError{InterfaceID: uint32(pb.InterfaceID), Offset: fb.BodyOffset})
	}
	iface, _ := c.state.Interface(globalID)

	return &Packet{
		Timestamp:    block.ConvertTimestamp(pb.RawTS, iface.TSResolUnits, iface.TSOffsetSeconds),
		InterfaceID:  globalID,
		OriginOffset: fb.BodyOffset + 20,
		Data:         pb.Data,
		CapturedLen:  pb.CapturedLen,
		OriginalLen:  pb.OriginalLen,
	}, nil
}

func (c *Capture) handleSimplePacket(fb *frame.Block, order binary.ByteOrder) (*Packet, error) {
	sp, err := block.DecodeSimplePacket(order, fb.Body)
	if err != nil {
		return nil, c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}

	globalID, ok := c.state.Resolve(0)
	if !ok {
		return nil, c.tierTwo(&UnknownInterfaceError{InterfaceID: 0, Offset: fb.BodyOffset})
	}
	var snapLen uint32
	if iface, found := c.state.Interface(globalID); found {
		snapLen = iface.SnapLen
	}

	capturedLen := sp.OriginalLen
	if snapLen != 0 && capturedLen > snapLen {
		capturedLen = snapLen
	}
	if int(capturedLen) > len(sp.Data) {
		capturedLen = uint32(len(sp.Data))
	}

	return &Packet{
		InterfaceID:  globalID,
		OriginOffset: fb.BodyOffset + 4,
		Data:         sp.Data[:capturedLen],
		CapturedLen:  capturedLen,
		OriginalLen:  sp.OriginalLen,
	}, nil
}

func (c *Capture) handleInterfaceStatistics(fb *frame.Block, order binary.ByteOrder) error {
	isb, err := block.DecodeInterfaceStatistics(order, fb.Body)
	if err != nil {
		return c.tierTwo(&TruncatedBlockBodyError{BlockType: fb.Type, Offset: fb.BodyOffset})
	}
	globalID, ok := c.state.Resolve(isb.InterfaceID)
	if !ok {
		c.log.Warn("interface statistics for unknown interface", zap.Uint32("interface_id", isb.InterfaceID))
		return nil
	}

	iface, _ := c.state.Interface(globalID)
	stats := &InterfaceStats{
		PacketsReceived:  isb.PacketsReceived,
		PacketsDropped:   isb.PacketsDropped,
		PacketsFiltered:  isb.PacketsFiltered,
		PacketsDelivered: isb.PacketsDelivered,
		InterfaceDrop:    isb.InterfaceDrop,
	}
	if isb.StartTimeRawTS != nil {
		t := block.ConvertTimestamp(*isb.StartTimeRawTS, iface.TSResolUnits, iface.TSOffsetSeconds)
		stats.StartTime = &t
	}
	if isb.EndTimeRawTS != nil {
		t := block.ConvertTimestamp(*isb.EndTimeRawTS, iface.TSResolUnits, iface.TSOffsetSeconds)
		stats.EndTime = &t
	}
	c.stats[globalID] = stats
	return nil
}

func (c *Capture) handleNameResolution(fb *frame.Block, order binary.ByteOrder) error {
	nr, err := block.DecodeNameResolution(order, fb.Body)
	if err != nil {
		return c.tierTwo(&BadOptionLengthError{Offset: fb.BodyOffset})
	}
	for _, rec := range nr.Records {
		c.nameRecords = append(c.nameRecords, NameRecord{
			RecordType: rec.RecordType,
			Address:    rec.Address,
			Names:      rec.Names,
		})
	}
	return nil
}

func (c *Capture) tierTwo(err error) error {
	c.log.Warn("non-fatal block decode error", zap.Error(err))
	return err
}

func (c *Capture) recordMetric(name string, n int64) {
	if c.cfg.meter == nil {
		return
	}
	counter, err := c.cfg.meter.Int64Counter(name)
	if err != nil {
		return
	}
	counter.Add(context.Background(), n, metric.WithAttributes(attribute.String("component", "pcapng")))
}

// Interface returns the interface with the given global id, as
// assigned by this Capture (see Packet.InterfaceID).
func (c *Capture) Interface(globalID uint64) (*Interface, bool) {
	iface, ok := c.state.Interface(globalID)
	if !ok {
		return nil, false
	}
	return &Interface{
		LinkType:        iface.LinkType,
		SnapLen:         iface.SnapLen,
		TSResolUnits:    iface.TSResolUnits,
		TSOffsetSeconds: iface.TSOffsetSeconds,
		Name:            iface.Name,
		Description:     iface.Description,
		SectionID:       iface.SectionID,
		IPv4Addrs:       iface.IPv4Addrs,
		IPv6Addrs:       iface.IPv6Addrs,
		MACAddr:         iface.MACAddr,
		EUIAddr:         iface.EUIAddr,
		SpeedBps:        iface.SpeedBps,
		TZOffsetSeconds: iface.TZOffsetSeconds,
		Filter:          iface.Filter,
		OS:              iface.OS,
		FCSLenBits:      iface.FCSLenBits,
		Hardware:        iface.Hardware,
		TxSpeedBps:      iface.TxSpeedBps,
		RxSpeedBps:      iface.RxSpeedBps,
	}, true
}

// ResolvedNames returns every name-resolution record decoded so far.
func (c *Capture) ResolvedNames() []NameRecord {
	return c.nameRecords
}

// InterfaceStats returns the most recently decoded Interface Statistics
// Block contents for the given global interface id.
func (c *Capture) InterfaceStats(globalID uint64) (InterfaceStats, bool) {
	stats, ok := c.stats[globalID]
	if !ok {
		return InterfaceStats{}, false
	}
	return *stats, true
}
