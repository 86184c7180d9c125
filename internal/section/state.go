// Package section tracks per-section decoding state: the ordered
// interface table declared by Interface Description Blocks, the section
// ordinal, and the running assignment of global interface ids across
// section boundaries. The active byte order is kept by the frame.Framer,
// not here.
package section

import (
	"github.com/sofiworker/pcapng/internal/block"
)

const defaultTSResolUnits = 1_000_000

// Interface is the decoded, section-scoped form of an Interface
// Description Block, plus the global id this State assigned it.
type Interface struct {
	GlobalID uint64

	LinkType uint16
	SnapLen  uint32

	TSResolUnits    uint64
	TSOffsetSeconds int64

	Name        string
	Description string

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

	SectionID uint64
}

// State is the decoder's view of the current and all prior sections.
// Interface ids in pcapng are only unique within a section; State
// assigns every interface a monotonically increasing global id so
// callers never have to reason about which section a packet's
// interface_id was declared in.
type State struct {
	sectionID     uint64
	sectionsSeen  int
	localToGlobal map[uint32]uint64
	interfaces    []*Interface // indexed by GlobalID

	defaultTSResol uint64
}

// New returns a State with no sections seen yet. defaultRes is the
// units-per-second assumed for an interface that declares no
// if_tsresol option; zero falls back to the pcapng default of 10^6.
func New(defaultRes uint64) *State {
	if defaultRes == 0 {
		defaultRes = defaultTSResolUnits
	}
	return &State{localToGlobal: map[uint32]uint64{}, defaultTSResol: defaultRes}
}

// BeginSection starts a new section, discarding the previous section's
// local interface-id table (global ids and the interface table itself
// persist across the call).
func (s *State) BeginSection() {
	if s.sectionsSeen > 0 {
		s.sectionID++
	}
	s.sectionsSeen++
	s.localToGlobal = map[uint32]uint64{}
}

// AddInterface registers an Interface Description Block's decoded body
// as the next interface in the current section, returning the global
// id it was assigned and whether its declared timestamp resolution had
// to be clamped to the fallback (caller should warn on true).
func (s *State) AddInterface(idb *block.InterfaceDescription, localID uint32) (global uint64, tsResolClamped bool) {
	global = uint64(len(s.interfaces))

	iface := &Interface{
		GlobalID:    global,
		LinkType:    idb.LinkType,
		SnapLen:     idb.SnapLen,
		Name:        idb.Name,
		Description: idb.Description,
		IPv4Addrs:   idb.IPv4Addrs,
		IPv6Addrs:   idb.IPv6Addrs,
		MACAddr:     idb.MACAddr,
		EUIAddr:     idb.EUIAddr,
		SpeedBps:    idb.SpeedBps,
		Filter:      idb.Filter,
		OS:          idb.OS,
		FCSLenBits:  idb.FCSLenBits,
		Hardware:    idb.Hardware,
		TxSpeedBps:  idb.TxSpeedBps,
		RxSpeedBps:  idb.RxSpeedBps,
		SectionID:   s.sectionID,
	}

	if idb.HasTSResol {
		units, clamped := block.ParseTSResol(idb.TSResolRaw, s.defaultTSResol)
		iface.TSResolUnits = units
		tsResolClamped = clamped
	} else {
		iface.TSResolUnits = s.defaultTSResol
	}
	if idb.HasTSOffset {
		iface.TSOffsetSeconds = idb.TSOffsetSeconds
	}
	if idb.TZOffset != nil {
		iface.TZOffsetSeconds = *idb.TZOffset
	}

	s.interfaces = append(s.interfaces, iface)
	s.localToGlobal[localID] = global
	return global, tsResolClamped
}

// Resolve maps a section-local interface id (as it appears in a packet
// block) to the global id assigned by AddInterface, within the current
// section only.
func (s *State) Resolve(localID uint32) (uint64, bool) {
	id, ok := s.localToGlobal[localID]
	return id, ok
}

// Interface returns the interface with the given global id.
func (s *State) Interface(globalID uint64) (*Interface, bool) {
	if globalID >= uint64(len(s.interfaces)) {
		return nil, false
	}
	return s.interfaces[globalID], true
}

// Interfaces returns every interface declared so far, across all
// sections, ordered by global id.
func (s *State) Interfaces() []*Interface {
	return s.interfaces
}

// SectionID reports the ordinal (0-based) of the section currently
// being decoded.
func (s *State) SectionID() uint64 { return s.sectionID }
