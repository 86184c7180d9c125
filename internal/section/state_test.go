package section

import (
	"testing"

	"github.com/sofiworker/pcapng/internal/block"
)

func TestBeginSectionDoesNotAdvanceOrdinalOnFirstCall(t *testing.T) {
	s := New(0)
	if got := s.SectionID(); got != 0 {
		t.Fatalf("expected section id 0 before any BeginSection call, got %d", got)
	}
	s.BeginSection()
	if got := s.SectionID(); got != 0 {
		t.Fatalf("expected the first section to stay ordinal 0, got %d", got)
	}
	s.BeginSection()
	if got := s.SectionID(); got != 1 {
		t.Fatalf("expected the second section to advance to ordinal 1, got %d", got)
	}
}

func TestAddInterfaceAssignsMonotonicGlobalIDsAcrossSections(t *testing.T) {
	s := New(0)
	s.BeginSection()

	eth0, _ := s.AddInterface(&block.InterfaceDescription{LinkType: 1, Name: "eth0"}, 0)
	eth1, _ := s.AddInterface(&block.InterfaceDescription{LinkType: 1, Name: "eth1"}, 1)
	if eth0 != 0 || eth1 != 1 {
		t.Fatalf("expected global ids 0 and 1, got %d and %d", eth0, eth1)
	}

	s.BeginSection() // new section reuses local id 0 for a different interface
	eth2, _ := s.AddInterface(&block.InterfaceDescription{LinkType: 1, Name: "eth2"}, 0)
	if eth2 != 2 {
		t.Fatalf("expected global interface ids to keep incrementing across sections, got %d", eth2)
	}

	if _, ok := s.Resolve(1); ok {
		t.Fatalf("local id 1 from the prior section must not resolve after BeginSection")
	}
	got, ok := s.Resolve(0)
	if !ok || got != eth2 {
		t.Fatalf("expected local id 0 to resolve to the current section's interface %d, got %d (ok=%v)", eth2, got, ok)
	}
}

func TestInterfaceLookupByGlobalID(t *testing.T) {
	s := New(0)
	s.BeginSection()
	global, _ := s.AddInterface(&block.InterfaceDescription{LinkType: 1, Name: "eth0"}, 0)

	iface, ok := s.Interface(global)
	if !ok || iface.Name != "eth0" {
		t.Fatalf("expected to find eth0 by global id, got %+v (ok=%v)", iface, ok)
	}

	if _, ok := s.Interface(global + 1); ok {
		t.Fatalf("expected lookup of an unassigned global id to fail")
	}

	if got := len(s.Interfaces()); got != 1 {
		t.Fatalf("expected 1 interface tracked across all sections, got %d", got)
	}
}

func TestAddInterfaceDefaultTSResolFallsBackWhenOptionAbsent(t *testing.T) {
	s := New(0) // zero means fall back to the pcapng default of 10^6 units/sec
	s.BeginSection()
	global, clamped := s.AddInterface(&block.InterfaceDescription{LinkType: 1}, 0)
	if clamped {
		t.Fatalf("expected no clamping when the interface declares no if_tsresol option")
	}

	iface, _ := s.Interface(global)
	if iface.TSResolUnits != 1_000_000 {
		t.Fatalf("expected default tsresol of 1e6 units/sec, got %d", iface.TSResolUnits)
	}
}

func TestAddInterfaceUsesDeclaredTSResol(t *testing.T) {
	s := New(0)
	s.BeginSection()
	// 0x80 | 9 = base-2, exponent 9 -> 512 units/sec
	global, clamped := s.AddInterface(&block.InterfaceDescription{LinkType: 1, HasTSResol: true, TSResolRaw: 0x80 | 9}, 0)
	if clamped {
		t.Fatalf("exponent 9 fits comfortably, should not clamp")
	}

	iface, _ := s.Interface(global)
	if iface.TSResolUnits != 512 {
		t.Fatalf("expected declared tsresol of 512 units/sec, got %d", iface.TSResolUnits)
	}
}

func TestAddInterfaceReportsClampedTSResol(t *testing.T) {
	s := New(0)
	s.BeginSection()
	// 0x80 | 100 = base-2, exponent 100: overflows a uint64, must clamp to the fallback.
	global, clamped := s.AddInterface(&block.InterfaceDescription{LinkType: 1, HasTSResol: true, TSResolRaw: 0x80 | 100}, 0)
	if !clamped {
		t.Fatalf("expected exponent 100 to report clamped=true")
	}

	iface, _ := s.Interface(global)
	if iface.TSResolUnits != 1_000_000 {
		t.Fatalf("expected clamped tsresol to fall back to the default 1e6 units/sec, got %d", iface.TSResolUnits)
	}
}

func TestAddInterfaceRecordsOwningSectionID(t *testing.T) {
	s := New(0)
	s.BeginSection()
	s.AddInterface(&block.InterfaceDescription{LinkType: 1}, 0)

	s.BeginSection()
	global, _ := s.AddInterface(&block.InterfaceDescription{LinkType: 1}, 0)

	iface, _ := s.Interface(global)
	if iface.SectionID != 1 {
		t.Fatalf("expected interface declared in the second section to record SectionID 1, got %d", iface.SectionID)
	}
}
