// Package pia6532 implements the I/O register window of a 6532 PIA as wired
// into an Atari 2600: the console switches and joystick/paddle ports. No
// controllers are modeled (an out-of-scope external collaborator), so the
// switch registers read back fixed values and the interval timer is not
// implemented.
package pia6532

import (
	"log"

	"github.com/dbking77/atari2600/memory"
)

var _ = memory.Bank(&Chip{})

// I/O register offsets within the PIA's 5-bit register window. The real
// chip aliases several addresses onto each register; only the two read
// ports used by the console switches are modeled.
const (
	kSWCHA = uint16(0x00)
	kSWCHB = uint16(0x02)

	kRegMask = uint16(0x1F)

	// Fixed switch readback: no controllers wired, so every joystick/paddle
	// direction and button reads as released (active low -> all 1s). SWCHB
	// reads Reset/Select released, Color/B-W set to Color, the P0 difficulty
	// switch at A (bit 6 set) and the P1 difficulty switch at B (bit 7 clear).
	swchaFixed = uint8(0xFF)
	swchbFixed = uint8(0x7F)
)

// Chip is a stubbed 6532 I/O port pair. It does not own the chip's general
// purpose RAM; callers map that separately since it behaves as ordinary
// system RAM independent of this register window.
type Chip struct {
	debug bool
}

// ChipDef configures a Chip at construction time.
type ChipDef struct {
	// Debug if true will emit output from Debug() calls.
	Debug bool
}

// Init returns an initialized PIA I/O stub.
func Init(d *ChipDef) (*Chip, error) {
	return &Chip{debug: d.Debug}, nil
}

// PowerOn implements memory.Bank. There is no internal state to reset.
func (p *Chip) PowerOn() {}

// Read implements memory.Bank for the I/O register window. SWCHA/SWCHB (and
// their aliased addresses) read back fixed values; every other register
// reads 0 since no timer or edge-detect state is modeled.
func (p *Chip) Read(addr uint16) uint8 {
	var val uint8
	switch addr & kRegMask {
	case kSWCHA, 0x08, 0x10, 0x18:
		val = swchaFixed
	case kSWCHB, 0x0A, 0x12, 0x1A:
		val = swchbFixed
	}
	if p.debug {
		log.Printf("PIA read addr=%#04x val=%#02x", addr, val)
	}
	return val
}

// Write implements memory.Bank for the I/O register window. All writes are
// ignored: there are no port-direction registers or timers to program.
func (p *Chip) Write(addr uint16, val uint8) {
	if p.debug {
		log.Printf("PIA write addr=%#04x val=%#02x (ignored)", addr, val)
	}
}

// Parent implements memory.Bank. The I/O window has no containing bank of
// its own; the console addresses it directly.
func (p *Chip) Parent() memory.Bank { return nil }

// DatabusVal implements memory.Bank. The stub never latches a databus value.
func (p *Chip) DatabusVal() uint8 { return 0 }
