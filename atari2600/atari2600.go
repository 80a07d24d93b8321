// Package atari2600 is the main logic for pulling together an Atari 2600
// emulator. The actual chips are implemented in other packages; this package
// ties them together behind the 13-bit VCS memory map and steps them in
// lockstep.
package atari2600

import (
	"fmt"
	"io"

	"github.com/dbking77/atari2600/cartridge"
	"github.com/dbking77/atari2600/cpu"
	"github.com/dbking77/atari2600/memory"
	"github.com/dbking77/atari2600/pia6532"
	"github.com/dbking77/atari2600/tia"
)

const (
	addressMask = uint16(0x1FFF)

	romMask    = uint16(0x1000)
	riotMask   = uint16(0x0080)
	riotIOMask = uint16(0x0280)

	// The CPU and RIOT run at 1/3rd the rate of the TIA's pixel clock.
	cyclesPerPixel = 3
)

// Console is a complete Atari 2600: a 6507 CPU, a TIA, a 128-byte RAM, a
// cartridge and a stubbed RIOT, wired together behind the machine's memory
// map.
type Console struct {
	CPU *cpu.Chip
	TIA *tia.Chip

	pia  *pia6532.Chip
	ram  memory.Bank
	cart memory.Bank

	breakpoints map[uint16]struct{}
	debug       bool
}

// ConsoleDef configures a Console at construction time.
type ConsoleDef struct {
	// Rom is the cartridge image. Its length selects the cartridge
	// implementation: 2k/4k flat and mirrored (other sizes under 4k are
	// zero-padded to 4k), 8k F8, or 16k F6/F6SC bank-switched (auto-detected
	// by hotspot pattern).
	Rom []uint8

	// Debug if true gates per-instruction/per-write logging on the CPU,
	// TIA and PIA.
	Debug bool
}

// Init returns a powered-on Console with its CPU primed to load the reset
// vector on the first ExecInstructions call.
func Init(def *ConsoleDef) (*Console, error) {
	cart, err := cartridge.NewCartridge(def.Rom)
	if err != nil {
		return nil, fmt.Errorf("atari2600: can't init cartridge: %v", err)
	}

	ram, err := memory.New8BitRAMBank(128, nil)
	if err != nil {
		return nil, fmt.Errorf("atari2600: can't init RAM: %v", err)
	}
	ram.PowerOn()

	pia, err := pia6532.Init(&pia6532.ChipDef{Debug: def.Debug})
	if err != nil {
		return nil, fmt.Errorf("atari2600: can't init PIA: %v", err)
	}

	c := &Console{
		TIA:         tia.Init(&tia.ChipDef{Debug: def.Debug}),
		pia:         pia,
		ram:         ram,
		cart:        cart,
		breakpoints: make(map[uint16]struct{}),
		debug:       def.Debug,
	}

	cc, err := cpu.Init(&cpu.ChipDef{Bus: c, Debug: def.Debug})
	if err != nil {
		return nil, fmt.Errorf("atari2600: can't init cpu: %v", err)
	}
	c.CPU = cc

	return c, nil
}

// LoadPalette loads a 768 byte RGB palette (256 triples) into the TIA.
func (c *Console) LoadPalette(r io.Reader) error {
	return c.TIA.LoadPalette(r)
}

// AddBreakpoint registers pc as a stopping point for ExecInstructions.
func (c *Console) AddBreakpoint(pc uint16) {
	c.breakpoints[pc] = struct{}{}
}

// ClearBreakpoints removes every registered breakpoint.
func (c *Console) ClearBreakpoints() {
	c.breakpoints = make(map[uint16]struct{})
}

// Framebuffer returns the current RGBA framebuffer, row-major, 4 bytes per
// pixel.
func (c *Console) Framebuffer() []byte {
	return c.TIA.Framebuffer()
}

// ExecInstructions steps the CPU n times, advancing the TIA by cycles*3
// pixel clocks after each step, stopping early if the CPU's PC lands on a
// registered breakpoint. The TIA is always fully synced before returning so
// the framebuffer reflects every committed CPU write, including the work
// done in a loop that stopped early.
func (c *Console) ExecInstructions(n int) error {
	for i := 0; i < n; i++ {
		cycles, err := c.CPU.Step()
		if err != nil {
			c.TIA.SyncPixels()
			return fmt.Errorf("atari2600: CPU fault at PC=%#04x: %v", c.CPU.PC, err)
		}
		c.TIA.AdvancePixels(uint(cycles) * cyclesPerPixel)
		if _, ok := c.breakpoints[c.CPU.PC]; ok {
			break
		}
	}
	c.TIA.SyncPixels()
	return nil
}

// Read implements cpu.Bus, routing through the VCS's 13 address pins.
// Unmapped regions return 0.
func (c *Console) Read(addr uint16) uint8 {
	addr &= addressMask
	switch {
	case addr&romMask == romMask:
		return c.cart.Read(addr)
	case addr&riotMask == riotMask:
		if addr&riotIOMask == riotIOMask {
			return c.pia.Read(addr)
		}
		return c.ram.Read(addr)
	}
	return c.TIA.Read(addr)
}

// Write implements cpu.Bus, routing through the VCS's 13 address pins.
func (c *Console) Write(addr uint16, val uint8) {
	addr &= addressMask
	switch {
	case addr&romMask == romMask:
		// No cart has writable ROM, but bank-switch hotspots trigger on
		// write-side accesses too.
		c.cart.Write(addr, val)
	case addr&riotMask == riotMask:
		if addr&riotIOMask == riotIOMask {
			c.pia.Write(addr, val)
			return
		}
		c.ram.Write(addr, val)
	default:
		c.TIA.Write(addr, val)
	}
}
