// Package tia implements the Television Interface Adapter: a real-time
// raster beam simulator that turns CPU register writes into a framebuffer.
// Writes land in a pending settings shadow and only take effect once the
// beam has caught up to the point in the scanline where the write occurred.
package tia

import (
	"io"
	"log"

	"github.com/dbking77/atari2600/bits"
)

// Display geometry, matching the real TIA raster timing.
const (
	DisplayWidth         = 160
	HorizontalBlank      = 68
	DisplayNominalHeight = 192
	VerticalBlank        = 37
	Overscan             = 30
	DisplayHeight        = DisplayNominalHeight + VerticalBlank + Overscan
	AutoVsync            = DisplayHeight + 100
)

// TIA register offsets, addr & 0x3F. VBLANK, RSYNC and NUSIZ0/1 are named
// but ignored by Write, as are the unnamed registers (audio, motion,
// missiles/ball, collision latches).
const (
	kVSYNC  = 0x00
	kVBLANK = 0x01
	kWSYNC  = 0x02
	kRSYNC  = 0x03
	kNUSIZ0 = 0x04
	kNUSIZ1 = 0x05
	kCOLUP0 = 0x06
	kCOLUP1 = 0x07
	kCOLUPF = 0x08
	kCOLUBK = 0x09
	kCTRLPF = 0x0A
	kREFP0  = 0x0B
	kREFP1  = 0x0C
	kPF0    = 0x0D
	kPF1    = 0x0E
	kPF2    = 0x0F
	kRESP0  = 0x10
	kRESP1  = 0x11
	kGRP0   = 0x1B
	kGRP1   = 0x1C
)

// RGBA is a single resolved display pixel.
type RGBA struct {
	R, G, B, A uint8
}

// settings is the TIA's register-derived drawing state: playfield mask,
// player graphics, and resolved palette colors. Chip keeps two copies
// (active, pending) so writes mid-scanline only take effect once the beam
// has drawn past the point where they occurred.
type settings struct {
	pfMask                             uint32
	ctrlPF                             uint8
	p0Mask, p1Mask                     uint8
	colorPF, colorBK, colorP0, colorP1 uint8
	reflectP0, reflectP1               bool
	rgbaPF, rgbaBK, rgbaP0, rgbaP1     RGBA
}

// Chip is a TIA instance. Display/beam state is exported read-only via
// accessor methods for host debug UIs and tests; mutation only happens
// through Write, AdvancePixels, and SyncPixels.
type Chip struct {
	active          settings
	pending         settings
	settingsChanged bool

	waitSync     bool
	verticalSync bool
	resetP0      bool
	resetP1      bool

	positionXP0 uint8
	positionXP1 uint8

	scanX int
	scanY int

	pixelCycles uint
	pixelCount  uint

	palette [256]RGBA
	display []RGBA

	debug bool
}

// ChipDef configures a Chip at construction time.
type ChipDef struct {
	// Debug gates per-write logging via log.Printf.
	Debug bool
}

// Init constructs a Chip with the beam parked just before the first pixel
// of the first scanline and both players off-screen.
func Init(def *ChipDef) *Chip {
	c := &Chip{
		positionXP0: 0xFF,
		positionXP1: 0xFF,
		scanX:       -1,
		scanY:       0,
		display:     make([]RGBA, DisplayWidth*DisplayHeight),
		debug:       def.Debug,
	}
	return c
}

// LoadPalette reads 256 consecutive RGB triples and resolves them to RGBA
// (alpha synthesized as 0xFF). A short read is logged and the remainder of
// the palette is left black rather than treated as fatal.
func (c *Chip) LoadPalette(r io.Reader) error {
	var raw [768]byte
	n, err := io.ReadFull(r, raw[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	if n < len(raw) {
		log.Printf("tia: short palette read: got %d of %d bytes, zero-padding remainder", n, len(raw))
	}
	for ii := 0; ii < 256; ii++ {
		c.palette[ii] = RGBA{raw[ii*3], raw[ii*3+1], raw[ii*3+2], 0xFF}
	}
	return nil
}

// Read always returns 0; the core does not model any TIA input registers
// (collision latches, INPT paddle ports) a read could meaningfully surface.
func (c *Chip) Read(addr uint16) uint8 {
	return 0
}

// Write updates the pending settings shadow or a latch per the register at
// addr&0x3F. Every settings-affecting write sets settingsChanged so the next
// AdvancePixels call flushes pixels drawn under the old settings first.
func (c *Chip) Write(addr uint16, data uint8) {
	addr &= 0x3F
	changed := true
	switch addr {
	case kWSYNC:
		c.waitSync = true
		changed = false
	case kVSYNC:
		c.verticalSync = data&0x02 != 0
		changed = false
	case kCOLUP0:
		c.pending.colorP0 = data
		c.pending.rgbaP0 = c.palette[data]
	case kCOLUP1:
		c.pending.colorP1 = data
		c.pending.rgbaP1 = c.palette[data]
	case kCOLUPF:
		c.pending.colorPF = data
		c.pending.rgbaPF = c.palette[data]
	case kCOLUBK:
		c.pending.colorBK = data
		c.pending.rgbaBK = c.palette[data]
	case kCTRLPF:
		c.pending.ctrlPF = data
	case kREFP0:
		c.pending.reflectP0 = data&(1<<3) != 0
	case kREFP1:
		c.pending.reflectP1 = data&(1<<3) != 0
	case kPF0:
		c.pending.pfMask = (c.pending.pfMask &^ 0xF) | (uint32(data>>4) & 0xF)
	case kPF1:
		// Drawn MSB first instead of LSB first.
		c.pending.pfMask = (c.pending.pfMask &^ 0xFF0) | (uint32(bits.Reverse8(data)) << 4)
	case kPF2:
		c.pending.pfMask = (c.pending.pfMask &^ 0xFF000) | (uint32(data) << 12)
	case kRESP0:
		c.resetP0 = true
		changed = false
	case kRESP1:
		c.resetP1 = true
		changed = false
	case kGRP0:
		c.pending.p0Mask = data
	case kGRP1:
		c.pending.p1Mask = data
	default:
		changed = false
	}
	if changed {
		c.settingsChanged = true
	}
	if c.debug {
		log.Printf("tia: write %#02x to addr %#02x", data, addr)
	}
}

// AdvancePixels runs the four-phase lazy-resync protocol: accumulate debt,
// flush and commit a pending settings change, service a WSYNC strobe to
// end-of-line, then latch any requested player position resets. It must be
// called after every CPU instruction with that instruction's cycle count
// times three.
func (c *Chip) AdvancePixels(delta uint) {
	c.pixelCycles += delta

	if c.settingsChanged {
		c.settingsChanged = false
		c.SyncPixels()
		c.active = c.pending
	}

	if c.waitSync {
		// WSYNC halts the CPU until the beam reaches the end of the line, so
		// the beam always advances exactly that far regardless of how much
		// debt is outstanding. Debt beyond that point is not discarded (the
		// original implementation zeroes it here; real hardware has nowhere
		// for it to go but the next line).
		c.waitSync = false
		toLineEnd := uint(HorizontalBlank + DisplayWidth - 1 - c.scanX)
		var surplus uint
		if c.pixelCycles > toLineEnd {
			surplus = c.pixelCycles - toLineEnd
		}
		c.pixelCycles = surplus
		if remaining := c.drawPixelLine(toLineEnd); remaining != 0 {
			log.Printf("tia: wsync left %d pixel cycles undrawn", remaining)
		}
	}

	if c.resetP0 {
		c.resetP0 = false
		c.positionXP0 = c.playerPositionX()
	}
	if c.resetP1 {
		c.resetP1 = false
		c.positionXP1 = c.playerPositionX()
	}
}

// SyncPixels drains all pending pixel-cycle debt through drawPixelLine.
func (c *Chip) SyncPixels() {
	for c.pixelCycles > 0 {
		c.pixelCycles = c.drawPixelLine(c.pixelCycles)
	}
}

func scanToDisplayX(scanX int) int { return scanX - HorizontalBlank }

func (c *Chip) playerPositionX() uint8 {
	x := scanToDisplayX(c.scanX)
	switch {
	case x < 0:
		return 0
	case x > 255:
		return 255
	default:
		return uint8(x)
	}
}

func (c *Chip) clearDisplay() {
	for ii := range c.display {
		c.display[ii] = RGBA{}
	}
}

// usePlayer reports whether display_x falls within the 8 pixel window of a
// player graphic at position, and whether the corresponding mask bit is set.
// position==0xFF always evaluates false: the offset can never land in [0,7].
func usePlayer(mask, position uint8, displayX int) bool {
	offset := displayX - int(position)
	if offset&^7 != 0 {
		return false
	}
	return (mask>>uint(offset))&1 != 0
}

// usePlayerSlow is the reference definition of usePlayer, used by tests to
// check the bit-trick version across representative inputs.
func usePlayerSlow(mask, position uint8, displayX int) bool {
	if position == 0xFF {
		return false
	}
	offset := displayX - int(position)
	if offset >= 8 || offset < 0 {
		return false
	}
	return mask&(1<<uint(offset)) != 0
}

// drawPixelLine is the beam's inner loop: it consumes up to pixelCycles
// pixels of debt, wrapping lines and servicing VSYNC/horizontal-blank as
// needed, and returns any debt it could not consume this call.
func (c *Chip) drawPixelLine(pixelCycles uint) uint {
	if pixelCycles == 0 {
		return 0
	}

	if c.verticalSync {
		if c.scanY != 0 || c.scanX != -1 {
			c.clearDisplay()
		}
		c.scanX = -1
		c.scanY = 0
		c.pixelCount += pixelCycles
		return 0
	}

	if c.scanX >= HorizontalBlank+DisplayWidth-1 {
		c.scanX = -1
		c.scanY++
		if c.scanY >= AutoVsync {
			c.scanY = 0
			c.clearDisplay()
		}
	}

	if c.scanX < HorizontalBlank-1 {
		pixelsToLineStart := uint(HorizontalBlank - 1 - c.scanX)
		if pixelCycles <= pixelsToLineStart {
			c.scanX += int(pixelCycles)
			c.pixelCount += pixelCycles
			return 0
		}
		pixelCycles -= pixelsToLineStart
		c.pixelCount += pixelsToLineStart
		c.scanX = HorizontalBlank - 1
	}

	pixelsToLineEnd := uint(HorizontalBlank + DisplayWidth - 1 - c.scanX)
	displayCycles := pixelCycles
	if pixelsToLineEnd < displayCycles {
		displayCycles = pixelsToLineEnd
	}

	if c.scanY >= DisplayHeight {
		// Rows past the framebuffer are walked by the beam but not drawn.
		c.scanX += int(displayCycles)
		c.pixelCount += displayCycles
		return pixelCycles - displayCycles
	}

	displayX := scanToDisplayX(c.scanX + 1)
	displayXStop := displayX + int(displayCycles)
	c.scanX += int(displayCycles)
	pixelCycles -= displayCycles

	pf := uint64(c.active.pfMask)
	if c.active.ctrlPF&1 != 0 {
		pf |= uint64(bits.Reverse32(c.active.pfMask<<12)) << 20
	} else {
		pf |= (pf & 0xFFFFF) << 20
	}

	p0Mask := c.active.p0Mask
	if c.active.reflectP0 {
		p0Mask = bits.Reverse8(p0Mask)
	}
	p1Mask := c.active.p1Mask
	if c.active.reflectP1 {
		p1Mask = bits.Reverse8(p1Mask)
	}

	for x := displayX; x < displayXStop; x++ {
		pfIdx := uint(x) >> 2
		usePF := (pf>>pfIdx)&1 != 0
		useP0 := usePlayer(p0Mask, c.positionXP0, x)
		useP1 := usePlayer(p1Mask, c.positionXP1, x)
		var rgba RGBA
		switch {
		case useP0:
			rgba = c.active.rgbaP0
		case useP1:
			rgba = c.active.rgbaP1
		case usePF:
			rgba = c.active.rgbaPF
		default:
			rgba = c.active.rgbaBK
		}
		c.display[c.scanY*DisplayWidth+x] = rgba
	}

	c.pixelCount += displayCycles
	return pixelCycles
}

// ScanX returns the current beam column, in [-1, HorizontalBlank+DisplayWidth-1].
func (c *Chip) ScanX() int { return c.scanX }

// ScanY returns the current beam row, in [0, AutoVsync-1]. Rows at or past
// DisplayHeight are not drawn into the framebuffer.
func (c *Chip) ScanY() int { return c.scanY }

// PixelCount returns the lifetime count of pixel clocks processed.
func (c *Chip) PixelCount() uint { return c.pixelCount }

// PixelCycles returns the currently undrawn pixel-cycle debt.
func (c *Chip) PixelCycles() uint { return c.pixelCycles }

// Framebuffer returns the display buffer as row-major RGBA bytes, pixel
// (x,y) at index (y*DisplayWidth+x)*4.
func (c *Chip) Framebuffer() []byte {
	buf := make([]byte, len(c.display)*4)
	for ii, px := range c.display {
		buf[ii*4+0] = px.R
		buf[ii*4+1] = px.G
		buf[ii*4+2] = px.B
		buf[ii*4+3] = px.A
	}
	return buf
}
