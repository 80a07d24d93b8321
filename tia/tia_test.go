package tia

import (
	"io"
	"testing"
)

func newChip() *Chip {
	c := Init(&ChipDef{})
	for ii := 0; ii < 256; ii++ {
		c.palette[ii] = RGBA{uint8(ii), uint8(ii), uint8(ii), 0xFF}
	}
	return c
}

func TestUsePlayerMatchesSlow(t *testing.T) {
	masks := []uint8{0x00, 0xFF, 0x81, 0x55, 0x18}
	positions := []uint8{0x00, 0x01, 0x7F, 0xF8, 0xFF}
	for _, mask := range masks {
		for _, pos := range positions {
			for x := -4; x < 168; x++ {
				got := usePlayer(mask, pos, x)
				want := usePlayerSlow(mask, pos, x)
				if got != want {
					t.Errorf("usePlayer(%#02x, %#02x, %d) = %v, want %v", mask, pos, x, got, want)
				}
			}
		}
	}
}

func TestVSYNCResetsBeamPosition(t *testing.T) {
	c := newChip()
	c.AdvancePixels(500)
	c.SyncPixels()
	if c.ScanX() == -1 && c.ScanY() == 0 {
		t.Fatalf("test setup failed to advance the beam off its rest position")
	}

	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(10)
	c.SyncPixels()
	if c.ScanX() != -1 || c.ScanY() != 0 {
		t.Errorf("after VSYNC, scanX/scanY = %d/%d, want -1/0", c.ScanX(), c.ScanY())
	}
}

func TestWSYNCAdvancesToEndOfLine(t *testing.T) {
	c := newChip()
	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(3)
	c.Write(kVSYNC, 0x00)

	c.Write(kWSYNC, 0x00)
	c.AdvancePixels(3)

	if c.ScanX() != HorizontalBlank+DisplayWidth-1 {
		t.Errorf("after WSYNC, scanX = %d, want %d", c.ScanX(), HorizontalBlank+DisplayWidth-1)
	}
}

func TestWSYNCSurplusCarriesOver(t *testing.T) {
	c := newChip()
	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(3)
	c.SyncPixels() // drain the vsync debt now, before any other debt accrues
	c.Write(kVSYNC, 0x00)

	toLineEnd := uint(HorizontalBlank + DisplayWidth - 1 - c.ScanX())
	surplus := uint(7)

	c.Write(kWSYNC, 0x00)
	c.AdvancePixels(toLineEnd + surplus)

	if got := c.PixelCycles(); got != surplus {
		t.Errorf("pixel cycle debt after WSYNC = %d, want surplus %d carried over", got, surplus)
	}
}

func TestBackgroundColorFillsLineOutsideBlank(t *testing.T) {
	c := newChip()
	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(3)
	c.Write(kVSYNC, 0x00)
	c.Write(kCOLUBK, 0x42)

	// First call flushes all of row 0 under the settings active before this
	// write, then commits the pending COLUBK. The explicit SyncPixels call
	// then draws into row 1 under the now-committed background color.
	c.AdvancePixels(uint(HorizontalBlank + DisplayWidth))
	c.AdvancePixels(uint(HorizontalBlank + 1))
	c.SyncPixels()

	px := c.display[1*DisplayWidth+0]
	if px != (RGBA{0x42, 0x42, 0x42, 0xFF}) {
		t.Errorf("background pixel = %+v, want color index 0x42 resolved", px)
	}
}

func TestPlayfieldPriorityOverBackground(t *testing.T) {
	c := newChip()
	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(3)
	c.Write(kVSYNC, 0x00)
	c.Write(kCOLUBK, 0x10)
	c.Write(kCOLUPF, 0x20)
	c.Write(kPF0, 0xF0) // all 4 left playfield bits of PF0 set

	c.AdvancePixels(uint(HorizontalBlank + DisplayWidth))
	c.AdvancePixels(uint(HorizontalBlank + 1))
	c.SyncPixels()

	px := c.display[1*DisplayWidth+0]
	if px != (RGBA{0x20, 0x20, 0x20, 0xFF}) {
		t.Errorf("pixel at playfield bit 0 = %+v, want color index 0x20", px)
	}
}

func TestResetP0LatchesBeamPosition(t *testing.T) {
	c := newChip()
	c.Write(kVSYNC, 0x02)
	c.AdvancePixels(3)
	c.SyncPixels()
	c.Write(kVSYNC, 0x00)
	c.AdvancePixels(uint(HorizontalBlank + 10))
	c.SyncPixels()

	c.Write(kRESP0, 0x00)
	c.AdvancePixels(0)

	want := uint8(9)
	if c.positionXP0 != want {
		t.Errorf("positionXP0 = %d, want %d", c.positionXP0, want)
	}
}

func TestLoadPaletteShortRead(t *testing.T) {
	c := newChip()
	var empty rawReader
	if err := c.LoadPalette(&empty); err != nil {
		t.Fatalf("LoadPalette() got err %v, want nil on short read", err)
	}
	if c.palette[0] != (RGBA{0, 0, 0, 0xFF}) {
		t.Errorf("palette[0] after short read = %+v, want zeroed RGB with full alpha", c.palette[0])
	}
}

// rawReader is an io.Reader that always returns io.EOF immediately, used to
// exercise LoadPalette's short-read tolerance.
type rawReader struct{}

func (r *rawReader) Read(p []byte) (int, error) { return 0, io.EOF }
