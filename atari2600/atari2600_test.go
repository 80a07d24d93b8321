package atari2600

import (
	"testing"

	"github.com/go-test/deep"
)

// snapshot captures everything ExecInstructions is required to keep
// identical whether N instructions run in one call or one at a time.
type snapshot struct {
	Cycles     uint64
	ScanX      int
	ScanY      int
	PixelCount uint
	Framebuffer []byte
}

func takeSnapshot(c *Console) snapshot {
	fb := make([]byte, len(c.Framebuffer()))
	copy(fb, c.Framebuffer())
	return snapshot{
		Cycles:      c.CPU.Cycles(),
		ScanX:       c.TIA.ScanX(),
		ScanY:       c.TIA.ScanY(),
		PixelCount:  c.TIA.PixelCount(),
		Framebuffer: fb,
	}
}

func TestExecInstructionsStepwiseMatchesBatch(t *testing.T) {
	prog := rom4k(func(b []uint8) {
		b[0x0000] = 0xA9 // LDA #$01
		b[0x0001] = 0x01
		b[0x0002] = 0x8D // STA $0009 (COLUBK)
		b[0x0003] = 0x09
		b[0x0004] = 0x00
		b[0x0005] = 0xE8 // INX
		b[0x0006] = 0x4C // JMP $1005
		b[0x0007] = 0x05
		b[0x0008] = 0x10
		b[0x0FFC] = 0x00
		b[0x0FFD] = 0x10
	})

	const n = 25

	batch, err := Init(&ConsoleDef{Rom: prog})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if err := batch.ExecInstructions(n); err != nil {
		t.Fatalf("ExecInstructions(%d) got err %v, want nil", n, err)
	}

	stepwise, err := Init(&ConsoleDef{Rom: prog})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	for i := 0; i < n; i++ {
		if err := stepwise.ExecInstructions(1); err != nil {
			t.Fatalf("ExecInstructions(1) iteration %d got err %v, want nil", i, err)
		}
	}

	if diff := deep.Equal(takeSnapshot(batch), takeSnapshot(stepwise)); diff != nil {
		t.Errorf("batch vs stepwise execution diverged: %v", diff)
	}
}

func rom4k(fill func([]uint8)) []uint8 {
	r := make([]uint8, 4096)
	if fill != nil {
		fill(r)
	}
	return r
}

func TestResetVector(t *testing.T) {
	r := rom4k(func(b []uint8) {
		b[0x0FFC] = 0x34
		b[0x0FFD] = 0x12
	})
	c, err := Init(&ConsoleDef{Rom: r})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if err := c.ExecInstructions(1); err != nil {
		t.Fatalf("ExecInstructions(1) got err %v, want nil", err)
	}
	if c.CPU.PC != 0x1234 {
		t.Errorf("PC = %#04x, want 0x1234", c.CPU.PC)
	}
}

func TestRAMReadWrite(t *testing.T) {
	// LDA #$42; STA $80; LDA #$00; LDA $80
	r := rom4k(func(b []uint8) {
		b[0x0000] = 0xA9
		b[0x0001] = 0x42
		b[0x0002] = 0x85
		b[0x0003] = 0x80
		b[0x0004] = 0xA9
		b[0x0005] = 0x00
		b[0x0006] = 0xA5
		b[0x0007] = 0x80
		b[0x0FFC] = 0x00
		b[0x0FFD] = 0x10
	})
	c, err := Init(&ConsoleDef{Rom: r})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if err := c.ExecInstructions(5); err != nil {
		t.Fatalf("ExecInstructions(5) got err %v, want nil", err)
	}
	if c.CPU.A != 0x42 {
		t.Errorf("A = %#02x, want 0x42 (round-tripped through RAM)", c.CPU.A)
	}
}

func TestPIASwitchReadback(t *testing.T) {
	// LDA $0280 (SWCHA, I/O register window)
	r := rom4k(func(b []uint8) {
		b[0x0000] = 0xAD
		b[0x0001] = 0x80
		b[0x0002] = 0x02
		b[0x0FFC] = 0x00
		b[0x0FFD] = 0x10
	})
	c, err := Init(&ConsoleDef{Rom: r})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if err := c.ExecInstructions(2); err != nil {
		t.Fatalf("ExecInstructions(2) got err %v, want nil", err)
	}
	if c.CPU.A != 0xFF {
		t.Errorf("A = %#02x, want 0xFF (fixed SWCHA readback)", c.CPU.A)
	}
}

func TestBreakpointStopsEarly(t *testing.T) {
	// Three NOPs in a row; set a breakpoint on the second.
	r := rom4k(func(b []uint8) {
		b[0x0000] = 0xEA
		b[0x0001] = 0xEA
		b[0x0002] = 0xEA
		b[0x0FFC] = 0x00
		b[0x0FFD] = 0x10
	})
	c, err := Init(&ConsoleDef{Rom: r})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	c.AddBreakpoint(0x1001)
	if err := c.ExecInstructions(10); err != nil {
		t.Fatalf("ExecInstructions(10) got err %v, want nil", err)
	}
	if c.CPU.PC != 0x1001 {
		t.Errorf("PC = %#04x, want 0x1001 (stopped at breakpoint)", c.CPU.PC)
	}
}

func TestInvalidOpcodeFaultsExecInstructions(t *testing.T) {
	r := rom4k(func(b []uint8) {
		b[0x0000] = 0x02 // no documented opcode uses 0x02
		b[0x0FFC] = 0x00
		b[0x0FFD] = 0x10
	})
	c, err := Init(&ConsoleDef{Rom: r})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if err := c.ExecInstructions(2); err == nil {
		t.Errorf("ExecInstructions(2) got nil err, want fault on invalid opcode")
	}
}

func TestCartridgeSizeRejected(t *testing.T) {
	if _, err := Init(&ConsoleDef{Rom: make([]uint8, 12345)}); err == nil {
		t.Errorf("Init() with unsupported ROM size got nil err, want error")
	}
}
