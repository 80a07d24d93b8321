package disassemble

import (
	"strings"
	"testing"

	"github.com/dbking77/atari2600/memory"
)

func newRam(t *testing.T, prog ...uint8) memory.Bank {
	t.Helper()
	b, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank() got err %v, want nil", err)
	}
	for ii, v := range prog {
		b.Write(uint16(ii), v)
	}
	return b
}

func TestStepImmediate(t *testing.T) {
	r := newRam(t, 0xA9, 0x42)
	out, count := Step(0, r)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !strings.Contains(out, "LDA") || !strings.Contains(out, "#42") {
		t.Errorf("out = %q, want it to mention LDA #42", out)
	}
}

func TestStepAbsolute(t *testing.T) {
	r := newRam(t, 0x4C, 0x00, 0x12) // JMP $1200
	out, count := Step(0, r)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if !strings.Contains(out, "JMP") || !strings.Contains(out, "1200") {
		t.Errorf("out = %q, want it to mention JMP 1200", out)
	}
}

func TestStepImplied(t *testing.T) {
	r := newRam(t, 0xEA) // NOP
	out, count := Step(0, r)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !strings.Contains(out, "NOP") {
		t.Errorf("out = %q, want it to mention NOP", out)
	}
}

func TestStepUndocumentedOpcode(t *testing.T) {
	r := newRam(t, 0x02) // no documented opcode uses 0x02
	out, _ := Step(0, r)
	if !strings.Contains(out, "???") {
		t.Errorf("out = %q, want it to mark the opcode unknown", out)
	}
}

func TestStepRelative(t *testing.T) {
	r := newRam(t, 0xD0, 0x05) // BNE +5
	out, count := Step(0, r)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !strings.Contains(out, "BNE") || !strings.Contains(out, "0007") {
		t.Errorf("out = %q, want it to mention the resolved branch target 0007", out)
	}
}
