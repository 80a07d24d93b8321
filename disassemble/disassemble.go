// Package disassemble implements a disassembler for the documented 6502
// opcode set used by the cpu package.
package disassemble

import (
	"fmt"

	"github.com/dbking77/atari2600/memory"
)

const (
	kMODE_IMMEDIATE = iota
	kMODE_ZP
	kMODE_ZPX
	kMODE_ZPY
	kMODE_INDIRECTX
	kMODE_INDIRECTY
	kMODE_ABSOLUTE
	kMODE_ABSOLUTEX
	kMODE_ABSOLUTEY
	kMODE_INDIRECT
	kMODE_IMPLIED
	kMODE_RELATIVE
)

// Step disassembles the instruction at pc and returns its text along with
// the number of bytes to advance to reach the next instruction. It does not
// follow jumps or branches; a JMP target appearing later in memory is just
// disassembled in place when the scan reaches it.
// This always reads at least one byte past the current PC so make sure that
// address is valid.
func Step(pc uint16, r memory.Bank) (string, int) {
	pc1 := r.Read(pc + 1)
	pc116 := uint16(int16(int8(pc1)))
	pc2 := r.Read(pc + 2)

	var op string
	mode := kMODE_IMPLIED
	o := r.Read(pc)
	switch o {
	case 0x01:
		op, mode = "ORA", kMODE_INDIRECTX
	case 0x05:
		op, mode = "ORA", kMODE_ZP
	case 0x06:
		op, mode = "ASL", kMODE_ZP
	case 0x08:
		op = "PHP"
	case 0x09:
		op, mode = "ORA", kMODE_IMMEDIATE
	case 0x0A:
		op = "ASL"
	case 0x0D:
		op, mode = "ORA", kMODE_ABSOLUTE
	case 0x0E:
		op, mode = "ASL", kMODE_ABSOLUTE
	case 0x10:
		op, mode = "BPL", kMODE_RELATIVE
	case 0x11:
		op, mode = "ORA", kMODE_INDIRECTY
	case 0x15:
		op, mode = "ORA", kMODE_ZPX
	case 0x16:
		op, mode = "ASL", kMODE_ZPX
	case 0x18:
		op = "CLC"
	case 0x19:
		op, mode = "ORA", kMODE_ABSOLUTEY
	case 0x1D:
		op, mode = "ORA", kMODE_ABSOLUTEX
	case 0x1E:
		op, mode = "ASL", kMODE_ABSOLUTEX
	case 0x20:
		op, mode = "JSR", kMODE_ABSOLUTE
	case 0x21:
		op, mode = "AND", kMODE_INDIRECTX
	case 0x24:
		op, mode = "BIT", kMODE_ZP
	case 0x25:
		op, mode = "AND", kMODE_ZP
	case 0x26:
		op, mode = "ROL", kMODE_ZP
	case 0x28:
		op = "PLP"
	case 0x29:
		op, mode = "AND", kMODE_IMMEDIATE
	case 0x2A:
		op = "ROL"
	case 0x2C:
		op, mode = "BIT", kMODE_ABSOLUTE
	case 0x2D:
		op, mode = "AND", kMODE_ABSOLUTE
	case 0x2E:
		op, mode = "ROL", kMODE_ABSOLUTE
	case 0x30:
		op, mode = "BMI", kMODE_RELATIVE
	case 0x31:
		op, mode = "AND", kMODE_INDIRECTY
	case 0x35:
		op, mode = "AND", kMODE_ZPX
	case 0x36:
		op, mode = "ROL", kMODE_ZPX
	case 0x38:
		op = "SEC"
	case 0x39:
		op, mode = "AND", kMODE_ABSOLUTEY
	case 0x3D:
		op, mode = "AND", kMODE_ABSOLUTEX
	case 0x3E:
		op, mode = "ROL", kMODE_ABSOLUTEX
	case 0x41:
		op, mode = "EOR", kMODE_INDIRECTX
	case 0x45:
		op, mode = "EOR", kMODE_ZP
	case 0x46:
		op, mode = "LSR", kMODE_ZP
	case 0x48:
		op = "PHA"
	case 0x49:
		op, mode = "EOR", kMODE_IMMEDIATE
	case 0x4A:
		op = "LSR"
	case 0x4C:
		op, mode = "JMP", kMODE_ABSOLUTE
	case 0x4D:
		op, mode = "EOR", kMODE_ABSOLUTE
	case 0x4E:
		op, mode = "LSR", kMODE_ABSOLUTE
	case 0x50:
		op, mode = "BVC", kMODE_RELATIVE
	case 0x51:
		op, mode = "EOR", kMODE_INDIRECTY
	case 0x55:
		op, mode = "EOR", kMODE_ZPX
	case 0x56:
		op, mode = "LSR", kMODE_ZPX
	case 0x58:
		op = "CLI"
	case 0x59:
		op, mode = "EOR", kMODE_ABSOLUTEY
	case 0x5D:
		op, mode = "EOR", kMODE_ABSOLUTEX
	case 0x5E:
		op, mode = "LSR", kMODE_ABSOLUTEX
	case 0x60:
		op = "RTS"
	case 0x61:
		op, mode = "ADC", kMODE_INDIRECTX
	case 0x65:
		op, mode = "ADC", kMODE_ZP
	case 0x66:
		op, mode = "ROR", kMODE_ZP
	case 0x68:
		op = "PLA"
	case 0x69:
		op, mode = "ADC", kMODE_IMMEDIATE
	case 0x6A:
		op = "ROR"
	case 0x6C:
		op, mode = "JMP", kMODE_INDIRECT
	case 0x6D:
		op, mode = "ADC", kMODE_ABSOLUTE
	case 0x6E:
		op, mode = "ROR", kMODE_ABSOLUTE
	case 0x70:
		op, mode = "BVS", kMODE_RELATIVE
	case 0x71:
		op, mode = "ADC", kMODE_INDIRECTY
	case 0x75:
		op, mode = "ADC", kMODE_ZPX
	case 0x76:
		op, mode = "ROR", kMODE_ZPX
	case 0x78:
		op = "SEI"
	case 0x79:
		op, mode = "ADC", kMODE_ABSOLUTEY
	case 0x7D:
		op, mode = "ADC", kMODE_ABSOLUTEX
	case 0x7E:
		op, mode = "ROR", kMODE_ABSOLUTEX
	case 0x81:
		op, mode = "STA", kMODE_INDIRECTX
	case 0x84:
		op, mode = "STY", kMODE_ZP
	case 0x85:
		op, mode = "STA", kMODE_ZP
	case 0x86:
		op, mode = "STX", kMODE_ZP
	case 0x88:
		op = "DEY"
	case 0x8A:
		op = "TXA"
	case 0x8C:
		op, mode = "STY", kMODE_ABSOLUTE
	case 0x8D:
		op, mode = "STA", kMODE_ABSOLUTE
	case 0x8E:
		op, mode = "STX", kMODE_ABSOLUTE
	case 0x90:
		op, mode = "BCC", kMODE_RELATIVE
	case 0x91:
		op, mode = "STA", kMODE_INDIRECTY
	case 0x94:
		op, mode = "STY", kMODE_ZPX
	case 0x95:
		op, mode = "STA", kMODE_ZPX
	case 0x96:
		op, mode = "STX", kMODE_ZPY
	case 0x98:
		op = "TYA"
	case 0x99:
		op, mode = "STA", kMODE_ABSOLUTEY
	case 0x9A:
		op = "TXS"
	case 0x9D:
		op, mode = "STA", kMODE_ABSOLUTEX
	case 0xA0:
		op, mode = "LDY", kMODE_IMMEDIATE
	case 0xA1:
		op, mode = "LDA", kMODE_INDIRECTX
	case 0xA2:
		op, mode = "LDX", kMODE_IMMEDIATE
	case 0xA4:
		op, mode = "LDY", kMODE_ZP
	case 0xA5:
		op, mode = "LDA", kMODE_ZP
	case 0xA6:
		op, mode = "LDX", kMODE_ZP
	case 0xA8:
		op = "TAY"
	case 0xA9:
		op, mode = "LDA", kMODE_IMMEDIATE
	case 0xAA:
		op = "TAX"
	case 0xAC:
		op, mode = "LDY", kMODE_ABSOLUTE
	case 0xAD:
		op, mode = "LDA", kMODE_ABSOLUTE
	case 0xAE:
		op, mode = "LDX", kMODE_ABSOLUTE
	case 0xB0:
		op, mode = "BCS", kMODE_RELATIVE
	case 0xB1:
		op, mode = "LDA", kMODE_INDIRECTY
	case 0xB4:
		op, mode = "LDY", kMODE_ZPX
	case 0xB5:
		op, mode = "LDA", kMODE_ZPX
	case 0xB6:
		op, mode = "LDX", kMODE_ZPY
	case 0xB8:
		op = "CLV"
	case 0xB9:
		op, mode = "LDA", kMODE_ABSOLUTEY
	case 0xBA:
		op = "TSX"
	case 0xBC:
		op, mode = "LDY", kMODE_ABSOLUTEX
	case 0xBD:
		op, mode = "LDA", kMODE_ABSOLUTEX
	case 0xBE:
		op, mode = "LDX", kMODE_ABSOLUTEY
	case 0xC0:
		op, mode = "CPY", kMODE_IMMEDIATE
	case 0xC1:
		op, mode = "CMP", kMODE_INDIRECTX
	case 0xC4:
		op, mode = "CPY", kMODE_ZP
	case 0xC5:
		op, mode = "CMP", kMODE_ZP
	case 0xC6:
		op, mode = "DEC", kMODE_ZP
	case 0xC8:
		op = "INY"
	case 0xC9:
		op, mode = "CMP", kMODE_IMMEDIATE
	case 0xCA:
		op = "DEX"
	case 0xCC:
		op, mode = "CPY", kMODE_ABSOLUTE
	case 0xCD:
		op, mode = "CMP", kMODE_ABSOLUTE
	case 0xCE:
		op, mode = "DEC", kMODE_ABSOLUTE
	case 0xD0:
		op, mode = "BNE", kMODE_RELATIVE
	case 0xD1:
		op, mode = "CMP", kMODE_INDIRECTY
	case 0xD5:
		op, mode = "CMP", kMODE_ZPX
	case 0xD6:
		op, mode = "DEC", kMODE_ZPX
	case 0xD8:
		op = "CLD"
	case 0xD9:
		op, mode = "CMP", kMODE_ABSOLUTEY
	case 0xDD:
		op, mode = "CMP", kMODE_ABSOLUTEX
	case 0xDE:
		op, mode = "DEC", kMODE_ABSOLUTEX
	case 0xE0:
		op, mode = "CPX", kMODE_IMMEDIATE
	case 0xE1:
		op, mode = "SBC", kMODE_INDIRECTX
	case 0xE4:
		op, mode = "CPX", kMODE_ZP
	case 0xE5:
		op, mode = "SBC", kMODE_ZP
	case 0xE6:
		op, mode = "INC", kMODE_ZP
	case 0xE8:
		op = "INX"
	case 0xE9:
		op, mode = "SBC", kMODE_IMMEDIATE
	case 0xEA:
		op = "NOP"
	case 0xEC:
		op, mode = "CPX", kMODE_ABSOLUTE
	case 0xED:
		op, mode = "SBC", kMODE_ABSOLUTE
	case 0xEE:
		op, mode = "INC", kMODE_ABSOLUTE
	case 0xF0:
		op, mode = "BEQ", kMODE_RELATIVE
	case 0xF1:
		op, mode = "SBC", kMODE_INDIRECTY
	case 0xF5:
		op, mode = "SBC", kMODE_ZPX
	case 0xF6:
		op, mode = "INC", kMODE_ZPX
	case 0xF8:
		op = "SED"
	case 0xF9:
		op, mode = "SBC", kMODE_ABSOLUTEY
	case 0xFD:
		op, mode = "SBC", kMODE_ABSOLUTEX
	case 0xFE:
		op, mode = "INC", kMODE_ABSOLUTEX
	default:
		op = "???"
	}

	count := 2 // Default byte count, adjusted below.
	out := fmt.Sprintf("%.4X %.2X ", pc, o)
	switch mode {
	case kMODE_IMMEDIATE:
		out += fmt.Sprintf("%.2X      %s #%.2X       ", pc1, op, pc1)
	case kMODE_ZP:
		out += fmt.Sprintf("%.2X      %s %.2X        ", pc1, op, pc1)
	case kMODE_ZPX:
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", pc1, op, pc1)
	case kMODE_ZPY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", pc1, op, pc1)
	case kMODE_INDIRECTX:
		out += fmt.Sprintf("%.2X      %s (%.2X,X)    ", pc1, op, pc1)
	case kMODE_INDIRECTY:
		out += fmt.Sprintf("%.2X      %s (%.2X),Y    ", pc1, op, pc1)
	case kMODE_ABSOLUTE:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_ABSOLUTEX:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_ABSOLUTEY:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_INDIRECT:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_IMPLIED:
		out += fmt.Sprintf("        %s           ", op)
		count--
	case kMODE_RELATIVE:
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", pc1, op, pc1, pc+pc116+2)
	default:
		panic(fmt.Sprintf("invalid mode: %d", mode))
	}
	return out, count
}
