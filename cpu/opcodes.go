package cpu

// valueOp receives an already-fetched operand value (a register stays
// unmodified; memory has already been read). The addressing-mode helpers
// below (immediate, zeroPage, absoluteX, indirectY, ...) fetch the operand per addressing mode and hand it to one of
// these before computing the opcode's cycle count.
type valueOp func(c *Chip, operand uint8)

// unaryOp receives the current value at the target (accumulator or memory)
// and returns the new value; read-modify-write addressing-mode helpers take
// care of the write-back.
type unaryOp func(c *Chip, operand uint8) uint8

func (c *Chip) set(opcode uint8, name string, length uint8, fn opFunc) {
	if c.table[opcode].fn != nil {
		panic("cpu: duplicate opcode " + name)
	}
	c.table[opcode] = opInfo{name: name, len: length, fn: fn}
}

func (c *Chip) immediate(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		op(c, c.instr[1])
		return 2
	})
}

func (c *Chip) zeroPage(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		op(c, c.bus.Read(uint16(c.instr[1])))
		return 3
	})
}

func (c *Chip) zeroPageX(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		addr := uint16(c.instr[1]+c.X) & 0xFF
		op(c, c.bus.Read(addr))
		return 4
	})
}

func (c *Chip) zeroPageY(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		addr := uint16(c.instr[1]+c.Y) & 0xFF
		op(c, c.bus.Read(addr))
		return 4
	})
}

func (c *Chip) absolute(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 3, func(c *Chip) int {
		op(c, c.bus.Read(c.absoluteAddr()))
		return 4
	})
}

func (c *Chip) absoluteX(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 3, func(c *Chip) int {
		base := c.absoluteAddr()
		addr := base + uint16(c.X)
		op(c, c.bus.Read(addr))
		return 4 + pageCrossPenalty(base, addr)
	})
}

func (c *Chip) absoluteY(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 3, func(c *Chip) int {
		base := c.absoluteAddr()
		addr := base + uint16(c.Y)
		op(c, c.bus.Read(addr))
		return 4 + pageCrossPenalty(base, addr)
	})
}

func (c *Chip) indirectX(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		zp := uint16(c.instr[1]+c.X) & 0xFF
		lo := c.bus.Read(zp)
		hi := c.bus.Read((zp + 1) & 0xFF)
		addr := uint16(hi)<<8 | uint16(lo)
		op(c, c.bus.Read(addr))
		return 6
	})
}

func (c *Chip) indirectY(opcode uint8, name string, op valueOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		zp := uint16(c.instr[1])
		lo := c.bus.Read(zp)
		hi := c.bus.Read((zp + 1) & 0xFF)
		base := uint16(hi)<<8 | uint16(lo)
		addr := base + uint16(c.Y)
		op(c, c.bus.Read(addr))
		return 5 + pageCrossPenalty(base, addr)
	})
}

func (c *Chip) unaryA(opcode uint8, name string, op unaryOp) {
	c.set(opcode, name, 1, func(c *Chip) int {
		c.A = op(c, c.A)
		return 2
	})
}

func (c *Chip) unaryZeroPage(opcode uint8, name string, op unaryOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		addr := uint16(c.instr[1])
		c.bus.Write(addr, op(c, c.bus.Read(addr)))
		return 5
	})
}

func (c *Chip) unaryZeroPageX(opcode uint8, name string, op unaryOp) {
	c.set(opcode, name, 2, func(c *Chip) int {
		addr := uint16(c.instr[1]+c.X) & 0xFF
		c.bus.Write(addr, op(c, c.bus.Read(addr)))
		return 6
	})
}

func (c *Chip) unaryAbsolute(opcode uint8, name string, op unaryOp) {
	c.set(opcode, name, 3, func(c *Chip) int {
		addr := c.absoluteAddr()
		c.bus.Write(addr, op(c, c.bus.Read(addr)))
		return 6
	})
}

func (c *Chip) unaryAbsoluteX(opcode uint8, name string, op unaryOp) {
	c.set(opcode, name, 3, func(c *Chip) int {
		addr := c.absoluteAddr() + uint16(c.X)
		c.bus.Write(addr, op(c, c.bus.Read(addr)))
		return 7
	})
}

// buildTable populates the 256 entry dispatch table once at construction.
// Unpopulated entries (undocumented opcodes, and BRK since interrupts are
// not modeled) are left zero-valued and surface as InvalidOpcode from Step.
func (c *Chip) buildTable() {
	c.addLoads()
	c.addStores()
	c.addTransfers()
	c.addArithmetic()
	c.addCompares()
	c.addLogical()
	c.addShiftsAndRotates()
	c.addBranches()
	c.addJumps()
	c.addStack()
	c.addFlags()

	c.set(0xEA, "NOP", 1, func(c *Chip) int { return 2 })
}

func (c *Chip) addLoads() {
	lda := func(c *Chip, v uint8) { c.A = c.transfer(v) }
	c.immediate(0xA9, "LDA #", lda)
	c.zeroPage(0xA5, "LDA zpg", lda)
	c.zeroPageX(0xB5, "LDA zpg,X", lda)
	c.absolute(0xAD, "LDA abs", lda)
	c.absoluteX(0xBD, "LDA abs,X", lda)
	c.absoluteY(0xB9, "LDA abs,Y", lda)
	c.indirectX(0xA1, "LDA (ind,X)", lda)
	c.indirectY(0xB1, "LDA (ind),Y", lda)

	ldx := func(c *Chip, v uint8) { c.X = c.transfer(v) }
	c.immediate(0xA2, "LDX #", ldx)
	c.zeroPage(0xA6, "LDX zpg", ldx)
	c.zeroPageY(0xB6, "LDX zpg,Y", ldx)
	c.absolute(0xAE, "LDX abs", ldx)
	c.absoluteY(0xBE, "LDX abs,Y", ldx)

	ldy := func(c *Chip, v uint8) { c.Y = c.transfer(v) }
	c.immediate(0xA0, "LDY #", ldy)
	c.zeroPage(0xA4, "LDY zpg", ldy)
	c.zeroPageX(0xB4, "LDY zpg,X", ldy)
	c.absolute(0xAC, "LDY abs", ldy)
	c.absoluteX(0xBC, "LDY abs,X", ldy)
}

func (c *Chip) addStores() {
	c.set(0x85, "STA zpg", 2, func(c *Chip) int { c.bus.Write(uint16(c.instr[1]), c.A); return 3 })
	c.set(0x95, "STA zpg,X", 2, func(c *Chip) int {
		c.bus.Write(uint16(c.instr[1]+c.X)&0xFF, c.A)
		return 4
	})
	c.set(0x8D, "STA abs", 3, func(c *Chip) int { c.bus.Write(c.absoluteAddr(), c.A); return 4 })
	c.set(0x9D, "STA abs,X", 3, func(c *Chip) int { c.bus.Write(c.absoluteAddr()+uint16(c.X), c.A); return 5 })
	c.set(0x99, "STA abs,Y", 3, func(c *Chip) int { c.bus.Write(c.absoluteAddr()+uint16(c.Y), c.A); return 5 })
	c.set(0x81, "STA (ind,X)", 2, func(c *Chip) int {
		zp := uint16(c.instr[1]+c.X) & 0xFF
		lo := c.bus.Read(zp)
		hi := c.bus.Read((zp + 1) & 0xFF)
		c.bus.Write(uint16(hi)<<8|uint16(lo), c.A)
		return 6
	})
	c.set(0x91, "STA (ind),Y", 2, func(c *Chip) int {
		zp := uint16(c.instr[1])
		lo := c.bus.Read(zp)
		hi := c.bus.Read((zp + 1) & 0xFF)
		c.bus.Write((uint16(hi)<<8|uint16(lo))+uint16(c.Y), c.A)
		return 6
	})

	c.set(0x86, "STX zpg", 2, func(c *Chip) int { c.bus.Write(uint16(c.instr[1]), c.X); return 3 })
	c.set(0x96, "STX zpg,Y", 2, func(c *Chip) int {
		c.bus.Write(uint16(c.instr[1]+c.Y)&0xFF, c.X)
		return 4
	})
	c.set(0x8E, "STX abs", 3, func(c *Chip) int { c.bus.Write(c.absoluteAddr(), c.X); return 4 })

	c.set(0x84, "STY zpg", 2, func(c *Chip) int { c.bus.Write(uint16(c.instr[1]), c.Y); return 3 })
	c.set(0x94, "STY zpg,X", 2, func(c *Chip) int {
		c.bus.Write(uint16(c.instr[1]+c.X)&0xFF, c.Y)
		return 4
	})
	c.set(0x8C, "STY abs", 3, func(c *Chip) int { c.bus.Write(c.absoluteAddr(), c.Y); return 4 })
}

func (c *Chip) addTransfers() {
	c.set(0xAA, "TAX", 1, func(c *Chip) int { c.X = c.transfer(c.A); return 2 })
	c.set(0xA8, "TAY", 1, func(c *Chip) int { c.Y = c.transfer(c.A); return 2 })
	c.set(0xBA, "TSX", 1, func(c *Chip) int { c.X = c.transfer(c.SP); return 2 })
	c.set(0x8A, "TXA", 1, func(c *Chip) int { c.A = c.transfer(c.X); return 2 })
	c.set(0x98, "TYA", 1, func(c *Chip) int { c.A = c.transfer(c.Y); return 2 })
	// TXS deliberately bypasses transfer: real hardware leaves N/Z unchanged (O1).
	c.set(0x9A, "TXS", 1, func(c *Chip) int { c.SP = c.X; return 2 })
}

func (c *Chip) addArithmetic() {
	inc := func(c *Chip, v uint8) uint8 { v++; c.updateNZ(v); return v }
	c.unaryZeroPage(0xE6, "INC zpg", inc)
	c.unaryZeroPageX(0xF6, "INC zpg,X", inc)
	c.unaryAbsolute(0xEE, "INC abs", inc)
	c.unaryAbsoluteX(0xFE, "INC abs,X", inc)
	c.set(0xE8, "INX", 1, func(c *Chip) int { c.X++; c.updateNZ(c.X); return 2 })
	c.set(0xC8, "INY", 1, func(c *Chip) int { c.Y++; c.updateNZ(c.Y); return 2 })

	dec := func(c *Chip, v uint8) uint8 { v--; c.updateNZ(v); return v }
	c.unaryZeroPage(0xC6, "DEC zpg", dec)
	c.unaryZeroPageX(0xD6, "DEC zpg,X", dec)
	c.unaryAbsolute(0xCE, "DEC abs", dec)
	c.unaryAbsoluteX(0xDE, "DEC abs,X", dec)
	c.set(0xCA, "DEX", 1, func(c *Chip) int { c.X--; c.updateNZ(c.X); return 2 })
	c.set(0x88, "DEY", 1, func(c *Chip) int { c.Y--; c.updateNZ(c.Y); return 2 })

	adc := func(c *Chip, v uint8) { c.adc(v) }
	c.immediate(0x69, "ADC #", adc)
	c.zeroPage(0x65, "ADC zpg", adc)
	c.zeroPageX(0x75, "ADC zpg,X", adc)
	c.absolute(0x6D, "ADC abs", adc)
	c.absoluteX(0x7D, "ADC abs,X", adc)
	c.absoluteY(0x79, "ADC abs,Y", adc)
	c.indirectX(0x61, "ADC (ind,X)", adc)
	c.indirectY(0x71, "ADC (ind),Y", adc)

	sbc := func(c *Chip, v uint8) { c.sbc(v) }
	c.immediate(0xE9, "SBC #", sbc)
	c.zeroPage(0xE5, "SBC zpg", sbc)
	c.zeroPageX(0xF5, "SBC zpg,X", sbc)
	c.absolute(0xED, "SBC abs", sbc)
	c.absoluteX(0xFD, "SBC abs,X", sbc)
	c.absoluteY(0xF9, "SBC abs,Y", sbc)
	c.indirectX(0xE1, "SBC (ind,X)", sbc)
	c.indirectY(0xF1, "SBC (ind),Y", sbc)
}

func (c *Chip) addCompares() {
	cmp := func(c *Chip, v uint8) { c.compare(c.A, v) }
	c.immediate(0xC9, "CMP #", cmp)
	c.zeroPage(0xC5, "CMP zpg", cmp)
	c.zeroPageX(0xD5, "CMP zpg,X", cmp)
	c.absolute(0xCD, "CMP abs", cmp)
	c.absoluteX(0xDD, "CMP abs,X", cmp)
	c.absoluteY(0xD9, "CMP abs,Y", cmp)
	c.indirectX(0xC1, "CMP (ind,X)", cmp)
	c.indirectY(0xD1, "CMP (ind),Y", cmp)

	cpx := func(c *Chip, v uint8) { c.compare(c.X, v) }
	c.immediate(0xE0, "CPX #", cpx)
	c.zeroPage(0xE4, "CPX zpg", cpx)
	c.absolute(0xEC, "CPX abs", cpx)

	cpy := func(c *Chip, v uint8) { c.compare(c.Y, v) }
	c.immediate(0xC0, "CPY #", cpy)
	c.zeroPage(0xC4, "CPY zpg", cpy)
	c.absolute(0xCC, "CPY abs", cpy)
}

func (c *Chip) addLogical() {
	and := func(c *Chip, v uint8) { c.A &= v; c.updateNZ(c.A) }
	c.immediate(0x29, "AND #", and)
	c.zeroPage(0x25, "AND zpg", and)
	c.zeroPageX(0x35, "AND zpg,X", and)
	c.absolute(0x2D, "AND abs", and)
	c.absoluteX(0x3D, "AND abs,X", and)
	c.absoluteY(0x39, "AND abs,Y", and)
	c.indirectX(0x21, "AND (ind,X)", and)
	c.indirectY(0x31, "AND (ind),Y", and)

	ora := func(c *Chip, v uint8) { c.A |= v; c.updateNZ(c.A) }
	c.immediate(0x09, "ORA #", ora)
	c.zeroPage(0x05, "ORA zpg", ora)
	c.zeroPageX(0x15, "ORA zpg,X", ora)
	c.absolute(0x0D, "ORA abs", ora)
	c.absoluteX(0x1D, "ORA abs,X", ora)
	c.absoluteY(0x19, "ORA abs,Y", ora)
	c.indirectX(0x01, "ORA (ind,X)", ora)
	c.indirectY(0x11, "ORA (ind),Y", ora)

	eor := func(c *Chip, v uint8) { c.A ^= v; c.updateNZ(c.A) }
	c.immediate(0x49, "EOR #", eor)
	c.zeroPage(0x45, "EOR zpg", eor)
	c.zeroPageX(0x55, "EOR zpg,X", eor)
	c.absolute(0x4D, "EOR abs", eor)
	c.absoluteX(0x5D, "EOR abs,X", eor)
	c.absoluteY(0x59, "EOR abs,Y", eor)
	c.indirectX(0x41, "EOR (ind,X)", eor)
	c.indirectY(0x51, "EOR (ind),Y", eor)

	// BIT sets Z from (A AND M) == 0, not the raw AND result (O3).
	bit := func(c *Chip, v uint8) {
		c.Zero = c.A&v == 0
		c.Negative = v&0x80 != 0
		c.Overflow = v&0x40 != 0
	}
	c.zeroPage(0x24, "BIT zpg", bit)
	c.absolute(0x2C, "BIT abs", bit)
}

func (c *Chip) addShiftsAndRotates() {
	// ASL's new carry is the old bit 7, not operand&7 (O4).
	asl := func(c *Chip, v uint8) uint8 {
		c.Carry = v&0x80 != 0
		v <<= 1
		c.updateNZ(v)
		return v
	}
	c.unaryA(0x0A, "ASL A", asl)
	c.unaryZeroPage(0x06, "ASL zpg", asl)
	c.unaryZeroPageX(0x16, "ASL zpg,X", asl)
	c.unaryAbsolute(0x0E, "ASL abs", asl)
	c.unaryAbsoluteX(0x1E, "ASL abs,X", asl)

	lsr := func(c *Chip, v uint8) uint8 {
		c.Carry = v&1 != 0
		v >>= 1
		c.updateNZ(v)
		return v
	}
	c.unaryA(0x4A, "LSR A", lsr)
	c.unaryZeroPage(0x46, "LSR zpg", lsr)
	c.unaryZeroPageX(0x56, "LSR zpg,X", lsr)
	c.unaryAbsolute(0x4E, "LSR abs", lsr)
	c.unaryAbsoluteX(0x5E, "LSR abs,X", lsr)

	rol := func(c *Chip, v uint8) uint8 {
		carryOut := v&0x80 != 0
		v <<= 1
		if c.Carry {
			v |= 1
		}
		c.Carry = carryOut
		c.updateNZ(v)
		return v
	}
	c.unaryA(0x2A, "ROL A", rol)
	c.unaryZeroPage(0x26, "ROL zpg", rol)
	c.unaryZeroPageX(0x36, "ROL zpg,X", rol)
	c.unaryAbsolute(0x2E, "ROL abs", rol)
	c.unaryAbsoluteX(0x3E, "ROL abs,X", rol)

	ror := func(c *Chip, v uint8) uint8 {
		carryOut := v&1 != 0
		v >>= 1
		if c.Carry {
			v |= 0x80
		}
		c.Carry = carryOut
		c.updateNZ(v)
		return v
	}
	c.unaryA(0x6A, "ROR A", ror)
	c.unaryZeroPage(0x66, "ROR zpg", ror)
	c.unaryZeroPageX(0x76, "ROR zpg,X", ror)
	c.unaryAbsolute(0x6E, "ROR abs", ror)
	c.unaryAbsoluteX(0x7E, "ROR abs,X", ror)
}

func (c *Chip) addBranches() {
	branchIf := func(opcode uint8, name string, cond func(c *Chip) bool) {
		c.set(opcode, name, 2, func(c *Chip) int {
			if cond(c) {
				return c.branch()
			}
			return 2
		})
	}
	branchIf(0xD0, "BNE", func(c *Chip) bool { return !c.Zero })
	branchIf(0xF0, "BEQ", func(c *Chip) bool { return c.Zero })
	branchIf(0x10, "BPL", func(c *Chip) bool { return !c.Negative })
	branchIf(0x30, "BMI", func(c *Chip) bool { return c.Negative })
	branchIf(0xB0, "BCS", func(c *Chip) bool { return c.Carry })
	branchIf(0x90, "BCC", func(c *Chip) bool { return !c.Carry })
	branchIf(0x50, "BVC", func(c *Chip) bool { return !c.Overflow })
	branchIf(0x70, "BVS", func(c *Chip) bool { return c.Overflow })
}

func (c *Chip) addJumps() {
	c.set(0x4C, "JMP abs", 3, func(c *Chip) int {
		c.PC = c.absoluteAddr()
		return 3
	})
	// JMP indirect reproduces the real 6502 page-wrap bug: when the pointer's
	// low byte is 0xFF, the high byte is fetched from the start of the same
	// page rather than the next one. This is real hardware behavior, not a
	// latent source bug, and must be kept.
	c.set(0x6C, "JMP ind", 3, func(c *Chip) int {
		ptr := c.absoluteAddr()
		lo := c.bus.Read(ptr)
		hi := c.bus.Read((ptr & 0xFF00) | ((ptr + 1) & 0xFF))
		c.PC = uint16(hi)<<8 | uint16(lo)
		return 5
	})
	c.set(0x20, "JSR", 3, func(c *Chip) int {
		ret := c.PC - 1
		c.push(uint8(ret >> 8))
		c.push(uint8(ret & 0xFF))
		c.PC = c.absoluteAddr()
		return 6
	})
	c.set(0x60, "RTS", 1, func(c *Chip) int {
		lo := c.pop()
		hi := c.pop()
		c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
		return 6
	})
}

func (c *Chip) addStack() {
	c.set(0x48, "PHA", 1, func(c *Chip) int { c.push(c.A); return 3 })
	c.set(0x68, "PLA", 1, func(c *Chip) int { c.A = c.transfer(c.pop()); return 4 })
	c.set(0x08, "PHP", 1, func(c *Chip) int { c.push(c.status(true)); return 3 })
	c.set(0x28, "PLP", 1, func(c *Chip) int { c.setStatus(c.pop()); return 4 })
}

func (c *Chip) addFlags() {
	c.set(0x38, "SEC", 1, func(c *Chip) int { c.Carry = true; return 2 })
	c.set(0x18, "CLC", 1, func(c *Chip) int { c.Carry = false; return 2 })
	c.set(0x78, "SEI", 1, func(c *Chip) int { c.InterruptDisable = true; return 2 })
	c.set(0x58, "CLI", 1, func(c *Chip) int { c.InterruptDisable = false; return 2 })
	c.set(0xF8, "SED", 1, func(c *Chip) int { c.Decimal = true; return 2 })
	c.set(0xD8, "CLD", 1, func(c *Chip) int { c.Decimal = false; return 2 })
	c.set(0xB8, "CLV", 1, func(c *Chip) int { c.Overflow = false; return 2 })
}
