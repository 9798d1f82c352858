package cpu

// buildTable binds every defined opcode to a handler. Handlers receive the
// opcode byte and decode their operand selectors from it. Entries left nil
// (0xD3 0xDB 0xDD 0xE3 0xE4 0xEB 0xEC 0xED 0xF4 0xFC 0xFD) are undefined.
func (c *CPU) buildTable() {
	t := &c.ops

	t[0x00] = func(byte) int { return 4 } // NOP
	t[0x10] = func(byte) int { // STOP; the padding byte is consumed
		c.fetch8()
		c.stopped = true
		return 4
	}
	t[0x76] = func(byte) int { c.halted = true; return 4 }
	t[0xF3] = func(byte) int { c.IME = false; return 4 }
	t[0xFB] = func(byte) int { c.IME = true; return 4 }

	// 16-bit loads and arithmetic: x1, x3, x9, xB
	for hi := byte(0); hi < 4; hi++ {
		t[hi<<4|0x01] = func(op byte) int { // LD rr,d16
			c.Regs.SetWord(pairSP(op), c.fetch16())
			return 12
		}
		t[hi<<4|0x03] = func(op byte) int { // INC rr
			c.Regs.Pair(pairSP(op)).Inc()
			return 8
		}
		t[hi<<4|0x0B] = func(op byte) int { // DEC rr
			c.Regs.Pair(pairSP(op)).Dec()
			return 8
		}
		t[hi<<4|0x09] = func(op byte) int { // ADD HL,rr
			c.addHL(c.Regs.Word(pairSP(op)))
			return 8
		}
	}

	// Indirect accumulator loads through BC, DE, HL+ and HL-.
	t[0x02] = func(byte) int { c.write8(c.Regs.Word(BC), c.Regs.A()); return 8 }
	t[0x12] = func(byte) int { c.write8(c.Regs.Word(DE), c.Regs.A()); return 8 }
	t[0x0A] = func(byte) int { c.Regs.SetA(c.read8(c.Regs.Word(BC))); return 8 }
	t[0x1A] = func(byte) int { c.Regs.SetA(c.read8(c.Regs.Word(DE))); return 8 }
	t[0x22] = func(byte) int {
		hl := c.Regs.Pair(HL)
		c.write8(hl.Word(), c.Regs.A())
		hl.Inc()
		return 8
	}
	t[0x32] = func(byte) int {
		hl := c.Regs.Pair(HL)
		c.write8(hl.Word(), c.Regs.A())
		hl.Dec()
		return 8
	}
	t[0x2A] = func(byte) int {
		hl := c.Regs.Pair(HL)
		c.Regs.SetA(c.read8(hl.Word()))
		hl.Inc()
		return 8
	}
	t[0x3A] = func(byte) int {
		hl := c.Regs.Pair(HL)
		c.Regs.SetA(c.read8(hl.Word()))
		hl.Dec()
		return 8
	}

	t[0x08] = func(byte) int { // LD (a16),SP
		c.write16(c.fetch16(), c.Regs.Word(SP))
		return 20
	}

	// INC r, DEC r, LD r,d8 with the target in bits 3-5.
	for y := byte(0); y < 8; y++ {
		t[y<<3|0x04] = func(op byte) int {
			r := (op >> 3) & 7
			c.setReg(r, c.inc8(c.reg(r)))
			if r == 6 {
				return 12
			}
			return 4
		}
		t[y<<3|0x05] = func(op byte) int {
			r := (op >> 3) & 7
			c.setReg(r, c.dec8(c.reg(r)))
			if r == 6 {
				return 12
			}
			return 4
		}
		t[y<<3|0x06] = func(op byte) int {
			r := (op >> 3) & 7
			c.setReg(r, c.fetch8())
			if r == 6 {
				return 12
			}
			return 8
		}
	}

	// Accumulator rotates always clear Z.
	for i, kind := range [4]int{rotRLC, rotRRC, rotRL, rotRR} {
		kind := kind
		t[byte(i)<<3|0x07] = func(byte) int {
			c.Regs.SetA(c.rotate(kind, c.Regs.A()))
			c.Regs.SetFlag(FlagZ, false)
			return 4
		}
	}

	t[0x27] = func(byte) int { c.daa(); return 4 }
	t[0x2F] = func(byte) int { // CPL
		c.Regs.SetA(^c.Regs.A())
		c.Regs.SetFlag(FlagN, true)
		c.Regs.SetFlag(FlagH, true)
		return 4
	}
	t[0x37] = func(byte) int { // SCF
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagC, true)
		return 4
	}
	t[0x3F] = func(byte) int { // CCF
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagC, !c.Regs.Flag(FlagC))
		return 4
	}

	// Relative jumps: the offset is applied to PC after the operand fetch.
	t[0x18] = func(byte) int {
		e := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(e))
		return 12
	}
	for y := byte(4); y < 8; y++ {
		t[y<<3] = func(op byte) int { // JR cc,r8
			e := int8(c.fetch8())
			if !c.cond(op) {
				return 8
			}
			c.PC = uint16(int32(c.PC) + int32(e))
			return 12
		}
	}

	// LD r,r' (0x76 is HALT and bound above)
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		t[op] = func(op byte) int {
			dst, src := (op>>3)&7, op&7
			c.setReg(dst, c.reg(src))
			if dst == 6 || src == 6 {
				return 8
			}
			return 4
		}
	}

	// ALU A,r and ALU A,d8
	for op := 0x80; op < 0xC0; op++ {
		t[op] = func(op byte) int {
			c.alu(int(op>>3)&7, c.reg(op&7))
			if op&7 == 6 {
				return 8
			}
			return 4
		}
	}
	for y := 0; y < 8; y++ {
		t[0xC6|y<<3] = func(op byte) int {
			c.alu(int(op>>3)&7, c.fetch8())
			return 8
		}
	}

	// Control flow with conditions in bits 3-4.
	for y := byte(0); y < 4; y++ {
		t[0xC0|y<<3] = func(op byte) int { // RET cc
			if !c.cond(op) {
				return 8
			}
			c.PC = c.pop16()
			return 20
		}
		t[0xC2|y<<3] = func(op byte) int { // JP cc,a16
			addr := c.fetch16()
			if !c.cond(op) {
				return 12
			}
			c.PC = addr
			return 16
		}
		t[0xC4|y<<3] = func(op byte) int { // CALL cc,a16
			addr := c.fetch16()
			if !c.cond(op) {
				return 12
			}
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
	}
	t[0xC3] = func(byte) int { c.PC = c.fetch16(); return 16 }
	t[0xE9] = func(byte) int { c.PC = c.Regs.Word(HL); return 4 }
	t[0xCD] = func(byte) int {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	}
	t[0xC9] = func(byte) int { c.PC = c.pop16(); return 16 }
	t[0xD9] = func(byte) int { // RETI
		c.PC = c.pop16()
		c.IME = true
		return 16
	}
	for y := 0; y < 8; y++ {
		t[0xC7|y<<3] = func(op byte) int { // RST n
			c.push16(c.PC)
			c.PC = uint16(op & 0x38)
			return 16
		}
	}

	// Stack: PUSH/POP select BC DE HL AF; POP AF drops the low nibble of F.
	for hi := 0xC; hi <= 0xF; hi++ {
		t[hi<<4|0x01] = func(op byte) int {
			c.Regs.SetWord(pairAF(op), c.pop16())
			return 12
		}
		t[hi<<4|0x05] = func(op byte) int {
			c.push16(c.Regs.Word(pairAF(op)))
			return 16
		}
	}

	// High-page and absolute accumulator loads.
	t[0xE0] = func(byte) int { c.write8(0xFF00|uint16(c.fetch8()), c.Regs.A()); return 12 }
	t[0xF0] = func(byte) int { c.Regs.SetA(c.read8(0xFF00 | uint16(c.fetch8()))); return 12 }
	t[0xE2] = func(byte) int { c.write8(0xFF00|uint16(c.Regs.Low(BC)), c.Regs.A()); return 8 }
	t[0xF2] = func(byte) int { c.Regs.SetA(c.read8(0xFF00 | uint16(c.Regs.Low(BC)))); return 8 }
	t[0xEA] = func(byte) int { c.write8(c.fetch16(), c.Regs.A()); return 16 }
	t[0xFA] = func(byte) int { c.Regs.SetA(c.read8(c.fetch16())); return 16 }

	// SP arithmetic.
	t[0xE8] = func(byte) int {
		c.Regs.SetWord(SP, c.spOffset(c.fetch8()))
		return 16
	}
	t[0xF8] = func(byte) int {
		c.Regs.SetWord(HL, c.spOffset(c.fetch8()))
		return 12
	}
	t[0xF9] = func(byte) int { c.Regs.SetWord(SP, c.Regs.Word(HL)); return 8 }

	t[0xCB] = func(byte) int { return c.execCB(c.fetch8()) }
}
