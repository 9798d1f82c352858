package cpu

// ALU operations selected by opcode bits 3-5 in 0x80-0xBF and 0xC6-0xFE.
const (
	aluADD = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

// alu applies op to A and v, updating A (except CP) and all four flags.
func (c *CPU) alu(op int, v byte) {
	a := c.Regs.A()
	var res byte
	switch op {
	case aluADD, aluADC:
		var ci byte
		if op == aluADC {
			ci = c.Regs.carryBit()
		}
		r := uint16(a) + uint16(v) + uint16(ci)
		res = byte(r)
		c.Regs.setFlags(res == 0, false, (a&0x0F)+(v&0x0F)+ci > 0x0F, r > 0xFF)
	case aluSUB, aluSBC, aluCP:
		var ci byte
		if op == aluSBC {
			ci = c.Regs.carryBit()
		}
		r := int(a) - int(v) - int(ci)
		res = byte(r)
		c.Regs.setFlags(res == 0, true, int(a&0x0F)-int(v&0x0F)-int(ci) < 0, r < 0)
		if op == aluCP {
			return
		}
	case aluAND:
		res = a & v
		c.Regs.setFlags(res == 0, false, true, false)
	case aluXOR:
		res = a ^ v
		c.Regs.setFlags(res == 0, false, false, false)
	case aluOR:
		res = a | v
		c.Regs.setFlags(res == 0, false, false, false)
	}
	c.Regs.SetA(res)
}

// inc8 and dec8 leave C untouched.
func (c *CPU) inc8(v byte) byte {
	r := v + 1
	c.Regs.SetFlag(FlagZ, r == 0)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, v&0x0F == 0x0F)
	return r
}

func (c *CPU) dec8(v byte) byte {
	r := v - 1
	c.Regs.SetFlag(FlagZ, r == 0)
	c.Regs.SetFlag(FlagN, true)
	c.Regs.SetFlag(FlagH, v&0x0F == 0)
	return r
}

// addHL adds to HL with carries out of bits 11 and 15; Z is untouched.
func (c *CPU) addHL(v uint16) {
	hl := c.Regs.Word(HL)
	r := uint32(hl) + uint32(v)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF)
	c.Regs.SetFlag(FlagC, r > 0xFFFF)
	c.Regs.SetWord(HL, uint16(r))
}

// spOffset computes SP+e8 for ADD SP,e8 and LD HL,SP+e8. H and C come from
// the unsigned add of the low byte; Z and N are cleared.
func (c *CPU) spOffset(e byte) uint16 {
	sp := c.Regs.Word(SP)
	c.Regs.setFlags(false, false,
		(sp&0x0F)+uint16(e&0x0F) > 0x0F,
		(sp&0xFF)+uint16(e) > 0xFF)
	return uint16(int32(sp) + int32(int8(e)))
}

func (c *CPU) daa() {
	a := c.Regs.A()
	carry := c.Regs.Flag(FlagC)
	if !c.Regs.Flag(FlagN) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.Regs.Flag(FlagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.Regs.Flag(FlagH) {
			a -= 0x06
		}
	}
	c.Regs.SetA(a)
	c.Regs.SetFlag(FlagZ, a == 0)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}

// Shift/rotate kinds, in CB-table order (bits 3-5 of 0x00-0x3F).
const (
	rotRLC = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSWAP
	rotSRL
)

// rotate performs a CB shift/rotate on v and sets Z from the result.
// The accumulator forms (RLCA etc.) clear Z afterwards.
func (c *CPU) rotate(kind int, v byte) byte {
	var r, out byte
	switch kind {
	case rotRLC:
		out = v >> 7
		r = v<<1 | out
	case rotRRC:
		out = v & 1
		r = v>>1 | out<<7
	case rotRL:
		out = v >> 7
		r = v<<1 | c.Regs.carryBit()
	case rotRR:
		out = v & 1
		r = v>>1 | c.Regs.carryBit()<<7
	case rotSLA:
		out = v >> 7
		r = v << 1
	case rotSRA:
		out = v & 1
		r = v>>1 | v&0x80
	case rotSWAP:
		r = v<<4 | v>>4
	case rotSRL:
		out = v & 1
		r = v >> 1
	}
	c.Regs.setFlags(r == 0, false, false, out == 1)
	return r
}
