package cpu

// execCB runs a 0xCB-prefixed instruction. Bits 6-7 pick the group
// (shift/rotate, BIT, RES, SET), bits 3-5 the kind or bit index, bits 0-2
// the operand. The returned cost includes the prefix byte.
func (c *CPU) execCB(op byte) int {
	r := op & 7
	y := (op >> 3) & 7
	cycles := 8
	if r == 6 {
		cycles = 16
	}

	switch op >> 6 {
	case 0:
		c.setReg(r, c.rotate(int(y), c.reg(r)))
	case 1: // BIT
		c.Regs.SetFlag(FlagZ, c.reg(r)&(1<<y) == 0)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, true)
		if r == 6 {
			cycles = 12
		}
	case 2: // RES
		c.setReg(r, c.reg(r)&^(1<<y))
	case 3: // SET
		c.setReg(r, c.reg(r)|1<<y)
	}
	return cycles
}
