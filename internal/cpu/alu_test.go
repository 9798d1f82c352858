package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flags(r *Registers) (z, n, h, c bool) {
	return r.Flag(FlagZ), r.Flag(FlagN), r.Flag(FlagH), r.Flag(FlagC)
}

func TestDAA(t *testing.T) {
	type testArgs struct {
		a, operand byte
		op         byte // 0xC6 ADD A,d8 or 0xD6 SUB d8
		want       byte
		wantZ      bool
		wantC      bool
	}

	testDo := func(t *testing.T, in testArgs) {
		c, _ := newCPUAt(0x0000, 0x3E, in.a, in.op, in.operand, 0x27)
		run(c, 3)
		assert.Equal(t, in.want, c.Regs.A(), "A")
		assert.Equal(t, in.wantZ, c.Regs.Flag(FlagZ), "Z")
		assert.Equal(t, in.wantC, c.Regs.Flag(FlagC), "C")
		assert.False(t, c.Regs.Flag(FlagH), "H is always cleared")
		assert.Equal(t, in.op == 0xD6, c.Regs.Flag(FlagN), "N is preserved")
	}

	t.Run("half carry out of low digit", func(t *testing.T) {
		// H is set by 0x0F+0x01, so 0x10 gets +0x06; the 0x10 sometimes quoted for this sum skips that adjust.
		testDo(t, testArgs{a: 0x0F, operand: 0x01, op: 0xC6, want: 0x16})
	})
	t.Run("low digit overflow", func(t *testing.T) {
		testDo(t, testArgs{a: 0x09, operand: 0x01, op: 0xC6, want: 0x10})
	})
	t.Run("digits add", func(t *testing.T) {
		testDo(t, testArgs{a: 0x45, operand: 0x38, op: 0xC6, want: 0x83})
	})
	t.Run("99 plus 1 wraps with carry", func(t *testing.T) {
		testDo(t, testArgs{a: 0x99, operand: 0x01, op: 0xC6, want: 0x00, wantZ: true, wantC: true})
	})
	t.Run("binary carry", func(t *testing.T) {
		testDo(t, testArgs{a: 0x90, operand: 0x90, op: 0xC6, want: 0x80, wantC: true})
	})
	t.Run("borrow from low digit", func(t *testing.T) {
		testDo(t, testArgs{a: 0x10, operand: 0x01, op: 0xD6, want: 0x09})
	})
	t.Run("borrow from both digits", func(t *testing.T) {
		testDo(t, testArgs{a: 0x00, operand: 0x01, op: 0xD6, want: 0x99, wantC: true})
	})
	t.Run("equal operands", func(t *testing.T) {
		testDo(t, testArgs{a: 0x42, operand: 0x42, op: 0xD6, want: 0x00, wantZ: true})
	})
}

func TestAddHLHalfCarryFromBit11(t *testing.T) {
	// LD HL,0x0FFF; LD BC,0x0001; ADD HL,BC
	c, _ := newCPUAt(0x0000, 0x21, 0xFF, 0x0F, 0x01, 0x01, 0x00, 0x09)
	c.Regs.SetFlag(FlagZ, true)
	run(c, 3)
	assert.Equal(t, uint16(0x1000), c.Regs.Word(HL))
	z, n, h, cy := flags(&c.Regs)
	assert.True(t, z, "Z untouched")
	assert.False(t, n)
	assert.True(t, h)
	assert.False(t, cy)

	// 0x00FF + 0x00FF carries out of bit 7 only.
	c, _ = newCPUAt(0x0000, 0x21, 0xFF, 0x00, 0x29) // ADD HL,HL
	run(c, 2)
	assert.Equal(t, uint16(0x01FE), c.Regs.Word(HL))
	assert.False(t, c.Regs.Flag(FlagH))

	c, _ = newCPUAt(0x0000, 0x21, 0x00, 0x80, 0x29)
	run(c, 2)
	assert.Equal(t, uint16(0x0000), c.Regs.Word(HL))
	assert.True(t, c.Regs.Flag(FlagC))
}

func TestADCAddsCarryBit(t *testing.T) {
	// SCF; LD A,0x0E; ADC A,0x01
	c, _ := newCPUAt(0x0000, 0x37, 0x3E, 0x0E, 0xCE, 0x01)
	run(c, 3)
	assert.Equal(t, byte(0x10), c.Regs.A())
	z, n, h, cy := flags(&c.Regs)
	assert.False(t, z)
	assert.False(t, n)
	assert.True(t, h)
	assert.False(t, cy)

	// LD A,0xFF; ADD A,0x01 sets C; ADC A,0x00 then adds exactly 1.
	c, _ = newCPUAt(0x0000, 0x3E, 0xFF, 0xC6, 0x01, 0xCE, 0x00)
	run(c, 2)
	assert.True(t, c.Regs.Flag(FlagZ))
	assert.True(t, c.Regs.Flag(FlagC))
	c.Cycle()
	assert.Equal(t, byte(0x01), c.Regs.A())
	assert.False(t, c.Regs.Flag(FlagC))
}

func TestSubtractFamily(t *testing.T) {
	c, _ := newCPUAt(0x0000, 0x3E, 0x10, 0xFE, 0x20, 0xFE, 0x10, 0xDE, 0x00)
	run(c, 2) // CP 0x20
	assert.Equal(t, byte(0x10), c.Regs.A(), "CP leaves A")
	assert.True(t, c.Regs.Flag(FlagC))
	assert.True(t, c.Regs.Flag(FlagN))

	c.Cycle() // CP 0x10
	assert.True(t, c.Regs.Flag(FlagZ))
	assert.False(t, c.Regs.Flag(FlagC))

	c.Regs.SetFlag(FlagC, true)
	c.Cycle() // SBC A,0x00 with carry
	assert.Equal(t, byte(0x0F), c.Regs.A())
	assert.True(t, c.Regs.Flag(FlagH))
}

func TestLogicOps(t *testing.T) {
	c, _ := newCPUAt(0x0000, 0x3E, 0xF0, 0xE6, 0x0F, 0xF6, 0x81, 0xEE, 0xFF)
	run(c, 2)
	z, _, h, _ := flags(&c.Regs)
	assert.True(t, z)
	assert.True(t, h, "AND sets H")
	c.Cycle()
	assert.Equal(t, byte(0x81), c.Regs.A())
	assert.False(t, c.Regs.Flag(FlagH))
	c.Cycle()
	assert.Equal(t, byte(0x7E), c.Regs.A())
}

func TestIncDecLeaveCarry(t *testing.T) {
	// SCF; LD B,0x0F; INC B; LD C,0x01; DEC C; DEC C
	c, _ := newCPUAt(0x0000, 0x37, 0x06, 0x0F, 0x04, 0x0E, 0x01, 0x0D, 0x0D)
	run(c, 3)
	assert.Equal(t, byte(0x10), c.Regs.High(BC))
	assert.True(t, c.Regs.Flag(FlagH))
	assert.True(t, c.Regs.Flag(FlagC))

	run(c, 2)
	assert.True(t, c.Regs.Flag(FlagZ))
	assert.True(t, c.Regs.Flag(FlagN))
	assert.False(t, c.Regs.Flag(FlagH))

	c.Cycle()
	assert.Equal(t, byte(0xFF), c.Regs.Low(BC))
	assert.True(t, c.Regs.Flag(FlagH))
	assert.True(t, c.Regs.Flag(FlagC))
}

func TestIncDecMemory(t *testing.T) {
	c, mem := newCPUAt(0x0000, 0x21, 0x00, 0xC0, 0x34, 0x34, 0x35)
	mem[0xC000] = 0xFF
	c.Cycle()
	assert.Equal(t, 12, c.Cycle())
	assert.Equal(t, byte(0x00), mem[0xC000])
	assert.True(t, c.Regs.Flag(FlagZ))
	run(c, 2)
	assert.Equal(t, byte(0x00), mem[0xC000])
}

func TestIncDecPairWrap(t *testing.T) {
	c, _ := newCPUAt(0x0000, 0x31, 0xFF, 0xFF, 0x33, 0x1B)
	c.Regs.SetFlag(FlagZ, true)
	run(c, 2)
	assert.Equal(t, uint16(0x0000), c.Regs.Word(SP))
	c.Cycle()
	assert.Equal(t, uint16(0xFFFF), c.Regs.Word(DE))
	assert.Equal(t, byte(FlagZ), c.Regs.F(), "16-bit inc/dec leave flags")
}

func TestAccumulatorRotates(t *testing.T) {
	cases := []struct {
		name  string
		op    byte
		a     byte
		carry bool
		want  byte
		wantC bool
	}{
		{"RLCA", 0x07, 0x85, false, 0x0B, true},
		{"RRCA", 0x0F, 0x01, false, 0x80, true},
		{"RLA", 0x17, 0x80, false, 0x00, true},
		{"RLA carry in", 0x17, 0x00, true, 0x01, false},
		{"RRA", 0x1F, 0x01, true, 0x80, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newCPUAt(0x0000, 0x3E, tc.a, tc.op)
			c.Cycle()
			c.Regs.SetFlag(FlagC, tc.carry)
			c.Cycle()
			assert.Equal(t, tc.want, c.Regs.A())
			z, n, h, cy := flags(&c.Regs)
			assert.False(t, z, "Z always cleared")
			assert.False(t, n)
			assert.False(t, h)
			assert.Equal(t, tc.wantC, cy)
		})
	}
}

func TestCPLSCFCCF(t *testing.T) {
	c, _ := newCPUAt(0x0000, 0x3E, 0x35, 0x2F, 0x37, 0x3F)
	run(c, 2)
	assert.Equal(t, byte(0xCA), c.Regs.A())
	assert.True(t, c.Regs.Flag(FlagN))
	assert.True(t, c.Regs.Flag(FlagH))

	c.Cycle()
	assert.True(t, c.Regs.Flag(FlagC))
	assert.False(t, c.Regs.Flag(FlagN))
	assert.False(t, c.Regs.Flag(FlagH))

	c.Cycle()
	assert.False(t, c.Regs.Flag(FlagC))
}
