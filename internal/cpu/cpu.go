package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
)

// Memory is the address space the CPU executes against.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// CPU is an instruction-accurate LR35902 core. Interrupt dispatch is not
// modelled: IME, HALT and STOP are recorded but never acted upon.
type CPU struct {
	Regs Registers
	PC   uint16

	IME     bool
	halted  bool
	stopped bool

	mem Memory
	ops [256]func(op byte) int

	log           logrus.FieldLogger
	warnUndefined bool
}

// Option configures New.
type Option func(*CPU)

// WithLogger sets the logger used for undefined opcodes.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *CPU) { c.log = l }
}

// WithUndefinedWarn reports undefined opcodes at warn level instead of debug.
func WithUndefinedWarn(on bool) Option {
	return func(c *CPU) { c.warnUndefined = on }
}

// New creates a CPU at power-on state: all registers zero, PC at 0x0000.
func New(mem Memory, opts ...Option) *CPU {
	c := &CPU{mem: mem, log: logging.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	c.buildTable()
	return c
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Halted reports whether the last instruction executed was HALT.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the last instruction executed was STOP.
func (c *CPU) Stopped() bool { return c.stopped }

// Cycle executes one instruction and returns its cost in T-cycles.
// Undefined opcodes consume their byte and cost 4 cycles.
func (c *CPU) Cycle() int {
	c.halted, c.stopped = false, false
	pc := c.PC
	op := c.fetch8()
	if h := c.ops[op]; h != nil {
		return h(op)
	}
	entry := c.log.WithFields(logrus.Fields{
		"pc":     fmt.Sprintf("%#04x", pc),
		"opcode": fmt.Sprintf("%#02x", op),
	})
	if c.warnUndefined {
		entry.Warn("undefined opcode")
	} else {
		entry.Debug("undefined opcode")
	}
	return 4
}

func (c *CPU) read8(addr uint16) byte     { return c.mem.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.mem.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) push16(v uint16) {
	sp := c.Regs.Pair(SP)
	sp.Dec()
	c.write8(sp.Word(), byte(v>>8))
	sp.Dec()
	c.write8(sp.Word(), byte(v))
}

func (c *CPU) pop16() uint16 {
	sp := c.Regs.Pair(SP)
	v := c.read16(sp.Word())
	sp.Add(2)
	return v
}

// reg reads an 8-bit operand by its 3-bit encoding: B C D E H L (HL) A.
func (c *CPU) reg(i byte) byte {
	switch i & 7 {
	case 0:
		return c.Regs.High(BC)
	case 1:
		return c.Regs.Low(BC)
	case 2:
		return c.Regs.High(DE)
	case 3:
		return c.Regs.Low(DE)
	case 4:
		return c.Regs.High(HL)
	case 5:
		return c.Regs.Low(HL)
	case 6:
		return c.read8(c.Regs.Word(HL))
	default:
		return c.Regs.A()
	}
}

func (c *CPU) setReg(i, v byte) {
	switch i & 7 {
	case 0:
		c.Regs.SetHigh(BC, v)
	case 1:
		c.Regs.SetLow(BC, v)
	case 2:
		c.Regs.SetHigh(DE, v)
	case 3:
		c.Regs.SetLow(DE, v)
	case 4:
		c.Regs.SetHigh(HL, v)
	case 5:
		c.Regs.SetLow(HL, v)
	case 6:
		c.write8(c.Regs.Word(HL), v)
	default:
		c.Regs.SetA(v)
	}
}

// Operand pair selectors from opcode bits 4-5.
var (
	pairsSP = [4]PairID{BC, DE, HL, SP}
	pairsAF = [4]PairID{BC, DE, HL, AF}
)

func pairSP(op byte) PairID { return pairsSP[(op>>4)&3] }
func pairAF(op byte) PairID { return pairsAF[(op>>4)&3] }

// cond evaluates the branch condition in opcode bits 3-4: NZ, Z, NC, C.
func (c *CPU) cond(op byte) bool {
	switch (op >> 3) & 3 {
	case 0:
		return !c.Regs.Flag(FlagZ)
	case 1:
		return c.Regs.Flag(FlagZ)
	case 2:
		return !c.Regs.Flag(FlagC)
	default:
		return c.Regs.Flag(FlagC)
	}
}

// Trace returns a one-line register dump.
func (c *CPU) Trace() string {
	r := &c.Regs
	return fmt.Sprintf("PC=%04X AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X IME=%t",
		c.PC, r.Word(AF), r.Word(BC), r.Word(DE), r.Word(HL), r.Word(SP), c.IME)
}
