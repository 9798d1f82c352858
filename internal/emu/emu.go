// Package emu wires cartridge, bus, CPU and PPU into one machine and drives
// them in strict CPU-then-PPU order.
package emu

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// ErrFault wraps every error raised while executing: a cartridge access
// outside the image or an unreachable PPU state. A faulted machine keeps
// returning the same error.
var ErrFault = errors.New("emu: machine fault")

// Machine owns all components. It is not safe for concurrent use.
type Machine struct {
	cfg Config

	cart cart.Cartridge
	bus  *bus.Bus
	cpu  *cpu.CPU
	ppu  *ppu.PPU

	cycles uint64
	err    error

	log logrus.FieldLogger
}

// Option configures New.
type Option func(*Machine)

// WithLogger sets the logger handed to every component.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Machine) { m.log = l }
}

// New builds a machine at power-on: PC at 0x0000 with the boot ROM mapped.
func New(rom, boot []byte, cfg Config, opts ...Option) (*Machine, error) {
	m := &Machine{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}

	c, err := cart.New(rom, cart.WithLogger(m.log))
	if err != nil {
		return nil, fmt.Errorf("emu: load cartridge: %w", err)
	}
	p := ppu.New(ppu.WithLogger(m.log))
	b, err := bus.New(c, boot, p, bus.WithLogger(m.log))
	if err != nil {
		return nil, fmt.Errorf("emu: map memory: %w", err)
	}

	m.cart, m.ppu, m.bus = c, p, b
	m.cpu = cpu.New(b, cpu.WithLogger(m.log), cpu.WithUndefinedWarn(cfg.UndefinedWarn))
	return m, nil
}

// Step runs one CPU instruction, then advances the PPU to the new cycle total.
// It returns the instruction's cost in T-cycles.
func (m *Machine) Step() (cycles int, err error) {
	if m.err != nil {
		return 0, m.err
	}
	pc := m.cpu.PC
	defer func() {
		if r := recover(); r != nil {
			m.err = m.fault(r, pc)
			cycles, err = 0, m.err
		}
	}()

	cycles = m.cpu.Cycle()
	m.cycles += uint64(cycles)
	m.ppu.Cycle(m.cycles)

	if m.cfg.Trace {
		m.log.WithField("pc", fmt.Sprintf("%#04x", pc)).Trace(m.cpu.Trace())
	}
	return cycles, nil
}

// fault converts a component panic into an error. Anything other than the
// known fault types is re-raised.
func (m *Machine) fault(r interface{}, pc uint16) error {
	var cause error
	switch e := r.(type) {
	case *cart.AccessError:
		cause = e
	case *ppu.StateError:
		cause = e
	default:
		panic(r)
	}
	m.log.WithFields(logrus.Fields{
		"pc":     fmt.Sprintf("%#04x", pc),
		"cycles": m.cycles,
	}).WithError(cause).Error("machine fault")
	return fmt.Errorf("%w at pc %#04x: %w", ErrFault, pc, cause)
}

// StepFrame steps until the PPU completes a frame.
func (m *Machine) StepFrame() error {
	frame := m.ppu.Frame()
	for m.ppu.Frame() == frame {
		if _, err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run steps frame by frame until quit reports true. quit is checked once
// before every frame.
func (m *Machine) Run(quit func() bool) error {
	for !quit() {
		if err := m.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Cycles returns the T-cycles executed since power-on.
func (m *Machine) Cycles() uint64 { return m.cycles }

// Framebuffer returns the PPU's RGBA framebuffer (160x144x4).
func (m *Machine) Framebuffer() []byte { return m.ppu.Framebuffer() }

func (m *Machine) CPU() *cpu.CPU             { return m.cpu }
func (m *Machine) Bus() *bus.Bus             { return m.bus }
func (m *Machine) PPU() *ppu.PPU             { return m.ppu }
func (m *Machine) Cartridge() cart.Cartridge { return m.cart }
