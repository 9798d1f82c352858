// Package bus implements the DMG address space. Every CPU access is routed
// through a 16-entry table keyed by the top nibble of the address.
package bus

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
)

// BootROMSize is the number of bytes the DMG boot ROM overlays at 0x0000.
const BootROMSize = 0x100

var (
	ErrBootROMTooShort = errors.New("bus: boot ROM shorter than 256 bytes")
	ErrNoCartridge     = errors.New("bus: no cartridge")
	ErrDispatchGap     = errors.New("bus: address range without handler")
	ErrDispatchOverlap = errors.New("bus: address range with more than one handler")
)

// Video is the PPU side of the bus: VRAM, OAM and the LCD registers
// 0xFF40-0xFF4B. The lock queries reflect the current PPU mode.
type Video interface {
	CPURead(addr uint16) byte
	CPUWrite(addr uint16, v byte)
	VRAMLocked() bool
	OAMLocked() bool
}

// region maps every address with addr&mask == base to one handler pair.
type region struct {
	name  string
	base  uint16
	mask  uint16
	read  func(addr uint16) byte
	write func(addr uint16, v byte)
}

type Bus struct {
	cart  cart.Cartridge
	video Video

	// 0x0000 - 0x00FF while bootDisabled is false
	boot         []byte
	bootDisabled bool

	// 0xC000 - 0xDFFF, mirrored at 0xE000 - 0xFDFF
	wram [0x2000]byte
	// 0xFF80 - 0xFFFE
	hram [0x7F]byte
	// 0xFFFF, storage only
	ie byte

	table [16]*region

	log logrus.FieldLogger
}

// Option configures New.
type Option func(*Bus)

// WithLogger sets the logger for boot ROM and I/O events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Bus) { b.log = l }
}

// New wires the cartridge, boot ROM and video unit into one address space.
// A nil video leaves VRAM, OAM and the LCD registers unmapped (reads 0xFF).
func New(c cart.Cartridge, boot []byte, video Video, opts ...Option) (*Bus, error) {
	if c == nil {
		return nil, ErrNoCartridge
	}
	if len(boot) < BootROMSize {
		return nil, fmt.Errorf("%w: got %d", ErrBootROMTooShort, len(boot))
	}
	if video == nil {
		video = openBus{}
	}
	b := &Bus{
		cart:  c,
		video: video,
		boot:  boot[:BootROMSize],
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}

	table, err := buildTable(b.regions())
	if err != nil {
		return nil, err
	}
	b.table = table
	return b, nil
}

func (b *Bus) regions() []region {
	return []region{
		{name: "rom", base: 0x0000, mask: 0x8000, read: b.readROM, write: b.cart.Write},
		{name: "vram", base: 0x8000, mask: 0xE000, read: b.readVRAM, write: b.writeVRAM},
		{name: "extram", base: 0xA000, mask: 0xE000, read: b.cart.Read, write: b.cart.Write},
		{name: "wram", base: 0xC000, mask: 0xE000, read: b.readWRAM, write: b.writeWRAM},
		{name: "echo", base: 0xE000, mask: 0xF000, read: b.readWRAM, write: b.writeWRAM},
		{name: "high", base: 0xF000, mask: 0xF000, read: b.readHigh, write: b.writeHigh},
	}
}

// buildTable assigns each top nibble to exactly one region.
func buildTable(regions []region) ([16]*region, error) {
	var table [16]*region
	for n := 0; n < 16; n++ {
		lo, hi := uint16(n)<<12, uint16(n)<<12|0x0FFF
		for i := range regions {
			r := &regions[i]
			if lo&r.mask != r.base || hi&r.mask != r.base {
				continue
			}
			if table[n] != nil {
				return table, fmt.Errorf("%w: %#04x claimed by %s and %s", ErrDispatchOverlap, lo, table[n].name, r.name)
			}
			table[n] = r
		}
		if table[n] == nil {
			return table, fmt.Errorf("%w: %#04x-%#04x", ErrDispatchGap, lo, hi)
		}
	}
	return table, nil
}

func (b *Bus) Read(addr uint16) byte {
	return b.table[addr>>12].read(addr)
}

func (b *Bus) Write(addr uint16, value byte) {
	b.table[addr>>12].write(addr, value)
}

// BootROMDisabled reports whether 0xFF50 has been written since power-on.
func (b *Bus) BootROMDisabled() bool { return b.bootDisabled }

// InterruptEnable returns the IE register at 0xFFFF.
func (b *Bus) InterruptEnable() byte { return b.ie }

func (b *Bus) readROM(addr uint16) byte {
	if addr < BootROMSize && !b.bootDisabled {
		return b.boot[addr]
	}
	return b.cart.Read(addr)
}

func (b *Bus) readVRAM(addr uint16) byte {
	if b.video.VRAMLocked() {
		return 0xFF
	}
	return b.video.CPURead(addr)
}

func (b *Bus) writeVRAM(addr uint16, v byte) {
	if b.video.VRAMLocked() {
		return
	}
	b.video.CPUWrite(addr, v)
}

// WRAM handlers also serve the echo region, which aliases 0xC000-0xDDFF.
func (b *Bus) readWRAM(addr uint16) byte     { return b.wram[addr&0x1FFF] }
func (b *Bus) writeWRAM(addr uint16, v byte) { b.wram[addr&0x1FFF] = v }

func (b *Bus) readHigh(addr uint16) byte {
	switch {
	case addr < 0xFE00:
		return b.readWRAM(addr)
	case addr < 0xFEA0:
		if b.video.OAMLocked() {
			return 0xFF
		}
		return b.video.CPURead(addr)
	case addr < 0xFF00: // unusable
		return 0xFF
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.ie
	}
}

func (b *Bus) writeHigh(addr uint16, v byte) {
	switch {
	case addr < 0xFE00:
		b.writeWRAM(addr, v)
	case addr < 0xFEA0:
		if !b.video.OAMLocked() {
			b.video.CPUWrite(addr, v)
		}
	case addr < 0xFF00:
	case addr < 0xFF80:
		b.writeIO(addr, v)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	default:
		b.ie = v
	}
}

func (b *Bus) readIO(addr uint16) byte {
	if addr >= 0xFF40 && addr <= 0xFF4B {
		return b.video.CPURead(addr)
	}
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, v byte) {
	switch {
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.video.CPUWrite(addr, v)
	case addr == 0xFF50:
		// any write disables the boot ROM until power-off
		if !b.bootDisabled {
			b.bootDisabled = true
			b.log.WithField("addr", fmt.Sprintf("0x%04X", addr)).Debug("boot rom disabled")
		}
	}
}

// openBus stands in for a missing video unit.
type openBus struct{}

func (openBus) CPURead(uint16) byte   { return 0xFF }
func (openBus) CPUWrite(uint16, byte) {}
func (openBus) VRAMLocked() bool      { return false }
func (openBus) OAMLocked() bool       { return false }
