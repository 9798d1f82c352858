// Package ppu implements the DMG picture processing unit as a four-mode
// timing state machine driven by the cumulative CPU cycle count.
package ppu

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
)

// Screen size in pixels.
const (
	Width  = 160
	Height = 144
)

// Timing in T-cycles.
const (
	OAMScanCycles = 80
	VRAMCycles    = 172
	HBlankCycles  = 204
	LineCycles    = OAMScanCycles + VRAMCycles + HBlankCycles // 456
	VBlankLines   = 10
	VBlankCycles  = VBlankLines * LineCycles             // 4560
	FrameCycles   = Height*LineCycles + VBlankCycles     // 70224

	// MaxSpritesPerLine is the hardware limit found by one OAM scan.
	MaxSpritesPerLine = 10
)

// Mode is the value of the STAT mode bits.
type Mode byte

const (
	ModeHBlank  Mode = 0
	ModeVBlank  Mode = 1
	ModeOAMScan Mode = 2
	ModeVRAM    Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "hblank"
	case ModeVBlank:
		return "vblank"
	case ModeOAMScan:
		return "oam-scan"
	case ModeVRAM:
		return "vram-access"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

// StateError reports a mode value the state machine cannot reach. It is
// raised as a panic value from Cycle.
type StateError struct {
	Mode Mode
}

func (e *StateError) Error() string {
	return fmt.Sprintf("ppu: unreachable state %s", e.Mode)
}

// shades maps a 2-bit palette output to a grey level, lightest first.
var shades = [4]byte{0xFF, 0xAA, 0x55, 0x00}

// vram is addressed by CPU address.
type vram [0x2000]byte

func (v *vram) Read(addr uint16) byte { return v[addr-0x8000] }

// PPU owns VRAM, OAM and the LCD registers 0xFF40-0xFF4B.
type PPU struct {
	vram vram       // 0x8000–0x9FFF
	oam  [0xA0]byte // 0xFE00–0xFE9F

	lcdc byte // FF40
	stat byte // FF41 bits 3-6; mode and coincidence are derived
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	dma  byte // FF46, stored only
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	mode       Mode
	last       uint64 // cumulative cycles already consumed
	modeCycles uint64 // cycles spent in the current mode
	frame      uint64
	sprites    int

	fb [Width * Height * 4]byte

	log logrus.FieldLogger
}

// Option configures New.
type Option func(*PPU)

// WithLogger sets the logger used for frame completion traces.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *PPU) { p.log = l }
}

// New returns a PPU at power-on: OAM-scan on line 0, LCD off, white screen.
func New(opts ...Option) *PPU {
	p := &PPU{mode: ModeOAMScan, log: logging.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.fb {
		p.fb[i] = 0xFF
	}
	p.scanOAM()
	return p
}

// Cycle advances the state machine to the cumulative cycle count total.
// Every threshold the elapsed delta covers is crossed in order, so a large
// delta may pass through several modes or lines. A total at or below the
// previous one is ignored.
func (p *PPU) Cycle(total uint64) {
	if total <= p.last {
		return
	}
	p.modeCycles += total - p.last
	p.last = total

	for budget := p.budget(); p.modeCycles >= budget; budget = p.budget() {
		p.modeCycles -= budget
		p.next()
	}
	if p.mode == ModeVBlank {
		p.ly = Height + byte(p.modeCycles/LineCycles)
	}
}

func (p *PPU) budget() uint64 {
	switch p.mode {
	case ModeOAMScan:
		return OAMScanCycles
	case ModeVRAM:
		return VRAMCycles
	case ModeHBlank:
		return HBlankCycles
	case ModeVBlank:
		return VBlankCycles
	}
	panic(&StateError{Mode: p.mode})
}

// next performs one transition and the entry effects of the new mode.
func (p *PPU) next() {
	switch p.mode {
	case ModeOAMScan:
		p.mode = ModeVRAM
	case ModeVRAM:
		p.mode = ModeHBlank
		p.renderLine()
	case ModeHBlank:
		if p.ly+1 == Height {
			p.mode = ModeVBlank
			p.ly = Height
			return
		}
		p.mode = ModeOAMScan
		p.ly++
		p.scanOAM()
	case ModeVBlank:
		p.frame++
		p.log.WithField("frame", p.frame).Trace("frame complete")
		p.mode = ModeOAMScan
		p.ly = 0
		p.scanOAM()
	default:
		panic(&StateError{Mode: p.mode})
	}
}

func (p *PPU) lcdOn() bool { return p.lcdc&0x80 != 0 }

// scanOAM counts the sprites covering the current line, up to ten.
func (p *PPU) scanOAM() {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	p.sprites = 0
	for i := 0; i < len(p.oam) && p.sprites < MaxSpritesPerLine; i += 4 {
		top := int(p.oam[i]) - 16
		if int(p.ly) >= top && int(p.ly) < top+height {
			p.sprites++
		}
	}
}

// renderLine writes the background row for LY into the framebuffer.
// With the LCD or the background disabled the row is blank.
func (p *PPU) renderLine() {
	row := p.fb[int(p.ly)*Width*4 : (int(p.ly)+1)*Width*4]
	if !p.lcdOn() || p.lcdc&0x01 == 0 {
		for i := range row {
			row[i] = 0xFF
		}
		return
	}

	l := bgLine{
		mapBase:  0x9800,
		unsigned: p.lcdc&0x10 != 0,
		scx:      p.scx,
		scy:      p.scy,
		ly:       p.ly,
	}
	if p.lcdc&0x08 != 0 {
		l.mapBase = 0x9C00
	}
	for x, ci := range renderBGLine(&p.vram, l) {
		shade := shades[p.bgp>>(ci*2)&0x03]
		px := row[x*4 : x*4+4]
		px[0], px[1], px[2], px[3] = shade, shade, shade, 0xFF
	}
}

// VRAMLocked reports whether the CPU is barred from VRAM (pixel transfer
// with the LCD on).
func (p *PPU) VRAMLocked() bool { return p.lcdOn() && p.mode == ModeVRAM }

// OAMLocked reports whether the CPU is barred from OAM (OAM scan or pixel
// transfer with the LCD on).
func (p *PPU) OAMLocked() bool {
	return p.lcdOn() && (p.mode == ModeOAMScan || p.mode == ModeVRAM)
}

// CPURead returns VRAM, OAM and LCD register bytes. Lock checks are the
// bus's concern; CPURead always answers.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram.Read(addr)
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.oam[addr-0xFE00]
	}
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		// bit 7 reads as 1 on DMG
		s := 0x80 | p.stat&0x78 | byte(p.mode)
		if p.ly == p.lyc {
			s |= 0x04
		}
		return s
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF46:
		return p.dma
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

// CPUWrite stores VRAM, OAM and LCD register bytes. STAT mode and
// coincidence bits and LY are read-only.
func (p *PPU) CPUWrite(addr uint16, v byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.vram[addr-0x8000] = v
		return
	case addr >= 0xFE00 && addr <= 0xFE9F:
		p.oam[addr-0xFE00] = v
		return
	}
	switch addr {
	case 0xFF40:
		p.lcdc = v
	case 0xFF41:
		p.stat = v & 0x78
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF45:
		p.lyc = v
	case 0xFF46:
		p.dma = v
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

func (p *PPU) Mode() Mode       { return p.mode }
func (p *PPU) LY() byte         { return p.ly }
func (p *PPU) Frame() uint64    { return p.frame }
func (p *PPU) SpriteCount() int { return p.sprites }

// Framebuffer returns the RGBA pixels of the last rendered rows, Width*Height*4
// bytes. The slice aliases PPU memory and changes as lines are drawn.
func (p *PPU) Framebuffer() []byte { return p.fb[:] }

// Snapshot copies the framebuffer into an image.
func (p *PPU) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	copy(img.Pix, p.fb[:])
	return img
}
