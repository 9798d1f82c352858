package cart

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logging"
)

// Cartridge is the view of the inserted game the Bus reads and writes through.
// Addresses are CPU addresses: ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
type Cartridge interface {
	// Read returns a byte from ROM or external RAM.
	Read(addr uint16) byte
	// Write handles mapper control writes (ROM area) and external RAM writes.
	Write(addr uint16, value byte)
	// Info returns the header metadata parsed at load time.
	Info() Info
}

// MaxNoMBCSize is the largest image a cartridge without a bank controller can map.
const MaxNoMBCSize = 0x10000

var (
	ErrROMTooSmall = errors.New("cart: ROM too small to contain header")
	ErrROMTooLarge = errors.New("cart: ROM too large for a cartridge without bank controller")
)

// AccessError reports a ROM read outside the image. It is raised as a panic
// value by Read, since the Bus is expected to only forward mapped addresses.
type AccessError struct {
	Addr uint16
	Size int
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cart: read at %#04x outside %d-byte ROM", e.Addr, e.Size)
}

type options struct {
	log logrus.FieldLogger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used to report the selected mapper.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// New parses the header and picks a mapper from the cartridge type byte (0x147).
func New(rom []byte, opts ...Option) (Cartridge, error) {
	o := options{log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	log := o.log.WithFields(logrus.Fields{
		"title":  info.Title,
		"mapper": info.CartTypeStr,
		"ram":    info.RAMSizeBytes,
	})
	if !info.ChecksumOK {
		log.Warn("header checksum mismatch")
	}

	switch info.CartType {
	case 0x00, 0x08, 0x09:
		log.Debug("cartridge loaded")
		return NewNoMBC(rom)
	case 0x01, 0x02, 0x03: // MBC1 variants (RAM, RAM+BAT are transparent here)
		log.Debug("cartridge loaded")
		return NewMBC1(rom, info), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13: // MBC3 variants (RTC not modelled)
		log.Debug("cartridge loaded")
		return NewMBC3(rom, info), nil
	default:
		log.Warnf("unsupported cartridge type %#02x, falling back to no bank controller", info.CartType)
		return NewNoMBC(rom)
	}
}
