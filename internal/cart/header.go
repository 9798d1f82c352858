package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// headerEnd is the last header byte; a ROM must reach it to be parsed.
const headerEnd = 0x014F

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// ramSizes maps the RAM size code at 0x0149 to bytes of external RAM.
var ramSizes = [...]int{0, 0x800, 0x2000, 0x8000, 0x20000, 0x10000}

// Info is the cartridge header metadata, parsed once at load time.
type Info struct {
	Title          string // 0x0134-0x0143, NUL padding trimmed
	CGBFlag        byte   // 0x0143
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Version        byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F, big endian

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
	LogoOK       bool
	ChecksumOK   bool
}

// ParseHeader decodes the header at 0x0100–0x014F. Only the image length is
// validated; logo and checksum mismatches are reported through LogoOK and
// ChecksumOK.
func ParseHeader(rom []byte) (Info, error) {
	if len(rom) < headerEnd+1 {
		return Info{}, ErrROMTooSmall
	}

	h := Info{
		Title:          strings.TrimRight(string(rom[0x0134:0x0144]), "\x00"),
		CGBFlag:        rom[0x0143],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Version:        rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}
	h.LogoOK = [48]byte(rom[0x0104:0x0134]) == nintendoLogo

	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	h.CartTypeStr = cartTypeString(h.CartType)
	h.ChecksumOK = HeaderChecksumOK(rom)

	return h, nil
}

// HeaderChecksumOK reports whether byte 0x014D matches the checksum the boot
// ROM computes over 0x0134-0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) <= 0x014D {
		return false
	}
	var x byte
	for _, b := range rom[0x0134:0x014D] {
		x = x - b - 1
	}
	return x == rom[0x014D]
}

// oddROMSizes covers the three non power-of-two size codes.
var oddROMSizes = map[byte]int{0x52: 72, 0x53: 80, 0x54: 96}

// decodeROMSize returns the image size and 16 KiB bank count for a size code,
// or zeros for an unknown code.
func decodeROMSize(code byte) (size, banks int) {
	switch {
	case code <= 0x08:
		banks = 2 << code
	default:
		banks = oddROMSizes[code]
	}
	return banks * 0x4000, banks
}

func decodeRAMSize(code byte) int {
	if int(code) < len(ramSizes) {
		return ramSizes[code]
	}
	return 0
}

var cartTypeNames = map[byte]string{
	0x00: "ROM ONLY",
	0x01: "MBC1", 0x02: "MBC1+RAM", 0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2", 0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM", 0x09: "ROM+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY", 0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3", 0x12: "MBC3+RAM", 0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5", 0x1A: "MBC5+RAM", 0x1B: "MBC5+RAM+BATTERY",
}

func cartTypeString(code byte) string {
	if name, ok := cartTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%#02x)", code)
}
