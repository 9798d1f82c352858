package cart

// NoMBC is a cartridge without a bank controller: ROM is mapped at its
// direct offset and ROM-area writes are ignored. Optional external RAM is
// sized from the header.
type NoMBC struct {
	rom  []byte
	ram  []byte
	info Info
}

// NewNoMBC wraps rom. The image must hold a header and fit in the 64 KiB window.
func NewNoMBC(rom []byte) (*NoMBC, error) {
	info, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	if len(rom) > MaxNoMBCSize {
		return nil, ErrROMTooLarge
	}
	c := &NoMBC{rom: rom, info: info}
	if info.RAMSizeBytes > 0 {
		ext := info.RAMSizeBytes
		if ext > 0x2000 {
			ext = 0x2000 // only one bank is reachable without a controller
		}
		c.ram = make([]byte, ext)
	}
	return c, nil
}

func (c *NoMBC) Read(addr uint16) byte {
	if addr >= 0xA000 && addr <= 0xBFFF {
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			return c.ram[off]
		}
		return 0xFF
	}
	if int(addr) >= len(c.rom) {
		panic(&AccessError{Addr: addr, Size: len(c.rom)})
	}
	return c.rom[addr]
}

func (c *NoMBC) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF {
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			c.ram[off] = value
		}
	}
}

func (c *NoMBC) Info() Info { return c.info }
