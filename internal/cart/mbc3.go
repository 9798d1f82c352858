package cart

// MBC3 implements ROM/RAM banking. The real-time clock is not modelled:
// selecting an RTC register (0x08–0x0C) makes 0xA000–0xBFFF read 0xFF.
//
//   - 0000-1FFF: RAM enable (0x0A in low nibble)
//   - 2000-3FFF: ROM bank, 7 bits (0 maps to 1)
//   - 4000-5FFF: RAM bank (0-3) or RTC register select (08-0C)
//   - 6000-7FFF: clock latch (ignored)
type MBC3 struct {
	rom  []byte
	ram  []byte
	info Info

	ramEnabled bool
	romBank    byte
	ramSelect  byte
}

func NewMBC3(rom []byte, info Info) *MBC3 {
	m := &MBC3{rom: rom, info: info, romBank: 1}
	if info.RAMSizeBytes > 0 {
		m.ram = make([]byte, info.RAMSizeBytes)
	}
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.readROM(0, addr)
	case addr < 0x8000:
		return m.readROM(int(m.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if off, ok := m.ramOffset(addr); ok {
			return m.ram[off]
		}
	}
	return 0xFF
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr < 0x6000:
		m.ramSelect = value
	case addr < 0x8000:
		// clock latch
	case addr >= 0xA000 && addr <= 0xBFFF:
		if off, ok := m.ramOffset(addr); ok {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) Info() Info { return m.info }

func (m *MBC3) readROM(bank int, addr uint16) byte {
	banks := len(m.rom) / 0x4000
	if banks == 0 {
		banks = 1
	}
	i := (bank%banks)*0x4000 + int(addr&0x3FFF)
	if i >= len(m.rom) {
		panic(&AccessError{Addr: addr, Size: len(m.rom)})
	}
	return m.rom[i]
}

func (m *MBC3) ramOffset(addr uint16) (int, bool) {
	if !m.ramEnabled || len(m.ram) == 0 || m.ramSelect > 0x03 {
		return 0, false
	}
	off := (int(m.ramSelect)*0x2000 + int(addr-0xA000)) % len(m.ram)
	return off, true
}
