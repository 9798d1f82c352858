package cart

// MBC1 implements MBC1 ROM/RAM banking: up to 2 MiB ROM and 32 KiB RAM.
// Battery backing is not modelled.
type MBC1 struct {
	rom  []byte
	ram  []byte
	info Info

	romBankLow5 byte // lower 5 bits of the ROM bank number (0 -> 1 remapped)
	bankHigh2   byte // RAM bank (mode 1) or ROM bank bits 5-6
	ramEnabled  bool
	mode        byte // 0: ROM banking (default), 1: RAM banking
}

func NewMBC1(rom []byte, info Info) *MBC1 {
	m := &MBC1{rom: rom, info: info, romBankLow5: 1}
	if info.RAMSizeBytes > 0 {
		m.ram = make([]byte, info.RAMSizeBytes)
	}
	return m
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		bank := 0
		if m.mode == 1 {
			bank = int(m.bankHigh2&0x03) << 5
		}
		return m.readROM(bank, addr)
	case addr < 0x8000:
		bank := int(m.romBankLow5) | int(m.bankHigh2&0x03)<<5
		return m.readROM(bank, addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if off, ok := m.ramOffset(addr); ok {
			return m.ram[off]
		}
	}
	return 0xFF
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// RAM enable: low 4 bits must be 0x0A
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.bankHigh2 = value & 0x03
	case addr < 0x8000:
		m.mode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if off, ok := m.ramOffset(addr); ok {
			m.ram[off] = value
		}
	}
}

func (m *MBC1) Info() Info { return m.info }

// readROM maps a CPU ROM address into bank, wrapping the bank number to the
// image size like the real chip. Faults report the CPU address.
func (m *MBC1) readROM(bank int, addr uint16) byte {
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

func (m *MBC1) ramOffset(addr uint16) (int, bool) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0, false
	}
	bank := 0
	if m.mode == 1 {
		bank = int(m.bankHigh2 & 0x03)
	}
	off := (bank*0x2000 + int(addr-0xA000)) % len(m.ram)
	return off, true
}
