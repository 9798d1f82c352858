package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		rom[bank*0x4000] = byte(bank)
		rom[bank*0x4000+0x3FFF] = byte(0x80 | bank)
	}
	return rom
}

func TestMBC1ROMBanking(t *testing.T) {
	m := NewMBC1(bankedROM(8), Info{})

	assert.Equal(t, byte(0x00), m.Read(0x0000))
	assert.Equal(t, byte(0x01), m.Read(0x4000), "switchable bank defaults to 1")

	m.Write(0x2000, 0x03)
	assert.Equal(t, byte(0x03), m.Read(0x4000))
	assert.Equal(t, byte(0x83), m.Read(0x7FFF))

	m.Write(0x2000, 0x00)
	assert.Equal(t, byte(0x01), m.Read(0x4000), "bank 0 remaps to 1")

	// bank numbers beyond the image wrap
	m.Write(0x2000, 0x09)
	assert.Equal(t, byte(0x01), m.Read(0x4000))
}

func TestMBC1RAMBankingMode1(t *testing.T) {
	m := NewMBC1(bankedROM(8), Info{RAMSizeBytes: 0x8000})

	assert.Equal(t, byte(0xFF), m.Read(0xA000), "RAM disabled reads open bus")
	m.Write(0xA000, 0x12)

	m.Write(0x0000, 0x0A)
	assert.Equal(t, byte(0x00), m.Read(0xA000), "write while disabled is dropped")

	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)
	m.Write(0xA000, 0x5A)
	assert.Equal(t, byte(0x5A), m.Read(0xA000))

	m.Write(0x4000, 0x00)
	assert.Equal(t, byte(0x00), m.Read(0xA000))

	m.Write(0x4000, 0x02)
	assert.Equal(t, byte(0x5A), m.Read(0xA000))

	m.Write(0x0000, 0x00)
	assert.Equal(t, byte(0xFF), m.Read(0xA000))
}

func TestMBC1HighBankBits(t *testing.T) {
	m := NewMBC1(bankedROM(64), Info{})

	m.Write(0x2000, 0x02)
	m.Write(0x4000, 0x01)
	assert.Equal(t, byte(0x22), m.Read(0x4000), "bank 0x22 from high bits")
	assert.Equal(t, byte(0x00), m.Read(0x0000), "mode 0 keeps bank 0 fixed")

	m.Write(0x6000, 0x01)
	assert.Equal(t, byte(0x20), m.Read(0x0000), "mode 1 applies high bits to the low window")
}

func TestMBC1ShortImagePanics(t *testing.T) {
	m := NewMBC1(make([]byte, 0x2000), Info{})
	assert.Panics(t, func() { m.Read(0x3000) })
}

func TestMBC1FaultReportsCPUAddress(t *testing.T) {
	m := NewMBC1(make([]byte, 0x2000), Info{})
	assert.Equal(t, byte(0), m.Read(0x5000), "bank 1 wraps onto the only bank")

	assert.PanicsWithValue(t, &AccessError{Addr: 0x7000, Size: 0x2000}, func() { m.Read(0x7000) })
}
