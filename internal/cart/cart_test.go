package cart

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsMapper(t *testing.T) {
	cases := []struct {
		cartType byte
		want     interface{}
	}{
		{0x00, &NoMBC{}},
		{0x08, &NoMBC{}},
		{0x09, &NoMBC{}},
		{0x01, &MBC1{}},
		{0x03, &MBC1{}},
		{0x0F, &MBC3{}},
		{0x13, &MBC3{}},
	}
	for _, tc := range cases {
		c, err := New(buildROM("MAP", tc.cartType, 0x00, 0x00, 32*1024))
		require.NoError(t, err)
		assert.IsTypef(t, tc.want, c, "type %#02x", tc.cartType)
		assert.Equal(t, tc.cartType, c.Info().CartType)
	}
}

func TestNewUnknownTypeFallsBack(t *testing.T) {
	log, hook := test.NewNullLogger()
	c, err := New(buildROM("ODD", 0x19, 0x00, 0x00, 32*1024), WithLogger(log))
	require.NoError(t, err)
	assert.IsType(t, &NoMBC{}, c)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNewRejectsBadImages(t *testing.T) {
	_, err := New(make([]byte, 0x100))
	assert.ErrorIs(t, err, ErrROMTooSmall)

	_, err = New(buildROM("BIG", 0x00, 0x02, 0x00, 128*1024))
	assert.ErrorIs(t, err, ErrROMTooLarge)
}

func TestNoMBCReads(t *testing.T) {
	rom := buildROM("PLAIN", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0150] = 0xC3
	rom[0x7FFF] = 0x77
	c, err := NewNoMBC(rom)
	require.NoError(t, err)

	assert.Equal(t, byte(0xC3), c.Read(0x0150))
	assert.Equal(t, byte(0x77), c.Read(0x7FFF))
	assert.Equal(t, byte(0xFF), c.Read(0xA000), "no external RAM")

	c.Write(0x0150, 0x00)
	assert.Equal(t, byte(0xC3), c.Read(0x0150), "ROM is read-only")
}

func TestNoMBCReadPastImagePanics(t *testing.T) {
	c, err := NewNoMBC(buildROM("SHORT", 0x00, 0x00, 0x00, 0x4000))
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		ae, ok := r.(*AccessError)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, uint16(0x4000), ae.Addr)
		assert.Equal(t, 0x4000, ae.Size)
	}()
	c.Read(0x4000)
}

func TestNoMBCExternalRAM(t *testing.T) {
	c, err := NewNoMBC(buildROM("RAM", 0x08, 0x00, 0x01, 32*1024))
	require.NoError(t, err)

	c.Write(0xA7FF, 0x3C)
	assert.Equal(t, byte(0x3C), c.Read(0xA7FF))
	c.Write(0xA800, 0x3C)
	assert.Equal(t, byte(0xFF), c.Read(0xA800), "past 2 KiB RAM")
}
