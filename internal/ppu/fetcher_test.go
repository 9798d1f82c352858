package ppu

import "testing"

func TestPixelFIFO(t *testing.T) {
	var q pixelFIFO
	if q.Len() != 0 {
		t.Fatal("new fifo not empty")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop from empty should fail")
	}
	for i := 0; i < 16; i++ {
		if !q.Push(byte(i)) {
			t.Fatal("unexpected full")
		}
	}
	if q.Push(0) {
		t.Fatal("should be full")
	}
	for i := 0; i < 16; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatal("unexpected empty")
		}
		if v != byte(i)&3 {
			t.Fatalf("got %d want %d", v, byte(i)&3)
		}
	}
}

type mockVRAM map[uint16]byte

func (m mockVRAM) Read(addr uint16) byte { return m[addr] }

func TestTileFetcherDecodesBitplanes(t *testing.T) {
	mem := mockVRAM{0x9800: 0, 0x8000: 0x55, 0x8001: 0x33}
	var q pixelFIFO
	f := tileFetcher{mem: mem, fifo: &q, unsigned: true}
	f.fetch(0x9800)
	if q.Len() != 8 {
		t.Fatalf("expected 8 pixels in fifo, got %d", q.Len())
	}
	// lo 01010101, hi 00110011
	want := []byte{0, 1, 2, 3, 0, 1, 2, 3}
	for i, w := range want {
		got, _ := q.Pop()
		if got != w {
			t.Fatalf("px %d got %d want %d", i, got, w)
		}
	}
}

func TestTileFetcherSignedAddressing(t *testing.T) {
	f := tileFetcher{fineY: 3}
	if got := f.tileRowAddr(0x00); got != 0x9006 {
		t.Fatalf("idx 0 got %04x want 9006", got)
	}
	if got := f.tileRowAddr(0x80); got != 0x8806 {
		t.Fatalf("idx -128 got %04x want 8806", got)
	}
	if got := f.tileRowAddr(0xFF); got != 0x8FF6 {
		t.Fatalf("idx -1 got %04x want 8ff6", got)
	}
	f.unsigned = true
	if got := f.tileRowAddr(0xFF); got != 0x8FF6 {
		t.Fatalf("unsigned idx 255 got %04x want 8ff6", got)
	}
}
