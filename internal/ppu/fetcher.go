package ppu

// VRAMReader provides read-only VRAM access for the tile fetcher, addressed
// by CPU address (0x8000-0x9FFF).
type VRAMReader interface {
	Read(addr uint16) byte
}

// pixelFIFO is a ring buffer of 2-bit colour indices.
type pixelFIFO struct {
	buf  [16]byte
	head int
	size int
}

func (q *pixelFIFO) Len() int { return q.size }

func (q *pixelFIFO) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.size)%len(q.buf)] = ci & 0x03
	q.size++
	return true
}

func (q *pixelFIFO) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// tileFetcher decodes one 8-pixel row of a background tile into the FIFO.
type tileFetcher struct {
	mem  VRAMReader
	fifo *pixelFIFO

	// unsigned: LCDC bit 4 set, tile data at 0x8000 indexed 0..255.
	// Otherwise tile data is based at 0x9000 with signed indices.
	unsigned bool
	fineY    byte
}

// tileRowAddr returns the address of the low bitplane byte for a tile index.
func (f *tileFetcher) tileRowAddr(idx byte) uint16 {
	row := uint16(f.fineY&7) * 2
	if f.unsigned {
		return 0x8000 + uint16(idx)*16 + row
	}
	return uint16(0x9000+int(int8(idx))*16) + row
}

// fetch reads the tile index at mapAddr and pushes its 8 pixels, leftmost first.
func (f *tileFetcher) fetch(mapAddr uint16) {
	addr := f.tileRowAddr(f.mem.Read(mapAddr))
	lo := f.mem.Read(addr)
	hi := f.mem.Read(addr + 1)
	for bit := 7; bit >= 0; bit-- {
		f.fifo.Push((hi>>bit&1)<<1 | lo>>bit&1)
	}
}
