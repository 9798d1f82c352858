package ppu

// bgLine holds the register state that selects one background row.
type bgLine struct {
	mapBase  uint16 // 0x9800 or 0x9C00 (LCDC bit 3)
	unsigned bool   // LCDC bit 4
	scx, scy byte
	ly       byte
}

// renderBGLine produces the Width colour indices of one background row.
// The map wraps at 32 tiles in both directions.
func renderBGLine(mem VRAMReader, l bgLine) [Width]byte {
	var out [Width]byte

	y := uint16(l.ly) + uint16(l.scy)
	mapRow := l.mapBase + (y>>3&31)*32
	tileX := uint16(l.scx >> 3)

	var q pixelFIFO
	f := tileFetcher{mem: mem, fifo: &q, unsigned: l.unsigned, fineY: byte(y & 7)}
	f.fetch(mapRow + tileX)
	for i := byte(0); i < l.scx&7; i++ {
		q.Pop()
	}

	for x := range out {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			f.fetch(mapRow + tileX)
		}
		out[x], _ = q.Pop()
	}
	return out
}
