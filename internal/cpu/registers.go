package cpu

// Flag is a bit in the F register.
type Flag byte

const (
	FlagZ Flag = 1 << 7
	FlagN Flag = 1 << 6
	FlagH Flag = 1 << 5
	FlagC Flag = 1 << 4
)

// Pair is a 16-bit register viewed as a high and a low byte.
type Pair struct {
	hi, lo byte
}

func (p *Pair) Word() uint16     { return uint16(p.hi)<<8 | uint16(p.lo) }
func (p *Pair) SetWord(v uint16) { p.hi, p.lo = byte(v>>8), byte(v) }
func (p *Pair) High() byte       { return p.hi }
func (p *Pair) SetHigh(v byte)   { p.hi = v }
func (p *Pair) Low() byte        { return p.lo }
func (p *Pair) SetLow(v byte)    { p.lo = v }

func (p *Pair) Inc()         { p.SetWord(p.Word() + 1) }
func (p *Pair) Dec()         { p.SetWord(p.Word() - 1) }
func (p *Pair) Add(v uint16) { p.SetWord(p.Word() + v) }
func (p *Pair) Sub(v uint16) { p.SetWord(p.Word() - v) }
func (p *Pair) And(v uint16) { p.SetWord(p.Word() & v) }
func (p *Pair) Or(v uint16)  { p.SetWord(p.Word() | v) }

// PairID selects one of the register pairs.
type PairID int

const (
	AF PairID = iota
	BC
	DE
	HL
	SP
)

func (id PairID) String() string {
	switch id {
	case AF:
		return "AF"
	case BC:
		return "BC"
	case DE:
		return "DE"
	case HL:
		return "HL"
	case SP:
		return "SP"
	}
	return "??"
}

// Registers is the LR35902 register file. The low nibble of F always reads 0.
type Registers struct {
	pairs [5]Pair
}

func (r *Registers) Word(id PairID) uint16 { return r.pairs[id].Word() }

func (r *Registers) SetWord(id PairID, v uint16) {
	if id == AF {
		v &= 0xFFF0
	}
	r.pairs[id].SetWord(v)
}

func (r *Registers) High(id PairID) byte       { return r.pairs[id].High() }
func (r *Registers) SetHigh(id PairID, v byte) { r.pairs[id].SetHigh(v) }
func (r *Registers) Low(id PairID) byte        { return r.pairs[id].Low() }

func (r *Registers) SetLow(id PairID, v byte) {
	if id == AF {
		v &= 0xF0
	}
	r.pairs[id].SetLow(v)
}

// Pair exposes a pair for in-place arithmetic. Writes through it bypass the
// F mask, so AF is only ever changed with SetWord/SetLow/SetFlag.
func (r *Registers) Pair(id PairID) *Pair { return &r.pairs[id] }

func (r *Registers) A() byte          { return r.pairs[AF].hi }
func (r *Registers) SetA(v byte)      { r.pairs[AF].hi = v }
func (r *Registers) F() byte          { return r.pairs[AF].lo }
func (r *Registers) Flag(f Flag) bool { return r.pairs[AF].lo&byte(f) != 0 }

func (r *Registers) SetFlag(f Flag, on bool) {
	if on {
		r.pairs[AF].lo |= byte(f)
	} else {
		r.pairs[AF].lo &^= byte(f)
	}
}

// setFlags replaces all four flags at once.
func (r *Registers) setFlags(z, n, h, c bool) {
	r.SetFlag(FlagZ, z)
	r.SetFlag(FlagN, n)
	r.SetFlag(FlagH, h)
	r.SetFlag(FlagC, c)
}

func (r *Registers) carryBit() byte {
	if r.Flag(FlagC) {
		return 1
	}
	return 0
}
