package engine

// CenterBit marks the cell's own state within a neighborhood code.
const CenterBit = 1 << (Neighborhood - 1)

// Codes is the number of distinct neighborhood encodings.
const Codes = 1 << Neighborhood

// Table maps a 9-bit neighborhood code to the cell's next state.
type Table [Codes]bool

// NewTable builds the B3/S23 lookup table.
func NewTable() *Table {
	var t Table
	for code := 0; code < Codes; code++ {
		neighbors := 0
		for bit := 1; bit < CenterBit; bit <<= 1 {
			if code&bit != 0 {
				neighbors++
			}
		}
		if code&CenterBit != 0 {
			t[code] = neighbors == 2 || neighbors == 3
		} else {
			t[code] = neighbors == 3
		}
	}
	return &t
}

// Next looks up the next state for a neighborhood code.
func (t *Table) Next(code uint16) bool { return t[code&(Codes-1)] }

// Encode packs the alive bits of a neighborhood, slot 0 first, so that the
// cell itself lands on CenterBit.
func Encode(alive []bool, adj *[Neighborhood]int32) uint16 {
	var code uint16
	for _, n := range adj {
		code <<= 1
		if alive[n] {
			code |= 1
		}
	}
	return code
}
