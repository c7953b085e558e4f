package astc

// quantMethod is an ASTC integer-sequence quantization mode.
//
// The numeric values are specified by the ASTC format and must not be reordered.
type quantMethod uint8

const (
	quant2   quantMethod = 0
	quant3   quantMethod = 1
	quant4   quantMethod = 2
	quant5   quantMethod = 3
	quant6   quantMethod = 4
	quant8   quantMethod = 5
	quant10  quantMethod = 6
	quant12  quantMethod = 7
	quant16  quantMethod = 8
	quant20  quantMethod = 9
	quant24  quantMethod = 10
	quant32  quantMethod = 11
	quant40  quantMethod = 12
	quant48  quantMethod = 13
	quant64  quantMethod = 14
	quant80  quantMethod = 15
	quant96  quantMethod = 16
	quant128 quantMethod = 17
	quant160 quantMethod = 18
	quant192 quantMethod = 19
	quant256 quantMethod = 20
)

// colorScrambledPquantToUquantTables maps a scrambled packed quant value,
// laid out as (digit << bits) | bitpart straight from the integer sequence
// decoder, to the unquantized 8-bit endpoint value. One table per color
// quant mode quant6 .. quant256, sized to the level count of the mode.
var colorScrambledPquantToUquantTables = buildColorUnquantTables()

// colorUnquantParams are the B-field bit scatter and C multiplier of the
// endpoint unquantization transfer function, keyed by trit/quint flag and
// bit count.
var colorUnquantTritC = [7]uint32{0, 204, 93, 44, 22, 11, 5}
var colorUnquantQuintC = [6]uint32{0, 113, 54, 26, 13, 6}

func colorUnquantB(trits bool, bits int, m uint32) uint32 {
	b := (m >> 1) & 1
	c := (m >> 2) & 1
	d := (m >> 3) & 1
	e := (m >> 4) & 1
	f := (m >> 5) & 1

	if trits {
		switch bits {
		case 2:
			return b<<8 | b<<4 | b<<2 | b<<1
		case 3:
			return c<<8 | b<<7 | c<<3 | b<<2 | c<<1 | b
		case 4:
			return d<<8 | c<<7 | b<<6 | d<<2 | c<<1 | b
		case 5:
			return e<<8 | d<<7 | c<<6 | b<<5 | e<<1 | d
		case 6:
			return f<<8 | e<<7 | d<<6 | c<<5 | b<<4 | f
		}
		return 0
	}

	switch bits {
	case 2:
		return b<<8 | b<<3 | b<<2
	case 3:
		return c<<8 | b<<7 | c<<2 | b<<1 | c
	case 4:
		return d<<8 | c<<7 | b<<6 | d<<1 | c
	case 5:
		return e<<8 | d<<7 | c<<6 | b<<5 | e
	}
	return 0
}

func buildColorUnquantTables() (tables [int(quant256) - int(quant6) + 1][]uint8) {
	for q := quant6; q <= quant256; q++ {
		btq := btqCounts[q]
		bits := int(btq.bits)
		levels := quantLevel(q)
		table := make([]uint8, levels)

		for p := 0; p < levels; p++ {
			digit := uint32(p >> bits)
			m := uint32(p) & ((1 << bits) - 1)

			if !btq.trits && !btq.quints {
				// Bit replication.
				v := m << (8 - bits)
				v |= v >> bits
				v |= v >> (2 * bits)
				v |= v >> (4 * bits)
				table[p] = uint8(v)
				continue
			}

			var c uint32
			if btq.trits {
				c = colorUnquantTritC[bits]
			} else {
				c = colorUnquantQuintC[bits]
			}

			var a uint32
			if m&1 != 0 {
				a = 0x1FF
			}
			b := colorUnquantB(btq.trits, bits, m)

			t := digit*c + b
			t ^= a
			t = (a & 0x80) | (t >> 2)
			table[p] = uint8(t)
		}

		tables[int(q)-int(quant6)] = table
	}
	return tables
}
