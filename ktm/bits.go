package ktm

// loNibble returns bits 0-3 of b.
func loNibble(b byte) uint8 {
	return b & 0x0F
}

// hiNibble returns bits 4-7 of b.
func hiNibble(b byte) uint8 {
	return b >> 4
}

func bigEndianU16(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func bigEndianS16(hi, lo byte) int16 {
	return int16(bigEndianU16(hi, lo))
}

// signed12 sign-extends a 12-bit two's complement value. Bits above 11 are ignored.
func signed12(v uint16) int16 {
	v &= 0x0FFF
	if v&0x0800 != 0 {
		return int16(v) - 0x1000
	}
	return int16(v)
}
