package ktm

import "testing"

func TestNibbles(t *testing.T) {
	tests := []struct {
		in     byte
		lo, hi uint8
	}{
		{0x00, 0x0, 0x0},
		{0xAB, 0xB, 0xA},
		{0x0F, 0xF, 0x0},
		{0xF0, 0x0, 0xF},
		{0xFF, 0xF, 0xF},
	}

	for _, tt := range tests {
		if got := loNibble(tt.in); got != tt.lo {
			t.Errorf("loNibble(0x%02X): expected %d, got %d", tt.in, tt.lo, got)
		}
		if got := hiNibble(tt.in); got != tt.hi {
			t.Errorf("hiNibble(0x%02X): expected %d, got %d", tt.in, tt.hi, got)
		}
	}
}

func TestBigEndian16(t *testing.T) {
	tests := []struct {
		hi, lo   byte
		unsigned uint16
		signed   int16
	}{
		{0x00, 0x00, 0, 0},
		{0x12, 0x34, 0x1234, 0x1234},
		{0x7F, 0xFF, 32767, 32767},
		{0x80, 0x00, 32768, -32768},
		{0xFF, 0x9C, 65436, -100},
		{0xFF, 0xFF, 65535, -1},
	}

	for _, tt := range tests {
		if got := bigEndianU16(tt.hi, tt.lo); got != tt.unsigned {
			t.Errorf("bigEndianU16(0x%02X, 0x%02X): expected %d, got %d", tt.hi, tt.lo, tt.unsigned, got)
		}
		if got := bigEndianS16(tt.hi, tt.lo); got != tt.signed {
			t.Errorf("bigEndianS16(0x%02X, 0x%02X): expected %d, got %d", tt.hi, tt.lo, tt.signed, got)
		}
	}
}

func TestSigned12(t *testing.T) {
	tests := []struct {
		in       uint16
		expected int16
	}{
		{0x000, 0},
		{0x001, 1},
		{0x7FF, 2047},
		{0x800, -2048},
		{0xFFF, -1},
		{0xF9C, -100},
	}

	for _, tt := range tests {
		if got := signed12(tt.in); got != tt.expected {
			t.Errorf("signed12(0x%03X): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}

func TestSigned12_RoundTrip(t *testing.T) {
	for v := uint16(0); v < 0x1000; v++ {
		s := signed12(v)
		if s < -2048 || s > 2047 {
			t.Fatalf("signed12(0x%03X) = %d out of range", v, s)
		}
		if back := uint16(s) & 0x0FFF; back != v {
			t.Fatalf("signed12(0x%03X) = %d does not round trip, got 0x%03X", v, s, back)
		}
	}
}
