package bits

import "testing"

func TestReverse8MatchesSlow(t *testing.T) {
	for v := 0; v < 256; v++ {
		got := Reverse8(uint8(v))
		want := Reverse8Slow(uint8(v))
		if got != want {
			t.Errorf("Reverse8(%#02x) = %#02x, want %#02x", v, got, want)
		}
	}
}

func TestReverse8SelfInverse(t *testing.T) {
	for v := 0; v < 256; v++ {
		if got := Reverse8(Reverse8(uint8(v))); got != uint8(v) {
			t.Errorf("Reverse8(Reverse8(%#02x)) = %#02x, want %#02x", v, got, v)
		}
	}
}

func TestReverse32MatchesSlow(t *testing.T) {
	vals := []uint32{0, 1, 0xFFFFFFFF, 0x80000000, 0x12345678, 0xAAAAAAAA, 0x55555555, 0x0F0F0F0F}
	for _, v := range vals {
		got := Reverse32(v)
		want := Reverse32Slow(v)
		if got != want {
			t.Errorf("Reverse32(%#08x) = %#08x, want %#08x", v, got, want)
		}
	}
}

func TestReverse32SelfInverse(t *testing.T) {
	vals := []uint32{0, 1, 0xFFFFFFFF, 0x80000000, 0x12345678, 0xAAAAAAAA, 0x55555555, 0x0F0F0F0F}
	for _, v := range vals {
		if got := Reverse32(Reverse32(v)); got != v {
			t.Errorf("Reverse32(Reverse32(%#08x)) = %#08x, want %#08x", v, got, v)
		}
	}
}

func TestReverse8KnownValues(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0F, 0xF0},
		{0x10, 0x08},
	}
	for _, tc := range tests {
		if got := Reverse8(tc.in); got != tc.want {
			t.Errorf("Reverse8(%#02x) = %#02x, want %#02x", tc.in, got, tc.want)
		}
	}
}
