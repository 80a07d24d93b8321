package pia6532

import "testing"

func TestSWCHAFixedReadback(t *testing.T) {
	p, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	for _, addr := range []uint16{0x00, 0x08, 0x10, 0x18} {
		if got := p.Read(addr); got != swchaFixed {
			t.Errorf("Read(%#02x) = %#02x, want %#02x", addr, got, swchaFixed)
		}
	}
}

func TestSWCHBFixedReadback(t *testing.T) {
	p, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	for _, addr := range []uint16{0x02, 0x0A, 0x12, 0x1A} {
		if got := p.Read(addr); got != swchbFixed {
			t.Errorf("Read(%#02x) = %#02x, want %#02x", addr, got, swchbFixed)
		}
	}
}

func TestUnmappedRegisterReadsZero(t *testing.T) {
	p, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	if got := p.Read(0x04); got != 0 {
		t.Errorf("Read(0x04) = %#02x, want 0 (timer register not modeled)", got)
	}
}

func TestWriteIsIgnored(t *testing.T) {
	p, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init() got err %v, want nil", err)
	}
	p.Write(kSWCHA, 0xAA)
	if got := p.Read(kSWCHA); got != swchaFixed {
		t.Errorf("Read(SWCHA) after write = %#02x, want unchanged fixed %#02x", got, swchaFixed)
	}
}
