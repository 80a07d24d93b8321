// Package cartridge implements the memory.Bank side of an Atari 2600 ROM
// image: a flat 2K/4K mirrored cart, or one of the common bank-switching
// schemes (F8, F6, F6SC) auto-detected from image size and bank-switch
// hotspot usage.
package cartridge

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dbking77/atari2600/memory"
)

const (
	k2KMask = uint16(0x07FF)
	k4KMask = uint16(0x0FFF)

	kROMMask = uint16(0x1000)
)

// NewCartridge picks a cartridge implementation by image size, falling back
// to bank-switch hotspot pattern matching for 16K images that may or may not
// carry the SuperChip RAM. Other images shorter than 4K are zero-padded to a
// flat 4K cart.
func NewCartridge(rom []uint8) (memory.Bank, error) {
	switch len(rom) {
	case 2048, 4096:
		return newBasicCart(rom, nil)
	case 8192:
		return newF8BankSwitchCart(rom, nil)
	case 16384:
		if isF6SCBankSwitch(rom) {
			return newF6SCBankSwitchCart(rom, nil)
		}
		return newF6BankSwitchCart(rom, nil)
	}
	if len(rom) < 4096 {
		padded := make([]uint8, 4096)
		copy(padded, rom)
		return newBasicCart(padded, nil)
	}
	return nil, fmt.Errorf("cartridge: unsupported ROM size %d bytes", len(rom))
}

// basicCart implements support for a 2k or 4k ROM. For 2k the upper half is
// simply a mirror of the lower half.
type basicCart struct {
	rom        []uint8
	mask       uint16
	parent     memory.Bank
	databusVal uint8
}

func newBasicCart(rom []uint8, parent memory.Bank) (memory.Bank, error) {
	got := len(rom)
	if got%2 != 0 || got > 4096 {
		return nil, fmt.Errorf("cartridge: basic cart must be divisible by 2 and <= 4k in length, got %d bytes", got)
	}
	mask := k4KMask >> uint(math.Log2(float64(4096/got)))
	return &basicCart{rom: rom, mask: mask, parent: parent}, nil
}

func (b *basicCart) Read(addr uint16) uint8 {
	if (addr & kROMMask) == kROMMask {
		val := b.rom[addr&b.mask]
		b.databusVal = val
		return val
	}
	b.databusVal = 0
	return 0
}

func (b *basicCart) Write(addr uint16, val uint8) {
	b.databusVal = val
}

func (b *basicCart) PowerOn()            {}
func (b *basicCart) Parent() memory.Bank { return b.parent }
func (b *basicCart) DatabusVal() uint8   { return b.databusVal }

func scanSequence(rom []uint8, match []byte, nextByte byte) (bool, int) {
	cnt := 0
	idxs := bytes.SplitAfter(rom, match)
	for i := range idxs {
		cnt += len(idxs[i])
		if i != len(idxs)-1 {
			if idxs[i+1][0]&nextByte == nextByte {
				return true, cnt + 1
			}
		}
	}
	return false, -1
}

type matcher struct {
	match    []byte
	nextByte byte
	banks    []int
}

func runMatcher(rom []uint8, matchers [][]matcher) bool {
	cnt := 0
	for _, tests := range matchers {
		cnt = 0
		for _, test := range tests {
			for i := 0; i < len(rom); {
				if found, offset := scanSequence(rom[i:], test.match, test.nextByte); found {
					i += offset
					for _, bank := range test.banks {
						if i >= 4096*bank && i < 4096*(bank+1) {
							cnt++
							break
						}
					}
					if cnt > 0 {
						break
					}
				} else {
					i = len(rom)
				}
			}
		}
		if cnt == 0 {
			break
		}
	}
	return cnt > 0
}

func isF6SCBankSwitch(rom []uint8) bool {
	if len(rom) == 16384 && bytes.Equal(rom[0x00:0x80], rom[0x80:0x100]) {
		test1 := []matcher{
			{[]byte{0xAD, 0xF6}, 0x1F, []int{1, 2, 3}},
			{[]byte{0x8D, 0xF6}, 0x1F, []int{1, 2, 3}},
			{[]byte{0x2C, 0xF6}, 0x1F, []int{1, 2, 3}},
		}
		return runMatcher(rom, [][]matcher{test1})
	}
	return false
}

// f8BankSwitchCart implements F8 style bank switching: an 8k cart where
// access to 0x1FF8 selects the first 4k bank and 0x1FF9 the second.
type f8BankSwitchCart struct {
	rom        []uint8
	lowBank    bool
	parent     memory.Bank
	databusVal uint8
}

func newF8BankSwitchCart(rom []uint8, parent memory.Bank) (memory.Bank, error) {
	if len(rom) != 8192 {
		return nil, fmt.Errorf("cartridge: F8 bank-switch cart must be 8k in length, got %d bytes", len(rom))
	}
	return &f8BankSwitchCart{rom: rom, lowBank: true, parent: parent}, nil
}

func (f *f8BankSwitchCart) switchBank(addr uint16) {
	switch addr & 0x1FFF {
	case 0x1FF8:
		f.lowBank = true
	case 0x1FF9:
		f.lowBank = false
	}
}

func (f *f8BankSwitchCart) Read(addr uint16) uint8 {
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
		off := uint16(0)
		if !f.lowBank {
			off = 4096
		}
		val := f.rom[(addr&k4KMask)+off]
		f.databusVal = val
		return val
	}
	f.databusVal = 0
	return 0
}

func (f *f8BankSwitchCart) Write(addr uint16, val uint8) {
	f.databusVal = val
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
	}
}

func (f *f8BankSwitchCart) PowerOn()            {}
func (f *f8BankSwitchCart) Parent() memory.Bank { return f.parent }
func (f *f8BankSwitchCart) DatabusVal() uint8   { return f.databusVal }

// f6BankSwitchCart implements F6 style bank switching: a 16k cart with 4
// banks selected by accesses to 0x1FF6..0x1FF9.
type f6BankSwitchCart struct {
	rom        []uint8
	bank       uint16
	parent     memory.Bank
	databusVal uint8
}

func newF6BankSwitchCart(rom []uint8, parent memory.Bank) (memory.Bank, error) {
	if len(rom) != 16384 {
		return nil, fmt.Errorf("cartridge: F6 bank-switch cart must be 16k in length, got %d bytes", len(rom))
	}
	return &f6BankSwitchCart{rom: rom, parent: parent}, nil
}

func (f *f6BankSwitchCart) switchBank(addr uint16) {
	switch addr & 0x1FFF {
	case 0x1FF6:
		f.bank = 0
	case 0x1FF7:
		f.bank = 1
	case 0x1FF8:
		f.bank = 2
	case 0x1FF9:
		f.bank = 3
	}
}

func (f *f6BankSwitchCart) Read(addr uint16) uint8 {
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
		off := f.bank * 4096
		val := f.rom[(addr&k4KMask)+off]
		f.databusVal = val
		return val
	}
	f.databusVal = 0
	return 0
}

func (f *f6BankSwitchCart) Write(addr uint16, val uint8) {
	f.databusVal = val
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
	}
}

func (f *f6BankSwitchCart) PowerOn()            {}
func (f *f6BankSwitchCart) Parent() memory.Bank { return f.parent }
func (f *f6BankSwitchCart) DatabusVal() uint8   { return f.databusVal }

// f6SCBankSwitchCart is F6 bank switching plus a SuperChip: 128 bytes of
// on-cart RAM at 0x1000-0x107F (write port) / 0x1080-0x10FF (read port),
// inside every bank.
type f6SCBankSwitchCart struct {
	rom        []uint8
	bank       uint16
	ram        memory.Bank
	parent     memory.Bank
	databusVal uint8
}

func newF6SCBankSwitchCart(rom []uint8, parent memory.Bank) (memory.Bank, error) {
	if len(rom) != 16384 {
		return nil, fmt.Errorf("cartridge: F6SC bank-switch cart must be 16k in length, got %d bytes", len(rom))
	}
	f := &f6SCBankSwitchCart{rom: rom, parent: parent}
	var err error
	if f.ram, err = memory.New8BitRAMBank(128, f); err != nil {
		return nil, fmt.Errorf("cartridge: can't init SuperChip RAM: %v", err)
	}
	return f, nil
}

func (f *f6SCBankSwitchCart) switchBank(addr uint16) {
	switch addr & 0x1FFF {
	case 0x1FF6:
		f.bank = 0
	case 0x1FF7:
		f.bank = 1
	case 0x1FF8:
		f.bank = 2
	case 0x1FF9:
		f.bank = 3
	}
}

func (f *f6SCBankSwitchCart) Read(addr uint16) uint8 {
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
		if addr&0x1FFF >= 0x1080 && addr&0x1FFF <= 0x10FF {
			val := f.ram.Read(addr & k4KMask)
			f.databusVal = val
			return val
		}
		if addr&0x1FFF < 0x1080 {
			val := memory.LatestDatabusVal(f)
			f.ram.Write(addr&k4KMask, val)
			f.databusVal = val
			return val
		}
		off := f.bank * 4096
		val := f.rom[(addr&k4KMask)+off]
		f.databusVal = val
		return val
	}
	return 0
}

func (f *f6SCBankSwitchCart) Write(addr uint16, val uint8) {
	f.databusVal = val
	if (addr & kROMMask) == kROMMask {
		f.switchBank(addr)
		if addr&0x1FFF < 0x1080 {
			f.ram.Write(addr&k4KMask, val)
		}
	}
}

func (f *f6SCBankSwitchCart) PowerOn()            {}
func (f *f6SCBankSwitchCart) Parent() memory.Bank { return f.parent }
func (f *f6SCBankSwitchCart) DatabusVal() uint8   { return f.databusVal }
