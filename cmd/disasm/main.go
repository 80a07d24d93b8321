// disasm loads a flat binary image and disassembles it to stdout starting
// at the given load address.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/dbking77/atari2600/disassemble"
	"github.com/dbking77/atari2600/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "offset into RAM to load the image at")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <pc>] [-offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	b, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't open %s: %v", fn, err)
	}

	max := 1<<16 - *offset
	if l := len(b); l > max {
		log.Printf("image length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}

	ram, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		log.Fatalf("can't initialize RAM: %v", err)
	}
	ram.PowerOn()
	for ii, v := range b {
		ram.Write(uint16(*offset+ii), v)
	}

	fmt.Printf("0x%X bytes at pc: %.4X\n", len(b), uint16(*startPC))
	pc := uint16(*startPC)
	cnt := 0
	for cnt < len(b) {
		dis, off := disassemble.Step(pc, ram)
		pc += uint16(off)
		cnt += off
		fmt.Println(dis)
	}
}
