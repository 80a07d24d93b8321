// atari2600 is a headless host for the console package: it loads a ROM (and
// optionally a palette), runs a fixed number of CPU instructions, and writes
// the resulting framebuffer out as a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"

	"github.com/dbking77/atari2600/atari2600"
	"github.com/dbking77/atari2600/tia"
)

var (
	cart        = flag.String("cart", "", "path to the cartridge ROM image")
	palette     = flag.String("palette", "", "optional path to a 768 byte RGB palette file")
	instrs      = flag.Int("instructions", 1_000_000, "number of CPU instructions to execute before writing output")
	out         = flag.String("out", "frame.png", "path to write the resulting PNG framebuffer")
	breakpoints = flag.String("breakpoints", "", "comma separated list of hex PC breakpoints, e.g. 1234,5678")
	debug       = flag.Bool("debug", false, "emit per-instruction/per-write debug logging")
)

func main() {
	flag.Parse()
	if *cart == "" {
		log.Fatalf("usage: %s -cart <rom file> [-palette <file>] [-instructions N] [-out frame.png]", os.Args[0])
	}

	rom, err := ioutil.ReadFile(*cart)
	if err != nil {
		log.Fatalf("can't read cart %s: %v", *cart, err)
	}

	c, err := atari2600.Init(&atari2600.ConsoleDef{Rom: rom, Debug: *debug})
	if err != nil {
		log.Fatalf("can't init console: %v", err)
	}

	if *palette != "" {
		f, err := os.Open(*palette)
		if err != nil {
			log.Fatalf("can't open palette %s: %v", *palette, err)
		}
		defer f.Close()
		if err := c.LoadPalette(f); err != nil {
			log.Fatalf("can't load palette: %v", err)
		}
	}

	for _, pc := range parseBreakpoints(*breakpoints) {
		c.AddBreakpoint(pc)
	}

	if err := c.ExecInstructions(*instrs); err != nil {
		log.Printf("run stopped: %v", err)
	}

	if err := writePNG(*out, c.Framebuffer()); err != nil {
		log.Fatalf("can't write output: %v", err)
	}
}

func parseBreakpoints(s string) []uint16 {
	var pcs []uint16
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				var v uint64
				for j := start; j < i; j++ {
					v <<= 4
					v |= uint64(hexDigit(s[j]))
				}
				pcs = append(pcs, uint16(v))
			}
			start = i + 1
		}
	}
	return pcs
}

func hexDigit(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func writePNG(path string, fb []byte) error {
	img := image.NewNRGBA(image.Rect(0, 0, tia.DisplayWidth, tia.DisplayHeight))
	for i := 0; i < tia.DisplayWidth*tia.DisplayHeight; i++ {
		img.SetNRGBA(i%tia.DisplayWidth, i/tia.DisplayWidth, color.NRGBA{
			R: fb[i*4+0],
			G: fb[i*4+1],
			B: fb[i*4+2],
			A: fb[i*4+3],
		})
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
