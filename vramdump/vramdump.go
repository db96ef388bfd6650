// vramdump takes a memory dump from an invaders board
// and renders the video RAM as a PNG the way the monitor
// (rotated 90 degrees in the cabinet) would show it.
//
// The input is either a full 64k memory image or just
// the 7168 bytes of video RAM.
//
// The output file is named after the input with .png
// appended onto the end unless --out is given.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/video"
	"golang.org/x/image/draw"
)

var (
	out       = flag.String("out", "", "PNG to write. Defaults to <filename>.png")
	scale     = flag.Int("scale", 2, "Integer scale factor for the output")
	vramStart = flag.Int("vram_start", int(memory.VramStart), "Offset of video RAM in a full memory image")
	invert    = flag.Bool("invert", false, "Draw black on white")
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))
	fileStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))
)

// extract returns the video RAM from a dump.
func extract(b []byte, start int) ([]uint8, error) {
	switch len(b) {
	case video.VramLength:
		return b, nil
	case 1 << memory.MaxAddressBus:
		if start < 0 || start > 0xFFFF {
			return nil, fmt.Errorf("--vram_start 0x%X out of range", start)
		}
		ram, err := memory.Init(&memory.RAMDef{
			AddressBusSize: memory.MaxAddressBus,
			VramStart:      uint16(start),
			VramLength:     video.VramLength,
		})
		if err != nil {
			return nil, err
		}
		if err := ram.Load(b, 0); err != nil {
			return nil, err
		}
		return ram.Snapshot(), nil
	}
	return nil, fmt.Errorf("length %d isn't a 64k image or %d bytes of video RAM", len(b), video.VramLength)
}

func lit(vram []uint8) int {
	n := 0
	for _, b := range vram {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func scaled(src *image.Gray, n int) *image.Gray {
	if n == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func line(label string, value interface{}) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(fmt.Sprintf("%-8s", label)), valueStyle.Render(fmt.Sprint(value)))
}

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [--out=file.png] [--scale=N] <filename>", os.Args[0])
	}
	if *scale < 1 || *scale > 16 {
		log.Fatal("--scale out of range. Must be between 1-16")
	}
	fn := flag.Args()[0]
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	vram, err := extract(b, *vramStart)
	if err != nil {
		log.Fatalf("Can't use %s - %v", fn, err)
	}

	p := video.DefaultPalette
	if *invert {
		p.Off, p.On = p.On, p.Off
	}
	img := scaled(video.Image(vram, p), *scale)

	o := *out
	if o == "" {
		o = fn + ".png"
	}
	f, err := os.Create(o)
	if err != nil {
		log.Fatalf("Can't create %s - %v", o, err)
	}
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Can't encode PNG %s - %v", o, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Can't close %s - %v", o, err)
	}

	fmt.Println(lipgloss.JoinVertical(lipgloss.Left,
		line("input", fileStyle.Render(fn)),
		line("bytes", len(b)),
		line("lit", fmt.Sprintf("%d of %d pixels", lit(vram), video.Width*video.Height)),
		line("output", fileStyle.Render(o)),
		line("size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy())),
	))
}
