package main

import (
	"image"
	"testing"

	"github.com/go-test/deep"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/video"
)

func TestExtract(t *testing.T) {
	full := make([]byte, 1<<16)
	full[memory.VramStart] = 0x01
	full[memory.VramStart+video.VramLength-1] = 0x80
	full[0x3000-1+video.VramLength] = 0x55
	vramOnly := make([]byte, video.VramLength)
	vramOnly[0] = 0x7F

	tests := []struct {
		name    string
		b       []byte
		start   int
		first   uint8
		last    uint8
		wantErr bool
	}{
		{
			name:  "Full image",
			b:     full,
			start: int(memory.VramStart),
			first: 0x01,
			last:  0x80,
		},
		{
			name:  "Full image moved window",
			b:     full,
			start: 0x3000,
			last:  0x55,
		},
		{
			name:  "VRAM only",
			b:     vramOnly,
			first: 0x7F,
		},
		{
			name:    "Window past end",
			b:       full,
			start:   0xF000,
			wantErr: true,
		},
		{
			name:    "Negative window",
			b:       full,
			start:   -1,
			wantErr: true,
		},
		{
			name:    "Odd size",
			b:       make([]byte, 100),
			wantErr: true,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := extract(test.b, test.start)
			if test.wantErr {
				if err == nil {
					t.Fatal("didn't get error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != video.VramLength {
				t.Fatalf("wrong length %d", len(got))
			}
			if got[0] != test.first || got[len(got)-1] != test.last {
				t.Errorf("wrong bytes. Got %.2X/%.2X and want %.2X/%.2X", got[0], got[len(got)-1], test.first, test.last)
			}
		})
	}
}

func TestLit(t *testing.T) {
	vram := make([]uint8, video.VramLength)
	vram[0] = 0xFF
	vram[100] = 0x81
	if got, want := lit(vram), 10; got != want {
		t.Errorf("wrong lit count. Got %d and want %d", got, want)
	}
}

func TestScaled(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.Pix[1] = 0xFF
	got := scaled(src, 2)
	want := []uint8{
		0x00, 0x00, 0xFF, 0xFF,
		0x00, 0x00, 0xFF, 0xFF,
	}
	if diff := deep.Equal(got.Pix, want); diff != nil {
		t.Errorf("bad scale: %v", diff)
	}
	if scaled(src, 1) != src {
		t.Error("scale 1 should return the source")
	}
}
