// Package video converts the invaders video RAM into a displayable picture.
//
// The monitor in the cabinet is mounted on its side so the ROM draws into
// VRAM rotated 90 degrees: 224 rows of 256 1bpp pixels, LSB leftmost.
// Displaying it upright needs a further 270 degree rotation which is done
// here while expanding each bit to a byte. The result is 224 wide and
// 256 tall.
package video

import (
	"fmt"
	"image"
	"sync"
)

const (
	// Width of the displayed picture.
	Width = 224
	// Height of the displayed picture.
	Height = 256
	// VramLength is the number of bytes in a 1bpp frame.
	VramLength = Width * Height / 8

	// Bytes per stored VRAM row which is one displayed column.
	kCOLUMN_BYTES = Height / 8
)

// Palette holds the two 8 bit values pixels expand to.
type Palette struct {
	Off uint8
	On  uint8
}

// DefaultPalette is black and white (in 8 bit gray or RGB332).
var DefaultPalette = Palette{Off: 0x00, On: 0xFF}

// Blit decompresses and rotates a 1bpp VRAM snapshot into dst which is
// addressed as rows of pitch bytes. Only the first Width bytes of each row are
// written. It panics if vram isn't exactly VramLength bytes or dst is too small.
//
// Each VRAM byte covers 8 pixels going up a displayed column from the bottom, LSB
// first. Every kCOLUMN_BYTES bytes the column is done and the walk moves one column
// right and back to the bottom. So byte i bit b lands on
// x = i/32, y = 255 - ((i%32)*8 + b).
func Blit(dst []uint8, pitch int, vram []uint8, p Palette) {
	if len(vram) != VramLength {
		panic(fmt.Sprintf("video: vram is %d bytes, want %d", len(vram), VramLength))
	}
	if pitch < Width {
		panic(fmt.Sprintf("video: pitch %d narrower than %d", pitch, Width))
	}
	if need := (Height-1)*pitch + Width; len(dst) < need {
		panic(fmt.Sprintf("video: destination is %d bytes, need %d", len(dst), need))
	}

	// Bottom of the first column.
	bottom := (Height - 1) * pitch
	pos := bottom
	col := 0
	for _, b := range vram {
		for shift := uint(0); shift < 8; shift++ {
			v := p.Off
			if (b>>shift)&0x01 != 0 {
				v = p.On
			}
			dst[pos] = v
			if pos-pitch >= 0 {
				// Up a row.
				pos -= pitch
				continue
			}
			// Top of the column so start the next one at the bottom.
			col++
			pos = bottom + col
		}
	}
}

// Image returns the VRAM snapshot as an 8 bit gray image.
func Image(vram []uint8, p Palette) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Width, Height))
	Blit(img.Pix, img.Stride, vram, p)
	return img
}

// Frame holds the most recent VRAM snapshot. It's written by the CPU side on
// VBLANK and read by whatever renders, so all access goes through a lock which
// is only held for the copy in or out.
type Frame struct {
	mu     sync.Mutex
	vram   [VramLength]uint8
	frames uint64 // Count of captures.
}

// Source is anything which can copy a VRAM window into a buffer.
type Source interface {
	SnapshotInto(dst []uint8)
}

// Capture replaces the frame with a copy of src's VRAM.
func (f *Frame) Capture(src Source) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src.SnapshotInto(f.vram[:])
	f.frames++
}

// Store replaces the frame with a copy of vram which must be VramLength bytes.
func (f *Frame) Store(vram []uint8) {
	if len(vram) != VramLength {
		panic(fmt.Sprintf("video: vram is %d bytes, want %d", len(vram), VramLength))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.vram[:], vram)
	f.frames++
}

// CopyTo copies the current snapshot into dst (VramLength bytes) and returns the
// capture count it corresponds to.
func (f *Frame) CopyTo(dst []uint8) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.vram[:])
	return f.frames
}

// Frames returns the number of captures so far.
func (f *Frame) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// Blit renders the current snapshot into dst. See the package level Blit.
// The lock isn't held while converting so a slow renderer never stalls the CPU.
func (f *Frame) Blit(dst []uint8, pitch int, p Palette) uint64 {
	var vram [VramLength]uint8
	n := f.CopyTo(vram[:])
	Blit(dst, pitch, vram[:], p)
	return n
}

// Image renders the current snapshot as a gray image.
func (f *Frame) Image(p Palette) *image.Gray {
	var vram [VramLength]uint8
	f.CopyTo(vram[:])
	return Image(vram[:], p)
}
