package memory

import (
	"fmt"
	"io/ioutil"
)

var (
	_ = Bank(&RAM{})
	_ = Snapshotter(&RAM{})
)

const (
	// MaxAddressBus is the widest address bus an 8080 can drive.
	MaxAddressBus = 16

	// VramStart is where the video RAM window begins on the invaders board.
	VramStart = uint16(0x2400)
	// VramLength is the size of the video RAM window. 224 rows of 256 1bpp pixels.
	VramLength = 7168
)

// RangeError describes an access outside of the configured address space.
// It's raised via panic since it always indicates a broken caller.
type RangeError struct {
	Op   string
	Addr int
	Size int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("memory: %s at 0x%.4X outside of %d byte address space", e.Op, e.Addr, e.Size)
}

// RAM is a flat byte addressable store sized to an address bus with a designated
// video RAM window.
type RAM struct {
	addr      []uint8
	vramStart int
	vramLen   int
}

// RAMDef defines the layout of a RAM.
type RAMDef struct {
	// AddressBusSize is the number of address lines. The RAM is 2^AddressBusSize bytes.
	AddressBusSize uint8
	// VramStart is the offset of the video RAM window.
	VramStart uint16
	// VramLength is the size of the video RAM window. If zero the RAM has no
	// video window and snapshots are empty.
	VramLength int
}

// New returns a zeroed RAM laid out per the invaders board: a 16 bit
// bus with VRAM at 0x2400-0x3FFF.
func New() *RAM {
	r, err := Init(&RAMDef{
		AddressBusSize: MaxAddressBus,
		VramStart:      VramStart,
		VramLength:     VramLength,
	})
	if err != nil {
		// Can't happen with the constants above.
		panic(err)
	}
	return r
}

// Init returns a RAM built from the given definition. It validates the bus
// size and that the video window fits in the address space.
func Init(def *RAMDef) (*RAM, error) {
	if def.AddressBusSize == 0 || def.AddressBusSize > MaxAddressBus {
		return nil, fmt.Errorf("invalid address bus size %d, must be 1-%d", def.AddressBusSize, MaxAddressBus)
	}
	size := 1 << def.AddressBusSize
	if def.VramLength < 0 || int(def.VramStart)+def.VramLength > size {
		return nil, fmt.Errorf("vram window 0x%.4X+%d doesn't fit in %d bytes", def.VramStart, def.VramLength, size)
	}
	r := &RAM{
		addr:      make([]uint8, size),
		vramStart: int(def.VramStart),
		vramLen:   def.VramLength,
	}
	r.PowerOn()
	return r, nil
}

// Size returns the number of addressable bytes.
func (r *RAM) Size() int {
	return len(r.addr)
}

// PowerOn implements the interface for memory.Bank and zeros all memory.
func (r *RAM) PowerOn() {
	for i := range r.addr {
		r.addr[i] = 0x00
	}
}

func (r *RAM) check(op string, addr int) {
	if addr < 0 || addr >= len(r.addr) {
		panic(&RangeError{Op: op, Addr: addr, Size: len(r.addr)})
	}
}

// Read implements the interface for memory.Bank. Reading past the end of
// the address space panics with a *RangeError.
func (r *RAM) Read(addr uint16) uint8 {
	r.check("read", int(addr))
	return r.addr[addr]
}

// Write implements the interface for memory.Bank. Writing past the end of
// the address space panics with a *RangeError. There is no ROM protection,
// the board doesn't need it.
func (r *RAM) Write(addr uint16, val uint8) {
	r.check("write", int(addr))
	r.addr[addr] = val
}

// Load copies buf into memory starting at offset. It returns an error (and
// copies nothing) if the image would run past the end of the address space.
func (r *RAM) Load(buf []uint8, offset uint16) error {
	if end := int(offset) + len(buf); end > len(r.addr) {
		return fmt.Errorf("image of %d bytes at 0x%.4X overruns %d byte address space", len(buf), offset, len(r.addr))
	}
	copy(r.addr[offset:], buf)
	return nil
}

// LoadFile reads the named ROM image and loads it at offset.
// Invaders ROMs are laid out as:
//
//	invaders.h 0000-07FF
//	invaders.g 0800-0FFF
//	invaders.f 1000-17FF
//	invaders.e 1800-1FFF
func (r *RAM) LoadFile(path string, offset uint16) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't read ROM %s: %v", path, err)
	}
	if err := r.Load(b, offset); err != nil {
		return fmt.Errorf("can't load ROM %s: %v", path, err)
	}
	return nil
}

// VramLength implements the interface for memory.Snapshotter.
func (r *RAM) VramLength() int {
	return r.vramLen
}

// Snapshot returns an independent copy of the video RAM window only.
func (r *RAM) Snapshot() []uint8 {
	out := make([]uint8, r.vramLen)
	r.SnapshotInto(out)
	return out
}

// SnapshotInto implements the interface for memory.Snapshotter. dst must be
// exactly VramLength() bytes long.
func (r *RAM) SnapshotInto(dst []uint8) {
	if len(dst) != r.vramLen {
		panic(fmt.Sprintf("memory: snapshot buffer is %d bytes, vram is %d", len(dst), r.vramLen))
	}
	copy(dst, r.addr[r.vramStart:r.vramStart+r.vramLen])
}
