// Package memory defines the basic interfaces for working
// with an 8080 family memory map along with a flat RAM
// implementation for boards which carry a video RAM window.
package memory

type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value. Implementations must treat an address
	// outside of their range as a programming error rather than wrapping.
	Write(addr uint16, val uint8)
	// PowerOn performs power on reset of the memory. This is implementation specific as to
	// whether it's randomized or preset to all zeros.
	PowerOn()
}

// Snapshotter is implemented by memory which can hand out an independent copy of its
// video RAM window.
type Snapshotter interface {
	// SnapshotInto copies the video RAM window into dst which must be exactly
	// VramLength() bytes.
	SnapshotInto(dst []uint8)
	// VramLength returns the size of the video RAM window in bytes.
	VramLength() int
}
