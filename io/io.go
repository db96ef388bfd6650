// Package io defines the basic interfaces for working
// with the input side of an arcade board: single bit buttons and
// DIP switches, and whole 8 bit input ports.
// Implementors are polled synchronously from inside a port read so
// they must not block.
package io

import "sync/atomic"

// PortIn1 defines a single bit input such as a button or DIP switch.
type PortIn1 interface {
	// Input returns the current state. true == pressed/on.
	Input() bool
}

// PortIn8 defines an 8 bit input port.
type PortIn8 interface {
	// Input will return the current value being set on the given input port.
	Input() uint8
}

// Button is a PortIn1 which can be flipped from another goroutine (such as a
// rendering backend's event loop) while the CPU side polls it.
type Button struct {
	b atomic.Bool
}

// Set changes the button state.
func (b *Button) Set(pressed bool) {
	b.b.Store(pressed)
}

// Input implements the interface for io.PortIn1.
func (b *Button) Input() bool {
	return b.b.Load()
}

// Fixed is a PortIn1 that never changes. Useful for DIP switches.
type Fixed bool

// Input implements the interface for io.PortIn1.
func (f Fixed) Input() bool {
	return bool(f)
}

// Latch is a PortIn8 holding a value which can be changed from another goroutine.
type Latch struct {
	v atomic.Uint32
}

// Set changes the latched value.
func (l *Latch) Set(v uint8) {
	l.v.Store(uint32(v))
}

// Input implements the interface for io.PortIn8.
func (l *Latch) Input() uint8 {
	return uint8(l.v.Load())
}
