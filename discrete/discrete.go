// Package discrete implements the discrete sound trigger logic on the
// invaders board. Two output ports each drive 8 analog sound circuits.
// Writing a port latches the new value and any circuit whose control
// bit went from 0->1 fires its one-shot. The UFO circuit (port 1 bit 0)
// is different: it's a looping sound held on as long as the bit is
// high so it reports a trigger on every write where the bit is (or
// just was) set.
package discrete

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// Channels is the total number of sound triggers across both ports.
	Channels = 16

	kMASK_LOOP = uint8(0x01) // Port 1 bit 0. UFO.
)

// Port selects one of the two sound ports.
type Port int

const (
	Port1 Port = iota // Channels 0-7.
	Port2             // Channels 8-15.
)

// Sound channels on the invaders board. Port 1 is the low byte, port 2 the high byte.
const (
	UFO          = 0  // Repeats while held.
	Shot         = 1  // Player fire.
	PlayerDie    = 2  // Flash.
	InvaderDie   = 3  // Invader killed.
	ExtendedPlay = 4  // Extra ship awarded.
	AmpEnable    = 5  // Amplifier enable. Not a sound.
	Fleet1       = 8  // Fleet movement 1.
	Fleet2       = 9  // Fleet movement 2.
	Fleet3       = 10 // Fleet movement 3.
	Fleet4       = 11 // Fleet movement 4.
	UFOHit       = 12 // UFO destroyed.
	Cocktail     = 13 // Flip screen in cocktail mode. Not a sound.
)

// Triggers is a bitset of the channels (0-15) which fired on a write.
type Triggers uint16

// Has returns true if channel ch fired.
func (t Triggers) Has(ch int) bool {
	return ch >= 0 && ch < Channels && t&(1<<uint(ch)) != 0
}

// Empty returns true if nothing fired.
func (t Triggers) Empty() bool {
	return t == 0
}

// Len returns the number of channels that fired.
func (t Triggers) Len() int {
	return bits.OnesCount16(uint16(t))
}

// Each calls f for every channel that fired in ascending order.
func (t Triggers) Each(f func(ch int)) {
	for ch := 0; ch < Channels; ch++ {
		if t.Has(ch) {
			f(ch)
		}
	}
}

// Channels returns the fired channels in ascending order.
func (t Triggers) Channels() []int {
	out := make([]int, 0, t.Len())
	t.Each(func(ch int) {
		out = append(out, ch)
	})
	return out
}

func (t Triggers) String() string {
	return fmt.Sprintf("%v", t.Channels())
}

// Chip holds the previous value of each port.
type Chip struct {
	debug bool     // If true Debug() emits output.
	prev  [2]uint8 // Last value written to each port.
	last  Triggers // Result of the most recent write.
}

// ChipDef defines a discrete sound unit.
type ChipDef struct {
	// Debug if true will emit output from Debug() calls
	Debug bool
}

// Init returns a powered on discrete sound unit.
func Init(d *ChipDef) (*Chip, error) {
	if d == nil {
		return nil, errors.New("nil ChipDef")
	}
	c := &Chip{
		debug: d.Debug,
	}
	c.PowerOn()
	return c, nil
}

// PowerOn resets both ports to all circuits off.
func (c *Chip) PowerOn() {
	c.prev = [2]uint8{}
	c.last = 0
}

// Write latches val on the given port and returns the channels that fired.
func (c *Chip) Write(p Port, val uint8) Triggers {
	if p != Port1 && p != Port2 {
		panic(fmt.Sprintf("discrete: invalid port %d", p))
	}
	old := c.prev[p]
	// Rising edges only.
	fired := val &^ old
	if p == Port1 {
		// The UFO loop is level triggered on either side of the write.
		fired = (fired &^ kMASK_LOOP) | ((val | old) & kMASK_LOOP)
	}
	c.prev[p] = val

	t := Triggers(fired)
	if p == Port2 {
		t <<= 8
	}
	c.last = t
	return t
}

// Previous returns the last value latched on the given port.
func (c *Chip) Previous(p Port) uint8 {
	return c.prev[p]
}

func (c *Chip) Debug() string {
	if c.debug {
		return fmt.Sprintf("sound port1: %.2X port2: %.2X last: %s\n", c.prev[Port1], c.prev[Port2], c.last)
	}
	return ""
}
