// Package shifter implements the dedicated shift register on the
// Midway 8080 boards (Space Invaders et al). The 8080 has no barrel
// shifter so the board provides a 16 bit register the CPU loads one
// byte at a time and then reads an 8 bit window from at a programmable
// offset. Sprite drawing at arbitrary pixel positions depends on it.
package shifter

import (
	"errors"
	"fmt"
)

const (
	kMASK_AMOUNT = uint8(0x07)
)

// Chip holds the shift register state.
type Chip struct {
	debug  bool   // If true Debug() emits output.
	amount uint8  // Offset of the 8 bit result window. 0-7.
	data   uint16 // The 16 bit register. Newest byte is the high byte.
	writes int    // Total data writes since power on.
}

// ChipDef defines a shift register.
type ChipDef struct {
	// Debug if true will emit output from Debug() calls
	Debug bool
}

// Init returns a powered on shift register.
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

// PowerOn clears the register and offset. The real hardware comes up
// with garbage but the ROM always loads it before use.
func (c *Chip) PowerOn() {
	c.amount = 0x00
	c.data = 0x0000
	c.writes = 0
}

// WriteAmount sets the result offset. Only the low 3 bits are wired, the rest are
// ignored.
func (c *Chip) WriteAmount(val uint8) {
	c.amount = val & kMASK_AMOUNT
}

// WriteData shifts val in as the new high byte. The previous high byte
// becomes the low byte.
func (c *Chip) WriteData(val uint8) {
	c.data = (c.data >> 8) | (uint16(val) << 8)
	c.writes++
}

// Read returns the 8 bit window at the current offset. An offset of 0 returns the
// high byte as is and an offset of 7 returns bit 8 down to bit 1.
func (c *Chip) Read() uint8 {
	// Mask after the shift, the window straddles both bytes.
	return uint8((c.data >> (8 - c.amount)) & 0xFF)
}

// Amount returns the current offset.
func (c *Chip) Amount() uint8 {
	return c.amount
}

// Data returns the full 16 bit register.
func (c *Chip) Data() uint16 {
	return c.data
}

func (c *Chip) Debug() string {
	if c.debug {
		return fmt.Sprintf("%.6d shift data: %.4X amount: %d result: %.2X\n", c.writes, c.data, c.amount, c.Read())
	}
	return ""
}
