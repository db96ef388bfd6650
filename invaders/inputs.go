package invaders

import (
	"github.com/jmchacon/i8080arcade/io"
)

// Player defines one player's controls. For each true == pressed.
type Player struct {
	Left  io.PortIn1
	Right io.PortIn1
	Fire  io.PortIn1
}

// Switches defines the cabinet DIP switches and the tilt sensor.
type Switches struct {
	// Ships is the number of ships per game (3-6). nil means 3.
	// Values outside the range are clamped.
	Ships io.PortIn8
	// ExtraShip1000 is DIP6. true == extra ship at 1000 points, false == 1500.
	ExtraShip1000 io.PortIn1
	// CoinInfo is DIP7. true == show coin info on the demo screen.
	CoinInfo io.PortIn1
	// SelfTest is DIP4. Read at power up.
	SelfTest io.PortIn1
	// Tilt is the tilt sensor. true == tilted.
	Tilt io.PortIn1
}

// Controls defines every input on the cabinet. Any nil input reads as not pressed.
type Controls struct {
	Credit  io.PortIn1
	Start1  io.PortIn1
	Start2  io.PortIn1
	Players [2]*Player
	Switches
}

const (
	// Port 0
	kIN0_DIP4   = uint8(0x01)
	kIN0_ALWAYS = uint8(0x0E) // Bits 1-3 are tied high.
	kIN0_FIRE   = uint8(0x10)
	kIN0_LEFT   = uint8(0x20)
	kIN0_RIGHT  = uint8(0x40)

	// Port 1
	kIN1_CREDIT = uint8(0x01)
	kIN1_START2 = uint8(0x02)
	kIN1_START1 = uint8(0x04)
	kIN1_ALWAYS = uint8(0x08) // Bit 3 is tied high.
	kIN1_FIRE   = uint8(0x10)
	kIN1_LEFT   = uint8(0x20)
	kIN1_RIGHT  = uint8(0x40)

	// Port 2
	kIN2_SHIPS    = uint8(0x03) // DIP3 + DIP5. 00 = 3, 01 = 4, 10 = 5, 11 = 6.
	kIN2_TILT     = uint8(0x04)
	kIN2_EXTRA    = uint8(0x08) // DIP6
	kIN2_FIRE     = uint8(0x10)
	kIN2_LEFT     = uint8(0x20)
	kIN2_RIGHT    = uint8(0x40)
	kIN2_COININFO = uint8(0x80) // DIP7. Active low.

	kMIN_SHIPS = 3
	kMAX_SHIPS = 6
)

func pressed(p io.PortIn1) bool {
	return p != nil && p.Input()
}

func (p *Player) bits(fire, left, right uint8) uint8 {
	out := uint8(0x00)
	if p == nil {
		return out
	}
	if pressed(p.Fire) {
		out |= fire
	}
	if pressed(p.Left) {
		out |= left
	}
	if pressed(p.Right) {
		out |= right
	}
	return out
}

// port0 mirrors player 1's controls on top of the tied high bits.
func (c *Controls) port0() uint8 {
	out := kIN0_ALWAYS
	if pressed(c.SelfTest) {
		out |= kIN0_DIP4
	}
	out |= c.Players[0].bits(kIN0_FIRE, kIN0_LEFT, kIN0_RIGHT)
	return out
}

func (c *Controls) port1() uint8 {
	out := kIN1_ALWAYS
	if pressed(c.Credit) {
		out |= kIN1_CREDIT
	}
	if pressed(c.Start2) {
		out |= kIN1_START2
	}
	if pressed(c.Start1) {
		out |= kIN1_START1
	}
	out |= c.Players[0].bits(kIN1_FIRE, kIN1_LEFT, kIN1_RIGHT)
	return out
}

func (c *Controls) port2() uint8 {
	out := uint8(0x00)
	ships := kMIN_SHIPS
	if c.Ships != nil {
		ships = int(c.Ships.Input())
	}
	if ships < kMIN_SHIPS {
		ships = kMIN_SHIPS
	}
	if ships > kMAX_SHIPS {
		ships = kMAX_SHIPS
	}
	out |= uint8(ships-kMIN_SHIPS) & kIN2_SHIPS
	if pressed(c.Tilt) {
		out |= kIN2_TILT
	}
	if pressed(c.ExtraShip1000) {
		out |= kIN2_EXTRA
	}
	out |= c.Players[1].bits(kIN2_FIRE, kIN2_LEFT, kIN2_RIGHT)
	if !pressed(c.CoinInfo) {
		out |= kIN2_COININFO
	}
	return out
}
