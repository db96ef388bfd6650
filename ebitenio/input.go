package ebitenio

import (
	"github.com/jmchacon/i8080arcade/invaders"
	"github.com/jmchacon/i8080arcade/io"
	input "github.com/quasilyte/ebitengine-input"
)

const (
	ActionCredit input.Action = iota
	ActionStart1
	ActionStart2
	ActionP1Left
	ActionP1Right
	ActionP1Fire
	ActionP2Left
	ActionP2Right
	ActionP2Fire
	ActionTilt
	ActionCoinInfo
	ActionQuit
)

// Keymap is the default binding. Player 1 also answers to the first gamepad.
var Keymap = input.Keymap{
	ActionCredit:   {input.KeyC},
	ActionStart1:   {input.KeyEnter},
	ActionStart2:   {input.KeyM},
	ActionP1Left:   {input.KeyLeft, input.KeyA, input.KeyGamepadLeft},
	ActionP1Right:  {input.KeyRight, input.KeyD, input.KeyGamepadRight},
	ActionP1Fire:   {input.KeySpace, input.KeyS, input.KeyGamepadA},
	ActionP2Left:   {input.KeyJ},
	ActionP2Right:  {input.KeyL},
	ActionP2Fire:   {input.KeyK},
	ActionTilt:     {input.KeyT},
	ActionCoinInfo: {input.KeyI},
	ActionQuit:     {input.KeyEscape, input.KeyQ},
}

type buttons struct {
	credit, start1, start2 io.Button
	p1, p2                 [3]io.Button // left, right, fire
	tilt, coinInfo         io.Button
	ships                  io.Latch
	extra                  io.Fixed
}

func (b *buttons) bindings() map[input.Action]*io.Button {
	return map[input.Action]*io.Button{
		ActionCredit:   &b.credit,
		ActionStart1:   &b.start1,
		ActionStart2:   &b.start2,
		ActionP1Left:   &b.p1[0],
		ActionP1Right:  &b.p1[1],
		ActionP1Fire:   &b.p1[2],
		ActionP2Left:   &b.p2[0],
		ActionP2Right:  &b.p2[1],
		ActionP2Fire:   &b.p2[2],
		ActionTilt:     &b.tilt,
		ActionCoinInfo: &b.coinInfo,
	}
}

func (b *buttons) controls() invaders.Controls {
	return invaders.Controls{
		Credit: &b.credit,
		Start1: &b.start1,
		Start2: &b.start2,
		Players: [2]*invaders.Player{
			{Left: &b.p1[0], Right: &b.p1[1], Fire: &b.p1[2]},
			{Left: &b.p2[0], Right: &b.p2[1], Fire: &b.p2[2]},
		},
		Switches: invaders.Switches{
			Ships:         &b.ships,
			ExtraShip1000: b.extra,
			CoinInfo:      &b.coinInfo,
			Tilt:          &b.tilt,
		},
	}
}

// apply sets every button from pressed and returns true if quit is held.
func (b *buttons) apply(pressed func(input.Action) bool) bool {
	for a, btn := range b.bindings() {
		btn.Set(pressed(a))
	}
	return pressed(ActionQuit)
}
