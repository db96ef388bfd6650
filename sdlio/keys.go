package sdlio

import (
	"github.com/jmchacon/i8080arcade/invaders"
	"github.com/jmchacon/i8080arcade/io"
	"github.com/veandco/go-sdl2/sdl"
)

// buttons holds every cabinet input the keyboard can drive.
type buttons struct {
	credit   io.Button
	start1   io.Button
	start2   io.Button
	p1       [3]io.Button // left, right, fire
	p2       [3]io.Button
	tilt     io.Button
	extra    io.Button
	coinInfo io.Button
	ships    io.Latch
}

type keyBinding struct {
	code sdl.Scancode
	b    *io.Button
}

// Default keyboard layout:
//
//	C        credit
//	1 / 2    1P / 2P start
//	A S D    1P left, fire, right
//	J K L    2P left, fire, right
//	3-6      ships per game
//	T        tilt
//	E        extra ship at 1000
//	I        coin info on demo screen
//	Q        quit
func (b *buttons) bindings() []keyBinding {
	return []keyBinding{
		{sdl.Scancode(sdl.SCANCODE_C), &b.credit},
		{sdl.Scancode(sdl.SCANCODE_1), &b.start1},
		{sdl.Scancode(sdl.SCANCODE_2), &b.start2},
		{sdl.Scancode(sdl.SCANCODE_A), &b.p1[0]},
		{sdl.Scancode(sdl.SCANCODE_D), &b.p1[1]},
		{sdl.Scancode(sdl.SCANCODE_S), &b.p1[2]},
		{sdl.Scancode(sdl.SCANCODE_J), &b.p2[0]},
		{sdl.Scancode(sdl.SCANCODE_L), &b.p2[1]},
		{sdl.Scancode(sdl.SCANCODE_K), &b.p2[2]},
		{sdl.Scancode(sdl.SCANCODE_T), &b.tilt},
		{sdl.Scancode(sdl.SCANCODE_E), &b.extra},
		{sdl.Scancode(sdl.SCANCODE_I), &b.coinInfo},
	}
}

var shipKeys = []struct {
	code  sdl.Scancode
	ships uint8
}{
	{sdl.Scancode(sdl.SCANCODE_3), 3},
	{sdl.Scancode(sdl.SCANCODE_4), 4},
	{sdl.Scancode(sdl.SCANCODE_5), 5},
	{sdl.Scancode(sdl.SCANCODE_6), 6},
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
			ExtraShip1000: &b.extra,
			CoinInfo:      &b.coinInfo,
			Tilt:          &b.tilt,
		},
	}
}

// apply updates every button from a keyboard state as returned by
// sdl.GetKeyboardState. It returns true if quit is held.
func (b *buttons) apply(state []uint8) bool {
	held := func(code sdl.Scancode) bool {
		return int(code) < len(state) && state[code] != 0
	}
	if held(sdl.Scancode(sdl.SCANCODE_Q)) {
		return true
	}
	for _, k := range b.bindings() {
		k.b.Set(held(k.code))
	}
	// Ships stick at the last key pressed.
	for _, k := range shipKeys {
		if held(k.code) {
			b.ships.Set(k.ships)
		}
	}
	return false
}
