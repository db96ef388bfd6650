// Package ebitenio is an ebiten frontend for the invaders board. Unlike the SDL
// frontend it needs no C libraries. Frames are pulled from the board in Draw
// whenever the frame counter moves and sound goes through an otoplayer.
package ebitenio

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jmchacon/i8080arcade/invaders"
	"github.com/jmchacon/i8080arcade/io"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/otoplayer"
	"github.com/jmchacon/i8080arcade/video"
	input "github.com/quasilyte/ebitengine-input"
)

var _ = invaders.Controller(&Game{})

// Game is a Board driven by ebiten. It implements ebiten.Game.
type Game struct {
	*invaders.Board

	buttons buttons
	system  input.System
	handler *input.Handler
	player  *otoplayer.Player // Only set if created here.
	scale   int
	title   string

	screen *ebiten.Image
	gray   []uint8
	rgba   []uint8
	last   uint64 // Frame count last uploaded.
}

// Def defines the frontend.
type Def struct {
	// Title of the window. Defaults to "Space Invaders".
	Title string
	// Scale multiplies the initial window size. Defaults to 2.
	Scale int
	// Player if non-nil plays the sounds.
	Player invaders.SamplePlayer
	// SampleDir if set and Player is nil creates an otoplayer from this directory.
	SampleDir string
	// Ships is the ships per game DIP setting (3-6). Defaults to 3.
	Ships uint8
	// ExtraShip1000 is the DIP setting for an extra ship at 1000 instead of 1500.
	ExtraShip1000 bool
	// Ram if non-nil is handed to the board.
	Ram *memory.RAM
	// Quit if non-nil is the shared stop signal.
	Quit *atomic.Bool
	// Lenient is passed to the board.
	Lenient bool
	// Debug is passed to the board and any player created.
	Debug bool
}

// Init returns a Game ready for Run.
func Init(def *Def) (*Game, error) {
	if def == nil {
		return nil, errors.New("nil Def")
	}
	g := &Game{
		scale: def.Scale,
		title: def.Title,
		gray:  make([]uint8, video.Width*video.Height),
		rgba:  make([]uint8, video.Width*video.Height*4),
	}
	if g.scale <= 0 {
		g.scale = 2
	}
	if g.title == "" {
		g.title = "Space Invaders"
	}
	ships := def.Ships
	if ships == 0 {
		ships = 3
	}
	g.buttons.ships.Set(ships)
	g.buttons.extra = io.Fixed(def.ExtraShip1000)

	player := def.Player
	if player == nil && def.SampleDir != "" {
		var err error
		if g.player, err = otoplayer.Init(&otoplayer.Def{Dir: def.SampleDir, Debug: def.Debug}); err != nil {
			return nil, fmt.Errorf("can't init audio: %v", err)
		}
		player = g.player
	}

	var err error
	if g.Board, err = invaders.Init(&invaders.BoardDef{
		Controls: g.buttons.controls(),
		Ram:      def.Ram,
		Player:   player,
		Quit:     def.Quit,
		Lenient:  def.Lenient,
		Debug:    def.Debug,
	}); err != nil {
		return nil, fmt.Errorf("can't init board: %v", err)
	}

	g.system.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})
	g.handler = g.system.NewHandler(uint8(0), Keymap)
	return g, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.system.Update()
	if g.buttons.apply(g.handler.ActionIsPressed) {
		g.Quit()
	}
	if g.Quitting() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(video.Width, video.Height)
	}
	if n := g.Frames(); n != g.last {
		g.last = g.Blit(g.gray, video.Width, video.DefaultPalette)
		expand(g.rgba, g.gray)
		g.screen.WritePixels(g.rgba)
	}
	screen.DrawImage(g.screen, nil)
}

// Layout implements ebiten.Game. The picture is always native size and ebiten
// scales it to the window.
func (g *Game) Layout(width, height int) (int, int) {
	return video.Width, video.Height
}

// Run opens the window and blocks until the board quits or the window closes.
// The CPU must already be running on another goroutine.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowSize(video.Width*g.scale, video.Height*g.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(g)
	// Closing the window doesn't go through Update so make sure the CPU stops too.
	g.Quit()
	if g.player != nil {
		g.player.Close()
	}
	return err
}

// expand turns 8 bit gray into opaque RGBA.
func expand(dst, gray []uint8) {
	for i, v := range gray {
		o := i * 4
		dst[o] = v
		dst[o+1] = v
		dst[o+2] = v
		dst[o+3] = 0xFF
	}
}
