// Package sdlio is an SDL2 frontend for the invaders board. It owns the
// window, a streaming RGB332 texture the frame is blitted into, and an
// SDL_mixer chunk per sound channel.
//
// SDL must be driven from the main OS thread so everything here is expected to
// run inside sdl.Main/sdl.Do. The CPU runs on its own goroutine and talks to the
// embedded Board; frames and sounds are handed across on buffered channels so
// the CPU never waits on SDL:
//
//	sdl.Main(func() {
//		var m *sdlio.IO
//		sdl.Do(func() { m, err = sdlio.Init(&sdlio.Def{SampleDir: dir}) })
//		// load ROMs into m.Memory(), start the CPU goroutine against m
//		sdl.Do(m.EventLoop)
//		sdl.Do(m.Close)
//	})
package sdlio

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/jmchacon/i8080arcade/discrete"
	"github.com/jmchacon/i8080arcade/invaders"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/video"
	"github.com/veandco/go-sdl2/mix"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	_ = invaders.Controller(&IO{})
	_ = invaders.SamplePlayer(&IO{})
)

const (
	kMIX_FREQUENCY = 11025
	kMIX_CHANNELS  = 1
	kMIX_CHUNKSIZE = 4096

	// How long the event loop waits for SDL events before checking the channels again (ms).
	kEVENT_WAIT = 4

	kSOUND_QUEUE = 32
)

// IO is a Board with an SDL window and mixer attached.
type IO struct {
	*invaders.Board

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	chunks   [discrete.Channels]*mix.Chunk
	mixOpen  bool

	pixels  []uint8 // RGB332, Width bytes per row.
	buttons buttons
	frames  chan struct{} // Signalled on VBLANK.
	sounds  chan int      // Channels to play.
	palette video.Palette
	debug   bool
}

// Def defines the frontend.
type Def struct {
	// Title of the window. Defaults to "Space Invaders".
	Title string
	// Scale multiplies the 224x256 window size. Defaults to 2.
	Scale int
	// SampleDir holds the WAV files named in invaders.SampleFiles. If empty the
	// board runs silent.
	SampleDir string
	// Ships is the initial ships per game DIP setting. Defaults to 3.
	Ships uint8
	// Ram if non-nil is handed to the board.
	Ram *memory.RAM
	// Quit if non-nil is the shared stop signal.
	Quit *atomic.Bool
	// Lenient is passed to the board.
	Lenient bool
	// Debug if true logs SDL playback failures and is passed to the board.
	Debug bool
}

// Init creates the window, renderer, texture and mixer and returns a ready board.
// Must be called on the SDL thread. Any failure here is fatal to the frontend and
// everything created so far is released.
func Init(def *Def) (_ *IO, err error) {
	if def == nil {
		return nil, errors.New("nil Def")
	}
	m := &IO{
		pixels:  make([]uint8, video.Width*video.Height),
		frames:  make(chan struct{}, 1),
		sounds:  make(chan int, kSOUND_QUEUE),
		palette: video.DefaultPalette,
		debug:   def.Debug,
	}
	defer func() {
		if err != nil {
			m.Close()
		}
	}()

	title := def.Title
	if title == "" {
		title = "Space Invaders"
	}
	scale := int32(def.Scale)
	if scale <= 0 {
		scale = 2
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("can't init SDL: %v", err)
	}
	if m.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, video.Width*scale, video.Height*scale, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return nil, fmt.Errorf("can't create window: %v", err)
	}
	if m.renderer, err = sdl.CreateRenderer(m.window, -1, uint32(sdl.RENDERER_ACCELERATED)); err != nil {
		return nil, fmt.Errorf("can't create renderer: %v", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "linear")
	// RGB332 is a byte per pixel so the 0x00/0xFF palette is black/white.
	if m.texture, err = m.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB332), int(sdl.TEXTUREACCESS_STREAMING), video.Width, video.Height); err != nil {
		return nil, fmt.Errorf("can't create texture: %v", err)
	}

	if def.SampleDir != "" {
		if err := mix.OpenAudio(kMIX_FREQUENCY, sdl.AUDIO_U8, kMIX_CHANNELS, kMIX_CHUNKSIZE); err != nil {
			return nil, fmt.Errorf("can't open mixer: %v", err)
		}
		m.mixOpen = true
		for ch, name := range invaders.SampleFiles {
			if name == "" {
				continue
			}
			fn := filepath.Join(def.SampleDir, name)
			if m.chunks[ch], err = mix.LoadWAV(fn); err != nil {
				return nil, fmt.Errorf("can't load sample %s: %v", fn, err)
			}
		}
	}

	ships := def.Ships
	if ships == 0 {
		ships = 3
	}
	m.buttons.ships.Set(ships)

	var player invaders.SamplePlayer
	if m.mixOpen {
		player = m
	}
	if m.Board, err = invaders.Init(&invaders.BoardDef{
		Controls:  m.buttons.controls(),
		Ram:       def.Ram,
		Player:    player,
		FrameDone: m.frameDone,
		Quit:      def.Quit,
		Lenient:   def.Lenient,
		Debug:     def.Debug,
	}); err != nil {
		return nil, fmt.Errorf("can't init board: %v", err)
	}
	return m, nil
}

// frameDone runs on the CPU goroutine. If a frame is already pending the
// renderer hasn't caught up and this one is simply merged into it.
func (m *IO) frameDone() {
	select {
	case m.frames <- struct{}{}:
	default:
	}
}

// Play implements invaders.SamplePlayer by queueing ch for the event loop.
func (m *IO) Play(ch int) error {
	if ch < 0 || ch >= discrete.Channels || m.chunks[ch] == nil {
		return nil
	}
	select {
	case m.sounds <- ch:
		return nil
	default:
		return fmt.Errorf("sound queue full: %w", invaders.ErrBusy)
	}
}

func (m *IO) render() {
	m.Blit(m.pixels, video.Width, m.palette)
	if err := m.texture.Update(nil, m.pixels, video.Width); err != nil {
		log.Printf("can't update texture: %v", err)
		return
	}
	m.renderer.Copy(m.texture, nil, nil)
	m.renderer.Present()
}

func (m *IO) playNow(ch int) {
	// -1 picks the next free mixer channel, 0 means don't loop.
	if _, err := m.chunks[ch].Play(-1, 0); err != nil && m.debug {
		// Out of mixer channels. Audio is best effort.
		log.Printf("can't play sound %d: %v", ch, err)
	}
}

// EventLoop processes window events, keyboard state, frames and sounds until the board
// is told to quit (window closed, Q pressed or the shared signal set). Must run on
// the SDL thread.
func (m *IO) EventLoop() {
	for !m.Quitting() {
		if e := sdl.WaitEventTimeout(kEVENT_WAIT); e != nil {
			for ; e != nil; e = sdl.PollEvent() {
				if _, ok := e.(*sdl.QuitEvent); ok {
					m.Quit()
				}
			}
		}
		if m.buttons.apply(sdl.GetKeyboardState()) {
			m.Quit()
		}
	sounds:
		for {
			select {
			case ch := <-m.sounds:
				m.playNow(ch)
			default:
				break sounds
			}
		}
		select {
		case <-m.frames:
			m.render()
		default:
		}
	}
}

// Close releases all SDL resources. Must run on the SDL thread.
func (m *IO) Close() {
	for i, c := range m.chunks {
		if c != nil {
			c.Free()
			m.chunks[i] = nil
		}
	}
	if m.mixOpen {
		mix.CloseAudio()
		m.mixOpen = false
	}
	if m.texture != nil {
		m.texture.Destroy()
		m.texture = nil
	}
	if m.renderer != nil {
		m.renderer.Destroy()
		m.renderer = nil
	}
	if m.window != nil {
		m.window.Destroy()
		m.window = nil
	}
	sdl.Quit()
}
