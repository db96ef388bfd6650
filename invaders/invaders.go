// Package invaders is the main logic for pulling together the I/O side of the
// Midway Space Invaders board. The chips are implemented in other packages
// and most of the logic here is the port map tying them to the CPU plus
// the cabinet inputs.
//
// Port map:
//
//	Port  Read                 Write
//	0     inputs 0             -
//	1     inputs 1             -
//	2     inputs 2             shift amount
//	3     shift result         sound port 1
//	4     -                    shift data
//	5     -                    sound port 2
//	6     watchdog             watchdog
//
// Anything else is a bug in the CPU driver or ROM and panics with a
// *PortError unless the board was built with Lenient set.
package invaders

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"sync/atomic"

	"github.com/jmchacon/i8080arcade/beam"
	"github.com/jmchacon/i8080arcade/discrete"
	"github.com/jmchacon/i8080arcade/irq"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/shifter"
	"github.com/jmchacon/i8080arcade/video"
)

var (
	_ = Controller(&Board{})
	_ = memory.Bank(&Board{})
)

const (
	kREAD_INPUTS0   = uint16(0x00)
	kREAD_INPUTS1   = uint16(0x01)
	kREAD_INPUTS2   = uint16(0x02)
	kREAD_SHIFT     = uint16(0x03)
	kREAD_WATCHDOG  = uint16(0x06)
	kWRITE_AMOUNT   = uint16(0x02)
	kWRITE_SOUND1   = uint16(0x03)
	kWRITE_SHIFT    = uint16(0x04)
	kWRITE_SOUND2   = uint16(0x05)
	kWRITE_WATCHDOG = uint16(0x06)
)

// Controller is the contract between a CPU emulator and the board's I/O.
// Backends wrap a Board to add rendering/audio and still satisfy this.
type Controller interface {
	irq.Servicer
	// ReadPort handles an IN instruction.
	ReadPort(port uint16) uint8
	// WritePort handles an OUT instruction and returns the sound channels it triggered.
	WritePort(port uint16, data uint8) discrete.Triggers
}

// PortError describes an access to a port the board doesn't decode.
type PortError struct {
	Op   string
	Port uint16
	Data uint8 // Only meaningful for writes.
}

func (e *PortError) Error() string {
	if e.Op == "write" {
		return fmt.Sprintf("invaders: write of %.2X to unmapped port %d", e.Data, e.Port)
	}
	return fmt.Sprintf("invaders: read from unmapped port %d", e.Port)
}

// Board ties the RAM, shift register, sound unit and beam driver together.
type Board struct {
	ram      *memory.RAM
	shift    *shifter.Chip
	sound    *discrete.Chip
	beam     *beam.Chip
	frame    *video.Frame
	controls Controls
	player   SamplePlayer
	lenient  bool
	debug    bool
	logf     func(format string, args ...interface{})
	played   atomic.Uint64 // Samples handed to the player.
	dropped  atomic.Uint64 // Samples the player refused.
}

// BoardDef defines the pieces needed to setup a board.
type BoardDef struct {
	// Controls are the cabinet inputs polled on port reads.
	Controls Controls

	// Ram if non-nil is used as memory. Otherwise a zeroed 64k RAM is created.
	// ROMs are loaded by the caller via Memory().
	Ram *memory.RAM

	// Player if non-nil is sent every sound trigger.
	Player SamplePlayer

	// FrameDone is called on every VBLANK after the frame is captured. It's called on the
	// CPU goroutine and must not block.
	FrameDone func()

	// Quit is the shared stop signal. If nil the board makes its own (see Quit()).
	Quit *atomic.Bool

	// Lenient if true treats unmapped ports as no-ops reading 0 instead of panicking.
	Lenient bool

	// Debug if true will emit output from Debug() calls and log dropped samples.
	Debug bool

	// Logf is used for diagnostics. Defaults to log.Printf.
	Logf func(format string, args ...interface{})
}

// Init returns an initialized and powered on board.
func Init(def *BoardDef) (*Board, error) {
	if def == nil {
		return nil, errors.New("nil BoardDef")
	}
	for i, p := range def.Controls.Players {
		if p != nil && (p.Left == nil || p.Right == nil || p.Fire == nil) {
			return nil, fmt.Errorf("cannot pass in a Player for Players[%d] with nil members: %#v", i, p)
		}
	}
	b := &Board{
		ram:      def.Ram,
		frame:    &video.Frame{},
		controls: def.Controls,
		player:   def.Player,
		lenient:  def.Lenient,
		debug:    def.Debug,
		logf:     def.Logf,
	}
	if b.ram == nil {
		b.ram = memory.New()
	}
	if b.logf == nil {
		b.logf = log.Printf
	}
	var err error
	if b.shift, err = shifter.Init(&shifter.ChipDef{Debug: def.Debug}); err != nil {
		return nil, fmt.Errorf("can't initialize shift register: %v", err)
	}
	if b.sound, err = discrete.Init(&discrete.ChipDef{Debug: def.Debug}); err != nil {
		return nil, fmt.Errorf("can't initialize sound: %v", err)
	}
	if b.beam, err = beam.Init(&beam.ChipDef{
		Vram:      b.ram,
		Frame:     b.frame,
		Quit:      def.Quit,
		FrameDone: def.FrameDone,
		Debug:     def.Debug,
	}); err != nil {
		return nil, fmt.Errorf("can't initialize beam: %v", err)
	}
	return b, nil
}

// Memory returns the board RAM for ROM loading and CPU access.
func (b *Board) Memory() *memory.RAM {
	return b.ram
}

// Read implements the memory.Bank interface by passing through to RAM.
func (b *Board) Read(addr uint16) uint8 {
	return b.ram.Read(addr)
}

// Write implements the memory.Bank interface by passing through to RAM.
func (b *Board) Write(addr uint16, val uint8) {
	b.ram.Write(addr, val)
}

// PowerOn implements the memory.Bank interface. It clears RAM (so reload ROMs after)
// and resets the shift register and sound latches. The beam state is left alone.
func (b *Board) PowerOn() {
	b.ram.PowerOn()
	b.shift.PowerOn()
	b.sound.PowerOn()
}

func (b *Board) violation(e *PortError) {
	if !b.lenient {
		panic(e)
	}
	if b.debug {
		b.logf("%v (ignored)", e)
	}
}

// ReadPort implements Controller. Inputs are polled synchronously.
func (b *Board) ReadPort(port uint16) uint8 {
	switch port {
	case kREAD_INPUTS0:
		return b.controls.port0()
	case kREAD_INPUTS1:
		return b.controls.port1()
	case kREAD_INPUTS2:
		return b.controls.port2()
	case kREAD_SHIFT:
		return b.shift.Read()
	case kREAD_WATCHDOG:
		return 0x00
	}
	b.violation(&PortError{Op: "read", Port: port})
	return 0x00
}

// WritePort implements Controller. Any triggered channels are also sent to the
// player (if installed) before returning.
func (b *Board) WritePort(port uint16, data uint8) discrete.Triggers {
	var t discrete.Triggers
	switch port {
	case kWRITE_AMOUNT:
		b.shift.WriteAmount(data)
	case kWRITE_SOUND1:
		t = b.sound.Write(discrete.Port1, data)
	case kWRITE_SHIFT:
		b.shift.WriteData(data)
	case kWRITE_SOUND2:
		t = b.sound.Write(discrete.Port2, data)
	case kWRITE_WATCHDOG:
		// Nothing to reset, we never hang.
	default:
		b.violation(&PortError{Op: "write", Port: port, Data: data})
	}
	if !t.Empty() && b.player != nil {
		t.Each(b.play)
	}
	return t
}

func (b *Board) play(ch int) {
	if err := b.player.Play(ch); err != nil {
		b.dropped.Add(1)
		if b.debug {
			b.logf("dropped sound %d: %v", ch, err)
		}
		return
	}
	b.played.Add(1)
}

// ServiceInterrupts implements Controller via the beam driver.
func (b *Board) ServiceInterrupts(currTime uint64, cycles uint64) irq.ISR {
	return b.beam.ServiceInterrupts(currTime, cycles)
}

// Quit asks the CPU driver to stop. The next ServiceInterrupts returns irq.Quit.
func (b *Board) Quit() {
	b.beam.Quit()
}

// Quitting returns true once Quit was called (or the shared signal was set).
func (b *Board) Quitting() bool {
	return b.beam.Quitting()
}

// Blit renders the most recent frame into dst (rows of pitch bytes). Safe to call
// from any goroutine.
func (b *Board) Blit(dst []uint8, pitch int, p video.Palette) uint64 {
	return b.frame.Blit(dst, pitch, p)
}

// Image returns the most recent frame as a gray image. Safe to call from any goroutine.
func (b *Board) Image(p video.Palette) *image.Gray {
	return b.frame.Image(p)
}

// Frames returns the number of frames captured.
func (b *Board) Frames() uint64 {
	return b.frame.Frames()
}

// Samples returns the counts of samples played and dropped.
func (b *Board) Samples() (played uint64, dropped uint64) {
	return b.played.Load(), b.dropped.Load()
}

func (b *Board) Debug() string {
	if !b.debug {
		return ""
	}
	var s strings.Builder
	fmt.Fprintf(&s, "inputs: %.2X %.2X %.2X\n", b.controls.port0(), b.controls.port1(), b.controls.port2())
	s.WriteString(b.shift.Debug())
	s.WriteString(b.sound.Debug())
	s.WriteString(b.beam.Debug())
	return s.String()
}
