// Package beam emulates the timing of the CRT beam on the invaders board.
// The ROM expects RST 1 when the beam is around the middle of the screen
// and RST 2 when it hits the bottom (start of VBLANK) so it knows which half
// of VRAM is safe to draw. Both arrive once per 60Hz frame.
//
// Rather than counting CPU cycles the cadence is driven by the run time the CPU
// driver passes in: every call where the time has moved on fires the next
// interrupt in the sequence. The CPU driver controls the rate by how often its
// clock advances.
package beam

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jmchacon/i8080arcade/irq"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/video"
)

var _ = irq.Servicer(&Chip{})

// Phase is the next beam position the driver will report.
type Phase int

const (
	AwaitingMid    Phase = iota // Next interrupt is mid screen (RST 1).
	AwaitingVBlank              // Next interrupt is end of screen (RST 2).
	Stopped                     // Quit was observed. Terminal.
)

func (p Phase) String() string {
	switch p {
	case AwaitingMid:
		return "AwaitingMid"
	case AwaitingVBlank:
		return "AwaitingVBlank"
	case Stopped:
		return "Stopped"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Chip holds the beam state.
type Chip struct {
	debug     bool               // If true Debug() emits output.
	phase     Phase              // Which interrupt comes next.
	lastTime  uint64             // Time passed on the last call that fired.
	vram      memory.Snapshotter // Where VRAM is copied from on VBLANK.
	frame     *video.Frame       // Where VRAM is copied to on VBLANK.
	quit      *atomic.Bool       // Shared with whoever wants to stop the run.
	frameDone func()             // Optional, called after each capture.
	mids      uint64             // Count of RST 1's.
	vblanks   uint64             // Count of RST 2's.
}

// ChipDef defines the beam driver.
type ChipDef struct {
	// Vram is the memory holding the video RAM window. Required.
	Vram memory.Snapshotter

	// Frame receives a snapshot of Vram on every VBLANK. Required.
	Frame *video.Frame

	// Quit is the shared stop signal. If nil the chip makes its own which
	// can be set via Quit().
	Quit *atomic.Bool

	// FrameDone if non-nil is called (on the CPU goroutine) after each snapshot.
	// It must not block.
	FrameDone func()

	// Debug if true will emit output from Debug() calls
	Debug bool
}

// Init returns a beam driver waiting to fire its first mid screen interrupt.
func Init(d *ChipDef) (*Chip, error) {
	if d == nil {
		return nil, errors.New("nil ChipDef")
	}
	if d.Vram == nil {
		return nil, errors.New("Vram must be non-nil")
	}
	if d.Frame == nil {
		return nil, errors.New("Frame must be non-nil")
	}
	if got, want := d.Vram.VramLength(), video.VramLength; got != want {
		return nil, fmt.Errorf("vram window is %d bytes, want %d", got, want)
	}
	q := d.Quit
	if q == nil {
		q = &atomic.Bool{}
	}
	return &Chip{
		debug:     d.Debug,
		phase:     AwaitingMid,
		vram:      d.Vram,
		frame:     d.Frame,
		quit:      q,
		frameDone: d.FrameDone,
	}, nil
}

// Quit sets the stop signal. Safe to call from any goroutine.
func (c *Chip) Quit() {
	c.quit.Store(true)
}

// Quitting returns true once the stop signal is set.
func (c *Chip) Quitting() bool {
	return c.quit.Load()
}

// Phase returns what the next interrupt will be.
func (c *Chip) Phase() Phase {
	return c.phase
}

// ServiceInterrupts implements irq.Servicer. currTime is the CPU run time in
// nanoseconds. cycles isn't used as the cadence follows the clock only.
func (c *Chip) ServiceInterrupts(currTime uint64, cycles uint64) irq.ISR {
	if c.phase == Stopped || c.quit.Load() {
		c.phase = Stopped
		return irq.Quit
	}
	if currTime == c.lastTime {
		return irq.NoInterrupt
	}
	c.lastTime = currTime

	if c.phase == AwaitingMid {
		c.phase = AwaitingVBlank
		c.mids++
		return irq.One
	}
	c.phase = AwaitingMid
	c.vblanks++
	c.frame.Capture(c.vram)
	if c.frameDone != nil {
		c.frameDone()
	}
	return irq.Two
}

func (c *Chip) Debug() string {
	if c.debug {
		return fmt.Sprintf("beam phase: %s last: %d mid: %d vblank: %d quit: %t\n", c.phase, c.lastTime, c.mids, c.vblanks, c.quit.Load())
	}
	return ""
}
