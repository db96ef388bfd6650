// Package irq defines the basic interfaces for working
// with 8080 family interrupts. The 8080 takes an RST n instruction
// from the interrupting device so rather than a raised line the
// device returns which ISR (if any) the CPU should service next.
// NOTE: The CPU polls for interrupts between instructions. Implementors
// must not block and should derive their answer purely from the
// time/cycle counts passed in.
package irq

// ISR is the interrupt service request returned to the CPU.
type ISR int

const (
	NoInterrupt ISR = iota // Nothing to service.
	Zero                   // RST 0
	One                    // RST 1. On invaders this is the beam at mid screen.
	Two                    // RST 2. On invaders this is the beam at the end of the screen (VBLANK).
	Three                  // RST 3
	Four                   // RST 4
	Five                   // RST 5
	Six                    // RST 6
	Seven                  // RST 7
	Quit                   // Not an interrupt. Tells the CPU driver to stop running.
)

func (i ISR) String() string {
	switch i {
	case NoInterrupt:
		return "NoInterrupt"
	case Quit:
		return "Quit"
	}
	if i >= Zero && i <= Seven {
		return "RST" + string(rune('0'+int(i-Zero)))
	}
	return "ISR(?)"
}

// Servicer is implemented by devices the CPU polls for interrupts.
type Servicer interface {
	// ServiceInterrupts returns the next ISR to execute given the current CPU run
	// time in nanoseconds and the total cycles executed.
	ServiceInterrupts(currTime uint64, cycles uint64) ISR
}
