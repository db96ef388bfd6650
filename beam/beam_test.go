package beam

import (
	"sync/atomic"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jmchacon/i8080arcade/irq"
	"github.com/jmchacon/i8080arcade/memory"
	"github.com/jmchacon/i8080arcade/video"
)

type tick struct {
	time  uint64
	want  irq.ISR
	frame uint64 // Expected capture count after the tick.
}

func setup(t *testing.T, quit *atomic.Bool, done func()) (*Chip, *memory.RAM, *video.Frame) {
	t.Helper()
	ram := memory.New()
	f := &video.Frame{}
	c, err := Init(&ChipDef{
		Vram:      ram,
		Frame:     f,
		Quit:      quit,
		FrameDone: done,
	})
	if err != nil {
		t.Fatalf("Can't Init: %v", err)
	}
	return c, ram, f
}

func TestInitErrors(t *testing.T) {
	small, err := memory.Init(&memory.RAMDef{AddressBusSize: 8})
	if err != nil {
		t.Fatalf("Can't init RAM: %v", err)
	}
	tests := []struct {
		name string
		def  *ChipDef
	}{
		{"Nil def", nil},
		{"Nil vram", &ChipDef{Frame: &video.Frame{}}},
		{"Nil frame", &ChipDef{Vram: memory.New()}},
		{"Wrong vram size", &ChipDef{Vram: small, Frame: &video.Frame{}}},
	}
	for _, test := range tests {
		if _, err := Init(test.def); err == nil {
			t.Errorf("%s: didn't get error", test.name)
		}
	}
}

func TestCadence(t *testing.T) {
	tests := []struct {
		name  string
		ticks []tick
	}{
		{
			name: "Alternates",
			ticks: []tick{
				{1, irq.One, 0},
				{2, irq.Two, 1},
				{3, irq.One, 1},
				{4, irq.Two, 2},
			},
		},
		{
			name: "Unchanged time is a no-op",
			ticks: []tick{
				{100, irq.One, 0},
				{100, irq.NoInterrupt, 0},
				{100, irq.NoInterrupt, 0},
				{250, irq.Two, 1},
				{250, irq.NoInterrupt, 1},
				{8333333, irq.One, 1},
			},
		},
		{
			name: "Time zero doesn't fire first",
			ticks: []tick{
				{0, irq.NoInterrupt, 0},
				{16, irq.One, 0},
			},
		},
		{
			name: "Any change counts even backwards",
			ticks: []tick{
				{50, irq.One, 0},
				{10, irq.Two, 1},
			},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c, _, f := setup(t, nil, nil)
			for i, tk := range test.ticks {
				if got := c.ServiceInterrupts(tk.time, uint64(i)); got != tk.want {
					t.Fatalf("%s: tick %d at %d: Got %s and want %s\n%s", test.name, i, tk.time, got, tk.want, spew.Sdump(c))
				}
				if got := f.Frames(); got != tk.frame {
					t.Errorf("%s: tick %d: %d captures and want %d", test.name, i, got, tk.frame)
				}
			}
		})
	}
}

func TestSnapshotOnVBlank(t *testing.T) {
	calls := 0
	c, ram, f := setup(t, nil, func() { calls++ })
	ram.Write(memory.VramStart, 0x01)

	if got := c.ServiceInterrupts(1, 0); got != irq.One {
		t.Fatalf("first tick: Got %s and want %s", got, irq.One)
	}
	// Nothing captured on the mid screen interrupt.
	if img := f.Image(video.DefaultPalette); img.GrayAt(0, 255).Y != 0 {
		t.Error("frame captured on RST 1")
	}
	if calls != 0 {
		t.Errorf("FrameDone called %d times on RST 1", calls)
	}

	if got := c.ServiceInterrupts(2, 0); got != irq.Two {
		t.Fatalf("second tick: Got %s and want %s", got, irq.Two)
	}
	if img := f.Image(video.DefaultPalette); img.GrayAt(0, 255).Y != 0xFF {
		t.Error("frame not captured on RST 2")
	}
	if calls != 1 {
		t.Errorf("FrameDone called %d times and want 1", calls)
	}

	// Later writes don't leak into the snapshot until the next VBLANK.
	ram.Write(memory.VramStart, 0x00)
	c.ServiceInterrupts(3, 0)
	if img := f.Image(video.DefaultPalette); img.GrayAt(0, 255).Y != 0xFF {
		t.Error("snapshot aliases VRAM")
	}
	c.ServiceInterrupts(4, 0)
	if img := f.Image(video.DefaultPalette); img.GrayAt(0, 255).Y != 0x00 {
		t.Error("second VBLANK didn't refresh snapshot")
	}
}

func TestQuit(t *testing.T) {
	for _, phase := range []Phase{AwaitingMid, AwaitingVBlank} {
		q := &atomic.Bool{}
		c, _, f := setup(t, q, nil)
		if phase == AwaitingVBlank {
			c.ServiceInterrupts(1, 0)
		}
		if got := c.Phase(); got != phase {
			t.Fatalf("%s: setup in wrong phase %s", phase, got)
		}
		q.Store(true)
		before := f.Frames()
		for i := uint64(10); i < 20; i++ {
			if got := c.ServiceInterrupts(i, i); got != irq.Quit {
				t.Errorf("%s: tick %d: Got %s and want %s", phase, i, got, irq.Quit)
			}
		}
		// Terminal even if someone clears the flag.
		q.Store(false)
		if got := c.ServiceInterrupts(100, 0); got != irq.Quit {
			t.Errorf("%s: left Quit state: %s", phase, got)
		}
		if got := c.Phase(); got != Stopped {
			t.Errorf("%s: phase %s and want %s", phase, got, Stopped)
		}
		if f.Frames() != before {
			t.Errorf("%s: captured after quit", phase)
		}
	}
}

func TestQuitMethod(t *testing.T) {
	c, _, _ := setup(t, nil, nil)
	if c.Quitting() {
		t.Error("quitting before Quit()")
	}
	c.Quit()
	if !c.Quitting() {
		t.Error("not quitting after Quit()")
	}
	if got := c.ServiceInterrupts(1, 0); got != irq.Quit {
		t.Errorf("Got %s and want %s", got, irq.Quit)
	}
}
