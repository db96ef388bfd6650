package discrete

import (
	"testing"

	"github.com/go-test/deep"
)

func setup(t *testing.T) *Chip {
	t.Helper()
	c, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Can't Init: %v", err)
	}
	return c
}

type step struct {
	val  uint8
	want []int
}

func TestSequences(t *testing.T) {
	tests := []struct {
		name  string
		port  Port
		steps []step
	}{
		{
			name: "UFO and shot held",
			port: Port1,
			steps: []step{
				{0x03, []int{0, 1}},
				{0x03, []int{0}},
			},
		},
		{
			name: "UFO loop 0->1->1->0->1",
			port: Port1,
			steps: []step{
				{0x01, []int{UFO}},
				{0x01, []int{UFO}},
				{0x00, []int{UFO}}, // Was set on the previous write.
				{0x01, []int{UFO}},
				{0x00, []int{UFO}},
				{0x00, []int{}},
			},
		},
		{
			name: "Shot one shot",
			port: Port1,
			steps: []step{
				{0x02, []int{Shot}},
				{0x02, []int{}},
				{0x00, []int{}},
				{0x02, []int{Shot}},
			},
		},
		{
			name: "Multiple edges",
			port: Port1,
			steps: []step{
				{0xF0, []int{4, 5, 6, 7}},
				{0xFE, []int{1, 2, 3}},
				{0x0E, []int{}},
				{0xFF, []int{0, 4, 5, 6, 7}},
			},
		},
		{
			name: "Port 2 bit 0 is edge triggered",
			port: Port2,
			steps: []step{
				{0x01, []int{Fleet1}},
				{0x01, []int{}},
				{0x00, []int{}},
				{0x01, []int{Fleet1}},
			},
		},
		{
			name: "Fleet cycle",
			port: Port2,
			steps: []step{
				{0x01, []int{Fleet1}},
				{0x02, []int{Fleet2}},
				{0x04, []int{Fleet3}},
				{0x08, []int{Fleet4}},
				{0x18, []int{UFOHit}},
				{0xFF, []int{8, 9, 10, 13, 14, 15}},
			},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := setup(t)
			for i, s := range test.steps {
				got := c.Write(test.port, s.val).Channels()
				if diff := deep.Equal(got, s.want); diff != nil {
					t.Errorf("%s: step %d (%.2X): triggers differ: %v", test.name, i, s.val, diff)
				}
				if got, want := c.Previous(test.port), s.val; got != want {
					t.Errorf("%s: step %d: previous not latched. Got %.2X and want %.2X", test.name, i, got, want)
				}
			}
		})
	}
}

// TestEdgeProperty walks every old/new pair and checks each bit against the
// edge rule (and the level rule for the UFO bit).
func TestEdgeProperty(t *testing.T) {
	for _, p := range []Port{Port1, Port2} {
		for old := 0; old < 256; old++ {
			for val := 0; val < 256; val++ {
				c := setup(t)
				c.Write(p, uint8(old))
				got := c.Write(p, uint8(val))
				for bit := 0; bit < 8; bit++ {
					o := (old >> bit) & 1
					n := (val >> bit) & 1
					want := n > o
					if p == Port1 && bit == 0 {
						want = (n | o) == 1
					}
					ch := bit
					if p == Port2 {
						ch += 8
					}
					if got.Has(ch) != want {
						t.Fatalf("port %d old %.2X new %.2X bit %d: Got %t and want %t", p, old, val, bit, got.Has(ch), want)
					}
				}
			}
		}
	}
}

func TestPortsIndependent(t *testing.T) {
	c := setup(t)
	c.Write(Port1, 0x02)
	// Same bit on the other port is still a fresh edge.
	if got := c.Write(Port2, 0x02); !got.Has(Fleet2) || got.Len() != 1 {
		t.Errorf("port 2 write didn't fire independently: %s", got)
	}
	if got, want := c.Previous(Port1), uint8(0x02); got != want {
		t.Errorf("port 1 disturbed. Got %.2X and want %.2X", got, want)
	}
}

func TestTriggers(t *testing.T) {
	tr := Triggers(0x8101)
	if diff := deep.Equal(tr.Channels(), []int{0, 8, 15}); diff != nil {
		t.Errorf("Channels differ: %v", diff)
	}
	if tr.Has(16) || tr.Has(-1) {
		t.Error("Has accepted an out of range channel")
	}
	if !Triggers(0).Empty() || tr.Empty() {
		t.Error("Empty wrong")
	}
	if got, want := tr.String(), "[0 8 15]"; got != want {
		t.Errorf("String: Got %q and want %q", got, want)
	}
}

func TestInvalidPort(t *testing.T) {
	c := setup(t)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Didn't panic on invalid port")
		}
	}()
	c.Write(Port(2), 0x01)
}
