package shifter

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func setup(t *testing.T) *Chip {
	t.Helper()
	c, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Can't Init: %v", err)
	}
	return c
}

func TestInitErrors(t *testing.T) {
	if _, err := Init(nil); err == nil {
		t.Error("Didn't get error for nil ChipDef")
	}
}

func TestAllShifts(t *testing.T) {
	c := setup(t)
	// Every amount against every data pair. Fatal since erroring on every iteration is too much.
	for amount := uint8(0); amount < 8; amount++ {
		for data := 0; data <= 0xFFFF; data++ {
			c.WriteAmount(amount)
			// LSB first, then MSB.
			c.WriteData(uint8(data & 0xFF))
			c.WriteData(uint8(data >> 8))
			want := uint8((uint16(data) >> (8 - amount)) & 0xFF)
			if got := c.Read(); got != want {
				t.Fatalf("amount %d data %.4X: Got %.2X and want %.2X\n%s", amount, data, got, want, spew.Sdump(c))
			}
		}
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		amount uint8
		lsb    uint8
		msb    uint8
		want   uint8
		data   uint16
	}{
		{
			name:   "Amount 0 is the high byte",
			amount: 0,
			lsb:    0x34,
			msb:    0x12,
			want:   0x12,
			data:   0x1234,
		},
		{
			name:   "Amount 4 mixes nibbles",
			amount: 4,
			lsb:    0xFF,
			msb:    0x0F,
			want:   0xFF,
			data:   0x0FFF,
		},
		{
			name:   "Amount 7 is bits 8-1",
			amount: 7,
			lsb:    0x80,
			msb:    0x01,
			want:   0xC0,
			data:   0x0180,
		},
		{
			name:   "High bits of amount ignored",
			amount: 0xF9,
			lsb:    0x00,
			msb:    0x81,
			want:   0x02,
			data:   0x8100,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c := setup(t)
			c.WriteAmount(test.amount)
			c.WriteData(test.lsb)
			c.WriteData(test.msb)
			if got, want := c.Data(), test.data; got != want {
				t.Errorf("%s: bad data. Got %.4X and want %.4X", test.name, got, want)
			}
			if got, want := c.Read(), test.want; got != want {
				t.Errorf("%s: bad result. Got %.2X and want %.2X", test.name, got, want)
			}
			if got, want := c.Amount(), test.amount&0x07; got != want {
				t.Errorf("%s: bad amount. Got %d and want %d", test.name, got, want)
			}
		})
	}
}

func TestPipeline(t *testing.T) {
	c := setup(t)
	// Each write pushes the previous byte down.
	for i, tc := range []struct {
		val  uint8
		want uint16
	}{
		{0xAA, 0xAA00},
		{0xBB, 0xBBAA},
		{0xCC, 0xCCBB},
	} {
		c.WriteData(tc.val)
		if got := c.Data(); got != tc.want {
			t.Errorf("write %d: Got %.4X and want %.4X", i, got, tc.want)
		}
	}
	// Changing the amount doesn't disturb the data.
	c.WriteAmount(3)
	if got, want := c.Data(), uint16(0xCCBB); got != want {
		t.Errorf("amount write changed data. Got %.4X and want %.4X", got, want)
	}
	c.PowerOn()
	if c.Data() != 0 || c.Amount() != 0 {
		t.Errorf("PowerOn didn't reset state: %s", spew.Sdump(c))
	}
}

func TestDebug(t *testing.T) {
	c := setup(t)
	if got := c.Debug(); got != "" {
		t.Errorf("Debug output when not enabled: %q", got)
	}
	c, err := Init(&ChipDef{Debug: true})
	if err != nil {
		t.Fatalf("Can't Init: %v", err)
	}
	c.WriteData(0x12)
	if got := c.Debug(); got == "" {
		t.Error("No debug output when enabled")
	}
}
