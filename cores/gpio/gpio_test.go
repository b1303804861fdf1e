package gpio_test

import (
	"testing"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cores/gpio"
	"github.com/db47h/hwsoc/hwtest"
	"github.com/db47h/hwsoc/soc"
)

func withSys(c hwsoc.Core) *hwsoc.Module {
	m := hwsoc.NewModule("top")
	cd := m.ClockDomain("sys")
	m.Comb(cd.Clk, hwsoc.C(0, 1))
	m.Comb(cd.Rst, hwsoc.C(0, 1))
	m.AddSubmodule("gpio", c)
	return m
}

func TestIn_sync(t *testing.T) {
	pads := []*hwsoc.Signal{hwsoc.NewPad("btn", 1, hwsoc.PadIn), hwsoc.NewPad("sw", 2, hwsoc.PadIn)}
	g, err := gpio.NewIn(pads, false)
	if err != nil {
		t.Fatal(err)
	}
	if g.IRQ() != nil {
		t.Error("Got interrupt output without IRQ")
	}
	if g.In.Width() != 3 {
		t.Errorf("Got width %d, expected 3", g.In.Width())
	}
	c := hwtest.NewCircuit(t, withSys(g), pads...)
	c.Set(pads[0], 1)
	c.Set(pads[1], 2)
	for i, exp := range []uint64{0, 5} {
		if err = c.Tick("sys"); err != nil {
			t.Fatal(err)
		}
		if v := c.Get(g.In); v != exp {
			t.Errorf("tick %d: got in = %d, expected %d", i+1, v, exp)
		}
	}
}

func TestIn_irq(t *testing.T) {
	btn := hwsoc.NewPad("btn", 1, hwsoc.PadIn)
	g, err := gpio.NewIn([]*hwsoc.Signal{btn}, true)
	if err != nil {
		t.Fatal(err)
	}
	var _ soc.IRQSource = g
	if g.IRQ() == nil || g.IRQ().Width() != 1 {
		t.Fatal("no interrupt output")
	}
	c := hwtest.NewCircuit(t, withSys(g), btn)
	pulses := func(v uint64, ticks int) int {
		c.Set(btn, v)
		n := 0
		for i := 0; i < ticks; i++ {
			if err := c.Tick("sys"); err != nil {
				t.Fatal(err)
			}
			n += int(c.Get(g.IRQ()))
		}
		return n
	}
	if n := pulses(1, 8); n != 0 {
		t.Errorf("rising edge: got %d interrupt cycles, expected 0", n)
	}
	if n := pulses(0, 8); n != 1 {
		t.Errorf("falling edge: got %d interrupt cycles, expected 1", n)
	}
	if n := pulses(0, 8); n != 0 {
		t.Errorf("steady low: got %d interrupt cycles, expected 0", n)
	}
}

func TestNewIn_errors(t *testing.T) {
	if _, err := gpio.NewIn(nil, true); err == nil {
		t.Error("expected error with no pads")
	}
	if _, err := gpio.NewIn([]*hwsoc.Signal{hwsoc.NewPad("a", 64, hwsoc.PadIn), hwsoc.NewPad("b", 1, hwsoc.PadIn)}, false); err == nil {
		t.Error("expected error with too many pad bits")
	}
}
