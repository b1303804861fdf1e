package hwsoc_test

import (
	"fmt"

	hw "github.com/db47h/hwsoc"
)

// A two bit counter whose msb drives a LED.
//
func ExampleNewCircuit() {
	m := hw.NewModule("blinky")
	cd := m.ClockDomain("sys")
	clk := hw.NewPad("clk", 1, hw.PadIn)
	m.Comb(cd.Clk, clk)
	m.Comb(cd.Rst, hw.C(0, 1))

	led := hw.NewPad("led", 1, hw.PadOut)
	q := hw.NewSignal("q", 2)
	m.Sync("sys", q, hw.Add(q, hw.C(1, 2)))
	m.Comb(led, hw.Bit(q, 1))

	c, err := hw.NewCircuit(m, clk, led)
	if err != nil {
		fmt.Println(err)
		return
	}
	for i := 0; i < 5; i++ {
		fmt.Print(c.Get(led), " ")
		if err = c.Tick("sys"); err != nil {
			fmt.Println(err)
			return
		}
	}
	fmt.Println()

	// Output:
	// 0 0 1 1 0
}
