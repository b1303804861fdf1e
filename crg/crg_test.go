package crg_test

import (
	"testing"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cores/qlal4s3b"
	"github.com/db47h/hwsoc/cpu"
	"github.com/db47h/hwsoc/crg"
	"github.com/db47h/hwsoc/hwtest"
)

func TestCRG_cpu(t *testing.T) {
	top := hwsoc.NewModule("top")
	eos := cpu.NewEOSS3()
	top.AddSubmodule("cpu", eos)
	top.Comb(eos.Interrupt, hwsoc.C(0, qlal4s3b.IRQWidth))
	c := crg.New(true)
	top.AddSubmodule("crg", c)
	rst := hwsoc.NewPad("rst", 1, hwsoc.PadIn)
	top.Comb(c.Rst, rst)

	if c.Cell != nil {
		t.Error("Cell not nil")
	}
	if n := hwsoc.Flatten(c.Module); len(n.Instances) != 0 {
		t.Errorf("Got %d instances in CRG, expected 0", len(n.Instances))
	}
	if c.ResetInput() != c.Rst {
		t.Error("ResetInput is not Rst")
	}

	n := hwtest.CheckWiring(t, top, rst)
	if d := n.Domain(crg.Domain); d != c.Sys {
		t.Fatalf("Got sys domain %v", d)
	}
	if hwtest.Drivers(n, c.Sys.Clk) != 1 || hwtest.Drivers(n, c.Sys.Rst) != 1 {
		t.Error("sys clock or reset not driven exactly once")
	}

	cc := hwtest.NewCircuit(t, top, rst)
	hwtest.ForAllInputs(t, cc, []*hwsoc.Signal{eos.Domain0.Clk, eos.Domain0.Rst, rst}, func(v []uint64) {
		if got := cc.Get(c.Sys.Clk); got != v[0] {
			t.Errorf("clk=%d: got sys_clk=%d", v[0], got)
		}
		if got, exp := cc.Get(c.Sys.Rst), v[1]|v[2]; got != exp {
			t.Errorf("cpu_rst=%d rst=%d: got sys_rst=%d, expected %d", v[1], v[2], got, exp)
		}
	})
}

func TestCRG_macro(t *testing.T) {
	c := crg.New(false)
	n := hwtest.CheckWiring(t, c.Module)

	insts := hwtest.Instances(n, qlal4s3b.Name)
	if len(insts) != 1 || len(n.Instances) != 1 || insts[0] != c.Cell {
		t.Fatalf("Got %d instances, expected exactly one %s", len(n.Instances), qlal4s3b.Name)
	}
	if c.Cell.Output("Sys_Clk0") != c.Sys.Clk {
		t.Error("Sys_Clk0 does not drive sys clock")
	}
	if c.Cell.Output("Sys_Clk0_Rst") != c.Sys.Rst {
		t.Error("Sys_Clk0_Rst does not drive sys reset")
	}
	for _, port := range []string{"Sys_Clk1", "Sys_Clk1_Rst"} {
		if s := c.Cell.Output(port); s == nil || !s.IsOpen() {
			t.Errorf("%s not explicitly open", port)
		}
	}
	// the external reset request is not consumed in this mode.
	for _, a := range n.Comb {
		hwsoc.Walk(a.Src, func(x hwsoc.Expr) {
			if x == hwsoc.Expr(c.Rst) {
				t.Error("Rst consumed in macro mode")
			}
		})
	}

	cc := hwtest.NewCircuit(t, c.Module)
	hwtest.ForAllInputs(t, cc, []*hwsoc.Signal{c.Sys.Clk, c.Sys.Rst}, func(v []uint64) {
		if cc.Get(hwsoc.ResetSignal(crg.Domain)) != v[1] {
			t.Errorf("sys reset does not follow Sys_Clk0_Rst")
		}
	})
}
