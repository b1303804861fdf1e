package hwsoc_test

import (
	"testing"

	hw "github.com/db47h/hwsoc"
)

type cellPorts struct {
	Clk    *hw.Signal `hw:"out,Sys_Clk0"`
	Rst    *hw.Signal `hw:"out"`
	Irq    hw.Expr    `hw:"in,FB_msg_out"`
	In     *hw.Signal `hw:"in"`
	ignore int
}

func TestMakeMacro(t *testing.T) {
	sp := hw.MakeMacro("cell_macro", (*cellPorts)(nil))
	if sp.Name != "cell_macro" {
		t.Errorf("Got name %q", sp.Name)
	}
	if len(sp.Inputs) != 2 || sp.Inputs[0] != "FB_msg_out" || sp.Inputs[1] != "In" {
		t.Errorf("Got inputs %v", sp.Inputs)
	}
	if len(sp.Outputs) != 2 || sp.Outputs[0] != "Sys_Clk0" || sp.Outputs[1] != "Rst" {
		t.Errorf("Got outputs %v", sp.Outputs)
	}

	clk, in := hw.NewSignal("clk", 1), hw.NewSignal("in", 1)
	inst := sp.Instantiate(&cellPorts{Clk: clk, Rst: hw.Open(1), Irq: hw.C(0, 4), In: in})
	if inst.Output("Sys_Clk0") != clk {
		t.Error("Sys_Clk0 not connected to clk")
	}
	if !inst.Output("Rst").IsOpen() {
		t.Error("Rst not open")
	}
	if inst.Output("foo") != nil {
		t.Error("Got unknown output")
	}
	if len(inst.Inputs) != 2 || inst.Inputs[1].Expr != hw.Expr(in) {
		t.Errorf("Got inputs %v", inst.Inputs)
	}
}

func TestMakeMacro_errors(t *testing.T) {
	type badOut struct {
		O hw.Expr `hw:"out"`
	}
	type badIn struct {
		I int `hw:"in"`
	}
	type badTag struct {
		I *hw.Signal `hw:"inout"`
	}
	data := []struct {
		name  string
		ports interface{}
	}{
		{"not_struct", 42},
		{"bad_out", badOut{}},
		{"bad_in", badIn{}},
		{"bad_tag", badTag{}},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			hw.MakeMacro(d.name, d.ports)
		})
	}
}

func TestInstantiate_wrong_type(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	testCell.Instantiate(cellPorts{})
}
