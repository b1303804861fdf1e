package platform_test

import (
	"strings"
	"testing"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/platform"
)

const testTable = `
name: board
device: dev
package: pkg
io:
  - {name: led, number: 1, pins: ["B1"], dir: out}
  - {name: led, number: 0, pins: ["A1"], iostandard: LVCMOS33, dir: out}
  - {name: btn, number: 0, pins: ["C1", "C2"], dir: in}
`

func newPlatform(t *testing.T) *platform.Platform {
	t.Helper()
	tb, err := platform.LoadTable(strings.NewReader(testTable))
	if err != nil {
		t.Fatal(err)
	}
	p, err := platform.New(tb)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlatform_Request(t *testing.T) {
	p := newPlatform(t)
	if p.Name() != "board" || p.Device() != "dev" || p.Package() != "pkg" {
		t.Errorf("Got %s/%s/%s", p.Name(), p.Device(), p.Package())
	}
	led, err := p.Request("led")
	if err != nil {
		t.Fatal(err)
	}
	if led.Name() != "led0" || led.Dir() != hwsoc.PadOut || led.Width() != 1 {
		t.Errorf("Got pad %v, dir %v", led, led.Dir())
	}
	leds, err := p.RequestAll("led")
	if err != nil {
		t.Fatal(err)
	}
	if len(leds) != 1 || leds[0].Name() != "led1" {
		t.Errorf("Got %v, expected [led1]", leds)
	}
	if _, err = p.Request("led"); !hwsoc.IsKind(err, hwsoc.KindConfig) {
		t.Errorf("Got error %v, expected configuration error", err)
	}
	if _, err = p.RequestAll("led"); !hwsoc.IsKind(err, hwsoc.KindConfig) {
		t.Errorf("Got error %v, expected configuration error", err)
	}
	if _, err = p.Request("serial"); !hwsoc.IsKind(err, hwsoc.KindConfig) {
		t.Errorf("Got error %v, expected configuration error", err)
	}
	if _, err = p.RequestAll("serial"); !hwsoc.IsKind(err, hwsoc.KindConfig) {
		t.Errorf("Got error %v, expected configuration error", err)
	}

	btn, err := p.Request("btn")
	if err != nil {
		t.Fatal(err)
	}
	if btn.Width() != 2 || btn.Dir() != hwsoc.PadIn {
		t.Errorf("Got pad %v, dir %v", btn, btn.Dir())
	}

	pads := p.Pads()
	if len(pads) != 3 || pads[0] != led || pads[1] != leds[0] || pads[2] != btn {
		t.Errorf("Got pads %v", pads)
	}
	cs := p.Constraints()
	exp := []struct {
		pad *hwsoc.Signal
		bit int
		pin string
	}{{led, 0, "A1"}, {leds[0], 0, "B1"}, {btn, 0, "C1"}, {btn, 1, "C2"}}
	if len(cs) != len(exp) {
		t.Fatalf("Got %d constraints, expected %d", len(cs), len(exp))
	}
	for i, e := range exp {
		if cs[i].Pad != e.pad || cs[i].Bit != e.bit || cs[i].Pin != e.pin {
			t.Errorf("constraint %d: got %v[%d] %s, expected %v[%d] %s", i, cs[i].Pad, cs[i].Bit, cs[i].Pin, e.pad, e.bit, e.pin)
		}
	}
	if cs[0].IOStandard != "LVCMOS33" {
		t.Errorf("Got IO standard %q", cs[0].IOStandard)
	}
}

func TestNew_errors(t *testing.T) {
	data := []struct {
		name  string
		table string
		err   string
	}{
		{"no_device", "name: b\n", "platform table: missing name or device"},
		{"empty_name", "name: b\ndevice: d\nio:\n  - {number: 0, pins: [A], dir: in}\n", "platform b: resource with empty name"},
		{"duplicate", "name: b\ndevice: d\nio:\n  - {name: x, number: 0, pins: [A], dir: in}\n  - {name: x, number: 0, pins: [B], dir: in}\n", "platform b: duplicate resource x:0"},
		{"no_pins", "name: b\ndevice: d\nio:\n  - {name: x, number: 0, dir: in}\n", "platform b: resource x:0 has 0 pins"},
		{"bad_dir", "name: b\ndevice: d\nio:\n  - {name: x, number: 0, pins: [A], dir: inout}\n", `platform b: resource x:0: invalid direction "inout"`},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			tb, err := platform.LoadTable(strings.NewReader(d.table))
			if err != nil {
				t.Fatal(err)
			}
			_, err = platform.New(tb)
			if err == nil || err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
			}
		})
	}
}

func TestLoadTable_unknown_field(t *testing.T) {
	if _, err := platform.LoadTable(strings.NewReader("name: b\ndevice: d\ncolor: red\n")); err == nil {
		t.Fatal("expected error on unknown field")
	}
}
