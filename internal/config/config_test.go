package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/internal/config"
)

func TestDecode(t *testing.T) {
	o, err := config.Decode(strings.NewReader(`
cpu_type: eos-s3
sys_clk_freq: 20000000
with_led_chaser: false
irq_map:
  gpio: 2
`))
	if err != nil {
		t.Fatal(err)
	}
	if o.CPUType == nil || *o.CPUType != "eos-s3" {
		t.Errorf("Got cpu_type %v", o.CPUType)
	}
	if o.SysClkFreq == nil || *o.SysClkFreq != 20000000 {
		t.Errorf("Got sys_clk_freq %v", o.SysClkFreq)
	}
	if o.WithLEDChaser == nil || *o.WithLEDChaser {
		t.Errorf("Got with_led_chaser %v", o.WithLEDChaser)
	}
	if o.WithGPIOIn != nil || o.Build != nil || o.OutputDir != nil {
		t.Error("absent keys decoded as set")
	}
	if o.IRQMap["gpio"] != 2 {
		t.Errorf("Got irq_map %v", o.IRQMap)
	}
}

func TestDecode_errors(t *testing.T) {
	data := []struct {
		name string
		doc  string
	}{
		{"unknown_key", "cpu: eos-s3\n"},
		{"bad_type", "sys_clk_freq: fast\n"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(d.doc))
			if !hwsoc.IsKind(err, hwsoc.KindConfig) {
				t.Errorf("Got error %v, expected configuration error", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := config.Load(empty)
	if err != nil {
		t.Fatal(err)
	}
	if o.CPUType != nil {
		t.Error("empty file decoded as set")
	}
	if _, err = config.Load(filepath.Join(dir, "missing.yaml")); !hwsoc.IsKind(err, hwsoc.KindConfig) {
		t.Errorf("Got error %v, expected configuration error", err)
	}
}

func TestMarshal(t *testing.T) {
	o, err := config.Decode(strings.NewReader("build: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := config.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "build: true\n" {
		t.Errorf("Got %q", b)
	}
}
