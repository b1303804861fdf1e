package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/builder"
	board "github.com/db47h/hwsoc/platform/quickfeather"
	"github.com/db47h/hwsoc/target/quickfeather"
	"github.com/db47h/hwsoc/toolchain"
	"github.com/pkg/errors"
)

type fakeToolchain struct {
	designs []*toolchain.Design
	err     error
}

func (tc *fakeToolchain) Build(_ context.Context, d *toolchain.Design) (string, error) {
	tc.designs = append(tc.designs, d)
	if tc.err != nil {
		return "", tc.err
	}
	return filepath.Join(d.Dir, d.Name+".bit"), nil
}

func newBuilder(t *testing.T, cpu string, tc toolchain.Toolchain) (*builder.Builder, *quickfeather.BaseSoC, string) {
	t.Helper()
	p, err := board.New()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := quickfeather.Options{CPUType: quickfeather.String(cpu)}.Config()
	if err != nil {
		t.Fatal(err)
	}
	s, err := quickfeather.NewBaseSoC(p, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	return builder.New(s, p, tc, dir, nil), s, dir
}

func TestBuild(t *testing.T) {
	for _, cpu := range []string{"none", "eos-s3"} {
		for _, run := range []bool{false, true} {
			name := cpu
			if run {
				name += "_run"
			}
			t.Run(name, func(t *testing.T) {
				tc := &fakeToolchain{}
				b, s, dir := newBuilder(t, cpu, tc)
				a, err := b.Build(context.Background(), run)
				if err != nil {
					t.Fatal(err)
				}
				if !s.Finalized() {
					t.Error("SoC not finalized")
				}
				if a.Dir != filepath.Join(dir, builder.GatewareDir) {
					t.Errorf("Got gateware dir %q", a.Dir)
				}
				v, err := os.ReadFile(a.Verilog)
				if err != nil {
					t.Fatal(err)
				}
				if !strings.Contains(string(v), "module quickfeather(") || !strings.Contains(string(v), s.Ident()) {
					t.Errorf("unexpected verilog output:\n%s", v)
				}
				pcf, err := os.ReadFile(a.Constraints)
				if err != nil {
					t.Fatal(err)
				}
				for _, l := range []string{"set_io user_led0 38\n", "set_io user_led2 34\n", "set_io user_btn_n0 62\n"} {
					if !strings.Contains(string(pcf), l) {
						t.Errorf("constraints do not contain %q:\n%s", l, pcf)
					}
				}
				if _, err = os.Stat(filepath.Join(dir, "software")); !os.IsNotExist(err) {
					t.Error("software directory created")
				}

				if !run {
					if len(tc.designs) != 0 || a.Bitstream != "" {
						t.Fatalf("toolchain called %d times", len(tc.designs))
					}
					return
				}
				if len(tc.designs) != 1 {
					t.Fatalf("toolchain called %d times, expected 1", len(tc.designs))
				}
				d := tc.designs[0]
				if d.Netlist == nil || d.Name != "quickfeather" || d.Device != "ql-eos-s3" || d.Package != "PU64" {
					t.Errorf("Got design %+v", d)
				}
				if d.Verilog != a.Verilog || d.Constraints != a.Constraints {
					t.Errorf("design sources %s, %s do not match artifacts", d.Verilog, d.Constraints)
				}
				if a.Bitstream != filepath.Join(a.Dir, "quickfeather.bit") {
					t.Errorf("Got bitstream %q", a.Bitstream)
				}
			})
		}
	}
}

func TestBuild_errors(t *testing.T) {
	t.Run("toolchain", func(t *testing.T) {
		failure := hwsoc.WrapKind(errors.New("exit status 1"), "toolchain.build", hwsoc.KindToolchain)
		tc := &fakeToolchain{err: failure}
		b, _, _ := newBuilder(t, "none", tc)
		if _, err := b.Build(context.Background(), true); err != failure {
			t.Errorf("Got error %v, expected %v", err, failure)
		}
		if len(tc.designs) != 1 {
			t.Errorf("toolchain called %d times, expected 1", len(tc.designs))
		}
	})
	t.Run("no_toolchain", func(t *testing.T) {
		b, _, _ := newBuilder(t, "none", nil)
		if _, err := b.Build(context.Background(), false); err != nil {
			t.Fatal(err)
		}
		if _, err := b.Build(context.Background(), true); !hwsoc.IsKind(err, hwsoc.KindConfig) {
			t.Errorf("Got error %v, expected configuration error", err)
		}
	})
	t.Run("finalize", func(t *testing.T) {
		tc := &fakeToolchain{}
		b, s, dir := newBuilder(t, "eos-s3", tc)
		if _, err := s.IRQ.Add("ghost", true); err != nil {
			t.Fatal(err)
		}
		if _, err := b.Build(context.Background(), true); !hwsoc.IsKind(err, hwsoc.KindComposition) {
			t.Errorf("Got error %v, expected composition error", err)
		}
		if len(tc.designs) != 0 {
			t.Error("toolchain called")
		}
		if _, err := os.Stat(filepath.Join(dir, builder.GatewareDir)); !os.IsNotExist(err) {
			t.Error("gateware written")
		}
	})
}
