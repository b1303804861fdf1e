// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cli implements the quickfeather command.
//
package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/builder"
	"github.com/db47h/hwsoc/cpu"
	"github.com/db47h/hwsoc/internal/buildinfo"
	"github.com/db47h/hwsoc/internal/config"
	"github.com/db47h/hwsoc/internal/logger"
	board "github.com/db47h/hwsoc/platform/quickfeather"
	"github.com/db47h/hwsoc/target/quickfeather"
	"github.com/db47h/hwsoc/toolchain"
	"github.com/spf13/cobra"
)

// Execute runs the root command and exits with status 1 on error.
//
func Execute() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	config      string
	debug       bool
	printConfig bool
	build       bool
	cpuType     string
	sysClkFreq  float64
	withLEDs    bool
	withGPIO    bool
	outputDir   string
}

// newRootCmd returns the root command. tc is the toolchain used by --build,
// the Symbiflow toolchain if nil.
//
func newRootCmd(tc toolchain.Toolchain) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "quickfeather",
		Short:         "SoC builder for the QuickLogic QuickFeather board",
		Version:       buildinfo.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options(cmd, &f)
			if err != nil {
				return report(cmd, err)
			}
			if f.printConfig {
				b, err := config.Marshal(opts.WithDefaults())
				if err != nil {
					return report(cmd, err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return report(cmd, run(cmd.Context(), cmd.OutOrStdout(), opts, f.debug, tc))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "read options from a YAML `file`")
	fl.BoolVar(&f.debug, "debug", false, "enable verbose logging to <output-dir>/logs/hwsoc.log")
	fl.BoolVar(&f.printConfig, "print-config", false, "print the effective options as YAML and exit")
	fl.BoolVar(&f.build, "build", false, "run the toolchain after elaboration")
	fl.StringVar(&f.cpuType, "cpu-type", string(cpu.None), "CPU type ("+strings.Join(cpu.Names(), ", ")+")")
	fl.Float64Var(&f.sysClkFreq, "sys-clk-freq", quickfeather.DefaultSysClkFreq, "system clock frequency in Hz")
	fl.BoolVar(&f.withLEDs, "with-led-chaser", true, "attach the LED chaser to the user LEDs")
	fl.BoolVar(&f.withGPIO, "with-gpio-in", true, "attach the user button GPIO input")
	fl.StringVar(&f.outputDir, "output-dir", quickfeather.DefaultOutputDir, "output `directory`")
	return cmd
}

func report(cmd *cobra.Command, err error) error {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	}
	return err
}

// options merges the configuration file, if any, with the flags explicitly
// set on the command line.
//
func options(cmd *cobra.Command, f *flags) (quickfeather.Options, error) {
	var opts quickfeather.Options
	if f.config != "" {
		var err error
		if opts, err = config.Load(f.config); err != nil {
			return opts, err
		}
	}
	var over quickfeather.Options
	fl := cmd.Flags()
	if fl.Changed("build") {
		over.Build = quickfeather.Bool(f.build)
	}
	if fl.Changed("cpu-type") {
		over.CPUType = quickfeather.String(f.cpuType)
	}
	if fl.Changed("sys-clk-freq") {
		if f.sysClkFreq != math.Trunc(f.sysClkFreq) || f.sysClkFreq <= 0 || f.sysClkFreq > math.MaxInt64/2 {
			return opts, hwsoc.ConfigError("cli", "invalid system clock frequency %g", f.sysClkFreq)
		}
		over.SysClkFreq = quickfeather.Int64(int64(f.sysClkFreq))
	}
	if fl.Changed("with-led-chaser") {
		over.WithLEDChaser = quickfeather.Bool(f.withLEDs)
	}
	if fl.Changed("with-gpio-in") {
		over.WithGPIOIn = quickfeather.Bool(f.withGPIO)
	}
	if fl.Changed("output-dir") {
		over.OutputDir = quickfeather.String(f.outputDir)
	}
	return opts.Merge(over), nil
}

func run(ctx context.Context, w io.Writer, opts quickfeather.Options, debug bool, tc toolchain.Toolchain) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	cleanup, _ := logger.Setup(logger.Config{Dir: cfg.OutputDir, Debug: debug})
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}
	log := logger.L()

	p, err := board.New()
	if err != nil {
		return err
	}
	s, err := quickfeather.NewBaseSoC(p, cfg, log)
	if err != nil {
		log.Error("cli.compose_failed", "err", err)
		return err
	}
	if tc == nil {
		tc = &toolchain.Symbiflow{Runner: toolchain.ExecRunner{Stdout: w, Stderr: os.Stderr}, Log: log}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := builder.New(s, p, tc, cfg.OutputDir, log).Build(ctx, cfg.Build)
	if err != nil {
		log.Error("cli.build_failed", "err", err)
		return err
	}
	fmt.Fprintln(w, "verilog:", a.Verilog)
	fmt.Fprintln(w, "constraints:", a.Constraints)
	if a.Bitstream != "" {
		fmt.Fprintln(w, "bitstream:", a.Bitstream)
	}
	return nil
}
