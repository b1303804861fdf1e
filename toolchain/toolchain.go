// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package toolchain drives the external synthesis and place-and-route tools.
//
package toolchain

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/internal/logger"
	"github.com/pkg/errors"
)

// A Design is an elaborated SoC ready to be built.
//
type Design struct {
	// Name of the top-level module, also used as file name prefix.
	Name string
	// Ident is the SoC identifier.
	Ident string
	// Dir is the gateware directory holding Verilog and Constraints.
	Dir         string
	Verilog     string
	Constraints string
	Device      string
	Package     string
	// Netlist is the fully composed SoC description.
	Netlist *hwsoc.Netlist
}

// A Toolchain turns an elaborated design into a bitstream.
//
type Toolchain interface {
	Build(ctx context.Context, d *Design) (bitstream string, err error)
}

// A Runner runs an external command in dir.
//
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Command output is passed through
// verbatim to Stdout and Stderr (os.Stdout and os.Stderr if nil).
//
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
//
func (r ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = r.Stdout, r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

var scriptTmpl = template.Must(template.New("build").Parse(`#!/usr/bin/env bash
# Machine-generated. {{.Ident}}
set -e

ql_symbiflow -compile -src . -d {{.Device}} -P {{.Package}} -t {{.Name}} -v {{.Verilog}} -p {{.Constraints}} -dump binary
`))

// Symbiflow is the QuickLogic Symbiflow toolchain (ql_symbiflow).
//
type Symbiflow struct {
	// Runner runs the build script. Defaults to ExecRunner.
	Runner Runner
	Log    *slog.Logger
}

// Script returns the build script path for d.
//
func Script(d *Design) string {
	return filepath.Join(d.Dir, "build_"+d.Name+".sh")
}

// WriteScript writes the build script of d.
//
func (s *Symbiflow) WriteScript(d *Design) error {
	f, err := os.Create(Script(d))
	if err != nil {
		return errors.Wrap(err, "create build script")
	}
	data := struct {
		*Design
		Verilog, Constraints string
	}{d, filepath.Base(d.Verilog), filepath.Base(d.Constraints)}
	if err = scriptTmpl.Execute(f, data); err != nil {
		f.Close()
		return errors.Wrap(err, "write build script")
	}
	return errors.Wrap(f.Close(), "write build script")
}

// Build implements Toolchain. It writes the build script next to the
// design sources and runs it. Toolchain failures are reported as is, with
// kind hwsoc.KindToolchain.
//
func (s *Symbiflow) Build(ctx context.Context, d *Design) (string, error) {
	const op = "toolchain.build"
	log := logger.Or(s.Log)
	if err := s.WriteScript(d); err != nil {
		return "", hwsoc.WrapKind(err, op, hwsoc.KindToolchain)
	}
	r := s.Runner
	if r == nil {
		r = ExecRunner{}
	}
	script := filepath.Base(Script(d))
	log.Info("toolchain.run", "dir", d.Dir, "script", script)
	if err := r.Run(ctx, d.Dir, "bash", script); err != nil {
		log.Error("toolchain.failed", "err", err)
		return "", hwsoc.WrapKind(err, op, hwsoc.KindToolchain)
	}
	return filepath.Join(d.Dir, d.Name+".bit"), nil
}
