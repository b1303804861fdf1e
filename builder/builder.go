// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package builder elaborates a SoC into gateware sources and optionally
// hands them over to a toolchain.
//
package builder

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/internal/logger"
	"github.com/db47h/hwsoc/platform"
	"github.com/db47h/hwsoc/toolchain"
	"github.com/db47h/hwsoc/verilog"
	"github.com/pkg/errors"
)

// GatewareDir is the name of the gateware directory within the output
// directory.
//
const GatewareDir = "gateware"

// SoC is the description being built.
//
type SoC interface {
	Finalize() error
	Netlist() *hwsoc.Netlist
	Ident() string
}

// Board provides the device and pin constraints of the target board.
//
type Board interface {
	Device() string
	Package() string
	Constraints() []platform.Constraint
}

// Artifacts lists the files produced by a build.
//
type Artifacts struct {
	Dir         string
	Verilog     string
	Constraints string
	// Bitstream is empty unless the toolchain ran.
	Bitstream string
}

// Builder drives the build of a SoC.
//
// Software compilation is never done: the QuickFeather SoC has no soft CPU
// and no software directory is ever created.
//
type Builder struct {
	soc       SoC
	board     Board
	toolchain toolchain.Toolchain
	outDir    string
	log       *slog.Logger
}

// New returns a new Builder writing into outDir. tc may be nil if the
// toolchain is never run.
//
func New(s SoC, b Board, tc toolchain.Toolchain, outDir string, log *slog.Logger) *Builder {
	return &Builder{soc: s, board: b, toolchain: tc, outDir: outDir, log: logger.Or(log)}
}

// Build finalizes the SoC, checks its wiring and writes the Verilog and pin
// constraint files. If run is true, the toolchain is then invoked exactly
// once on the result.
//
func (b *Builder) Build(ctx context.Context, run bool) (*Artifacts, error) {
	const op = "builder.build"
	if err := b.soc.Finalize(); err != nil {
		return nil, err
	}
	n := b.soc.Netlist()
	if err := n.Check(); err != nil {
		return nil, hwsoc.WrapKind(err, op, hwsoc.KindComposition)
	}

	dir := filepath.Join(b.outDir, GatewareDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create gateware directory")
	}
	a := &Artifacts{
		Dir:         dir,
		Verilog:     filepath.Join(dir, n.Name+".v"),
		Constraints: filepath.Join(dir, n.Name+".pcf"),
	}

	var buf bytes.Buffer
	if err := verilog.Write(&buf, n, b.soc.Ident()); err != nil {
		return nil, hwsoc.WrapKind(err, op, hwsoc.KindComposition)
	}
	if err := os.WriteFile(a.Verilog, buf.Bytes(), 0o644); err != nil {
		return nil, errors.Wrap(err, "write verilog")
	}
	buf.Reset()
	if err := toolchain.WritePCF(&buf, b.board.Constraints(), verilog.PadNames(n)); err != nil {
		return nil, hwsoc.WrapKind(err, op, hwsoc.KindComposition)
	}
	if err := os.WriteFile(a.Constraints, buf.Bytes(), 0o644); err != nil {
		return nil, errors.Wrap(err, "write constraints")
	}
	b.log.Info("builder.elaborated", "verilog", a.Verilog, "constraints", a.Constraints)

	if !run {
		return a, nil
	}
	if b.toolchain == nil {
		return nil, hwsoc.ConfigError(op, "no toolchain configured")
	}
	d := &toolchain.Design{
		Name:        n.Name,
		Ident:       b.soc.Ident(),
		Dir:         dir,
		Verilog:     a.Verilog,
		Constraints: a.Constraints,
		Device:      b.board.Device(),
		Package:     b.board.Package(),
		Netlist:     n,
	}
	bit, err := b.toolchain.Build(ctx, d)
	if err != nil {
		return nil, err
	}
	a.Bitstream = bit
	b.log.Info("builder.built", "bitstream", bit)
	return a, nil
}
