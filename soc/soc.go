// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package soc provides a generic SoC core: the CPU subsystem, the control
// block, the interrupt registry and the named cores of a design.
//
package soc

import (
	"log/slog"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cpu"
	"github.com/db47h/hwsoc/internal/buildinfo"
	"github.com/db47h/hwsoc/internal/logger"
	"github.com/pkg/errors"
)

// Platform is the board interface consumed by the SoC core.
//
type Platform interface {
	Name() string
	Request(name string) (*hwsoc.Signal, error)
	RequestAll(name string) ([]*hwsoc.Signal, error)
	Pads() []*hwsoc.Signal
}

// Config is the configuration of the generic SoC core.
//
type Config struct {
	Ident        string
	IdentVersion bool
	CPUType      string
	WithUART     bool
	SysClkFreq   int64
	// IRQMap predefines interrupt lines by peripheral name.
	IRQMap map[string]int
}

// IRQSource is implemented by cores with an interrupt output.
//
type IRQSource interface {
	hwsoc.Core
	IRQ() *hwsoc.Signal
}

// ResetInput is implemented by clock/reset generators accepting an external
// reset request.
//
type ResetInput interface {
	hwsoc.Core
	ResetInput() *hwsoc.Signal
}

// Ctrl is the SoC control block. Its reset request is tied low: this core
// has no CSR bus to drive it.
//
type Ctrl struct {
	*hwsoc.Module
	Reset *hwsoc.Signal
}

func newCtrl() *Ctrl {
	c := &Ctrl{Module: hwsoc.NewModule("ctrl"), Reset: hwsoc.NewSignal("soc_rst", 1)}
	c.Comb(c.Reset, hwsoc.C(0, 1))
	return c
}

// SoCCore is the SoC description. It owns the top module, the CPU, the
// interrupt registry and every core added with Add.
//
type SoCCore struct {
	*hwsoc.Module
	Platform Platform
	Config   Config
	CPU      cpu.Info
	// EOSS3 is the hard CPU subsystem, nil unless CPU.Type is cpu.EOSS3.
	EOSS3 *cpu.EOSS3CPU
	Ctrl  *Ctrl
	IRQ   *IRQHandler

	cores     map[string]hwsoc.Core
	order     []string
	finalized bool
	log       *slog.Logger
}

// New returns a new SoC core for the given platform. Configuration errors
// (unknown CPU, invalid clock frequency, unavailable serial console, invalid
// IRQ map) are reported before any gateware is created.
//
func New(p Platform, cfg Config, log *slog.Logger) (*SoCCore, error) {
	const op = "soc.new"
	info, err := cpu.Lookup(cfg.CPUType)
	if err != nil {
		return nil, err
	}
	if cfg.SysClkFreq <= 0 {
		return nil, hwsoc.ConfigError(op, "invalid system clock frequency %d", cfg.SysClkFreq)
	}
	irq, err := newIRQHandler(info.IRQs, cfg.IRQMap)
	if err != nil {
		return nil, hwsoc.WrapKind(err, op, hwsoc.KindConfig)
	}
	if cfg.WithUART {
		if _, err := p.Request("serial"); err != nil {
			return nil, err
		}
		return nil, hwsoc.ConfigError(op, "serial console requested but this SoC has no UART core")
	}

	s := &SoCCore{
		Module:   hwsoc.NewModule(p.Name()),
		Platform: p,
		Config:   cfg,
		CPU:      info,
		IRQ:      irq,
		cores:    make(map[string]hwsoc.Core),
		log:      logger.Or(log).With("soc", p.Name()),
	}
	s.Ctrl = newCtrl()
	if err := s.Add("ctrl", s.Ctrl); err != nil {
		return nil, err
	}
	if info.Type == cpu.EOSS3 {
		s.EOSS3 = cpu.NewEOSS3()
		if err := s.Add("cpu", s.EOSS3); err != nil {
			return nil, err
		}
	}
	s.log.Info("soc.created", "ident", s.Ident(), "cpu", string(info.Type), "sys_clk_freq", cfg.SysClkFreq)
	return s, nil
}

// Ident returns the SoC identifier string.
//
func (s *SoCCore) Ident() string {
	if s.Config.IdentVersion {
		return s.Config.Ident + " " + buildinfo.Version
	}
	return s.Config.Ident
}

// Add adds a named core to the SoC.
//
func (s *SoCCore) Add(name string, c hwsoc.Core) error {
	if _, ok := s.cores[name]; ok {
		return errors.Errorf("core %q already added", name)
	}
	if s.finalized {
		return errors.Errorf("core %q: SoC already finalized", name)
	}
	s.cores[name] = c
	s.order = append(s.order, name)
	s.AddSubmodule(name, c)
	s.log.Debug("soc.core_added", "name", name)
	return nil
}

// Core returns the named core, or nil.
//
func (s *SoCCore) Core(name string) hwsoc.Core {
	return s.cores[name]
}

// Cores returns the core names in the order they were added.
//
func (s *SoCCore) Cores() []string {
	return append([]string(nil), s.order...)
}

// Finalize completes the SoC description: it connects the external reset
// request of the "crg" core to the control block, and the registered
// interrupt sources to the CPU interrupt lines. It is safe to call Finalize
// more than once.
//
func (s *SoCCore) Finalize() error {
	const op = "soc.finalize"
	if s.finalized {
		return nil
	}
	var lines []hwsoc.Expr
	if s.EOSS3 != nil {
		lines = make([]hwsoc.Expr, s.IRQ.Len())
		for i := range lines {
			lines[i] = hwsoc.C(0, 1)
		}
		for _, name := range s.IRQ.Names() {
			src, ok := s.cores[name].(IRQSource)
			if !ok || src.IRQ() == nil {
				return hwsoc.WrapKind(errors.Errorf("irq %q: no such core with an interrupt output", name), op, hwsoc.KindComposition)
			}
			loc, _ := s.IRQ.Loc(name)
			lines[loc] = src.IRQ()
			s.log.Debug("soc.irq_connected", "name", name, "line", loc)
		}
		s.Comb(s.EOSS3.Interrupt, hwsoc.Cat(lines...))
	}
	if crg, ok := s.cores["crg"].(ResetInput); ok {
		s.Comb(crg.ResetInput(), s.Ctrl.Reset)
	}
	s.finalized = true
	return nil
}

// Finalized returns true once Finalize succeeded.
//
func (s *SoCCore) Finalized() bool { return s.finalized }

// Netlist returns the flattened SoC description, including all requested
// platform pads.
//
func (s *SoCCore) Netlist() *hwsoc.Netlist {
	return hwsoc.Flatten(s.Module, s.Platform.Pads()...)
}
