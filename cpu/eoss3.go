// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cpu

import (
	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cores/qlal4s3b"
)

// EOS-S3 clock domains. Both are generated by the hard subsystem.
//
const (
	EOSS3Domain0 = "eos_s3_0"
	EOSS3Domain1 = "eos_s3_1"
)

// EOSS3CPU is the hard ARM Cortex-M4F subsystem of the QuickLogic EOS-S3.
//
// It owns the qlal4s3b_cell_macro instance and exports its two clock
// domains. Interrupt must be driven by the SoC (see soc.SoCCore.Finalize).
//
type EOSS3CPU struct {
	*hwsoc.Module
	Domain0   *hwsoc.ClockDomain
	Domain1   *hwsoc.ClockDomain
	Interrupt *hwsoc.Signal
	Cell      *hwsoc.Instance
}

// NewEOSS3 returns a new EOS-S3 CPU subsystem.
//
func NewEOSS3() *EOSS3CPU {
	m := hwsoc.NewModule("eos_s3")
	c := &EOSS3CPU{
		Module:    m,
		Domain0:   m.ClockDomain(EOSS3Domain0),
		Domain1:   m.ClockDomain(EOSS3Domain1),
		Interrupt: hwsoc.NewSignal("interrupt", qlal4s3b.IRQWidth),
	}
	c.Cell = qlal4s3b.New(qlal4s3b.Ports{
		SysClk0:    c.Domain0.Clk,
		SysClk0Rst: c.Domain0.Rst,
		SysClk1:    c.Domain1.Clk,
		SysClk1Rst: c.Domain1.Rst,
		FBMsgOut:   c.Interrupt,
	})
	m.Special(c.Cell)
	return c
}
