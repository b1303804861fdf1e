// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package crg provides the clock and reset generator of the QuickFeather SoC.
//
package crg

import (
	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cores/qlal4s3b"
	"github.com/db47h/hwsoc/cpu"
)

// Domain is the name of the system clock domain.
//
const Domain = "sys"

// CRG drives the sys clock domain.
//
// With the EOS-S3 CPU, sys runs from the CPU clock domain eos_s3_0 and its
// reset is the CPU reset OR'ed with Rst. Otherwise a qlal4s3b_cell_macro is
// instantiated and its Sys_Clk0 outputs drive sys directly. Rst is not used
// in that mode: the cell reset cannot be influenced from the fabric.
//
type CRG struct {
	*hwsoc.Module
	// Rst is the external reset request.
	Rst *hwsoc.Signal
	Sys *hwsoc.ClockDomain
	// Cell is the clock macro, nil with the EOS-S3 CPU.
	Cell *hwsoc.Instance
}

// New returns a new CRG.
//
func New(withEOSS3 bool) *CRG {
	m := hwsoc.NewModule("crg")
	c := &CRG{
		Module: m,
		Rst:    hwsoc.NewSignal("rst", 1),
		Sys:    m.ClockDomain(Domain),
	}

	if withEOSS3 {
		m.Comb(c.Sys.Clk, hwsoc.ClockSignal(cpu.EOSS3Domain0))
		m.Comb(c.Sys.Rst, hwsoc.Or(hwsoc.ResetSignal(cpu.EOSS3Domain0), c.Rst))
		return c
	}

	c.Cell = qlal4s3b.New(qlal4s3b.Ports{
		SysClk0:    c.Sys.Clk,
		SysClk0Rst: c.Sys.Rst,
		SysClk1:    hwsoc.Open(1),
		SysClk1Rst: hwsoc.Open(1),
		FBMsgOut:   hwsoc.C(0, qlal4s3b.IRQWidth),
	})
	m.Special(c.Cell)
	return c
}

// ResetInput implements soc.ResetInput.
//
func (c *CRG) ResetInput() *hwsoc.Signal { return c.Rst }
