// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package qlal4s3b provides the port contract of the qlal4s3b_cell_macro
// primitive of the QuickLogic EOS-S3. The cell connects the FPGA fabric to
// the hard ARM subsystem and exports its clocks and resets.
//
package qlal4s3b

import "github.com/db47h/hwsoc"

// Name is the primitive name as known by the toolchain.
//
const Name = "qlal4s3b_cell_macro"

// IRQWidth is the number of fabric to CPU interrupt lines.
//
const IRQWidth = 4

// Ports lists the cell ports used by this module. All outputs must be
// connected; use hwsoc.Open for unused ones.
//
type Ports struct {
	SysClk0    *hwsoc.Signal `hw:"out,Sys_Clk0"`
	SysClk0Rst *hwsoc.Signal `hw:"out,Sys_Clk0_Rst"`
	SysClk1    *hwsoc.Signal `hw:"out,Sys_Clk1"`
	SysClk1Rst *hwsoc.Signal `hw:"out,Sys_Clk1_Rst"`
	FBMsgOut   hwsoc.Expr    `hw:"in,FB_msg_out"`
}

// Spec is the MacroSpec of the cell.
//
var Spec = hwsoc.MakeMacro(Name, Ports{})

// New returns a new cell instance.
//
func New(p Ports) *hwsoc.Instance {
	return Spec.Instantiate(p)
}
