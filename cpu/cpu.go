// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cpu lists the CPU subsystems a SoC can be built around.
//
package cpu

import (
	"sort"
	"strings"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/cores/qlal4s3b"
)

// Type is a CPU selector.
//
type Type string

// Supported CPU selectors.
//
const (
	None  Type = "none"
	EOSS3 Type = "eos-s3"
)

// Info describes a CPU subsystem.
//
type Info struct {
	Type   Type
	Family string
	// Hard is true for CPUs implemented in silicon next to the fabric.
	Hard bool
	// IRQs is the number of interrupt lines from the fabric to the CPU.
	IRQs int
}

var registry = map[Type]Info{
	None:  {Type: None},
	EOSS3: {Type: EOSS3, Family: "arm", Hard: true, IRQs: qlal4s3b.IRQWidth},
}

// Lookup returns the CPU selected by name. An empty name selects None.
// Unknown names are configuration errors.
//
func Lookup(name string) (Info, error) {
	if name == "" {
		name = string(None)
	}
	info, ok := registry[Type(name)]
	if !ok {
		return Info{}, hwsoc.ConfigError("cpu.lookup", "unsupported cpu type %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return info, nil
}

// Names returns the sorted list of supported CPU selectors.
//
func Names() []string {
	ns := make([]string, 0, len(registry))
	for t := range registry {
		ns = append(ns, string(t))
	}
	sort.Strings(ns)
	return ns
}
