// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"github.com/pkg/errors"
)

// A ClockDomain groups logic sharing one clock and one reset signal.
//
type ClockDomain struct {
	Name string
	Clk  *Signal
	Rst  *Signal
}

// An Assign drives Dst from Src. In sync statements, Dst is a register
// updated on the rising edge of the domain clock.
//
type Assign struct {
	Dst *Signal
	Src Expr
}

// A Core is any gateware block. Structs embedding a *Module get the
// Gateware method for free.
//
type Core interface {
	Gateware() *Module
}

type submodule struct {
	name string
	m    *Module
}

// A Module is a container of gateware: comb and sync statements, macro
// instances, clock domains and submodules.
//
// A simple registered inverter could be described like this:
//
//	m := NewModule("inv")
//	in, out := NewSignal("in", 1), NewSignal("out", 1)
//	m.Sync("sys", out, Not(in))
//
type Module struct {
	name      string
	comb      []Assign
	sync      map[string][]Assign
	syncOrder []string
	domains   []*ClockDomain
	instances []*Instance
	subs      []submodule
}

// NewModule returns a new empty module.
//
func NewModule(name string) *Module {
	return &Module{name: name, sync: make(map[string][]Assign)}
}

// Name returns the module name.
//
func (m *Module) Name() string { return m.name }

// Gateware implements Core.
//
func (m *Module) Gateware() *Module { return m }

// ClockDomain declares a new clock domain in m. Its clock and reset signals
// are named name_clk and name_rst and must be driven by the design.
//
func (m *Module) ClockDomain(name string) *ClockDomain {
	cd := &ClockDomain{
		Name: name,
		Clk:  NewSignal(name+"_clk", 1),
		Rst:  NewSignal(name+"_rst", 1),
	}
	m.domains = append(m.domains, cd)
	return cd
}

// Comb adds a combinational assignment dst = src.
//
func (m *Module) Comb(dst *Signal, src Expr) {
	if dst == nil || src == nil {
		panic(errors.Errorf("%s: nil comb assignment", m.name))
	}
	m.comb = append(m.comb, Assign{dst, src})
}

// Sync adds a synchronous assignment dst <= src in the given clock domain.
//
func (m *Module) Sync(domain string, dst *Signal, src Expr) {
	if dst == nil || src == nil {
		panic(errors.Errorf("%s: nil sync assignment", m.name))
	}
	if _, ok := m.sync[domain]; !ok {
		m.syncOrder = append(m.syncOrder, domain)
	}
	m.sync[domain] = append(m.sync[domain], Assign{dst, src})
}

// Special adds a macro instance to m.
//
func (m *Module) Special(inst *Instance) {
	m.instances = append(m.instances, inst)
}

// AddSubmodule adds c as a named submodule of m.
// It panics if the name is already used in m.
//
func (m *Module) AddSubmodule(name string, c Core) {
	for _, s := range m.subs {
		if s.name == name {
			panic(errors.Errorf("%s: duplicate submodule %q", m.name, name))
		}
	}
	m.subs = append(m.subs, submodule{name, c.Gateware()})
}

// Submodule returns the named submodule of m, or nil.
//
func (m *Module) Submodule(name string) *Module {
	for _, s := range m.subs {
		if s.name == name {
			return s.m
		}
	}
	return nil
}

// A SyncBlock holds all sync statements of a clock domain.
//
type SyncBlock struct {
	Domain string
	Stmts  []Assign
}

// A Netlist is a flattened module tree. Statement order follows the module
// tree, depth first, which keeps elaboration output stable.
//
type Netlist struct {
	Name      string
	Comb      []Assign
	Sync      []SyncBlock
	Domains   []*ClockDomain
	Instances []*Instance
	Pads      []*Signal
}

// Flatten returns the netlist of m and all its submodules. pads lists the
// physical pads reserved for the design; pads found in statements are added
// to the list.
//
func Flatten(m *Module, pads ...*Signal) *Netlist {
	n := &Netlist{Name: m.name}
	seen := make(map[*Signal]bool)
	addPads := func(x Expr) {
		x.visit(func(x Expr) {
			if s, ok := x.(*Signal); ok && s.dir != Internal && !seen[s] {
				seen[s] = true
				n.Pads = append(n.Pads, s)
			}
		})
	}
	for _, p := range pads {
		addPads(p)
	}
	idx := make(map[string]int)
	var walk func(m *Module)
	walk = func(m *Module) {
		n.Comb = append(n.Comb, m.comb...)
		for _, d := range m.syncOrder {
			i, ok := idx[d]
			if !ok {
				i = len(n.Sync)
				idx[d] = i
				n.Sync = append(n.Sync, SyncBlock{Domain: d})
			}
			n.Sync[i].Stmts = append(n.Sync[i].Stmts, m.sync[d]...)
		}
		n.Domains = append(n.Domains, m.domains...)
		n.Instances = append(n.Instances, m.instances...)
		for _, s := range m.subs {
			walk(s.m)
		}
	}
	walk(m)
	for _, a := range n.Comb {
		addPads(a.Dst)
		addPads(a.Src)
	}
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			addPads(a.Dst)
			addPads(a.Src)
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Inputs {
			if p.Expr != nil {
				addPads(p.Expr)
			}
		}
		for _, p := range inst.Outputs {
			if p.Signal != nil {
				addPads(p.Signal)
			}
		}
	}
	return n
}

// Domain returns the named clock domain, or nil.
//
func (n *Netlist) Domain(name string) *ClockDomain {
	for _, d := range n.Domains {
		if d.Name == name {
			return d
		}
	}
	return nil
}
