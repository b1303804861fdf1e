// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"github.com/pkg/errors"
)

// Circuit is a behavioural evaluation of a netlist. It is not a timing
// simulator: clocks are advanced explicitly with Tick and combinational
// logic settles instantly.
//
// Signals driven by input pads or by macro instance outputs are the
// circuit's stimuli and must be set with Set.
//
type Circuit struct {
	n      *Netlist
	values map[*Signal]uint64
	doms   map[string]*ClockDomain
	stim   map[*Signal]bool
	ticks  uint
}

// NewCircuit builds a new circuit based on the given module and pads.
// The module wiring is checked first and registers are initialized to their
// reset value.
//
func NewCircuit(m *Module, pads ...*Signal) (*Circuit, error) {
	n := Flatten(m, pads...)
	if err := n.Check(); err != nil {
		return nil, errors.Wrap(err, "invalid wiring")
	}
	c := &Circuit{
		n:      n,
		values: make(map[*Signal]uint64),
		doms:   make(map[string]*ClockDomain, len(n.Domains)),
		stim:   make(map[*Signal]bool),
	}
	for _, d := range n.Domains {
		c.doms[d.Name] = d
	}
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			c.values[a.Dst] = a.Dst.reset
		}
	}
	for _, p := range n.Pads {
		if p.dir == PadIn {
			c.stim[p] = true
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Outputs {
			if !p.Signal.open {
				c.stim[p.Signal] = true
			}
		}
	}
	if err := c.Settle(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Circuit) value(s *Signal) uint64 { return c.values[s] }

func (c *Circuit) domain(name string) *ClockDomain { return c.doms[name] }

// Get returns the current value of x.
//
func (c *Circuit) Get(x Expr) uint64 {
	return x.eval(c)
}

// Set sets the value of a stimulus signal. Call Settle to propagate the
// change. It panics if s is driven by the design.
//
func (c *Circuit) Set(s *Signal, v uint64) {
	if !c.stim[s] {
		panic("signal " + s.name + " is not a circuit input")
	}
	c.values[s] = v & mask(s.width)
}

// Settle evaluates comb statements until all values are stable.
//
func (c *Circuit) Settle() error {
	for i := 0; i <= len(c.n.Comb); i++ {
		changed := false
		for _, a := range c.n.Comb {
			v := a.Src.eval(c) & mask(a.Dst.width)
			if c.values[a.Dst] != v {
				c.values[a.Dst] = v
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	return errors.New("combinational loop: values do not settle")
}

// Tick advances the given clock domain by one clock cycle: all registers of
// the domain are updated at once, then comb logic settles. Registers load
// their reset value while the domain reset is asserted.
//
func (c *Circuit) Tick(domain string) error {
	cd := c.doms[domain]
	if cd == nil {
		return errors.New("unknown clock domain " + domain)
	}
	rst := c.values[cd.Rst] != 0
	next := make(map[*Signal]uint64)
	for _, b := range c.n.Sync {
		if b.Domain != domain {
			continue
		}
		for _, a := range b.Stmts {
			if rst {
				next[a.Dst] = a.Dst.reset
			} else {
				next[a.Dst] = a.Src.eval(c) & mask(a.Dst.width)
			}
		}
	}
	for s, v := range next {
		c.values[s] = v
	}
	c.ticks++
	return c.Settle()
}

// Ticks returns the number of clock cycles run so far, all domains included.
//
func (c *Circuit) Ticks() uint { return c.ticks }

// Netlist returns the netlist evaluated by c.
//
func (c *Circuit) Netlist() *Netlist { return c.n }
