// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"github.com/pkg/errors"
)

type driverKind int

const (
	drvComb driverKind = iota
	drvSync
	drvInstance
)

type driver struct {
	kind driverKind
	name string // domain name for sync drivers, instance name for instance drivers
}

// wiring maps signals to their driver.
//
type wiring map[*Signal]driver

func (w wiring) add(s *Signal, d driver) error {
	if s.open {
		return errors.New("open signal driven by " + d.describe())
	}
	if s.dir == PadIn {
		return errors.New("input pad " + s.name + " driven by " + d.describe())
	}
	prev, ok := w[s]
	if !ok {
		w[s] = d
		return nil
	}
	// several sync statements in one domain make a single register.
	if prev.kind == drvSync && d.kind == drvSync && prev.name == d.name {
		return nil
	}
	return errors.New("signal " + s.name + " driven by " + d.describe() + ", already driven by " + prev.describe())
}

func (d driver) describe() string {
	switch d.kind {
	case drvSync:
		return "sync statement in domain " + d.name
	case drvInstance:
		return "instance " + d.name
	}
	return "comb statement"
}

// Check verifies the wiring invariants of a netlist:
//
//	- clock domain names are unique and their clock and reset signals are driven,
//	- every signal has exactly one driver,
//	- every consumed signal is driven, either by the design or by an input pad,
//	- every output pad is driven,
//	- every macro instance port is connected, unused outputs being explicitly
//	  connected to an Open marker,
//	- Open markers are never consumed,
//	- clock domain references resolve.
//
// It returns the first violation found.
//
func (n *Netlist) Check() error {
	doms := make(map[string]*ClockDomain, len(n.Domains))
	for _, d := range n.Domains {
		if doms[d.Name] != nil {
			return errors.New("duplicate clock domain " + d.Name)
		}
		doms[d.Name] = d
	}

	w := make(wiring)
	for _, a := range n.Comb {
		if err := w.add(a.Dst, driver{kind: drvComb}); err != nil {
			return err
		}
	}
	for _, b := range n.Sync {
		if doms[b.Domain] == nil {
			return errors.New("sync statements in unknown clock domain " + b.Domain)
		}
		for _, a := range b.Stmts {
			if err := w.add(a.Dst, driver{drvSync, b.Domain}); err != nil {
				return err
			}
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Outputs {
			if p.Signal == nil {
				return errors.New("instance " + inst.Spec.Name + ": output " + p.Name + " not connected")
			}
			if p.Signal.open {
				continue
			}
			if err := w.add(p.Signal, driver{drvInstance, inst.Spec.Name}); err != nil {
				return err
			}
		}
	}

	consumed := func(x Expr) error {
		var err error
		x.visit(func(x Expr) {
			if err != nil {
				return
			}
			switch x := x.(type) {
			case *Signal:
				err = checkDriven(w, x)
			case DomainSignal:
				if doms[x.Domain] == nil {
					err = errors.New("reference to unknown clock domain " + x.Domain)
				}
			}
		})
		return err
	}
	for _, a := range n.Comb {
		if err := consumed(a.Src); err != nil {
			return err
		}
	}
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			if err := consumed(a.Src); err != nil {
				return err
			}
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Inputs {
			if p.Expr == nil {
				return errors.New("instance " + inst.Spec.Name + ": input " + p.Name + " not connected")
			}
			if err := consumed(p.Expr); err != nil {
				return errors.Wrap(err, "instance "+inst.Spec.Name+": input "+p.Name)
			}
		}
	}

	for _, d := range n.Domains {
		if _, ok := w[d.Clk]; !ok {
			return errors.New("clock domain " + d.Name + ": clock not driven")
		}
		if _, ok := w[d.Rst]; !ok {
			return errors.New("clock domain " + d.Name + ": reset not driven")
		}
	}
	for _, p := range n.Pads {
		if p.dir == PadOut {
			if _, ok := w[p]; !ok {
				return errors.New("output pad " + p.name + " not driven")
			}
		}
	}
	return nil
}

func checkDriven(w wiring, s *Signal) error {
	if s.open {
		return errors.New("open signal consumed")
	}
	if s.dir == PadIn {
		return nil
	}
	if _, ok := w[s]; !ok {
		return errors.New("signal " + s.name + " not driven")
	}
	return nil
}

// Check flattens m and checks its wiring. See Netlist.Check.
//
func Check(m *Module, pads ...*Signal) error {
	return Flatten(m, pads...).Check()
}
