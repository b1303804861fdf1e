// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package gpio provides general purpose I/O cores.
//
package gpio

import (
	"github.com/db47h/hwsoc"
	"github.com/pkg/errors"
)

// In is a GPIO input block.
//
// Input pads are resynchronized to the clock domain by a two stage register.
// With interrupts enabled, a falling edge on any input raises Interrupt for
// one clock cycle.
//
//	Inputs: pads
//	Outputs: In, Interrupt
//	Function: In(t) = pads(t-2)
//	          Interrupt(t) = (In(t-2) & !In(t-1)) != 0
//
type In struct {
	*hwsoc.Module
	Pads []*hwsoc.Signal
	In   *hwsoc.Signal
	// Interrupt is nil when interrupts are disabled.
	Interrupt *hwsoc.Signal

	meta *hwsoc.Signal
}

// NewIn returns a new GPIO input block in the sys clock domain.
//
func NewIn(pads []*hwsoc.Signal, withIRQ bool) (*In, error) {
	return NewInDomain("sys", pads, withIRQ)
}

// NewInDomain is like NewIn for an arbitrary clock domain.
//
func NewInDomain(domain string, pads []*hwsoc.Signal, withIRQ bool) (*In, error) {
	if len(pads) == 0 {
		return nil, errors.New("gpio in: no pads")
	}
	ps := make([]hwsoc.Expr, len(pads))
	n := 0
	for i, p := range pads {
		ps[i] = p
		n += p.Width()
	}
	if n > hwsoc.MaxWidth {
		return nil, errors.Errorf("gpio in: %d pad bits, maximum is %d", n, hwsoc.MaxWidth)
	}

	m := hwsoc.NewModule("gpio")
	g := &In{
		Module: m,
		Pads:   pads,
		In:     hwsoc.NewSignal("in", n),
		meta:   hwsoc.NewSignal("in_meta", n),
	}
	m.Sync(domain, g.meta, hwsoc.Cat(ps...))
	m.Sync(domain, g.In, g.meta)

	if withIRQ {
		prev := hwsoc.NewSignal("in_prev", n)
		g.Interrupt = hwsoc.NewSignal("irq", 1)
		m.Sync(domain, prev, g.In)
		falling := hwsoc.And(prev, hwsoc.Not(g.In))
		m.Sync(domain, g.Interrupt, hwsoc.Not(hwsoc.Eq(falling, hwsoc.C(0, n))))
	}
	return g, nil
}

// IRQ implements soc.IRQSource.
//
func (g *In) IRQ() *hwsoc.Signal { return g.Interrupt }
