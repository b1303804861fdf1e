// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package led provides an LED chaser core.
//
package led

import (
	"math/bits"
	"time"

	"github.com/db47h/hwsoc"
	"github.com/pkg/errors"
)

// DefaultPeriod is the duration of a full chaser cycle.
//
const DefaultPeriod = time.Second

// Chaser drives a set of LED pads from a Johnson counter advanced by a
// wait timer, so that a full chaser cycle takes Period.
//
//	Outputs: pads
//	Function: every Cycles clock cycles, chaser = {chaser[n-2:0], !chaser[n-1]}
//	          pads = chaser
//
type Chaser struct {
	*hwsoc.Module
	Pads []*hwsoc.Signal
	// Chaser is the n bit Johnson counter, n being the total width of Pads.
	Chaser *hwsoc.Signal
	// Timer counts down from Cycles-1 to 0 in the given domain.
	Timer  *hwsoc.Signal
	Done   *hwsoc.Signal
	Cycles uint64
}

// NewChaser returns a new LED chaser running in the sys clock domain at
// sysClkFreq Hz.
//
func NewChaser(pads []*hwsoc.Signal, sysClkFreq int64, period time.Duration) (*Chaser, error) {
	return NewChaserDomain("sys", pads, sysClkFreq, period)
}

// NewChaserDomain is like NewChaser for an arbitrary clock domain.
//
func NewChaserDomain(domain string, pads []*hwsoc.Signal, clkFreq int64, period time.Duration) (*Chaser, error) {
	if len(pads) == 0 {
		return nil, errors.New("led chaser: no pads")
	}
	if clkFreq <= 0 || period <= 0 {
		return nil, errors.Errorf("led chaser: invalid clock frequency %d or period %v", clkFreq, period)
	}
	n := 0
	for _, p := range pads {
		n += p.Width()
	}
	if n > hwsoc.MaxWidth {
		return nil, errors.Errorf("led chaser: %d pad bits, maximum is %d", n, hwsoc.MaxWidth)
	}

	cycles := uint64(clkFreq) * uint64(period) / uint64(time.Second) / uint64(2*n)
	if cycles == 0 {
		cycles = 1
	}
	tw := bits.Len64(cycles - 1)
	if tw == 0 {
		tw = 1
	}

	m := hwsoc.NewModule("leds")
	c := &Chaser{
		Module: m,
		Pads:   pads,
		Chaser: hwsoc.NewSignal("chaser", n),
		Timer:  hwsoc.NewSignal("timer", tw).WithReset(cycles - 1),
		Done:   hwsoc.NewSignal("done", 1),
		Cycles: cycles,
	}

	m.Comb(c.Done, hwsoc.Eq(c.Timer, hwsoc.C(0, tw)))
	m.Sync(domain, c.Timer, hwsoc.Mux(c.Done,
		hwsoc.Sub(c.Timer, hwsoc.C(1, tw)),
		hwsoc.C(cycles-1, tw)))

	var next hwsoc.Expr
	msb := hwsoc.Not(hwsoc.Bit(c.Chaser, n-1))
	if n == 1 {
		next = msb
	} else {
		next = hwsoc.Cat(msb, hwsoc.Bits(c.Chaser, 0, n-1))
	}
	m.Sync(domain, c.Chaser, hwsoc.Mux(c.Done, c.Chaser, next))

	off := 0
	for _, p := range pads {
		m.Comb(p, hwsoc.Bits(c.Chaser, off, off+p.Width()))
		off += p.Width()
	}
	return c, nil
}
