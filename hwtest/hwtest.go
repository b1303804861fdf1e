// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing gateware.
//
package hwtest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/db47h/hwsoc"
)

// maxExhaustive is the maximum number of input bits tested exhaustively by
// ForAllInputs. Wider inputs are sampled at random.
//
const maxExhaustive = 12

// CheckWiring fails the test if the wiring of m is invalid.
//
func CheckWiring(t testing.TB, m *hwsoc.Module, pads ...*hwsoc.Signal) *hwsoc.Netlist {
	t.Helper()
	n := hwsoc.Flatten(m, pads...)
	if err := n.Check(); err != nil {
		t.Fatalf("wiring check failed: %v", err)
	}
	return n
}

// NewCircuit returns a new circuit for m or fails the test.
//
func NewCircuit(t testing.TB, m *hwsoc.Module, pads ...*hwsoc.Signal) *hwsoc.Circuit {
	t.Helper()
	c, err := hwsoc.NewCircuit(m, pads...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// Drivers returns the number of distinct drivers of s in n: each comb
// statement, each clock domain with sync statements to s and each instance
// output counts as one.
//
func Drivers(n *hwsoc.Netlist, s *hwsoc.Signal) int {
	cnt := 0
	for _, a := range n.Comb {
		if a.Dst == s {
			cnt++
		}
	}
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			if a.Dst == s {
				cnt++
				break
			}
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Outputs {
			if p.Signal == s {
				cnt++
			}
		}
	}
	return cnt
}

// Instances returns the instances of the named macro in n.
//
func Instances(n *hwsoc.Netlist, name string) []*hwsoc.Instance {
	var out []*hwsoc.Instance
	for _, inst := range n.Instances {
		if inst.Spec.Name == name {
			out = append(out, inst)
		}
	}
	return out
}

// CombSource returns the source expression of the comb statement driving s,
// or nil.
//
func CombSource(n *hwsoc.Netlist, s *hwsoc.Signal) hwsoc.Expr {
	for _, a := range n.Comb {
		if a.Dst == s {
			return a.Src
		}
	}
	return nil
}

// ForAllInputs sets every combination of values of the given stimuli, lets
// the circuit settle and calls check with the values set. If the inputs are
// wider than 12 bits, 4096 random combinations are tested instead.
//
func ForAllInputs(t testing.TB, c *hwsoc.Circuit, inputs []*hwsoc.Signal, check func(vals []uint64)) {
	t.Helper()
	bits := 0
	for _, in := range inputs {
		bits += in.Width()
	}
	vals := make([]uint64, len(inputs))
	apply := func() {
		for i, in := range inputs {
			c.Set(in, vals[i])
		}
		if err := c.Settle(); err != nil {
			t.Fatal(err)
		}
		check(vals)
	}

	if bits <= maxExhaustive {
		for v := uint64(0); v < 1<<uint(bits); v++ {
			x := v
			for i, in := range inputs {
				w := uint(in.Width())
				vals[i] = x & (1<<w - 1)
				x >>= w
			}
			apply()
		}
		return
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for n := 0; n < 1<<maxExhaustive; n++ {
		for i, in := range inputs {
			vals[i] = r.Uint64() & (1<<uint(in.Width()) - 1)
		}
		apply()
	}
}
