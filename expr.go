// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"github.com/pkg/errors"
)

// An Expr is a value computed from signals and constants.
//
// The set of expressions is closed: use the constructors in this package
// (Or, And, Not, Cat, Mux, ...) to build them.
//
type Expr interface {
	Width() int
	eval(e env) uint64
	visit(fn func(Expr))
}

// env provides signal values and clock domain lookup to expression evaluation.
//
type env interface {
	value(s *Signal) uint64
	domain(name string) *ClockDomain
}

// Const is a constant value.
//
type Const struct {
	Value uint64
	Bits  int
}

// C returns a constant of the given width. The value is truncated to width.
//
func C(v uint64, width int) Const {
	if width < 1 || width > MaxWidth {
		panic(errors.Errorf("invalid constant width %d", width))
	}
	return Const{v & mask(width), width}
}

// Width implements Expr.
//
func (c Const) Width() int { return c.Bits }

func (c Const) eval(env) uint64 { return c.Value }

func (c Const) visit(fn func(Expr)) { fn(c) }

// OpKind identifies an operator.
//
type OpKind int

// Operators.
//
const (
	OpOr OpKind = iota
	OpAnd
	OpXor
	OpNot
	OpAdd
	OpSub
	OpEq
	OpMux // Args: sel, a (sel == 0), b (sel != 0)
	OpCat // Args: lsb first
)

var opNames = [...]string{"or", "and", "xor", "not", "add", "sub", "eq", "mux", "cat"}

func (k OpKind) String() string { return opNames[k] }

// An Op applies an operator to its arguments.
//
type Op struct {
	Kind  OpKind
	Args  []Expr
	width int
}

// Width implements Expr.
//
func (o *Op) Width() int { return o.width }

func (o *Op) visit(fn func(Expr)) {
	fn(o)
	for _, a := range o.Args {
		a.visit(fn)
	}
}

func (o *Op) eval(e env) uint64 {
	var v uint64
	switch o.Kind {
	case OpOr:
		for _, a := range o.Args {
			v |= a.eval(e)
		}
	case OpAnd:
		v = ^uint64(0)
		for _, a := range o.Args {
			v &= a.eval(e)
		}
	case OpXor:
		for _, a := range o.Args {
			v ^= a.eval(e)
		}
	case OpNot:
		v = ^o.Args[0].eval(e)
	case OpAdd:
		v = o.Args[0].eval(e) + o.Args[1].eval(e)
	case OpSub:
		v = o.Args[0].eval(e) - o.Args[1].eval(e)
	case OpEq:
		if o.Args[0].eval(e) == o.Args[1].eval(e) {
			v = 1
		}
	case OpMux:
		if o.Args[0].eval(e) != 0 {
			v = o.Args[2].eval(e)
		} else {
			v = o.Args[1].eval(e)
		}
	case OpCat:
		shift := 0
		for _, a := range o.Args {
			v |= a.eval(e) << uint(shift)
			shift += a.Width()
		}
	}
	return v & mask(o.width)
}

func maxWidth(es []Expr) int {
	w := 0
	for _, e := range es {
		if e.Width() > w {
			w = e.Width()
		}
	}
	return w
}

func newOp(k OpKind, width int, args ...Expr) *Op {
	for _, a := range args {
		if a == nil {
			panic(errors.Errorf("nil argument to %s", k))
		}
	}
	return &Op{Kind: k, Args: args, width: width}
}

func bitwise(k OpKind, a Expr, more []Expr) *Op {
	args := append([]Expr{a}, more...)
	return newOp(k, maxWidth(args), args...)
}

// Or returns the bitwise OR of its arguments.
//
func Or(a Expr, more ...Expr) Expr { return bitwise(OpOr, a, more) }

// And returns the bitwise AND of its arguments.
//
func And(a Expr, more ...Expr) Expr { return bitwise(OpAnd, a, more) }

// Xor returns the bitwise XOR of its arguments.
//
func Xor(a Expr, more ...Expr) Expr { return bitwise(OpXor, a, more) }

// Not returns the bitwise complement of a.
//
func Not(a Expr) Expr { return newOp(OpNot, a.Width(), a) }

// Add returns a + b, truncated to the widest operand.
//
func Add(a, b Expr) Expr { return newOp(OpAdd, maxWidth([]Expr{a, b}), a, b) }

// Sub returns a - b, truncated to the widest operand.
//
func Sub(a, b Expr) Expr { return newOp(OpSub, maxWidth([]Expr{a, b}), a, b) }

// Eq returns 1 if a == b.
//
func Eq(a, b Expr) Expr { return newOp(OpEq, 1, a, b) }

// Mux returns b if sel is non-zero, a otherwise.
//
func Mux(sel, a, b Expr) Expr { return newOp(OpMux, maxWidth([]Expr{a, b}), sel, a, b) }

// Cat concatenates its arguments, the first one being the least significant.
//
func Cat(parts ...Expr) Expr {
	w := 0
	for _, p := range parts {
		w += p.Width()
	}
	if len(parts) == 0 || w > MaxWidth {
		panic(errors.Errorf("invalid concatenation width %d", w))
	}
	return newOp(OpCat, w, parts...)
}

// A Slice selects bits [Lo, Hi) of X.
//
type Slice struct {
	X      Expr
	Lo, Hi int
}

// Bits returns x[lo:hi].
//
func Bits(x Expr, lo, hi int) Slice {
	if lo < 0 || hi > x.Width() || lo >= hi {
		panic(errors.Errorf("invalid slice [%d:%d] of %d bits", lo, hi, x.Width()))
	}
	return Slice{x, lo, hi}
}

// Bit returns x[n].
//
func Bit(x Expr, n int) Slice { return Bits(x, n, n+1) }

// Width implements Expr.
//
func (s Slice) Width() int { return s.Hi - s.Lo }

func (s Slice) eval(e env) uint64 {
	return s.X.eval(e) >> uint(s.Lo) & mask(s.Width())
}

func (s Slice) visit(fn func(Expr)) {
	fn(s)
	s.X.visit(fn)
}

// A DomainSignal refers to the clock or reset signal of a clock domain by
// name. It is resolved during elaboration, so the domain may be declared by
// any module in the design.
//
type DomainSignal struct {
	Domain string
	Reset  bool
}

// ClockSignal returns a reference to the clock of the named domain.
//
func ClockSignal(domain string) DomainSignal { return DomainSignal{Domain: domain} }

// ResetSignal returns a reference to the reset of the named domain.
//
func ResetSignal(domain string) DomainSignal { return DomainSignal{Domain: domain, Reset: true} }

// Width implements Expr.
//
func (d DomainSignal) Width() int { return 1 }

func (d DomainSignal) eval(e env) uint64 {
	cd := e.domain(d.Domain)
	if cd == nil {
		return 0
	}
	if d.Reset {
		return e.value(cd.Rst)
	}
	return e.value(cd.Clk)
}

func (d DomainSignal) visit(fn func(Expr)) { fn(d) }

// Walk calls fn for every node of x, depth first.
//
func Walk(x Expr, fn func(Expr)) { x.visit(fn) }
