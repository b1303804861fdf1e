// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"strconv"

	"github.com/pkg/errors"
)

// Direction tells whether a signal is internal to the design or bound to
// a physical pad.
//
type Direction int

// Signal directions.
//
const (
	Internal Direction = iota
	PadIn              // driven by the board
	PadOut             // driven by the design, read by the board
)

func (d Direction) String() string {
	switch d {
	case PadIn:
		return "input"
	case PadOut:
		return "output"
	}
	return "internal"
}

// MaxWidth is the widest signal supported.
//
const MaxWidth = 64

// A Signal is a single or multi-bit value in a gateware description.
//
// A signal must be driven from exactly one place: a comb assignment, a set
// of sync assignments in a single clock domain, a macro instance output or,
// for PadIn signals, the board itself.
//
type Signal struct {
	name  string
	width int
	reset uint64
	dir   Direction
	open  bool
}

// NewSignal returns a new internal signal of the given width.
// It panics if width is not in the range [1, MaxWidth].
//
func NewSignal(name string, width int) *Signal {
	if width < 1 || width > MaxWidth {
		panic(errors.Errorf("invalid width %d for signal %q", width, name))
	}
	return &Signal{name: name, width: width}
}

// NewPad returns a new signal bound to a physical pad.
//
func NewPad(name string, width int, dir Direction) *Signal {
	s := NewSignal(name, width)
	s.dir = dir
	return s
}

// Open returns a discard marker for macro instance outputs that exist only
// to satisfy the instance port contract. Open signals cannot be consumed.
//
func Open(width int) *Signal {
	s := NewSignal("open", width)
	s.open = true
	return s
}

// WithReset sets the reset value of s and returns s. The reset value only
// matters for signals driven by sync assignments.
//
func (s *Signal) WithReset(v uint64) *Signal {
	s.reset = v & mask(s.width)
	return s
}

// Name returns the signal name. Names are not unique; elaboration takes care
// of disambiguation.
//
func (s *Signal) Name() string { return s.name }

// Width implements Expr.
//
func (s *Signal) Width() int { return s.width }

// Reset returns the reset value of s.
//
func (s *Signal) Reset() uint64 { return s.reset }

// Dir returns the signal direction.
//
func (s *Signal) Dir() Direction { return s.dir }

// IsOpen returns true if s is a discard marker.
//
func (s *Signal) IsOpen() bool { return s.open }

func (s *Signal) String() string {
	if s.width == 1 {
		return s.name
	}
	return s.name + "[" + strconv.Itoa(s.width) + "]"
}

func (s *Signal) eval(e env) uint64 { return e.value(s) }

func (s *Signal) visit(fn func(Expr)) { fn(s) }

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}
