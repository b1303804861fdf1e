// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package verilog elaborates a netlist into a Verilog module.
//
package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/db47h/hwsoc"
	"github.com/pkg/errors"
)

var keywords = map[string]bool{
	"always": true, "assign": true, "begin": true, "end": true, "input": true,
	"output": true, "module": true, "endmodule": true, "reg": true, "wire": true,
	"if": true, "else": true, "posedge": true, "negedge": true, "inout": true,
}

// namer assigns unique Verilog identifiers to signals.
//
type namer struct {
	names map[*hwsoc.Signal]string
	used  map[string]int
}

func newNamer() *namer {
	return &namer{names: make(map[*hwsoc.Signal]string), used: make(map[string]int)}
}

func (n *namer) unique(base string) string {
	if base == "" {
		base = "sig"
	}
	if keywords[base] {
		base += "_"
	}
	cnt, ok := n.used[base]
	n.used[base] = cnt + 1
	if !ok {
		return base
	}
	name := base + "_" + strconv.Itoa(cnt)
	for n.used[name] > 0 {
		cnt++
		name = base + "_" + strconv.Itoa(cnt)
	}
	n.used[name] = 1
	n.used[base] = cnt + 1
	return name
}

func (n *namer) add(s *hwsoc.Signal) string {
	if name, ok := n.names[s]; ok {
		return name
	}
	name := n.unique(s.Name())
	n.names[s] = name
	return name
}

type kind int

const (
	kWire kind = iota
	kReg
)

type emitter struct {
	n     *hwsoc.Netlist
	names *namer
	kinds map[*hwsoc.Signal]kind
	order []*hwsoc.Signal
	temps bytes.Buffer
	tmpN  int
	err   error
}

func (e *emitter) declare(s *hwsoc.Signal, k kind) {
	if s == nil || s.IsOpen() {
		return
	}
	if _, ok := e.kinds[s]; ok {
		return
	}
	e.names.add(s)
	e.kinds[s] = k
	e.order = append(e.order, s)
}

func (e *emitter) name(s *hwsoc.Signal) string {
	if _, ok := e.kinds[s]; !ok {
		e.declare(s, kWire)
	}
	return e.names.names[s]
}

func width(w int) string {
	if w == 1 {
		return ""
	}
	return "[" + strconv.Itoa(w-1) + ":0] "
}

func (e *emitter) expr(x hwsoc.Expr) string {
	switch x := x.(type) {
	case *hwsoc.Signal:
		if x.IsOpen() {
			e.setErr(errors.New("open signal used in expression"))
		}
		return e.name(x)
	case hwsoc.Const:
		return strconv.Itoa(x.Bits) + "'d" + strconv.FormatUint(x.Value, 10)
	case hwsoc.DomainSignal:
		cd := e.n.Domain(x.Domain)
		if cd == nil {
			e.setErr(errors.New("unknown clock domain " + x.Domain))
			return "1'd0"
		}
		if x.Reset {
			return e.name(cd.Rst)
		}
		return e.name(cd.Clk)
	case hwsoc.Slice:
		var base string
		if s, ok := x.X.(*hwsoc.Signal); ok {
			if s.Width() == 1 {
				return e.name(s)
			}
			base = e.name(s)
		} else {
			base = e.temp(x.X)
		}
		if x.Width() == 1 {
			return base + "[" + strconv.Itoa(x.Lo) + "]"
		}
		return base + "[" + strconv.Itoa(x.Hi-1) + ":" + strconv.Itoa(x.Lo) + "]"
	case *hwsoc.Op:
		return e.op(x)
	}
	e.setErr(errors.Errorf("unsupported expression %T", x))
	return ""
}

func (e *emitter) op(o *hwsoc.Op) string {
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		args[i] = e.expr(a)
	}
	switch o.Kind {
	case hwsoc.OpOr:
		return "(" + strings.Join(args, " | ") + ")"
	case hwsoc.OpAnd:
		return "(" + strings.Join(args, " & ") + ")"
	case hwsoc.OpXor:
		return "(" + strings.Join(args, " ^ ") + ")"
	case hwsoc.OpNot:
		return "(~" + args[0] + ")"
	case hwsoc.OpAdd:
		return "(" + args[0] + " + " + args[1] + ")"
	case hwsoc.OpSub:
		return "(" + args[0] + " - " + args[1] + ")"
	case hwsoc.OpEq:
		return "(" + args[0] + " == " + args[1] + ")"
	case hwsoc.OpMux:
		return "(" + args[0] + " ? " + args[2] + " : " + args[1] + ")"
	case hwsoc.OpCat:
		for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
			args[i], args[j] = args[j], args[i]
		}
		return "{" + strings.Join(args, ", ") + "}"
	}
	e.setErr(errors.Errorf("unsupported operator %v", o.Kind))
	return ""
}

// temp hoists x into a temporary wire so that it can be sliced.
//
func (e *emitter) temp(x hwsoc.Expr) string {
	v := e.expr(x)
	name := e.names.unique("__t" + strconv.Itoa(e.tmpN))
	e.tmpN++
	fmt.Fprintf(&e.temps, "wire %s%s = %s;\n", width(x.Width()), name, v)
	return name
}

func (e *emitter) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Write elaborates n into a Verilog module written to w. The netlist should
// have been checked with Check beforehand; ident is written as a header
// comment.
//
func Write(w io.Writer, n *hwsoc.Netlist, ident string) error {
	e := &emitter{n: n, names: newNamer(), kinds: make(map[*hwsoc.Signal]kind)}

	// pads first, so that they keep their name.
	syncDriven := make(map[*hwsoc.Signal]bool)
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			syncDriven[a.Dst] = true
		}
	}
	for _, p := range n.Pads {
		if syncDriven[p] {
			e.declare(p, kReg)
		} else {
			e.declare(p, kWire)
		}
	}
	for _, d := range n.Domains {
		e.declare(d.Clk, kWire)
		e.declare(d.Rst, kWire)
	}
	for _, a := range n.Comb {
		e.declare(a.Dst, kWire)
	}
	for _, b := range n.Sync {
		for _, a := range b.Stmts {
			e.declare(a.Dst, kReg)
		}
	}
	for _, inst := range n.Instances {
		for _, p := range inst.Outputs {
			e.declare(p.Signal, kWire)
		}
	}

	var body bytes.Buffer
	for _, a := range n.Comb {
		fmt.Fprintf(&body, "assign %s = %s;\n", e.name(a.Dst), e.expr(a.Src))
	}
	for _, b := range n.Sync {
		cd := n.Domain(b.Domain)
		if cd == nil {
			return errors.New("sync statements in unknown clock domain " + b.Domain)
		}
		fmt.Fprintf(&body, "\nalways @(posedge %s) begin\n", e.name(cd.Clk))
		var regs []*hwsoc.Signal
		seen := make(map[*hwsoc.Signal]bool)
		for _, a := range b.Stmts {
			fmt.Fprintf(&body, "\t%s <= %s;\n", e.name(a.Dst), e.expr(a.Src))
			if !seen[a.Dst] {
				seen[a.Dst] = true
				regs = append(regs, a.Dst)
			}
		}
		fmt.Fprintf(&body, "\tif (%s) begin\n", e.name(cd.Rst))
		for _, r := range regs {
			fmt.Fprintf(&body, "\t\t%s <= %d'd%d;\n", e.name(r), r.Width(), r.Reset())
		}
		body.WriteString("\tend\nend\n")
	}
	insts := newNamer()
	for _, inst := range n.Instances {
		fmt.Fprintf(&body, "\n%s %s(\n", inst.Spec.Name, insts.unique(inst.Spec.Name))
		var conns []string
		for _, p := range inst.Inputs {
			if p.Expr == nil {
				return errors.New("instance " + inst.Spec.Name + ": input " + p.Name + " not connected")
			}
			conns = append(conns, "\t."+p.Name+"("+e.expr(p.Expr)+")")
		}
		for _, p := range inst.Outputs {
			switch {
			case p.Signal == nil:
				return errors.New("instance " + inst.Spec.Name + ": output " + p.Name + " not connected")
			case p.Signal.IsOpen():
				conns = append(conns, "\t."+p.Name+"()")
			default:
				conns = append(conns, "\t."+p.Name+"("+e.name(p.Signal)+")")
			}
		}
		body.WriteString(strings.Join(conns, ",\n"))
		body.WriteString("\n);\n")
	}
	if e.err != nil {
		return e.err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "/* Machine-generated. %s */\n\n", ident)
	var ports []string
	for _, p := range n.Pads {
		dir := "input wire"
		if p.Dir() == hwsoc.PadOut {
			dir = "output wire"
			if e.kinds[p] == kReg {
				dir = "output reg"
			}
		}
		ports = append(ports, "\t"+dir+" "+width(p.Width())+e.name(p))
	}
	fmt.Fprintf(&out, "module %s(\n%s\n);\n\n", n.Name, strings.Join(ports, ",\n"))
	isPad := make(map[*hwsoc.Signal]bool, len(n.Pads))
	for _, p := range n.Pads {
		isPad[p] = true
	}
	for _, s := range e.order {
		if isPad[s] {
			continue
		}
		if e.kinds[s] == kReg {
			fmt.Fprintf(&out, "reg %s%s = %d'd%d;\n", width(s.Width()), e.name(s), s.Width(), s.Reset())
		} else {
			fmt.Fprintf(&out, "wire %s%s;\n", width(s.Width()), e.name(s))
		}
	}
	out.WriteByte('\n')
	out.Write(e.temps.Bytes())
	out.Write(body.Bytes())
	out.WriteString("\nendmodule\n")

	_, err := w.Write(out.Bytes())
	return errors.Wrap(err, "write verilog")
}

// PadNames returns the Verilog identifiers Write assigns to the pads of n.
// Pad names only depend on the pad list.
//
func PadNames(n *hwsoc.Netlist) map[*hwsoc.Signal]string {
	nm := newNamer()
	for _, p := range n.Pads {
		nm.add(p)
	}
	return nm.names
}
