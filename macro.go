// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsoc

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	signalType = reflect.TypeOf((*Signal)(nil))
	exprType   = reflect.TypeOf((*Expr)(nil)).Elem()
)

type macroPort struct {
	name  string
	field int
	in    bool
}

// A MacroSpec is the port contract of an opaque vendor primitive.
//
// Macro specs are built from a struct type whose fields are tagged with
// `hw:"in"` or `hw:"out"`. By default the port name is the field name. A
// specific port name can be forced by adding it in the tag:
// `hw:"out,Sys_Clk0"`. Output fields must be of type *Signal and input
// fields of type Expr or *Signal.
//
//	type cellPorts struct {
//		Clk *hwsoc.Signal `hw:"out,Sys_Clk0"`
//		Irq hwsoc.Expr    `hw:"in,FB_msg_out"`
//	}
//	var cell = hwsoc.MakeMacro("cell_macro", cellPorts{})
//
type MacroSpec struct {
	Name    string
	Inputs  []string
	Outputs []string
	typ     reflect.Type
	ports   []macroPort
}

// MakeMacro returns the MacroSpec for the struct type of ports.
// It panics if the type is not a struct or has unsupported tags or field
// types.
//
func MakeMacro(name string, ports interface{}) *MacroSpec {
	typ := reflect.TypeOf(ports)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for macro %q", k, name))
	}
	sp := &MacroSpec{Name: name, typ: typ}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		port := f.Name
		tv := strings.Split(tag, ",")
		if len(tv) > 1 && tv[1] != "" {
			port = tv[1]
		}
		switch tv[0] {
		case "in":
			if f.Type != exprType && f.Type != signalType {
				panic(errors.Errorf("unsupported type %q for input %q in %q", f.Type, f.Name, name))
			}
			sp.Inputs = append(sp.Inputs, port)
			sp.ports = append(sp.ports, macroPort{port, i, true})
		case "out":
			if f.Type != signalType {
				panic(errors.Errorf("unsupported type %q for output %q in %q", f.Type, f.Name, name))
			}
			sp.Outputs = append(sp.Outputs, port)
			sp.ports = append(sp.ports, macroPort{port, i, false})
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, name))
		}
	}
	return sp
}

// An InPort connects an instance input to an expression.
//
type InPort struct {
	Name string
	Expr Expr
}

// An OutPort connects an instance output to the signal it drives.
//
type OutPort struct {
	Name   string
	Signal *Signal
}

// An Instance is a macro instantiated in a design. Unconnected ports are
// kept as nil values and reported by Check.
//
type Instance struct {
	Spec    *MacroSpec
	Inputs  []InPort
	Outputs []OutPort
}

// Instantiate creates an instance of sp. ports must be a value (or pointer
// to a value) of the struct type sp was made from.
//
func (sp *MacroSpec) Instantiate(ports interface{}) *Instance {
	v := reflect.ValueOf(ports)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Type() != sp.typ {
		panic(errors.Errorf("cannot instantiate %q with ports of type %q", sp.Name, v.Type()))
	}
	inst := &Instance{Spec: sp}
	for _, p := range sp.ports {
		fv := v.Field(p.field)
		if p.in {
			var x Expr
			if !fv.IsNil() {
				x = fv.Interface().(Expr)
			}
			inst.Inputs = append(inst.Inputs, InPort{p.name, x})
		} else {
			inst.Outputs = append(inst.Outputs, OutPort{p.name, fv.Interface().(*Signal)})
		}
	}
	return inst
}

// Output returns the signal connected to the named output port, or nil.
//
func (inst *Instance) Output(name string) *Signal {
	for _, p := range inst.Outputs {
		if p.Name == name {
			return p.Signal
		}
	}
	return nil
}
