// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package platform describes the physical resources of an FPGA board.
//
// Resources are grouped by name ("user_led", "user_btn_n", ...) and numbered
// within a group. Gateware requests them by name only; the pin mapping stays
// in the platform table.
//
package platform

import (
	"io"
	"sort"
	"strconv"

	"github.com/db47h/hwsoc"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Resource is a numbered member of a resource group, bound to one or
// more package pins.
//
type Resource struct {
	Name       string   `yaml:"name"`
	Number     int      `yaml:"number"`
	Pins       []string `yaml:"pins"`
	IOStandard string   `yaml:"iostandard,omitempty"`
	Dir        string   `yaml:"dir"`
}

// A Table lists all resources of a board.
//
type Table struct {
	Name    string     `yaml:"name"`
	Device  string     `yaml:"device"`
	Package string     `yaml:"package"`
	IO      []Resource `yaml:"io"`
}

// LoadTable decodes a YAML resource table. Unknown fields are rejected.
//
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Wrap(err, "decode platform table")
	}
	return &t, nil
}

// A Constraint binds one bit of a pad signal to a package pin.
//
type Constraint struct {
	Pad        *hwsoc.Signal
	Bit        int
	Pin        string
	IOStandard string
}

type resKey struct {
	name   string
	number int
}

// Platform hands out board resources as pad signals. Each resource can be
// requested only once.
//
type Platform struct {
	name    string
	device  string
	pkg     string
	io      []Resource
	claimed map[resKey]*hwsoc.Signal
	pads    []*hwsoc.Signal
	cs      []Constraint
}

// New returns a new Platform for the given resource table.
//
func New(t *Table) (*Platform, error) {
	if t.Name == "" || t.Device == "" {
		return nil, errors.New("platform table: missing name or device")
	}
	seen := make(map[resKey]bool, len(t.IO))
	res := make([]Resource, len(t.IO))
	copy(res, t.IO)
	for _, r := range res {
		k := resKey{r.Name, r.Number}
		if r.Name == "" {
			return nil, errors.Errorf("platform %s: resource with empty name", t.Name)
		}
		if seen[k] {
			return nil, errors.Errorf("platform %s: duplicate resource %s:%d", t.Name, r.Name, r.Number)
		}
		seen[k] = true
		if len(r.Pins) == 0 || len(r.Pins) > hwsoc.MaxWidth {
			return nil, errors.Errorf("platform %s: resource %s:%d has %d pins", t.Name, r.Name, r.Number, len(r.Pins))
		}
		if _, err := parseDir(r.Dir); err != nil {
			return nil, errors.Wrapf(err, "platform %s: resource %s:%d", t.Name, r.Name, r.Number)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].Number < res[j].Number
	})
	return &Platform{
		name:    t.Name,
		device:  t.Device,
		pkg:     t.Package,
		io:      res,
		claimed: make(map[resKey]*hwsoc.Signal),
	}, nil
}

func parseDir(d string) (hwsoc.Direction, error) {
	switch d {
	case "in":
		return hwsoc.PadIn, nil
	case "out":
		return hwsoc.PadOut, nil
	}
	return hwsoc.Internal, errors.Errorf("invalid direction %q", d)
}

// Name returns the board name.
//
func (p *Platform) Name() string { return p.name }

// Device returns the FPGA device name.
//
func (p *Platform) Device() string { return p.device }

// Package returns the FPGA package name.
//
func (p *Platform) Package() string { return p.pkg }

func (p *Platform) claim(r Resource) *hwsoc.Signal {
	dir, _ := parseDir(r.Dir)
	s := hwsoc.NewPad(r.Name+strconv.Itoa(r.Number), len(r.Pins), dir)
	p.claimed[resKey{r.Name, r.Number}] = s
	p.pads = append(p.pads, s)
	for i, pin := range r.Pins {
		p.cs = append(p.cs, Constraint{Pad: s, Bit: i, Pin: pin, IOStandard: r.IOStandard})
	}
	return s
}

// Request returns the pad signal for the lowest numbered unclaimed resource
// of the named group. Requesting a group the board does not define, or a
// group already fully claimed, is a configuration error.
//
func (p *Platform) Request(name string) (*hwsoc.Signal, error) {
	found := false
	for _, r := range p.io {
		if r.Name != name {
			continue
		}
		found = true
		if p.claimed[resKey{r.Name, r.Number}] == nil {
			return p.claim(r), nil
		}
	}
	if !found {
		return nil, hwsoc.ConfigError("platform.request", "resource %q not defined on %s", name, p.name)
	}
	return nil, hwsoc.ConfigError("platform.request", "all %q resources already requested", name)
}

// RequestAll returns the pad signals of all unclaimed resources of the named
// group, ordered by resource number.
//
func (p *Platform) RequestAll(name string) ([]*hwsoc.Signal, error) {
	var out []*hwsoc.Signal
	found := false
	for _, r := range p.io {
		if r.Name != name {
			continue
		}
		found = true
		if p.claimed[resKey{r.Name, r.Number}] == nil {
			out = append(out, p.claim(r))
		}
	}
	if !found {
		return nil, hwsoc.ConfigError("platform.request_all", "resource %q not defined on %s", name, p.name)
	}
	if len(out) == 0 {
		return nil, hwsoc.ConfigError("platform.request_all", "all %q resources already requested", name)
	}
	return out, nil
}

// Pads returns all pad signals requested so far, in request order.
//
func (p *Platform) Pads() []*hwsoc.Signal {
	return p.pads
}

// Constraints returns the pin constraints of all requested pads.
//
func (p *Platform) Constraints() []Constraint {
	return p.cs
}
