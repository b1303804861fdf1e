// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package soc

import (
	"sort"

	"github.com/pkg/errors"
)

// IRQRegistrar is the capability handed to peripherals: register an
// interrupt line once, by peripheral name.
//
type IRQRegistrar interface {
	Add(name string, useLocIfExists bool) (int, error)
}

// IRQHandler is the interrupt registry of a SoC. It maps peripheral names to
// interrupt lines of the CPU.
//
type IRQHandler struct {
	n          int
	predefined map[string]int
	locs       map[string]int
	order      []string
}

func newIRQHandler(n int, predefined map[string]int) (*IRQHandler, error) {
	h := &IRQHandler{n: n, predefined: make(map[string]int), locs: make(map[string]int)}
	used := make(map[int]string)
	names := make([]string, 0, len(predefined))
	for name := range predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		loc := predefined[name]
		if n == 0 {
			return nil, errors.Errorf("irq map entry %q: no interrupt controller", name)
		}
		if loc < 0 || loc >= n {
			return nil, errors.Errorf("irq map entry %q: line %d out of range [0, %d)", name, loc, n)
		}
		if other, ok := used[loc]; ok {
			return nil, errors.Errorf("irq map entries %q and %q share line %d", other, name, loc)
		}
		used[loc] = name
		h.predefined[name] = loc
	}
	return h, nil
}

// Enabled returns true if the SoC has an interrupt controller.
//
func (h *IRQHandler) Enabled() bool { return h.n > 0 }

// Len returns the number of interrupt lines.
//
func (h *IRQHandler) Len() int { return h.n }

// Add registers the interrupt of the named peripheral and returns its line.
//
// If useLocIfExists is true and the IRQ map predefines a line for name, that
// line is used. Otherwise the lowest free line not reserved by the IRQ map is
// allocated. A name can only be registered once.
//
func (h *IRQHandler) Add(name string, useLocIfExists bool) (int, error) {
	if !h.Enabled() {
		return 0, errors.Errorf("irq %q: no interrupt controller", name)
	}
	if _, ok := h.locs[name]; ok {
		return 0, errors.Errorf("irq %q already registered", name)
	}
	if loc, ok := h.predefined[name]; ok && useLocIfExists {
		if other := h.owner(loc); other != "" {
			return 0, errors.Errorf("irq %q: line %d already used by %q", name, loc, other)
		}
		h.set(name, loc)
		return loc, nil
	}
	reserved := make(map[int]bool, len(h.predefined))
	for _, loc := range h.predefined {
		reserved[loc] = true
	}
	for loc := 0; loc < h.n; loc++ {
		if reserved[loc] || h.owner(loc) != "" {
			continue
		}
		h.set(name, loc)
		return loc, nil
	}
	return 0, errors.Errorf("irq %q: no free interrupt line", name)
}

func (h *IRQHandler) set(name string, loc int) {
	h.locs[name] = loc
	h.order = append(h.order, name)
}

func (h *IRQHandler) owner(loc int) string {
	for name, l := range h.locs {
		if l == loc {
			return name
		}
	}
	return ""
}

// Loc returns the line assigned to name.
//
func (h *IRQHandler) Loc(name string) (int, bool) {
	loc, ok := h.locs[name]
	return loc, ok
}

// Names returns the registered peripheral names in registration order.
//
func (h *IRQHandler) Names() []string {
	return append([]string(nil), h.order...)
}
