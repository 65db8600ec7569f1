// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package console finds the PS UART that serves as the boot console and
// describes it well enough to bring the driver up.
package console

import (
	"fmt"

	"github.com/u-root/u-root/pkg/dt"
	"github.com/u-root/uzynq/pkg/devicetree"
	"github.com/u-root/uzynq/pkg/kernel"
)

const (
	Compatible  = "xlnx,xuartps"
	DefaultBaud = 115200
)

// State describes the console. It is filled in once during boot and only
// read afterwards.
type State struct {
	Base uintptr
	// Set once the driver has been brought up.
	Initialized bool
	Baud        uint32
	ClockHz     uint32
}

func (s State) String() string {
	return fmt.Sprintf("xuartps@%#x %d baud, uart_ref_clk %d Hz", s.Base, s.Baud, s.ClockHz)
}

func errorf(kind kernel.Kind, format string, a ...interface{}) error {
	return kernel.Errorf(kind, "console", fmt.Sprintf(format, a...))
}

// Discover locates the first PS UART in the tree and returns its register
// base, line rate and reference clock frequency. It does not touch hardware.
func Discover(t *devicetree.Tree) (State, error) {
	n, ok := t.FindCompatible(Compatible)
	if !ok {
		return State{}, errorf(kernel.DeviceNotFound, "no node compatible with %q", Compatible)
	}
	path := t.Path(n)

	base, err := regBase(t, n)
	if err != nil {
		return State{}, errorf(kernel.MalformedDescription, "%s: %v", path, err)
	}

	baud, ok, err := devicetree.U32(n, "current-speed")
	switch {
	case err != nil:
		return State{}, errorf(kernel.MalformedDescription, "%s: %v", path, err)
	case !ok:
		baud = DefaultBaud
	case baud == 0:
		return State{}, errorf(kernel.MalformedDescription, "%s: current-speed is 0", path)
	}

	clk, err := clockFrequency(t, n)
	if err != nil {
		return State{}, err
	}

	return State{Base: base, Baud: baud, ClockHz: clk}, nil
}

func regBase(t *devicetree.Tree, n *dt.Node) (uintptr, error) {
	ac, err := t.AddressCells(n)
	if err != nil {
		return 0, err
	}
	sc, err := t.SizeCells(n)
	if err != nil {
		return 0, err
	}
	if ac < 1 || ac > 2 {
		return 0, fmt.Errorf("unsupported #address-cells %d", ac)
	}
	if sc > 2 {
		return 0, fmt.Errorf("unsupported #size-cells %d", sc)
	}
	reg, ok, err := devicetree.Cells(n, "reg")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("no reg property")
	}
	if uint32(len(reg)) < ac+sc {
		return 0, fmt.Errorf("reg has %d cells, need %d", len(reg), ac+sc)
	}
	var base uint64
	for _, c := range reg[:ac] {
		base = base<<32 | uint64(c)
	}
	if uint64(uintptr(base)) != base {
		return 0, fmt.Errorf("base %#x is not addressable", base)
	}
	return uintptr(base), nil
}

// clockFrequency follows the first clocks phandle. Only fixed clocks
// (#clock-cells = <0>) are understood.
func clockFrequency(t *devicetree.Tree, n *dt.Node) (uint32, error) {
	path := t.Path(n)
	ph, ok, err := devicetree.U32(n, "clocks")
	if err != nil || !ok {
		return 0, errorf(kernel.ClockNotFound, "%s: no usable clocks property", path)
	}
	clk, ok := t.FindPhandle(ph)
	if !ok {
		return 0, errorf(kernel.ClockNotFound, "%s: clock phandle %#x does not resolve", path, ph)
	}
	cpath := t.Path(clk)
	cells, ok, err := devicetree.U32(clk, "#clock-cells")
	if err != nil {
		return 0, errorf(kernel.MalformedDescription, "%s: %v", cpath, err)
	}
	if !ok {
		return 0, errorf(kernel.MalformedDescription, "%s: no #clock-cells", cpath)
	}
	if cells != 0 {
		return 0, errorf(kernel.UnsupportedClockTopology, "%s: #clock-cells is %d, only fixed clocks are supported", cpath, cells)
	}
	hz, ok, err := devicetree.U32(clk, "clock-frequency")
	if err != nil || !ok {
		return 0, errorf(kernel.MalformedDescription, "%s: no usable clock-frequency", cpath)
	}
	return hz, nil
}
