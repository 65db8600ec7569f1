// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package console

import (
	"github.com/u-root/uzynq/pkg/devicetree"
)

// Source produces the console description for a boot.
type Source interface {
	Console(t *devicetree.Tree) (State, error)
	String() string
}

// Discovered reads the console from the device tree.
type Discovered struct{}

func (Discovered) Console(t *devicetree.Tree) (State, error) {
	return Discover(t)
}

func (Discovered) String() string {
	return "devicetree"
}

// Static is a console fixed at build time, for boards whose tree does not
// describe the UART usefully.
type Static struct {
	Base    uintptr
	Baud    uint32
	ClockHz uint32
}

func (s Static) Console(*devicetree.Tree) (State, error) {
	return State{Base: s.Base, Baud: s.Baud, ClockHz: s.ClockHz}, nil
}

func (Static) String() string {
	return "static"
}
