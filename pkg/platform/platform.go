// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform is what a board provides to the boot code.
package platform

import (
	"github.com/u-root/uzynq/pkg/boot"
	"github.com/u-root/uzynq/pkg/console"
)

type Platform interface {
	// Layout is the memory map the boot regions are carved from.
	Layout() boot.Layout
	// StaticConsole is the console used when the device tree is not
	// consulted.
	StaticConsole() console.Static
	InterruptController() boot.InterruptController
	Close()
}

// NewSequencer returns a sequencer with the board parts of p filled in.
func NewSequencer(p Platform) *boot.Sequencer {
	return &boot.Sequencer{
		Layout:              p.Layout(),
		InterruptController: p.InterruptController(),
	}
}
