// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/u-root/uzynq/pkg/boot"
	"github.com/u-root/uzynq/pkg/console"
	"github.com/u-root/uzynq/pkg/logger"
	uplatform "github.com/u-root/uzynq/pkg/platform"
)

var log = logger.LogContainer.GetSimpleLogger()

// ZCU102 evaluation board, Zynq UltraScale+ XCZU9EG.
const (
	DDRBase = 0x00000000
	// The top 1 MiB of the low DDR window is reserved for the PMU firmware.
	DDRSize = 0x7ff00000

	OCMBase = 0xfffc0000
	OCMHigh = 0xffffffff

	UART0 = 0xff000000
	UART1 = 0xff010000

	// uart_ref_clk as set up by the FSBL for a 33.333 MHz PS_REF_CLK.
	UARTRefClockHz = 99999001
	ConsoleBaud    = 115200

	// Where U-Boot leaves the device tree.
	DTBBase = 0x00100000

	imageEnd      = 0x04000000
	pageTableSize = 0x00100000
	heapBase      = 0x10000000
	heapSize      = 0x10000000
	stackTop      = OCMHigh - 0xfff
	stackSize     = 0x4000
)

var _ uplatform.Platform = (*platform)(nil)

type platform struct {
	fs afero.Fs
}

func Platform() *platform {
	return &platform{fs: afero.NewOsFs()}
}

// Layout returns the memory map used for the boot regions.
func (p *platform) Layout() boot.Layout {
	return boot.Layout{
		PageSize: boot.DefaultPageSize,
		Memory: []boot.Region{
			{Base: DDRBase, Len: DDRSize},
			{Base: OCMBase, Len: OCMHigh - OCMBase + 1},
		},
		ImageEnd:      imageEnd,
		PageTableSize: pageTableSize,
		Heap:          boot.Region{Base: heapBase, Len: heapSize},
		StackTop:      stackTop,
		StackSize:     stackSize,
		DTBBase:       DTBBase,
	}
}

// StaticConsole is UART0 as wired to the USB-UART bridge.
func (p *platform) StaticConsole() console.Static {
	return console.Static{Base: UART0, Baud: ConsoleBaud, ClockHz: UARTRefClockHz}
}

// InterruptController returns the GIC-400. Linux owns it, so initializing
// it means checking that the kernel has it running.
func (p *platform) InterruptController() boot.InterruptController {
	return &gic{fs: p.fs}
}

func (p *platform) Close() {
}

type gic struct {
	fs afero.Fs
}

func (g *gic) Init() error {
	b, err := afero.ReadFile(g.fs, "/proc/interrupts")
	if err != nil {
		return err
	}
	lines := 0
	for _, l := range strings.Split(string(b), "\n") {
		if strings.Contains(l, "GIC") {
			lines++
		}
	}
	if lines == 0 {
		return fmt.Errorf("no GIC interrupts registered")
	}
	log.Infof("GIC up with %d interrupt lines in use", lines)
	return nil
}
