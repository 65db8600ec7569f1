// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boot

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/u-root/uzynq/pkg/kernel"
)

const DefaultPageSize = 0x1000

// Region is a physical address range.
type Region struct {
	Base uintptr
	Len  uintptr
}

// End returns the first address past the region.
func (r Region) End() uintptr {
	return r.Base + r.Len
}

func (r Region) Overlaps(o Region) bool {
	return r.Base < o.End() && o.Base < r.End()
}

// Within reports whether r lies entirely inside o.
func (r Region) Within(o Region) bool {
	return r.Base >= o.Base && r.End() <= o.End()
}

func (r Region) String() string {
	return fmt.Sprintf("[%#x-%#x)", r.Base, r.End())
}

// Layout is the board memory map the boot regions are carved from.
type Layout struct {
	PageSize uintptr
	// Memory lists the ranges that are mapped and usable.
	Memory []Region
	// ImageEnd is the first byte after the loaded image. Page tables follow
	// it on the next page boundary.
	ImageEnd      uintptr
	PageTableSize uintptr
	Heap          Region
	// The boot stack grows down from StackTop.
	StackTop  uintptr
	StackSize uintptr
	// DTBBase is where the loader placed the device tree.
	DTBBase uintptr
}

// Regions are the memory regions set up at boot.
type Regions struct {
	PageTable Region
	Heap      Region
	BootStack Region
	DTB       Region
}

func alignUp(v, a uintptr) uintptr {
	return (v + a - 1) &^ (a - 1)
}

// ComputeRegions derives the boot regions from l and a device tree of
// dtbSize bytes, and validates them.
func ComputeRegions(l Layout, dtbSize uintptr) (Regions, error) {
	ps := l.PageSize
	if ps == 0 {
		ps = DefaultPageSize
	}
	if ps&(ps-1) != 0 {
		return Regions{}, kernel.Errorf(kernel.InvalidLayout, "boot", fmt.Sprintf("page size %#x is not a power of two", ps))
	}
	r := Regions{
		PageTable: Region{Base: alignUp(l.ImageEnd, ps), Len: alignUp(l.PageTableSize, ps)},
		Heap:      l.Heap,
		BootStack: Region{Base: l.StackTop - l.StackSize, Len: l.StackSize},
		DTB:       Region{Base: l.DTBBase, Len: dtbSize},
	}
	var result *multierror.Error
	if l.StackSize > l.StackTop {
		result = multierror.Append(result, kernel.Errorf(kernel.InvalidLayout, "boot",
			fmt.Sprintf("boot stack of %#x bytes does not fit below %#x", l.StackSize, l.StackTop)))
		r.BootStack = Region{Len: l.StackSize}
	}
	if err := r.Validate(l.Memory); err != nil {
		result = multierror.Append(result, err)
	}
	return r, result.ErrorOrNil()
}

type namedRegion struct {
	name string
	r    Region
}

func (r Regions) named() []namedRegion {
	return []namedRegion{
		{"page table", r.PageTable},
		{"heap", r.Heap},
		{"boot stack", r.BootStack},
		{"device tree", r.DTB},
	}
}

// Validate checks that the regions are non-empty, pairwise disjoint and
// each inside one of the memory ranges. Every violation is reported.
func (r Regions) Validate(memory []Region) error {
	var result *multierror.Error
	bad := func(format string, a ...interface{}) {
		result = multierror.Append(result, kernel.Errorf(kernel.InvalidLayout, "boot", fmt.Sprintf(format, a...)))
	}
	regions := r.named()
	for i, a := range regions {
		if a.r.Len == 0 {
			bad("%s is empty", a.name)
			continue
		}
		if a.r.End() < a.r.Base {
			bad("%s %#x+%#x wraps the address space", a.name, a.r.Base, a.r.Len)
			continue
		}
		mapped := false
		for _, m := range memory {
			if a.r.Within(m) {
				mapped = true
				break
			}
		}
		if !mapped {
			bad("%s %v is outside mapped memory", a.name, a.r)
		}
		for _, b := range regions[i+1:] {
			if b.r.Len != 0 && a.r.Overlaps(b.r) {
				bad("%s %v overlaps %s %v", a.name, a.r, b.name, b.r)
			}
		}
	}
	return result.ErrorOrNil()
}

// HeapUsed returns how much of the heap is in use when avail bytes remain.
func (r Regions) HeapUsed(avail uintptr) uintptr {
	return r.Heap.Len - avail
}

// StackUsed returns how deep the boot stack is with the stack pointer at sp.
func (r Regions) StackUsed(sp uintptr) uintptr {
	return r.BootStack.End() - sp
}
