// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/u-root/uzynq/pkg/kernel"
)

var testLayout = Layout{
	Memory: []Region{
		{Base: 0, Len: 0x80000000},
		{Base: 0xfffc0000, Len: 0x40000},
	},
	ImageEnd:      0x00200123,
	PageTableSize: 0x2800,
	Heap:          Region{Base: 0x00400000, Len: 0x00100000},
	StackTop:      0xfffff000,
	StackSize:     0x2000,
	DTBBase:       0x00100000,
}

func TestComputeRegions(t *testing.T) {
	got, err := ComputeRegions(testLayout, 0x5000)
	if err != nil {
		t.Fatalf("ComputeRegions: %v", err)
	}
	want := Regions{
		PageTable: Region{Base: 0x00201000, Len: 0x3000},
		Heap:      Region{Base: 0x00400000, Len: 0x00100000},
		BootStack: Region{Base: 0xffffd000, Len: 0x2000},
		DTB:       Region{Base: 0x00100000, Len: 0x5000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeRegions mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeRegionsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		layout func(l *Layout)
		dtb    uintptr
		errors int
	}{
		{
			name:   "heap under page table",
			layout: func(l *Layout) { l.Heap.Base = 0x00202000 },
			dtb:    0x1000,
			errors: 1,
		},
		{
			name:   "stack outside memory",
			layout: func(l *Layout) { l.StackTop = 0xa0000000 },
			dtb:    0x1000,
			errors: 1,
		},
		{
			name:   "empty device tree",
			layout: func(l *Layout) {},
			dtb:    0,
			errors: 1,
		},
		{
			name: "everything at once",
			layout: func(l *Layout) {
				l.DTBBase = 0x00400800
				l.Heap.Len = 0
				l.StackTop = 0x00201800
			},
			dtb: 0x1000,
			// Empty heap, page table/stack overlap.
			errors: 2,
		},
		{
			name:   "stack larger than address",
			layout: func(l *Layout) { l.StackTop = 0x1000 },
			dtb:    0x1000,
			errors: 1,
		},
		{
			name:   "odd page size",
			layout: func(l *Layout) { l.PageSize = 0x1800 },
			dtb:    0x1000,
			errors: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLayout
			tt.layout(&l)
			_, err := ComputeRegions(l, tt.dtb)
			if !errors.Is(err, kernel.InvalidLayout) {
				t.Fatalf("ComputeRegions = %v, want %v", err, kernel.InvalidLayout)
			}
			var merr *multierror.Error
			n := 1
			if errors.As(err, &merr) {
				n = len(merr.Errors)
			}
			if n != tt.errors {
				t.Errorf("got %d violations, want %d: %v", n, tt.errors, err)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	r, err := ComputeRegions(testLayout, 0x1000)
	if err != nil {
		t.Fatalf("ComputeRegions: %v", err)
	}
	if got := r.HeapUsed(0x40000); got != 0xc0000 {
		t.Errorf("HeapUsed = %#x, want 0xc0000", got)
	}
	if got := r.StackUsed(0xffffe800); got != 0x800 {
		t.Errorf("StackUsed = %#x, want 0x800", got)
	}
}

func TestRegion(t *testing.T) {
	a := Region{Base: 0x1000, Len: 0x1000}
	if a.Overlaps(Region{Base: 0x2000, Len: 0x1000}) {
		t.Errorf("adjacent regions overlap")
	}
	if !a.Overlaps(Region{Base: 0x1fff, Len: 1}) {
		t.Errorf("last byte does not overlap")
	}
	if !a.Within(Region{Base: 0x1000, Len: 0x1000}) {
		t.Errorf("region not within itself")
	}
	if a.Within(Region{Base: 0x1001, Len: 0x2000}) {
		t.Errorf("region within a range starting after it")
	}
}
