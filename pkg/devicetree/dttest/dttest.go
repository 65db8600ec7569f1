// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dttest builds device tree blobs for tests.
package dttest

import (
	"encoding/binary"
	"strconv"

	"github.com/u-root/u-root/pkg/dt"
)

const (
	tokenBeginNode = 1
	tokenEndNode   = 2
	tokenProp      = 3
	tokenEnd       = 9

	headerSize = 40
	rsvmapSize = 16
)

// U32 returns a single cell property.
func U32(name string, v uint32) dt.Property {
	return Cells(name, v)
}

// Cells returns a property holding a list of cells.
func Cells(name string, v ...uint32) dt.Property {
	b := make([]byte, 4*len(v))
	for i, c := range v {
		binary.BigEndian.PutUint32(b[i*4:], c)
	}
	return dt.Property{Name: name, Value: b}
}

// Strings returns a NUL separated string list property.
func Strings(name string, v ...string) dt.Property {
	var b []byte
	for _, s := range v {
		b = append(b, s...)
		b = append(b, 0)
	}
	return dt.Property{Name: name, Value: b}
}

// Node returns a node with the given properties and children.
func Node(name string, props []dt.Property, children ...*dt.Node) *dt.Node {
	return &dt.Node{Name: name, Properties: props, Children: children}
}

type encoder struct {
	structs []byte
	strings []byte
	offsets map[string]uint32
}

func (e *encoder) u32(v uint32) {
	e.structs = binary.BigEndian.AppendUint32(e.structs, v)
}

func (e *encoder) pad() {
	for len(e.structs)%4 != 0 {
		e.structs = append(e.structs, 0)
	}
}

func (e *encoder) nameOff(name string) uint32 {
	if off, ok := e.offsets[name]; ok {
		return off
	}
	off := uint32(len(e.strings))
	e.strings = append(e.strings, name...)
	e.strings = append(e.strings, 0)
	e.offsets[name] = off
	return off
}

func (e *encoder) node(n *dt.Node) {
	e.u32(tokenBeginNode)
	e.structs = append(e.structs, n.Name...)
	e.structs = append(e.structs, 0)
	e.pad()
	for _, p := range n.Properties {
		e.u32(tokenProp)
		e.u32(uint32(len(p.Value)))
		e.u32(e.nameOff(p.Name))
		e.structs = append(e.structs, p.Value...)
		e.pad()
	}
	for _, c := range n.Children {
		e.node(c)
	}
	e.u32(tokenEndNode)
}

// Blob encodes root as a version 17 flattened device tree.
func Blob(root *dt.Node) []byte {
	e := &encoder{offsets: make(map[string]uint32)}
	e.node(root)
	e.u32(tokenEnd)

	offStruct := uint32(headerSize + rsvmapSize)
	offStrings := offStruct + uint32(len(e.structs))
	total := offStrings + uint32(len(e.strings))

	b := make([]byte, headerSize+rsvmapSize, total)
	be := binary.BigEndian
	be.PutUint32(b[0:], 0xd00dfeed)
	be.PutUint32(b[4:], total)
	be.PutUint32(b[8:], offStruct)
	be.PutUint32(b[12:], offStrings)
	be.PutUint32(b[16:], headerSize)
	be.PutUint32(b[20:], 17)
	be.PutUint32(b[24:], 16)
	be.PutUint32(b[28:], 0)
	be.PutUint32(b[32:], uint32(len(e.strings)))
	be.PutUint32(b[36:], uint32(len(e.structs)))
	b = append(b, e.structs...)
	b = append(b, e.strings...)
	return b
}

// ZynqMP returns a tree shaped like the ZynqMP board trees: an amba bus with
// two cells of address and size, one PS UART and a fixed reference clock.
// uartProps are appended to the UART node after compatible and reg.
func ZynqMP(base uint64, uartProps ...dt.Property) *dt.Node {
	uart := Node("serial@"+strconv.FormatUint(base, 16), append([]dt.Property{
		Strings("compatible", "cdns,uart-r1p12", "xlnx,xuartps"),
		Cells("reg", uint32(base>>32), uint32(base), 0, 0x1000),
	}, uartProps...))
	clk := Node("pss_ref_clk", []dt.Property{
		Strings("compatible", "fixed-clock"),
		U32("#clock-cells", 0),
		U32("clock-frequency", 100000000),
		U32("phandle", 3),
	})
	amba := Node("amba", []dt.Property{
		Strings("compatible", "simple-bus"),
		U32("#address-cells", 2),
		U32("#size-cells", 2),
	}, uart)
	return Node("", []dt.Property{
		Strings("compatible", "xlnx,zynqmp-zcu102", "xlnx,zynqmp"),
		U32("#address-cells", 2),
		U32("#size-cells", 2),
	}, clk, amba)
}
