// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package devicetree provides the node and property lookups the boot path
// needs on top of a parsed flattened device tree.
//
// Parsing of the blob itself is done by the u-root dt package. This package
// adds header validation, an index for parent and phandle lookups, and typed
// property readers that follow the devicetree specification (cells are
// big-endian 32-bit words).
package devicetree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/u-root/u-root/pkg/dt"
	"github.com/u-root/uzynq/pkg/kernel"
)

const (
	Magic = 0xd00dfeed

	// Versions older than 16 store node names as full paths, which dt does
	// not handle.
	minVersion = 16
	// Newest layout this code understands.
	maxCompVersion = 17

	headerSize = 40

	// Defaults from the devicetree specification, section 2.3.5.
	DefaultAddressCells = 2
	DefaultSizeCells    = 1
)

// Tree is a parsed device tree with lookup indexes.
type Tree struct {
	fdt      *dt.FDT
	size     int
	parents  map[*dt.Node]*dt.Node
	phandles map[uint32]*dt.Node
}

func invalid(msg string) error {
	return kernel.Errorf(kernel.InvalidBlob, "devicetree", msg)
}

// CheckHeader validates the FDT header at the start of blob and returns the
// total size it declares.
func CheckHeader(blob []byte) (int, error) {
	if len(blob) < headerSize {
		return 0, invalid(fmt.Sprintf("blob too short for header: %d bytes", len(blob)))
	}
	be := binary.BigEndian
	if m := be.Uint32(blob[0:]); m != Magic {
		return 0, invalid(fmt.Sprintf("bad magic %#08x", m))
	}
	total := be.Uint32(blob[4:])
	if total < headerSize || uint64(total) > uint64(len(blob)) {
		return 0, invalid(fmt.Sprintf("total size %d does not fit blob of %d bytes", total, len(blob)))
	}
	offStruct := be.Uint32(blob[8:])
	offStrings := be.Uint32(blob[12:])
	if offStruct < headerSize || offStruct >= total || offStrings < headerSize || offStrings > total {
		return 0, invalid(fmt.Sprintf("block offsets %#x/%#x outside blob", offStruct, offStrings))
	}
	version := be.Uint32(blob[20:])
	lastComp := be.Uint32(blob[24:])
	if version < minVersion || lastComp > maxCompVersion {
		return 0, invalid(fmt.Sprintf("unsupported version %d (last compatible %d)", version, lastComp))
	}
	return int(total), nil
}

// Parse validates the header of blob and parses it.
func Parse(blob []byte) (*Tree, error) {
	total, err := CheckHeader(blob)
	if err != nil {
		return nil, err
	}
	fdt, err := dt.ReadFDT(bytes.NewReader(blob[:total]))
	if err != nil {
		return nil, invalid(err.Error())
	}
	if fdt.RootNode == nil {
		return nil, invalid("no root node")
	}
	t := New(fdt.RootNode)
	t.fdt = fdt
	t.size = total
	return t, nil
}

// ReadBlob reads a device tree blob from fs and validates its header.
func ReadBlob(fs afero.Fs, path string) ([]byte, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v", path, err)
	}
	if _, err := CheckHeader(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// New indexes a tree built in memory.
func New(root *dt.Node) *Tree {
	t := &Tree{
		fdt:      &dt.FDT{RootNode: root},
		parents:  make(map[*dt.Node]*dt.Node),
		phandles: make(map[uint32]*dt.Node),
	}
	t.index(root)
	return t
}

func (t *Tree) index(n *dt.Node) {
	for _, name := range []string{"phandle", "linux,phandle"} {
		if ph, ok, err := U32(n, name); ok && err == nil {
			if _, dup := t.phandles[ph]; !dup {
				t.phandles[ph] = n
			}
		}
	}
	for _, c := range n.Children {
		t.parents[c] = n
		t.index(c)
	}
}

// Root returns the root node.
func (t *Tree) Root() *dt.Node {
	return t.fdt.RootNode
}

// Size returns the total size of the blob the tree was parsed from, or 0 for
// trees built in memory.
func (t *Tree) Size() int {
	return t.size
}

// Walk visits every node depth-first in document order until f returns
// false.
func (t *Tree) Walk(f func(*dt.Node) bool) {
	var walk func(n *dt.Node) bool
	walk = func(n *dt.Node) bool {
		if !f(n) {
			return false
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(t.Root())
}

// FindCompatible returns the first node whose compatible list contains
// compat.
func (t *Tree) FindCompatible(compat string) (*dt.Node, bool) {
	var found *dt.Node
	t.Walk(func(n *dt.Node) bool {
		for _, c := range Strings(n, "compatible") {
			if c == compat {
				found = n
				return false
			}
		}
		return true
	})
	return found, found != nil
}

// FindPhandle resolves a phandle to its node.
func (t *Tree) FindPhandle(ph uint32) (*dt.Node, bool) {
	n, ok := t.phandles[ph]
	return n, ok
}

// Parent returns the parent of n. The root has no parent.
func (t *Tree) Parent(n *dt.Node) (*dt.Node, bool) {
	p, ok := t.parents[n]
	return p, ok
}

// Path returns the full path of n, for log messages.
func (t *Tree) Path(n *dt.Node) string {
	var parts []string
	for {
		p, ok := t.parents[n]
		if !ok {
			break
		}
		parts = append([]string{n.Name}, parts...)
		n = p
	}
	return "/" + strings.Join(parts, "/")
}

// AddressCells returns the number of cells that encode an address in the
// reg property of n. The value comes from the parent bus node.
func (t *Tree) AddressCells(n *dt.Node) (uint32, error) {
	return t.busCells(n, "#address-cells", DefaultAddressCells)
}

// SizeCells returns the number of cells that encode a length in the reg
// property of n.
func (t *Tree) SizeCells(n *dt.Node) (uint32, error) {
	return t.busCells(n, "#size-cells", DefaultSizeCells)
}

func (t *Tree) busCells(n *dt.Node, name string, def uint32) (uint32, error) {
	p, ok := t.Parent(n)
	if !ok {
		return def, nil
	}
	v, ok, err := U32(p, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Property returns the raw value of the named property.
func Property(n *dt.Node, name string) ([]byte, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// U32 reads the first cell of the named property.
func U32(n *dt.Node, name string) (uint32, bool, error) {
	v, ok := Property(n, name)
	if !ok {
		return 0, false, nil
	}
	if len(v) < 4 {
		return 0, true, fmt.Errorf("property %q: %d bytes, need 4", name, len(v))
	}
	return binary.BigEndian.Uint32(v), true, nil
}

// Cells reads the named property as a list of cells.
func Cells(n *dt.Node, name string) ([]uint32, bool, error) {
	v, ok := Property(n, name)
	if !ok {
		return nil, false, nil
	}
	if len(v)%4 != 0 {
		return nil, true, fmt.Errorf("property %q: length %d is not a multiple of 4", name, len(v))
	}
	c := make([]uint32, len(v)/4)
	for i := range c {
		c[i] = binary.BigEndian.Uint32(v[i*4:])
	}
	return c, true, nil
}

// Strings reads the named property as a NUL separated string list.
func Strings(n *dt.Node, name string) []string {
	v, ok := Property(n, name)
	if !ok {
		return nil
	}
	var s []string
	for _, b := range bytes.Split(v, []byte{0}) {
		if len(b) > 0 {
			s = append(s, string(b))
		}
	}
	return s
}
