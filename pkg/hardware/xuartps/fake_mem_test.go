// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xuartps

import (
	"fmt"
	"testing"
)

type op struct {
	write   bool
	address uintptr
	data    uint32
}

// fakeMem replays an expected sequence of register accesses.
type fakeMem struct {
	t      *testing.T
	ops    []op
	closed bool
}

func opstr(o *op) string {
	t := "read"
	if o.write {
		t = "write"
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", t, o.address, o.data)
}

func (m *fakeMem) next(what string, a uintptr) (op, bool) {
	m.t.Helper()
	if len(m.ops) == 0 {
		m.t.Errorf("Unexpected %s on %08x", what, a)
		return op{}, false
	}
	o := m.ops[0]
	m.ops = m.ops[1:]
	return o, true
}

func (m *fakeMem) MustRead32(a uintptr) uint32 {
	m.t.Helper()
	o, ok := m.next("read", a)
	if !ok {
		return 0
	}
	if o.write || o.address != a {
		m.t.Errorf("Expected %s, got read on %08x", opstr(&o), a)
	}
	return o.data
}

func (m *fakeMem) MustWrite32(a uintptr, d uint32) {
	m.t.Helper()
	o, ok := m.next(fmt.Sprintf("write of %08x", d), a)
	if !ok {
		return
	}
	if !o.write || o.address != a || o.data != d {
		m.t.Errorf("Expected %s, got write of %08x on %08x", opstr(&o), d, a)
	}
}

func (m *fakeMem) ExpectWrite32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{true, a, d})
}

func (m *fakeMem) FakeRead32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{false, a, d})
}

// Done fails the test if part of the script was not replayed.
func (m *fakeMem) Done() {
	m.t.Helper()
	for i := range m.ops {
		m.t.Errorf("Expected %s, never happened", opstr(&m.ops[i]))
	}
}

func (m *fakeMem) Close() {
	m.closed = true
}

func fakeMemory(t *testing.T) *fakeMem {
	return &fakeMem{t: t}
}
