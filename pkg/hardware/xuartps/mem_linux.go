// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xuartps

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMem maps one register block from /dev/mem and keeps the mapping for the
// lifetime of the console.
type DevMem struct {
	f    *os.File
	page uintptr
	mem  []byte
}

// OpenDevMem maps the register block at physical address base.
func OpenDevMem(base uintptr) (*DevMem, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, err
	}
	ps := uintptr(unix.Getpagesize())
	page := base &^ (ps - 1)
	size := (base - page + RegisterSpace + ps - 1) &^ (ps - 1)
	mem, err := unix.Mmap(int(f.Fd()), int64(page), int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %#x: %v", page, err)
	}
	return &DevMem{f: f, page: page, mem: mem}, nil
}

func (m *DevMem) word(address uintptr) *uint32 {
	if address < m.page || address-m.page+4 > uintptr(len(m.mem)) || address%4 != 0 {
		panic(fmt.Sprintf("address %#x outside mapping at %#x", address, m.page))
	}
	return (*uint32)(unsafe.Pointer(&m.mem[address-m.page]))
}

func (m *DevMem) MustRead32(address uintptr) uint32 {
	return atomic.LoadUint32(m.word(address))
}

func (m *DevMem) MustWrite32(address uintptr, data uint32) {
	atomic.StoreUint32(m.word(address), data)
}

func (m *DevMem) Close() {
	if err := unix.Munmap(m.mem); err != nil {
		log.Warnf("munmap %#x: %v", m.page, err)
	}
	m.f.Close()
}
