// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xuartps

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/u-root/uzynq/pkg/kernel"
)

const base = 0xff010000

func readyUart(m *fakeMem) *Uart {
	return &Uart{mem: m, base: base, state: StateReady}
}

func TestBringUp(t *testing.T) {
	m := fakeMemory(t)
	m.ExpectWrite32(base+CTRL, 0x3)
	m.ExpectWrite32(base+IDIS, 0x1fff)
	m.ExpectWrite32(base+ISTAT, 0x1fff)
	m.ExpectWrite32(base+MODEMSR, 0xf)
	m.ExpectWrite32(base+RX_WATER, 32)
	m.ExpectWrite32(base+RX_TIMEO, 10)
	m.ExpectWrite32(base+TX_WATER, 32)
	m.ExpectWrite32(base+CTRL, 0x154)
	m.ExpectWrite32(base+MODEMCR, 0x3)
	m.ExpectWrite32(base+BAUDDIV, 6)
	m.ExpectWrite32(base+BAUDGEN, 124)

	u := OpenWithMemory(m, base)
	if u.State() != StateUnconfigured {
		t.Fatalf("new driver in state %v", u.State())
	}
	u.Reset()
	if err := u.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := u.SetBaud(DivisorResult{Divisor: 6, Generator: 124}); err != nil {
		t.Fatalf("SetBaud: %v", err)
	}
	if !u.Ready() {
		t.Errorf("driver in state %v after SetBaud, want ready", u.State())
	}
	m.Done()

	u.Close()
	if !m.closed {
		t.Errorf("Close did not release memory")
	}
}

func TestOutOfOrder(t *testing.T) {
	tests := []struct {
		name  string
		state State
		step  func(u *Uart) error
	}{
		{"configure unconfigured", StateUnconfigured, (*Uart).Configure},
		{"configure twice", StateConfigured, (*Uart).Configure},
		{"configure ready", StateReady, (*Uart).Configure},
		{"baud unconfigured", StateUnconfigured, func(u *Uart) error { return u.SetBaud(DivisorResult{Divisor: 6, Generator: 124}) }},
		{"baud after reset", StateReset, func(u *Uart) error { return u.SetBaud(DivisorResult{Divisor: 6, Generator: 124}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fakeMemory(t)
			u := &Uart{mem: m, base: base, state: tt.state}
			err := tt.step(u)
			if !errors.Is(err, kernel.InvalidState) {
				t.Errorf("got %v, want %v", err, kernel.InvalidState)
			}
			if u.State() != tt.state {
				t.Errorf("state changed to %v", u.State())
			}
			m.Done()
		})
	}
}

func TestResetFromReady(t *testing.T) {
	m := fakeMemory(t)
	m.ExpectWrite32(base+CTRL, uint32(CtrlRxReset|CtrlTxReset))
	u := readyUart(m)
	u.Reset()
	if u.State() != StateReset {
		t.Errorf("state %v after Reset, want reset", u.State())
	}
	m.Done()
}

func TestWriteByteSpins(t *testing.T) {
	m := fakeMemory(t)
	m.FakeRead32(base+CHAN_STAT, uint32(StatTxFull))
	m.FakeRead32(base+CHAN_STAT, uint32(StatTxFull|StatRxEmpty))
	m.FakeRead32(base+CHAN_STAT, uint32(StatRxEmpty))
	m.ExpectWrite32(base+FIFO, 'A')
	m.FakeRead32(base+CHAN_STAT, uint32(StatTxActive))
	m.FakeRead32(base+CHAN_STAT, uint32(StatTxEmpty))

	before := testutil.ToFloat64(txBytes)
	u := readyUart(m)
	if err := u.WriteByte('A'); err != nil {
		t.Errorf("WriteByte: %v", err)
	}
	m.Done()
	if d := testutil.ToFloat64(txBytes) - before; d != 1 {
		t.Errorf("tx counter moved by %v, want 1", d)
	}
}

func TestWrite(t *testing.T) {
	m := fakeMemory(t)
	for _, b := range []byte("ok\n") {
		m.FakeRead32(base+CHAN_STAT, uint32(StatTxEmpty))
		m.ExpectWrite32(base+FIFO, uint32(b))
		m.FakeRead32(base+CHAN_STAT, uint32(StatTxEmpty))
	}
	n, err := readyUart(m).Write([]byte("ok\n"))
	if n != 3 || err != nil {
		t.Errorf("Write = %d, %v; want 3, nil", n, err)
	}
	m.Done()
}

func TestInertUntilReady(t *testing.T) {
	for _, s := range []State{StateUnconfigured, StateReset, StateConfigured} {
		t.Run(s.String(), func(t *testing.T) {
			m := fakeMemory(t)
			u := &Uart{mem: m, base: base, state: s}
			if n, err := u.Write([]byte("lost")); n != 0 || err != nil {
				t.Errorf("Write = %d, %v; want 0, nil", n, err)
			}
			if err := u.WriteByte('x'); err != nil {
				t.Errorf("WriteByte: %v", err)
			}
			if _, ok := u.TryReadByte(); ok {
				t.Errorf("TryReadByte returned data")
			}
			if n, err := u.Read(make([]byte, 8)); n != 0 || err != nil {
				t.Errorf("Read = %d, %v; want 0, nil", n, err)
			}
			m.Done()
		})
	}
}

func TestRead(t *testing.T) {
	m := fakeMemory(t)
	m.FakeRead32(base+CHAN_STAT, 0)
	// Only the low byte of the FIFO register is data.
	m.FakeRead32(base+FIFO, 0x100|'h')
	m.FakeRead32(base+CHAN_STAT, uint32(StatRxTrigger))
	m.FakeRead32(base+FIFO, 'i')
	m.FakeRead32(base+CHAN_STAT, uint32(StatRxEmpty|StatTxEmpty))

	before := testutil.ToFloat64(rxBytes)
	p := make([]byte, 4)
	n, err := readyUart(m).Read(p)
	if err != nil || n != 2 || string(p[:n]) != "hi" {
		t.Errorf("Read = %d %q, %v; want 2 \"hi\", nil", n, p[:n], err)
	}
	m.Done()
	if d := testutil.ToFloat64(rxBytes) - before; d != 2 {
		t.Errorf("rx counter moved by %v, want 2", d)
	}
}

func TestReadStopsAtBufferEnd(t *testing.T) {
	m := fakeMemory(t)
	m.FakeRead32(base+CHAN_STAT, 0)
	m.FakeRead32(base+FIFO, 'x')
	p := make([]byte, 1)
	if n, _ := readyUart(m).Read(p); n != 1 || p[0] != 'x' {
		t.Errorf("Read = %d %q, want 1 \"x\"", n, p)
	}
	m.Done()
}

func TestReadEmpty(t *testing.T) {
	m := fakeMemory(t)
	m.FakeRead32(base+CHAN_STAT, uint32(StatRxEmpty))

	before := testutil.ToFloat64(rxEmptyPolls)
	n, err := readyUart(m).Read(make([]byte, 16))
	if n != 0 || err != nil {
		t.Errorf("Read = %d, %v; want 0, nil", n, err)
	}
	m.Done()
	if d := testutil.ToFloat64(rxEmptyPolls) - before; d != 1 {
		t.Errorf("empty poll counter moved by %v, want 1", d)
	}
}
