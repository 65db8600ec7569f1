// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Driver for the Cadence UART found in the Zynq and Zynq UltraScale+
// processing system (devicetree compatible "xlnx,xuartps").
//
// The driver is polled. It never enables interrupts and never buffers beyond
// the 64 byte hardware FIFOs. Bring-up is strictly ordered:
//
//	u := xuartps.OpenWithMemory(mem, base)
//	u.Reset()
//	u.Configure()
//	u.SetBaud(d)
//
// Until SetBaud succeeds all reads and writes are silently dropped, so code
// that logs before the console exists does not need to check.
package xuartps

import (
	"fmt"

	"github.com/u-root/uzynq/pkg/kernel"
	"github.com/u-root/uzynq/pkg/logger"
	"github.com/u-root/uzynq/pkg/metric"
)

var (
	log = logger.LogContainer.GetSimpleLogger()

	txBytes = metric.Counter(metric.MetricOpts{
		Namespace: "uzynq",
		Subsystem: "console",
		Name:      "tx_bytes_total",
	}, "Bytes written to the console transmit FIFO.")
	rxBytes = metric.Counter(metric.MetricOpts{
		Namespace: "uzynq",
		Subsystem: "console",
		Name:      "rx_bytes_total",
	}, "Bytes taken from the console receive FIFO.")
	rxEmptyPolls = metric.Counter(metric.MetricOpts{
		Namespace: "uzynq",
		Subsystem: "console",
		Name:      "rx_empty_polls_total",
	}, "Receive polls that found the FIFO empty.")
)

type State int

const (
	StateUnconfigured State = iota
	StateReset
	StateConfigured
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateReset:
		return "reset"
	case StateConfigured:
		return "configured"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Uart struct {
	mem   MemProvider
	base  uintptr
	state State
}

// OpenWithMemory returns an unconfigured driver for the controller at base.
// The driver owns mem from here on.
func OpenWithMemory(mem MemProvider, base uintptr) *Uart {
	return &Uart{mem: mem, base: base}
}

func (u *Uart) Close() {
	u.mem.Close()
}

func (u *Uart) Base() uintptr {
	return u.base
}

func (u *Uart) State() State {
	return u.state
}

func (u *Uart) Ready() bool {
	return u.state == StateReady
}

func (u *Uart) write(reg uintptr, v uint32) {
	u.mem.MustWrite32(u.base+reg, v)
}

func (u *Uart) status() ChannelStatus {
	return ChannelStatus(u.mem.MustRead32(u.base + CHAN_STAT))
}

func (u *Uart) transition(from, to State) error {
	if u.state != from {
		return kernel.Errorf(kernel.InvalidState, "xuartps",
			fmt.Sprintf("cannot enter %v from %v", to, u.state))
	}
	u.state = to
	return nil
}

// Reset resets both data paths. It can be called in any state and leaves the
// driver in StateReset.
func (u *Uart) Reset() {
	u.write(CTRL, uint32(CtrlRxReset|CtrlTxReset))
	u.state = StateReset
}

// Configure masks and clears every interrupt source, sets the FIFO trigger
// levels and receive timeout, and enables both directions.
func (u *Uart) Configure() error {
	if err := u.transition(StateReset, StateConfigured); err != nil {
		return err
	}
	u.write(IDIS, uint32(IntAll))
	u.write(ISTAT, uint32(IntAll))
	u.write(MODEMSR, uint32(ModemStatDeltas))
	u.write(RX_WATER, rxWater)
	u.write(RX_TIMEO, rxTimeout)
	u.write(TX_WATER, txWater)
	u.write(CTRL, uint32(CtrlRxEnable|CtrlTxEnable|CtrlTimeoutRestart|CtrlStopBreak))
	u.write(MODEMCR, uint32(ModemCtrlDTR|ModemCtrlRTS))
	return nil
}

// SetBaud programs the divisor pair and makes the console usable.
func (u *Uart) SetBaud(d DivisorResult) error {
	if err := u.transition(StateConfigured, StateReady); err != nil {
		return err
	}
	u.write(BAUDDIV, d.Divisor)
	u.write(BAUDGEN, d.Generator)
	return nil
}

// WriteByte blocks until b has left the transmitter. It never fails.
func (u *Uart) WriteByte(b byte) error {
	if u.state != StateReady {
		return nil
	}
	for u.status().Has(StatTxFull) {
	}
	u.write(FIFO, uint32(b))
	for !u.status().Has(StatTxEmpty) {
	}
	txBytes.Inc()
	return nil
}

// Write transmits p byte by byte. Nothing is written while the driver is not
// ready, and 0 is returned.
func (u *Uart) Write(p []byte) (int, error) {
	if u.state != StateReady {
		return 0, nil
	}
	for _, b := range p {
		u.WriteByte(b)
	}
	return len(p), nil
}

// TryReadByte returns the next received byte, if there is one.
func (u *Uart) TryReadByte() (byte, bool) {
	if u.state != StateReady {
		return 0, false
	}
	if u.status().Has(StatRxEmpty) {
		rxEmptyPolls.Inc()
		return 0, false
	}
	rxBytes.Inc()
	return byte(u.mem.MustRead32(u.base + FIFO)), true
}

// Read drains up to len(p) bytes from the receive FIFO. It does not wait for
// data and returns 0, nil when there is none.
func (u *Uart) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, ok := u.TryReadByte()
		if !ok {
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}
