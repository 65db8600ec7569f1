// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xuartps

// Register offsets from the controller base. All registers are 32 bits wide.
// See Zynq UltraScale+ TRM (UG1085), UART register summary.
const (
	CTRL      uintptr = 0x00 // Control
	MODE      uintptr = 0x04 // Mode
	IEN       uintptr = 0x08 // Interrupt enable
	IDIS      uintptr = 0x0c // Interrupt disable
	IMASK     uintptr = 0x10 // Interrupt mask
	ISTAT     uintptr = 0x14 // Channel interrupt status (write 1 to clear)
	BAUDGEN   uintptr = 0x18 // Baud rate generator
	RX_TIMEO  uintptr = 0x1c // Receiver timeout
	RX_WATER  uintptr = 0x20 // Receiver FIFO trigger level
	MODEMCR   uintptr = 0x24 // Modem control
	MODEMSR   uintptr = 0x28 // Modem status
	CHAN_STAT uintptr = 0x2c // Channel status
	FIFO      uintptr = 0x30 // Transmit and receive FIFO
	BAUDDIV   uintptr = 0x34 // Baud rate divider
	FLOWDEL   uintptr = 0x38 // Flow control delay
	TX_WATER  uintptr = 0x44 // Transmitter FIFO trigger level

	// Size of the register block.
	RegisterSpace = 0x1000

	FIFOSize = 64
)

// Control is the CTRL register.
type Control uint32

const (
	CtrlRxReset   Control = 1 << 0
	CtrlTxReset   Control = 1 << 1
	CtrlRxEnable  Control = 1 << 2
	CtrlRxDisable Control = 1 << 3
	CtrlTxEnable  Control = 1 << 4
	CtrlTxDisable Control = 1 << 5
	// Restart the receiver timeout counter.
	CtrlTimeoutRestart Control = 1 << 6
	CtrlStartBreak     Control = 1 << 7
	CtrlStopBreak      Control = 1 << 8
)

// Mode is the MODE register. The reset value (8N1, uart_ref_clk) is what the
// console uses, so it is never written.
type Mode uint32

const (
	ModeClockDiv8 Mode = 1 << 0

	Mode8Bit Mode = 0 << 1
	Mode7Bit Mode = 2 << 1
	Mode6Bit Mode = 3 << 1

	ModeParityEven  Mode = 0 << 3
	ModeParityOdd   Mode = 1 << 3
	ModeParitySpace Mode = 2 << 3
	ModeParityMark  Mode = 3 << 3
	ModeParityNone  Mode = 4 << 3

	ModeStop2 Mode = 2 << 6

	ModeAutoEcho   Mode = 1 << 8
	ModeLocalLoop  Mode = 2 << 8
	ModeRemoteLoop Mode = 3 << 8
)

// Interrupt is the bit layout shared by IEN, IDIS, IMASK and ISTAT.
type Interrupt uint32

const (
	IntRxTrigger    Interrupt = 1 << 0
	IntRxEmpty      Interrupt = 1 << 1
	IntRxFull       Interrupt = 1 << 2
	IntTxEmpty      Interrupt = 1 << 3
	IntTxFull       Interrupt = 1 << 4
	IntRxOverflow   Interrupt = 1 << 5
	IntFraming      Interrupt = 1 << 6
	IntParity       Interrupt = 1 << 7
	IntRxTimeout    Interrupt = 1 << 8
	IntModemStatus  Interrupt = 1 << 9
	IntTxTrigger    Interrupt = 1 << 10
	IntTxNearlyFull Interrupt = 1 << 11
	IntTxOverflow   Interrupt = 1 << 12

	IntAll Interrupt = 0x1fff
)

// ModemControl is the MODEMCR register.
type ModemControl uint32

const (
	ModemCtrlDTR ModemControl = 1 << 0
	ModemCtrlRTS ModemControl = 1 << 1
	// Automatic flow control.
	ModemCtrlFCM ModemControl = 1 << 5
)

// ModemStatus is the MODEMSR register. The delta bits are write 1 to clear.
type ModemStatus uint32

const (
	ModemStatDeltaCTS ModemStatus = 1 << 0
	ModemStatDeltaDSR ModemStatus = 1 << 1
	ModemStatTrailRI  ModemStatus = 1 << 2
	ModemStatDeltaDCD ModemStatus = 1 << 3
	ModemStatCTS      ModemStatus = 1 << 4
	ModemStatDSR      ModemStatus = 1 << 5
	ModemStatRI       ModemStatus = 1 << 6
	ModemStatDCD      ModemStatus = 1 << 7
	ModemStatFCMS     ModemStatus = 1 << 8

	ModemStatDeltas = ModemStatDeltaDCD | ModemStatTrailRI | ModemStatDeltaDSR | ModemStatDeltaCTS
)

// ChannelStatus is the CHAN_STAT register.
type ChannelStatus uint32

const (
	StatRxTrigger    ChannelStatus = 1 << 0
	StatRxEmpty      ChannelStatus = 1 << 1
	StatTxEmpty      ChannelStatus = 1 << 3
	StatTxFull       ChannelStatus = 1 << 4
	StatRxActive     ChannelStatus = 1 << 10
	StatTxActive     ChannelStatus = 1 << 11
	StatFlowDelay    ChannelStatus = 1 << 12
	StatTxTrigger    ChannelStatus = 1 << 13
	StatTxNearlyFull ChannelStatus = 1 << 14
)

// Has reports whether all bits of f are set in s.
func (s ChannelStatus) Has(f ChannelStatus) bool {
	return s&f == f
}

const (
	// Receiver timeout in units of four bit periods.
	rxTimeout = 10
	rxWater   = FIFOSize / 2
	txWater   = FIFOSize / 2
)
