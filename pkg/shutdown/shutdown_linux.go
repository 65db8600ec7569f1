// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shutdown

import (
	"time"

	"golang.org/x/sys/unix"
)

// SystemOff syncs filesystems and powers off, or restarts for Restart.
func SystemOff(r Reason) error {
	unix.Sync()
	cmd := unix.LINUX_REBOOT_CMD_POWER_OFF
	if r == Restart {
		cmd = unix.LINUX_REBOOT_CMD_RESTART
	}
	return unix.Reboot(cmd)
}

// CPUHalt halts the machine. If the kernel refuses, the calling goroutine
// parks forever.
func CPUHalt() {
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_HALT); err != nil {
		log.Errorf("Halt failed: %v", err)
	}
	for {
		time.Sleep(time.Hour)
	}
}

// Default returns a Terminator that uses reboot(2).
func Default() *Terminator {
	return &Terminator{PowerOff: SystemOff, Halt: CPUHalt}
}
