// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shutdown stops the system, either on request or because the boot
// failed.
package shutdown

import (
	"errors"
	"fmt"

	"github.com/u-root/uzynq/pkg/kernel"
	"github.com/u-root/uzynq/pkg/logger"
	"go.uber.org/zap"
)

var log = logger.LogContainer.GetSimpleLogger()

// Reason says why the system is going down.
type Reason int

const (
	Halt Reason = iota
	Restart
	Crash
)

func (r Reason) String() string {
	switch r {
	case Halt:
		return "halt"
	case Restart:
		return "restart"
	case Crash:
		return "crash"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

type Terminator struct {
	// PowerOff asks the platform to turn the system off, or to restart it.
	// It returns only on failure.
	PowerOff func(Reason) error
	// Halt stops the CPU. It does not return in production.
	Halt func()

	Log *zap.SugaredLogger
}

func (t *Terminator) sugar() *zap.SugaredLogger {
	if t.Log == nil {
		return log
	}
	return t.Log
}

// Terminate tries to power the system off and halts if that fails. There
// are no retries.
func (t *Terminator) Terminate(r Reason) {
	t.sugar().Infof("System halted (%v)", r)
	if err := t.PowerOff(r); err != nil {
		t.sugar().Errorf("Power off failed: %v", err)
	}
	t.Halt()
}

// Crash reports an unrecoverable error and terminates.
func (t *Terminator) Crash(err error) {
	var kerr *kernel.Error
	if errors.As(err, &kerr) {
		t.sugar().Errorf("[%s] unrecoverable error: %s: %s", kerr.Module, kerr.Kind, kerr.Message)
	} else {
		t.sugar().Errorf("unrecoverable error: %v", err)
	}
	t.Terminate(Crash)
}
