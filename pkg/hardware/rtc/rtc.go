// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rtc records the wall clock at boot from the ZynqMP real time
// clock, when the device tree describes one.
package rtc

import (
	"fmt"
	"time"

	"github.com/cleroux/rtc"
	"github.com/u-root/uzynq/pkg/devicetree"
	"github.com/u-root/uzynq/pkg/kernel"
	"github.com/u-root/uzynq/pkg/logger"
)

const (
	Compatible    = "xlnx,zynqmp-rtc"
	DefaultDevice = "/dev/rtc0"
)

var log = logger.LogContainer.GetSimpleLogger()

type RTC struct {
	Device string
	// Boot is the RTC time read by Init.
	Boot time.Time

	read func(dev string) (time.Time, error)
}

func New(dev string) *RTC {
	return &RTC{Device: dev, read: readDevice}
}

func readDevice(dev string) (time.Time, error) {
	r, err := rtc.NewRTC(dev)
	if err != nil {
		return time.Time{}, err
	}
	defer r.Close()
	return r.Time()
}

// Init reads the boot time if the tree has an RTC node.
func (r *RTC) Init(t *devicetree.Tree) error {
	n, ok := t.FindCompatible(Compatible)
	if !ok {
		return kernel.Errorf(kernel.DeviceNotFound, "rtc", fmt.Sprintf("no node compatible with %q", Compatible))
	}
	tm, err := r.read(r.Device)
	if err != nil {
		return fmt.Errorf("read %s: %v", r.Device, err)
	}
	r.Boot = tm
	log.Infof("RTC %s reads %v", t.Path(n), tm.UTC())
	return nil
}
