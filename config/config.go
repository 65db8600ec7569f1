// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"github.com/u-root/uzynq/pkg/console"
	"github.com/u-root/uzynq/pkg/hardware/rtc"
)

type Version struct {
	Version string
	GitHash string
}

type RTC struct {
	Enabled bool
	Device  string
}

type Config struct {
	// AppName is passed to the application entry point.
	AppName        string
	ConsoleEnabled bool
	Console        console.Source
	RTC            RTC
	// DTBPath is where the kernel exposes the device tree it booted with.
	DTBPath string
	Version Version
}

// Set with -ldflags "-X github.com/u-root/uzynq/config.gitVersion=..."
var (
	gitVersion = "dev"
	gitHash    = "unknown"
)

var DefaultConfig = &Config{
	AppName: "uzynq",

	// Without a console nothing is printed until the application sets up
	// its own output.
	ConsoleEnabled: true,

	// Either read from the device tree or fixed at build time with the
	// static_console tag, for trees that describe the UART clock through
	// the clock controller.
	Console: consoleSource,

	RTC: RTC{
		Enabled: true,
		Device:  rtc.DefaultDevice,
	},

	DTBPath: "/sys/firmware/fdt",

	Version: Version{
		Version: gitVersion,
		GitHash: gitHash,
	},
}
