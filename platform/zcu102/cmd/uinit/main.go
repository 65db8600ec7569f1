// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"github.com/spf13/afero"
	"github.com/u-root/uzynq/config"
	"github.com/u-root/uzynq/pkg/devicetree"
	"github.com/u-root/uzynq/pkg/hardware/rtc"
	"github.com/u-root/uzynq/pkg/hardware/xuartps"
	"github.com/u-root/uzynq/pkg/logger"
	uplatform "github.com/u-root/uzynq/pkg/platform"
	"github.com/u-root/uzynq/pkg/shutdown"
	"github.com/u-root/uzynq/platform/zcu102/pkg/platform"
)

func openMem(base uintptr) (xuartps.MemProvider, error) {
	m, err := xuartps.OpenDevMem(base)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func main() {
	p := platform.Platform()
	defer p.Close()
	conf := config.DefaultConfig
	term := shutdown.Default()

	log.Infof("uzynq %s (%s)", conf.Version.Version, conf.Version.GitHash)
	blob, err := devicetree.ReadBlob(afero.NewOsFs(), conf.DTBPath)
	if err != nil {
		term.Crash(err)
	}

	seq := uplatform.NewSequencer(p)
	seq.AppName = conf.AppName
	seq.ConsoleEnabled = conf.ConsoleEnabled
	seq.RTCEnabled = conf.RTC.Enabled
	seq.Source = conf.Console
	seq.OpenMem = openMem
	seq.OnConsole = func(u *xuartps.Uart) {
		logger.SetOutput(crlfWriter{u})
	}
	seq.RTC = rtc.New(conf.RTC.Device)
	seq.Entry = func(name string, args []string) error {
		var con terminal
		if u := seq.Console(); u != nil {
			con = u
		}
		return newShell(name, con, seq.Config()).run()
	}
	if err := seq.Start(blob); err != nil {
		term.Crash(err)
	}
	term.Terminate(shutdown.Halt)
}
