// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package boot runs the platform bring-up that happens before control is
// handed to the application: device tree validation, memory regions, the
// serial console, the interrupt controller and the RTC.
package boot

import (
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"github.com/u-root/uzynq/pkg/console"
	"github.com/u-root/uzynq/pkg/devicetree"
	"github.com/u-root/uzynq/pkg/hardware/xuartps"
	"github.com/u-root/uzynq/pkg/logger"
	"github.com/u-root/uzynq/pkg/metric"
	"go.uber.org/zap"
)

var (
	log = logger.LogContainer.GetSimpleLogger()

	stageSeconds = metric.Histogram(metric.MetricOpts{
		Namespace: "uzynq",
		Subsystem: "boot",
		Name:      "stage_seconds",
	}, "Time spent in each boot stage.", []string{"stage"})
)

type InterruptController interface {
	Init() error
}

type RTC interface {
	Init(t *devicetree.Tree) error
}

// EntryFunc is the application entry point. It normally does not return.
type EntryFunc func(name string, args []string) error

// Config is the platform configuration assembled during boot.
type Config struct {
	DTB     []byte
	Console console.State
	Regions Regions
}

type Sequencer struct {
	AppName        string
	ConsoleEnabled bool
	RTCEnabled     bool
	Source         console.Source
	Layout         Layout

	// OpenMem maps the console registers at base.
	OpenMem func(base uintptr) (xuartps.MemProvider, error)
	// OnConsole is called once the console is ready, typically to move
	// logging onto it.
	OnConsole           func(u *xuartps.Uart)
	InterruptController InterruptController
	RTC                 RTC
	Entry               EntryFunc

	Clock clock.Clock
	Log   *zap.SugaredLogger

	conf Config
	uart *xuartps.Uart
}

// Config returns the configuration built by Start so far.
func (s *Sequencer) Config() Config {
	return s.conf
}

// Console returns the console driver, or nil if it was not brought up.
func (s *Sequencer) Console() *xuartps.Uart {
	return s.uart
}

func (s *Sequencer) clk() clock.Clock {
	if s.Clock == nil {
		return clock.New()
	}
	return s.Clock
}

func (s *Sequencer) sugar() *zap.SugaredLogger {
	if s.Log == nil {
		return log
	}
	return s.Log
}

func (s *Sequencer) timed(stage string, f func() error) error {
	clk := s.clk()
	t0 := clk.Now()
	err := f()
	d := clk.Now().Sub(t0)
	stageSeconds.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		s.sugar().Errorf("%s failed after %v: %v", stage, d, err)
		return err
	}
	s.sugar().Infof("%s done in %v", stage, d.Round(time.Microsecond))
	return nil
}

// Start brings the platform up using the device tree in blob and then calls
// Entry. Any error before Entry is fatal to the boot.
func (s *Sequencer) Start(blob []byte) error {
	var tree *devicetree.Tree
	err := s.timed("devicetree", func() error {
		var err error
		tree, err = devicetree.Parse(blob)
		if err != nil {
			return err
		}
		s.conf.DTB = blob[:tree.Size()]
		return nil
	})
	if err != nil {
		return err
	}

	err = s.timed("memory", func() error {
		r, err := ComputeRegions(s.Layout, uintptr(tree.Size()))
		if err != nil {
			return err
		}
		s.conf.Regions = r
		s.sugar().Infof("Page table %v, heap %v, boot stack %v, device tree %v",
			r.PageTable, r.Heap, r.BootStack, r.DTB)
		return nil
	})
	if err != nil {
		return err
	}

	if s.ConsoleEnabled {
		if err := s.timed("console", func() error { return s.initConsole(tree) }); err != nil {
			return err
		}
	}

	err = s.timed("interrupts", func() error {
		if err := s.InterruptController.Init(); err != nil {
			return fmt.Errorf("interrupt controller: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.RTCEnabled {
		// The boot continues without a boot timestamp.
		s.timed("rtc", func() error { return s.RTC.Init(tree) })
	}

	s.sugar().Infof("Entering %s", s.AppName)
	return s.Entry(s.AppName, nil)
}

func (s *Sequencer) initConsole(tree *devicetree.Tree) error {
	st, err := s.Source.Console(tree)
	if err != nil {
		return err
	}
	s.conf.Console = st
	d, err := xuartps.Solve(st.Baud, st.ClockHz)
	if err != nil {
		return err
	}
	mem, err := s.OpenMem(st.Base)
	if err != nil {
		return fmt.Errorf("map console registers at %#x: %w", st.Base, err)
	}
	u := xuartps.OpenWithMemory(mem, st.Base)
	u.Reset()
	if err := u.Configure(); err != nil {
		u.Close()
		return err
	}
	if err := u.SetBaud(d); err != nil {
		u.Close()
		return err
	}
	s.uart = u
	s.conf.Console.Initialized = true
	s.sugar().Infof("Console %v from %v, %v", st, s.Source, d)
	if s.OnConsole != nil {
		s.OnConsole(u)
	}
	return nil
}
