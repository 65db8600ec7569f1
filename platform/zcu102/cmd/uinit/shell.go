// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/u-root/uzynq/pkg/boot"
	"github.com/u-root/uzynq/pkg/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

const (
	ctrlD = 0x04
	del   = 0x7f
	bs    = 0x08

	pollInterval = 5 * time.Millisecond
)

// terminal is the part of the UART driver the shell needs.
type terminal interface {
	io.Writer
	TryReadByte() (byte, bool)
}

// crlfWriter turns line feeds into the CR LF pairs a serial terminal
// expects.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// shell is the application started once boot is complete: a line editor on
// the polled console with a handful of inspection commands.
type shell struct {
	name  string
	con   terminal
	out   io.Writer
	conf  boot.Config
	sleep func(time.Duration)
}

func newShell(name string, con terminal, conf boot.Config) *shell {
	s := &shell{name: name, conf: conf, sleep: time.Sleep}
	if con != nil {
		s.con = con
		s.out = crlfWriter{con}
	}
	return s
}

// run serves commands until Ctrl-D or "halt".
func (s *shell) run() error {
	if s.con == nil {
		log.Warnf("%s: no console, nothing to do", s.name)
		return nil
	}
	fmt.Fprintf(s.out, "\n%s ready. Type help for commands.\n", s.name)
	for {
		fmt.Fprintf(s.out, "%s> ", s.name)
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}
		if quit := s.exec(strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

func (s *shell) readLine() (string, bool) {
	var line []byte
	for {
		b, ok := s.con.TryReadByte()
		if !ok {
			s.sleep(pollInterval)
			continue
		}
		switch b {
		case ctrlD:
			return "", false
		case '\r', '\n':
			fmt.Fprintln(s.out)
			return string(line), true
		case del, bs:
			if len(line) > 0 {
				line = line[:len(line)-1]
				s.out.Write([]byte("\b \b"))
			}
		default:
			line = append(line, b)
			s.out.Write([]byte{b})
		}
	}
}

func (s *shell) exec(line string) bool {
	f := strings.Fields(line)
	if len(f) == 0 {
		return false
	}
	switch f[0] {
	case "help":
		fmt.Fprintln(s.out, "console  show console settings")
		fmt.Fprintln(s.out, "regions  show boot memory regions")
		fmt.Fprintln(s.out, "echo     print arguments")
		fmt.Fprintln(s.out, "halt     stop the system")
	case "console":
		fmt.Fprintln(s.out, s.conf.Console)
	case "regions":
		r := s.conf.Regions
		fmt.Fprintf(s.out, "page table  %v\n", r.PageTable)
		fmt.Fprintf(s.out, "heap        %v\n", r.Heap)
		fmt.Fprintf(s.out, "boot stack  %v\n", r.BootStack)
		fmt.Fprintf(s.out, "device tree %v\n", r.DTB)
	case "echo":
		fmt.Fprintln(s.out, strings.Join(f[1:], " "))
	case "halt":
		return true
	default:
		fmt.Fprintf(s.out, "%s: unknown command\n", f[0])
	}
	return false
}
