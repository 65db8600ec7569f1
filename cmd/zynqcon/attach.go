// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/mattn/go-tty"
	"github.com/spf13/cobra"
	"github.com/tarm/serial"
	"github.com/u-root/uzynq/pkg/console"
)

// Ctrl-] leaves the session, as in telnet.
const escape = 0x1d

func newAttachCmd() *cobra.Command {
	var (
		port string
		dtb  string
		baud int
	)
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Connect the terminal to the board console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dtb != "" {
				_, st, err := discover(dtb)
				if err != nil {
					return err
				}
				baud = int(st.Baud)
			}
			return attach(port, baud)
		},
	}
	cmd.Flags().StringVar(&port, "port", "/dev/ttyUSB0", "serial device wired to the board UART")
	cmd.Flags().StringVar(&dtb, "dtb", "", "take the baud rate from this device tree")
	cmd.Flags().IntVar(&baud, "baud", console.DefaultBaud, "line rate, ignored with --dtb")
	return cmd
}

func attach(port string, baud int) error {
	s, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return fmt.Errorf("serial.OpenPort: %v", err)
	}
	defer s.Close()

	t, err := tty.Open()
	if err != nil {
		return err
	}
	defer t.Close()
	restore, err := t.Raw()
	if err != nil {
		return err
	}
	defer restore()

	log.Infof("Connected to %s at %d baud, Ctrl-] to quit", port, baud)
	go func() {
		if _, err := io.Copy(t.Output(), s); err != nil {
			log.Errorf("UART read error: %v", err)
		}
	}()
	return relay(t, s)
}

type runeReader interface {
	ReadRune() (rune, error)
}

// relay forwards keystrokes to the board until the escape key.
func relay(in runeReader, out io.Writer) error {
	buf := make([]byte, utf8.UTFMax)
	for {
		r, err := in.ReadRune()
		if err != nil {
			return err
		}
		if r == escape {
			return nil
		}
		n := utf8.EncodeRune(buf, r)
		if _, err := out.Write(buf[:n]); err != nil {
			return fmt.Errorf("UART write error: %v", err)
		}
	}
}
